package order

import (
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Epsilon is the reconciliation tolerance: one smallest currency unit.
var Epsilon = decimal.New(1, -2)

// SumSubtotals returns the sum of all line-item subtotals
func SumSubtotals(items []LineItem) valueobject.Money {
	sum := valueobject.ZeroMoney()
	for _, item := range items {
		sum = sum.Add(valueobject.NewMoney(item.Subtotal))
	}
	return sum
}

// SumPayments returns the sum of all payment-split amounts
func SumPayments(payments []PaymentSplit) valueobject.Money {
	sum := valueobject.ZeroMoney()
	for _, split := range payments {
		sum = sum.Add(valueobject.NewMoney(split.Amount))
	}
	return sum
}

// ValidateTotals reconciles the line-item subtotal sum and the payment-split
// sum against the declared document total. Both sums must match within
// Epsilon. It is a pure function and must be called before any stock or
// persistence mutation.
func ValidateTotals(items []LineItem, payments []PaymentSplit, declaredTotal decimal.Decimal) error {
	declared := valueobject.NewMoney(declaredTotal)

	itemSum := SumSubtotals(items)
	if !itemSum.WithinTolerance(declared, Epsilon) {
		return &shared.TotalsMismatchError{
			Side:     shared.TotalsSideItems,
			Declared: declaredTotal,
			Actual:   itemSum.Amount(),
		}
	}

	paymentSum := SumPayments(payments)
	if !paymentSum.WithinTolerance(declared, Epsilon) {
		return &shared.TotalsMismatchError{
			Side:     shared.TotalsSidePayments,
			Declared: declaredTotal,
			Actual:   paymentSum.Amount(),
		}
	}

	return nil
}
