package order

// OrderKind distinguishes purchase documents from sale documents.
// The kind determines the stock effect direction: a purchase increments
// quantity on hand, a sale decrements it.
type OrderKind string

const (
	KindPurchase OrderKind = "PURCHASE"
	KindSale     OrderKind = "SALE"
)

// IsValid checks if the kind is a valid OrderKind
func (k OrderKind) IsValid() bool {
	return k == KindPurchase || k == KindSale
}

// String returns the string representation of OrderKind
func (k OrderKind) String() string {
	return string(k)
}

// StockDirection returns the sign of the stock effect this kind applies on
// creation: +1 for purchases, -1 for sales. Cancellation applies the inverse.
func (k OrderKind) StockDirection() int64 {
	if k == KindSale {
		return -1
	}
	return 1
}

// OrderStatus represents the lifecycle state of an order document
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true for CANCELLED, the only state from which no
// further transition is permitted.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCancelled
}

// IsOpen returns true for states that admit further mutation
func (s OrderStatus) IsOpen() bool {
	return s == StatusPending || s == StatusCompleted
}

// CanTransitionTo checks if the status can transition to the target status.
// PENDING and COMPLETED are interchangeable through re-validated updates;
// CANCELLED is reachable from either and re-enters nothing.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case StatusPending:
		return target == StatusCompleted || target == StatusCancelled
	case StatusCompleted:
		return target == StatusPending || target == StatusCancelled
	case StatusCancelled:
		return false
	}
	return false
}
