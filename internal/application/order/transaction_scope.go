package order

import (
	"context"

	"github.com/backoffice/backend/internal/domain/order"
	"github.com/backoffice/backend/internal/domain/stock"
)

// TransactionScope wraps a full create/update/cancel operation in one atomic
// unit of work. Every repository obtained from TransactionalRepositories
// shares the same underlying database transaction: all mutations commit
// together or none persist.
type TransactionScope interface {
	// Execute runs fn within a database transaction. If fn returns an
	// error the transaction is rolled back, otherwise it is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the engine's repositories
// scoped to one transaction. Row locks taken through them are held until
// the transaction ends.
type TransactionalRepositories interface {
	// Orders returns the order document repository
	Orders() order.Repository
	// StockEntries returns the stock entry repository
	StockEntries() stock.EntryRepository
	// ProductTotals returns the product stock projection repository
	ProductTotals() stock.ProductTotalRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for tests and for callers that manage atomicity themselves.
type NoOpTransactionScope struct {
	orders  order.Repository
	entries stock.EntryRepository
	totals  stock.ProductTotalRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given
// repositories.
func NewNoOpTransactionScope(orders order.Repository, entries stock.EntryRepository, totals stock.ProductTotalRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{orders: orders, entries: entries, totals: totals}
}

// Execute runs fn directly against the wrapped repositories
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Orders returns the order document repository
func (s *NoOpTransactionScope) Orders() order.Repository { return s.orders }

// StockEntries returns the stock entry repository
func (s *NoOpTransactionScope) StockEntries() stock.EntryRepository { return s.entries }

// ProductTotals returns the product stock projection repository
func (s *NoOpTransactionScope) ProductTotals() stock.ProductTotalRepository { return s.totals }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
