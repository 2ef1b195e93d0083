package repository

import (
	"context"
	"errors"

	"github.com/fatihtunali/eskisini-3009-sub002/internal/domain"
)

// ErrStatusConflict means the order's status changed between read and
// write; the caller decides whether the target is still reachable.
var ErrStatusConflict = errors.New("order status changed concurrently")

type OrderRepository interface {
	// InsertOrderIfAbsent stores the order header and its items in one
	// transaction. If another order already holds the same idempotency
	// key it returns that order with duplicate=true and writes nothing.
	InsertOrderIfAbsent(ctx context.Context, order *domain.Order) (*domain.Order, bool, error)

	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error)

	// TransitionStatus flips status from -> to atomically and returns
	// ErrStatusConflict when the stored status no longer matches from.
	TransitionStatus(ctx context.Context, orderID uint64, from, to domain.OrderStatus) error
}
