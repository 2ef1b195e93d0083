package mysql

import (
	"context"
	"errors"

	"github.com/fatihtunali/eskisini-3009-sub002/internal/domain"
	"github.com/fatihtunali/eskisini-3009-sub002/internal/repository"

	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

// InsertOrderIfAbsent relies on the unique index over idempotency_key:
// the insert either wins or collides, there is no check-then-act window.
// On collision the already-stored order is returned unchanged.
func (r *orderRepo) InsertOrderIfAbsent(ctx context.Context, order *domain.Order) (*domain.Order, bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Create cascades into order_items through the association, so
		// header and items commit or roll back together.
		return tx.Create(order).Error
	})
	if err == nil {
		return order, false, nil
	}

	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, err
	}

	existing, ferr := r.findByIdempotencyKey(ctx, order.IdempotencyKey)
	if ferr != nil {
		return nil, false, ferr
	}
	if existing == nil {
		// The winner vanished between conflict and re-read. Surface the
		// original conflict; the caller's retry will settle it.
		return nil, false, err
	}
	return existing, true, nil
}

func (r *orderRepo) findByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).Preload("Items").Where("idempotency_key = ?", key).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TransitionStatus is a compare-and-swap on the status column; zero
// affected rows means somebody else moved the order first.
func (r *orderRepo) TransitionStatus(ctx context.Context, orderID uint64, from, to domain.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrStatusConflict
	}
	return nil
}
