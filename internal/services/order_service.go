package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/fatihtunali/eskisini-3009-sub002/internal/domain"
	"github.com/fatihtunali/eskisini-3009-sub002/internal/infra"
	rabbit "github.com/fatihtunali/eskisini-3009-sub002/internal/infra/rabbitmq"
	"github.com/fatihtunali/eskisini-3009-sub002/internal/pricing"
	"github.com/fatihtunali/eskisini-3009-sub002/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	listingCacheTTL = time.Minute
	orderCacheTTL   = 10 * time.Second
)

// redisCache is the slice of *redis.Client the service touches; tests
// substitute an in-memory implementation.
type redisCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type OrderService struct {
	repo      repository.OrderRepository
	listings  infra.ListingClientInterface
	publisher rabbit.PublisherInterface
	engine    *pricing.Engine
	guard     *DuplicateGuard
	cache     redisCache
	logger    *zap.Logger
	metrics   *Metrics
}

func NewOrderService(repo repository.OrderRepository, listings infra.ListingClientInterface, pub rabbit.PublisherInterface, engine *pricing.Engine, guard *DuplicateGuard, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		repo:      repo,
		listings:  listings,
		publisher: pub,
		engine:    engine,
		guard:     guard,
		logger:    logger,
	}
}

func (s *OrderService) SetRedisClient(client *redis.Client) {
	s.cache = client
}

func (s *OrderService) SetMetrics(m *Metrics) {
	s.metrics = m
}

// CreateOrderResult is what the transport layer sees. Duplicate means
// the intent matched an order that already exists; that is a success,
// not an error.
type CreateOrderResult struct {
	OrderID   uint64             `json:"orderId"`
	Status    domain.OrderStatus `json:"status"`
	Duplicate bool               `json:"duplicate"`
}

// CreateOrder turns a purchase intent into exactly one durable order.
// All validation happens before any write; the idempotency key's unique
// index makes concurrent identical intents settle on a single winner.
func (s *OrderService) CreateOrder(ctx context.Context, userID uint64, intent domain.PurchaseIntent) (*CreateOrderResult, error) {
	if userID == 0 {
		return nil, s.fail(domain.ErrUnauthorized)
	}
	if len(intent.Items) == 0 {
		return nil, s.fail(domain.ErrEmptyCart)
	}

	items, subtotal, err := s.resolveItems(ctx, userID, intent.Items)
	if err != nil {
		return nil, s.fail(err)
	}

	if err := intent.Address.Validate(); err != nil {
		return nil, s.fail(err)
	}

	totals, err := s.engine.ComputeTotals(subtotal, intent.ShippingMethod, intent.PaymentMethod)
	if err != nil {
		return nil, s.fail(err)
	}

	order := &domain.Order{
		UserID:            userID,
		Items:             items,
		Address:           intent.Address,
		ShippingMethod:    intent.ShippingMethod,
		PaymentMethod:     intent.PaymentMethod,
		SubtotalMinor:     subtotal,
		ShippingCostMinor: totals.ShippingCostMinor,
		PaymentFeeMinor:   totals.PaymentFeeMinor,
		TotalMinor:        totals.TotalMinor,
		Currency:          s.engine.Currency(),
		Status:            domain.StatusPending,
		IdempotencyKey:    s.guard.Fingerprint(userID, intent.Items, intent.ShippingMethod, intent.PaymentMethod),
	}

	stored, duplicate, err := s.insertWithRetry(ctx, order)
	if err != nil {
		s.logger.Error("order insert failed",
			zap.Uint64("user_id", userID),
			zap.String("idempotency_key", order.IdempotencyKey),
			zap.Error(err))
		return nil, s.fail(fmt.Errorf("%w: %v", domain.ErrServer, err))
	}

	if duplicate {
		s.metrics.orderDuplicate()
		s.logger.Info("duplicate purchase intent collapsed",
			zap.Uint64("user_id", userID),
			zap.Uint64("order_id", stored.ID))
		return &CreateOrderResult{OrderID: stored.ID, Status: stored.Status, Duplicate: true}, nil
	}

	s.metrics.orderCreated()
	s.logger.Info("order created",
		zap.Uint64("order_id", stored.ID),
		zap.Uint64("user_id", userID),
		zap.Int64("total_minor", stored.TotalMinor))

	if s.cache != nil {
		s.cache.Del(ctx, userOrdersCacheKey(userID))
	}

	go s.publishOrderCreated(context.Background(), stored)

	return &CreateOrderResult{OrderID: stored.ID, Status: stored.Status, Duplicate: false}, nil
}

// resolveItems replaces every client-supplied line with the listing
// service's authoritative state. Price and title are snapshotted here;
// nothing money-bearing is taken from the request.
func (s *OrderService) resolveItems(ctx context.Context, userID uint64, items []domain.CartItem) ([]domain.OrderItem, int64, error) {
	resolved := make([]domain.OrderItem, len(items))

	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if item.Quantity < 1 {
				return domain.ErrInvalidPrice
			}

			listing, err := s.getListingWithCache(gctx, item.ListingID)
			if err != nil {
				return fmt.Errorf("%w: listing %d: %v", domain.ErrServer, item.ListingID, err)
			}
			// Inactive listings report the same code as missing ones so
			// the internal status never leaks.
			if listing == nil || !listing.Active() {
				return domain.ErrListingNotFound
			}
			if listing.PriceMinor <= 0 {
				return domain.ErrInvalidPrice
			}
			if listing.OwnerID == userID {
				return domain.ErrSelfBuyForbidden
			}

			resolved[i] = domain.OrderItem{
				ListingID:      listing.ID,
				Title:          listing.Title,
				UnitPriceMinor: listing.PriceMinor,
				Quantity:       item.Quantity,
				ImageURL:       listing.ImageURL,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var subtotal int64
	for _, it := range resolved {
		if it.UnitPriceMinor > math.MaxInt64/it.Quantity {
			return nil, 0, domain.ErrInvalidPrice
		}
		line := it.UnitPriceMinor * it.Quantity
		if subtotal > math.MaxInt64-line {
			return nil, 0, domain.ErrInvalidPrice
		}
		subtotal += line
	}
	return resolved, subtotal, nil
}

// insertWithRetry retries a failed storage write once. The fingerprint
// makes the retry safe: if the first attempt actually committed, the
// retry lands on the unique index and comes back as a duplicate.
func (s *OrderService) insertWithRetry(ctx context.Context, order *domain.Order) (*domain.Order, bool, error) {
	stored, duplicate, err := s.repo.InsertOrderIfAbsent(ctx, order)
	if err == nil {
		return stored, duplicate, nil
	}
	s.logger.Warn("order insert failed, retrying once",
		zap.String("idempotency_key", order.IdempotencyKey),
		zap.Error(err))
	return s.repo.InsertOrderIfAbsent(ctx, order)
}

func (s *OrderService) getListingWithCache(ctx context.Context, listingID uint64) (*infra.ListingInfo, error) {
	cacheKey := fmt.Sprintf("listing:%d", listingID)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var l infra.ListingInfo
			if err := json.Unmarshal([]byte(cached), &l); err == nil {
				return &l, nil
			}
		}
	}

	listing, err := s.listings.GetListingByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && listing != nil {
		if data, err := json.Marshal(listing); err == nil {
			s.cache.Set(ctx, cacheKey, data, listingCacheTTL)
		}
	}

	return listing, nil
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *domain.Order) {
	evt := domain.OrderCreatedEvent{
		EventID:    uuid.New().String(),
		OrderID:    order.ID,
		UserID:     order.UserID,
		TotalMinor: order.TotalMinor,
		Currency:   order.Currency,
		CreatedAt:  order.CreatedAt,
	}

	if err := s.publisher.Publish(ctx, "order.created", evt); err != nil {
		s.logger.Error("failed to publish order.created",
			zap.Uint64("order_id", order.ID),
			zap.Error(err))
	}
}

// Transition moves an order along the status machine. Any edge outside
// the allowed set fails and leaves the order untouched.
func (s *OrderService) Transition(ctx context.Context, orderID uint64, target domain.OrderStatus, actor string) error {
	if !domain.ValidStatus(target) {
		return &domain.InvalidTransitionError{From: "", To: target}
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrServer, err)
	}
	if order == nil {
		return domain.ErrOrderNotFound
	}

	if !order.Status.CanTransitionTo(target) {
		return &domain.InvalidTransitionError{From: order.Status, To: target}
	}

	if err := s.repo.TransitionStatus(ctx, orderID, order.Status, target); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			// Someone moved the order first; report against what is
			// actually stored now.
			current, ferr := s.repo.FindByID(ctx, orderID)
			if ferr == nil && current != nil {
				return &domain.InvalidTransitionError{From: current.Status, To: target}
			}
			return &domain.InvalidTransitionError{From: order.Status, To: target}
		}
		return fmt.Errorf("%w: %v", domain.ErrServer, err)
	}

	if s.cache != nil {
		s.cache.Del(ctx, orderCacheKey(orderID), userOrdersCacheKey(order.UserID))
	}

	s.logger.Info("order status changed",
		zap.Uint64("order_id", orderID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(target)),
		zap.String("actor", actor))

	go func() {
		evt := map[string]any{
			"orderId": orderID,
			"from":    order.Status,
			"to":      target,
			"actor":   actor,
		}
		if err := s.publisher.Publish(context.Background(), "order.status_changed", evt); err != nil {
			s.logger.Error("failed to publish order.status_changed",
				zap.Uint64("order_id", orderID),
				zap.Error(err))
		}
	}()

	return nil
}

func orderCacheKey(orderID uint64) string {
	return fmt.Sprintf("order:%d", orderID)
}

func userOrdersCacheKey(userID uint64) string {
	return fmt.Sprintf("orders:user:%d", userID)
}

// GetOrder returns the order only to its owner; anyone else sees the
// same not-found as a nonexistent id. Reads go through a short-TTL
// redis cache keyed by order id; the ownership check runs on the
// cached copy too.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uint64) (*domain.Order, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, orderCacheKey(orderID)).Result()
		if err == nil {
			var o domain.Order
			if err := json.Unmarshal([]byte(cached), &o); err == nil {
				if o.UserID != userID {
					return nil, domain.ErrOrderNotFound
				}
				return &o, nil
			}
		}
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrServer, err)
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}

	if s.cache != nil {
		if data, err := json.Marshal(order); err == nil {
			s.cache.Set(ctx, orderCacheKey(orderID), data, orderCacheTTL)
		}
	}

	if order.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) GetOrdersByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	cacheKey := userOrdersCacheKey(userID)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var orders []domain.Order
			if err := json.Unmarshal([]byte(cached), &orders); err == nil {
				return orders, nil
			}
		}
	}

	orders, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrServer, err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(orders); err == nil {
			s.cache.Set(ctx, cacheKey, data, orderCacheTTL)
		}
	}
	return orders, nil
}

func (s *OrderService) fail(err error) error {
	s.metrics.orderFailed(domain.ErrorCode(err))
	return err
}
