package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fatihtunali/eskisini-3009-sub002/internal/domain"
	"github.com/fatihtunali/eskisini-3009-sub002/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserIDHeader carries the verified identity established by the auth
// layer in front of this service.
const UserIDHeader = "X-User-ID"

type Handler struct {
	service *services.OrderService
	logger  *zap.Logger
}

func NewHandler(s *services.OrderService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: s, logger: logger}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")
	{
		v1.POST("/checkout", h.Checkout)
		v1.POST("/buy-now", h.BuyNow)
		v1.GET("/orders", h.ListOrders)
		v1.GET("/orders/:id", h.GetOrder)
		v1.POST("/orders/:id/status", h.TransitionStatus)
	}
}

func (h *Handler) Checkout(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "bad_request", "error": err.Error()})
		return
	}

	items := make([]domain.CartItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.CartItem{ListingID: it.ListingID, Quantity: it.Quantity})
	}

	h.createOrder(c, userID, domain.PurchaseIntent{
		Items:          items,
		Address:        req.Address.toDomain(),
		ShippingMethod: domain.ShippingMethod(req.ShippingMethod),
		PaymentMethod:  domain.PaymentMethod(req.PaymentMethod),
	})
}

func (h *Handler) BuyNow(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req BuyNowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "bad_request", "error": err.Error()})
		return
	}

	h.createOrder(c, userID, domain.PurchaseIntent{
		Items:          []domain.CartItem{{ListingID: req.ListingID, Quantity: req.Quantity}},
		Address:        req.Address.toDomain(),
		ShippingMethod: domain.ShippingMethod(req.ShippingMethod),
		PaymentMethod:  domain.PaymentMethod(req.PaymentMethod),
	})
}

func (h *Handler) createOrder(c *gin.Context, userID uint64, intent domain.PurchaseIntent) {
	result, err := h.service.CreateOrder(c.Request.Context(), userID, intent)
	if err != nil {
		h.writeError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		// The order already existed; this request created nothing.
		status = http.StatusOK
	}
	c.JSON(status, CreateOrderResponse{
		OrderID:   result.OrderID,
		Status:    string(result.Status),
		Duplicate: result.Duplicate,
	})
}

func (h *Handler) GetOrder(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "bad_request", "error": "invalid order id"})
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	orders, err := h.service.GetOrdersByUser(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) TransitionStatus(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "bad_request", "error": "invalid order id"})
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "bad_request", "error": err.Error()})
		return
	}

	actor := strconv.FormatUint(userID, 10)
	if err := h.service.Transition(c.Request.Context(), orderID, domain.OrderStatus(req.Status), actor); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderId": orderID, "status": req.Status})
}

func (h *Handler) userID(c *gin.Context) (uint64, bool) {
	raw := c.GetHeader(UserIDHeader)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Code: domain.ErrorCode(domain.ErrUnauthorized)})
		return 0, false
	}
	return id, true
}

// writeError maps each failure kind to one stable code and a transport
// status; messages stay with the presentation layer.
func (h *Handler) writeError(c *gin.Context, err error) {
	resp := ErrorResponse{Code: domain.ErrorCode(err)}

	var addrErr *domain.InvalidAddressError
	if errors.As(err, &addrErr) {
		resp.MissingFields = addrErr.Missing
	}

	status := http.StatusBadRequest
	switch resp.Code {
	case "listing_not_found", "order_not_found":
		status = http.StatusNotFound
	case "self_buy_forbidden":
		status = http.StatusForbidden
	case "unauthorized":
		status = http.StatusUnauthorized
	case "invalid_transition":
		status = http.StatusConflict
	case "server_error":
		status = http.StatusInternalServerError
		h.logger.Error("request failed", zap.Error(err))
	}

	c.JSON(status, resp)
}
