package http

import "github.com/fatihtunali/eskisini-3009-sub002/internal/domain"

type AddressRequest struct {
	RecipientName string `json:"recipientName"`
	FullAddress   string `json:"fullAddress"`
	City          string `json:"city"`
	Phone         string `json:"phone"`
	PostalCode    string `json:"postalCode"`
}

func (a AddressRequest) toDomain() domain.Address {
	return domain.Address{
		RecipientName: a.RecipientName,
		FullAddress:   a.FullAddress,
		City:          a.City,
		Phone:         a.Phone,
		PostalCode:    a.PostalCode,
	}
}

type CartItemRequest struct {
	ListingID uint64 `json:"listingId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,min=1"`
}

type CheckoutRequest struct {
	// No presence constraint on items: an empty cart must reach the
	// service so it reports the stable empty_cart code.
	Items          []CartItemRequest `json:"items" binding:"dive"`
	Address        AddressRequest    `json:"address"`
	ShippingMethod string            `json:"shippingMethod" binding:"required"`
	PaymentMethod  string            `json:"paymentMethod" binding:"required"`
}

type BuyNowRequest struct {
	ListingID      uint64         `json:"listingId" binding:"required"`
	Quantity       int64          `json:"quantity" binding:"required,min=1"`
	Address        AddressRequest `json:"address"`
	ShippingMethod string         `json:"shippingMethod" binding:"required"`
	PaymentMethod  string         `json:"paymentMethod" binding:"required"`
}

type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

type CreateOrderResponse struct {
	OrderID   uint64 `json:"orderId"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type ErrorResponse struct {
	Code          string   `json:"code"`
	MissingFields []string `json:"missingFields,omitempty"`
}
