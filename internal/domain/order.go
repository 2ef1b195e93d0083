package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// transitions is the full edge set of the order lifecycle. Cancellation
// is reachable from every non-terminal status; nothing else skips a step.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
)

type PaymentMethod string

const (
	PaymentCreditCard     PaymentMethod = "credit_card"
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
)

// Order is the durable result of a checkout. All monetary fields are in
// minor currency units. The idempotency key carries the purchase-intent
// fingerprint; the unique index on it is what makes order creation
// race-safe across service instances.
type Order struct {
	ID                uint64         `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID            uint64         `json:"userId" gorm:"not null;index"`
	Items             []OrderItem    `json:"items" gorm:"foreignKey:OrderID"`
	Address           Address        `json:"address" gorm:"embedded;embeddedPrefix:addr_"`
	ShippingMethod    ShippingMethod `json:"shippingMethod" gorm:"type:varchar(20);not null"`
	PaymentMethod     PaymentMethod  `json:"paymentMethod" gorm:"type:varchar(20);not null"`
	SubtotalMinor     int64          `json:"subtotalMinor" gorm:"not null"`
	ShippingCostMinor int64          `json:"shippingCostMinor" gorm:"not null"`
	PaymentFeeMinor   int64          `json:"paymentFeeMinor" gorm:"not null"`
	TotalMinor        int64          `json:"totalMinor" gorm:"not null"`
	Currency          string         `json:"currency" gorm:"type:char(3);not null"`
	Status            OrderStatus    `json:"status" gorm:"type:varchar(20);not null;index;default:'pending'"`
	IdempotencyKey    string         `json:"-" gorm:"type:varchar(64);not null;uniqueIndex"`
	CreatedAt         time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
}

// OrderItem snapshots title and unit price from the listing at creation
// time; later listing edits never change a placed order.
type OrderItem struct {
	ID             uint64 `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID        uint64 `json:"-" gorm:"not null;index"`
	ListingID      uint64 `json:"listingId" gorm:"not null;index"`
	Title          string `json:"title" gorm:"type:varchar(255);not null"`
	UnitPriceMinor int64  `json:"unitPriceMinor" gorm:"not null"`
	Quantity       int64  `json:"quantity" gorm:"not null"`
	ImageURL       string `json:"imageUrl" gorm:"type:varchar(512)"`
}
