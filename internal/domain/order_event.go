package domain

import "time"

type OrderCreatedEvent struct {
	EventID    string    `json:"eventId"`
	OrderID    uint64    `json:"orderId"`
	UserID     uint64    `json:"userId"`
	TotalMinor int64     `json:"totalMinor"`
	Currency   string    `json:"currency"`
	CreatedAt  time.Time `json:"createdAt"`
}
