package domain

// CartItem is a client-side line in a purchase intent. Only the listing
// reference and quantity are taken from the caller; price and title are
// resolved from the listing service at order-creation time.
type CartItem struct {
	ListingID uint64 `json:"listingId"`
	Quantity  int64  `json:"quantity"`
}

// PurchaseIntent is a request to buy one or more listings, prior to
// authoritative validation. Cart checkout and buy-now both reduce to
// this shape.
type PurchaseIntent struct {
	Items          []CartItem
	Address        Address
	ShippingMethod ShippingMethod
	PaymentMethod  PaymentMethod
}
