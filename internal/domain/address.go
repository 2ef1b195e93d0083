package domain

import "strings"

// Address is the delivery address stored with an order. PostalCode is
// optional, everything else is mandatory. Phone format is checked
// elsewhere; only presence matters here.
type Address struct {
	RecipientName string `json:"recipientName" gorm:"type:varchar(120)"`
	FullAddress   string `json:"fullAddress" gorm:"type:varchar(512)"`
	City          string `json:"city" gorm:"type:varchar(80)"`
	Phone         string `json:"phone" gorm:"type:varchar(32)"`
	PostalCode    string `json:"postalCode" gorm:"type:varchar(16)"`
}

// Validate reports every missing required field at once so the caller
// can fix the whole address in one round trip.
func (a Address) Validate() error {
	var missing []string
	if strings.TrimSpace(a.RecipientName) == "" {
		missing = append(missing, "recipient_name")
	}
	if strings.TrimSpace(a.FullAddress) == "" {
		missing = append(missing, "full_address")
	}
	if strings.TrimSpace(a.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(a.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return &InvalidAddressError{Missing: missing}
	}
	return nil
}
