package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const ListingStatusActive = "active"

// ListingInfo is the authoritative view of a listing as served by the
// listing catalog. Price is in minor currency units.
type ListingInfo struct {
	ID         uint64 `json:"id"`
	OwnerID    uint64 `json:"ownerId"`
	Title      string `json:"title"`
	PriceMinor int64  `json:"priceMinor"`
	ImageURL   string `json:"imageUrl"`
	Status     string `json:"status"`
}

func (l *ListingInfo) Active() bool {
	return l != nil && l.Status == ListingStatusActive
}

type ListingClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewListingClient(baseURL string, timeout time.Duration) *ListingClient {
	return &ListingClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetListingByID returns (nil, nil) when the listing does not exist so
// callers can distinguish absence from transport failure.
func (c *ListingClient) GetListingByID(ctx context.Context, id uint64) (*ListingInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/listings/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing service returned status %d", resp.StatusCode)
	}

	var l ListingInfo
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		return nil, err
	}
	return &l, nil
}
