package infra

import "context"

type ListingClientInterface interface {
	GetListingByID(ctx context.Context, id uint64) (*ListingInfo, error)
}

var _ ListingClientInterface = (*ListingClient)(nil)
