package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/fatihtunali/eskisini-3009-sub002/internal/domain"
)

const DefaultDedupWindow = 2 * time.Minute

// DuplicateGuard derives the idempotency key for a purchase intent.
// Identical intents from one user inside one time bucket hash to the
// same key, so the storage-level unique index collapses them into a
// single order. A user re-ordering the same items in a later bucket
// gets a fresh key.
type DuplicateGuard struct {
	window time.Duration
	now    func() time.Time
}

func NewDuplicateGuard(window time.Duration) *DuplicateGuard {
	// Bucketing works in whole seconds; anything shorter falls back to
	// the default instead of dividing by zero.
	if window < time.Second {
		window = DefaultDedupWindow
	}
	return &DuplicateGuard{window: window, now: time.Now}
}

func (g *DuplicateGuard) Fingerprint(userID uint64, items []domain.CartItem, shipping domain.ShippingMethod, payment domain.PaymentMethod) string {
	sorted := make([]domain.CartItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ListingID != sorted[j].ListingID {
			return sorted[i].ListingID < sorted[j].ListingID
		}
		return sorted[i].Quantity < sorted[j].Quantity
	})

	bucket := g.now().Unix() / int64(g.window/time.Second)

	h := sha256.New()
	fmt.Fprintf(h, "%d|%s|%s|%d", userID, shipping, payment, bucket)
	for _, it := range sorted {
		fmt.Fprintf(h, "|%d:%d", it.ListingID, it.Quantity)
	}
	return hex.EncodeToString(h.Sum(nil))
}
