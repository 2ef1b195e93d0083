package pricing

import (
	"math"

	"github.com/fatihtunali/eskisini-3009-sub002/internal/domain"
)

// Config carries the fee schedule for one market, in minor currency
// units. Values come from the environment so markets can differ without
// touching the computation.
type Config struct {
	Currency              string
	FreeShippingThreshold int64
	StandardShippingCost  int64
	ExpressShippingCost   int64
	CashOnDeliveryFee     int64
}

type Totals struct {
	ShippingCostMinor int64
	PaymentFeeMinor   int64
	TotalMinor        int64
}

// Engine computes order totals. It is pure: no I/O, no clock, no
// randomness, so identical inputs always price identically.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

func (e *Engine) Currency() string {
	return e.cfg.Currency
}

func (e *Engine) ComputeTotals(subtotalMinor int64, shipping domain.ShippingMethod, payment domain.PaymentMethod) (Totals, error) {
	if subtotalMinor < 0 {
		return Totals{}, domain.ErrInvalidPrice
	}

	var t Totals

	if subtotalMinor < e.cfg.FreeShippingThreshold {
		if shipping == domain.ShippingExpress {
			t.ShippingCostMinor = e.cfg.ExpressShippingCost
		} else {
			t.ShippingCostMinor = e.cfg.StandardShippingCost
		}
	}

	// Unknown and future payment methods carry no fee.
	if payment == domain.PaymentCashOnDelivery {
		t.PaymentFeeMinor = e.cfg.CashOnDeliveryFee
	}

	if subtotalMinor > math.MaxInt64-t.ShippingCostMinor-t.PaymentFeeMinor {
		return Totals{}, domain.ErrInvalidPrice
	}
	t.TotalMinor = subtotalMinor + t.ShippingCostMinor + t.PaymentFeeMinor

	return t, nil
}
