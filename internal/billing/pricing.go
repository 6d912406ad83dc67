package billing

import (
	"github.com/Naveedahmedtech/OLO-Backend/internal/domain"
)

type Rates struct {
	HourlyRateCents int64
	KmRateCents     int64
}

// PricingResolver yields the rates to freeze onto a shift at clock-out.
// Implementations may look up participant- or service-specific rate tables;
// the shift carries everything needed to key such a lookup.
type PricingResolver interface {
	Resolve(shift *domain.Shift) (Rates, string, error)
}

// FixedPricing resolves every shift to the same configured rates.
type FixedPricing struct {
	Rates Rates
}

func (p *FixedPricing) Resolve(_ *domain.Shift) (Rates, string, error) {
	return p.Rates, "fixed", nil
}
