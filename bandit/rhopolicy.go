package bandit

import (
	"fmt"
	"math"
)

// RhoPolicy derives the width-vs-best split probability from the
// current active set, so exploration can adapt to the evidence instead
// of staying fixed for a whole run. Implementations must return a
// value in [0, 1]; the Selector treats anything else as a
// configuration defect and panics.
type RhoPolicy interface {
	Rho(active []*Asset) float64
}

// RhoFunc adapts a plain function to the RhoPolicy interface.
type RhoFunc func(active []*Asset) float64

// Rho implements RhoPolicy.
func (f RhoFunc) Rho(active []*Asset) float64 { return f(active) }

// ConstantRho is a RhoPolicy that ignores the active set.
type ConstantRho float64

// Rho implements RhoPolicy.
func (c ConstantRho) Rho([]*Asset) float64 { return float64(c) }

// RhoTier maps a confidence-width threshold to a rho value: the tier
// applies while the widest interval in the active set exceeds
// MinWidth.
type RhoTier struct {
	MinWidth float64
	Rho      float64
}

// WidthTieredRho steps exploration down as certainty improves. Each
// call finds the widest confidence interval in the active set and
// returns the rho of the first tier it exceeds; below every tier the
// rho is 0 (pure exploitation).
type WidthTieredRho struct {
	tiers []RhoTier
}

// DefaultRhoTiers returns the stock exploration schedule.
func DefaultRhoTiers() []RhoTier {
	return []RhoTier{
		{MinWidth: 0.05, Rho: 0.6},
		{MinWidth: 0.035, Rho: 0.20},
		{MinWidth: 0.02, Rho: 0.06},
	}
}

// NewWidthTieredRho creates a WidthTieredRho from the given tiers.
// Tiers must have positive, strictly descending min widths and rhos in
// [0, 1].
func NewWidthTieredRho(tiers []RhoTier) (*WidthTieredRho, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("width-tiered rho requires at least one tier")
	}
	for i, tier := range tiers {
		if math.IsNaN(tier.MinWidth) || tier.MinWidth <= 0 {
			return nil, fmt.Errorf("tier %d: min width must be positive, got %v", i, tier.MinWidth)
		}
		if math.IsNaN(tier.Rho) || tier.Rho < 0 || tier.Rho > 1 {
			return nil, fmt.Errorf("tier %d: rho %v outside [0, 1]", i, tier.Rho)
		}
		if i > 0 && tier.MinWidth >= tiers[i-1].MinWidth {
			return nil, fmt.Errorf("tier %d: min widths must descend, got %v after %v",
				i, tier.MinWidth, tiers[i-1].MinWidth)
		}
	}
	return &WidthTieredRho{tiers: tiers}, nil
}

// Rho implements RhoPolicy.
func (w *WidthTieredRho) Rho(active []*Asset) float64 {
	var widest float64
	for _, a := range active {
		if wd := a.Width(); wd > widest {
			widest = wd
		}
	}
	for _, tier := range w.tiers {
		if widest > tier.MinWidth {
			return tier.Rho
		}
	}
	return 0
}
