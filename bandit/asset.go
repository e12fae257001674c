package bandit

import (
	"fmt"
	"math"
	"math/rand"
)

// Asset tracks offer and redemption counts for one named variant. Each
// offer draws against the asset's fixed latent likelihood, so the
// observed conversion rate converges on that likelihood as offers
// accumulate.
type Asset struct {
	name       string
	likelihood float64

	offers      int64
	redemptions int64

	estimator IntervalEstimator
}

// NewAsset creates an Asset backed by the default interval estimator.
// Panics unless likelihood is in [0, 1].
func NewAsset(name string, likelihood float64) *Asset {
	return NewAssetWithEstimator(name, likelihood, defaultEstimator)
}

// NewAssetWithEstimator creates an Asset with an injected interval
// estimator. A nil estimator falls back to the default. Panics unless
// likelihood is in [0, 1].
func NewAssetWithEstimator(name string, likelihood float64, est IntervalEstimator) *Asset {
	if math.IsNaN(likelihood) || likelihood < 0 || likelihood > 1 {
		panic(fmt.Sprintf("NewAsset: likelihood %v for asset %q outside [0, 1]", likelihood, name))
	}
	if est == nil {
		est = defaultEstimator
	}
	return &Asset{name: name, likelihood: likelihood, estimator: est}
}

// Offer records one trial: a uniform draw at or below the latent
// likelihood counts as a redemption. A nil rng falls back to the
// process-wide source.
func (a *Asset) Offer(rng *rand.Rand) {
	if uniform01(rng) <= a.likelihood {
		a.redemptions++
	}
	a.offers++
}

// Conversion returns the observed redemption rate, computed on read.
// Zero offers means zero conversion by convention.
func (a *Asset) Conversion() float64 {
	if a.offers == 0 {
		return 0
	}
	return float64(a.redemptions) / float64(a.offers)
}

// Interval95 returns the 95% confidence bounds on the observed
// conversion rate.
func (a *Asset) Interval95() (upper, lower float64) {
	return a.estimator.Interval95(float64(a.redemptions), float64(a.offers))
}

// Width returns the spread of the 95% confidence interval. A wide
// interval marks an under-sampled asset; the width-minimizing branch
// targets the widest one to shrink it fastest.
func (a *Asset) Width() float64 {
	upper, lower := a.Interval95()
	return upper - lower
}

// Name returns the asset's identity.
func (a *Asset) Name() string { return a.name }

// Likelihood returns the latent success probability. Fixed at
// construction; selection strategies never read it.
func (a *Asset) Likelihood() float64 { return a.likelihood }

// Offers returns the number of trials recorded so far.
func (a *Asset) Offers() int64 { return a.offers }

// Redemptions returns the number of successful trials recorded so far.
func (a *Asset) Redemptions() int64 { return a.redemptions }

func (a *Asset) String() string {
	return "Asset:" + a.name
}

// AvgConversion returns the pooled conversion rate across assets:
// total redemptions over total offers. With zero total offers the
// result is NaN; callers report only after offers exist.
func AvgConversion(assets []*Asset) float64 {
	var offers, redemptions int64
	for _, a := range assets {
		offers += a.offers
		redemptions += a.redemptions
	}
	return float64(redemptions) / float64(offers)
}
