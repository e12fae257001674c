package bandit

import "github.com/offersim/offersim/bandit/stats"

// IntervalEstimator produces 95% confidence bounds for a redemption
// proportion.
//
// Contract: Interval95 returns (0, 0) when offers is 0, and otherwise
// guarantees lower <= redemptions/offers <= upper. Selection logic
// compares interval widths, so estimators only need to be consistent,
// not exact.
type IntervalEstimator interface {
	Interval95(redemptions, offers float64) (upper, lower float64)
}

// defaultEstimator backs assets constructed without an explicit
// estimator.
var defaultEstimator IntervalEstimator = stats.NewWald()
