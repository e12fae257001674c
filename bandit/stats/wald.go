// Package stats provides the proportion statistics behind the
// selection strategies: standard errors, Wald confidence intervals,
// and the log-annealed softmax temperature.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// logEpsilon keeps the temperature logarithm away from ln(0).
const logEpsilon = 1e-8

// z95 is the two-sided 95% standard normal quantile.
var z95 = distuv.UnitNormal.Quantile(0.975)

// StandardError returns the proportion estimate and its standard error
// for redemptions out of offers. Both are 0 when offers is 0.
func StandardError(redemptions, offers float64) (phat, se float64) {
	if offers == 0 {
		return 0, 0
	}
	phat = redemptions / offers
	return phat, math.Sqrt(phat * (1 - phat) / offers)
}

// Wald computes normal-approximation confidence intervals for
// redemption proportions.
type Wald struct {
	z float64
}

// NewWald returns a Wald estimator at the 95% confidence level.
func NewWald() Wald {
	return Wald{z: z95}
}

// Interval95 returns the upper and lower bounds of the 95% confidence
// interval for redemptions out of offers. Returns (0, 0) when offers
// is 0. The lower bound is clamped at 0; proportions cannot go
// negative.
func (w Wald) Interval95(redemptions, offers float64) (upper, lower float64) {
	if offers == 0 {
		return 0, 0
	}
	phat, se := StandardError(redemptions, offers)
	return phat + w.z*se, math.Max(0, phat-w.z*se)
}

// PropDiffInterval returns the absolute difference between two
// redemption proportions and the 95% confidence bounds on that
// difference.
//
// Reference: http://www.stat.wmich.edu/s216/book/node85.html
func PropDiffInterval(r1, o1, r2, o2 float64) (diff, lower, upper float64) {
	p1, se1 := StandardError(r1, o1)
	p2, se2 := StandardError(r2, o2)

	diffSE := math.Sqrt(se1*se1 + se2*se2)
	diff = math.Abs(p1 - p2)
	return diff, diff - z95*diffSE, diff + z95*diffSE
}

// Temperature returns numerator / ln(count + 1 + eps), the annealing
// temperature used by the softmax strategies. Temperature starts hot
// at low counts and cools as evidence accumulates.
func Temperature(count, numerator float64) float64 {
	return numerator / math.Log(count+1+logEpsilon)
}
