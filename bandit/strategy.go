package bandit

import (
	"fmt"
	"math"
	"sort"
)

// StrategyKind names a selection rule. Kinds are tags, not values: the
// probabilistic rule carries its rho alongside the tag in Strategy, so
// a rho of 0.35 and the "random" rule can never collide in one value
// space.
type StrategyKind string

const (
	// StrategyKindRho is the probabilistic split: with probability rho
	// target the widest confidence interval, otherwise the best
	// performer.
	StrategyKindRho StrategyKind = "rho"

	// StrategyKindRandom picks uniformly from the active set.
	StrategyKindRandom StrategyKind = "random"

	// StrategyKindBestOnly always picks the best-converting asset.
	StrategyKindBestOnly StrategyKind = "best-only"

	// StrategyKindRhoPolicy derives rho per call from a pluggable
	// RhoPolicy over the active set.
	StrategyKindRhoPolicy StrategyKind = "rho-policy"

	// StrategyKindSoftmax samples from a Boltzmann distribution over
	// observed conversions, annealed by the pooled offer count.
	//
	// Reference: "Bandit Algorithms for Website Optimization",
	// http://shop.oreilly.com/product/0636920027393.do
	StrategyKindSoftmax StrategyKind = "softmax"

	// StrategyKindSoftmaxMin is softmax annealed by the least-offered
	// asset count instead of the pooled count.
	StrategyKindSoftmaxMin StrategyKind = "softmax-min"
)

// validStrategyKinds maps accepted strategy names. Unexported to
// prevent mutation. Empty string defaults to the probabilistic kind.
var validStrategyKinds = map[StrategyKind]bool{
	StrategyKindRho:        true,
	StrategyKindRandom:     true,
	StrategyKindBestOnly:   true,
	StrategyKindRhoPolicy:  true,
	StrategyKindSoftmax:    true,
	StrategyKindSoftmaxMin: true,
	"":                     true,
}

// IsValidStrategy returns true if name is a recognized strategy kind.
func IsValidStrategy(name string) bool {
	return validStrategyKinds[StrategyKind(name)]
}

// StrategyNames returns the sorted recognized strategy names.
func StrategyNames() []string {
	names := make([]string, 0, len(validStrategyKinds))
	for k := range validStrategyKinds {
		if k == "" {
			continue
		}
		names = append(names, string(k))
	}
	sort.Strings(names)
	return names
}

// Strategy is a tagged selection rule for a Selector. The zero value
// is not meaningful; use a constructor.
type Strategy struct {
	Kind StrategyKind

	// Rho is the width-vs-best split probability. Read only when Kind
	// is StrategyKindRho.
	Rho float64
}

// Probability returns the width-vs-best split strategy with the given
// rho. Panics unless rho is in [0, 1].
func Probability(rho float64) Strategy {
	if math.IsNaN(rho) || rho < 0 || rho > 1 {
		panic(fmt.Sprintf("Probability: rho %v outside [0, 1]", rho))
	}
	return Strategy{Kind: StrategyKindRho, Rho: rho}
}

// Random returns the uniform-selection strategy.
func Random() Strategy {
	return Strategy{Kind: StrategyKindRandom}
}

// BestOnly returns the pure-exploitation strategy.
func BestOnly() Strategy {
	return Strategy{Kind: StrategyKindBestOnly}
}

// DynamicRho returns the strategy that asks a RhoPolicy for the split
// probability on every call. The Selector must be given a policy via
// SetRhoPolicy before its first choice.
func DynamicRho() Strategy {
	return Strategy{Kind: StrategyKindRhoPolicy}
}

// Softmax returns the standard Boltzmann-sampling strategy.
func Softmax() Strategy {
	return Strategy{Kind: StrategyKindSoftmax}
}

// SoftmaxMin returns the Boltzmann-sampling strategy annealed by the
// least-offered asset.
func SoftmaxMin() Strategy {
	return Strategy{Kind: StrategyKindSoftmaxMin}
}

// StrategyFromName builds a Strategy from a kind name, applying rho to
// the probabilistic kind. Empty name defaults to the probabilistic
// kind. Panics on unrecognized names; flag-facing callers validate
// with IsValidStrategy first.
func StrategyFromName(name string, rho float64) Strategy {
	if !IsValidStrategy(name) {
		panic(fmt.Sprintf("unknown strategy %q", name))
	}
	switch StrategyKind(name) {
	case StrategyKindRho, "":
		return Probability(rho)
	case StrategyKindRandom:
		return Random()
	case StrategyKindBestOnly:
		return BestOnly()
	case StrategyKindRhoPolicy:
		return DynamicRho()
	case StrategyKindSoftmax:
		return Softmax()
	case StrategyKindSoftmaxMin:
		return SoftmaxMin()
	default:
		panic(fmt.Sprintf("unhandled strategy %q", name))
	}
}

// DisplayName returns the human-readable strategy name used in report
// rows.
func (s Strategy) DisplayName() string {
	switch s.Kind {
	case StrategyKindRhoPolicy:
		return "Rho Function"
	case StrategyKindRandom:
		return "Random"
	case StrategyKindBestOnly:
		return "Best Converting"
	case StrategyKindSoftmax:
		return "Softmax"
	case StrategyKindSoftmaxMin:
		return "Softmax 2"
	default:
		return fmt.Sprintf("Rho %v", s.Rho)
	}
}
