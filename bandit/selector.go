package bandit

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"

	"github.com/offersim/offersim/bandit/stats"
)

// SummaryColumns is the fixed column order for summary rows. Names and
// order are a contract for report consumers; renderers must not
// reorder them.
var SummaryColumns = []string{
	"strategy_name",
	"average_conversion",
	"width_minimizing_selections",
	"best_performer_selections",
}

// SummaryRow is one reporting row for a selector run.
type SummaryRow struct {
	StrategyName              string
	AverageConversion         float64
	WidthMinimizingSelections int64
	BestPerformerSelections   int64
}

// Values returns the row's fields as strings in SummaryColumns order.
func (r SummaryRow) Values() []string {
	return []string{
		r.StrategyName,
		strconv.FormatFloat(r.AverageConversion, 'f', -1, 64),
		strconv.FormatInt(r.WidthMinimizingSelections, 10),
		strconv.FormatInt(r.BestPerformerSelections, 10),
	}
}

// Selector applies one configured strategy to an AssetSet, recording
// exactly one offer per MakeChoice call.
//
// Not safe for concurrent use: drive each (pool, selector) pair from a
// single goroutine.
type Selector struct {
	strategy Strategy
	start    int64
	rng      *rand.Rand

	rhoPolicy RhoPolicy

	// Branch counters for reporting only; they never influence
	// selection and surface solely through SummaryRow.
	widthSelected int64
	bestSelected  int64
}

// NewSelector creates a Selector. start is the warm-start floor: the
// offer count every active asset must reach before the strategy runs;
// 0 disables the gate. A nil rng falls back to the process-wide
// source. Panics on an invalid strategy or negative start.
func NewSelector(strategy Strategy, start int64, rng *rand.Rand) *Selector {
	switch strategy.Kind {
	case StrategyKindRho:
		if math.IsNaN(strategy.Rho) || strategy.Rho < 0 || strategy.Rho > 1 {
			panic(fmt.Sprintf("NewSelector: rho %v outside [0, 1]", strategy.Rho))
		}
	case StrategyKindRandom, StrategyKindBestOnly, StrategyKindRhoPolicy,
		StrategyKindSoftmax, StrategyKindSoftmaxMin:
	default:
		panic(fmt.Sprintf("NewSelector: unknown strategy kind %q", strategy.Kind))
	}
	if start < 0 {
		panic(fmt.Sprintf("NewSelector: negative start %d", start))
	}
	return &Selector{strategy: strategy, start: start, rng: rng}
}

// SetRhoPolicy installs the policy consulted by the rho-policy
// strategy. Must be set before the first MakeChoice when the strategy
// kind is StrategyKindRhoPolicy; other kinds ignore it.
func (s *Selector) SetRhoPolicy(p RhoPolicy) {
	s.rhoPolicy = p
}

// Strategy returns the configured strategy.
func (s *Selector) Strategy() Strategy { return s.strategy }

// Start returns the warm-start floor.
func (s *Selector) Start() int64 { return s.start }

// MakeChoice applies the configured strategy to the pool's current
// active set and records exactly one offer on the asset it picks,
// returning that asset. The pool's global count is bumped exactly once
// per call, before any branch runs, so every branch decides over the
// same membership.
//
// Branch precedence: warm-start gate, softmax kinds, rho resolution,
// random/best-only kinds, then the probabilistic width-vs-best split.
func (s *Selector) MakeChoice(set *AssetSet) *Asset {
	active := set.ActiveSetWithIncrement()
	if len(active) == 0 {
		panic("MakeChoice: empty active set")
	}

	// Warm-start gate: raise every active asset to the floor before
	// any strategic rule runs. Sorts a copy so the strategic branches
	// below still see schedule order.
	if s.start > 0 {
		byOffers := make([]*Asset, len(active))
		copy(byOffers, active)
		sort.SliceStable(byOffers, func(i, j int) bool {
			return byOffers[i].offers < byOffers[j].offers
		})
		if byOffers[0].offers < s.start {
			byOffers[0].Offer(s.rng)
			return byOffers[0]
		}
	}

	switch s.strategy.Kind {
	case StrategyKindSoftmax:
		// Counts were cached by the acquisition above, so the
		// temperature reflects exactly the membership sampled.
		chosen := softmaxPick(active, set.SoftmaxTemp(), s.rng)
		chosen.Offer(s.rng)
		return chosen
	case StrategyKindSoftmaxMin:
		temp := stats.Temperature(float64(minOffers(active)), softmaxNumerator)
		chosen := softmaxPick(active, temp, s.rng)
		chosen.Offer(s.rng)
		return chosen
	}

	rho := s.resolveRho(active)

	switch s.strategy.Kind {
	case StrategyKindRandom:
		chosen := active[intnDraw(s.rng, len(active))]
		chosen.Offer(s.rng)
		return chosen
	case StrategyKindBestOnly:
		return s.selectBest(active)
	}

	if uniform01(s.rng) <= rho {
		s.widthSelected++
		sort.SliceStable(active, func(i, j int) bool {
			return active[i].Width() > active[j].Width()
		})
		active[0].Offer(s.rng)
		return active[0]
	}
	return s.selectBest(active)
}

// resolveRho returns the split probability for this call. The
// rho-policy kind consults the installed policy and validates its
// output; every other kind uses the configured scalar.
func (s *Selector) resolveRho(active []*Asset) float64 {
	if s.strategy.Kind != StrategyKindRhoPolicy {
		return s.strategy.Rho
	}
	if s.rhoPolicy == nil {
		panic("MakeChoice: rho-policy strategy with no RhoPolicy set")
	}
	rho := s.rhoPolicy.Rho(active)
	if math.IsNaN(rho) || rho < 0 || rho > 1 {
		panic(fmt.Sprintf("MakeChoice: rho policy returned %v, outside [0, 1]", rho))
	}
	return rho
}

// selectBest offers to the best-converting asset. The ascending stable
// sort leaves ties in schedule order, so the last tied asset wins.
func (s *Selector) selectBest(active []*Asset) *Asset {
	s.bestSelected++
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Conversion() < active[j].Conversion()
	})
	chosen := active[len(active)-1]
	chosen.Offer(s.rng)
	return chosen
}

// SummaryRow renders the selector's accumulated results over the given
// assets in the fixed reporting shape. Callers pass the full asset
// list for the run, offered or not.
func (s *Selector) SummaryRow(assets []*Asset) SummaryRow {
	return SummaryRow{
		StrategyName:              s.strategy.DisplayName(),
		AverageConversion:         AvgConversion(assets),
		WidthMinimizingSelections: s.widthSelected,
		BestPerformerSelections:   s.bestSelected,
	}
}
