package bandit

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/offersim/offersim/bandit/stats"
)

// === Admission Schedule ===

// Window is a half-open admission window over the pool's global offer
// count. A group is admitted while total >= From and, when Until > 0,
// total < Until. Until == 0 means the group never expires.
type Window struct {
	From  int64
	Until int64
}

// Admits reports whether the window admits the given global count.
func (w Window) Admits(total int64) bool {
	if total < w.From {
		return false
	}
	return w.Until == 0 || total < w.Until
}

// ScheduleEntry binds an admission window to a group of assets.
type ScheduleEntry struct {
	Window Window
	Assets []*Asset
}

// Schedule is an ordered list of admission entries. Entry order fixes
// the iteration order of the active set, which keeps cumulative
// sampling deterministic for a given seed.
type Schedule []ScheduleEntry

// At returns an entry admitting its assets from the given count
// onward, never expiring.
func At(from int64, assets ...*Asset) ScheduleEntry {
	return ScheduleEntry{Window: Window{From: from}, Assets: assets}
}

// Between returns an entry admitting its assets while
// from <= total < until.
func Between(from, until int64, assets ...*Asset) ScheduleEntry {
	return ScheduleEntry{Window: Window{From: from, Until: until}, Assets: assets}
}

// Validate checks that the schedule can produce a non-empty active set
// at every global count. Selection has no recovery path for an empty
// set, so at least one entry must start at 0 and never expire.
func (s Schedule) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("schedule has no entries")
	}

	covered := false
	for i, e := range s {
		if e.Window.From < 0 {
			return fmt.Errorf("schedule entry %d: from %d is negative", i, e.Window.From)
		}
		if e.Window.Until != 0 && e.Window.Until <= e.Window.From {
			return fmt.Errorf("schedule entry %d: window [%d, %d) is empty", i, e.Window.From, e.Window.Until)
		}
		if len(e.Assets) == 0 {
			return fmt.Errorf("schedule entry %d: no assets", i)
		}
		for j, a := range e.Assets {
			if a == nil {
				return fmt.Errorf("schedule entry %d: asset %d is nil", i, j)
			}
		}
		if e.Window.From == 0 && e.Window.Until == 0 {
			covered = true
		}
	}
	if !covered {
		return fmt.Errorf("schedule has no never-expiring entry starting at 0")
	}
	return nil
}

// === AssetSet ===

// softmaxNumerator scales the annealing temperature for both softmax
// variants.
const softmaxNumerator = 0.25

// AssetSet owns the admission schedule and the global offer counter
// that drives it. Active membership is recomputed from the schedule on
// every query; interval windows make admission non-monotonic, so
// membership cannot be cached across counts.
type AssetSet struct {
	schedule Schedule

	// total counts every acquisition made through an incrementing
	// query. It drives the admission schedule and is distinct from
	// counts, the summed offers of the current active set.
	total  int64
	counts int64
}

// NewAssetSet creates an AssetSet over the given schedule. Panics if
// the schedule fails validation.
func NewAssetSet(schedule Schedule) *AssetSet {
	if err := schedule.Validate(); err != nil {
		panic(fmt.Sprintf("NewAssetSet: %v", err))
	}
	return &AssetSet{schedule: schedule}
}

// ActiveSet returns the deduplicated union of assets admitted at the
// current global count, in schedule order (first occurrence wins). It
// always recomputes and caches the summed offers of the returned set.
// When increment is true the global count is bumped after membership
// is computed, so the bump affects the next call, not this one.
// Returns a fresh slice; callers may reorder it freely.
func (s *AssetSet) ActiveSet(increment bool) []*Asset {
	var active []*Asset
	seen := make(map[*Asset]bool)
	for _, e := range s.schedule {
		if !e.Window.Admits(s.total) {
			continue
		}
		for _, a := range e.Assets {
			if seen[a] {
				continue
			}
			seen[a] = true
			active = append(active, a)
		}
	}

	var counts int64
	for _, a := range active {
		counts += a.offers
	}
	s.counts = counts

	if increment {
		s.total++
	}
	return active
}

// ActiveSetWithIncrement is the acquisition path used during
// selection: membership first, then one bump of the global count.
func (s *AssetSet) ActiveSetWithIncrement() []*Asset {
	return s.ActiveSet(true)
}

// Counts returns the summed offers over the most recently computed
// active set.
func (s *AssetSet) Counts() int64 { return s.counts }

// Total returns the global offer count driving the admission schedule.
func (s *AssetSet) Total() int64 { return s.total }

// SoftmaxTemp returns the standard annealing temperature,
// 0.25 / ln(counts + 1 + eps), over the cached active-set counts.
func (s *AssetSet) SoftmaxTemp() float64 {
	return stats.Temperature(float64(s.counts), softmaxNumerator)
}

// SoftmaxTempMin returns the annealing temperature computed from the
// least-offered active asset instead of the summed counts. One
// under-sampled asset keeps the whole pool exploratory.
func (s *AssetSet) SoftmaxTempMin() float64 {
	active := s.ActiveSet(false)
	if len(active) == 0 {
		panic("SoftmaxTempMin: empty active set")
	}
	return stats.Temperature(float64(minOffers(active)), softmaxNumerator)
}

// SoftmaxChoice picks an asset from the active set with selection
// probabilities p_i proportional to exp(conversion_i / temp), using
// the standard temperature. It selects but does NOT record a trial;
// recording stays with the caller.
func (s *AssetSet) SoftmaxChoice(rng *rand.Rand, increment bool) *Asset {
	active := s.ActiveSet(increment)
	if len(active) == 0 {
		panic("SoftmaxChoice: empty active set")
	}
	return softmaxPick(active, s.SoftmaxTemp(), rng)
}

// SoftmaxChoiceMin is SoftmaxChoice with the min-offers temperature.
// The temperature is taken over the same membership the pick draws
// from.
func (s *AssetSet) SoftmaxChoiceMin(rng *rand.Rand, increment bool) *Asset {
	active := s.ActiveSet(increment)
	if len(active) == 0 {
		panic("SoftmaxChoiceMin: empty active set")
	}
	temp := stats.Temperature(float64(minOffers(active)), softmaxNumerator)
	return softmaxPick(active, temp, rng)
}

// softmaxProbs returns the categorical distribution
// p_i = exp(conversion_i/temp) / sum(exp(conversion_j/temp)) over the
// assets. Scores are shifted by their max before exponentiation, which
// leaves the distribution unchanged while keeping the exponents small.
func softmaxProbs(assets []*Asset, temp float64) []float64 {
	scores := make([]float64, len(assets))
	maxScore := math.Inf(-1)
	for i, a := range assets {
		scores[i] = a.Conversion() / temp
		if scores[i] > maxScore {
			maxScore = scores[i]
		}
	}

	var denom float64
	for i := range scores {
		scores[i] = math.Exp(scores[i] - maxScore)
		denom += scores[i]
	}
	for i := range scores {
		scores[i] /= denom
	}
	return scores
}

// softmaxPick draws one asset from the softmax distribution.
// Cumulative sampling walks the set in order and falls back to the
// last asset if floating-point rounding leaves the draw uncovered.
func softmaxPick(assets []*Asset, temp float64, rng *rand.Rand) *Asset {
	probs := softmaxProbs(assets, temp)

	draw := uniform01(rng)
	var cum float64
	for i, a := range assets {
		cum += probs[i]
		if cum > draw {
			return a
		}
	}
	return assets[len(assets)-1]
}

// minOffers returns the smallest offer count among the given assets.
func minOffers(assets []*Asset) int64 {
	min := assets[0].offers
	for _, a := range assets[1:] {
		if a.offers < min {
			min = a.offers
		}
	}
	return min
}
