package bandit

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemSelection is the RNG subsystem for interactive asset
	// selection (a single pool/selector pair driven directly).
	SubsystemSelection = "selection"
)

// SubsystemCycle returns the subsystem name for experiment cycle N.
// Every cycle draws from its own stream, so cycle results do not
// depend on execution order.
func SubsystemCycle(id int) string {
	return fmt.Sprintf("cycle_%d", id)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per
// subsystem. Each subsystem's seed is derived as
// masterSeed XOR fnv1a64(subsystemName).
//
// Thread-safety: NOT thread-safe. Derive all subsystem streams from a
// single goroutine before fanning work out.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named
// subsystem. The same subsystem name always returns the same
// *rand.Rand instance (cached). Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derivedSeed := int64(p.key) ^ fnv1a64(name)
	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// uniform01 draws from [0, 1) on the given source, falling back to the
// process-wide source when rng is nil.
func uniform01(rng *rand.Rand) float64 {
	if rng == nil {
		return rand.Float64()
	}
	return rng.Float64()
}

// intnDraw returns a uniform int in [0, n) on the given source,
// falling back to the process-wide source when rng is nil.
func intnDraw(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.Intn(n)
	}
	return rng.Intn(n)
}
