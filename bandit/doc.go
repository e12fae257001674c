// Package bandit provides the core multi-armed bandit selection engine
// for offersim.
//
// # Reading Guide
//
// Start with these three files to understand the selection kernel:
//   - asset.go: Asset counters, the stochastic offer draw, and conversion/width queries
//   - assetset.go: The admission schedule, active-set recomputation, and softmax sampling
//   - selector.go: MakeChoice, the one-offer-per-call decision sequence over a strategy
//
// # Architecture
//
// The bandit package owns selection semantics; supporting concerns live
// in sub-packages and siblings:
//   - bandit/stats/: Wald intervals, standard errors, annealing temperature
//   - bandit/scenario/: YAML scenario specs, validation, and built-in presets
//   - bandit/experiment/: cycle runners, strategy comparisons, and report rendering
//
// # Key Interfaces
//
// The extension points are single-method interfaces:
//   - IntervalEstimator: confidence bounds from (redemptions, offers)
//   - RhoPolicy: per-call width-vs-best split probability from the active set
//
// Every MakeChoice call records exactly one offer and bumps the pool's
// global count exactly once; the admission schedule is re-evaluated
// against that count on every acquisition.
package bandit
