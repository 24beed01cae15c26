// Package sim estimates when a customer at a fixed position in a
// first-come-first-served, multi-server queue starts service.
//
// # Reading Guide
//
//   - server.go: Server, the immutable service point with a deterministic service time
//   - server_heap.go: the (next-free time, server index) min-heap that drives the walk
//   - estimator.go: Estimate / EstimateResult and InvalidInputError
//   - roster.go: YAML roster files for the CLI
//
// # Model
//
// All servers are idle at t=0. Customers ahead of the target are handed, one
// at a time, to whichever server frees earliest; ties go to the lowest server
// index. The target starts when the earliest server frees after that walk.
//
// Assignment tracing lives in sim/trace, which has no dependency on this package.
package sim
