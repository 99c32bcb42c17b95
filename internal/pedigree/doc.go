// Package pedigree implements the inbreeding-coefficient engine: memoized
// recursive ancestor-tree materialization over possibly incomplete or cyclic
// genealogical data, ancestor-set intersection, and Wright's path-counting
// accumulation of the coefficient of inbreeding (COI).
//
// The engine reads records through the Repository interface and holds no
// durable state; every computation materializes a fresh tree and discards it.
// Missing ancestors and malformed cycles are tolerated as absent branches,
// never as errors. Only repository I/O failures propagate to callers.
package pedigree
