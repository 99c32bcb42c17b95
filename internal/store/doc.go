// Package store provides the ancestry record stores backing the coefficient
// engine: an in-memory map store, a SQLite-backed store, and a two-tier
// fallback combining an owned-record tier with a public denormalized tier.
// All stores implement pedigree.Repository; the SQLite and memory stores
// additionally support the batch driver's coefficient write-back.
package store
