//go:generate mockgen -source=record.go -destination=mocks/mock_repository.go -package=mocks

package pedigree

import "context"

// Record is a single read-only ancestry row as stored by the host application.
// The engine never mutates records; parent references are plain identifiers
// that may be empty, dangling, or (on dirty data) cyclic.
type Record struct {
	// ID is the opaque identifier of the individual.
	ID string
	// SireID is the identifier of the father, or empty when unknown.
	SireID string
	// DamID is the identifier of the mother, or empty when unknown.
	DamID string
	// DisplayName is the human-readable name carried for presentation.
	DisplayName string
	// KnownCoefficient is a previously computed COI percentage in [0, 100],
	// when the stored record carries one.
	KnownCoefficient *float64
}

// Repository provides read-only access to ancestry records. In the host
// system this capability is backed by a two-tier store (owned records first,
// then the public denormalized copy); the engine only requires the single
// lookup below.
type Repository interface {
	// Get returns the record for id. The boolean reports whether a record
	// exists; a missing record is not an error. A non-nil error indicates an
	// I/O failure and propagates out of any computation that triggered the
	// lookup.
	Get(ctx context.Context, id string) (*Record, bool, error)
}
