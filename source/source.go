// Package source defines what search providers return and the errors shared by the download pipeline.
package source

import "context"

// Source is a search provider able to turn a free-form title into ranked candidates.
type Source interface {
	// Name returns the human readable provider name.
	Name() string

	// ID returns the unique identifier of the source.
	ID() string

	// Search runs exactly one query against the provider.
	// Results are ordered by the provider's own ranking; an empty slice means nothing matched.
	Search(ctx context.Context, query string) ([]*Candidate, error)
}
