// Package resolver maps a title to the first-ranked search candidate.
package resolver

import (
	"context"
	"time"

	"github.com/sdmp3/sdmp3/log"
	"github.com/sdmp3/sdmp3/query"
	"github.com/sdmp3/sdmp3/source"
)

// Resolver issues exactly one search per title against a single source.
type Resolver struct {
	source   source.Source
	timeout  time.Duration
	remember bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSearchTimeout bounds every search. Zero disables it.
func WithSearchTimeout(timeout time.Duration) Option {
	return func(r *Resolver) {
		r.timeout = timeout
	}
}

// WithSuggestions records resolved titles for later shell completion.
func WithSuggestions(remember bool) Option {
	return func(r *Resolver) {
		r.remember = remember
	}
}

// New returns a resolver querying src.
func New(src source.Source, options ...Option) *Resolver {
	r := &Resolver{source: src}
	for _, option := range options {
		option(r)
	}
	return r
}

// Resolve returns the first candidate for title.
//
// Every title is searched as given, blank ones included.
// No secondary filtering is applied. Zero results yield source.ErrNotFound;
// transport failures are wrapped as a *source.FetchError of the search stage.
func (r *Resolver) Resolve(ctx context.Context, title string) (*source.Candidate, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	log.Debugf("searching %s for %q", r.source.Name(), title)
	candidates, err := r.source.Search(ctx, title)
	if err != nil {
		return nil, source.NewFetchError(source.StageSearch, err)
	}

	if len(candidates) == 0 {
		log.Infof("no results for %q on %s", title, r.source.Name())
		return nil, source.ErrNotFound
	}

	candidate := candidates[0]
	if candidate.Source == nil {
		candidate.Source = r.source
	}

	log.Infof("resolved %q to %q (%s)", title, candidate.Title, candidate.URL)

	if r.remember {
		if err := query.Remember(title, 1); err != nil {
			log.Warnf("remember %q: %v", title, err)
		}
	}

	return candidate, nil
}
