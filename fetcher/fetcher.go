// Package fetcher opens audio-only byte streams for resolved candidates.
package fetcher

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sdmp3/sdmp3/log"
	"github.com/sdmp3/sdmp3/source"
)

// Backend knows how to open streams for a family of locators.
type Backend interface {
	Name() string
	// Supports reports whether locator can be handled by this backend.
	Supports(locator string) bool
	// Open negotiates the audio-only, highest quality variant and returns its stream.
	Open(ctx context.Context, locator string) (*source.Stream, error)
}

// Fetcher dispatches locators to the first backend that supports them.
type Fetcher struct {
	backends  []Backend
	extension mo.Option[string]
}

// New returns a fetcher trying backends in order.
func New(backends ...Backend) *Fetcher {
	return &Fetcher{backends: backends}
}

// WithExtension forces the reported stream extension, e.g. "mp3".
// The bytes are not transcoded.
func (f *Fetcher) WithExtension(extension mo.Option[string]) *Fetcher {
	f.extension = extension
	return f
}

// Open returns the stream for locator. All failures are *source.FetchError of stage fetch.
func (f *Fetcher) Open(ctx context.Context, locator string) (*source.Stream, error) {
	backend, ok := lo.Find(f.backends, func(b Backend) bool {
		return b.Supports(locator)
	})
	if !ok {
		return nil, source.NewFetchError(source.StageFetch, fmt.Errorf("no backend can play %q", locator))
	}

	log.Debugf("opening %s with %s backend", locator, backend.Name())
	stream, err := backend.Open(ctx, locator)
	if err != nil {
		return nil, source.NewFetchError(source.StageFetch, err)
	}

	if ext, ok := f.extension.Get(); ok && ext != "" {
		stream.Extension = ext
	}

	return stream, nil
}
