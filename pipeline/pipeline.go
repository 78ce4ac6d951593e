// Package pipeline drives titles through resolution, fetching and persistence.
package pipeline

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sdmp3/sdmp3/log"
	"github.com/sdmp3/sdmp3/source"
)

// Resolver turns a title into its first-ranked candidate.
type Resolver interface {
	Resolve(ctx context.Context, title string) (*source.Candidate, error)
}

// Fetcher opens the audio stream of a candidate locator.
type Fetcher interface {
	Open(ctx context.Context, locator string) (*source.Stream, error)
}

// Sink persists streams.
type Sink interface {
	Ensure() error
	Path(title, extension string) string
	Persist(ctx context.Context, r io.Reader, dest string) (int64, error)
}

// Pipeline processes a batch strictly sequentially.
type Pipeline struct {
	resolver Resolver
	fetcher  Fetcher
	sink     Sink
	observer Observer

	fetchTimeout time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithObserver attaches an observer. Multiple calls accumulate.
func WithObserver(observer Observer) Option {
	return func(p *Pipeline) {
		if _, ok := p.observer.(NopObserver); ok {
			p.observer = observer
			return
		}
		p.observer = Observers{p.observer, observer}
	}
}

// WithFetchTimeout bounds fetching plus persisting of a single item. Zero disables it.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) {
		p.fetchTimeout = timeout
	}
}

// New creates a pipeline.
func New(resolver Resolver, fetcher Fetcher, sink Sink, options ...Option) *Pipeline {
	p := &Pipeline{
		resolver: resolver,
		fetcher:  fetcher,
		sink:     sink,
		observer: NopObserver{},
	}

	for _, option := range options {
		option(p)
	}

	return p
}

// Run processes titles in order and returns exactly one result per title.
//
// The destination directory is created before the first item; failing to do
// so is the only error returned, and no item is processed in that case.
// Every per-item failure becomes a result. Cancelling ctx turns the remaining
// items into fetch errors.
func (p *Pipeline) Run(ctx context.Context, titles []string) (*Report, error) {
	if err := p.sink.Ensure(); err != nil {
		log.WithError(err).Error("cannot prepare destination directory")
		return nil, err
	}

	report := &Report{
		Results: make([]*Result, 0, len(titles)),
		Started: time.Now(),
	}

	log.Infof("processing %d titles", len(titles))

	for index, title := range titles {
		result := &Result{Title: title, Status: StatusPending}
		report.Results = append(report.Results, result)

		p.observer.ItemStarted(index, len(titles), title)

		if err := ctx.Err(); err != nil {
			p.finish(index, result, StatusFetchError, source.NewFetchError(source.StageSearch, err))
			continue
		}

		p.process(ctx, index, result)
	}

	report.Finished = time.Now()

	log.WithFields(log.Fields{
		"success":     report.Count(StatusSuccess),
		"not_found":   report.Count(StatusNotFound),
		"fetch_error": report.Count(StatusFetchError),
		"elapsed":     report.Elapsed().String(),
	}).Info("all downloads complete")

	p.observer.BatchCompleted(report)
	return report, nil
}

func (p *Pipeline) process(ctx context.Context, index int, result *Result) {
	p.transition(result, StatusResolving)

	candidate, err := p.resolver.Resolve(ctx, result.Title)
	switch {
	case errors.Is(err, source.ErrNotFound), err == nil && candidate == nil:
		p.finish(index, result, StatusNotFound, source.ErrNotFound)
		return
	case err != nil:
		p.finish(index, result, StatusFetchError, source.NewFetchError(source.StageSearch, err))
		return
	}

	result.ResolvedTitle = candidate.Title
	result.URL = candidate.URL
	if candidate.Source != nil {
		result.Source = candidate.Source.Name()
	}

	p.transition(result, StatusResolved)
	p.observer.ItemResolved(index, candidate)

	p.transition(result, StatusFetching)

	if p.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.fetchTimeout)
		defer cancel()
	}

	stream, err := p.fetcher.Open(ctx, candidate.URL)
	if err != nil {
		p.finish(index, result, StatusFetchError, source.NewFetchError(source.StageFetch, err))
		return
	}
	defer stream.Close()

	dest := p.sink.Path(candidate.Title, stream.Extension)
	progress := &progressReader{
		r:     stream,
		total: stream.Size,
		report: func(written, total int64) {
			p.observer.ItemProgress(index, written, total)
		},
	}

	written, err := p.sink.Persist(ctx, progress, dest)
	if err != nil {
		p.finish(index, result, StatusFetchError, source.NewFetchError(source.StageWrite, err))
		return
	}

	result.Path = dest
	result.Bytes = written
	p.finish(index, result, StatusSuccess, nil)
}

func (p *Pipeline) transition(result *Result, status Status) {
	log.WithFields(log.Fields{
		"title": result.Title,
		"from":  result.Status,
		"to":    status,
	}).Debug("state transition")

	result.Status = status
}

func (p *Pipeline) finish(index int, result *Result, status Status, err error) {
	p.transition(result, status)

	if err != nil {
		result.Err = err
		result.Error = err.Error()
		log.WithFields(log.Fields{
			"title":  result.Title,
			"status": status,
		}).WithError(err).Warn("item failed")
	} else {
		log.WithFields(log.Fields{
			"title": result.Title,
			"path":  result.Path,
		}).Info("item downloaded")
	}

	p.observer.ItemFinished(index, result)
}
