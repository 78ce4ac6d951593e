package pipeline

import (
	"time"

	"github.com/samber/lo"
)

// Status is the state of a single item.
type Status string

const (
	StatusPending    Status = "pending"
	StatusResolving  Status = "resolving"
	StatusResolved   Status = "resolved"
	StatusFetching   Status = "fetching"
	StatusSuccess    Status = "success"
	StatusNotFound   Status = "not_found"
	StatusFetchError Status = "fetch_error"
)

// IsTerminal reports whether no further transition can follow.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusSuccess, StatusNotFound, StatusFetchError:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// Result is the outcome for one input title.
type Result struct {
	// Title is the input exactly as given.
	Title string `json:"title"`
	// ResolvedTitle is the title of the chosen candidate, used for the filename.
	ResolvedTitle string `json:"resolved_title,omitempty"`
	URL           string `json:"url,omitempty"`
	Source        string `json:"source,omitempty"`
	Status        Status `json:"status" jsonschema:"enum=success,enum=not_found,enum=fetch_error"`
	// Path is set only on success.
	Path  string `json:"path,omitempty"`
	Bytes int64  `json:"bytes,omitempty"`
	// Error is the human readable failure detail.
	Error string `json:"error,omitempty"`

	Err error `json:"-"`
}

// Report holds one result per input title, in input order.
type Report struct {
	Results  []*Result `json:"results"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
}

// Count returns how many results ended with status.
func (r *Report) Count(status Status) int {
	return lo.CountBy(r.Results, func(result *Result) bool {
		return result.Status == status
	})
}

// Succeeded returns the successful results.
func (r *Report) Succeeded() []*Result {
	return lo.Filter(r.Results, func(result *Result, _ int) bool {
		return result.Status == StatusSuccess
	})
}

// Failed returns every result that is not a success.
func (r *Report) Failed() []*Result {
	return lo.Filter(r.Results, func(result *Result, _ int) bool {
		return result.Status != StatusSuccess
	})
}

// Elapsed is the wall time of the batch.
func (r *Report) Elapsed() time.Duration {
	return r.Finished.Sub(r.Started)
}
