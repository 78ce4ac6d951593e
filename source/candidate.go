package source

import (
	"fmt"
	"time"
)

// Candidate is a single search result pointing at a playable media location.
type Candidate struct {
	// Title as reported by the provider. Destination filenames derive from it.
	Title string `json:"title"`
	// URL is the source locator handed to the fetcher.
	URL string `json:"url"`
	// ID is the provider specific identifier, e.g. a YouTube video id.
	ID string `json:"id,omitempty"`
	// Duration is zero when the provider does not report it.
	Duration time.Duration `json:"duration,omitempty"`
	// Index is the rank within the result list, starting at 0.
	Index uint16 `json:"index"`
	Source Source `json:"-"`
}

func (c *Candidate) String() string {
	if c.Duration > 0 {
		return fmt.Sprintf("%s (%s)", c.Title, c.Duration)
	}
	return c.Title
}
