// Package history keeps a bounded log of finished downloads.
//
// It is write-only from the pipeline's point of view: nothing here is ever
// consulted to skip or deduplicate work.
package history

import (
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/sdmp3/sdmp3/filesystem"
	"github.com/sdmp3/sdmp3/where"
)

// Limit is the number of records kept; older ones are dropped first.
const Limit = 500

// Record is a single finished item.
type Record struct {
	Title         string    `json:"title"`
	ResolvedTitle string    `json:"resolved_title,omitempty"`
	URL           string    `json:"url,omitempty"`
	Status        string    `json:"status"`
	Path          string    `json:"path,omitempty"`
	Error         string    `json:"error,omitempty"`
	Source        string    `json:"source,omitempty"`
	FinishedAt    time.Time `json:"finished_at"`
}

var (
	mu     sync.Mutex
	cacher = sync.OnceValue(func() *gache.Cache[[]*Record] {
		return gache.New[[]*Record](
			&gache.Options{
				Path:       where.History(),
				FileSystem: &filesystem.GacheFs{},
			},
		)
	})
)

// Get returns all records, oldest first.
func Get() ([]*Record, error) {
	mu.Lock()
	defer mu.Unlock()

	return get()
}

func get() ([]*Record, error) {
	cached, expired, err := cacher().Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return []*Record{}, nil
	}
	return cached, nil
}

// Save appends records and trims the log to Limit.
func Save(records ...*Record) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := get()
	if err != nil {
		return err
	}

	saved = append(saved, records...)
	if len(saved) > Limit {
		saved = saved[len(saved)-Limit:]
	}

	return cacher().Set(saved)
}

// Clear drops every record.
func Clear() error {
	mu.Lock()
	defer mu.Unlock()

	return cacher().Set([]*Record{})
}
