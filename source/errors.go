package source

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a search yields zero results.
var ErrNotFound = errors.New("no search result")

// Stages a FetchError can originate from.
const (
	StageSearch = "search"
	StageFetch  = "fetch"
	StageStream = "stream"
	StageWrite  = "write"
)

// FetchError covers network, stream, decode and write failures of a single item.
type FetchError struct {
	Stage string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError wraps err as a FetchError of the given stage.
// An err that already is a FetchError is returned unchanged so the original stage is kept.
func NewFetchError(stage string, err error) error {
	if err == nil {
		return nil
	}

	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}

	return &FetchError{Stage: stage, Err: err}
}

// DirectoryError is the only fatal batch error: the destination directory could not be created.
type DirectoryError struct {
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("create destination directory %s: %v", e.Path, e.Err)
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}
