// Package sink persists audio streams under the downloads directory.
package sink

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/sdmp3/sdmp3/filesystem"
	"github.com/sdmp3/sdmp3/log"
	"github.com/sdmp3/sdmp3/source"
	"github.com/sdmp3/sdmp3/util"
)

// FallbackExtension is used when a stream does not report its container.
const FallbackExtension = "bin"

const bufferSize = 64 * 1024

// Sink writes files into a single destination directory.
type Sink struct {
	dir string
}

// New returns a sink for dir. Nothing is created until Ensure is called.
func New(dir string) *Sink {
	return &Sink{dir: dir}
}

// Dir returns the destination directory.
func (s *Sink) Dir() string {
	return s.dir
}

// Ensure creates the destination directory if needed. It is idempotent.
func (s *Sink) Ensure() error {
	if err := filesystem.API().MkdirAll(s.dir, os.ModePerm); err != nil {
		return &source.DirectoryError{Path: s.dir, Err: err}
	}
	return nil
}

// Path derives the destination path for title.
// Re-processing the same title yields the same path, and the file there is overwritten.
func (s *Sink) Path(title, extension string) string {
	if extension == "" {
		extension = FallbackExtension
	}
	return filepath.Join(s.dir, util.SanitizeFilename(title)+"."+extension)
}

// Persist copies r into dest until end of data.
//
// Bytes go to a hidden temporary file next to dest, which is renamed onto dest
// only after end of data. A failed item never touches an existing file at dest.
// Errors are a *source.FetchError: read failures keep their own stage, local
// write failures get source.StageWrite.
func (s *Sink) Persist(ctx context.Context, r io.Reader, dest string) (written int64, err error) {
	fs := filesystem.API()

	tmp, err := fs.TempFile(filepath.Dir(dest), "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return 0, source.NewFetchError(source.StageWrite, err)
	}

	tmpName := tmp.Name()
	closed := false

	defer func() {
		if !closed {
			_ = tmp.Close()
		}

		if err != nil {
			if removeErr := fs.Remove(tmpName); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
				log.Warnf("remove partial file %s: %v", tmpName, removeErr)
			}
		}
	}()

	buffered := bufio.NewWriterSize(tmp, bufferSize)
	written, err = io.Copy(buffered, &reader{ctx: ctx, r: r})
	if err != nil {
		return written, source.NewFetchError(source.StageWrite, err)
	}

	if err = buffered.Flush(); err != nil {
		return written, source.NewFetchError(source.StageWrite, err)
	}

	if err = tmp.Sync(); err != nil {
		return written, source.NewFetchError(source.StageWrite, err)
	}

	closed = true
	if err = tmp.Close(); err != nil {
		return written, source.NewFetchError(source.StageWrite, err)
	}

	if err = fs.Rename(tmpName, dest); err != nil {
		return written, source.NewFetchError(source.StageWrite, err)
	}

	return written, nil
}

// reader tags upstream failures as stream errors and stops on cancellation.
type reader struct {
	ctx context.Context
	r   io.Reader
}

func (r *reader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, source.NewFetchError(source.StageStream, err)
	}

	n, err := r.r.Read(p)
	if err != nil && err != io.EOF {
		return n, source.NewFetchError(source.StageStream, err)
	}
	return n, err
}
