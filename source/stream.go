package source

import "io"

// Stream is an opened, finite and non-restartable audio byte stream.
type Stream struct {
	Body io.ReadCloser
	// Extension without the leading dot, e.g. "m4a".
	Extension string
	// Size is the expected length in bytes, or -1 when unknown.
	Size int64
}

// Read implements io.Reader.
func (s *Stream) Read(p []byte) (int, error) {
	return s.Body.Read(p)
}

// Close implements io.Closer.
func (s *Stream) Close() error {
	return s.Body.Close()
}
