package pipeline

import "io"

// progressReader reports the running byte count after every read.
type progressReader struct {
	r       io.Reader
	written int64
	total   int64
	report  func(written, total int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.written += int64(n)
		p.report(p.written, p.total)
	}
	return n, err
}
