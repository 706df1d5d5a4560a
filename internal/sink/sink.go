// Package sink wraps an output writer with byte counting and a running
// content fingerprint, so a run can be summarized (bytes written, xxh3
// checksum) and compared cheaply against a previous download of the same
// worksheet.
package sink

import (
	"io"

	"github.com/zeebo/xxh3"
)

// CountingWriter forwards writes to the underlying writer while tracking the
// number of bytes written and an xxh3 hash of everything written so far.
type CountingWriter struct {
	w    io.Writer
	n    int64
	hash *xxh3.Hasher
}

// NewCountingWriter wraps w.
func NewCountingWriter(w io.Writer) *CountingWriter {
	return &CountingWriter{w: w, hash: xxh3.New()}
}

// Write implements io.Writer. The hash is updated only with the bytes the
// underlying writer accepted.
func (c *CountingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	if n > 0 {
		c.n += int64(n)
		_, _ = c.hash.Write(p[:n])
	}
	return n, err
}

// Bytes returns the total number of bytes written so far.
func (c *CountingWriter) Bytes() int64 { return c.n }

// Sum64 returns the xxh3 fingerprint of everything written so far.
func (c *CountingWriter) Sum64() uint64 { return c.hash.Sum64() }
