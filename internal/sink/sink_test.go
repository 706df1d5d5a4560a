package sink

import (
	"bytes"
	"errors"
	"testing"

	"github.com/zeebo/xxh3"
)

func TestCountingWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cw := NewCountingWriter(&buf)

	parts := []string{"1.0\t2.0\r\n", "3.0\t4.0\r\n"}
	for _, p := range parts {
		n, err := cw.Write([]byte(p))
		if err != nil {
			t.Fatalf("Write: %v", err)
		}
		if n != len(p) {
			t.Fatalf("Write n = %d, want %d", n, len(p))
		}
	}

	all := parts[0] + parts[1]
	if buf.String() != all {
		t.Fatalf("underlying writer got %q, want %q", buf.String(), all)
	}
	if cw.Bytes() != int64(len(all)) {
		t.Fatalf("Bytes = %d, want %d", cw.Bytes(), len(all))
	}
	if got, want := cw.Sum64(), xxh3.Hash([]byte(all)); got != want {
		t.Fatalf("Sum64 = %x, want %x", got, want)
	}
}

type failWriter struct{ accept int }

func (f *failWriter) Write(p []byte) (int, error) {
	if f.accept >= len(p) {
		return len(p), nil
	}
	return f.accept, errors.New("disk full")
}

// TestCountingWriterPartialWrite checks only accepted bytes count toward the
// total and fingerprint.
func TestCountingWriterPartialWrite(t *testing.T) {
	t.Parallel()

	cw := NewCountingWriter(&failWriter{accept: 3})
	n, err := cw.Write([]byte("abcdef"))
	if err == nil {
		t.Fatal("expected write error")
	}
	if n != 3 {
		t.Fatalf("Write n = %d, want 3", n)
	}
	if cw.Bytes() != 3 {
		t.Fatalf("Bytes = %d, want 3", cw.Bytes())
	}
	if got, want := cw.Sum64(), xxh3.Hash([]byte("abc")); got != want {
		t.Fatalf("Sum64 = %x, want %x", got, want)
	}
}

func TestCountingWriterEmpty(t *testing.T) {
	t.Parallel()

	cw := NewCountingWriter(&bytes.Buffer{})
	if cw.Bytes() != 0 {
		t.Fatalf("Bytes = %d, want 0", cw.Bytes())
	}
	if got, want := cw.Sum64(), xxh3.Hash(nil); got != want {
		t.Fatalf("Sum64 = %x, want %x", got, want)
	}
}
