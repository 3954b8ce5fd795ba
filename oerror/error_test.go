package oerror

import (
	"errors"
	"io"
	"testing"
)

func TestNew(t *testing.T) {
	err := New("reading scene %q: %w", "loop.toml", io.EOF)
	if err.Error() != `reading scene "loop.toml": EOF` {
		t.Fatalf("unexpected message: %s", err)
	}
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected the wrapped cause to be kept")
	}
	if errors.Unwrap(New("plain %d", 1)) != nil {
		t.Fatalf("expected no cause without %%w")
	}
}
