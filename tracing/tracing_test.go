package tracing

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestTracingFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "span_test.txt")

	if err := Init("btuid", "0.0.1", fname); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	ctx, span := StartSpan(context.Background(), "test", KindInternal)
	span.WithAttributes(map[string]string{"k": "v"})
	if _, ok := SpanFromContext(ctx); !ok {
		t.Fatalf("expected span in context")
	}
	EndSpan(span, nil)

	data, err := os.ReadFile(fname)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("no data written to trace file")
	}

	second := filepath.Join(t.TempDir(), "span_second.txt")
	if err := Init("btuid", "0.0.1", second); err != nil {
		t.Fatalf("second init failed: %v", err)
	}
	if _, err := os.Stat(second); !os.IsNotExist(err) {
		t.Fatalf("second init created %v", second)
	}
}
