package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextFieldsAppearInOutput(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &buf})

	ctx := logg.WithRequestID(context.Background(), "req-123")
	ctx = logg.WithField(ctx, "storage_key", "cart")
	logg.Info(ctx, "cart.updated")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["request_id"] != "req-123" {
		t.Fatalf("missing request id: %v", entry)
	}
	if entry["storage_key"] != "cart" {
		t.Fatalf("missing storage key: %v", entry)
	}
	if entry["service"] != "test" {
		t.Fatalf("missing service name: %v", entry)
	}
}

func TestDebugSuppressedAtInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &buf})

	logg.Debug(context.Background(), "noise")
	if buf.Len() != 0 {
		t.Fatalf("expected debug line to be suppressed, got %q", buf.String())
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	t.Parallel()

	if lvl := ParseLevel("not-a-level"); lvl != zerolog.InfoLevel {
		t.Fatalf("unexpected level: %v", lvl)
	}
	if lvl := ParseLevel(" warn "); lvl != zerolog.WarnLevel {
		t.Fatalf("unexpected level: %v", lvl)
	}
}
