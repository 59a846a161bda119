package logger

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "boxify.log")
	log, closer, err := New(Config{Level: "debug", Encoding: "json", File: path})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	log.Info("hello", zap.String("k", "v"))
	_ = log.Sync()
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Errorf("log file = %q, want hello entry", data)
	}
}

func TestNewBadLevelFallsBackToInfo(t *testing.T) {
	log, closer, err := New(Config{Level: "loud", File: filepath.Join(t.TempDir(), "x.log")})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer closer.Close() //nolint:errcheck
	if log.Core().Enabled(zap.DebugLevel) {
		t.Error("debug enabled, want info fallback")
	}
	if !log.Core().Enabled(zap.InfoLevel) {
		t.Error("info disabled")
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-1")
	if got := RequestID(ctx); got != "req-1" {
		t.Errorf("RequestID() = %q, want req-1", got)
	}
	if got := RequestID(context.Background()); got != "" {
		t.Errorf("RequestID(empty) = %q", got)
	}
	base := zap.NewNop()
	if WithRequestID(context.Background(), base) != base {
		t.Error("WithRequestID without id should return base logger")
	}
}
