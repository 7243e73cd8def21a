package observability_test

import (
	"testing"

	"github.com/rs/zerolog"

	"meddir/internal/adapters/observability"
)

func TestNewLoggerLevel(t *testing.T) {
	if got := observability.NewLogger("prod", "debug").GetLevel(); got != zerolog.DebugLevel {
		t.Fatalf("level: %v", got)
	}
	if got := observability.NewLogger("dev", "nonsense").GetLevel(); got != zerolog.InfoLevel {
		t.Fatalf("fallback level: %v", got)
	}
	if got := observability.NewLogger("prod", "").GetLevel(); got != zerolog.InfoLevel {
		t.Fatalf("default level: %v", got)
	}
}
