package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestAppendCtx(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, nil)

	ctx := AppendCtx(context.Background(), slog.String("log_id", "01J"))
	child := AppendCtx(ctx, slog.Int64("user-id", 7))

	logger.InfoContext(ctx, "parent")
	logger.InfoContext(child, "child")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], `"log_id":"01J"`) || strings.Contains(lines[0], "user-id") {
		t.Errorf("parent line = %s", lines[0])
	}
	if !strings.Contains(lines[1], `"log_id":"01J"`) || !strings.Contains(lines[1], `"user-id":7`) {
		t.Errorf("child line = %s", lines[1])
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		env  string
		want slog.Level
	}{
		{env: "PROD", want: slog.LevelInfo},
		{env: "DEV", want: slog.LevelDebug},
		{env: "", want: slog.LevelDebug},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.env); got != tt.want {
			t.Errorf("LevelFor(%q) = %v, want %v", tt.env, got, tt.want)
		}
	}
}
