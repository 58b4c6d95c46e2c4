package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainOutput(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestNew_Levels(t *testing.T) {
	plainOutput(t)

	tests := []struct {
		name           string
		debug, verbose bool
		wantInfo       bool
		wantDebug      bool
	}{
		{"default shows warnings only", false, false, false, false},
		{"verbose shows info", false, true, true, false},
		{"debug shows everything", true, false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(&buf, tt.debug, tt.verbose)

			log.Debug("debug line")
			log.Info("info line")
			log.Warn("warn line")

			out := buf.String()
			assert.Equal(t, tt.wantDebug, strings.Contains(out, "debug line"))
			assert.Equal(t, tt.wantInfo, strings.Contains(out, "info line"))
			assert.Contains(t, out, "[WARN]  warn line")
		})
	}
}

func TestPrettyHandler_Attributes(t *testing.T) {
	plainOutput(t)

	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	log.With("run_id", "abc").WithGroup("release").Info("decided", "level", "minor", "commits", 3)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "[INFO]  decided"))
	assert.Contains(t, out, "release.level=minor")
	assert.Contains(t, out, "release.commits=3")
	assert.Contains(t, out, "run_id=abc")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestContextLogger(t *testing.T) {
	plainOutput(t)

	t.Run("falls back to default", func(t *testing.T) {
		assert.Equal(t, slog.Default(), FromContext(context.Background()))
	})

	t.Run("run id is attached to every record", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := WithLogger(context.Background(), New(&buf, false, true))

		ctx, id := WithRunID(ctx)
		_, err := uuid.Parse(id)
		require.NoError(t, err)

		Info(ctx, "analyzing")
		Error(ctx, "publish failed", errors.New("boom"))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		for _, line := range lines {
			assert.Contains(t, line, "run_id="+id)
		}
		assert.Contains(t, lines[1], "error=boom")
	})
}

func TestPrettyHandler_GroupAttrs(t *testing.T) {
	plainOutput(t)

	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	log.Info("counted", slog.Group("counts", "major", 1, "patch", 2), slog.Attr{})

	assert.Equal(t, "[INFO]  counted counts.major=1 counts.patch=2\n", buf.String())
}

func TestPrettyHandler_ConcurrentWrites(t *testing.T) {
	plainOutput(t)

	var buf bytes.Buffer
	log := New(&buf, false, true)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			log.Info("classified", "commit", i)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 20)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "[INFO]  classified commit="))
	}
}
