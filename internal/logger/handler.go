package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var (
	badges = map[slog.Level]func(format string, a ...interface{}) string{
		slog.LevelDebug: color.HiBlackString,
		slog.LevelInfo:  color.CyanString,
		slog.LevelWarn:  color.YellowString,
		slog.LevelError: color.RedString,
	}

	attrColors = map[string]func(format string, a ...interface{}) string{
		"error":     color.RedString,
		"err":       color.RedString,
		"level":     color.MagentaString,
		"next":      color.MagentaString,
		"previous":  color.MagentaString,
		"tag":       color.MagentaString,
		"commits":   color.GreenString,
		"count":     color.GreenString,
		"major":     color.GreenString,
		"minor":     color.GreenString,
		"patch":     color.GreenString,
		"unmatched": color.GreenString,
	}
)

// PrettyHandler writes one coloured line per record:
//
//	[INFO]  release analyzed previous=v1.2.0 next=v1.3.0 run_id=...
//
// Attributes added through With are rendered once and appended after the
// record's own attributes. Writes are serialised so records from parallel
// classification workers never interleave.
type PrettyHandler struct {
	opts   slog.HandlerOptions
	w      io.Writer
	mu     *sync.Mutex
	prefix string
	scoped []string
}

func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	h := &PrettyHandler{w: w, mu: &sync.Mutex{}}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelWarn
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}
	return level >= threshold
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	parts := make([]string, 0, 2+r.NumAttrs()+len(h.scoped))
	parts = append(parts, badge(r.Level), r.Message)

	r.Attrs(func(a slog.Attr) bool {
		parts = appendAttr(parts, h.prefix, a)
		return true
	})
	parts = append(parts, h.scoped...)

	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			parts = append(parts, color.HiBlackString("(%s:%d)", filepath.Base(frame.File), frame.Line))
		}
	}

	line := strings.Join(parts, " ") + "\n"

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line)
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.scoped = append([]string(nil), h.scoped...)
	for _, a := range attrs {
		clone.scoped = appendAttr(clone.scoped, h.prefix, a)
	}
	return &clone
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func badge(level slog.Level) string {
	paint, ok := badges[level]
	if !ok {
		return fmt.Sprintf("[%s]", level.String())
	}
	// [INFO] and [WARN] are padded to the width of [DEBUG] and [ERROR].
	return paint("%-7s", "["+level.String()+"]")
}

// appendAttr renders a, flattening groups into dotted keys. Empty attributes
// are dropped.
func appendAttr(parts []string, prefix string, a slog.Attr) []string {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return parts
	}

	if a.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if a.Key != "" {
			groupPrefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			parts = appendAttr(parts, groupPrefix, ga)
		}
		return parts
	}

	paint, ok := attrColors[a.Key]
	if !ok {
		paint = color.HiBlackString
	}
	return append(parts, paint("%s%s=%s", prefix, a.Key, a.Value.String()))
}
