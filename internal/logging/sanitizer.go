package logging

import (
	"context"
	"log/slog"
	"regexp"
)

// Sanitizer redacts credential-shaped strings from log output. Raw LLM
// responses and reviewed file contents flow through log attributes, so the
// logger must never echo an API key it was handed by accident.
type Sanitizer struct {
	patterns []*regexp.Regexp
}

const redactedPlaceholder = "[REDACTED]"

// NewSanitizer creates a sanitizer with the default pattern set.
func NewSanitizer() *Sanitizer {
	raw := []string{
		`sk-ant-[a-zA-Z0-9-]{40,}`, // Anthropic (before the generic sk- form)
		`sk-[A-Za-z0-9]{20,}`,      // OpenAI
		`AIza[a-zA-Z0-9_-]{35}`,    // Google AI
		`gh[pous]_[A-Za-z0-9]{36}`, // GitHub tokens
		`AKIA[0-9A-Z]{16}`,         // AWS access key
		`xox[baprs]-[0-9a-zA-Z-]{10,}`,
		`(?i)bearer\s+[a-zA-Z0-9._-]{20,}`,
		`(?i)(api[_-]?key|secret|token|password)["'\s:=]+[^\s"']{8,}`,
	}
	compiled := make([]*regexp.Regexp, 0, len(raw))
	for _, p := range raw {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return &Sanitizer{patterns: compiled}
}

// Sanitize redacts sensitive substrings from input.
func (s *Sanitizer) Sanitize(input string) string {
	out := input
	for _, pattern := range s.patterns {
		out = pattern.ReplaceAllString(out, redactedPlaceholder)
	}
	return out
}

// sanitizingHandler rewrites string attributes and messages before handing
// records to the wrapped handler.
type sanitizingHandler struct {
	inner     slog.Handler
	sanitizer *Sanitizer
}

func newSanitizingHandler(inner slog.Handler, sanitizer *Sanitizer) slog.Handler {
	return &sanitizingHandler{inner: inner, sanitizer: sanitizer}
}

func (h *sanitizingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *sanitizingHandler) Handle(ctx context.Context, rec slog.Record) error {
	clean := slog.NewRecord(rec.Time, rec.Level, h.sanitizer.Sanitize(rec.Message), rec.PC)
	rec.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(h.sanitizeAttr(a))
		return true
	})
	return h.inner.Handle(ctx, clean)
}

func (h *sanitizingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		clean = append(clean, h.sanitizeAttr(a))
	}
	return &sanitizingHandler{inner: h.inner.WithAttrs(clean), sanitizer: h.sanitizer}
}

func (h *sanitizingHandler) WithGroup(name string) slog.Handler {
	return &sanitizingHandler{inner: h.inner.WithGroup(name), sanitizer: h.sanitizer}
}

func (h *sanitizingHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, h.sanitizer.Sanitize(a.Value.String()))
	}
	return a
}
