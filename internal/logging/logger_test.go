package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Output: &buf})

	log.Info("hello", "component", "scheduler")

	out := buf.String()
	if !strings.Contains(out, `"msg":"hello"`) {
		t.Errorf("expected JSON output, got: %s", out)
	}
	if !strings.Contains(out, `"component":"scheduler"`) {
		t.Errorf("expected component attr, got: %s", out)
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Format: "text", Output: &buf})

	log.Info("quiet")
	log.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info should be filtered at warn level")
	}
	if !strings.Contains(out, "loud") {
		t.Errorf("warn should pass at warn level")
	}
}

func TestSanitizer_RedactsCredentials(t *testing.T) {
	s := NewSanitizer()

	tests := []string{
		"sk-" + strings.Repeat("a", 24),
		"ghp_" + strings.Repeat("A", 36),
		"AKIA" + strings.Repeat("Q", 16),
		"api_key = abcdefgh12345678",
	}
	for _, in := range tests {
		if out := s.Sanitize(in); !strings.Contains(out, "[REDACTED]") {
			t.Errorf("Sanitize(%q) = %q, expected redaction", in, out)
		}
	}

	if out := s.Sanitize("plain message"); out != "plain message" {
		t.Errorf("Sanitize should leave clean text alone, got %q", out)
	}
}

func TestLogger_SanitizesAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Output: &buf})

	secret := "sk-" + strings.Repeat("b", 30)
	log.Info("calling backend", "key", secret)

	out := buf.String()
	if strings.Contains(out, secret) {
		t.Fatalf("secret leaked into log output: %s", out)
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Errorf("expected redaction marker in output: %s", out)
	}
}

func TestWithAgent(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Output: &buf})

	log.WithAgent("security_expert").Info("reviewing")

	if !strings.Contains(buf.String(), `"agent":"security_expert"`) {
		t.Errorf("expected agent attr, got: %s", buf.String())
	}
}
