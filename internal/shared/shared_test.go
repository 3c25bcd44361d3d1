package shared

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	logger.Info("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("expected log output, got %q", buf.String())
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := WithLogger(NewLogger(&buf), "component", "engine")
	logger.Info("batch")
	out := buf.String()
	if !strings.Contains(out, "component") || !strings.Contains(out, "engine") {
		t.Errorf("expected the bound key-value pair in output, got %q", out)
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.Debug("hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug output should be suppressed at the default level")
	}

	SetLogLevel(logger, log.DebugLevel)
	logger.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("expected debug output after lowering the level")
	}
}

func TestGenerateID(t *testing.T) {
	first := GenerateID()
	second := GenerateID()
	if first == "" || first == second {
		t.Errorf("expected distinct non-empty IDs, got %q and %q", first, second)
	}
}
