package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})
	defer Init(DefaultConfig())

	Info().Msg("hidden")
	Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn message missing: %s", out)
	}
}

func TestInitInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "chatty", Output: &buf})
	defer Init(DefaultConfig())

	Debug().Msg("debug-line")
	Info().Msg("info-line")

	out := buf.String()
	if strings.Contains(out, "debug-line") {
		t.Error("debug should be filtered when level falls back to info")
	}
	if !strings.Contains(out, "info-line") {
		t.Error("info should be logged when level falls back to info")
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Output: &buf})
	defer Init(DefaultConfig())

	log := Component("transfer")
	log.Info().Msg("hello")

	if !strings.Contains(buf.String(), `"component":"transfer"`) {
		t.Errorf("component field missing: %s", buf.String())
	}
}
