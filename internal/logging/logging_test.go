package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_HasComponent(t *testing.T) {
	var buf bytes.Buffer
	Init("debug", "text", &buf)

	logger := New("test-component")
	logger.Info().Msg("hello")

	output := buf.String()
	if !strings.Contains(output, "component=test-component") {
		t.Errorf("expected component=test-component in output, got: %s", output)
	}
	if !strings.Contains(output, "hello") {
		t.Errorf("expected 'hello' in output, got: %s", output)
	}
}

func TestInit_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Init("info", "json", &buf)

	logger := New("json-test")
	logger.Info().Msg("json check")

	output := buf.String()
	if !strings.Contains(output, `"level":"info"`) {
		t.Errorf("expected level info in json output, got: %s", output)
	}
	if !strings.Contains(output, `"component":"json-test"`) {
		t.Errorf("expected component field in json output, got: %s", output)
	}
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init("warn", "json", &buf)

	logger := New("level-test")
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("info message should be filtered at warn level: %s", output)
	}
	if !strings.Contains(output, "shown") {
		t.Errorf("expected warn message, got: %s", output)
	}
}

func TestInit_BadLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	Init("loud", "json", &buf)

	logger := New("bad-level")
	logger.Debug().Msg("debug")
	logger.Info().Msg("info")

	output := buf.String()
	if strings.Contains(output, `"message":"debug"`) {
		t.Errorf("debug should be filtered at default level: %s", output)
	}
	if !strings.Contains(output, `"message":"info"`) {
		t.Errorf("expected info message, got: %s", output)
	}
}
