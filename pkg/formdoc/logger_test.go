package formdoc

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name           string
		level          LogLevel
		expectedOutput []string
		notExpected    []string
	}{
		{
			name:  "debug level shows all messages",
			level: LogDebug,
			expectedOutput: []string{
				"level=DEBUG", `msg="debug message"`,
				"level=INFO", `msg="info message"`,
				"level=WARN", `msg="warn message"`,
				"level=ERROR", `msg="error message"`,
			},
		},
		{
			name:           "info level hides debug messages",
			level:          LogInfo,
			expectedOutput: []string{"level=INFO", "level=WARN", "level=ERROR"},
			notExpected:    []string{"level=DEBUG", "debug message"},
		},
		{
			name:           "warn level shows only warnings and errors",
			level:          LogWarn,
			expectedOutput: []string{"level=WARN", "level=ERROR"},
			notExpected:    []string{"level=DEBUG", "level=INFO"},
		},
		{
			name:        "off level shows nothing",
			level:       LogOff,
			notExpected: []string{"level="},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.level)

			logger.Debug("debug message")
			logger.Info("info message")
			logger.Warn("warn message")
			logger.Error("error message")

			output := buf.String()
			for _, expected := range tt.expectedOutput {
				if !strings.Contains(output, expected) {
					t.Errorf("Expected output to contain %q, got: %s", expected, output)
				}
			}
			for _, notExpected := range tt.notExpected {
				if strings.Contains(output, notExpected) {
					t.Errorf("Expected output NOT to contain %q, got: %s", notExpected, output)
				}
			}
		})
	}
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogInfo)

	logger.WithField("form", 2).WithFields(Fields{"images": 3}).Info("assembled %s", "page")

	output := buf.String()
	for _, expected := range []string{"form=2", "images=3", `msg="assembled page"`} {
		if !strings.Contains(output, expected) {
			t.Errorf("Expected output to contain %q, got: %s", expected, output)
		}
	}
}

func TestLoggerSetLevelIsShared(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogInfo)
	child := logger.WithField("package", 1)

	if child.IsDebugMode() {
		t.Fatal("child should not start in debug mode")
	}
	logger.SetLevel(LogDebug)
	if !child.IsDebugMode() {
		t.Error("child should follow the parent's level")
	}

	child.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("expected debug output, got: %s", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LogDebug,
		"info":    LogInfo,
		"warn":    LogWarn,
		"error":   LogError,
		"off":     LogOff,
		"verbose": LogInfo,
	}
	for input, want := range tests {
		if got := parseLogLevel(input); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestGlobalLogger(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	var buf bytes.Buffer
	SetLogger(NewLogger(&buf, LogWarn))

	Info("hidden")
	Warn("shown %d", 1)

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("info message should be filtered: %s", buf.String())
	}
	if !strings.Contains(buf.String(), `msg="shown 1"`) {
		t.Errorf("expected warning in output: %s", buf.String())
	}
}
