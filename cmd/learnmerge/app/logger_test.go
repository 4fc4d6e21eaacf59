package app

import (
	"bytes"
	"strings"
	"testing"
)

// TestDetermineLogLevel tests the log level precedence logic.
func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name        string
		config      *Config
		expected    string
		wantWarning string
	}{
		{
			name:     "default level when nothing set",
			config:   &Config{},
			expected: "info",
		},
		{
			name:     "verbose flag sets debug",
			config:   &Config{Verbose: true},
			expected: "debug",
		},
		{
			name:     "quiet flag sets warn",
			config:   &Config{Quiet: true},
			expected: "warn",
		},
		{
			name:     "explicit log-level overrides verbose",
			config:   &Config{LogLevel: "error", Verbose: true},
			expected: "error",
		},
		{
			name:        "verbose and quiet resolves to quiet",
			config:      &Config{Verbose: true, Quiet: true},
			expected:    "warn",
			wantWarning: "both --verbose and --quiet",
		},
		{
			name:     "environment level used when no flags",
			config:   &Config{DefaultLogLevel: "debug"},
			expected: "debug",
		},
		{
			name:     "verbose beats environment level",
			config:   &Config{DefaultLogLevel: "error", Verbose: true},
			expected: "debug",
		},
		{
			name:        "invalid explicit level falls back to info",
			config:      &Config{LogLevel: "loud"},
			expected:    "info",
			wantWarning: `invalid log level "loud"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var warnings bytes.Buffer
			got := determineLogLevel(tt.config, &warnings)
			if got != tt.expected {
				t.Errorf("determineLogLevel() = %s, want %s", got, tt.expected)
			}
			if tt.wantWarning == "" && warnings.Len() > 0 {
				t.Errorf("unexpected warning: %s", warnings.String())
			}
			if tt.wantWarning != "" && !strings.Contains(warnings.String(), tt.wantWarning) {
				t.Errorf("warning %q does not contain %q", warnings.String(), tt.wantWarning)
			}
		})
	}
}

// TestNewLoggerRespectsLevel verifies the logger filters below its level.
func TestNewLoggerRespectsLevel(t *testing.T) {
	logger := newLogger(&Config{Quiet: true, LogOutput: "discard"}, &bytes.Buffer{})
	if logger.Debug().Enabled() {
		t.Error("debug events enabled with --quiet")
	}
	if !logger.Warn().Enabled() {
		t.Error("warn events disabled with --quiet")
	}
}
