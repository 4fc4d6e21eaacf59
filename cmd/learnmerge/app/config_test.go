package app

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/agentstation/learnmerge/internal/narrative"
	pkgerrors "github.com/agentstation/learnmerge/pkg/errors"
	"github.com/agentstation/learnmerge/pkg/match"
)

// TestLoadConfig verifies defaults when no file or environment is present.
func TestLoadConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.FuzzyThreshold != match.DefaultThreshold {
		t.Errorf("FuzzyThreshold = %v, want %v", config.FuzzyThreshold, match.DefaultThreshold)
	}
	if !config.NormalizeArabic {
		t.Error("NormalizeArabic should default to true")
	}
	if config.IntraPlatform {
		t.Error("IntraPlatform should default to false")
	}
	if config.PlatformA != "Talent" || config.PlatformB != "Pharmacy" {
		t.Errorf("platforms = %s/%s, want Talent/Pharmacy", config.PlatformA, config.PlatformB)
	}
	if config.GeminiModel != narrative.DefaultModel {
		t.Errorf("GeminiModel = %s, want %s", config.GeminiModel, narrative.DefaultModel)
	}
	if len(config.Strategies) != len(match.Priority) {
		t.Errorf("Strategies = %v, want all of %v", config.Strategies, match.Priority)
	}
}

// TestConfig_EnvironmentVariables verifies prefixed and bare environment keys.
func TestConfig_EnvironmentVariables(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LEARNMERGE_FUZZY_THRESHOLD", "0.9")
	t.Setenv("LEARNMERGE_INTRA_PLATFORM", "true")
	t.Setenv("LEARNMERGE_STRATEGIES", "email,fuzzy")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.FuzzyThreshold != 0.9 {
		t.Errorf("FuzzyThreshold = %v, want 0.9", config.FuzzyThreshold)
	}
	if !config.IntraPlatform {
		t.Error("LEARNMERGE_INTRA_PLATFORM not loaded")
	}
	if want := []string{"email", "fuzzy"}; !reflect.DeepEqual(config.Strategies, want) {
		t.Errorf("Strategies = %v, want %v", config.Strategies, want)
	}
	if config.GeminiAPIKey != "test-key" {
		t.Errorf("GeminiAPIKey = %q, want test-key", config.GeminiAPIKey)
	}
	if config.DefaultLogLevel != "debug" {
		t.Errorf("DefaultLogLevel = %q, want debug", config.DefaultLogLevel)
	}
	if config.LogLevel != "" {
		t.Errorf("LogLevel = %q, want empty until --log-level is given", config.LogLevel)
	}
}

// TestConfig_File verifies an explicit YAML config file.
func TestConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learnmerge.yaml")
	content := `fuzzy_threshold: 0.7
normalize_arabic: false
strategies:
  - email
  - phone
platform_a: Academy
workers: 3
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig(%s) failed: %v", path, err)
	}

	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %s, want %s", config.ConfigFile, path)
	}
	if config.FuzzyThreshold != 0.7 {
		t.Errorf("FuzzyThreshold = %v, want 0.7", config.FuzzyThreshold)
	}
	if config.NormalizeArabic {
		t.Error("normalize_arabic: false not applied")
	}
	if want := []string{"email", "phone"}; !reflect.DeepEqual(config.Strategies, want) {
		t.Errorf("Strategies = %v, want %v", config.Strategies, want)
	}
	if config.PlatformA != "Academy" || config.PlatformB != "Pharmacy" {
		t.Errorf("platforms = %s/%s, want Academy/Pharmacy", config.PlatformA, config.PlatformB)
	}
	if config.Workers != 3 {
		t.Errorf("Workers = %d, want 3", config.Workers)
	}
}

// TestConfig_MissingFile verifies an explicit path must exist.
func TestConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("LoadConfig() succeeded for a missing file")
	}
	var cfgErr *pkgerrors.ConfigError
	if !pkgerrors.As(err, &cfgErr) {
		t.Errorf("error %T is not a ConfigError", err)
	}
}

// TestConfig_UpdateFromFlags verifies flags override loaded values.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", LogLevel: ""}
	config.UpdateFromFlags(true, false, true, "", "trace")

	if !config.Verbose || config.Quiet || !config.NoColor {
		t.Errorf("bool flags not applied: %+v", config)
	}
	if config.Format != "yaml" {
		t.Errorf("empty --format replaced configured format: %s", config.Format)
	}
	if config.LogLevel != "trace" {
		t.Errorf("LogLevel = %s, want trace", config.LogLevel)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList([]string{"email, phone", "", "fuzzy"})
	if want := []string{"email", "phone", "fuzzy"}; !reflect.DeepEqual(got, want) {
		t.Errorf("splitList() = %v, want %v", got, want)
	}
}
