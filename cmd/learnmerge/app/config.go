package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/learnmerge/internal/narrative"
	"github.com/agentstation/learnmerge/pkg/errors"
	"github.com/agentstation/learnmerge/pkg/match"
	"github.com/agentstation/learnmerge/pkg/records"
)

// envPrefix namespaces environment variables, e.g. LEARNMERGE_FUZZY_THRESHOLD.
const envPrefix = "LEARNMERGE"

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Reconciliation
	FuzzyThreshold  float64
	IntraPlatform   bool
	NormalizeArabic bool
	Strategies      []string
	Workers         int
	PlatformA       string
	PlatformB       string

	// Narrative review
	GeminiAPIKey      string
	GeminiModel       string
	ReviewConcurrency int

	// Logging configuration. LogLevel is only set by --log-level;
	// DefaultLogLevel comes from the environment or the config file.
	LogLevel        string
	DefaultLogLevel string
	LogFormat       string
	LogOutput       string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by the commands)
//  2. Environment variables
//  3. .env files
//  4. Config file (path, or ~/.learnmerge.yaml and ./.learnmerge.yaml)
//  5. Defaults
func LoadConfig(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("gemini_api_key", envPrefix+"_GEMINI_API_KEY", narrative.APIKeyEnv); err != nil {
		return nil, errors.NewConfigError("viper", "cannot bind "+narrative.APIKeyEnv, err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("viper", "cannot read "+path, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".learnmerge")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.NewConfigError("viper", "cannot read config file", err)
			}
		}
	}

	config := &Config{
		ConfigFile: v.ConfigFileUsed(),

		FuzzyThreshold:  v.GetFloat64("fuzzy_threshold"),
		IntraPlatform:   v.GetBool("intra_platform"),
		NormalizeArabic: v.GetBool("normalize_arabic"),
		Strategies:      splitList(v.GetStringSlice("strategies")),
		Workers:         v.GetInt("workers"),
		PlatformA:       v.GetString("platform_a"),
		PlatformB:       v.GetString("platform_b"),

		GeminiAPIKey:      v.GetString("gemini_api_key"),
		GeminiModel:       v.GetString("gemini_model"),
		ReviewConcurrency: v.GetInt("review_concurrency"),

		DefaultLogLevel: getEnvOrDefault("LOG_LEVEL", v.GetString("log_level")),
		LogFormat:       getEnvOrDefault("LOG_FORMAT", v.GetString("log_format")),
		LogOutput:       getEnvOrDefault("LOG_OUTPUT", v.GetString("log_output")),
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	defaults := match.DefaultConfig()
	strategies := make([]string, len(defaults.Strategies))
	for i, s := range defaults.Strategies {
		strategies[i] = string(s)
	}

	v.SetDefault("fuzzy_threshold", defaults.Threshold)
	v.SetDefault("intra_platform", defaults.IntraPlatform)
	v.SetDefault("normalize_arabic", defaults.LocaleAware)
	v.SetDefault("strategies", strategies)
	v.SetDefault("workers", 0)
	v.SetDefault("platform_a", records.PlatformTalent.String())
	v.SetDefault("platform_b", records.PlatformPharmacy.String())
	v.SetDefault("gemini_model", narrative.DefaultModel)
	v.SetDefault("review_concurrency", 4)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// UpdateFromFlags updates config values from parsed command flags.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// splitList accepts both YAML lists and comma separated environment values.
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first because godotenv never overrides a set value.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
