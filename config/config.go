// Package config loads autodev settings from an optional YAML file, a .env
// file and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Verify  VerifyConfig  `yaml:"verify"`
	Backend BackendConfig `yaml:"backend"`
	Output  OutputConfig  `yaml:"output"`
	Logger  LoggerConfig  `yaml:"logger"`
	Tracer  TracerConfig  `yaml:"tracer"`
}

// LLMConfig configures the model gateway and the request pipeline.
type LLMConfig struct {
	APIKey         string               `yaml:"api_key"`
	Organization   string               `yaml:"organization"`
	BaseURL        string               `yaml:"base_url"`
	Model          string               `yaml:"model"`
	Temperature    float64              `yaml:"temperature"`
	Timeout        time.Duration        `yaml:"timeout"`
	MaxAttempts    int                  `yaml:"max_attempts"`
	Backoff        time.Duration        `yaml:"backoff"`
	MaxModelCalls  int                  `yaml:"max_model_calls"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// CircuitBreakerConfig configures the optional breaker around the gateway.
type CircuitBreakerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxFailures uint32        `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// VerifyConfig configures the URL status checker.
type VerifyConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// BackendConfig configures the backend developer agent.
type BackendConfig struct {
	// CodeTemplate is a path to the server template. Empty uses the built-in one.
	CodeTemplate string `yaml:"code_template"`
	MaxBugFixes  int    `yaml:"max_bug_fixes"`
}

// OutputConfig configures artifact persistence.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// LoggerConfig configures logging.
type LoggerConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	AddSource bool   `yaml:"add_source"`
}

// TracerConfig configures OpenTelemetry tracing.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// Defaults returns a Config with every default applied.
func Defaults() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:       "gpt-3.5-turbo",
			Temperature: 0.1,
			Timeout:     60 * time.Second,
			MaxAttempts: 2,
			CircuitBreaker: CircuitBreakerConfig{
				MaxFailures: 5,
				Timeout:     30 * time.Second,
			},
		},
		Verify: VerifyConfig{Timeout: 5 * time.Second},
		Backend: BackendConfig{
			MaxBugFixes: 2,
		},
		Output: OutputConfig{Dir: "autodev-output"},
		Logger: LoggerConfig{Level: "info", Format: "text"},
		Tracer: TracerConfig{Exporter: "stdout"},
	}
}

// LoadOptions configures Load.
type LoadOptions struct {
	// EnvFile is the dotenv file to read. Missing files are ignored.
	EnvFile string
	// LookupEnv reads process environment variables.
	LookupEnv func(key string) (string, bool)
}

// Load reads the YAML file at path (a missing file yields defaults), applies
// .env values and environment overrides, and validates the result.
func Load(path string, optFns ...func(o *LoadOptions)) (*Config, error) {
	opts := LoadOptions{
		EnvFile:   ".env",
		LookupEnv: os.LookupEnv,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	dotenv := map[string]string{}
	if opts.EnvFile != "" {
		m, err := godotenv.Read(opts.EnvFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read env file: %w", err)
		default:
			dotenv = m
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := opts.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok && v != ""
	}

	if err := applyEnvOverrides(cfg, lookup); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("OPENAI_API_KEY"); ok {
		cfg.LLM.APIKey = v
	}
	if v, ok := lookup("OPENAI_ORG"); ok {
		cfg.LLM.Organization = v
	}
	if v, ok := lookup("OPENAI_BASE_URL"); ok {
		cfg.LLM.BaseURL = v
	}
	if v, ok := lookup("AUTODEV_MODEL"); ok {
		cfg.LLM.Model = v
	}
	if v, ok := lookup("AUTODEV_OUTPUT_DIR"); ok {
		cfg.Output.Dir = v
	}
	if v, ok := lookup("AUTODEV_LOGGER_LEVEL"); ok {
		cfg.Logger.Level = v
	}
	if v, ok := lookup("AUTODEV_TRACER_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AUTODEV_TRACER_ENABLED: %w", err)
		}
		cfg.Tracer.Enabled = b
	}
	if v, ok := lookup("AUTODEV_MAX_MODEL_CALLS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AUTODEV_MAX_MODEL_CALLS: %w", err)
		}
		cfg.LLM.MaxModelCalls = n
	}
	return nil
}
