package config

import (
	"fmt"
	"strings"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool { return len(v.Errors) > 0 }

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for required values and ranges. It returns a
// *ValidationError listing every problem found.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateLLM(cfg, ve)
	validateVerify(cfg, ve)
	validateBackend(cfg, ve)
	validateOutput(cfg, ve)
	validateLogger(cfg, ve)
	validateTracer(cfg, ve)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateLLM(cfg *Config, ve *ValidationError) {
	if cfg.LLM.APIKey == "" {
		ve.Add("llm.api_key is required (set OPENAI_API_KEY)")
	}
	if cfg.LLM.Model == "" {
		ve.Add("llm.model is required")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 1 {
		ve.Add("llm.temperature must be within [0, 1], got %v", cfg.LLM.Temperature)
	}
	if cfg.LLM.Timeout <= 0 {
		ve.Add("llm.timeout must be > 0")
	}
	if cfg.LLM.MaxAttempts < 1 {
		ve.Add("llm.max_attempts must be >= 1")
	}
	if cfg.LLM.Backoff < 0 {
		ve.Add("llm.backoff must be >= 0")
	}
	if cfg.LLM.MaxModelCalls < 0 {
		ve.Add("llm.max_model_calls must be >= 0")
	}
	if cb := cfg.LLM.CircuitBreaker; cb.Enabled {
		if cb.MaxFailures == 0 {
			ve.Add("llm.circuit_breaker.max_failures must be > 0")
		}
		if cb.Timeout <= 0 {
			ve.Add("llm.circuit_breaker.timeout must be > 0")
		}
	}
}

func validateVerify(cfg *Config, ve *ValidationError) {
	if cfg.Verify.Timeout <= 0 {
		ve.Add("verify.timeout must be > 0")
	}
}

func validateBackend(cfg *Config, ve *ValidationError) {
	if cfg.Backend.MaxBugFixes < 0 {
		ve.Add("backend.max_bug_fixes must be >= 0")
	}
}

func validateOutput(cfg *Config, ve *ValidationError) {
	if cfg.Output.Dir == "" {
		ve.Add("output.dir is required")
	}
}

func validateLogger(cfg *Config, ve *ValidationError) {
	switch strings.ToLower(cfg.Logger.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		ve.Add("logger.level %q is not one of debug, info, warn, error", cfg.Logger.Level)
	}
	switch cfg.Logger.Format {
	case "text", "json":
	default:
		ve.Add("logger.format %q is not one of text, json", cfg.Logger.Format)
	}
}

func validateTracer(cfg *Config, ve *ValidationError) {
	if !cfg.Tracer.Enabled {
		return
	}
	switch cfg.Tracer.Exporter {
	case "stdout", "noop", "":
	default:
		ve.Add("tracer.exporter %q is not one of stdout, noop", cfg.Tracer.Exporter)
	}
}
