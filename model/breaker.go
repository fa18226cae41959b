package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/hupe1980/autodev/core"
	"github.com/hupe1980/autodev/logging"
)

// Default circuit breaker settings.
const (
	defaultCBMaxFailures uint32        = 5
	defaultCBTimeout     time.Duration = 30 * time.Second
	defaultCBInterval    time.Duration = 60 * time.Second
)

// CircuitBreakerOptions configures the circuit breaker behavior.
type CircuitBreakerOptions struct {
	// Name identifies the breaker in logs.
	Name string
	// MaxFailures is the number of consecutive failures before the circuit opens.
	MaxFailures uint32
	// Timeout is how long the circuit stays open before transitioning to half-open.
	Timeout time.Duration
	// Interval is the cyclic period of the closed state for clearing failure counts.
	Interval time.Duration
	// Logger receives state change notifications.
	Logger logging.Logger
}

// CircuitBreakerGateway wraps a Gateway with circuit breaker protection.
// When the backend fails repeatedly the circuit opens and subsequent sends
// fail fast without reaching the network.
type CircuitBreakerGateway struct {
	inner   Gateway
	breaker *gobreaker.CircuitBreaker[string]
}

// NewCircuitBreakerGateway wraps inner with a circuit breaker. Zero-valued
// options fall back to defaults.
func NewCircuitBreakerGateway(inner Gateway, optFns ...func(o *CircuitBreakerOptions)) *CircuitBreakerGateway {
	opts := CircuitBreakerOptions{
		Name:        "llm",
		MaxFailures: defaultCBMaxFailures,
		Timeout:     defaultCBTimeout,
		Interval:    defaultCBInterval,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxFailures == 0 {
		opts.MaxFailures = defaultCBMaxFailures
	}
	logger := logging.OrNoOp(opts.Logger)

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: 1, // one trial request while half-open
		Interval:    opts.Interval,
		Timeout:     opts.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("gateway.breaker.state_change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			// A canceled caller says nothing about backend health.
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &CircuitBreakerGateway{inner: inner, breaker: cb}
}

// Send implements Gateway. Calls are routed through the circuit breaker;
// open-circuit rejections surface as network GatewayErrors.
func (g *CircuitBreakerGateway) Send(ctx context.Context, messages []core.Message) (string, error) {
	content, err := g.breaker.Execute(func() (string, error) {
		return g.inner.Send(ctx, messages)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", core.NewGatewayError(core.GatewayErrorNetwork, fmt.Errorf("circuit open: %w", err))
		}
		return "", err
	}
	return content, nil
}

// State returns the current circuit breaker state for monitoring.
func (g *CircuitBreakerGateway) State() gobreaker.State {
	return g.breaker.State()
}

// Compile-time interface checks.
var (
	_ Gateway = (*CircuitBreakerGateway)(nil)
	_ Gateway = (*MockGateway)(nil)
	_ Gateway = GatewayFunc(nil)
)
