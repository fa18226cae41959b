package model

import (
	"context"
	"errors"
	"sync"

	"github.com/hupe1980/autodev/core"
)

// Gateway sends an ordered list of messages to the chat-completion backend and
// returns the content of the first choice verbatim. Every failure is reported
// as a *core.GatewayError. Implementations perform exactly one outbound call
// per Send and never retry.
type Gateway interface {
	Send(ctx context.Context, messages []core.Message) (string, error)
}

// GatewayFunc adapts an ordinary function to the Gateway interface.
type GatewayFunc func(ctx context.Context, messages []core.Message) (string, error)

// Send implements Gateway.
func (f GatewayFunc) Send(ctx context.Context, messages []core.Message) (string, error) {
	return f(ctx, messages)
}

// ErrNoScriptedResponse is returned by MockGateway when its script is exhausted.
var ErrNoScriptedResponse = errors.New("mock gateway: no scripted response left")

type scripted struct {
	content string
	err     error
}

// MockGateway is a lightweight in‑memory Gateway useful for tests & examples.
// Responses are replayed in the order they were added; every Send consumes
// one entry. It is safe for concurrent use.
type MockGateway struct {
	mu       sync.Mutex
	script   []scripted
	requests [][]core.Message
}

// NewMockGateway constructs an empty MockGateway.
func NewMockGateway() *MockGateway { return &MockGateway{} }

// AddResponse queues a successful completion.
func (m *MockGateway) AddResponse(content string) *MockGateway {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, scripted{content: content})
	return m
}

// AddError queues a failure. Plain errors are wrapped as network GatewayErrors.
func (m *MockGateway) AddError(err error) *MockGateway {
	var gwErr *core.GatewayError
	if !errors.As(err, &gwErr) {
		err = core.NewGatewayError(core.GatewayErrorNetwork, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, scripted{err: err})
	return m
}

// Send implements Gateway.
func (m *MockGateway) Send(ctx context.Context, messages []core.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", core.NewGatewayError(core.GatewayErrorNetwork, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]core.Message, len(messages))
	copy(cp, messages)
	m.requests = append(m.requests, cp)

	if len(m.script) == 0 {
		return "", core.NewGatewayError(core.GatewayErrorNetwork, ErrNoScriptedResponse)
	}
	next := m.script[0]
	m.script = m.script[1:]
	return next.content, next.err
}

// Requests returns a snapshot of every message list sent so far.
func (m *MockGateway) Requests() [][]core.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]core.Message, len(m.requests))
	copy(out, m.requests)
	return out
}

// Calls returns the number of Send invocations.
func (m *MockGateway) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Pending returns the number of scripted entries not yet consumed.
func (m *MockGateway) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.script)
}
