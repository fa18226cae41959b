package flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/autodev/core"
	"github.com/hupe1980/autodev/internal/tracing"
	"github.com/hupe1980/autodev/logging"
	"github.com/hupe1980/autodev/model"
	"github.com/hupe1980/autodev/prompt"
)

// DefaultMaxAttempts is one initial attempt plus one retry.
const DefaultMaxAttempts = 2

// Event announces a model request on behalf of an agent.
type Event struct {
	AgentLabel      string
	TaskDescription string
}

// Options configures a Requester.
type Options struct {
	// MaxAttempts bounds gateway calls per request (minimum 1).
	MaxAttempts int
	// Backoff is the pause between attempts.
	Backoff time.Duration
	// Limiter caps the total number of model calls. Nil means unlimited.
	Limiter *core.ModelLimiter
	// OnRequest observes every request before it is sent. When nil the
	// request is reported as an agent message on Logger.
	OnRequest func(Event)
	// Logger receives pipeline diagnostics.
	Logger logging.Logger
}

// Requester composes the prompt extender and a model gateway under a retry
// policy. It holds no per-request state and may be shared by sequentially
// running agents.
type Requester struct {
	gateway model.Gateway
	opts    Options
	logger  logging.Logger
}

// NewRequester creates a Requester with the default fail-fast policy.
func NewRequester(gw model.Gateway, optFns ...func(o *Options)) *Requester {
	opts := Options{
		MaxAttempts: DefaultMaxAttempts,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	return &Requester{gateway: gw, opts: opts, logger: logging.OrNoOp(opts.Logger)}
}

// Exchange is one answered model request.
type Exchange struct {
	// Prompt is the system message that was sent.
	Prompt core.Message
	// Answer is the model output, untrimmed.
	Answer string
}

// Request extends fn with msgContext, reports the request and sends it.
// Gateway failures are retried up to MaxAttempts; if every attempt fails the
// returned error wraps core.ErrFatal and the last gateway error.
func (r *Requester) Request(ctx context.Context, msgContext, agentLabel, taskDescription string, fn prompt.TaskFunc) (string, error) {
	ex, err := r.Exchange(ctx, msgContext, agentLabel, taskDescription, fn)
	return ex.Answer, err
}

// Exchange behaves like Request and also returns the prompt it sent.
func (r *Requester) Exchange(ctx context.Context, msgContext, agentLabel, taskDescription string, fn prompt.TaskFunc) (Exchange, error) {
	msg := prompt.Extend(fn, msgContext)
	r.announce(Event{AgentLabel: agentLabel, TaskDescription: taskDescription})

	ctx, span := tracing.StartSpan(ctx, "flow.request",
		tracing.StringAttr("agent", agentLabel),
		tracing.StringAttr("task", taskDescription),
	)
	defer span.End()

	var lastErr error
	for attempt := 1; attempt <= r.opts.MaxAttempts; attempt++ {
		if r.opts.Limiter != nil {
			if err := r.opts.Limiter.Increment(); err != nil {
				tracing.RecordError(span, err)
				return Exchange{}, fmt.Errorf("%w: task %s: %w", core.ErrFatal, taskDescription, err)
			}
		}

		out, err := r.gateway.Send(ctx, []core.Message{msg})
		if err == nil {
			r.logger.Debug("flow.request.complete", "agent", agentLabel, "task", taskDescription, "attempt", attempt)
			tracing.SetOK(span)
			return Exchange{Prompt: msg, Answer: out}, nil
		}
		lastErr = err

		if ctxErr := ctx.Err(); ctxErr != nil {
			tracing.RecordError(span, ctxErr)
			return Exchange{}, fmt.Errorf("task %s: %w", taskDescription, ctxErr)
		}

		if attempt < r.opts.MaxAttempts {
			r.logger.Warn("flow.request.retry", "agent", agentLabel, "task", taskDescription, "attempt", attempt, "error", err.Error())
			if err := sleep(ctx, r.opts.Backoff); err != nil {
				tracing.RecordError(span, err)
				return Exchange{}, fmt.Errorf("task %s: %w", taskDescription, err)
			}
		}
	}

	r.logger.Error("flow.request.failed", "agent", agentLabel, "task", taskDescription, "attempts", r.opts.MaxAttempts, "error", lastErr.Error())
	tracing.RecordError(span, lastErr)

	return Exchange{}, fmt.Errorf("%w: task %s failed after %d attempts: %w", core.ErrFatal, taskDescription, r.opts.MaxAttempts, lastErr)
}

// Logger returns the logger the requester reports to.
func (r *Requester) Logger() logging.Logger { return r.logger }

func (r *Requester) announce(ev Event) {
	if r.opts.OnRequest != nil {
		r.opts.OnRequest(ev)
		return
	}
	logging.AgentMessage(r.logger, logging.MessageAICall, ev.AgentLabel, ev.TaskDescription)
}

// RequestDecoded performs Request and decodes the answer as JSON into T.
func RequestDecoded[T any](ctx context.Context, r *Requester, msgContext, agentLabel, taskDescription string, fn prompt.TaskFunc) (T, error) {
	raw, err := r.Request(ctx, msgContext, agentLabel, taskDescription, fn)
	if err != nil {
		var zero T
		return zero, err
	}
	return Decode[T](raw)
}

// Decode parses model output as JSON into T. Failures wrap both
// core.ErrFatal and core.ErrDecode.
func Decode[T any](raw string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %w into %T: %w", core.ErrFatal, core.ErrDecode, v, err)
	}
	return v, nil
}

// IsFatal reports whether err must abort the run.
func IsFatal(err error) bool { return errors.Is(err, core.ErrFatal) }

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
