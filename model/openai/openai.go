// Package openai provides an implementation of model.Gateway using the OpenAI
// Chat Completions API. It adapts autodev's role/content messages into the
// SDK's message format and classifies failures as core.GatewayError values.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hupe1980/autodev/core"
	"github.com/hupe1980/autodev/internal/tracing"
	"github.com/hupe1980/autodev/logging"
	"github.com/hupe1980/autodev/model"
)

// Default request parameters. A low temperature favors deterministic,
// parseable output.
const (
	DefaultModel       = "gpt-3.5-turbo"
	DefaultTemperature = 0.1
	DefaultTimeout     = 60 * time.Second
)

// Options configure the OpenAI gateway. Credentials left empty fall back to
// the SDK's environment lookup (OPENAI_API_KEY, OPENAI_ORG_ID).
type Options struct {
	Model        string
	Temperature  float64
	APIKey       string
	Organization string
	BaseURL      string
	Timeout      time.Duration
	Logger       logging.Logger
}

// Gateway wraps the OpenAI Chat Completions API behind model.Gateway.
type Gateway struct {
	client *openai.Client
	opts   Options
	logger logging.Logger
}

func defaultOptions() Options {
	return Options{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		Timeout:     DefaultTimeout,
	}
}

// NewGateway creates a gateway with its own client. SDK-level retries are
// disabled: retrying is the task pipeline's decision.
func NewGateway(optFns ...func(o *Options)) *Gateway {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	clientOpts := []option.RequestOption{option.WithMaxRetries(0)}
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.Organization != "" {
		clientOpts = append(clientOpts, option.WithOrganization(opts.Organization))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.Timeout > 0 {
		clientOpts = append(clientOpts, option.WithRequestTimeout(opts.Timeout))
	}

	client := openai.NewClient(clientOpts...)
	return &Gateway{client: &client, opts: opts, logger: logging.OrNoOp(opts.Logger)}
}

// NewGatewayFromClient creates a gateway from an existing client. The caller
// owns the client's retry and timeout configuration.
func NewGatewayFromClient(client *openai.Client, optFns ...func(o *Options)) *Gateway {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Gateway{client: client, opts: opts, logger: logging.OrNoOp(opts.Logger)}
}

// Send implements model.Gateway. It performs exactly one chat completion
// request and returns the first choice's content untrimmed.
func (g *Gateway) Send(ctx context.Context, messages []core.Message) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "llm.chat",
		tracing.StringAttr("llm.provider", "openai"),
		tracing.StringAttr("llm.model", g.opts.Model),
		tracing.IntAttr("llm.messages", len(messages)),
	)
	defer span.End()

	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, g.buildParams(messages))
	if err != nil {
		gwErr := classify(err)
		tracing.RecordError(span, gwErr)
		logging.LogLLMCall(g.logger, g.opts.Model, time.Since(start), false, gwErr)
		return "", gwErr
	}

	if len(resp.Choices) == 0 {
		gwErr := core.NewGatewayError(core.GatewayErrorDecode, errors.New("no choices returned"))
		tracing.RecordError(span, gwErr)
		logging.LogLLMCall(g.logger, g.opts.Model, time.Since(start), false, gwErr)
		return "", gwErr
	}

	span.SetAttributes(tracing.IntAttr("llm.total_tokens", int(resp.Usage.TotalTokens)))
	tracing.SetOK(span)
	logging.LogLLMCall(g.logger, g.opts.Model, time.Since(start), true, nil)

	return resp.Choices[0].Message.Content, nil
}

// buildParams assembles the chat completion request.
func (g *Gateway) buildParams(messages []core.Message) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Messages:    buildMessages(messages),
		Model:       g.opts.Model,
		Temperature: openai.Float(g.opts.Temperature),
	}
}

// buildMessages converts role/content messages into OpenAI chat messages.
func buildMessages(messages []core.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case core.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case core.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// classify maps SDK errors onto the gateway error taxonomy.
func classify(err error) *core.GatewayError {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return core.NewGatewayError(core.GatewayErrorAuth, fmt.Errorf("openai api error: %w", err))
		default:
			return core.NewGatewayError(core.GatewayErrorNetwork, fmt.Errorf("openai api error: %w", err))
		}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return core.NewGatewayError(core.GatewayErrorDecode, fmt.Errorf("openai response: %w", err))
	}

	return core.NewGatewayError(core.GatewayErrorNetwork, fmt.Errorf("openai request: %w", err))
}

// Info returns the model identifier this gateway targets.
func (g *Gateway) Info() string { return g.opts.Model }

var _ model.Gateway = (*Gateway)(nil)
