// Command autodev turns a project request into a scoped project, a list of
// working external APIs, generated backend code and its endpoint schema.
//
// Usage:
//
//	autodev -config autodev.yaml -request "a website that shows forex prices"
//
// Without -request the request is read from standard input. Credentials come
// from the config file, a .env file or OPENAI_API_KEY / OPENAI_ORG.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hupe1980/autodev"
	"github.com/hupe1980/autodev/artifact"
	"github.com/hupe1980/autodev/config"
	"github.com/hupe1980/autodev/internal/tracing"
	"github.com/hupe1980/autodev/logging"
	"github.com/hupe1980/autodev/model"
	"github.com/hupe1980/autodev/model/openai"
	"github.com/hupe1980/autodev/verify"
)

func main() {
	configPath := flag.String("config", "autodev.yaml", "path to the YAML config file (optional)")
	request := flag.String("request", "", "project request; read from stdin when empty")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	userRequest := strings.TrimSpace(*request)
	if userRequest == "" {
		userRequest, err = readRequest()
		if err != nil {
			log.Fatalf("request: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := tracing.Setup(ctx, tracing.Options{Enabled: cfg.Tracer.Enabled, Exporter: cfg.Tracer.Exporter})
	if err != nil {
		log.Fatalf("tracing: %v", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(sctx)
	}()

	logger := logging.NewSlogLogger(logging.ParseLevel(cfg.Logger.Level), cfg.Logger.Format, cfg.Logger.AddSource)

	store, err := artifact.NewFileStore(cfg.Output.Dir)
	if err != nil {
		log.Fatalf("output: %v", err)
	}

	codeTemplate := ""
	if cfg.Backend.CodeTemplate != "" {
		b, err := os.ReadFile(cfg.Backend.CodeTemplate)
		if err != nil {
			log.Fatalf("code template: %v", err)
		}
		codeTemplate = string(b)
	}

	gwLogger := logger.WithComponent("gateway").WithContext("provider", "openai")
	app := autodev.New(newGateway(cfg, gwLogger), func(o *autodev.Options) {
		o.Checker = verify.NewHTTPChecker(func(o *verify.HTTPOptions) { o.Timeout = cfg.Verify.Timeout })
		o.ArtifactStore = store
		o.CodeTemplate = codeTemplate
		o.MaxAttempts = cfg.LLM.MaxAttempts
		o.Backoff = cfg.LLM.Backoff
		o.MaxModelCalls = cfg.LLM.MaxModelCalls
		o.MaxBugFixes = cfg.Backend.MaxBugFixes
		o.Logger = logger
	})

	runID := autodev.NewRunID()
	fs, err := app.RunWithID(ctx, runID, userRequest)
	if err != nil {
		// fatal: the pipeline cannot continue without the model
		log.Fatalf("run %s failed (partial results in %s): %v", runID, store.RunDir(runID), err)
	}

	fmt.Printf("run:      %s\n", runID)
	fmt.Printf("project:  %s\n", fs.ProjectDescription)
	fmt.Printf("apis:     %d working external url(s)\n", len(fs.ExternalURLs))
	fmt.Printf("routes:   %d endpoint(s)\n", len(fs.APIEndpointSchema))
	fmt.Printf("output:   %s\n", store.RunDir(runID))
}

func newGateway(cfg *config.Config, logger logging.Logger) model.Gateway {
	var gw model.Gateway = openai.NewGateway(func(o *openai.Options) {
		o.APIKey = cfg.LLM.APIKey
		o.Organization = cfg.LLM.Organization
		o.BaseURL = cfg.LLM.BaseURL
		o.Model = cfg.LLM.Model
		o.Temperature = cfg.LLM.Temperature
		o.Timeout = cfg.LLM.Timeout
		o.Logger = logger
	})

	if cb := cfg.LLM.CircuitBreaker; cb.Enabled {
		gw = model.NewCircuitBreakerGateway(gw, func(o *model.CircuitBreakerOptions) {
			o.Name = "openai"
			o.MaxFailures = cb.MaxFailures
			o.Timeout = cb.Timeout
			o.Logger = logger
		})
	}
	return gw
}

func readRequest() (string, error) {
	fmt.Fprint(os.Stderr, "What webserver are we building today? ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return "", fmt.Errorf("empty request")
	}
	return line, nil
}
