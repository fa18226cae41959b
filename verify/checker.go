package verify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// DefaultTimeout bounds a single URL check.
const DefaultTimeout = 5 * time.Second

// Checker reports the HTTP status code a URL answers a GET with.
// Transport failures, including timeouts, are returned as errors.
type Checker interface {
	Check(ctx context.Context, url string) (int, error)
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(ctx context.Context, url string) (int, error)

// Check implements Checker.
func (f CheckerFunc) Check(ctx context.Context, url string) (int, error) { return f(ctx, url) }

// HTTPOptions configures an HTTPChecker.
type HTTPOptions struct {
	Timeout   time.Duration
	UserAgent string
	Client    *http.Client
}

// HTTPChecker performs real GET requests.
type HTTPChecker struct {
	client    *http.Client
	userAgent string
}

// NewHTTPChecker creates a checker with a DefaultTimeout client unless a
// client is supplied.
func NewHTTPChecker(optFns ...func(o *HTTPOptions)) *HTTPChecker {
	opts := HTTPOptions{
		Timeout:   DefaultTimeout,
		UserAgent: "autodev-url-checker",
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	return &HTTPChecker{client: client, userAgent: opts.UserAgent}
}

// Check implements Checker.
func (c *HTTPChecker) Check(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request for %s: %w", url, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	return resp.StatusCode, nil
}

// StaticChecker answers from fixed tables. URLs in neither table fail with
// an error, mirroring an unreachable host.
type StaticChecker struct {
	mu       sync.Mutex
	statuses map[string]int
	errs     map[string]error
	checked  []string
}

// NewStaticChecker creates a StaticChecker from a URL to status table.
func NewStaticChecker(statuses map[string]int) *StaticChecker {
	s := &StaticChecker{statuses: map[string]int{}, errs: map[string]error{}}
	for url, code := range statuses {
		s.statuses[url] = code
	}
	return s
}

// WithError makes url fail with err.
func (s *StaticChecker) WithError(url string, err error) *StaticChecker {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[url] = err
	return s
}

// Check implements Checker.
func (s *StaticChecker) Check(ctx context.Context, url string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.checked = append(s.checked, url)

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err, ok := s.errs[url]; ok {
		return 0, err
	}
	if code, ok := s.statuses[url]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("get %s: no such host", url)
}

// Checked returns the URLs checked so far, in order.
func (s *StaticChecker) Checked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.checked))
	copy(out, s.checked)
	return out
}

var (
	_ Checker = (*HTTPChecker)(nil)
	_ Checker = (*StaticChecker)(nil)
	_ Checker = CheckerFunc(nil)
)
