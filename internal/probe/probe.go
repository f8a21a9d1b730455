// SPDX-License-Identifier: MPL-2.0

package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// StatusPass means the endpoint reported ready within the attempt cap.
	StatusPass Status = "pass"
	// StatusTimeout means every attempt was consumed without a ready report.
	StatusTimeout Status = "timeout"
)

// ErrHealthTimeout is the sentinel error wrapped by HealthTimeoutError.
var ErrHealthTimeout = errors.New("health check timed out")

type (
	// Status is the outcome of a readiness poll.
	Status string

	// Result reports how a poll ended and how many attempts it consumed.
	Result struct {
		Status   Status
		Attempts int
	}

	// Matcher decides whether a response means "ready". It is only called
	// with a non-nil response; transport errors are handled by the prober.
	Matcher func(*http.Response) bool

	// HealthTimeoutError reports an exhausted readiness poll.
	HealthTimeoutError struct {
		Endpoint string
		Attempts int
		Interval time.Duration
	}

	// Prober polls HTTP endpoints at a fixed interval.
	Prober struct {
		client *http.Client
		logger *log.Logger
	}
)

// Error implements the error interface.
func (e *HealthTimeoutError) Error() string {
	return fmt.Sprintf("service at %s not healthy after %d attempts (%s apart)",
		e.Endpoint, e.Attempts, e.Interval)
}

// Unwrap returns ErrHealthTimeout for errors.Is() compatibility.
func (e *HealthTimeoutError) Unwrap() error { return ErrHealthTimeout }

// NewProber creates a Prober. A nil client falls back to a client with a
// per-request timeout shorter than typical poll intervals, so a hung
// connection cannot stall the whole poll budget.
func NewProber(client *http.Client, logger *log.Logger) *Prober {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Prober{client: client, logger: logger}
}

// WaitForHealthy polls endpoint until matcher accepts a response. It issues
// at most maxAttempts requests, a fixed interval apart, and stops early on
// success or context cancellation. A request that fails at the transport
// level consumes an attempt like any other.
func (p *Prober) WaitForHealthy(ctx context.Context, endpoint string, matcher Matcher, maxAttempts int, interval time.Duration) (Result, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ok := p.tryOnce(ctx, endpoint, matcher, attempt); ok {
			return Result{Status: StatusPass, Attempts: attempt}, nil
		}

		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return Result{Status: StatusTimeout, Attempts: attempt}, fmt.Errorf("health check canceled: %w", ctx.Err())
		case <-time.After(interval):
		}
	}

	return Result{Status: StatusTimeout, Attempts: maxAttempts}, &HealthTimeoutError{
		Endpoint: endpoint,
		Attempts: maxAttempts,
		Interval: interval,
	}
}

func (p *Prober) tryOnce(ctx context.Context, endpoint string, matcher Matcher, attempt int) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		p.logger.Debug("health probe request invalid", "endpoint", endpoint, "err", err)
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("health probe attempt failed", "attempt", attempt, "err", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }() // Probe response; close error non-critical

	ok := matcher(resp)
	p.logger.Debug("health probe attempt", "attempt", attempt, "status", resp.StatusCode, "ready", ok)
	return ok
}

// HealthMatcher accepts a 200 response whose JSON body reports
// {"status": "pass"}, the health contract the database exposes.
func HealthMatcher(resp *http.Response) bool {
	if resp.StatusCode != http.StatusOK {
		return false
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}
	return body.Status == "pass"
}

// VerifyAuth checks that the API accepts the provisioned token by listing
// organizations. The result is advisory: right after first boot the
// database may still be applying its setup, so callers surface a failure
// as a warning rather than aborting the run.
func (p *Prober) VerifyAuth(ctx context.Context, baseURL, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/v2/orgs", nil)
	if err != nil {
		return fmt.Errorf("failed to build auth probe request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+token)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("auth probe failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() // Probe response; close error non-critical

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("auth probe rejected with status %d", resp.StatusCode)
	}
	return nil
}
