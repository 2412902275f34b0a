// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the retrying, rate-limit-aware fetch layer
// shared by both pipeline stages.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"
)

// FailureKind classifies a single failed fetch attempt.
type FailureKind int

const (
	// FailureTransport covers timeouts and connection errors.
	FailureTransport FailureKind = iota
	// FailureRateLimited is an HTTP 429 response.
	FailureRateLimited
	// FailureStatus is any other non-200 response.
	FailureStatus
)

func (k FailureKind) String() string {
	switch k {
	case FailureTransport:
		return "transport"
	case FailureRateLimited:
		return "rate_limited"
	default:
		return "status"
	}
}

// ErrUnavailable is returned after the attempt budget is exhausted. Callers
// treat it as "no data for this URL" and continue with the next unit of
// work; it never aborts a whole run.
var ErrUnavailable = errors.New("url unavailable after retries")

// RateLimitUnit is the cooldown step applied per attempt on HTTP 429.
// The server's stated cooldown is a hard floor, so this wait is not
// jittered. Tests override it to avoid real sleeps.
var RateLimitUnit = 60 * time.Second

// Jitter bounds for the randomized backoff and for inter-request pacing.
var (
	JitterMin = 2 * time.Second
	JitterMax = 4 * time.Second
)

// Backoff returns the wait before the next attempt as a pure function of
// the 1-based attempt number, the failure kind, and a uniform draw in
// [0,1). Rate limiting escalates linearly; everything else gets a jittered
// delay drawn from [JitterMin, JitterMax].
func Backoff(attempt int, kind FailureKind, u float64) time.Duration {
	if kind == FailureRateLimited {
		return time.Duration(attempt) * RateLimitUnit
	}
	return JitterMin + time.Duration(u*float64(JitterMax-JitterMin))
}

// Fetcher issues GET requests with retry and backoff. It knows nothing
// about page content. The zero value is not usable; construct with New.
type Fetcher struct {
	client      *http.Client
	header      http.Header
	maxAttempts int
	rand        *rand.Rand
	sleep       func(context.Context, time.Duration) error
	log         io.Writer
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHeader sets a header sent with every request.
func WithHeader(key, value string) Option {
	return func(f *Fetcher) { f.header.Set(key, value) }
}

// WithMaxAttempts sets the attempt budget (default 3).
func WithMaxAttempts(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxAttempts = n
		}
	}
}

// WithRand sets the random source used for jittered delays.
func WithRand(r *rand.Rand) Option {
	return func(f *Fetcher) { f.rand = r }
}

// WithSleep replaces the wait function. Tests inject a recorder so no
// test really waits.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(f *Fetcher) { f.sleep = sleep }
}

// WithLog sets the writer for retry and failure notices.
func WithLog(w io.Writer) Option {
	return func(f *Fetcher) { f.log = w }
}

// New returns a Fetcher using the shared client. The client is reused
// across all requests so the underlying connections are pooled.
func New(client *http.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      client,
		header:      make(http.Header),
		maxAttempts: 3,
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:       sleepContext,
		log:         io.Discard,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch GETs url and returns the response body. Each failed attempt waits
// per Backoff before the next; after the budget is exhausted it returns an
// error wrapping ErrUnavailable.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastKind FailureKind
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		body, kind, err := f.attempt(ctx, url)
		if err == nil {
			return body, nil
		}
		lastKind = kind
		fmt.Fprintf(f.log, "fetch attempt %d/%d failed (%s): %s: %v\n",
			attempt, f.maxAttempts, kind, url, err)

		if attempt == f.maxAttempts {
			break
		}
		wait := Backoff(attempt, kind, f.rand.Float64())
		if kind == FailureRateLimited {
			fmt.Fprintf(f.log, "rate limited, waiting %v before retry\n", wait)
		}
		if err := f.sleep(ctx, wait); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: %s (last failure: %s)", ErrUnavailable, url, lastKind)
}

// attempt performs one GET and classifies any failure.
func (f *Fetcher) attempt(ctx context.Context, url string) (string, FailureKind, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", FailureTransport, err
	}
	for key, values := range f.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", FailureTransport, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", FailureTransport, fmt.Errorf("reading body: %w", err)
		}
		return string(data), 0, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, resp.Body)
		return "", FailureRateLimited, fmt.Errorf("HTTP 429")
	default:
		io.Copy(io.Discard, resp.Body)
		return "", FailureStatus, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
}

// Pace waits a jittered delay from [JitterMin, JitterMax]. The collector
// calls this between any two successful fetches; the throttle is what
// keeps the search surface from blocking the session in the first place,
// so it is applied independently of any retry backoff.
func (f *Fetcher) Pace(ctx context.Context) error {
	delay := JitterMin + time.Duration(f.rand.Float64()*float64(JitterMax-JitterMin))
	return f.sleep(ctx, delay)
}

// sleepContext waits for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
