// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sleepRecorder collects requested waits without actually waiting.
type sleepRecorder struct {
	waits []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return nil
}

func newTestFetcher(client *http.Client, rec *sleepRecorder, opts ...Option) *Fetcher {
	base := []Option{
		WithSleep(rec.sleep),
		WithRand(rand.New(rand.NewSource(1))),
	}
	return New(client, append(base, opts...)...)
}

func TestBackoff_RateLimitedEscalates(t *testing.T) {
	// The 429 cooldown is a hard floor, never jittered: the random draw
	// must not affect it.
	assert.Equal(t, 60*time.Second, Backoff(1, FailureRateLimited, 0.0))
	assert.Equal(t, 60*time.Second, Backoff(1, FailureRateLimited, 0.99))
	assert.Equal(t, 120*time.Second, Backoff(2, FailureRateLimited, 0.5))
	assert.Equal(t, 180*time.Second, Backoff(3, FailureRateLimited, 0.5))
}

func TestBackoff_JitterBounds(t *testing.T) {
	for _, kind := range []FailureKind{FailureTransport, FailureStatus} {
		assert.Equal(t, 2*time.Second, Backoff(1, kind, 0.0))
		for _, u := range []float64{0.0, 0.25, 0.5, 0.999} {
			d := Backoff(5, kind, u)
			assert.GreaterOrEqual(t, d, 2*time.Second)
			assert.Less(t, d, 4*time.Second+time.Millisecond)
		}
	}
}

func TestFetch_ImmediateSuccess(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte("page content"))
	}))
	defer ts.Close()

	rec := &sleepRecorder{}
	f := newTestFetcher(ts.Client(), rec)

	body, err := f.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "page content", body)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Empty(t, rec.waits)
}

func TestFetch_SendsConfiguredHeaders(t *testing.T) {
	var gotUA, gotAccept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept-Language")
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	rec := &sleepRecorder{}
	f := newTestFetcher(ts.Client(), rec,
		WithHeader("User-Agent", "Mozilla/5.0 (test)"),
		WithHeader("Accept-Language", "en-US,en;q=0.5"),
	)

	_, err := f.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "Mozilla/5.0 (test)", gotUA)
	assert.Equal(t, "en-US,en;q=0.5", gotAccept)
}

func TestFetch_RetriesServerErrorWithJitteredWait(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer ts.Close()

	rec := &sleepRecorder{}
	f := newTestFetcher(ts.Client(), rec)

	body, err := f.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "recovered", body)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	require.Len(t, rec.waits, 2)
	for _, d := range rec.waits {
		assert.GreaterOrEqual(t, d, 2*time.Second)
		assert.LessOrEqual(t, d, 4*time.Second)
	}
}

func TestFetch_RateLimitedWaitsEscalating(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	rec := &sleepRecorder{}
	f := newTestFetcher(ts.Client(), rec)

	_, err := f.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	require.Len(t, rec.waits, 2)
	assert.Equal(t, 60*time.Second, rec.waits[0])
	assert.Equal(t, 120*time.Second, rec.waits[1])
}

func TestFetch_ExhaustsAttemptBudget(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	rec := &sleepRecorder{}
	f := newTestFetcher(ts.Client(), rec, WithMaxAttempts(3))

	_, err := f.Fetch(context.Background(), ts.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	// No wait after the final attempt.
	assert.Len(t, rec.waits, 2)
}

func TestFetch_TransportErrorRetried(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := ts.URL
	ts.Close() // connection refused from here on

	rec := &sleepRecorder{}
	f := newTestFetcher(http.DefaultClient, rec, WithMaxAttempts(2))

	_, err := f.Fetch(context.Background(), url)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Len(t, rec.waits, 1)
}

func TestFetch_ContextCancelledDuringWait(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// Real sleep: the 60s rate-limit wait must be interrupted by the context.
	f := New(ts.Client(), WithMaxAttempts(3))

	_, err := f.Fetch(ctx, ts.URL)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPace_WithinJitterBounds(t *testing.T) {
	rec := &sleepRecorder{}
	f := newTestFetcher(http.DefaultClient, rec)

	for i := 0; i < 20; i++ {
		require.NoError(t, f.Pace(context.Background()))
	}
	require.Len(t, rec.waits, 20)
	for _, d := range rec.waits {
		assert.GreaterOrEqual(t, d, 2*time.Second)
		assert.LessOrEqual(t, d, 4*time.Second)
	}
}
