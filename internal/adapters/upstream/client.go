// Package upstream holds the HTTP clients for the external review source and
// the sentiment/topic analyzer. Both share one transport with client-side
// rate limiting and retries.
package upstream

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"review_insights/internal/adapters/observability"
	"review_insights/internal/domain"
)

const maxAttempts = 4

var (
	ErrNotFound     = fmt.Errorf("upstream: %w", domain.ErrNotFound)
	ErrUnauthorized = fmt.Errorf("upstream: %w", domain.ErrUnauthorized)
	ErrForbidden    = fmt.Errorf("upstream: %w", domain.ErrForbidden)
)

type transport struct {
	service string // metrics label
	base    string
	hc      *http.Client
	key     string
	rl      *rate.Limiter
}

func newTransport(service, base, key string, rps int, timeout time.Duration) (*transport, error) {
	if base == "" {
		return nil, fmt.Errorf("%s: base URL is required", service)
	}
	if key == "" {
		return nil, fmt.Errorf("%s: API key is required", service)
	}
	if rps <= 0 {
		rps = 5
	}
	return &transport{
		service: service,
		base:    strings.TrimRight(base, "/"),
		hc:      &http.Client{Timeout: timeout},
		key:     key,
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// do performs one logical call with client-side rate limiting, retries, and
// JSON decode into out. Retries on 429 and transient 5xx, honoring
// Retry-After when provided. endpoint is the low-cardinality metrics label.
func (c *transport) do(ctx context.Context, method, endpoint, url string, in, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", c.service, err)
		}
		payload = b
	}

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		// build a fresh request each attempt
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return err
		}
		req.Header.Set("X-API-Key", c.key)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "review-insights/1.0")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(c.service, endpoint, 0, time.Since(start))
			observability.ObserveExternalError(c.service, endpoint, err)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < maxAttempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal(c.service, endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("%s: decode response: %w", c.service, err)
			}
			return nil

		case http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("%s: remote %d", c.service, resp.StatusCode)
			if i < maxAttempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			// read a small error body for diagnostics
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("%s: bad status %d: %s", c.service, resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	if lastErr == nil {
		lastErr = errors.New("no attempt succeeded")
	}
	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
