/*******************************************************************************
* Copyright (C) 2026 the Eclipse BaSyx Authors and Fraunhofer IESE
*
* Permission is hereby granted, free of charge, to any person obtaining
* a copy of this software and associated documentation files (the
* "Software"), to deal in the Software without restriction, including
* without limitation the rights to use, copy, modify, merge, publish,
* distribute, sublicense, and/or sell copies of the Software, and to
* permit persons to whom the Software is furnished to do so, subject to
* the following conditions:
*
* The above copyright notice and this permission notice shall be
* included in all copies or substantial portions of the Software.
*
* THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
* EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
* MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
* NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE
* LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION
* OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION
* WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*
* SPDX-License-Identifier: MIT
******************************************************************************/

// Package httpclient provides the HTTP client shared by all data plane
// requests to AAS services. It pools connections and adds retries with
// exponential backoff, a circuit breaker per host, client-side rate limiting
// and prometheus metrics.
package httpclient

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/common"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/common/logger"
	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// ErrCircuitOpen is returned while the breaker of the target host is open.
var ErrCircuitOpen = common.NewErrServiceUnavailable("HTTPCLIENT-DO-CIRCUITOPEN too many failed requests to host")

// errUpstreamStatus marks responses the breaker counts as failures.
var errUpstreamStatus = errors.New("upstream returned server error")

// Client is safe for concurrent use.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	metrics *Metrics

	maxRetries      int
	initialInterval time.Duration

	breakerFailures uint32
	breakerTimeout  time.Duration
	mu              sync.Mutex
	breakers        map[string]*gobreaker.CircuitBreaker[*http.Response]
}

// New creates a client from cfg. A nil metrics disables instrumentation.
func New(cfg common.HTTPClientConfig, metrics *Metrics) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = max(cfg.MaxIdleConnsPerHost, 1)
	if cfg.InsecureSkipVerify {
		// #nosec G402 -- opt-in for AAS servers with self-signed certificates
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	c := &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(max(cfg.TimeoutSeconds, 1)) * time.Second,
		},
		metrics:         metrics,
		maxRetries:      max(cfg.MaxRetries, 0),
		initialInterval: time.Duration(max(cfg.RetryInitialMillis, 1)) * time.Millisecond,
		breakerFailures: uint32(max(cfg.BreakerFailures, 1)),
		breakerTimeout:  time.Duration(max(cfg.BreakerOpenSeconds, 1)) * time.Second,
		breakers:        make(map[string]*gobreaker.CircuitBreaker[*http.Response]),
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(cfg.Burst, 1))
	}
	return c
}

// Do sends req. Responses with status 5xx or 429 are retried as long as the
// body can be replayed; the last response is returned when retries run out.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	host := req.URL.Host
	start := time.Now()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("HTTPCLIENT-DO-RATELIMIT %w", err)
		}
	}

	resp, err := c.breaker(host).Execute(func() (*http.Response, error) {
		resp, err := c.doWithRetry(ctx, req)
		if err == nil && resp.StatusCode >= http.StatusInternalServerError {
			return resp, errUpstreamStatus
		}
		return resp, err
	})

	if c.metrics != nil {
		c.metrics.Duration.WithLabelValues(host, req.Method).Observe(time.Since(start).Seconds())
	}

	switch {
	case errors.Is(err, errUpstreamStatus):
		return resp, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, fmt.Errorf("%w: %s", ErrCircuitOpen, host)
	case err != nil:
		return nil, err
	}
	return resp, nil
}

func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	retries := c.maxRetries
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		retries = 0
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initialInterval
	policy.MaxElapsedTime = 0

	var resp *http.Response
	attempt := 0
	operation := func() error {
		attemptReq, err := c.prepareAttempt(req, attempt)
		if err != nil {
			return backoff.Permanent(err)
		}
		if attempt > 0 && c.metrics != nil {
			c.metrics.Retries.WithLabelValues(req.URL.Host).Inc()
		}
		attempt++

		r, err := c.http.Do(attemptReq)
		c.record(req, r)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			logger.LogDebug("request to " + req.URL.Host + " failed: " + err.Error())
			return err
		}

		resp = r
		if retryable(r.StatusCode) && attempt <= retries {
			_, _ = io.Copy(io.Discard, r.Body)
			_ = r.Body.Close()
			resp = nil
			return fmt.Errorf("retryable status %d", r.StatusCode)
		}
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(retries)), ctx))
	if err != nil && resp == nil {
		return nil, fmt.Errorf("HTTPCLIENT-DO-REQUESTFAILED %s %s: %w", req.Method, req.URL.Redacted(), err)
	}
	return resp, nil
}

func (c *Client) prepareAttempt(req *http.Request, attempt int) (*http.Request, error) {
	if attempt == 0 || req.GetBody == nil {
		return req, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	clone := req.Clone(req.Context())
	clone.Body = body
	return clone, nil
}

func (c *Client) record(req *http.Request, resp *http.Response) {
	if c.metrics == nil {
		return
	}
	code := "0"
	if resp != nil {
		code = strconv.Itoa(resp.StatusCode)
	}
	c.metrics.Requests.WithLabelValues(req.URL.Host, req.Method, code).Inc()
}

func (c *Client) breaker(host string) *gobreaker.CircuitBreaker[*http.Response] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if breaker, exists := c.breakers[host]; exists {
		return breaker
	}

	settings := gobreaker.Settings{
		Name:        host,
		MaxRequests: 1,
		Timeout:     c.breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= c.breakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.LogWarning(fmt.Sprintf("circuit breaker for %s changed from %s to %s", name, from, to))
			if c.metrics != nil {
				c.metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			}
		},
	}

	breaker := gobreaker.NewCircuitBreaker[*http.Response](settings)
	c.breakers[host] = breaker
	return breaker
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests ||
		status == http.StatusBadGateway ||
		status == http.StatusServiceUnavailable ||
		status == http.StatusGatewayTimeout
}
