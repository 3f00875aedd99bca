package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Client talks to the hosted mining service. It only reads finished
// resources; mutation of remote resources is out of scope.
type Client struct {
	httpClient       *http.Client
	token            string
	baseURL          string
	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	storageDir       string
	pollWait         time.Duration
}

// DefaultBaseURL is the production endpoint of the mining service.
const DefaultBaseURL = "https://api.rulelens.io/v1"

// NewClient builds a client with the given HTTP timeout and retry/backoff
// behavior. Zero or negative arguments fall back to defaults.
func NewClient(token string, httpTimeout time.Duration, retryMax int, baseDelay, maxDelay time.Duration) *Client {
	if httpTimeout <= 0 {
		httpTimeout = 60 * time.Second
	}
	if retryMax <= 0 {
		retryMax = 3
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	if maxDelay <= 0 {
		maxDelay = 4 * time.Second
	}
	return &Client{
		httpClient:       &http.Client{Timeout: httpTimeout},
		token:            token,
		baseURL:          DefaultBaseURL,
		retryMaxAttempts: retryMax,
		retryBaseDelay:   baseDelay,
		retryMaxDelay:    maxDelay,
		pollWait:         time.Second,
	}
}

// NewClientWithBaseURL allows injecting a custom base URL (used in tests).
func NewClientWithBaseURL(token string, httpTimeout time.Duration, retryMax int, baseDelay, maxDelay time.Duration, baseURL string) *Client {
	c := NewClient(token, httpTimeout, retryMax, baseDelay, maxDelay)
	if baseURL != "" {
		c.baseURL = baseURL
	}
	return c
}

// WithStorage enables a local resource cache under dir and returns the
// client for chaining.
func (c *Client) WithStorage(dir string) *Client {
	c.storageDir = dir
	return c
}

// GetAssociation fetches one association resource payload. Transient
// failures (timeouts, 429, 5xx) are retried with capped exponential backoff.
func (c *Client) GetAssociation(ctx context.Context, id string) ([]byte, error) {
	if c.token == "" {
		return nil, errors.New("RULELENS_API_TOKEN is missing")
	}
	rid, err := ParseResourceID(id)
	if err != nil {
		return nil, err
	}
	endpoint := c.baseURL + "/associations/" + rid[len("association/"):] + "?only_model=true"

	backoff := c.retryBaseDelay
	var lastErr error
	for attempt := 1; attempt <= c.retryMaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
		httpReq.Header.Set("Accept", "application/json")
		httpReq.Header.Set("X-Request-Id", uuid.NewString())

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			if isRetryableNetErr(err) && attempt < c.retryMaxAttempts {
				lastErr = err
				time.Sleep(withJitter(backoff, c.retryMaxDelay))
				backoff *= 2
				continue
			}
			return nil, fmt.Errorf("http request: %w", err)
		}
		body, retryable, err := c.readResponse(resp)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if retryable && attempt < c.retryMaxAttempts {
			var rl *RateLimitError
			if errors.As(err, &rl) && rl.RetryAfter > 0 {
				time.Sleep(rl.RetryAfter)
				continue
			}
			time.Sleep(withJitter(backoff, c.retryMaxDelay))
			backoff *= 2
			continue
		}
		break
	}
	return nil, lastErr
}

// readResponse consumes a response body, returning the payload on success or
// a classified error and whether a retry makes sense.
func (c *Client) readResponse(resp *http.Response) (body []byte, retryable bool, err error) {
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, true, fmt.Errorf("read response: %w", err)
		}
		return b, false, nil
	}
	raw := map[string]any{}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	_ = json.Unmarshal(b, &raw)
	apiErr := &APIError{StatusCode: resp.StatusCode, Raw: raw, RequestID: resp.Header.Get("X-Request-Id")}
	if v, ok := raw["error"].(map[string]any); ok {
		if msg, ok := v["message"].(string); ok {
			apiErr.Message = msg
		}
		if code, ok := v["code"].(string); ok {
			apiErr.Code = code
		}
	} else {
		if msg, ok := raw["message"].(string); ok {
			apiErr.Message = msg
		}
		if code, ok := raw["code"].(string); ok {
			apiErr.Code = code
		}
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, false, &AuthError{APIError: apiErr}
	case resp.StatusCode == http.StatusTooManyRequests:
		var ra time.Duration
		if v := resp.Header.Get("Retry-After"); v != "" {
			if secs, err := parseRetryAfterSeconds(v); err == nil && secs > 0 {
				ra = time.Duration(secs) * time.Second
			}
		}
		return nil, true, &RateLimitError{APIError: apiErr, RetryAfter: ra}
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, &NotFoundError{APIError: apiErr}
	case resp.StatusCode == http.StatusBadRequest:
		return nil, false, &BadRequestError{APIError: apiErr}
	case resp.StatusCode >= 500 && resp.StatusCode <= 599:
		return nil, true, &ServerError{APIError: apiErr}
	}
	return nil, false, apiErr
}

// Retrieve returns the finished payload for an association resource. A
// cached finished copy is served from local storage when available;
// otherwise the resource is fetched and polled until the service finishes
// it, then stored.
func (c *Client) Retrieve(ctx context.Context, id string) ([]byte, error) {
	rid, err := ParseResourceID(id)
	if err != nil {
		return nil, err
	}
	if cached, ok := c.loadStored(rid); ok {
		return cached, nil
	}
	wait := c.pollWait
	const maxWait = 30 * time.Second
	for {
		body, err := c.GetAssociation(ctx, rid)
		if err != nil {
			return nil, err
		}
		code, err := resourceStatus(body)
		if err != nil {
			return nil, err
		}
		switch code {
		case StatusFinished:
			c.store(rid, body)
			return body, nil
		case StatusFaulty:
			return nil, &FaultyResourceError{ResourceID: rid}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		if wait < maxWait {
			wait *= 2
		}
	}
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	return errors.Is(err, io.EOF)
}

func parseRetryAfterSeconds(v string) (int, error) {
	if s, err := strconv.Atoi(v); err == nil {
		return s, nil
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return int(d.Seconds()), nil
	}
	return 0, fmt.Errorf("invalid Retry-After: %q", v)
}

// withJitter applies +/- 20% jitter and the configured cap to a backoff.
func withJitter(d, max time.Duration) time.Duration {
	if d <= 0 {
		return 500 * time.Millisecond
	}
	f := 0.8 + rand.Float64()*0.4
	out := time.Duration(float64(d) * f)
	if max > 0 && out > max {
		out = max
	}
	if out <= 0 {
		return d
	}
	return out
}
