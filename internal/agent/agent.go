package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"Mathagent/internal/logging"
	"Mathagent/pkg/types"
)

const (
	// DefaultTimeout bounds a single dialect attempt
	DefaultTimeout = 30 * time.Second

	maxResponseBytes = 4 << 20
)

// ErrEndpointUnavailable is matched when every dialect attempt failed
var ErrEndpointUnavailable = errors.New("no viable LLM endpoint responded")

// EndpointError reports an exhausted dialect list and the last failure seen
type EndpointError struct {
	Attempts int
	Last     error
}

func (e *EndpointError) Error() string {
	if e.Last == nil {
		return ErrEndpointUnavailable.Error()
	}
	return e.Last.Error()
}

func (e *EndpointError) Is(target error) bool {
	return target == ErrEndpointUnavailable
}

func (e *EndpointError) Unwrap() error {
	return e.Last
}

// Client probes an ordered list of dialects against one base address and
// returns the first successful reply
type Client struct {
	BaseURL    string
	Model      string
	APIKey     string
	Timeout    time.Duration
	Dialects   []Dialect
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// NewClient creates a client; a nil dialect list means DefaultDialects
func NewClient(baseURL, model, apiKey string, dialects []Dialect) *Client {
	if dialects == nil {
		dialects = DefaultDialects()
	}
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Model:    model,
		APIKey:   apiKey,
		Timeout:  DefaultTimeout,
		Dialects: dialects,
	}
}

// Chat sends the conversation using each dialect in order until one succeeds
func (c *Client) Chat(ctx context.Context, messages []types.Message) (string, error) {
	target := Target{
		BaseURL: strings.TrimRight(c.BaseURL, "/"),
		Model:   c.Model,
		APIKey:  c.APIKey,
	}

	var last error
	attempts := 0
	for _, d := range c.Dialects {
		attempts++
		started := time.Now()
		req := d.Build(target, messages)

		reply, err := c.attempt(ctx, d, req)
		c.Logger.LogModelAttempt(d.Name, req.URL, time.Since(started), err)
		if err == nil {
			return reply, nil
		}
		last = err

		if ctx.Err() != nil {
			break
		}
	}

	return "", &EndpointError{Attempts: attempts, Last: last}
}

func (c *Client) attempt(ctx context.Context, d Dialect, r Request) (string, error) {
	payload, err := json.Marshal(r.Body)
	if err != nil {
		return "", fmt.Errorf("%s: encode request: %w", d.Name, err)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	for key, values := range r.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response from %s: %w", r.URL, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("%d from %s: %s", resp.StatusCode, r.URL, strings.TrimSpace(string(respBody)))
	}

	var body any
	if err := json.Unmarshal(respBody, &body); err != nil {
		return "", fmt.Errorf("invalid JSON from %s: %w", r.URL, err)
	}

	if d.Extract != nil {
		if reply, ok := d.Extract(body); ok {
			return reply, nil
		}
	}
	return NormalizeReply(body), nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
