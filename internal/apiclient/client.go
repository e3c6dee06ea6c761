package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lumicrm/lumicrm-go/internal/config"
	"github.com/lumicrm/lumicrm-go/pkg/telemetry/correlation"
	"go.uber.org/zap"
)

const correlationHeader = "X-Correlation-Id"

// Client is the JSON transport against the remote CRM API. The session
// credential is a cookie kept in the client's jar; every store and service
// in this module shares one Client.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
	metrics *Metrics
}

func New(cfg config.Config, logger *zap.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: cfg.RequestTimeout,
		},
		log:     logger.Named("apiclient"),
		metrics: DefaultMetrics(),
	}, nil
}

// NewWithHTTPClient builds a Client around an existing *http.Client.
// Intended for tests running against httptest servers.
func NewWithHTTPClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient.Jar == nil {
		jar, _ := cookiejar.New(nil)
		httpClient.Jar = jar
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     logger.Named("apiclient"),
		metrics: DefaultMetrics(),
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get fetches path and decodes the JSON response into out (out may be nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post sends body as JSON and decodes the response into out. Each POST
// carries a fresh idempotency key.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put sends body as JSON and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE for path.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

type errorEnvelope struct {
	Detail string `json:"detail"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (e errorEnvelope) message() string {
	if m := strings.TrimSpace(e.Detail); m != "" {
		return m
	}
	return strings.TrimSpace(e.Error.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	resource := resourceOf(path)

	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &APIError{Kind: classify(method, 0), Resource: resource, Message: "encode request", Err: err}
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(path, "/"), bodyReader)
	if err != nil {
		return &APIError{Kind: classify(method, 0), Resource: resource, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	_, cid := correlation.EnsureCorrelationID(ctx)
	req.Header.Set(correlationHeader, cid)
	if method == http.MethodPost {
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.observe(resource, method, 0, time.Since(start).Seconds())
		c.log.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return &APIError{Kind: classify(method, 0), Resource: resource, Err: err}
	}
	defer resp.Body.Close()
	c.metrics.observe(resource, method, resp.StatusCode, time.Since(start).Seconds())

	if resp.StatusCode >= http.StatusBadRequest {
		var envelope errorEnvelope
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		return &APIError{
			Kind:     classify(method, resp.StatusCode),
			Status:   resp.StatusCode,
			Resource: resource,
			Message:  envelope.message(),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Kind: classify(method, 0), Resource: resource, Message: "decode response", Err: err}
	}
	return nil
}

func resourceOf(path string) string {
	trimmed := strings.TrimLeft(path, "/")
	if idx := strings.IndexAny(trimmed, "/?"); idx > 0 {
		return trimmed[:idx]
	}
	return trimmed
}
