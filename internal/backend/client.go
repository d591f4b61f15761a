// Package backend talks to the marketplace side of the Khedut Saathi
// backend: the product catalog, user lookups and sign-up. The chat
// endpoint lives in package channel.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxBodyBytes = 4 << 20

// UnexpectedErrorMessage is shown when the backend fails without a message.
const UnexpectedErrorMessage = "An unexpected error occurred. Please try again later."

// ErrorBody is the JSON error shape of the marketplace endpoints.
type ErrorBody struct {
	Message string `json:"message"`
}

// APIError is a non-2xx reply. Message is the backend's own text, if any.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" || e.Code < 400 || e.Code > 500 {
		return UnexpectedErrorMessage
	}
	return e.Message
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type Client struct {
	base    string
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
}

func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("backend URL is not configured")
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme must be http or https", opts.BaseURL)
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:    opts.BaseURL,
		timeout: opts.Timeout,
		client:  client,
		logger:  logger,
	}, nil
}

// do sends in (if non-nil) as JSON and decodes a 2xx reply into out (if
// non-nil). Non-2xx replies become *APIError.
func (c *Client) do(ctx context.Context, method string, path []string, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint, err := url.JoinPath(c.base, path...)
	if err != nil {
		return fmt.Errorf("build URL: %w", err)
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger := c.logger.With(zap.String("request_id", requestID), zap.String("method", method), zap.String("url", endpoint))
	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warn("backend request failed", zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb ErrorBody
		_ = json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&eb)
		logger.Warn("backend returned error status", zap.Int("status", resp.StatusCode), zap.String("message", eb.Message))
		return &APIError{Code: resp.StatusCode, Message: eb.Message}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil
	}
	err = json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out)
	if errors.Is(err, io.EOF) {
		// An empty 2xx body carries nothing to decode.
		return nil
	}
	if err != nil {
		logger.Warn("undecodable response body", zap.Error(err))
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
