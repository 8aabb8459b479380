package identitysdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cenkalti/backoff/v4"
)

// maxResponseBytes guards against a misbehaving server.
const maxResponseBytes = 1 << 20

type request struct {
	method  string
	path    string
	body    any
	bearer  string
	headers map[string]string
	retry   bool
}

type response struct {
	status int
	body   []byte
}

// do sends req, retrying transient failures when req.retry is set. A
// non-retryable HTTP status is returned as a response, not an error.
func (c *Client) do(ctx context.Context, req request) (*response, error) {
	var payload []byte
	if req.body != nil {
		var err error
		if payload, err = json.Marshal(req.body); err != nil {
			return nil, fmt.Errorf("identitysdk: marshal request: %w", err)
		}
	}

	var out *response
	attempt := func() error {
		resp, err := c.send(ctx, req, payload)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		if resp.status >= 400 {
			if apiErr := parseErrorResponse(resp.status, resp.body); apiErr.Temporary() {
				return apiErr
			}
		}
		out = resp
		return nil
	}

	if !req.retry || c.MaxRetries <= 0 {
		if err := attempt(); err != nil {
			return nil, unwrapPermanent(err)
		}
		return out, nil
	}

	if err := backoff.Retry(attempt, c.backOff(ctx)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) send(ctx context.Context, req request, payload []byte) (*response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.BaseURL+req.path, body)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: build request: %w", ErrInvalidArgument, err))
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.bearer)
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrConnectionFailed, err)
	}
	return &response{status: resp.StatusCode, body: data}, nil
}

func (c *Client) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	if c.RetryInitialInterval > 0 {
		exp.InitialInterval = c.RetryInitialInterval
	}
	// The retry count is the limit, not elapsed time.
	exp.MaxElapsedTime = 0
	exp.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(c.MaxRetries)), ctx) // #nosec G115 - MaxRetries > 0 here
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func unwrapPermanent(err error) error {
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Err
	}
	return err
}

// decode unmarshals a response with the expected status into target, or
// returns the error the response describes.
func (r *response) decode(target any, expectedStatus int) error {
	if r.status != expectedStatus {
		return parseErrorResponse(r.status, r.body)
	}
	if target == nil {
		return nil
	}
	if err := json.Unmarshal(r.body, target); err != nil {
		return fmt.Errorf("identitysdk: decode response: %w", err)
	}
	return nil
}
