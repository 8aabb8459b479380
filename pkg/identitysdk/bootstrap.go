package identitysdk

import (
	"context"
	"fmt"
	"net/http"
)

// BootstrapTokenHeader carries the one-time bootstrap token.
const BootstrapTokenHeader = "X-Bootstrap-Token"

// Bootstrap seeds an empty service. The request is validated locally first.
func (c *Client) Bootstrap(ctx context.Context, token string, req BootstrapRequest) (*BootstrapResponse, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: bootstrap token is required", ErrInvalidArgument)
	}
	if errs := req.Validate(); errs != nil {
		return nil, &APIError{
			StatusCode:  http.StatusBadRequest,
			Code:        ErrorCodeInvalidRequest,
			Description: "bootstrap request failed validation",
			Details:     errs,
		}
	}

	resp, err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/v1/bootstrap",
		body:    req,
		headers: map[string]string{BootstrapTokenHeader: token},
	})
	if err != nil {
		return nil, err
	}

	var out BootstrapResponse
	if err := resp.decode(&out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
