package identitysdk

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, login, password string) (*TokenResponse, error) {
	if strings.TrimSpace(login) == "" {
		return nil, fmt.Errorf("%w: login is required", ErrInvalidArgument)
	}
	if strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidArgument)
	}

	resp, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/token-auth/login",
		body:   LoginRequest{Login: login, Password: password},
		retry:  true,
	})
	if err != nil {
		return nil, err
	}
	if resp.status == http.StatusUnauthorized {
		return nil, ErrInvalidCredentials
	}

	var tok TokenResponse
	if err := resp.decode(&tok, http.StatusOK); err != nil {
		return nil, err
	}
	if tok.Token == "" {
		return nil, fmt.Errorf("identitysdk: decode response: empty token")
	}
	return &tok, nil
}

// GetData fetches the sample protected resource.
func (c *Client) GetData(ctx context.Context, token string) ([]DataItem, error) {
	resp, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/token-auth/data",
		bearer: token,
		retry:  true,
	})
	if err != nil {
		return nil, err
	}

	var items []DataItem
	if err := resp.decode(&items, http.StatusOK); err != nil {
		return nil, err
	}
	return items, nil
}

// GetMe describes the identity behind token.
func (c *Client) GetMe(ctx context.Context, token string) (*MeResponse, error) {
	resp, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/token-auth/me",
		bearer: token,
		retry:  true,
	})
	if err != nil {
		return nil, err
	}

	var me MeResponse
	if err := resp.decode(&me, http.StatusOK); err != nil {
		return nil, err
	}
	return &me, nil
}
