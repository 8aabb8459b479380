/*
Package identitysdk is a Go client for the identity token service.

# Overview

Client wraps the public HTTP API: exchanging credentials for a bearer
token, calling bearer protected endpoints with it, one-time bootstrap and
health probes.

	client := identitysdk.NewClient("https://identity.example.com")

	tok, err := client.Login(ctx, "alice", "correct horse battery staple")
	if errors.Is(err, identitysdk.ErrInvalidCredentials) {
		// wrong login or password
	}

	me, err := client.GetMe(ctx, tok.Token)

Repeated logins within a token's lifetime return the same token, so callers
can log in on demand instead of holding on to tokens themselves.

# Errors

  - ErrInvalidArgument: blank input rejected before any request is sent
  - ErrInvalidCredentials: the service answered 401 to a login
  - ErrConnectionFailed: the request never got an HTTP response
  - *APIError: any other non-success response, with status and error code

# Retries

Transport failures, 502/504 responses and 503 responses carrying the
temporarily_unavailable code are retried with exponential backoff up to
MaxRetries times. Bootstrap is never retried.
*/
package identitysdk
