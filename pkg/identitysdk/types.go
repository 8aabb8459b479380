package identitysdk

import "time"

// LoginRequest is the body of POST /api/token-auth/login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// TokenResponse is a bearer token and the instant it stops being valid.
type TokenResponse struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// DataItem is one entry of GET /api/token-auth/data.
type DataItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MeResponse describes the caller's token.
type MeResponse struct {
	Subject   string    `json:"sub"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	TokenID   string    `json:"jti"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BootstrapRequest seeds an empty service with roles and a first admin.
type BootstrapRequest struct {
	AdminLogin       string   `json:"admin_login"`
	AdminEmail       string   `json:"admin_email"`
	AdminDisplayName string   `json:"admin_display_name"`
	AdminPassword    string   `json:"admin_password"`
	Roles            []string `json:"roles"`
}

type BootstrapResponse struct {
	AdminUserID string   `json:"admin_user_id"`
	Roles       []string `json:"roles"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error            string            `json:"error"`
	ErrorDescription string            `json:"error_description,omitempty"`
	Details          map[string]string `json:"details,omitempty"`
}
