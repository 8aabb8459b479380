package identitysdk

import (
	"net/mail"
	"regexp"
	"strings"
)

const (
	reasonRequired    = "required"
	reasonOnlyAlnum   = "must only contain a-z, A-Z, 0-9, _ . or -"
	minPasswordLength = 8
	maxPasswordLength = 128
)

var (
	reLogin = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
	reRole  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
)

// Validate returns field errors keyed by JSON name, or nil. The service
// applies the same rules.
func (b BootstrapRequest) Validate() map[string]string {
	errs := make(map[string]string)

	ValidateLogin(errs, "admin_login", b.AdminLogin)
	ValidateEmail(errs, "admin_email", b.AdminEmail)
	ValidatePassword(errs, "admin_password", b.AdminPassword)

	if len(strings.TrimSpace(b.AdminDisplayName)) > 64 {
		errs["admin_display_name"] = "too long (max 64)"
	}

	ValidateRoles(errs, "roles", b.Roles)
	if len(b.Roles) == 0 {
		errs["roles"] = "at least one role required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateLogin checks a login name: 3-64 characters from a safe set.
func ValidateLogin(errs map[string]string, field, login string) {
	login = strings.TrimSpace(login)
	switch {
	case login == "":
		errs[field] = reasonRequired
	case len(login) < 3 || len(login) > 64:
		errs[field] = "must be 3-64 characters"
	case !reLogin.MatchString(login):
		errs[field] = reasonOnlyAlnum
	}
}

// ValidateEmail accepts an empty address or a bare addr-spec.
func ValidateEmail(errs map[string]string, field, email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		return
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		errs[field] = "invalid email address"
	}
}

// ValidatePassword enforces length only.
func ValidatePassword(errs map[string]string, field, pw string) {
	switch {
	case strings.TrimSpace(pw) == "":
		errs[field] = reasonRequired
	case len(pw) < minPasswordLength:
		errs[field] = "too short (min 8)"
	case len(pw) > maxPasswordLength:
		errs[field] = "too long (max 128)"
	}
}

// ValidateRoles checks role names are well formed and unique.
func ValidateRoles(errs map[string]string, field string, roles []string) {
	seen := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		if !reRole.MatchString(r) || len(r) > 64 {
			errs[field] = "invalid role name: " + r
			return
		}
		if _, dup := seen[r]; dup {
			errs[field] = "duplicate role: " + r
			return
		}
		seen[r] = struct{}{}
	}
}
