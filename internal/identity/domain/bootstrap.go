package domain

// BootstrapData seeds an empty store with roles and a first admin who is
// granted every listed role.
type BootstrapData struct {
	AdminLogin       string
	AdminEmail       string
	AdminDisplayName string
	AdminPassword    string
	Roles            []string
}

// NewUser is the input for creating a user.
type NewUser struct {
	Login       string
	Email       string
	DisplayName string
	Password    string
	Roles       []string
}
