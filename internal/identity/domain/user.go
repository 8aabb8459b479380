package domain

import "time"

type User struct {
	ID           string
	Login        string
	Email        string
	DisplayName  string
	PasswordHash string // argon2id PHC string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal projects the user into the identity carried by tokens. Roles
// are loaded separately.
func (u User) Principal() *Principal {
	return &Principal{
		ID:          u.ID,
		Login:       u.Login,
		Email:       u.Email,
		DisplayName: u.DisplayName,
	}
}

type Role struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
