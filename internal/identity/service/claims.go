package service

import (
	"fmt"
	"slices"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/google/uuid"
)

// BuildClaims derives the token claims for p. Every call gets a fresh
// random token ID, so two tokens minted in the same second still differ.
func BuildClaims(p *domain.Principal) (jwtx.ClaimSet, error) {
	if p == nil {
		return jwtx.ClaimSet{}, fmt.Errorf("%w: nil principal", ErrInvalidArgument)
	}

	return jwtx.ClaimSet{
		Subject:  p.ID,
		Email:    p.Email,
		TokenID:  uuid.NewString(),
		Username: p.Login,
		Roles:    slices.Clone(p.Roles),
	}, nil
}
