package auth

import (
	"context"
	"errors"

	"clinic-backend/internal/models"
	"clinic-backend/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Gateway validates login attempts against stored accounts. Credentials are
// stored as bcrypt hashes and compared with bcrypt's constant-time check;
// the plaintext never touches the database.
type Gateway struct {
	accounts repository.AccountRepository
}

func NewGateway(accounts repository.AccountRepository) *Gateway {
	return &Gateway{accounts: accounts}
}

// Validate returns true only when an account with this username exists, its
// password matches, its status is Active and its role is the requested one.
// An unknown username is a false result, not an error.
func (g *Gateway) Validate(ctx context.Context, username, password, roleName string) (bool, error) {
	account, err := g.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if account.Status != models.StatusActive {
		return false, nil
	}
	if account.Role.Name != roleName {
		return false, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}
