package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"chat-hub/auth"
	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/repositories"
)

// TokenVerifier resolves a connect-time credential into an identity.
// A bad token and an unknown user are indistinguishable to the
// connection: both come back as ErrUnauthorized.
type TokenVerifier struct {
	tokens *auth.TokenManager
	users  repositories.IUserRepository
}

func NewTokenVerifier(tokens *auth.TokenManager, users repositories.IUserRepository) *TokenVerifier {
	return &TokenVerifier{tokens: tokens, users: users}
}

func (v *TokenVerifier) Verify(ctx context.Context, credential string) (domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", errors.ErrUnauthorized, err)
	}

	credential = strings.TrimPrefix(credential, "Bearer ")
	if credential == "" {
		return domain.Identity{}, errors.ErrUnauthorized
	}

	claims, err := v.tokens.Validate(credential)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", errors.ErrUnauthorized, err)
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", errors.ErrUnauthorized, err)
	}

	user, err := v.users.GetUserByID(userID)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", errors.ErrUnauthorized, err)
	}
	return domain.Identity{ID: user.ID, Username: user.Username}, nil
}
