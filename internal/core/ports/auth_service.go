package ports

import (
	"context"

	"github.com/primetrade/taskboard/internal/core/domain"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// IssueToken signs a fresh bearer token for the given user. Used by the
	// profile endpoint to return a reissued token after an update.
	IssueToken(userID string) (string, error)
}
