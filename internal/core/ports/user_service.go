package ports

import (
	"context"

	"github.com/primetrade/taskboard/internal/core/domain"
)

// UpdateProfileInput carries a partial profile update. Pointer semantics are
// the same as UpdateTaskInput: nil = absent, non-nil = overwrite.
type UpdateProfileInput struct {
	UserID   string
	Name     *string
	Email    *string
	Password *string
	Picture  *ImageInput
}

// ProfileResult is the profile view plus the reissued token returned after
// an update.
type ProfileResult struct {
	User  *domain.User
	Token string
}

// UserService defines profile operations for the authenticated user.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, input UpdateProfileInput) (*ProfileResult, error)
}
