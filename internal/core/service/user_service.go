package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/primetrade/taskboard/internal/core/domain"
	"github.com/primetrade/taskboard/internal/core/ports"
)

// TokenIssuer is the slice of the auth service the profile endpoint needs to
// return a reissued token after an update.
type TokenIssuer interface {
	IssueToken(userID string) (string, error)
}

type UserService struct {
	users    ports.UserRepository
	uploader ports.MediaUploader
	tokens   TokenIssuer
	logger   zerolog.Logger
}

func NewUserService(users ports.UserRepository, uploader ports.MediaUploader, tokens TokenIssuer, logger zerolog.Logger) *UserService {
	return &UserService{users: users, uploader: uploader, tokens: tokens, logger: logger}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile applies a partial profile update. Name and email may not be
// blanked; a provided password is re-hashed before persisting; a picture
// upload failure aborts the update with the previous URL intact.
func (s *UserService) UpdateProfile(ctx context.Context, input ports.UpdateProfileInput) (*ports.ProfileResult, error) {
	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, domain.ErrInvalidCredentials
		}
		user.Name = *input.Name
	}
	if input.Email != nil {
		if *input.Email == "" {
			return nil, domain.ErrInvalidCredentials
		}
		user.Email = *input.Email
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if input.Picture != nil {
		url, err := s.uploader.Upload(ctx, input.Picture.Filename, input.Picture.ContentType, input.Picture.Reader)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", input.UserID).Msg("profile picture upload failed")
			return nil, err
		}
		user.ProfilePicture = url
	}

	user.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.IssueToken(updated.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", updated.ID).Msg("profile updated")
	return &ports.ProfileResult{User: updated, Token: token}, nil
}
