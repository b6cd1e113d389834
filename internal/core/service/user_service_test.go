package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/primetrade/taskboard/internal/core/domain"
	"github.com/primetrade/taskboard/internal/core/ports"
)

func seedUser(t *testing.T, repo *stubUserRepo) *domain.User {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("oldpass"), bcrypt.MinCost)
	user, err := repo.Create(context.Background(), &domain.User{
		Name:           "Alice",
		Email:          "alice@example.com",
		PasswordHash:   string(hash),
		ProfilePicture: "https://media.example.com/old.png",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func newUserService(repo ports.UserRepository, uploader ports.MediaUploader) *UserService {
	tokens := NewAuthService(nil, "secret", time.Hour)
	return NewUserService(repo, uploader, tokens, zerolog.Nop())
}

func TestUserService_GetProfile(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo)
	svc := newUserService(repo, &stubUploader{})

	got, err := svc.GetProfile(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetProfile returned error: %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Fatalf("unexpected profile: %+v", got)
	}
}

func TestUserService_GetProfile_NotFound(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, &stubUploader{})

	if _, err := svc.GetProfile(context.Background(), "user_404"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_UpdateProfile_PartialFields(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo)
	svc := newUserService(repo, &stubUploader{})

	name := "Alice Cooper"
	result, err := svc.UpdateProfile(context.Background(), ports.UpdateProfileInput{
		UserID: user.ID,
		Name:   &name,
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if result.User.Name != "Alice Cooper" {
		t.Fatalf("expected name updated, got %q", result.User.Name)
	}
	if result.User.Email != "alice@example.com" {
		t.Fatalf("absent email must stay unchanged, got %q", result.User.Email)
	}
	if result.Token == "" {
		t.Fatalf("expected reissued token")
	}
}

func TestUserService_UpdateProfile_BlankNameRejected(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo)
	svc := newUserService(repo, &stubUploader{})

	blank := ""
	if _, err := svc.UpdateProfile(context.Background(), ports.UpdateProfileInput{
		UserID: user.ID,
		Name:   &blank,
	}); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), user.ID)
	if stored.Name != "Alice" {
		t.Fatalf("expected previous name intact, got %q", stored.Name)
	}
}

func TestUserService_UpdateProfile_RehashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo)
	svc := newUserService(repo, &stubUploader{})

	newPass := "newpass123"
	if _, err := svc.UpdateProfile(context.Background(), ports.UpdateProfileInput{
		UserID:   user.ID,
		Password: &newPass,
	}); err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), user.ID)
	if stored.PasswordHash == "newpass123" {
		t.Fatalf("password must be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpass123")); err != nil {
		t.Fatalf("stored hash does not match new password: %v", err)
	}
}

func TestUserService_UpdateProfile_UploadFailureKeepsPicture(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo)
	uploader := &stubUploader{err: fmt.Errorf("put object: %w", domain.ErrUploadFailed)}
	svc := newUserService(repo, uploader)

	_, err := svc.UpdateProfile(context.Background(), ports.UpdateProfileInput{
		UserID:  user.ID,
		Picture: &ports.ImageInput{Filename: "new.png", ContentType: "image/png"},
	})
	if !errors.Is(err, domain.ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), user.ID)
	if stored.ProfilePicture != "https://media.example.com/old.png" {
		t.Fatalf("previous picture must be intact, got %q", stored.ProfilePicture)
	}
}

func TestUserService_UpdateProfile_NewPicture(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo)
	uploader := &stubUploader{url: "https://media.example.com/new.png"}
	svc := newUserService(repo, uploader)

	result, err := svc.UpdateProfile(context.Background(), ports.UpdateProfileInput{
		UserID:  user.ID,
		Picture: &ports.ImageInput{Filename: "new.png", ContentType: "image/png"},
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if result.User.ProfilePicture != "https://media.example.com/new.png" {
		t.Fatalf("expected replaced picture url, got %q", result.User.ProfilePicture)
	}
}
