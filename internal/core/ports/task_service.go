package ports

import (
	"context"
	"io"

	"github.com/primetrade/taskboard/internal/core/domain"
)

// ImageInput carries an uploaded file stream from the HTTP layer.
type ImageInput struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// CreateTaskInput carries all data needed to create a new task.
type CreateTaskInput struct {
	OwnerID     string
	Title       string
	Description string
	Status      string // empty defaults to "pending"
	Image       *ImageInput
}

// UpdateTaskInput carries a partial update. Nil pointers mean the field was
// absent from the request and must be left unchanged; non-nil pointers
// overwrite, including with an empty value where that is legal.
type UpdateTaskInput struct {
	OwnerID     string
	TaskID      string
	Title       *string
	Description *string
	Status      *string
	Image       *ImageInput
}

// TaskService defines use-case operations for tasks, all scoped to an owner.
type TaskService interface {
	List(ctx context.Context, ownerID string) ([]domain.Task, error)
	Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	Update(ctx context.Context, input UpdateTaskInput) (*domain.Task, error)
	Delete(ctx context.Context, ownerID, taskID string) error
}
