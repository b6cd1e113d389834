package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/primetrade/taskboard/internal/core/domain"
	"github.com/primetrade/taskboard/internal/core/ports"
)

// TaskCache abstracts the per-owner task list cache (Redis). All cache
// failures are tolerated: a miss or an error falls through to the store.
type TaskCache interface {
	Get(ctx context.Context, ownerID string) ([]domain.Task, bool, error)
	Set(ctx context.Context, ownerID string, tasks []domain.Task) error
	Invalidate(ctx context.Context, ownerID string) error
}

type TaskService struct {
	repo     ports.TaskRepository
	uploader ports.MediaUploader
	cache    TaskCache
	logger   zerolog.Logger
}

// NewTaskService creates a TaskService. cache may be nil to disable list
// caching entirely.
func NewTaskService(repo ports.TaskRepository, uploader ports.MediaUploader, cache TaskCache, logger zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, uploader: uploader, cache: cache, logger: logger}
}

// List returns the caller's tasks, newest ordering left to the store default.
func (s *TaskService) List(ctx context.Context, ownerID string) ([]domain.Task, error) {
	if s.cache != nil {
		tasks, hit, err := s.cache.Get(ctx, ownerID)
		if err != nil {
			s.logger.Warn().Err(err).Str("owner_id", ownerID).Msg("task cache read failed, falling back to store")
		} else if hit {
			return tasks, nil
		}
	}

	tasks, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, ownerID, tasks); err != nil {
			s.logger.Warn().Err(err).Str("owner_id", ownerID).Msg("task cache write failed")
		}
	}
	return tasks, nil
}

func (s *TaskService) Create(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	if input.Title == "" {
		return nil, domain.ErrTitleRequired
	}

	status := domain.StatusPending
	if input.Status != "" {
		status = domain.TaskStatus(input.Status)
		if !status.IsValid() {
			return nil, domain.ErrInvalidStatus
		}
	}

	var imageURL string
	if input.Image != nil {
		url, err := s.uploader.Upload(ctx, input.Image.Filename, input.Image.ContentType, input.Image.Reader)
		if err != nil {
			s.logger.Error().Err(err).Str("owner_id", input.OwnerID).Msg("task image upload failed")
			return nil, err
		}
		imageURL = url
	}

	now := time.Now().UTC()
	task := &domain.Task{
		UserID:      input.OwnerID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Image:       imageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", input.OwnerID).Msg("failed to create task")
		return nil, err
	}

	s.invalidate(ctx, input.OwnerID)
	s.logger.Info().Str("task_id", created.ID).Str("owner_id", input.OwnerID).Msg("task created")
	return created, nil
}

// Update applies a partial update. Nil fields stay unchanged; a present but
// empty title is rejected, a present description may be cleared.
func (s *TaskService) Update(ctx context.Context, input ports.UpdateTaskInput) (*domain.Task, error) {
	task, err := s.findOwned(ctx, input.OwnerID, input.TaskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, domain.ErrTitleRequired
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		status := domain.TaskStatus(*input.Status)
		if !status.IsValid() {
			return nil, domain.ErrInvalidStatus
		}
		task.Status = status
	}
	if input.Image != nil {
		url, err := s.uploader.Upload(ctx, input.Image.Filename, input.Image.ContentType, input.Image.Reader)
		if err != nil {
			s.logger.Error().Err(err).Str("task_id", input.TaskID).Msg("task image upload failed")
			return nil, err
		}
		task.Image = url
	}

	task.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, task)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, input.OwnerID)
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) error {
	if _, err := s.findOwned(ctx, ownerID, taskID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, taskID); err != nil {
		return err
	}

	s.invalidate(ctx, ownerID)
	s.logger.Info().Str("task_id", taskID).Str("owner_id", ownerID).Msg("task deleted")
	return nil
}

// findOwned loads a task and enforces the ownership invariant: a task that
// exists but belongs to someone else is forbidden, not hidden.
func (s *TaskService) findOwned(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != ownerID {
		return nil, domain.ErrForbidden
	}
	return task, nil
}

func (s *TaskService) invalidate(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, ownerID); err != nil {
		s.logger.Warn().Err(err).Str("owner_id", ownerID).Msg("task cache invalidation failed")
	}
}
