package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/primetrade/taskboard/internal/api/metrics"
	"github.com/primetrade/taskboard/internal/core/domain"
	"github.com/primetrade/taskboard/internal/core/ports"
)

// TaskHandler handles HTTP requests for task operations. All routes require
// a resolved identity from the Auth middleware; every operation is scoped to
// that caller.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// List handles GET /api/tasks.
//
// @Summary      List the caller's tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Task
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	tasks, err := h.service.List(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
	return c.JSON(http.StatusOK, tasks)
}

// Create handles POST /api/tasks (multipart: title, description, status, image).
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title        formData  string  true   "Task title"
// @Param        description  formData  string  false  "Task description"
// @Param        status       formData  string  false  "pending | in-progress | completed"
// @Param        image        formData  file    false  "Attached image"
// @Success      201  {object}  domain.Task
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	image, file, err := formImage(c, "image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid image upload"})
	}
	if file != nil {
		defer file.Close()
	}

	task, err := h.service.Create(c.Request().Context(), ports.CreateTaskInput{
		OwnerID:     userID,
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Status:      c.FormValue("status"),
		Image:       image,
	})
	if err != nil {
		return taskError(c, err)
	}

	metrics.TasksCreatedTotal.WithLabelValues(string(task.Status)).Inc()
	if image != nil {
		metrics.UploadsTotal.WithLabelValues("ok").Inc()
	}
	return c.JSON(http.StatusCreated, task)
}

// Update handles PUT /api/tasks/:id (multipart). Fields absent from the
// payload are left unchanged.
//
// @Summary      Update a task
// @Tags         tasks
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string  true   "Task id"
// @Param        title        formData  string  false  "New title"
// @Param        description  formData  string  false  "New description (empty clears)"
// @Param        status       formData  string  false  "pending | in-progress | completed"
// @Param        image        formData  file    false  "Replacement image"
// @Success      200  {object}  domain.Task
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	image, file, err := formImage(c, "image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid image upload"})
	}
	if file != nil {
		defer file.Close()
	}

	task, err := h.service.Update(c.Request().Context(), ports.UpdateTaskInput{
		OwnerID:     userID,
		TaskID:      c.Param("id"),
		Title:       formField(c, "title"),
		Description: formField(c, "description"),
		Status:      formField(c, "status"),
		Image:       image,
	})
	if err != nil {
		return taskError(c, err)
	}

	if image != nil {
		metrics.UploadsTotal.WithLabelValues("ok").Inc()
	}
	return c.JSON(http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/:id.
//
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Task id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return taskError(c, err)
	}

	metrics.TasksDeletedTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "task removed"})
}

// taskError maps domain errors from the task service onto wire responses.
func taskError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "task not found"})
	case errors.Is(err, domain.ErrForbidden):
		return c.JSON(http.StatusForbidden, errorResponse{Error: "access forbidden"})
	case errors.Is(err, domain.ErrTitleRequired):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "title is required"})
	case errors.Is(err, domain.ErrInvalidStatus):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid task status"})
	case errors.Is(err, domain.ErrUploadFailed):
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return c.JSON(http.StatusBadGateway, errorResponse{Error: "image upload failed"})
	}
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
}
