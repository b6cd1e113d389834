package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/primetrade/taskboard/internal/api/metrics"
	"github.com/primetrade/taskboard/internal/core/domain"
	"github.com/primetrade/taskboard/internal/core/ports"
)

// UserHandler handles profile reads and updates for the authenticated user.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// GetProfile handles GET /api/users/profile.
//
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.service.GetProfile(c.Request().Context(), userID)
	if err != nil {
		// The identity may vanish between token issue and lookup.
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}

	return c.JSON(http.StatusOK, toProfileResponse(user))
}

// UpdateProfile handles PUT /api/users/profile (multipart: name, email,
// password, profile_picture). Fields absent from the payload are left
// unchanged; the response carries a reissued token.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        name             formData  string  false  "New display name"
// @Param        email            formData  string  false  "New email"
// @Param        password         formData  string  false  "New password (re-hashed)"
// @Param        profile_picture  formData  file    false  "New profile picture"
// @Success      200  {object}  authResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	picture, file, err := formImage(c, "profile_picture")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid image upload"})
	}
	if file != nil {
		defer file.Close()
	}

	result, err := h.service.UpdateProfile(c.Request().Context(), ports.UpdateProfileInput{
		UserID:   userID,
		Name:     formField(c, "name"),
		Email:    formField(c, "email"),
		Password: formField(c, "password"),
		Picture:  picture,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})
		case errors.Is(err, domain.ErrUserExists):
			return c.JSON(http.StatusConflict, errorResponse{Error: "email already in use"})
		case errors.Is(err, domain.ErrInvalidCredentials):
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "name and email cannot be blank"})
		case errors.Is(err, domain.ErrUploadFailed):
			metrics.UploadsTotal.WithLabelValues("error").Inc()
			return c.JSON(http.StatusBadGateway, errorResponse{Error: "image upload failed"})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}

	if picture != nil {
		metrics.UploadsTotal.WithLabelValues("ok").Inc()
	}
	return c.JSON(http.StatusOK, toAuthResponse(result.User, result.Token))
}
