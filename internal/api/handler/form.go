package handler

import (
	"mime/multipart"

	"github.com/labstack/echo/v4"

	"github.com/primetrade/taskboard/internal/core/ports"
)

// formField reports a form value by presence: nil when the key was absent
// from the payload, a pointer (possibly to an empty string) when it was sent.
// Partial updates rely on this distinction instead of value truthiness.
func formField(c echo.Context, name string) *string {
	params, err := c.FormParams()
	if err != nil {
		return nil
	}
	if !params.Has(name) {
		return nil
	}
	v := params.Get(name)
	return &v
}

// formImage opens an optional uploaded file. The caller must close the
// returned file once the upload has been consumed.
func formImage(c echo.Context, name string) (*ports.ImageInput, multipart.File, error) {
	fh, err := c.FormFile(name)
	if err != nil {
		// Absent file is not an error for our endpoints.
		return nil, nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}

	input := &ports.ImageInput{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Reader:      f,
	}
	return input, f, nil
}
