// Package client is a typed consumer of the taskboard API: the same surface
// the web frontend drives, usable from Go programs and the taskctl CLI.
// Every call after login attaches the stored token as a bearer header.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Identity is the authenticated account view returned by signup, login, and
// profile updates.
type Identity struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	Token          string `json:"token,omitempty"`
}

// Task mirrors the API's task resource.
type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskInput carries task fields for create and update calls. On update, nil
// pointers leave the server-side value unchanged.
type TaskInput struct {
	Title       *string
	Description *string
	Status      *string
	// Image attaches a file to upload; Filename names it for the media host.
	Image         io.Reader
	ImageFilename string
}

// ProfileInput carries profile fields for update calls.
type ProfileInput struct {
	Name            *string
	Email           *string
	Password        *string
	Picture         io.Reader
	PictureFilename string
}

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// SetToken installs a previously stored bearer token (restored session).
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current bearer token, empty when logged out.
func (c *Client) Token() string { return c.token }

// Signup registers an account and keeps the returned token for future calls.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*Identity, error) {
	var id Identity
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/signup", map[string]string{
		"name": name, "email": email, "password": password,
	}, &id)
	if err != nil {
		return nil, err
	}
	c.token = id.Token
	return &id, nil
}

// Login authenticates and keeps the returned token for future calls.
func (c *Client) Login(ctx context.Context, email, password string) (*Identity, error) {
	var id Identity
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	}, &id)
	if err != nil {
		return nil, err
	}
	c.token = id.Token
	return &id, nil
}

// Logout drops the in-memory token. Durable session state is the caller's
// concern (see Session).
func (c *Client) Logout() { c.token = "" }

func (c *Client) Tasks(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := c.doJSON(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, input TaskInput) (*Task, error) {
	var task Task
	if err := c.doForm(ctx, http.MethodPost, "/api/tasks", taskForm(input), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, input TaskInput) (*Task, error) {
	var task Task
	if err := c.doForm(ctx, http.MethodPut, "/api/tasks/"+id, taskForm(input), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/tasks/"+id, nil, nil)
}

func (c *Client) Profile(ctx context.Context) (*Identity, error) {
	var id Identity
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/profile", nil, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

// UpdateProfile applies a partial profile update and adopts the reissued
// token from the response.
func (c *Client) UpdateProfile(ctx context.Context, input ProfileInput) (*Identity, error) {
	form := formData{fields: map[string]string{}}
	if input.Name != nil {
		form.fields["name"] = *input.Name
	}
	if input.Email != nil {
		form.fields["email"] = *input.Email
	}
	if input.Password != nil {
		form.fields["password"] = *input.Password
	}
	if input.Picture != nil {
		form.fileField = "profile_picture"
		form.fileName = input.PictureFilename
		form.file = input.Picture
	}

	var id Identity
	if err := c.doForm(ctx, http.MethodPut, "/api/users/profile", form, &id); err != nil {
		return nil, err
	}
	if id.Token != "" {
		c.token = id.Token
	}
	return &id, nil
}

// --- transport ---

type formData struct {
	fields    map[string]string
	fileField string
	fileName  string
	file      io.Reader
}

func taskForm(input TaskInput) formData {
	form := formData{fields: map[string]string{}}
	if input.Title != nil {
		form.fields["title"] = *input.Title
	}
	if input.Description != nil {
		form.fields["description"] = *input.Description
	}
	if input.Status != nil {
		form.fields["status"] = *input.Status
	}
	if input.Image != nil {
		form.fileField = "image"
		form.fileName = input.ImageFilename
		form.file = input.Image
	}
	return form
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) doForm(ctx context.Context, method, path string, form formData, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range form.fields {
		if err := w.WriteField(k, v); err != nil {
			return err
		}
	}
	if form.file != nil {
		part, err := w.CreateFormFile(form.fileField, form.fileName)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, form.file); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var envelope struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		if envelope.Error == "" {
			envelope.Error = resp.Status
		}
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
