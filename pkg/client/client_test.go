package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_Login_StoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["email"] != "alice@example.com" {
			t.Fatalf("unexpected email: %s", body["email"])
		}
		_ = json.NewEncoder(w).Encode(Identity{ID: "user_1", Name: "Alice", Token: "tok123"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	id, err := c.Login(context.Background(), "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if id.Token != "tok123" || c.Token() != "tok123" {
		t.Fatalf("expected token stored, got %q / %q", id.Token, c.Token())
	}
}

func TestClient_Tasks_SendsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Fatalf("expected bearer header, got %q", got)
		}
		_ = json.NewEncoder(w).Encode([]Task{{ID: "task_1", Title: "Buy milk", Status: "pending"}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok123")

	tasks, err := c.Tasks(context.Background())
	if err != nil {
		t.Fatalf("Tasks returned error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
}

func TestClient_CreateTask_MultipartFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("title"); got != "Buy milk" {
			t.Fatalf("unexpected title: %q", got)
		}
		f, fh, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("expected image file: %v", err)
		}
		defer f.Close()
		if fh.Filename != "milk.png" {
			t.Fatalf("unexpected filename: %q", fh.Filename)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Task{ID: "task_1", Title: "Buy milk", Status: "pending"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok123")

	title := "Buy milk"
	task, err := c.CreateTask(context.Background(), TaskInput{
		Title:         &title,
		Image:         strings.NewReader("png-bytes"),
		ImageFilename: "milk.png",
	})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}
	if task.ID != "task_1" {
		t.Fatalf("unexpected task: %+v", task)
	}
}

func TestClient_UpdateTask_OmitsAbsentFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if _, ok := r.MultipartForm.Value["title"]; ok {
			t.Fatalf("absent title must not be sent")
		}
		if got := r.FormValue("status"); got != "completed" {
			t.Fatalf("unexpected status: %q", got)
		}
		_ = json.NewEncoder(w).Encode(Task{ID: "task_1", Title: "kept", Status: "completed"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok123")

	status := "completed"
	task, err := c.UpdateTask(context.Background(), "task_1", TaskInput{Status: &status})
	if err != nil {
		t.Fatalf("UpdateTask returned error: %v", err)
	}
	if task.Status != "completed" {
		t.Fatalf("unexpected task: %+v", task)
	}
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"task not found"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok123")

	err := c.DeleteTask(context.Background(), "task_404")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "task not found" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestSessionStore_RoundTrip(t *testing.T) {
	store, err := NewSessionStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}

	// No session yet.
	sess, err := store.Load()
	if err != nil || sess != nil {
		t.Fatalf("expected empty session, got %+v (%v)", sess, err)
	}

	want := &Session{UserID: "user_1", Name: "Alice", Email: "alice@example.com", Token: "tok123"}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil || got.Token != "tok123" || got.Email != "alice@example.com" {
		t.Fatalf("unexpected session: %+v", got)
	}

	// Logout clears durable state; clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
	sess, err = store.Load()
	if err != nil || sess != nil {
		t.Fatalf("expected cleared session, got %+v (%v)", sess, err)
	}
}
