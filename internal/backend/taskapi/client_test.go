package taskapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskdeck/internal/backend/taskapi"
	"taskdeck/internal/service"
)

func TestLoginPostsCredentialsWithoutAuthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/users/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("login must not carry a credential, got %q", got)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if body["username"] != "alice" || body["password"] != "secret" {
			t.Errorf("unexpected credentials: %v", body)
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
	}))
	defer srv.Close()

	c := taskapi.NewWithBaseURL(srv.URL)
	token, err := c.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("expected token tok-123, got %q", token)
	}
}

func TestRegisterPostsToUsers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/users" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["name"] != "Bob" || body["username"] != "bob" {
			t.Errorf("unexpected body: %v", body)
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-456"})
	}))
	defer srv.Close()

	c := taskapi.NewWithBaseURL(srv.URL)
	token, err := c.Register(context.Background(), "Bob", "bob", "pw")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if token != "tok-456" {
		t.Errorf("expected token tok-456, got %q", token)
	}
}

func TestBearerHeaderAttachedAfterSetToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("expected bearer header, got %q", got)
		}
		json.NewEncoder(w).Encode([]service.Task{})
	}))
	defer srv.Close()

	c := taskapi.NewWithBaseURL(srv.URL)
	c.SetToken("tok-123")
	if _, err := c.ListTasks(context.Background()); err != nil {
		t.Fatalf("list failed: %v", err)
	}
}

func TestClearTokenDetachesCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("expected no credential after ClearToken, got %q", got)
		}
		json.NewEncoder(w).Encode([]service.Task{})
	}))
	defer srv.Close()

	c := taskapi.NewWithBaseURL(srv.URL)
	c.SetToken("tok-123")
	c.ClearToken()
	if _, err := c.ListTasks(context.Background()); err != nil {
		t.Fatalf("list failed: %v", err)
	}
}

func TestListTasksDecodesWireFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"_id":"t1","title":"Buy milk","description":"2%","completed":false,"createdAt":"2024-06-01T10:00:00Z"},
			{"_id":"t2","title":"Old task","completed":true,"date":"2024-01-01T00:00:00Z"}
		]`))
	}))
	defer srv.Close()

	c := taskapi.NewWithBaseURL(srv.URL)
	tasks, err := c.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != "t1" || tasks[0].Title != "Buy milk" || tasks[0].Description != "2%" {
		t.Errorf("unexpected first task: %+v", tasks[0])
	}
	if tasks[1].ID != "t2" || !tasks[1].Completed || tasks[1].Date != "2024-01-01T00:00:00Z" {
		t.Errorf("unexpected second task: %+v", tasks[1])
	}
}

func TestCreateTaskPostsAndReturnsServerRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/tasks" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["title"] != "Buy milk" || body["description"] != "2%" {
			t.Errorf("unexpected body: %v", body)
		}
		w.Write([]byte(`{"_id":"server-id","title":"Buy milk","description":"2%","completed":false,"createdAt":"2024-06-01T10:00:00Z"}`))
	}))
	defer srv.Close()

	c := taskapi.NewWithBaseURL(srv.URL)
	task, err := c.CreateTask(context.Background(), "Buy milk", "2%")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if task.ID != "server-id" || task.CreatedAt == "" {
		t.Errorf("expected server-assigned fields, got %+v", task)
	}
}

func TestUpdateTaskPutsById(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/tasks/t1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["completed"] != true {
			t.Errorf("expected completed=true in body, got %v", body)
		}
		w.Write([]byte(`{"_id":"t1","title":"Buy milk","completed":true}`))
	}))
	defer srv.Close()

	c := taskapi.NewWithBaseURL(srv.URL)
	completed := true
	task, err := c.UpdateTask(context.Background(), "t1", service.TaskUpdate{
		Title:     "Buy milk",
		Completed: &completed,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !task.Completed {
		t.Errorf("expected updated record, got %+v", task)
	}
}

func TestUpdateTaskOmitsCompletedWhenUnset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if _, present := body["completed"]; present {
			t.Error("completed must be omitted when the update does not touch it")
		}
		w.Write([]byte(`{"_id":"t1","title":"Renamed"}`))
	}))
	defer srv.Close()

	c := taskapi.NewWithBaseURL(srv.URL)
	if _, err := c.UpdateTask(context.Background(), "t1", service.TaskUpdate{Title: "Renamed"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
}

func TestDeleteTaskUsesDeleteMethod(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/tasks/t9" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := taskapi.NewWithBaseURL(srv.URL)
	if err := c.DeleteTask(context.Background(), "t9"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
}

func TestServerMessageExtractedFromErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid username or password"}`))
	}))
	defer srv.Close()

	c := taskapi.NewWithBaseURL(srv.URL)
	_, err := c.Login(context.Background(), "alice", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *service.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "Invalid username or password" {
		t.Errorf("expected server message, got %q", apiErr.Message)
	}
}

func TestNonJSONErrorBodyYieldsBareAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	c := taskapi.NewWithBaseURL(srv.URL)
	_, err := c.ListTasks(context.Background())
	var apiErr *service.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusBadGateway || apiErr.Message != "" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}
