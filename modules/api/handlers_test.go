package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/todo-backend/modules/auth"
	"github.com/example/todo-backend/modules/reports"
	"github.com/example/todo-backend/modules/task"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeBlobStore implements task.AttachmentStore in memory.
type fakeBlobStore struct {
	blobs map[string][]byte
}

func (f *fakeBlobStore) Store(_ context.Context, ownerID, taskID, filename string, data []byte, _ string) (string, error) {
	key := fmt.Sprintf("%s/%s-%s", ownerID, taskID, filename)
	f.blobs[key] = data
	return key, nil
}

func (f *fakeBlobStore) Release(_ context.Context, key string) error {
	delete(f.blobs, key)
	return nil
}

// fakeReportCache implements reports.ReportCache in memory.
type fakeReportCache struct {
	entries map[string][]byte
}

func (f *fakeReportCache) cacheKey(userID, report string) string {
	return userID + "_" + report
}

func (f *fakeReportCache) Get(_ context.Context, userID, report string, dest interface{}) (bool, error) {
	data, ok := f.entries[f.cacheKey(userID, report)]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (f *fakeReportCache) Set(_ context.Context, userID, report string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[f.cacheKey(userID, report)] = data
	return nil
}

func (f *fakeReportCache) InvalidateUser(_ context.Context, userID string) error {
	for key := range f.entries {
		if strings.HasPrefix(key, userID+"_") {
			delete(f.entries, key)
		}
	}
	return nil
}

// setupAPI builds the full HTTP surface over a temporary database.
func setupAPI(t *testing.T) *Module {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "api.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	userRepo := auth.NewUserRepository(db)
	if err := userRepo.Migrate(); err != nil {
		t.Fatalf("Failed to migrate users: %v", err)
	}
	jwt := auth.NewJWTManager(auth.JWTConfig{
		SecretKey:     "test-secret-key",
		TokenDuration: time.Hour,
		Issuer:        "todo-backend-test",
	})
	authService := auth.NewService(userRepo, auth.NewPasswordHasher(), jwt)

	taskRepo := task.NewRepository(db)
	if err := taskRepo.Migrate(); err != nil {
		t.Fatalf("Failed to migrate tasks: %v", err)
	}
	taskService := task.NewService(taskRepo, &fakeBlobStore{blobs: make(map[string][]byte)})

	reportsService := reports.NewService(
		reports.NewEngine(),
		taskService,
		authService,
		&fakeReportCache{entries: make(map[string][]byte)},
	)

	m := NewModule(0)
	m.SetTaskService(taskService)
	m.SetReportsService(reportsService)
	m.SetAuthService(authService)

	if err := m.Init(nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	m.setupRoutes()

	return m
}

func doJSON(t *testing.T, m *Module, method, path string, body any, token string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := m.GetApp().Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	respBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, respBody
}

// doMultipart sends a task create/update form. A nil fields value omits the
// field entirely, mirroring a form without it.
func doMultipart(t *testing.T, m *Module, method, path string, fields map[string]string, withFile bool, token string) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		writer.WriteField(key, value)
	}
	if withFile {
		part, err := writer.CreateFormFile("attachment", "notes.txt")
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		part.Write([]byte("attachment body"))
	}
	writer.Close()

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := m.GetApp().Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	respBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, respBody
}

// registerAndLogin creates an account and returns a usable bearer token.
func registerAndLogin(t *testing.T, m *Module, username, email string) string {
	t.Helper()

	resp, body := doJSON(t, m, http.MethodPost, "/accounts/register/", RegisterRequest{
		Username: username,
		Email:    email,
		Password: "password123",
	}, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Register returned %d: %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, m, http.MethodPost, "/accounts/login/", LoginRequest{
		Email:    email,
		Password: "password123",
	}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Login returned %d: %s", resp.StatusCode, body)
	}

	var login LoginResponse
	if err := json.Unmarshal(body, &login); err != nil {
		t.Fatalf("Failed to decode login response: %v", err)
	}
	return login.AccessToken
}

func taskFields(title string) map[string]string {
	return map[string]string{
		"title":       title,
		"description": "a description",
		"dueDate":     "2025-07-01",
	}
}

func TestAccountFlow(t *testing.T) {
	m := setupAPI(t)

	t.Run("register login logout", func(t *testing.T) {
		token := registerAndLogin(t, m, "alice", "alice@example.com")

		resp, body := doJSON(t, m, http.MethodPost, "/accounts/logout/", nil, token)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Logout returned %d: %s", resp.StatusCode, body)
		}
		if !strings.Contains(string(body), "successfully logged out") {
			t.Errorf("Unexpected logout body: %s", body)
		}
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		resp, _ := doJSON(t, m, http.MethodPost, "/accounts/register/", RegisterRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "password123",
		}, "")
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("Expected 409, got %d", resp.StatusCode)
		}
	})

	t.Run("wrong password unauthorized", func(t *testing.T) {
		resp, _ := doJSON(t, m, http.MethodPost, "/accounts/login/", LoginRequest{
			Email:    "alice@example.com",
			Password: "wrong-password",
		}, "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", resp.StatusCode)
		}
	})
}

func TestTaskRoutes(t *testing.T) {
	m := setupAPI(t)
	token := registerAndLogin(t, m, "bob", "bob@example.com")

	t.Run("create", func(t *testing.T) {
		resp, body := doMultipart(t, m, http.MethodPost, "/task-create/", taskFields("write tests"), true, token)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", resp.StatusCode, body)
		}
	})

	t.Run("duplicate title conflicts", func(t *testing.T) {
		resp, _ := doMultipart(t, m, http.MethodPost, "/task-create/", taskFields("write tests"), true, token)
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("Expected 409, got %d", resp.StatusCode)
		}
	})

	t.Run("missing attachment rejected", func(t *testing.T) {
		resp, _ := doMultipart(t, m, http.MethodPost, "/task-create/", taskFields("no file"), false, token)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("list", func(t *testing.T) {
		resp, body := doJSON(t, m, http.MethodGet, "/task-list/", nil, token)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		var list ListTasksResponse
		if err := json.Unmarshal(body, &list); err != nil {
			t.Fatalf("Failed to decode list: %v", err)
		}
		if list.Total != 1 || len(list.Tasks) != 1 {
			t.Errorf("Expected 1 task, got %+v", list)
		}
	})

	t.Run("detail with encoded title", func(t *testing.T) {
		resp, body := doJSON(t, m, http.MethodGet, "/task-detail/write%20tests/", nil, token)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, body)
		}
		if !strings.Contains(string(body), "write tests") {
			t.Errorf("Unexpected detail body: %s", body)
		}
	})

	t.Run("update rename", func(t *testing.T) {
		resp, body := doMultipart(t, m, http.MethodPut, "/task-update/write%20tests/", taskFields("ship tests"), true, token)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, body)
		}

		resp, _ = doJSON(t, m, http.MethodGet, "/task-detail/write%20tests/", nil, token)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected old title gone, got %d", resp.StatusCode)
		}
	})

	t.Run("delete", func(t *testing.T) {
		resp, body := doJSON(t, m, http.MethodDelete, "/task-delete/ship%20tests/", nil, token)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		if !strings.Contains(string(body), "delete successful") {
			t.Errorf("Unexpected delete body: %s", body)
		}

		resp, _ = doJSON(t, m, http.MethodDelete, "/task-delete/ship%20tests/", nil, token)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404 on double delete, got %d", resp.StatusCode)
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		resp, _ := doJSON(t, m, http.MethodGet, "/task-list/", nil, "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", resp.StatusCode)
		}
	})
}

func TestReportRoutes(t *testing.T) {
	m := setupAPI(t)
	token := registerAndLogin(t, m, "carol", "carol@example.com")

	t.Run("count opened with no tasks is null", func(t *testing.T) {
		resp, body := doJSON(t, m, http.MethodGet, "/reports/count-opened/", nil, token)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		if !strings.Contains(string(body), "null") {
			t.Errorf("Expected null response, got %s", body)
		}
	})

	t.Run("similar tasks with no tasks", func(t *testing.T) {
		resp, _ := doJSON(t, m, http.MethodGet, "/reports/similar-tasks/", nil, token)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", resp.StatusCode)
		}
	})

	// Seed two tasks, one completed and with similar titles.
	fields := taskFields("task")
	if resp, body := doMultipart(t, m, http.MethodPost, "/task-create/", fields, true, token); resp.StatusCode != http.StatusCreated {
		t.Fatalf("Seed create returned %d: %s", resp.StatusCode, body)
	}
	done := taskFields("new task")
	done["completionStatus"] = "true"
	if resp, body := doMultipart(t, m, http.MethodPost, "/task-create/", done, true, token); resp.StatusCode != http.StatusCreated {
		t.Fatalf("Seed create returned %d: %s", resp.StatusCode, body)
	}

	t.Run("total tasks", func(t *testing.T) {
		resp, body := doJSON(t, m, http.MethodGet, "/reports/total-tasks/", nil, token)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Expected 201, got %d", resp.StatusCode)
		}
		var report reports.TotalTasksReport
		if err := json.Unmarshal(body, &report); err != nil {
			t.Fatalf("Failed to decode report: %v", err)
		}
		if report.Total != 2 || report.Completed != 1 || report.Remaining != 1 {
			t.Errorf("Unexpected report: %+v", report)
		}
	})

	t.Run("average completed", func(t *testing.T) {
		resp, body := doJSON(t, m, http.MethodGet, "/reports/average-completed/", nil, token)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Expected 201, got %d", resp.StatusCode)
		}
		// The account was created moments ago, so the day-zero literal applies.
		if !strings.Contains(string(body), "1/day") {
			t.Errorf("Expected 1/day, got %s", body)
		}
	})

	t.Run("max date", func(t *testing.T) {
		resp, body := doJSON(t, m, http.MethodGet, "/reports/max-date/", nil, token)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Expected 201, got %d", resp.StatusCode)
		}
		var report reports.MaxDateReport
		if err := json.Unmarshal(body, &report); err != nil {
			t.Fatalf("Failed to decode report: %v", err)
		}
		if report.Date == nil || report.Count != 1 {
			t.Errorf("Expected the stamped completion date, got %+v", report)
		}
	})

	t.Run("similar tasks pairs", func(t *testing.T) {
		resp, body := doJSON(t, m, http.MethodGet, "/reports/similar-tasks/", nil, token)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", resp.StatusCode, body)
		}
		var found SimilarTasksResponse
		if err := json.Unmarshal(body, &found); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(found.SimilarTasks) != 1 {
			t.Errorf("Expected 1 pair, got %+v", found.SimilarTasks)
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		resp, _ := doJSON(t, m, http.MethodGet, "/reports/total-tasks/", nil, "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", resp.StatusCode)
		}
	})
}
