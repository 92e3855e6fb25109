package api

import (
	domain "github.com/example/todo-backend/domain/task"
	"github.com/example/todo-backend/modules/reports"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse carries sentinel messages ("no similar tasks found", ...).
type MessageResponse struct {
	Response string `json:"response"`
}

// RegisterRequest is the body for POST /accounts/register/.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is returned after successful registration.
type RegisterResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginRequest is the body for POST /accounts/login/.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// ListTasksResponse is the body for GET /task-list/.
type ListTasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
	Total int           `json:"total"`
}

// SimilarTasksResponse lists the similar title pairs found.
type SimilarTasksResponse struct {
	SimilarTasks []reports.SimilarPair `json:"similar_tasks"`
}

// HealthResponse is the body for GET /health.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}
