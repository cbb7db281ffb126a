// Package http provides the HTTP handlers of the loopback API.
package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/atinyakov/GophDate/internal/models"
)

// AuthService defines the account operations required by the HTTP handlers.
type AuthService interface {
	// RegisterUser creates an account. A taken username yields models.ErrDuplicateUser.
	RegisterUser(ctx context.Context, username, password, email string) error
	// LoginUser returns the user on matching credentials and nil otherwise.
	LoginUser(ctx context.Context, username, password string) (*models.User, error)
}

// TokenIssuer signs session tokens for logged-in users.
type TokenIssuer interface {
	Issue(u *models.User) (string, error)
}

// AuthHandler handles HTTP requests for user registration and login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Tokens issues the token returned by Login.
	Tokens TokenIssuer
}

// RegisterRequest represents the JSON payload for user registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the session token and the user it identifies.
type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register handles POST /api/register.
// It answers 201 on success, 400 for invalid input and 409 when the
// username is taken.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.AuthService.RegisterUser(r.Context(), req.Username, req.Password, req.Email); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Login handles POST /api/login.
// Unknown users and wrong passwords both get 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	u, err := h.AuthService.LoginUser(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	if u == nil {
		http.Error(w, "invalid username or password", http.StatusUnauthorized)
		return
	}

	tok, err := h.Tokens.Issue(u)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, LoginResponse{Token: tok, User: *u})
}
