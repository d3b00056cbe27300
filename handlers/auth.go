package handlers

import (
	"context"
	"net/http"

	"starwars-api/auth"
	"starwars-api/models"

	"go.uber.org/zap"
)

// AuthHandler handles signup, login and the session-protected endpoints.
// Sessions live in the cache; see package auth.
type AuthHandler struct {
	users    *UserHandler
	sessions *auth.SessionManager
	identify identityFunc
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *UserHandler, sessions *auth.SessionManager) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		identify: requestClaims,
	}
}

// Signup handles POST /signup - creates a user with the same rules as POST /users
func (h *AuthHandler) Signup(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, "info", "Signup request")
	h.users.createUser(ctx, w, r, "Signed up successfully")
}

// Login handles POST /login - verifies credentials and issues a session token
func (h *AuthHandler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, "info", "Login request")

	var req models.LoginRequest
	if !decodeJSON(ctx, w, r, &req) {
		return
	}

	user, err := h.users.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	token, claims, err := h.sessions.Issue(user)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Login successful", zap.Int("user_id", user.ID))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Logged in",
		"token":      token,
		"expires_at": claims.ExpiresAt.Time,
		"user":       user,
	})
}

// Private handles GET /private - returns the caller's own record
func (h *AuthHandler) Private(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	claims, ok := h.identify(ctx)
	if !ok {
		logRequest(ctx, "error", "Missing session")
		writeMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := h.users.users.GetActive(ctx, claims.UserID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Private retrieved", zap.Int("user_id", user.ID))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Access granted",
		"user":    user,
	})
}

// Logout handles POST /logout - ends the caller's session
func (h *AuthHandler) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	claims, ok := h.identify(ctx)
	if !ok {
		logRequest(ctx, "error", "Missing session")
		writeMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	h.sessions.Revoke(claims)

	logRequest(ctx, "info", "Logout successful", zap.Int("user_id", claims.UserID))
	writeMessage(w, http.StatusOK, "Logged out")
}
