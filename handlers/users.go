package handlers

import (
	"context"
	"net/http"

	"starwars-api/models"
	"starwars-api/services"

	"go.uber.org/zap"
)

// UserHandler handles user-related operations
type UserHandler struct {
	users     *services.UserService
	favorites *services.FavoriteService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *services.UserService, favorites *services.FavoriteService) *UserHandler {
	return &UserHandler{
		users:     users,
		favorites: favorites,
	}
}

// GetUsers handles GET /users - list active users with their favorites
func (h *UserHandler) GetUsers(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, "info", "Listing users")

	users, err := h.users.List(ctx)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Users retrieved successfully", zap.Int("count", len(users)))
	writeJSON(w, http.StatusOK, users)
}

// GetUser handles GET /users/{id} - get user by ID
func (h *UserHandler) GetUser(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(ctx, w, r)
	if !ok {
		return
	}

	logRequest(ctx, "info", "Getting user", zap.Int("user_id", id))

	user, err := h.users.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// CreateUser handles POST /users - create a new user
func (h *UserHandler) CreateUser(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.createUser(ctx, w, r, "User created successfully")
}

// createUser is shared by POST /users and POST /signup
func (h *UserHandler) createUser(ctx context.Context, w http.ResponseWriter, r *http.Request, message string) {
	var req models.CreateUserRequest
	if !decodeJSON(ctx, w, r, &req) {
		return
	}

	logRequest(ctx, "info", "Creating user", zap.String("email", req.Email))

	user, err := h.users.Create(ctx, req)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "User created successfully", zap.Int("user_id", user.ID))
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": message,
		"user":    user,
	})
}

// UpdateUser handles PUT /users/{id} - update the fields present in the body
func (h *UserHandler) UpdateUser(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(ctx, w, r)
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if !decodeJSON(ctx, w, r, &req) {
		return
	}

	logRequest(ctx, "info", "Updating user", zap.Int("user_id", id))

	user, err := h.users.Update(ctx, id, req)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "User updated successfully", zap.Int("user_id", id))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User updated successfully",
		"user":    user,
	})
}

// DeleteUser handles DELETE /users/{id} - delete user
func (h *UserHandler) DeleteUser(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(ctx, w, r)
	if !ok {
		return
	}

	logRequest(ctx, "info", "Deleting user", zap.Int("user_id", id))

	user, err := h.users.Delete(ctx, id)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "User deleted successfully", zap.Int("user_id", id))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User deleted successfully",
		"user":    user,
	})
}

// GetUserFavorites handles GET /users/{id}/favorites
func (h *UserHandler) GetUserFavorites(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(ctx, w, r)
	if !ok {
		return
	}

	logRequest(ctx, "info", "Listing user favorites", zap.Int("user_id", id))

	favs, err := h.favorites.List(ctx, &id)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, favs)
}
