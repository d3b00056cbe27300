package handlers

import (
	"context"
	"net/http"

	"starwars-api/models"
	"starwars-api/services"

	"go.uber.org/zap"
)

// FavoriteHandler handles /favorite endpoints. Adding and removing act on
// behalf of the authenticated caller.
type FavoriteHandler struct {
	favorites *services.FavoriteService
	identify  identityFunc
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(favorites *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{
		favorites: favorites,
		identify:  requestClaims,
	}
}

// GetFavorites handles GET /favorite - every favorite of every user
func (h *FavoriteHandler) GetFavorites(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, "info", "Listing favorites")

	favs, err := h.favorites.List(ctx, nil)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Favorites retrieved successfully", zap.Int("count", len(favs)))
	writeJSON(w, http.StatusOK, favs)
}

// AddFavoriteCharacter handles POST /favorite/people/{id}
func (h *FavoriteHandler) AddFavoriteCharacter(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.add(ctx, w, r, models.FavoriteCharacter)
}

// AddFavoritePlanet handles POST /favorite/planets/{id}
func (h *FavoriteHandler) AddFavoritePlanet(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.add(ctx, w, r, models.FavoritePlanet)
}

// RemoveFavoriteCharacter handles DELETE /favorite/people/{id}
func (h *FavoriteHandler) RemoveFavoriteCharacter(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.remove(ctx, w, r, models.FavoriteCharacter)
}

// RemoveFavoritePlanet handles DELETE /favorite/planets/{id}
func (h *FavoriteHandler) RemoveFavoritePlanet(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.remove(ctx, w, r, models.FavoritePlanet)
}

func (h *FavoriteHandler) add(ctx context.Context, w http.ResponseWriter, r *http.Request, kind string) {
	claims, ok := h.identify(ctx)
	if !ok {
		logRequest(ctx, "error", "Missing session")
		writeMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	targetID, ok := pathID(ctx, w, r)
	if !ok {
		return
	}

	logRequest(ctx, "info", "Adding favorite",
		zap.Int("user_id", claims.UserID), zap.String("tipo", kind), zap.Int("target_id", targetID))

	fav, err := h.favorites.Add(ctx, claims.UserID, kind, targetID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Favorite added successfully", zap.Int("favorite_id", fav.ID))
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Favorite added successfully",
		"favorite": fav,
	})
}

func (h *FavoriteHandler) remove(ctx context.Context, w http.ResponseWriter, r *http.Request, kind string) {
	claims, ok := h.identify(ctx)
	if !ok {
		logRequest(ctx, "error", "Missing session")
		writeMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	targetID, ok := pathID(ctx, w, r)
	if !ok {
		return
	}

	logRequest(ctx, "info", "Removing favorite",
		zap.Int("user_id", claims.UserID), zap.String("tipo", kind), zap.Int("target_id", targetID))

	fav, err := h.favorites.Remove(ctx, claims.UserID, kind, targetID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Favorite removed successfully", zap.Int("favorite_id", fav.ID))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Favorite deleted successfully",
		"favorite": fav,
	})
}
