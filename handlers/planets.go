package handlers

import (
	"context"
	"net/http"
	"strconv"

	"starwars-api/models"
	"starwars-api/services"

	"github.com/umakantv/go-utils/cache"
	"go.uber.org/zap"
)

const (
	planetsListKey = "planets:list"
	planetKeyPref  = "planet:"
)

// PlanetHandler serves the /planets endpoints
type PlanetHandler struct {
	planets *services.PlanetService
	cache   cache.Cache
}

// NewPlanetHandler creates a new planet handler
func NewPlanetHandler(planets *services.PlanetService, cache cache.Cache) *PlanetHandler {
	return &PlanetHandler{
		planets: planets,
		cache:   cache,
	}
}

// GetPlanets handles GET /planets
func (h *PlanetHandler) GetPlanets(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, "info", "Listing planets")

	if serveCached(ctx, w, h.cache, planetsListKey) {
		return
	}

	planets, err := h.planets.List(ctx)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Planets retrieved successfully", zap.Int("count", len(planets)))
	writeCached(ctx, w, h.cache, planetsListKey, catalogCacheTTL, planets)
}

// GetPlanet handles GET /planets/{id}
func (h *PlanetHandler) GetPlanet(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(ctx, w, r)
	if !ok {
		return
	}

	logRequest(ctx, "info", "Getting planet", zap.Int("planet_id", id))

	cacheKey := planetKeyPref + strconv.Itoa(id)
	if serveCached(ctx, w, h.cache, cacheKey) {
		return
	}

	planet, err := h.planets.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeCached(ctx, w, h.cache, cacheKey, catalogCacheTTL, planet)
}

// CreatePlanet handles POST /planets
func (h *PlanetHandler) CreatePlanet(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.PlanetRequest
	if !decodeJSON(ctx, w, r, &req) {
		return
	}

	logRequest(ctx, "info", "Creating planet", zap.String("name", req.Name))

	planet, err := h.planets.Create(ctx, req)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	h.cache.Delete(planetsListKey)

	logRequest(ctx, "info", "Planet created successfully", zap.Int("planet_id", planet.ID))
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Planet created successfully",
		"planet":  planet,
	})
}

// UpdatePlanet handles PUT /planets/{id}
func (h *PlanetHandler) UpdatePlanet(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(ctx, w, r)
	if !ok {
		return
	}

	var req models.PlanetRequest
	if !decodeJSON(ctx, w, r, &req) {
		return
	}

	logRequest(ctx, "info", "Updating planet", zap.Int("planet_id", id))

	planet, err := h.planets.Update(ctx, id, req)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	h.invalidate(id)

	logRequest(ctx, "info", "Planet updated successfully", zap.Int("planet_id", id))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Planet updated successfully",
		"planet":  planet,
	})
}

// DeletePlanet handles DELETE /planets/{id}
func (h *PlanetHandler) DeletePlanet(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(ctx, w, r)
	if !ok {
		return
	}

	logRequest(ctx, "info", "Deleting planet", zap.Int("planet_id", id))

	planet, err := h.planets.Delete(ctx, id)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	h.invalidate(id)

	logRequest(ctx, "info", "Planet deleted successfully", zap.Int("planet_id", id))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Planet deleted successfully",
		"planet":  planet,
	})
}

func (h *PlanetHandler) invalidate(id int) {
	h.cache.Delete(planetsListKey)
	h.cache.Delete(planetKeyPref + strconv.Itoa(id))
}
