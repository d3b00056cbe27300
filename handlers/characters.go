package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"starwars-api/models"
	"starwars-api/services"

	"github.com/umakantv/go-utils/cache"
	"go.uber.org/zap"
)

const (
	charactersListKey = "characters:list"
	characterKeyPref  = "character:"
	catalogCacheTTL   = 5 * time.Minute
)

// CharacterHandler serves the /people endpoints
type CharacterHandler struct {
	characters *services.CharacterService
	cache      cache.Cache
}

// NewCharacterHandler creates a new character handler
func NewCharacterHandler(characters *services.CharacterService, cache cache.Cache) *CharacterHandler {
	return &CharacterHandler{
		characters: characters,
		cache:      cache,
	}
}

// GetCharacters handles GET /people
func (h *CharacterHandler) GetCharacters(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, "info", "Listing characters")

	if serveCached(ctx, w, h.cache, charactersListKey) {
		return
	}

	characters, err := h.characters.List(ctx)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Characters retrieved successfully", zap.Int("count", len(characters)))
	writeCached(ctx, w, h.cache, charactersListKey, catalogCacheTTL, characters)
}

// GetCharacter handles GET /people/{id}
func (h *CharacterHandler) GetCharacter(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(ctx, w, r)
	if !ok {
		return
	}

	logRequest(ctx, "info", "Getting character", zap.Int("character_id", id))

	cacheKey := characterKeyPref + strconv.Itoa(id)
	if serveCached(ctx, w, h.cache, cacheKey) {
		return
	}

	character, err := h.characters.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeCached(ctx, w, h.cache, cacheKey, catalogCacheTTL, character)
}

// CreateCharacter handles POST /people
func (h *CharacterHandler) CreateCharacter(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.CharacterRequest
	if !decodeJSON(ctx, w, r, &req) {
		return
	}

	logRequest(ctx, "info", "Creating character", zap.String("name", req.Name))

	character, err := h.characters.Create(ctx, req)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	h.cache.Delete(charactersListKey)

	logRequest(ctx, "info", "Character created successfully", zap.Int("character_id", character.ID))
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Character created successfully",
		"character": character,
	})
}

// UpdateCharacter handles PUT /people/{id}
func (h *CharacterHandler) UpdateCharacter(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(ctx, w, r)
	if !ok {
		return
	}

	var req models.CharacterRequest
	if !decodeJSON(ctx, w, r, &req) {
		return
	}

	logRequest(ctx, "info", "Updating character", zap.Int("character_id", id))

	character, err := h.characters.Update(ctx, id, req)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	h.invalidate(id)

	logRequest(ctx, "info", "Character updated successfully", zap.Int("character_id", id))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Character updated successfully",
		"character": character,
	})
}

// DeleteCharacter handles DELETE /people/{id}
func (h *CharacterHandler) DeleteCharacter(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(ctx, w, r)
	if !ok {
		return
	}

	logRequest(ctx, "info", "Deleting character", zap.Int("character_id", id))

	character, err := h.characters.Delete(ctx, id)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	h.invalidate(id)

	logRequest(ctx, "info", "Character deleted successfully", zap.Int("character_id", id))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Character deleted successfully",
		"character": character,
	})
}

func (h *CharacterHandler) invalidate(id int) {
	h.cache.Delete(charactersListKey)
	h.cache.Delete(characterKeyPref + strconv.Itoa(id))
}
