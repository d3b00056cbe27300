package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"starwars-api/auth"
	"starwars-api/models"
	"starwars-api/services"

	"github.com/gorilla/mux"
	"github.com/umakantv/go-utils/cache"
	"github.com/umakantv/go-utils/httpserver"
	logger "github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// ClaimsKey is the entry of the RequestAuth.Claims map holding the caller's *auth.Claims
const ClaimsKey = "session"

// logRequest logs with a prefix of timestamp - route - method - path - client,
// taken from the httpserver route context, plus any zap fields passed in.
func logRequest(ctx context.Context, level string, message string, fields ...zap.Field) {
	routeName := httpserver.GetRouteName(ctx)
	method := httpserver.GetRouteMethod(ctx)
	path := httpserver.GetRoutePath(ctx)
	reqAuth := httpserver.GetRequestAuth(ctx)

	logMsg := time.Now().Format("2006-01-02 15:04:05") + " - " + routeName + " - " + method + " - " + path
	if reqAuth != nil && reqAuth.Client != "" {
		logMsg += " - client:" + reqAuth.Client
	}
	if message != "" {
		logMsg += " - " + message
	}

	allFields := append([]zap.Field{
		zap.String("route", routeName),
		zap.String("method", method),
		zap.String("path", path),
	}, fields...)

	switch level {
	case "info":
		logger.Info(logMsg, allFields...)
	case "error":
		logger.Error(logMsg, allFields...)
	case "debug":
		logger.Debug(logMsg, allFields...)
	}
}

// identityFunc resolves the authenticated caller of a request
type identityFunc func(ctx context.Context) (*auth.Claims, bool)

// requestClaims reads the session claims stored by the bearer auth check
func requestClaims(ctx context.Context) (*auth.Claims, bool) {
	reqAuth := httpserver.GetRequestAuth(ctx)
	if reqAuth == nil {
		return nil, false
	}
	values, _ := reqAuth.Claims.(map[string]interface{})
	claims, ok := values[ClaimsKey].(*auth.Claims)
	return claims, ok && claims != nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Message: message})
}

// writeServiceError maps a service error onto its status code and JSON body
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		logRequest(ctx, "info", "Validation failed", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Message: verr.Error(), Fields: verr.Fields})

	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrCharacterNotFound),
		errors.Is(err, services.ErrPlanetNotFound),
		errors.Is(err, services.ErrFavoriteNotFound),
		errors.Is(err, services.ErrNoUsers),
		errors.Is(err, services.ErrNoCharacters),
		errors.Is(err, services.ErrNoPlanets),
		errors.Is(err, services.ErrNoFavorites):
		logRequest(ctx, "info", "Not found", zap.Error(err))
		writeMessage(w, http.StatusNotFound, err.Error())

	case errors.Is(err, services.ErrEmailAlreadyExists),
		errors.Is(err, services.ErrFavoriteAlreadyExists):
		logRequest(ctx, "info", "Conflict", zap.Error(err))
		writeMessage(w, http.StatusConflict, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrUserInactive):
		logRequest(ctx, "info", "Authentication failed", zap.Error(err))
		writeMessage(w, http.StatusUnauthorized, err.Error())

	default:
		logRequest(ctx, "error", "Request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Message: "internal server error",
			Error:   err.Error(),
		})
	}
}

// decodeJSON reads the request body into v, answering 400 on failure
func decodeJSON(ctx context.Context, w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Message: "invalid JSON body", Error: err.Error()})
		return false
	}
	return true
}

// pathID parses the {id} route variable, answering 400 when it is not an integer
func pathID(ctx context.Context, w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		logRequest(ctx, "error", "Invalid ID", zap.String("id", idStr))
		writeMessage(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// cachedResponse returns a previously cached JSON body
func cachedResponse(c cache.Cache, key string) ([]byte, bool) {
	cached, err := c.Get(key)
	if err != nil {
		return nil, false
	}
	switch v := cached.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	}
	return nil, false
}

// writeCached encodes body, stores it under key and writes it with status 200
func writeCached(ctx context.Context, w http.ResponseWriter, c cache.Cache, key string, ttl time.Duration, body interface{}) {
	response, err := json.Marshal(body)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	if err := c.Set(key, string(response), ttl); err != nil {
		logRequest(ctx, "error", "Failed to cache response", zap.String("key", key), zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(response)
}

func serveCached(ctx context.Context, w http.ResponseWriter, c cache.Cache, key string) bool {
	cached, ok := cachedResponse(c, key)
	if !ok {
		return false
	}
	logRequest(ctx, "debug", "Serving from cache", zap.String("key", key))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(cached)
	return true
}
