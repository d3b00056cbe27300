package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"starwars-api/auth"
	"starwars-api/handlers"

	"github.com/umakantv/go-utils/httpserver"
)

// Route auth types understood by httpserver
const (
	authNone   = "none"
	authBearer = "bearer"
)

type route struct {
	httpserver.Route
	handler httpserver.HandlerFunc
}

// handlerSet groups the handlers the route table dispatches to
type handlerSet struct {
	users      *handlers.UserHandler
	characters *handlers.CharacterHandler
	planets    *handlers.PlanetHandler
	favorites  *handlers.FavoriteHandler
	auth       *handlers.AuthHandler
}

func newRoute(name, method, path, authType string, h httpserver.HandlerFunc) route {
	return route{
		Route: httpserver.Route{
			Name:     name,
			Method:   method,
			Path:     path,
			AuthType: authType,
		},
		handler: h,
	}
}

// buildRoutes returns the full route table, sitemap included
func buildRoutes(h handlerSet) []route {
	routes := []route{
		newRoute("HealthCheck", "GET", "/health", authNone, healthCheck),

		newRoute("ListUsers", "GET", "/users", authNone, h.users.GetUsers),
		newRoute("CreateUser", "POST", "/users", authNone, h.users.CreateUser),
		newRoute("GetUser", "GET", "/users/{id}", authNone, h.users.GetUser),
		newRoute("UpdateUser", "PUT", "/users/{id}", authNone, h.users.UpdateUser),
		newRoute("DeleteUser", "DELETE", "/users/{id}", authNone, h.users.DeleteUser),
		newRoute("ListUserFavorites", "GET", "/users/{id}/favorites", authNone, h.users.GetUserFavorites),

		newRoute("ListPeople", "GET", "/people", authNone, h.characters.GetCharacters),
		newRoute("GetPerson", "GET", "/people/{id}", authNone, h.characters.GetCharacter),
		newRoute("CreatePerson", "POST", "/people", authNone, h.characters.CreateCharacter),
		newRoute("UpdatePerson", "PUT", "/people/{id}", authNone, h.characters.UpdateCharacter),
		newRoute("DeletePerson", "DELETE", "/people/{id}", authNone, h.characters.DeleteCharacter),

		newRoute("ListPlanets", "GET", "/planets", authNone, h.planets.GetPlanets),
		newRoute("GetPlanet", "GET", "/planets/{id}", authNone, h.planets.GetPlanet),
		newRoute("CreatePlanet", "POST", "/planets", authNone, h.planets.CreatePlanet),
		newRoute("UpdatePlanet", "PUT", "/planets/{id}", authNone, h.planets.UpdatePlanet),
		newRoute("DeletePlanet", "DELETE", "/planets/{id}", authNone, h.planets.DeletePlanet),

		newRoute("ListFavorites", "GET", "/favorite", authNone, h.favorites.GetFavorites),
		newRoute("AddFavoritePerson", "POST", "/favorite/people/{id}", authBearer, h.favorites.AddFavoriteCharacter),
		newRoute("RemoveFavoritePerson", "DELETE", "/favorite/people/{id}", authBearer, h.favorites.RemoveFavoriteCharacter),
		newRoute("AddFavoritePlanet", "POST", "/favorite/planets/{id}", authBearer, h.favorites.AddFavoritePlanet),
		newRoute("RemoveFavoritePlanet", "DELETE", "/favorite/planets/{id}", authBearer, h.favorites.RemoveFavoritePlanet),

		newRoute("Signup", "POST", "/signup", authNone, h.auth.Signup),
		newRoute("Login", "POST", "/login", authNone, h.auth.Login),
		newRoute("Private", "GET", "/private", authBearer, h.auth.Private),
		newRoute("Logout", "POST", "/logout", authBearer, h.auth.Logout),
	}

	return append(routes, newRoute("Sitemap", "GET", "/", authNone, sitemap(routes)))
}

func healthCheck(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy", "service": "starwars-api"}`))
}

type sitemapEntry struct {
	Name   string `json:"name"`
	Method string `json:"method"`
	Path   string `json:"path"`
	Auth   string `json:"auth"`
}

// sitemap lists every registered endpoint
func sitemap(routes []route) httpserver.HandlerFunc {
	entries := make([]sitemapEntry, 0, len(routes)+1)
	for _, rt := range routes {
		entries = append(entries, sitemapEntry{Name: rt.Name, Method: rt.Method, Path: rt.Path, Auth: rt.AuthType})
	}
	entries = append(entries, sitemapEntry{Name: "Sitemap", Method: "GET", Path: "/", Auth: authNone})

	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{"endpoints": entries})
	}
}

// newAuthChecker validates "Authorization: Bearer <token>" against the
// session manager and exposes the session claims to handlers
func newAuthChecker(sessions *auth.SessionManager) func(r *http.Request) (bool, httpserver.RequestAuth) {
	return func(r *http.Request) (bool, httpserver.RequestAuth) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			return false, httpserver.RequestAuth{}
		}

		claims, err := sessions.Verify(token)
		if err != nil {
			return false, httpserver.RequestAuth{}
		}

		return true, httpserver.RequestAuth{
			Type:   authBearer,
			Client: claims.Email,
			Claims: map[string]interface{}{
				handlers.ClaimsKey: claims,
				"user_id":          claims.UserID,
			},
		}
	}
}
