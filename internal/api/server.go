// Package api exposes the locator over HTTP: ZIP and coordinate resolution,
// center listings, and search suggestions.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/greenloop/locator/internal/directory"
	"github.com/greenloop/locator/internal/resolve"
)

// maxSuggestions caps the /api/suggest response size.
const maxSuggestions = 10

// Server holds the API dependencies.
type Server struct {
	resolver *resolve.Resolver
	store    directory.Store
	pairs    *directory.PairCache
}

// NewServer creates a Server. The city/state projection is shared with the
// resolver so the process holds a single snapshot.
func NewServer(resolver *resolve.Resolver, store directory.Store) *Server {
	return &Server{
		resolver: resolver,
		store:    store,
		pairs:    resolver.PairCache(),
	}
}

// Router builds the chi router with open CORS, matching what the public
// map widget expects.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(requestID, requestLogger)

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(noStore)
		r.Get("/api/zipcode", s.handleZIPGet)
		r.Post("/api/zipcode", s.handleZIPPost)
		r.Get("/api/geolocation", s.handleGeolocation)
	})

	r.Get("/api/centers", s.handleCenters)
	r.Get("/api/suggest", s.handleSuggest)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleZIPGet resolves ?zip=. Resolution is total: the status is always
// 200 and the body always names a city.
func (s *Server) handleZIPGet(w http.ResponseWriter, r *http.Request) {
	result := s.resolver.Resolve(r.Context(), r.URL.Query().Get("zip"))
	writeJSON(w, http.StatusOK, result)
}

// handleZIPPost resolves a JSON body {"zip": "..."} identically to the GET
// binding.
func (s *Server) handleZIPPost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ZIP string `json:"zip"`
	}
	// A malformed body resolves like a missing ZIP: validation error with
	// fallback, never a 4xx.
	_ = json.NewDecoder(r.Body).Decode(&req)

	result := s.resolver.Resolve(r.Context(), req.ZIP)
	writeJSON(w, http.StatusOK, result)
}

// handleGeolocation resolves ?lat=&lng= via reverse geocoding.
func (s *Server) handleGeolocation(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		// Out-of-range values trigger the resolver's own validation path.
		lat, lng = 999, 999
	}

	result := s.resolver.ResolveCoordinates(r.Context(), lat, lng)
	writeJSON(w, http.StatusOK, result)
}

// handleCenters lists directory records for a city.
func (s *Server) handleCenters(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "city is required"})
		return
	}
	state := r.URL.Query().Get("state")

	centers, err := s.store.ListByCity(r.Context(), city, state)
	if err != nil {
		zap.L().Error("api: list centers", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "directory unavailable"})
		return
	}
	if centers == nil {
		centers = []directory.Center{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"centers": centers})
}

// handleSuggest returns city/state pairs whose city or state starts with the
// query prefix, served from the memoized projection.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	if q == "" {
		writeJSON(w, http.StatusOK, map[string]any{"suggestions": []directory.CityState{}})
		return
	}

	pairs, err := s.pairs.Pairs(r.Context())
	if err != nil {
		zap.L().Error("api: suggest", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "directory unavailable"})
		return
	}

	matches := make([]directory.CityState, 0, maxSuggestions)
	for _, p := range pairs {
		if strings.HasPrefix(strings.ToLower(p.City), q) || strings.HasPrefix(strings.ToLower(p.State), q) {
			matches = append(matches, p)
			if len(matches) == maxSuggestions {
				break
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": matches})
}

// Warm pre-builds the city/state cache so the first request does not pay
// the projection cost.
func (s *Server) Warm(ctx context.Context) {
	if _, err := s.pairs.Pairs(ctx); err != nil {
		zap.L().Warn("api: cache warm failed", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("api: encode response", zap.Error(err))
	}
}
