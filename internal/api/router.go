package api

import (
	"database/sql"
	"net/http"

	"github.com/najdeno/najdeno/internal/match"
	"github.com/najdeno/najdeno/internal/metrics"
	"github.com/najdeno/najdeno/internal/model"
	"github.com/najdeno/najdeno/internal/store"
	"github.com/najdeno/najdeno/internal/vision"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, describer vision.Describer) http.Handler {
	mux := http.NewServeMux()

	engine := match.NewEngine(store.ReportSource{DB: db})

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	reportsHandler := &ReportsHandler{DB: db}
	matchesHandler := &MatchesHandler{DB: db, Engine: engine, Lifecycle: store.ReportLifecycle{DB: db}}
	searchHandler := &SearchHandler{Engine: engine, Vision: describer}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireModerator := RequireRole(model.RoleModerator)

	// Public: login, health, metrics.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			jsonError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// Authenticated session management.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Reports: submit and browse (all roles), review (moderator+).
	mux.Handle("GET /api/reports", authMW(http.HandlerFunc(reportsHandler.List)))
	mux.Handle("POST /api/reports", authMW(http.HandlerFunc(reportsHandler.Create)))
	mux.Handle("GET /api/reports/{id}", authMW(http.HandlerFunc(reportsHandler.Get)))
	mux.Handle("DELETE /api/reports/{id}", authMW(http.HandlerFunc(reportsHandler.Delete)))
	mux.Handle("PUT /api/reports/{id}/review", authMW(requireModerator(http.HandlerFunc(reportsHandler.Review))))
	mux.Handle("PUT /api/reports/{id}/photo", authMW(http.HandlerFunc(reportsHandler.UploadPhoto)))
	mux.Handle("GET /api/reports/{id}/photo", authMW(http.HandlerFunc(reportsHandler.GetPhoto)))

	// Matches: recommendations (all roles), lifecycle (moderator+).
	mux.Handle("GET /api/matches/recommended", authMW(http.HandlerFunc(matchesHandler.Recommended)))
	mux.Handle("POST /api/matches", authMW(requireModerator(http.HandlerFunc(matchesHandler.Create))))
	mux.Handle("GET /api/matches", authMW(requireModerator(http.HandlerFunc(matchesHandler.List))))
	mux.Handle("GET /api/matches/{id}", authMW(requireModerator(http.HandlerFunc(matchesHandler.Get))))
	mux.Handle("POST /api/matches/{id}/confirm", authMW(requireModerator(http.HandlerFunc(matchesHandler.Confirm))))
	mux.Handle("POST /api/matches/{id}/reject", authMW(requireModerator(http.HandlerFunc(matchesHandler.Reject))))

	// Search (all roles).
	mux.Handle("POST /api/search/description", authMW(http.HandlerFunc(searchHandler.Description)))
	mux.Handle("POST /api/search/image", authMW(http.HandlerFunc(searchHandler.Image)))

	return mux
}
