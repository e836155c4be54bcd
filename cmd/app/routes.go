package app

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"contentHub/internal/ads"
	"contentHub/internal/guard"
	handlers "contentHub/internal/handler"
	"contentHub/internal/metrics"
	"contentHub/internal/middleware"
)

// Router builds the full HTTP surface. Everything under /api carries the
// browser session; /api/admin is additionally behind the route guard.
func (a *App) Router() http.Handler {
	h := a.Handlers
	cfg := a.Cfg

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handlers.NotFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, "Метод не поддерживается", http.StatusMethodNotAllowed)
	})

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler(a.Metrics)).Methods(http.MethodGet)
	r.HandleFunc("/ads/{slot}", h.AdFragment).Methods(http.MethodGet)
	r.HandleFunc("/sitemap.xml", h.Sitemap).Methods(http.MethodGet)
	// ahead of the /api subrouter, whose /ads/{slot} would match it
	r.HandleFunc(ads.PixelPath, h.AdPixel).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(mux.MiddlewareFunc(middleware.BrowserSession(a.Sessions, cfg.CookieSecure, cfg.Auth.AdminResolveTimeout+time.Second)))

	// auth
	api.HandleFunc("/auth/sign-up", h.SignUp).Methods(http.MethodPost)
	api.HandleFunc("/auth/sign-in", h.SignIn).Methods(http.MethodPost)
	api.HandleFunc("/auth/sign-out", h.SignOut).Methods(http.MethodPost)
	api.HandleFunc("/auth/confirm", h.ConfirmEmail).Methods(http.MethodGet)
	api.HandleFunc("/session", h.Session).Methods(http.MethodGet)
	api.HandleFunc("/profile/make-admin", h.MakeAdmin).Methods(http.MethodPost)

	// public content
	api.HandleFunc("/posts", h.GetPosts).Methods(http.MethodGet)
	api.HandleFunc("/posts/{slug}", h.GetPost).Methods(http.MethodGet)
	api.HandleFunc("/tools", h.GetTools).Methods(http.MethodGet)
	api.HandleFunc("/tools/{id}", h.GetTool).Methods(http.MethodGet)
	api.HandleFunc("/categories", h.GetCategories).Methods(http.MethodGet)
	api.HandleFunc("/settings", h.GetSettings).Methods(http.MethodGet)

	api.HandleFunc("/ads/{slot}", h.GetAd).Methods(http.MethodGet)

	// video consent and playback events
	limiter := middleware.NewRateLimiter(cfg.Analytics.EventRate, cfg.Analytics.EventBurst)
	api.HandleFunc("/videos/{id}/consent", h.GetConsent).Methods(http.MethodGet)
	api.HandleFunc("/videos/{id}/consent", h.AcceptConsent).Methods(http.MethodPost)
	api.HandleFunc("/videos/{id}/consent/decline", h.DeclineConsent).Methods(http.MethodPost)
	api.Handle("/videos/{id}/events", limiter.Middleware()(http.HandlerFunc(h.TrackVideoEvent))).Methods(http.MethodPost)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(mux.MiddlewareFunc(guard.Middleware(cfg.Auth.AdminResolveTimeout, a.log)))

	admin.HandleFunc("/dashboard", h.Dashboard).Methods(http.MethodGet)
	admin.HandleFunc("/grant-admin", h.GrantAdmin).Methods(http.MethodPost)

	admin.HandleFunc("/posts", h.AdminListPosts).Methods(http.MethodGet)
	admin.HandleFunc("/posts", h.CreatePost).Methods(http.MethodPost)
	admin.HandleFunc("/posts/{id}", h.UpdatePost).Methods(http.MethodPut)
	admin.HandleFunc("/posts/{id}", h.DeletePost).Methods(http.MethodDelete)
	admin.HandleFunc("/posts/{id}/publish", h.PublishPost).Methods(http.MethodPost)
	admin.HandleFunc("/posts/{id}/placements", h.ListPlacements).Methods(http.MethodGet)

	admin.HandleFunc("/ads", h.ListAds).Methods(http.MethodGet)
	admin.HandleFunc("/ads", h.CreateAd).Methods(http.MethodPost)
	admin.HandleFunc("/ads/{id}", h.UpdateAd).Methods(http.MethodPut)
	admin.HandleFunc("/ads/{id}", h.DeleteAd).Methods(http.MethodDelete)
	admin.HandleFunc("/placements", h.UpsertPlacement).Methods(http.MethodPut)
	admin.HandleFunc("/placements/{id}", h.DeletePlacement).Methods(http.MethodDelete)

	admin.HandleFunc("/media", h.ListMedia).Methods(http.MethodGet)
	admin.HandleFunc("/media", h.UploadMedia).Methods(http.MethodPost)
	admin.HandleFunc("/media/{id}", h.DeleteMedia).Methods(http.MethodDelete)

	admin.HandleFunc("/settings/{key}", h.UpsertSetting).Methods(http.MethodPut)

	admin.HandleFunc("/tools", h.AdminListTools).Methods(http.MethodGet)
	admin.HandleFunc("/tools", h.CreateTool).Methods(http.MethodPost)
	admin.HandleFunc("/tools/{id}", h.UpdateTool).Methods(http.MethodPut)
	admin.HandleFunc("/tools/{id}", h.DeleteTool).Methods(http.MethodDelete)

	return middleware.Chain(
		r,
		middleware.CORSMiddleware(cfg.AllowedOrigin),
		middleware.LoggingMiddleware(a.log, a.Recorder),
	)
}
