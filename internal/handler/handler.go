package handlers

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"contentHub/internal/ads"
	"contentHub/internal/analytics"
	"contentHub/internal/config"
	"contentHub/internal/consent"
	"contentHub/internal/repository"
	"contentHub/internal/service"
	"contentHub/internal/session"
	"contentHub/internal/sitemap"
)

type Handlers struct {
	AuthService      service.AuthService
	ProfileService   service.ProfileService
	PostService      service.PostService
	MediaService     service.MediaService
	DashboardService service.DashboardService
	AdRepo           repository.AdRepository
	ToolRepo         repository.ToolRepository
	CategoryRepo     repository.CategoryRepository
	SettingsRepo     repository.SettingsRepository
	Ads              *ads.Resolver
	Tracker          *ads.Tracker
	Consent          *consent.Gate
	Events           analytics.Emitter
	SitemapBuilder   *sitemap.Builder
	HealthCheck      func(ctx context.Context) error
	Cfg              *config.Config
	Validate         *validator.Validate
	Log              zerolog.Logger
}

// Deps are the collaborators built outside the service layer.
type Deps struct {
	Ads     *ads.Resolver
	Tracker *ads.Tracker
	Consent *consent.Gate
	Events  analytics.Emitter
	Sitemap *sitemap.Builder
	Health  func(ctx context.Context) error
	Log     zerolog.Logger
}

func NewHandlers(repo *repository.Repository, service *service.Service, config *config.Config, deps Deps) *Handlers {
	return &Handlers{
		AuthService:      service.Auth,
		ProfileService:   service.Profile,
		PostService:      service.Post,
		MediaService:     service.Media,
		DashboardService: service.Dashboard,
		AdRepo:           repo.Ad,
		ToolRepo:         repo.Tool,
		CategoryRepo:     repo.Category,
		SettingsRepo:     repo.Settings,
		Ads:              deps.Ads,
		Tracker:          deps.Tracker,
		Consent:          deps.Consent,
		Events:           deps.Events,
		SitemapBuilder:   deps.Sitemap,
		HealthCheck:      deps.Health,
		Cfg:              config,
		Validate:         validator.New(),
		Log:              deps.Log.With().Str("component", "handlers").Logger(),
	}
}

// entry returns the browser's session entry or answers 500: the session
// middleware is expected to run before every handler that needs it.
func (h *Handlers) entry(w http.ResponseWriter, r *http.Request) (*session.Entry, bool) {
	entry, ok := session.EntryFrom(r.Context())
	if !ok {
		h.Log.Error().Str("path", r.URL.Path).Msg("нет сессии браузера в контексте")
		WriteError(w, "Сессия не инициализирована", http.StatusInternalServerError)
		return nil, false
	}
	return entry, true
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if h.HealthCheck != nil {
		if err := h.HealthCheck(r.Context()); err != nil {
			h.Log.Warn().Err(err).Msg("проверка здоровья не пройдена")
			WriteSuccess(w, map[string]string{"status": "unavailable"}, http.StatusServiceUnavailable)
			return
		}
	}
	WriteSuccess(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteError(w, "Страница не найдена", http.StatusNotFound)
}
