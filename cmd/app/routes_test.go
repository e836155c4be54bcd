package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentHub/internal/config"
	handlers "contentHub/internal/handler"
	"contentHub/internal/metrics"
	"contentHub/internal/models"
	"contentHub/internal/repository"
	"contentHub/internal/repository/memrepo"
	"contentHub/internal/service"
	"contentHub/internal/session"
)

type statsFunc func(ctx context.Context) (*models.DashboardStats, error)

func (f statsFunc) GetStats(ctx context.Context) (*models.DashboardStats, error) { return f(ctx) }

func newTestApp(t *testing.T) *App {
	t.Helper()

	cfg := &config.Config{
		JWTSecretKey:         "secret",
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: time.Hour,
		AllowedOrigin:        "*",
	}
	cfg.Auth.AdminResolveTimeout = time.Second
	cfg.Analytics.EventRate = 10
	cfg.Analytics.EventBurst = 10

	users := memrepo.NewUsers()
	profiles := memrepo.NewProfiles()
	auth := service.NewAuthService(users, cfg)
	profileService := service.NewProfileService(profiles, users, cfg)

	_, err := auth.Register(context.Background(), repository.CreateUserRequest{Email: "owner@x.com", Password: "pw123456"})
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	recorder := metrics.NewCollector(registry)

	sessions := session.NewRegistry(auth, profileService, time.Hour, session.Options{
		AdminResolveTimeout: cfg.Auth.AdminResolveTimeout,
		Metrics:             recorder,
	})
	t.Cleanup(sessions.Close)

	return &App{
		Cfg:      cfg,
		Sessions: sessions,
		Metrics:  registry,
		Recorder: recorder,
		Handlers: &handlers.Handlers{
			AuthService:    auth,
			ProfileService: profileService,
			DashboardService: statsFunc(func(context.Context) (*models.DashboardStats, error) {
				return &models.DashboardStats{Posts: 3}, nil
			}),
			Cfg:      cfg,
			Validate: validator.New(),
			Log:      zerolog.Nop(),
		},
		log: zerolog.Nop(),
	}
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func post(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	resp, err := client.Post(url, "application/json", &payload)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, client *http.Client, url string, accept string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRouter_AdminElevationNeedsReauth(t *testing.T) {
	app := newTestApp(t)
	server := httptest.NewServer(app.Router())
	t.Cleanup(server.Close)

	client := newClient(t)
	creds := map[string]string{"email": "owner@x.com", "password": "pw123456"}

	t.Run("Без входа API отвечает 401, страница перенаправляет", func(t *testing.T) {
		resp := get(t, client, server.URL+"/api/admin/dashboard", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp = get(t, client, server.URL+"/api/admin/dashboard", "text/html")
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/auth", resp.Header.Get("Location"))
	})

	t.Run("Вход без прав дает явный отказ", func(t *testing.T) {
		resp := post(t, client, server.URL+"/api/auth/sign-in", creds)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = get(t, client, server.URL+"/api/admin/dashboard", "")
		require.Equal(t, http.StatusForbidden, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "owner@x.com", body["email"])
	})

	t.Run("Права действуют только после повторного входа", func(t *testing.T) {
		resp := post(t, client, server.URL+"/api/profile/make-admin", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = get(t, client, server.URL+"/api/admin/dashboard", "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		post(t, client, server.URL+"/api/auth/sign-out", nil)
		resp = post(t, client, server.URL+"/api/auth/sign-in", creds)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = get(t, client, server.URL+"/api/admin/dashboard", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stats models.DashboardStats
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
		assert.Equal(t, 3, stats.Posts)
	})
}

func TestRouter_SignInRotatesSessionID(t *testing.T) {
	app := newTestApp(t)
	server := httptest.NewServer(app.Router())
	t.Cleanup(server.Close)

	attacker := newClient(t)
	get(t, attacker, server.URL+"/api/session", "")
	target, err := url.Parse(server.URL)
	require.NoError(t, err)
	planted := sessionCookie(attacker, target)
	require.NotEmpty(t, planted)

	victim := newClient(t)
	victim.Jar.SetCookies(target, []*http.Cookie{{Name: session.CookieName, Value: planted, Path: "/"}})

	resp := post(t, victim, server.URL+"/api/auth/sign-in", map[string]string{"email": "owner@x.com", "password": "pw123456"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEqual(t, planted, sessionCookie(victim, target))

	resp = get(t, attacker, server.URL+"/api/session", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap session.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, session.StateUnauthenticated, snap.State)
	assert.Nil(t, snap.User)
}

func sessionCookie(client *http.Client, target *url.URL) string {
	for _, c := range client.Jar.Cookies(target) {
		if c.Name == session.CookieName {
			return c.Value
		}
	}
	return ""
}

func TestRouter_SessionSurvivesRegistryLoss(t *testing.T) {
	app := newTestApp(t)
	server := httptest.NewServer(app.Router())
	t.Cleanup(server.Close)

	client := newClient(t)
	resp := post(t, client, server.URL+"/api/auth/sign-in", map[string]string{"email": "owner@x.com", "password": "pw123456"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// a restart loses every in-memory entry; the refresh cookie brings the session back
	app.Sessions.Close()

	resp = get(t, client, server.URL+"/api/session", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap session.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, session.StateAuthenticated, snap.State)
	require.NotNil(t, snap.User)
	assert.Equal(t, "owner@x.com", snap.User.Email)
}

func TestRouter_Infrastructure(t *testing.T) {
	app := newTestApp(t)
	server := httptest.NewServer(app.Router())
	t.Cleanup(server.Close)
	client := newClient(t)

	t.Run("Health", func(t *testing.T) {
		resp := get(t, client, server.URL+"/health", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Metrics", func(t *testing.T) {
		get(t, client, server.URL+"/health", "")
		resp := get(t, client, server.URL+"/metrics", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body bytes.Buffer
		body.ReadFrom(resp.Body)
		assert.Contains(t, body.String(), "contenthub_http_responses_total")
	})

	t.Run("Неизвестный маршрут", func(t *testing.T) {
		resp := get(t, client, server.URL+"/api/nope", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	})

	t.Run("Неверный метод", func(t *testing.T) {
		resp := get(t, client, server.URL+"/api/auth/sign-in", "")
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}
