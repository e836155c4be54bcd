package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"contentHub/internal/config"
	handlers "contentHub/internal/handler"
	"contentHub/internal/models"
	"contentHub/internal/sitemap"
)

func newToolHandlers(tools *MockToolRepository) *handlers.Handlers {
	return &handlers.Handlers{
		ToolRepo: tools,
		Cfg:      &config.Config{},
		Validate: validator.New(),
		Log:      zerolog.Nop(),
	}
}

func TestGetToolHandler(t *testing.T) {
	tests := []struct {
		name      string
		mockSetup func(*MockToolRepository)
		status    int
	}{
		{
			name: "Активный инструмент",
			mockSetup: func(tools *MockToolRepository) {
				tools.On("GetByID", mock.Anything, "t1").Return(&models.Tool{ID: "t1", IsActive: true}, nil)
			},
			status: http.StatusOK,
		},
		{
			name: "Неактивный скрыт",
			mockSetup: func(tools *MockToolRepository) {
				tools.On("GetByID", mock.Anything, "t1").Return(&models.Tool{ID: "t1", IsActive: false}, nil)
			},
			status: http.StatusNotFound,
		},
		{
			name: "Не найден",
			mockSetup: func(tools *MockToolRepository) {
				tools.On("GetByID", mock.Anything, "t1").Return(nil, models.ErrNotFound)
			},
			status: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tools := new(MockToolRepository)
			tt.mockSetup(tools)
			h := newToolHandlers(tools)

			req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/tools/t1", nil), map[string]string{"id": "t1"})
			rr := httptest.NewRecorder()
			h.GetTool(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			tools.AssertExpectations(t)
		})
	}
}

func TestCreateToolHandler(t *testing.T) {
	tests := []struct {
		name      string
		body      map[string]any
		mockSetup func(*MockToolRepository)
		status    int
	}{
		{
			name: "Создание",
			body: map[string]any{"name": "Figma", "url": "https://figma.com", "category": "design", "isActive": true},
			mockSetup: func(tools *MockToolRepository) {
				tools.On("Create", mock.Anything, mock.MatchedBy(func(tool *models.Tool) bool {
					return tool.Category == models.ToolDesign
				})).Return(nil)
			},
			status: http.StatusCreated,
		},
		{
			name:      "Неизвестная категория",
			body:      map[string]any{"name": "Figma", "category": "games"},
			mockSetup: func(*MockToolRepository) {},
			status:    http.StatusBadRequest,
		},
		{
			name:      "Неверный url",
			body:      map[string]any{"name": "Figma", "url": "figma", "category": "design"},
			mockSetup: func(*MockToolRepository) {},
			status:    http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tools := new(MockToolRepository)
			tt.mockSetup(tools)
			h := newToolHandlers(tools)

			body, _ := json.Marshal(tt.body)
			rr := httptest.NewRecorder()
			h.CreateTool(rr, httptest.NewRequest(http.MethodPost, "/api/admin/tools", bytes.NewBuffer(body)))

			assert.Equal(t, tt.status, rr.Code)
			tools.AssertExpectations(t)
		})
	}
}

func TestAdminListToolsHandler(t *testing.T) {
	tools := new(MockToolRepository)
	tools.On("ListAll", mock.Anything).Return([]models.Tool{{ID: "t1"}, {ID: "t2", IsActive: true}}, nil)
	h := newToolHandlers(tools)

	rr := httptest.NewRecorder()
	h.AdminListTools(rr, httptest.NewRequest(http.MethodGet, "/api/admin/tools", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var response []models.Tool
	json.Unmarshal(rr.Body.Bytes(), &response)
	assert.Len(t, response, 2)
	tools.AssertExpectations(t)
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		check  func(context.Context) error
		status int
	}{
		{name: "Без проверки", status: http.StatusOK},
		{name: "БД доступна", check: func(context.Context) error { return nil }, status: http.StatusOK},
		{name: "БД недоступна", check: func(context.Context) error { return errors.New("connection refused") }, status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &handlers.Handlers{HealthCheck: tt.check, Log: zerolog.Nop()}

			rr := httptest.NewRecorder()
			h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestNotFoundHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	handlers.NotFoundHandler(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "error")
}

type sitemapRefs struct {
	refs []models.PostRef
	err  error
}

func (s sitemapRefs) ListSitemapRefs(context.Context) ([]models.PostRef, error) { return s.refs, s.err }

type noCategories struct{}

func (noCategories) List(context.Context) ([]models.Category, error) { return nil, nil }

func TestSitemapHandler(t *testing.T) {
	updated := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	t.Run("Опубликованные посты и инструменты", func(t *testing.T) {
		tools := new(MockToolRepository)
		tools.On("ListActive", mock.Anything).Return([]models.Tool{{ID: "t1", UpdatedAt: updated}}, nil)

		h := newToolHandlers(tools)
		h.SitemapBuilder = sitemap.NewBuilder("https://hub.example.com",
			sitemapRefs{refs: []models.PostRef{{Slug: "clip", PostType: models.PostVideo, UpdatedAt: updated}}},
			tools, noCategories{})

		rr := httptest.NewRecorder()
		h.Sitemap(rr, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Type"), "application/xml")
		body := rr.Body.String()
		assert.True(t, strings.HasPrefix(body, "<?xml"))
		assert.Contains(t, body, "<loc>https://hub.example.com/video/clip</loc>")
		assert.Contains(t, body, "<loc>https://hub.example.com/tool/t1</loc>")
		assert.Contains(t, body, "<lastmod>2026-05-04</lastmod>")
	})

	t.Run("Ошибка БД", func(t *testing.T) {
		h := newToolHandlers(new(MockToolRepository))
		h.SitemapBuilder = sitemap.NewBuilder("https://hub.example.com",
			sitemapRefs{err: errors.New("db down")}, new(MockToolRepository), noCategories{})

		rr := httptest.NewRecorder()
		h.Sitemap(rr, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
