package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"contentHub/internal/models"
)

type ToolRequest struct {
	Name             string `json:"name" validate:"required,max=255"`
	Description      string `json:"description"`
	URL              string `json:"url" validate:"omitempty,url"`
	EmbedCode        string `json:"embedCode"`
	ThumbnailURL     string `json:"thumbnailUrl" validate:"omitempty,url"`
	Category         string `json:"category" validate:"required"`
	IsActive         bool   `json:"isActive"`
	IsFeatured       bool   `json:"isFeatured"`
	HomepagePosition *int   `json:"homepagePosition" validate:"omitempty,min=0"`
}

type SettingRequest struct {
	Value       string `json:"value"`
	Type        string `json:"type" validate:"omitempty,oneof=text number boolean json color url"`
	Category    string `json:"category" validate:"max=100"`
	Description string `json:"description"`
}

type GrantAdminRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *Handlers) GetTools(w http.ResponseWriter, r *http.Request) {
	tools, err := h.ToolRepo.ListActive(r.Context())
	if err != nil {
		writeServiceError(w, h.Log, err, "Инструменты не найдены")
		return
	}

	WriteSuccess(w, tools, http.StatusOK)
}

// GetTool hides inactive tools from the public.
func (h *Handlers) GetTool(w http.ResponseWriter, r *http.Request) {
	tool, err := h.ToolRepo.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.Log, err, "Инструмент не найден")
		return
	}
	if !tool.IsActive {
		WriteError(w, "Инструмент не найден", http.StatusNotFound)
		return
	}

	WriteSuccess(w, tool, http.StatusOK)
}

func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.CategoryRepo.List(r.Context())
	if err != nil {
		writeServiceError(w, h.Log, err, "Категории не найдены")
		return
	}

	WriteSuccess(w, categories, http.StatusOK)
}

func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.SettingsRepo.List(r.Context())
	if err != nil {
		writeServiceError(w, h.Log, err, "Настройки не найдены")
		return
	}

	WriteSuccess(w, settings, http.StatusOK)
}

func (h *Handlers) UpsertSetting(w http.ResponseWriter, r *http.Request) {
	var req SettingRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные настройки", http.StatusBadRequest)
		return
	}

	setting := &models.SiteSetting{
		Key:         mux.Vars(r)["key"],
		Value:       req.Value,
		Type:        req.Type,
		Category:    req.Category,
		Description: req.Description,
	}
	if setting.Type == "" {
		setting.Type = "text"
	}

	if err := h.SettingsRepo.Upsert(r.Context(), setting); err != nil {
		writeServiceError(w, h.Log, err, "Настройка не найдена")
		return
	}

	WriteSuccess(w, setting, http.StatusOK)
}

func (h *Handlers) AdminListTools(w http.ResponseWriter, r *http.Request) {
	tools, err := h.ToolRepo.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, h.Log, err, "Инструменты не найдены")
		return
	}

	WriteSuccess(w, tools, http.StatusOK)
}

func (h *Handlers) decodeTool(w http.ResponseWriter, r *http.Request) (*models.Tool, bool) {
	var req ToolRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return nil, false
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные инструмента", http.StatusBadRequest)
		return nil, false
	}

	category, err := models.ParseToolCategory(req.Category)
	if err != nil {
		WriteError(w, "Неизвестная категория инструмента", http.StatusBadRequest)
		return nil, false
	}

	return &models.Tool{
		Name:             req.Name,
		Description:      req.Description,
		URL:              req.URL,
		EmbedCode:        req.EmbedCode,
		ThumbnailURL:     req.ThumbnailURL,
		Category:         category,
		IsActive:         req.IsActive,
		IsFeatured:       req.IsFeatured,
		HomepagePosition: req.HomepagePosition,
	}, true
}

func (h *Handlers) CreateTool(w http.ResponseWriter, r *http.Request) {
	tool, ok := h.decodeTool(w, r)
	if !ok {
		return
	}

	if err := h.ToolRepo.Create(r.Context(), tool); err != nil {
		writeServiceError(w, h.Log, err, "Инструмент не найден")
		return
	}

	WriteSuccess(w, tool, http.StatusCreated)
}

func (h *Handlers) UpdateTool(w http.ResponseWriter, r *http.Request) {
	tool, ok := h.decodeTool(w, r)
	if !ok {
		return
	}
	tool.ID = mux.Vars(r)["id"]

	if err := h.ToolRepo.Update(r.Context(), tool); err != nil {
		writeServiceError(w, h.Log, err, "Инструмент не найден")
		return
	}

	WriteSuccess(w, tool, http.StatusOK)
}

func (h *Handlers) DeleteTool(w http.ResponseWriter, r *http.Request) {
	if err := h.ToolRepo.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, h.Log, err, "Инструмент не найден")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.DashboardService.GetStats(r.Context())
	if err != nil {
		writeServiceError(w, h.Log, err, "Статистика недоступна")
		return
	}

	WriteSuccess(w, stats, http.StatusOK)
}

func (h *Handlers) Sitemap(w http.ResponseWriter, r *http.Request) {
	set, err := h.SitemapBuilder.Build(r.Context(), time.Now())
	if err != nil {
		h.Log.Error().Err(err).Msg("ошибка построения карты сайта")
		WriteError(w, "Карта сайта недоступна", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := set.WriteTo(w); err != nil {
		h.Log.Warn().Err(err).Msg("ошибка отправки карты сайта")
	}
}

// GrantAdmin is the elevated path: an admin promotes another account by email.
func (h *Handlers) GrantAdmin(w http.ResponseWriter, r *http.Request) {
	var req GrantAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверный формат email", http.StatusBadRequest)
		return
	}

	profile, err := h.ProfileService.GrantAdminByEmail(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, h.Log, err, "Пользователь с таким email не найден")
		return
	}

	WriteSuccess(w, ElevationResponse{Profile: profile, Message: reauthMessage}, http.StatusOK)
}
