package handlers

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx/types"

	"contentHub/internal/browserstore"
	"contentHub/internal/consent"
	"contentHub/internal/models"
)

type ConsentRequest struct {
	Categories []string `json:"categories" validate:"max=3,dive,oneof=functional analytics marketing"`
}

type ConsentResponse struct {
	Allowed bool            `json:"allowed"`
	Record  *consent.Record `json:"record,omitempty"`
	Warning string          `json:"warning,omitempty"`
	Message string          `json:"message,omitempty"`
}

type VideoEventRequest struct {
	EventType        string          `json:"eventType" validate:"required,oneof=play pause ended"`
	TimestampSeconds int             `json:"timestampSeconds" validate:"min=0"`
	EventData        json.RawMessage `json:"eventData"`
}

func (h *Handlers) video(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	post, err := h.PostService.GetPublishedByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.Log, err, "Видео не найдено")
		return nil, false
	}
	return post, true
}

func (h *Handlers) GetConsent(w http.ResponseWriter, r *http.Request) {
	post, ok := h.video(w, r)
	if !ok {
		return
	}

	store := browserstore.NewDurable(w, r, h.Cfg.CookieSecure)
	WriteSuccess(w, h.Consent.Check(store, post), http.StatusOK)
}

// AcceptConsent stores the record and reports, without failing, an audit write that did not go through.
func (h *Handlers) AcceptConsent(w http.ResponseWriter, r *http.Request) {
	post, ok := h.video(w, r)
	if !ok {
		return
	}

	var req ConsentRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неизвестная категория согласия", http.StatusBadRequest)
		return
	}

	categories := make([]consent.Category, len(req.Categories))
	for i, c := range req.Categories {
		categories[i] = consent.Category(c)
	}

	sessionID, err := browserstore.SessionID(browserstore.NewTransient(w, r, h.Cfg.CookieSecure))
	if err != nil {
		h.Log.Warn().Err(err).Msg("не удалось получить id сессии браузера")
	}

	result, err := h.Consent.Accept(r.Context(), browserstore.NewDurable(w, r, h.Cfg.CookieSecure), consent.AcceptRequest{
		ContentID:  post.ID,
		SessionID:  sessionID,
		Categories: categories,
		UserAgent:  r.UserAgent(),
		IPAddress:  remoteIP(r),
	})
	if err != nil {
		writeServiceError(w, h.Log, err, "Видео не найдено")
		return
	}

	response := ConsentResponse{Allowed: true, Record: &result.Record}
	if result.AuditError != nil {
		response.Warning = "Согласие сохранено, но не записано в журнал"
	}

	WriteSuccess(w, response, http.StatusOK)
}

func (h *Handlers) DeclineConsent(w http.ResponseWriter, r *http.Request) {
	post, ok := h.video(w, r)
	if !ok {
		return
	}

	WriteSuccess(w, ConsentResponse{Allowed: false, Message: h.Consent.Decline(post.ID)}, http.StatusOK)
}

// TrackVideoEvent queues a playback event and answers 202 right away.
// Videos behind consent accept events only from browsers holding a valid record.
func (h *Handlers) TrackVideoEvent(w http.ResponseWriter, r *http.Request) {
	post, ok := h.video(w, r)
	if !ok {
		return
	}

	var req VideoEventRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверное событие", http.StatusBadRequest)
		return
	}

	if !h.Consent.Check(browserstore.NewDurable(w, r, h.Cfg.CookieSecure), post).Allowed {
		WriteError(w, consent.DeclineMessage, http.StatusForbidden)
		return
	}

	sessionID, err := browserstore.SessionID(browserstore.NewTransient(w, r, h.Cfg.CookieSecure))
	if err != nil {
		h.Log.Warn().Err(err).Msg("не удалось получить id сессии браузера")
	}

	h.Events.Emit(models.VideoEvent{
		PostID:           post.ID,
		UserSession:      sessionID,
		EventType:        models.VideoEventType(req.EventType),
		EventData:        types.JSONText(req.EventData),
		TimestampSeconds: req.TimestampSeconds,
	})

	WriteSuccess(w, map[string]string{"status": "accepted"}, http.StatusAccepted)
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
