package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"contentHub/internal/ads"
	"contentHub/internal/models"
)

type AdResponse struct {
	Ad    *models.Ad `json:"ad"`
	Size  ads.Size   `json:"size"`
	Pixel string     `json:"pixel,omitempty"`
}

type AdRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Code     string `json:"code" validate:"required"`
	Position string `json:"position" validate:"required"`
	IsActive bool   `json:"isActive"`
}

type PlacementRequest struct {
	AdID     string `json:"adId" validate:"required,uuid"`
	PostID   string `json:"postId" validate:"required,uuid"`
	Position string `json:"position" validate:"required"`
	IsActive bool   `json:"isActive"`
}

func slotFrom(w http.ResponseWriter, r *http.Request) (models.AdPosition, bool) {
	slot, err := models.ParseAdPosition(mux.Vars(r)["slot"])
	if err != nil {
		WriteError(w, "Неизвестное рекламное место", http.StatusBadRequest)
		return "", false
	}
	return slot, true
}

// postIDFrom reads the optional ?post= id; anything but a UUID means no post.
func postIDFrom(r *http.Request) string {
	raw := r.URL.Query().Get("post")
	if raw == "" {
		return ""
	}
	if _, err := uuid.Parse(raw); err != nil {
		return ""
	}
	return raw
}

// GetAd resolves the slot; "ad": null means render nothing.
func (h *Handlers) GetAd(w http.ResponseWriter, r *http.Request) {
	slot, ok := slotFrom(w, r)
	if !ok {
		return
	}
	postID := postIDFrom(r)

	response := AdResponse{Size: ads.Dimensions(slot)}
	if ad := h.Ads.Resolve(r.Context(), slot, postID); ad != nil {
		response.Ad = ad
		response.Pixel = ads.PixelURL(ad.ID, slot, postID)
	}

	WriteSuccess(w, response, http.StatusOK)
}

// AdFragment answers 204 when the slot stays empty.
func (h *Handlers) AdFragment(w http.ResponseWriter, r *http.Request) {
	slot, ok := slotFrom(w, r)
	if !ok {
		return
	}
	postID := postIDFrom(r)

	ad := h.Ads.Resolve(r.Context(), slot, postID)
	if ad == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	html, err := ads.Render(ad, slot, postID)
	if err != nil {
		h.Log.Error().Err(err).Str("ad_id", ad.ID).Msg("ошибка рендеринга рекламы")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

// AdPixel records the impression; it always returns the GIF.
func (h *Handlers) AdPixel(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("ad") != "" {
		if _, err := models.ParseAdPosition(q.Get("slot")); err == nil {
			h.Tracker.Track(ads.Impression{
				AdID:      q.Get("ad"),
				Slot:      q.Get("slot"),
				ContentID: postIDFrom(r),
			})
		}
	}

	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	w.WriteHeader(http.StatusOK)
	w.Write(ads.PixelGIF)
}

func (h *Handlers) ListAds(w http.ResponseWriter, r *http.Request) {
	list, err := h.AdRepo.List(r.Context())
	if err != nil {
		writeServiceError(w, h.Log, err, "Реклама не найдена")
		return
	}

	WriteSuccess(w, list, http.StatusOK)
}

func (h *Handlers) decodeAd(w http.ResponseWriter, r *http.Request) (*models.Ad, bool) {
	var req AdRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return nil, false
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные рекламы", http.StatusBadRequest)
		return nil, false
	}

	position, err := models.ParseAdPosition(req.Position)
	if err != nil {
		WriteError(w, "Неизвестное рекламное место", http.StatusBadRequest)
		return nil, false
	}

	return &models.Ad{
		Name:     req.Name,
		Code:     req.Code,
		Position: position,
		IsActive: req.IsActive,
	}, true
}

func (h *Handlers) CreateAd(w http.ResponseWriter, r *http.Request) {
	ad, ok := h.decodeAd(w, r)
	if !ok {
		return
	}

	if err := h.AdRepo.Create(r.Context(), ad); err != nil {
		writeServiceError(w, h.Log, err, "Реклама не найдена")
		return
	}

	WriteSuccess(w, ad, http.StatusCreated)
}

func (h *Handlers) UpdateAd(w http.ResponseWriter, r *http.Request) {
	ad, ok := h.decodeAd(w, r)
	if !ok {
		return
	}
	ad.ID = mux.Vars(r)["id"]

	if err := h.AdRepo.Update(r.Context(), ad); err != nil {
		writeServiceError(w, h.Log, err, "Реклама не найдена")
		return
	}

	WriteSuccess(w, ad, http.StatusOK)
}

func (h *Handlers) DeleteAd(w http.ResponseWriter, r *http.Request) {
	if err := h.AdRepo.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, h.Log, err, "Реклама не найдена")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListPlacements(w http.ResponseWriter, r *http.Request) {
	placements, err := h.AdRepo.ListPlacements(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.Log, err, "Размещения не найдены")
		return
	}

	WriteSuccess(w, placements, http.StatusOK)
}

// UpsertPlacement pins an ad to a post's slot, replacing any previous pin for that slot.
func (h *Handlers) UpsertPlacement(w http.ResponseWriter, r *http.Request) {
	var req PlacementRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные размещения", http.StatusBadRequest)
		return
	}

	position, err := models.ParseAdPosition(req.Position)
	if err != nil {
		WriteError(w, "Неизвестное рекламное место", http.StatusBadRequest)
		return
	}

	placement := &models.AdPlacement{
		AdID:     req.AdID,
		PostID:   req.PostID,
		Position: position,
		IsActive: req.IsActive,
	}

	if err := h.AdRepo.UpsertPlacement(r.Context(), placement); err != nil {
		writeServiceError(w, h.Log, err, "Размещение не найдено")
		return
	}

	WriteSuccess(w, placement, http.StatusOK)
}

func (h *Handlers) DeletePlacement(w http.ResponseWriter, r *http.Request) {
	if err := h.AdRepo.DeletePlacement(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, h.Log, err, "Размещение не найдено")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
