package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"

	"contentHub/internal/models"
	"contentHub/internal/session"
)

type MediaResponse struct {
	models.MediaFile
	URL      string `json:"url"`
	Size     string `json:"size"`
	Uploaded string `json:"uploaded"`
}

func (h *Handlers) mediaResponse(file models.MediaFile, now time.Time) MediaResponse {
	return MediaResponse{
		MediaFile: file,
		URL:       h.MediaService.URL(&file),
		Size:      humanize.Bytes(uint64(file.FileSize)),
		Uploaded:  humanize.RelTime(file.CreatedAt, now, "назад", "позже"),
	}
}

func (h *Handlers) ListMedia(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)

	files, err := h.MediaService.List(r.Context(), page, limit)
	if err != nil {
		writeServiceError(w, h.Log, err, "Файлы не найдены")
		return
	}

	now := time.Now()
	response := make([]MediaResponse, 0, len(files))
	for _, file := range files {
		response = append(response, h.mediaResponse(file, now))
	}

	WriteSuccess(w, response, http.StatusOK)
}

// UploadMedia accepts a multipart form with a single "file" field.
func (h *Handlers) UploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, "Файл слишком большой", http.StatusRequestEntityTooLarge)
			return
		}
		WriteError(w, "Неверный формат формы", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, "Файл не передан", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > h.Cfg.MaxUploadSize {
		WriteError(w, "Файл слишком большой, максимум "+humanize.Bytes(uint64(h.Cfg.MaxUploadSize)), http.StatusRequestEntityTooLarge)
		return
	}

	uploadedBy := ""
	if snap, ok := session.SnapshotFrom(r.Context()); ok && snap.User != nil {
		uploadedBy = snap.User.ID
	}

	media, err := h.MediaService.Upload(r.Context(), uploadedBy, header.Filename, file, header.Size)
	if err != nil {
		writeServiceError(w, h.Log, err, "Файл не найден")
		return
	}

	WriteSuccess(w, h.mediaResponse(*media, time.Now()), http.StatusCreated)
}

func (h *Handlers) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	if err := h.MediaService.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, h.Log, err, "Файл не найден")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
