package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"contentHub/internal/models"
)

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteError - универсальная функция для отправки ошибок
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// WriteSuccess - функция для успешных ответов
func WriteSuccess(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeServiceError maps domain errors to statuses; anything unknown is a 500 and gets logged.
func writeServiceError(w http.ResponseWriter, log zerolog.Logger, err error, notFound string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		WriteError(w, notFound, http.StatusNotFound)
	case errors.Is(err, models.ErrAlreadyExists):
		WriteError(w, "Запись с таким ключом уже существует", http.StatusConflict)
	case errors.Is(err, models.ErrInvalidEnum):
		WriteError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrForbidden):
		WriteError(w, "Доступ запрещен", http.StatusForbidden)
	default:
		log.Error().Err(err).Msg("ошибка обработки запроса")
		WriteError(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// pagination reads page and limit, clamping limit to 1..100 with a default of 20.
func pagination(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
