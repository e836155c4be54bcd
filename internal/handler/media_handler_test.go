package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"contentHub/internal/config"
	handlers "contentHub/internal/handler"
	"contentHub/internal/models"
	"contentHub/internal/session"
)

func multipartBody(t *testing.T, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	part.Write(data)
	require.NoError(t, writer.Close())

	return &body, writer.FormDataContentType()
}

func TestUploadMediaHandler(t *testing.T) {
	tests := []struct {
		name      string
		size      int
		mockSetup func(*MockMediaService)
		status    int
	}{
		{
			name: "Успешная загрузка",
			size: 512,
			mockSetup: func(media *MockMediaService) {
				media.On("Upload", mock.Anything, "admin-1", "photo.png", mock.Anything, int64(512)).
					Return(&models.MediaFile{ID: "m1", FilePath: "2026/photo.png", FileSize: 512, CreatedAt: time.Now()}, nil)
			},
			status: http.StatusCreated,
		},
		{
			name:      "Слишком большой файл",
			size:      2048,
			mockSetup: func(*MockMediaService) {},
			status:    http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			media := new(MockMediaService)
			tt.mockSetup(media)
			h := &handlers.Handlers{
				MediaService: media,
				Cfg:          &config.Config{MaxUploadSize: 1024},
				Validate:     validator.New(),
				Log:          zerolog.Nop(),
			}

			body, contentType := multipartBody(t, "photo.png", bytes.Repeat([]byte{1}, tt.size))
			req := httptest.NewRequest(http.MethodPost, "/api/admin/media", body)
			req.Header.Set("Content-Type", contentType)
			req = req.WithContext(session.WithSnapshot(context.Background(), session.Snapshot{
				State: session.StateAdmin,
				User:  &models.AuthUser{ID: "admin-1"},
			}))

			rr := httptest.NewRecorder()
			h.UploadMedia(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			if tt.status == http.StatusCreated {
				var response handlers.MediaResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
				assert.Equal(t, "512 B", response.Size)
				assert.Contains(t, response.URL, "2026/photo.png")
			}
			media.AssertExpectations(t)
		})
	}
}

func TestListMediaHandler(t *testing.T) {
	media := new(MockMediaService)
	media.On("List", mock.Anything, 1, 20).Return([]models.MediaFile{
		{ID: "m1", FilePath: "a.png", FileSize: 3 * 1000 * 1000, CreatedAt: time.Now().Add(-time.Hour)},
	}, nil)
	h := &handlers.Handlers{MediaService: media, Log: zerolog.Nop()}

	rr := httptest.NewRecorder()
	h.ListMedia(rr, httptest.NewRequest(http.MethodGet, "/api/admin/media", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var response []handlers.MediaResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	require.Len(t, response, 1)
	assert.Equal(t, "3.0 MB", response[0].Size)
	assert.Contains(t, response[0].Uploaded, "назад")
	media.AssertExpectations(t)
}
