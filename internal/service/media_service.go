package service

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/rs/zerolog"

	"contentHub/internal/models"
	"contentHub/internal/repository"
	"contentHub/internal/storage"
)

const mediaFolder = "media"

type MediaService interface {
	Upload(ctx context.Context, uploadedBy, fileName string, file io.Reader, size int64) (*models.MediaFile, error)
	List(ctx context.Context, page, limit int) ([]models.MediaFile, error)
	Delete(ctx context.Context, mediaID string) error
	URL(file *models.MediaFile) string
}

type mediaService struct {
	mediaRepo repository.MediaRepository
	storage   storage.Storage
	log       zerolog.Logger
}

func NewMediaService(mediaRepo repository.MediaRepository, storage storage.Storage, log zerolog.Logger) MediaService {
	return &mediaService{
		mediaRepo: mediaRepo,
		storage:   storage,
		log:       log.With().Str("component", "media").Logger(),
	}
}

// Upload stores the object first; if the database row cannot be written the object is removed again.
func (m *mediaService) Upload(ctx context.Context, uploadedBy, fileName string, file io.Reader, size int64) (*models.MediaFile, error) {
	objectName, _, err := m.storage.UploadFile(ctx, mediaFolder, fileName, file, size)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки файла в хранилище: %w", err)
	}

	media := &models.MediaFile{
		Filename:         path.Base(objectName),
		OriginalFilename: fileName,
		FilePath:         objectName,
		FileSize:         size,
		MimeType:         storage.ContentType(fileName),
	}
	if uploadedBy != "" {
		media.UploadedBy = &uploadedBy
	}

	if err := m.mediaRepo.Create(ctx, media); err != nil {
		if delErr := m.storage.DeleteFile(ctx, objectName); delErr != nil {
			m.log.Warn().Err(delErr).Str("object", objectName).Msg("не удалось удалить файл после ошибки БД")
		}
		return nil, fmt.Errorf("ошибка сохранения файла в БД: %w", err)
	}

	return media, nil
}

func (m *mediaService) List(ctx context.Context, page, limit int) ([]models.MediaFile, error) {
	return m.mediaRepo.List(ctx, limit, (page-1)*limit)
}

// Delete removes the row even when the object is already gone from storage.
func (m *mediaService) Delete(ctx context.Context, mediaID string) error {
	media, err := m.mediaRepo.GetByID(ctx, mediaID)
	if err != nil {
		return err
	}

	if err := m.storage.DeleteFile(ctx, media.FilePath); err != nil {
		m.log.Warn().Err(err).Str("object", media.FilePath).Msg("не удалось удалить файл из хранилища")
	}

	if err := m.mediaRepo.Delete(ctx, mediaID); err != nil {
		return fmt.Errorf("ошибка удаления из БД: %w", err)
	}

	return nil
}

func (m *mediaService) URL(file *models.MediaFile) string {
	return m.storage.PublicURL(file.FilePath)
}
