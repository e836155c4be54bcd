package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"contentHub/internal/models"
)

const mediaColumns = `id, filename, original_filename, file_path, file_size, mime_type, uploaded_by, created_at`

type mediaRepository struct {
	db *sqlx.DB
}

func NewMediaRepository(db *sqlx.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, file *models.MediaFile) error {
	query := `
		INSERT INTO media_files (id, filename, original_filename, file_path, file_size, mime_type, uploaded_by, created_at)
		VALUES (:id, :filename, :original_filename, :file_path, :file_size, :mime_type, :uploaded_by, :created_at)
	`

	if file.ID == "" {
		file.ID = uuid.New().String()
	}
	file.CreatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, file); err != nil {
		return fmt.Errorf("ошибка при сохранении файла: %w", err)
	}

	return nil
}

func (r *mediaRepository) GetByID(ctx context.Context, mediaID string) (*models.MediaFile, error) {
	var file models.MediaFile

	err := r.db.GetContext(ctx, &file, `SELECT `+mediaColumns+` FROM media_files WHERE id = $1`, mediaID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("файл %s: %w", mediaID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении файла: %w", err)
	}

	return &file, nil
}

func (r *mediaRepository) List(ctx context.Context, limit, offset int) ([]models.MediaFile, error) {
	files := []models.MediaFile{}

	query := `SELECT ` + mediaColumns + ` FROM media_files ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	if err := r.db.SelectContext(ctx, &files, query, limit, offset); err != nil {
		return nil, fmt.Errorf("ошибка при получении файлов: %w", err)
	}

	return files, nil
}

func (r *mediaRepository) Delete(ctx context.Context, mediaID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM media_files WHERE id = $1`, mediaID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении файла: %w", err)
	}

	return checkAffected(result, "файл "+mediaID)
}
