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

const toolColumns = `id, name, description, url, embed_code, thumbnail_url, category,
		is_active, is_featured, homepage_position, created_at, updated_at`

type toolRepository struct {
	db *sqlx.DB
}

func NewToolRepository(db *sqlx.DB) ToolRepository {
	return &toolRepository{db: db}
}

// ListActive orders featured tools by their homepage position first.
func (r *toolRepository) ListActive(ctx context.Context) ([]models.Tool, error) {
	tools := []models.Tool{}

	query := `SELECT ` + toolColumns + ` FROM tools
		WHERE is_active
		ORDER BY is_featured DESC, homepage_position ASC NULLS LAST, name`

	if err := r.db.SelectContext(ctx, &tools, query); err != nil {
		return nil, fmt.Errorf("ошибка при получении инструментов: %w", err)
	}

	return tools, nil
}

func (r *toolRepository) ListAll(ctx context.Context) ([]models.Tool, error) {
	tools := []models.Tool{}

	if err := r.db.SelectContext(ctx, &tools, `SELECT `+toolColumns+` FROM tools ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("ошибка при получении инструментов: %w", err)
	}

	return tools, nil
}

func (r *toolRepository) GetByID(ctx context.Context, toolID string) (*models.Tool, error) {
	var tool models.Tool

	err := r.db.GetContext(ctx, &tool, `SELECT `+toolColumns+` FROM tools WHERE id = $1`, toolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("инструмент %s: %w", toolID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении инструмента: %w", err)
	}

	return &tool, nil
}

func (r *toolRepository) Create(ctx context.Context, tool *models.Tool) error {
	query := `
		INSERT INTO tools (id, name, description, url, embed_code, thumbnail_url, category,
			is_active, is_featured, homepage_position, created_at, updated_at)
		VALUES (:id, :name, :description, :url, :embed_code, :thumbnail_url, :category,
			:is_active, :is_featured, :homepage_position, :created_at, :updated_at)
	`

	if tool.ID == "" {
		tool.ID = uuid.New().String()
	}

	now := time.Now()
	tool.CreatedAt = now
	tool.UpdatedAt = now

	if _, err := r.db.NamedExecContext(ctx, query, tool); err != nil {
		return fmt.Errorf("ошибка при создании инструмента: %w", err)
	}

	return nil
}

func (r *toolRepository) Update(ctx context.Context, tool *models.Tool) error {
	query := `
		UPDATE tools SET name = :name, description = :description, url = :url,
			embed_code = :embed_code, thumbnail_url = :thumbnail_url, category = :category,
			is_active = :is_active, is_featured = :is_featured,
			homepage_position = :homepage_position, updated_at = :updated_at
		WHERE id = :id
	`

	tool.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, tool)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении инструмента: %w", err)
	}

	return checkAffected(result, "инструмент "+tool.ID)
}

func (r *toolRepository) Delete(ctx context.Context, toolID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tools WHERE id = $1`, toolID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении инструмента: %w", err)
	}

	return checkAffected(result, "инструмент "+toolID)
}
