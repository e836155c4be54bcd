package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"contentHub/internal/models"
)

type settingsRepository struct {
	db *sqlx.DB
}

func NewSettingsRepository(db *sqlx.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) List(ctx context.Context) ([]models.SiteSetting, error) {
	settings := []models.SiteSetting{}

	query := `SELECT id, key, value, type, category, description, updated_at
		FROM site_settings ORDER BY category, key`

	if err := r.db.SelectContext(ctx, &settings, query); err != nil {
		return nil, fmt.Errorf("ошибка при получении настроек: %w", err)
	}

	return settings, nil
}

// Upsert writes a setting by key; the id of an existing row is preserved.
func (r *settingsRepository) Upsert(ctx context.Context, setting *models.SiteSetting) error {
	query := `
		INSERT INTO site_settings (id, key, value, type, category, description, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			type = EXCLUDED.type,
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	if setting.ID == "" {
		setting.ID = uuid.New().String()
	}
	setting.UpdatedAt = time.Now()

	err := r.db.QueryRowxContext(ctx, query,
		setting.ID, setting.Key, setting.Value, setting.Type,
		setting.Category, setting.Description, setting.UpdatedAt,
	).Scan(&setting.ID)
	if err != nil {
		return fmt.Errorf("ошибка при сохранении настройки %s: %w", setting.Key, err)
	}

	return nil
}
