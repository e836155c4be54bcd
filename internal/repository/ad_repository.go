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

const adColumns = `id, name, code, position, is_active, created_at, updated_at`

type adRepository struct {
	db *sqlx.DB
}

func NewAdRepository(db *sqlx.DB) AdRepository {
	return &adRepository{db: db}
}

func (r *adRepository) Create(ctx context.Context, ad *models.Ad) error {
	query := `
		INSERT INTO ads (id, name, code, position, is_active, created_at, updated_at)
		VALUES (:id, :name, :code, :position, :is_active, :created_at, :updated_at)
	`

	if ad.ID == "" {
		ad.ID = uuid.New().String()
	}

	now := time.Now()
	ad.CreatedAt = now
	ad.UpdatedAt = now

	if _, err := r.db.NamedExecContext(ctx, query, ad); err != nil {
		return fmt.Errorf("ошибка при создании рекламного блока: %w", err)
	}

	return nil
}

func (r *adRepository) Update(ctx context.Context, ad *models.Ad) error {
	query := `
		UPDATE ads SET name = :name, code = :code, position = :position,
			is_active = :is_active, updated_at = :updated_at
		WHERE id = :id
	`

	ad.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, ad)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении рекламного блока: %w", err)
	}

	return checkAffected(result, "рекламный блок "+ad.ID)
}

func (r *adRepository) Delete(ctx context.Context, adID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM ads WHERE id = $1`, adID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении рекламного блока: %w", err)
	}

	return checkAffected(result, "рекламный блок "+adID)
}

func (r *adRepository) List(ctx context.Context) ([]models.Ad, error) {
	ads := []models.Ad{}

	err := r.db.SelectContext(ctx, &ads, `SELECT `+adColumns+` FROM ads ORDER BY position, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении рекламных блоков: %w", err)
	}

	return ads, nil
}

// GetActiveByPosition returns the global ad for a slot. Several active ads in one
// slot resolve to the most recently created one, ties broken by the greater id.
func (r *adRepository) GetActiveByPosition(ctx context.Context, position models.AdPosition) (*models.Ad, error) {
	query := `SELECT ` + adColumns + ` FROM ads
		WHERE position = $1 AND is_active
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	var ad models.Ad
	err := r.db.GetContext(ctx, &ad, query, position)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("реклама для позиции %s: %w", position, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении рекламы: %w", err)
	}

	return &ad, nil
}

// GetPlacementAd returns the ad pinned to a post slot; both the placement and the ad must be active.
func (r *adRepository) GetPlacementAd(ctx context.Context, postID string, position models.AdPosition) (*models.Ad, error) {
	query := `SELECT a.id, a.name, a.code, a.position, a.is_active, a.created_at, a.updated_at
		FROM ad_placements p
		JOIN ads a ON a.id = p.ad_id
		WHERE p.post_id = $1 AND p.position = $2 AND p.is_active AND a.is_active
		LIMIT 1`

	var ad models.Ad
	err := r.db.GetContext(ctx, &ad, query, postID, position)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("размещение %s/%s: %w", postID, position, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении размещения: %w", err)
	}

	return &ad, nil
}

func (r *adRepository) UpsertPlacement(ctx context.Context, placement *models.AdPlacement) error {
	query := `
		INSERT INTO ad_placements (id, ad_id, post_id, position, is_active, created_at, updated_at)
		VALUES (:id, :ad_id, :post_id, :position, :is_active, :created_at, :updated_at)
		ON CONFLICT (post_id, position) DO UPDATE SET
			ad_id = EXCLUDED.ad_id,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`

	if placement.ID == "" {
		placement.ID = uuid.New().String()
	}

	now := time.Now()
	placement.CreatedAt = now
	placement.UpdatedAt = now

	if _, err := r.db.NamedExecContext(ctx, query, placement); err != nil {
		return fmt.Errorf("ошибка при сохранении размещения: %w", err)
	}

	return nil
}

func (r *adRepository) DeletePlacement(ctx context.Context, placementID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM ad_placements WHERE id = $1`, placementID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении размещения: %w", err)
	}

	return checkAffected(result, "размещение "+placementID)
}

func (r *adRepository) ListPlacements(ctx context.Context, postID string) ([]models.AdPlacement, error) {
	placements := []models.AdPlacement{}

	query := `SELECT id, ad_id, post_id, position, is_active, created_at, updated_at
		FROM ad_placements WHERE post_id = $1 ORDER BY position`

	if err := r.db.SelectContext(ctx, &placements, query, postID); err != nil {
		return nil, fmt.Errorf("ошибка при получении размещений: %w", err)
	}

	return placements, nil
}
