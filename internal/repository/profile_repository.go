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

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile

	query := `SELECT id, user_id, email, full_name, avatar_url, is_admin, created_at, updated_at
		FROM profiles WHERE user_id = $1`

	err := r.db.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("профиль пользователя %s: %w", userID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении профиля: %w", err)
	}

	return &profile, nil
}

// Create relies on the unique user_id constraint; a concurrent insert surfaces as models.ErrAlreadyExists.
func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, user_id, email, full_name, avatar_url, is_admin, created_at, updated_at)
		VALUES (:id, :user_id, :email, :full_name, :avatar_url, :is_admin, :created_at, :updated_at)
	`

	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}

	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("профиль пользователя %s: %w", profile.UserID, models.ErrAlreadyExists)
		}
		return fmt.Errorf("ошибка при создании профиля: %w", err)
	}

	return nil
}

func (r *profileRepository) SetAdmin(ctx context.Context, userID string, isAdmin bool) error {
	query := `UPDATE profiles SET is_admin = $1, updated_at = CURRENT_TIMESTAMP WHERE user_id = $2`

	result, err := r.db.ExecContext(ctx, query, isAdmin, userID)
	if err != nil {
		return fmt.Errorf("ошибка при изменении прав администратора: %w", err)
	}

	return checkAffected(result, "профиль пользователя "+userID)
}

func (r *profileRepository) CountAdmins(ctx context.Context) (int, error) {
	var count int

	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM profiles WHERE is_admin`)
	if err != nil {
		return 0, fmt.Errorf("ошибка при подсчете администраторов: %w", err)
	}

	return count, nil
}
