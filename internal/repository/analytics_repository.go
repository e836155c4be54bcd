package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"contentHub/internal/models"
)

type analyticsRepository struct {
	db *sqlx.DB
}

func NewAnalyticsRepository(db *sqlx.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) InsertVideoEvent(ctx context.Context, event *models.VideoEvent) error {
	query := `
		INSERT INTO video_analytics (id, post_id, user_session, event_type, event_data, timestamp_seconds, created_at)
		VALUES (:id, :post_id, :user_session, :event_type, :event_data, :timestamp_seconds, :created_at)
	`

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if len(event.EventData) == 0 {
		event.EventData = types.JSONText(`{}`)
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("ошибка при записи события видео: %w", err)
	}

	return nil
}

func (r *analyticsRepository) InsertConsentLog(ctx context.Context, entry *models.ConsentLog) error {
	query := `
		INSERT INTO video_consent_logs (id, post_id, user_session, consent_given, consent_type, user_agent, ip_address, created_at)
		VALUES (:id, :post_id, :user_session, :consent_given, :consent_type, :user_agent, :ip_address, :created_at)
	`

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("ошибка при записи согласия: %w", err)
	}

	return nil
}
