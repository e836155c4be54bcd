package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"contentHub/internal/models"
)

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats

	err := r.db.GetContext(ctx, &stats, `
			SELECT
				(SELECT COUNT(*) FROM posts) AS posts,
				(SELECT COUNT(*) FROM posts WHERE status = 'published') AS published,
				(SELECT COUNT(*) FROM tools) AS tools,
				(SELECT COUNT(*) FROM ads WHERE is_active) AS active_ads,
				(SELECT COUNT(*) FROM media_files) AS media_files,
				(SELECT COALESCE(SUM(view_count), 0) FROM posts) AS total_views,
				(SELECT COUNT(*) FROM video_analytics) AS video_events,
				(SELECT COUNT(*) FROM profiles WHERE is_admin) AS admins
		`)

	if err != nil {
		return nil, fmt.Errorf("ошибка при подсчёте статистики: %w", err)
	}

	return &stats, nil
}

// TopPosts returns the most viewed posts of any status.
func (r *statsRepository) TopPosts(ctx context.Context, limit int) ([]models.TopPost, error) {
	posts := []models.TopPost{}

	query := `SELECT id, title, slug, view_count FROM posts ORDER BY view_count DESC, created_at DESC LIMIT $1`

	if err := r.db.SelectContext(ctx, &posts, query, limit); err != nil {
		return nil, fmt.Errorf("ошибка при получении популярных постов: %w", err)
	}

	return posts, nil
}
