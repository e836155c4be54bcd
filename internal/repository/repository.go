package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"contentHub/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error
	GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error)
	ConfirmEmail(ctx context.Context, token string) (*models.User, error)
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	SetAdmin(ctx context.Context, userID string, isAdmin bool) error
	CountAdmins(ctx context.Context) (int, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Post, error)
	ListPublished(ctx context.Context, postType models.PostType, limit, offset int) ([]models.Post, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, postID string) error
	Publish(ctx context.Context, postID string) error
	IncrementViewCount(ctx context.Context, slug string) error
	ListSitemapRefs(ctx context.Context) ([]models.PostRef, error)
}

type AdRepository interface {
	Create(ctx context.Context, ad *models.Ad) error
	Update(ctx context.Context, ad *models.Ad) error
	Delete(ctx context.Context, adID string) error
	List(ctx context.Context) ([]models.Ad, error)
	GetActiveByPosition(ctx context.Context, position models.AdPosition) (*models.Ad, error)
	GetPlacementAd(ctx context.Context, postID string, position models.AdPosition) (*models.Ad, error)
	UpsertPlacement(ctx context.Context, placement *models.AdPlacement) error
	DeletePlacement(ctx context.Context, placementID string) error
	ListPlacements(ctx context.Context, postID string) ([]models.AdPlacement, error)
}

type AnalyticsRepository interface {
	InsertVideoEvent(ctx context.Context, event *models.VideoEvent) error
	InsertConsentLog(ctx context.Context, entry *models.ConsentLog) error
}

type MediaRepository interface {
	Create(ctx context.Context, file *models.MediaFile) error
	GetByID(ctx context.Context, mediaID string) (*models.MediaFile, error)
	List(ctx context.Context, limit, offset int) ([]models.MediaFile, error)
	Delete(ctx context.Context, mediaID string) error
}

type SettingsRepository interface {
	List(ctx context.Context) ([]models.SiteSetting, error)
	Upsert(ctx context.Context, setting *models.SiteSetting) error
}

type ToolRepository interface {
	ListActive(ctx context.Context) ([]models.Tool, error)
	ListAll(ctx context.Context) ([]models.Tool, error)
	GetByID(ctx context.Context, toolID string) (*models.Tool, error)
	Create(ctx context.Context, tool *models.Tool) error
	Update(ctx context.Context, tool *models.Tool) error
	Delete(ctx context.Context, toolID string) error
}

type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
}

type StatsRepository interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
	TopPosts(ctx context.Context, limit int) ([]models.TopPost, error)
}

type Repository struct {
	User      UserRepository
	Profile   ProfileRepository
	Post      PostRepository
	Ad        AdRepository
	Analytics AnalyticsRepository
	Media     MediaRepository
	Settings  SettingsRepository
	Tool      ToolRepository
	Category  CategoryRepository
	Stats     StatsRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:      NewUserRepository(db),
		Profile:   NewProfileRepository(db),
		Post:      NewPostRepository(db),
		Ad:        NewAdRepository(db),
		Analytics: NewAnalyticsRepository(db),
		Media:     NewMediaRepository(db),
		Settings:  NewSettingsRepository(db),
		Tool:      NewToolRepository(db),
		Category:  NewCategoryRepository(db),
		Stats:     NewStatsRepository(db),
	}
}

// isUniqueViolation reports a PostgreSQL unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// checkAffected turns "zero rows touched" into models.ErrNotFound.
func checkAffected(result sql.Result, what string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке измененных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}

	return nil
}
