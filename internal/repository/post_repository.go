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

const postColumns = `id, author_id, category_id, title, slug, content, excerpt, post_type, status,
		thumbnail_url, video_url, video_type, video_duration, requires_consent, consent_text,
		seo_title, seo_description, seo_keywords, view_count, published_at, created_at, updated_at`

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, author_id, category_id, title, slug, content, excerpt, post_type, status,
			thumbnail_url, video_url, video_type, video_duration, requires_consent, consent_text,
			seo_title, seo_description, seo_keywords, view_count, published_at, created_at, updated_at)
		VALUES (:id, :author_id, :category_id, :title, :slug, :content, :excerpt, :post_type, :status,
			:thumbnail_url, :video_url, :video_type, :video_duration, :requires_consent, :consent_text,
			:seo_title, :seo_description, :seo_keywords, :view_count, :published_at, :created_at, :updated_at)
	`

	if post.ID == "" {
		post.ID = uuid.New().String()
	}

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("slug %s: %w", post.Slug, models.ErrAlreadyExists)
		}
		return fmt.Errorf("ошибка при создании поста: %w", err)
	}

	return nil
}

func (r *postRepository) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	var post models.Post
	err := r.db.GetContext(ctx, &post, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пост с ID %s: %w", postID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении поста: %w", err)
	}

	return &post, nil
}

func (r *postRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE slug = $1 AND status = 'published'`

	var post models.Post
	err := r.db.GetContext(ctx, &post, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пост %s: %w", slug, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении поста: %w", err)
	}

	return &post, nil
}

// ListPublished returns published posts, newest first; an empty postType means all types.
func (r *postRepository) ListPublished(ctx context.Context, postType models.PostType, limit, offset int) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts
		WHERE status = 'published' AND ($1 = '' OR post_type = $1)
		ORDER BY published_at DESC NULLS LAST, created_at DESC
		LIMIT $2 OFFSET $3`

	posts := []models.Post{}
	err := r.db.SelectContext(ctx, &posts, query, string(postType), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении постов: %w", err)
	}

	return posts, nil
}

func (r *postRepository) ListAll(ctx context.Context, limit, offset int) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	posts := []models.Post{}
	err := r.db.SelectContext(ctx, &posts, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении постов: %w", err)
	}

	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts SET
			category_id = :category_id,
			title = :title,
			slug = :slug,
			content = :content,
			excerpt = :excerpt,
			post_type = :post_type,
			thumbnail_url = :thumbnail_url,
			video_url = :video_url,
			video_type = :video_type,
			video_duration = :video_duration,
			requires_consent = :requires_consent,
			consent_text = :consent_text,
			seo_title = :seo_title,
			seo_description = :seo_description,
			seo_keywords = :seo_keywords,
			updated_at = :updated_at
		WHERE id = :id
	`

	post.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("slug %s: %w", post.Slug, models.ErrAlreadyExists)
		}
		return fmt.Errorf("ошибка при обновлении поста: %w", err)
	}

	return checkAffected(result, "пост "+post.ID)
}

func (r *postRepository) Delete(ctx context.Context, postID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении поста: %w", err)
	}

	return checkAffected(result, "пост "+postID)
}

func (r *postRepository) Publish(ctx context.Context, postID string) error {
	query := `
		UPDATE posts SET
			status = 'published',
			published_at = COALESCE(published_at, CURRENT_TIMESTAMP),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND status <> 'published'
	`

	result, err := r.db.ExecContext(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("ошибка при публикации поста: %w", err)
	}

	return checkAffected(result, "неопубликованный пост "+postID)
}

func (r *postRepository) IncrementViewCount(ctx context.Context, slug string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE posts SET view_count = view_count + 1 WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("ошибка при увеличении счетчика просмотров: %w", err)
	}

	return nil
}

func (r *postRepository) ListSitemapRefs(ctx context.Context) ([]models.PostRef, error) {
	refs := []models.PostRef{}

	query := `SELECT slug, post_type, updated_at FROM posts WHERE status = 'published' ORDER BY published_at DESC NULLS LAST`

	if err := r.db.SelectContext(ctx, &refs, query); err != nil {
		return nil, fmt.Errorf("ошибка при получении постов для карты сайта: %w", err)
	}

	return refs, nil
}

type CreatePostRequest struct {
	AuthorID        string
	CategoryID      *string
	Title           string
	Slug            string
	Content         string
	Excerpt         string
	PostType        models.PostType
	ThumbnailURL    string
	VideoURL        string
	VideoType       string
	VideoDuration   *int
	RequiresConsent bool
	ConsentText     string
	SEOTitle        string
	SEODescription  string
	SEOKeywords     string
}

type UpdatePostRequest struct {
	PostID string
	CreatePostRequest
}
