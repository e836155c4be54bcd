package service

import (
	"context"
	"fmt"
	"html/template"

	"github.com/rs/zerolog"

	"contentHub/internal/content"
	"contentHub/internal/models"
	"contentHub/internal/repository"
)

// PostView is a published post ready for display.
type PostView struct {
	models.Post
	HTML        template.HTML `json:"html"`
	ConsentText string        `json:"consentText"`
}

type PostService interface {
	CreatePost(ctx context.Context, req repository.CreatePostRequest) (*models.Post, error)
	UpdatePost(ctx context.Context, req repository.UpdatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, postID string) error
	PublishPost(ctx context.Context, postID string) error
	GetPublished(ctx context.Context, slug string) (*PostView, error)
	GetPublishedByID(ctx context.Context, postID string) (*models.Post, error)
	ListPublished(ctx context.Context, postType models.PostType, page, limit int) ([]models.Post, error)
	ListAll(ctx context.Context, page, limit int) ([]models.Post, error)
}

type postService struct {
	postRepo repository.PostRepository
	renderer *content.Renderer
	log      zerolog.Logger
}

func NewPostService(postRepo repository.PostRepository, renderer *content.Renderer, log zerolog.Logger) PostService {
	return &postService{
		postRepo: postRepo,
		renderer: renderer,
		log:      log.With().Str("component", "posts").Logger(),
	}
}

func (p *postService) CreatePost(ctx context.Context, req repository.CreatePostRequest) (*models.Post, error) {
	post := &models.Post{AuthorID: req.AuthorID, Status: models.StatusDraft}
	applyPostFields(post, req)

	if err := p.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

func (p *postService) UpdatePost(ctx context.Context, req repository.UpdatePostRequest) (*models.Post, error) {
	post, err := p.postRepo.GetByID(ctx, req.PostID)
	if err != nil {
		return nil, err
	}

	applyPostFields(post, req.CreatePostRequest)

	if err := p.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

func (p *postService) DeletePost(ctx context.Context, postID string) error {
	return p.postRepo.Delete(ctx, postID)
}

func (p *postService) PublishPost(ctx context.Context, postID string) error {
	return p.postRepo.Publish(ctx, postID)
}

// GetPublished renders the body and counts the view. A failed counter
// update is logged and does not fail the read.
func (p *postService) GetPublished(ctx context.Context, slug string) (*PostView, error) {
	post, err := p.postRepo.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	html, err := p.renderer.Markdown(post.Content)
	if err != nil {
		return nil, err
	}

	view := &PostView{
		Post:        *post,
		HTML:        html,
		ConsentText: p.renderer.PlainText(post.ConsentText),
	}

	// the repository's post stays untouched; only the view counts this read
	if err := p.postRepo.IncrementViewCount(ctx, slug); err != nil {
		p.log.Warn().Err(err).Str("slug", slug).Msg("не удалось увеличить счетчик просмотров")
	} else {
		view.ViewCount++
	}

	return view, nil
}

// GetPublishedByID hides drafts behind models.ErrNotFound.
func (p *postService) GetPublishedByID(ctx context.Context, postID string) (*models.Post, error) {
	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.Status != models.StatusPublished {
		return nil, fmt.Errorf("пост %s: %w", postID, models.ErrNotFound)
	}

	return post, nil
}

func (p *postService) ListPublished(ctx context.Context, postType models.PostType, page, limit int) ([]models.Post, error) {
	return p.postRepo.ListPublished(ctx, postType, limit, (page-1)*limit)
}

func (p *postService) ListAll(ctx context.Context, page, limit int) ([]models.Post, error) {
	return p.postRepo.ListAll(ctx, limit, (page-1)*limit)
}

func applyPostFields(post *models.Post, req repository.CreatePostRequest) {
	post.CategoryID = req.CategoryID
	post.Title = req.Title
	post.Slug = req.Slug
	post.Content = req.Content
	post.Excerpt = req.Excerpt
	post.PostType = req.PostType
	if post.PostType == "" {
		post.PostType = models.PostArticle
	}
	post.ThumbnailURL = req.ThumbnailURL
	post.VideoURL = req.VideoURL
	post.VideoType = req.VideoType
	post.VideoDuration = req.VideoDuration
	post.RequiresConsent = req.RequiresConsent
	post.ConsentText = req.ConsentText
	post.SEOTitle = req.SEOTitle
	post.SEODescription = req.SEODescription
	post.SEOKeywords = req.SEOKeywords
}
