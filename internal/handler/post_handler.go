package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"contentHub/internal/models"
	"contentHub/internal/repository"
	"contentHub/internal/session"
)

type PaginationResponse struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type PostsGetResponse struct {
	Posts      []models.Post      `json:"posts"`
	Pagination PaginationResponse `json:"pagination"`
}

type PostRequest struct {
	CategoryID      *string `json:"categoryId"`
	Title           string  `json:"title" validate:"required,max=255"`
	Slug            string  `json:"slug" validate:"required,max=255"`
	Content         string  `json:"content"`
	Excerpt         string  `json:"excerpt"`
	PostType        string  `json:"postType" validate:"omitempty,oneof=article video tool"`
	ThumbnailURL    string  `json:"thumbnailUrl" validate:"omitempty,url"`
	VideoURL        string  `json:"videoUrl" validate:"omitempty,url"`
	VideoType       string  `json:"videoType"`
	VideoDuration   *int    `json:"videoDuration" validate:"omitempty,min=0"`
	RequiresConsent bool    `json:"requiresConsent"`
	ConsentText     string  `json:"consentText"`
	SEOTitle        string  `json:"seoTitle"`
	SEODescription  string  `json:"seoDescription"`
	SEOKeywords     string  `json:"seoKeywords"`
}

func (req PostRequest) toCreate(authorID string) repository.CreatePostRequest {
	return repository.CreatePostRequest{
		AuthorID:        authorID,
		CategoryID:      req.CategoryID,
		Title:           req.Title,
		Slug:            req.Slug,
		Content:         req.Content,
		Excerpt:         req.Excerpt,
		PostType:        models.PostType(req.PostType),
		ThumbnailURL:    req.ThumbnailURL,
		VideoURL:        req.VideoURL,
		VideoType:       req.VideoType,
		VideoDuration:   req.VideoDuration,
		RequiresConsent: req.RequiresConsent,
		ConsentText:     req.ConsentText,
		SEOTitle:        req.SEOTitle,
		SEODescription:  req.SEODescription,
		SEOKeywords:     req.SEOKeywords,
	}
}

// GetPosts lists published posts, optionally filtered by ?type=.
func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	var postType models.PostType
	if raw := r.URL.Query().Get("type"); raw != "" {
		parsed, err := models.ParsePostType(raw)
		if err != nil {
			WriteError(w, "Неизвестный тип поста", http.StatusBadRequest)
			return
		}
		postType = parsed
	}

	page, limit := pagination(r)

	posts, err := h.PostService.ListPublished(r.Context(), postType, page, limit)
	if err != nil {
		writeServiceError(w, h.Log, err, "Посты не найдены")
		return
	}

	WriteSuccess(w, PostsGetResponse{
		Posts:      posts,
		Pagination: PaginationResponse{Page: page, Limit: limit},
	}, http.StatusOK)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	view, err := h.PostService.GetPublished(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeServiceError(w, h.Log, err, "Пост не найден")
		return
	}

	WriteSuccess(w, view, http.StatusOK)
}

func (h *Handlers) AdminListPosts(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)

	posts, err := h.PostService.ListAll(r.Context(), page, limit)
	if err != nil {
		writeServiceError(w, h.Log, err, "Посты не найдены")
		return
	}

	WriteSuccess(w, PostsGetResponse{
		Posts:      posts,
		Pagination: PaginationResponse{Page: page, Limit: limit},
	}, http.StatusOK)
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные поста", http.StatusBadRequest)
		return
	}

	authorID := ""
	if snap, ok := session.SnapshotFrom(r.Context()); ok && snap.User != nil {
		authorID = snap.User.ID
	}

	post, err := h.PostService.CreatePost(r.Context(), req.toCreate(authorID))
	if err != nil {
		writeServiceError(w, h.Log, err, "Пост не найден")
		return
	}

	WriteSuccess(w, post, http.StatusCreated)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные поста", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.UpdatePost(r.Context(), repository.UpdatePostRequest{
		PostID:            mux.Vars(r)["id"],
		CreatePostRequest: req.toCreate(""),
	})
	if err != nil {
		writeServiceError(w, h.Log, err, "Пост не найден")
		return
	}

	WriteSuccess(w, post, http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.PostService.DeletePost(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, h.Log, err, "Пост не найден")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) PublishPost(w http.ResponseWriter, r *http.Request) {
	if err := h.PostService.PublishPost(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, h.Log, err, "Пост не найден или уже опубликован")
		return
	}

	WriteSuccess(w, map[string]string{"status": string(models.StatusPublished)}, http.StatusOK)
}
