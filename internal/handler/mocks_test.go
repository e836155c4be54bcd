package handlers_test

import (
	"context"
	"io"
	"sync"

	"github.com/stretchr/testify/mock"

	"contentHub/internal/ads"
	"contentHub/internal/models"
	"contentHub/internal/repository"
	"contentHub/internal/service"
)

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) CreatePost(ctx context.Context, req repository.CreatePostRequest) (*models.Post, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) UpdatePost(ctx context.Context, req repository.UpdatePostRequest) (*models.Post, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) DeletePost(ctx context.Context, postID string) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

func (m *MockPostService) PublishPost(ctx context.Context, postID string) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

func (m *MockPostService) GetPublished(ctx context.Context, slug string) (*service.PostView, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PostView), args.Error(1)
}

func (m *MockPostService) GetPublishedByID(ctx context.Context, postID string) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) ListPublished(ctx context.Context, postType models.PostType, page, limit int) ([]models.Post, error) {
	args := m.Called(ctx, postType, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostService) ListAll(ctx context.Context, page, limit int) ([]models.Post, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

type MockAdRepository struct {
	mock.Mock
}

func (m *MockAdRepository) Create(ctx context.Context, ad *models.Ad) error {
	args := m.Called(ctx, ad)
	return args.Error(0)
}

func (m *MockAdRepository) Update(ctx context.Context, ad *models.Ad) error {
	args := m.Called(ctx, ad)
	return args.Error(0)
}

func (m *MockAdRepository) Delete(ctx context.Context, adID string) error {
	args := m.Called(ctx, adID)
	return args.Error(0)
}

func (m *MockAdRepository) List(ctx context.Context) ([]models.Ad, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ad), args.Error(1)
}

func (m *MockAdRepository) GetActiveByPosition(ctx context.Context, position models.AdPosition) (*models.Ad, error) {
	args := m.Called(ctx, position)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ad), args.Error(1)
}

func (m *MockAdRepository) GetPlacementAd(ctx context.Context, postID string, position models.AdPosition) (*models.Ad, error) {
	args := m.Called(ctx, postID, position)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ad), args.Error(1)
}

func (m *MockAdRepository) UpsertPlacement(ctx context.Context, placement *models.AdPlacement) error {
	args := m.Called(ctx, placement)
	return args.Error(0)
}

func (m *MockAdRepository) DeletePlacement(ctx context.Context, placementID string) error {
	args := m.Called(ctx, placementID)
	return args.Error(0)
}

func (m *MockAdRepository) ListPlacements(ctx context.Context, postID string) ([]models.AdPlacement, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AdPlacement), args.Error(1)
}

type MockToolRepository struct {
	mock.Mock
}

func (m *MockToolRepository) ListActive(ctx context.Context) ([]models.Tool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tool), args.Error(1)
}

func (m *MockToolRepository) ListAll(ctx context.Context) ([]models.Tool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tool), args.Error(1)
}

func (m *MockToolRepository) GetByID(ctx context.Context, toolID string) (*models.Tool, error) {
	args := m.Called(ctx, toolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tool), args.Error(1)
}

func (m *MockToolRepository) Create(ctx context.Context, tool *models.Tool) error {
	args := m.Called(ctx, tool)
	return args.Error(0)
}

func (m *MockToolRepository) Update(ctx context.Context, tool *models.Tool) error {
	args := m.Called(ctx, tool)
	return args.Error(0)
}

func (m *MockToolRepository) Delete(ctx context.Context, toolID string) error {
	args := m.Called(ctx, toolID)
	return args.Error(0)
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []models.VideoEvent
}

func (e *recordingEmitter) Emit(event models.VideoEvent) {
	e.mu.Lock()
	e.events = append(e.events, event)
	e.mu.Unlock()
}

func (e *recordingEmitter) list() []models.VideoEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.VideoEvent(nil), e.events...)
}

type recordingSink struct {
	mu   sync.Mutex
	seen []string
}

func (s *recordingSink) RecordImpression(imp ads.Impression) {
	s.mu.Lock()
	s.seen = append(s.seen, imp.AdID+"/"+imp.Slot+"/"+imp.ContentID)
	s.mu.Unlock()
}

func (s *recordingSink) list() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.seen...)
}

type MockMediaService struct {
	mock.Mock
}

func (m *MockMediaService) Upload(ctx context.Context, uploadedBy, fileName string, file io.Reader, size int64) (*models.MediaFile, error) {
	args := m.Called(ctx, uploadedBy, fileName, file, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MediaFile), args.Error(1)
}

func (m *MockMediaService) List(ctx context.Context, page, limit int) ([]models.MediaFile, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MediaFile), args.Error(1)
}

func (m *MockMediaService) Delete(ctx context.Context, mediaID string) error {
	args := m.Called(ctx, mediaID)
	return args.Error(0)
}

func (m *MockMediaService) URL(file *models.MediaFile) string {
	return "http://localhost:9000/media/" + file.FilePath
}
