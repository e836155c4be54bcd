package service

import (
	"github.com/rs/zerolog"

	"contentHub/internal/config"
	"contentHub/internal/content"
	"contentHub/internal/repository"
	"contentHub/internal/storage"
)

type Service struct {
	Auth      AuthService
	Profile   ProfileService
	Post      PostService
	Media     MediaService
	Dashboard DashboardService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage, renderer *content.Renderer, log zerolog.Logger) *Service {
	return &Service{
		Auth:      NewAuthService(rep.User, cfg),
		Profile:   NewProfileService(rep.Profile, rep.User, cfg),
		Post:      NewPostService(rep.Post, renderer, log),
		Media:     NewMediaService(rep.Media, storage, log),
		Dashboard: NewDashboardService(rep.Stats),
	}
}
