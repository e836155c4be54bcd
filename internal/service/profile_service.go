package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contentHub/internal/config"
	"contentHub/internal/models"
	"contentHub/internal/repository"
)

type ProfileService interface {
	GetOrCreateProfile(ctx context.Context, userID, email, fullName string) (*models.Profile, error)
	GrantAdminByEmail(ctx context.Context, email string) (*models.Profile, error)
	SelfElevate(ctx context.Context, user models.AuthUser) (*models.Profile, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
	cfg         *config.Config
}

func NewProfileService(profileRepo repository.ProfileRepository, userRepo repository.UserRepository, cfg *config.Config) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		cfg:         cfg,
	}
}

// GetOrCreateProfile is safe to call concurrently for the same user: the
// loser of an insert race re-reads the row the winner created.
func (s *profileService) GetOrCreateProfile(ctx context.Context, userID, email, fullName string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	if fullName == "" {
		fullName = emailLocalPart(email)
	}

	profile = &models.Profile{
		UserID:   userID,
		Email:    email,
		FullName: fullName,
		IsAdmin:  false,
	}

	err = s.profileRepo.Create(ctx, profile)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, models.ErrAlreadyExists) {
		return nil, err
	}

	return s.profileRepo.GetByUserID(ctx, userID)
}

func (s *profileService) GrantAdminByEmail(ctx context.Context, email string) (*models.Profile, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}

	profile, err := s.GetOrCreateProfile(ctx, user.UserID, user.Email, user.FullName)
	if err != nil {
		return nil, err
	}

	if profile.IsAdmin {
		return profile, nil
	}

	if err := s.profileRepo.SetAdmin(ctx, user.UserID, true); err != nil {
		return nil, fmt.Errorf("ошибка выдачи прав администратора: %w", err)
	}

	profile.IsAdmin = true
	return profile, nil
}

// SelfElevate lets a signed-in user become admin when self-elevation is
// enabled or when no admin exists yet.
func (s *profileService) SelfElevate(ctx context.Context, user models.AuthUser) (*models.Profile, error) {
	if !s.cfg.Auth.AllowSelfElevation {
		count, err := s.profileRepo.CountAdmins(ctx)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, fmt.Errorf("самоназначение администратора отключено: %w", models.ErrForbidden)
		}
	}

	return s.GrantAdminByEmail(ctx, user.Email)
}

func emailLocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
