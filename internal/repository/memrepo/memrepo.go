// Package memrepo holds in-memory implementations of the identity
// repositories with the same uniqueness and not-found semantics as the
// PostgreSQL ones. It backs tests and local runs without a database.
package memrepo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"contentHub/internal/models"
	"contentHub/internal/repository"
)

type Users struct {
	mu    sync.RWMutex
	users map[string]models.User
}

var _ repository.UserRepository = (*Users)(nil)

func NewUsers() *Users {
	return &Users{users: make(map[string]models.User)}
}

func (r *Users) CreateUser(_ context.Context, user *models.User, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("ошибка при хешировании пароля: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return fmt.Errorf("%s: %w", user.Email, models.ErrEmailTaken)
		}
	}

	user.UserID = uuid.New().String()
	user.PasswordHash = string(hashed)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.users[user.UserID] = *user

	return nil
}

func (r *Users) GetUserByID(_ context.Context, userID string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, fmt.Errorf("пользователь с ID %s: %w", userID, models.ErrNotFound)
	}
	return &user, nil
}

func (r *Users) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, fmt.Errorf("пользователь с email %s: %w", email, models.ErrNotFound)
}

func (r *Users) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	user, err := r.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, models.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, models.ErrInvalidCredentials
	}

	return user, nil
}

func (r *Users) UpdateRefreshToken(_ context.Context, userID, refreshToken string, expiryTime time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("пользователь с ID %s: %w", userID, models.ErrNotFound)
	}

	user.RefreshToken = refreshToken
	user.RefreshTokenExpiryTime = expiryTime
	r.users[userID] = user

	return nil
}

func (r *Users) GetUserByRefreshToken(_ context.Context, refreshToken string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now()
	for _, user := range r.users {
		if refreshToken != "" && user.RefreshToken == refreshToken && user.RefreshTokenExpiryTime.After(now) {
			return &user, nil
		}
	}
	return nil, fmt.Errorf("refresh token просрочен: %w", models.ErrInvalidToken)
}

func (r *Users) ConfirmEmail(_ context.Context, token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, user := range r.users {
		if token != "" && user.ConfirmationToken == token {
			now := time.Now()
			user.EmailConfirmedAt = &now
			user.ConfirmationToken = ""
			r.users[id] = user
			return &user, nil
		}
	}
	return nil, fmt.Errorf("токен подтверждения: %w", models.ErrInvalidToken)
}

// Profiles enforces one profile per user id, like the unique constraint on profiles.user_id.
type Profiles struct {
	mu       sync.RWMutex
	profiles map[string]models.Profile
	creates  int

	// BeforeGet, when set, runs before every lookup; returning an error fails the lookup.
	BeforeGet func(ctx context.Context) error
}

var _ repository.ProfileRepository = (*Profiles)(nil)

func NewProfiles() *Profiles {
	return &Profiles{profiles: make(map[string]models.Profile)}
}

func (r *Profiles) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	if r.BeforeGet != nil {
		if err := r.BeforeGet(ctx); err != nil {
			return nil, err
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("профиль пользователя %s: %w", userID, models.ErrNotFound)
	}
	return &profile, nil
}

func (r *Profiles) Create(_ context.Context, profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[profile.UserID]; ok {
		return fmt.Errorf("профиль пользователя %s: %w", profile.UserID, models.ErrAlreadyExists)
	}

	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	r.profiles[profile.UserID] = *profile
	r.creates++

	return nil
}

func (r *Profiles) SetAdmin(_ context.Context, userID string, isAdmin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, ok := r.profiles[userID]
	if !ok {
		return fmt.Errorf("профиль пользователя %s: %w", userID, models.ErrNotFound)
	}

	profile.IsAdmin = isAdmin
	profile.UpdatedAt = time.Now()
	r.profiles[userID] = profile

	return nil
}

func (r *Profiles) CountAdmins(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, profile := range r.profiles {
		if profile.IsAdmin {
			count++
		}
	}
	return count, nil
}

// Creates reports how many profiles were inserted.
func (r *Profiles) Creates() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.creates
}

func (r *Profiles) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}
