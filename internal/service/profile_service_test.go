package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentHub/internal/models"
	"contentHub/internal/repository"
	"contentHub/internal/repository/memrepo"
)

func TestProfileService_GetOrCreateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Первая проверка создает профиль без прав", func(t *testing.T) {
		profiles := memrepo.NewProfiles()
		svc := NewProfileService(profiles, memrepo.NewUsers(), testConfig())

		first, err := svc.GetOrCreateProfile(ctx, "u1", "new@x.com", "")
		require.NoError(t, err)
		second, err := svc.GetOrCreateProfile(ctx, "u1", "new@x.com", "")
		require.NoError(t, err)

		assert.False(t, first.IsAdmin)
		assert.False(t, second.IsAdmin)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "new", first.FullName)
		assert.Equal(t, 1, profiles.Creates())
	})

	t.Run("Конкурентные проверки не создают дубликат", func(t *testing.T) {
		profiles := memrepo.NewProfiles()
		svc := NewProfileService(profiles, memrepo.NewUsers(), testConfig())

		const workers = 32
		results := make([]*models.Profile, workers)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				profile, err := svc.GetOrCreateProfile(ctx, "u2", "race@x.com", "Race")
				assert.NoError(t, err)
				results[i] = profile
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, profiles.Creates())
		for _, profile := range results {
			require.NotNil(t, profile)
			assert.Equal(t, results[0].ID, profile.ID)
			assert.False(t, profile.IsAdmin)
		}
	})

	t.Run("Ошибка чтения не превращается в создание", func(t *testing.T) {
		profiles := memrepo.NewProfiles()
		profiles.BeforeGet = func(context.Context) error { return errors.New("connection refused") }
		svc := NewProfileService(profiles, memrepo.NewUsers(), testConfig())

		_, err := svc.GetOrCreateProfile(ctx, "u3", "e@x.com", "")

		assert.Error(t, err)
		assert.Equal(t, 0, profiles.Creates())
	})
}

func TestProfileService_GrantAdminByEmail(t *testing.T) {
	ctx := context.Background()
	users := memrepo.NewUsers()
	profiles := memrepo.NewProfiles()
	svc := NewProfileService(profiles, users, testConfig())

	user := &models.User{Email: "boss@x.com", FullName: "Boss"}
	require.NoError(t, users.CreateUser(ctx, user, "pw123456"))

	profile, err := svc.GrantAdminByEmail(ctx, " boss@x.com ")
	require.NoError(t, err)
	assert.True(t, profile.IsAdmin)

	stored, err := profiles.GetByUserID(ctx, user.UserID)
	require.NoError(t, err)
	assert.True(t, stored.IsAdmin)
	assert.Equal(t, "Boss", stored.FullName)

	_, err = svc.GrantAdminByEmail(ctx, "ghost@x.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestProfileService_SelfElevate(t *testing.T) {
	ctx := context.Background()

	setup := func(allow bool) (ProfileService, *memrepo.Users) {
		cfg := testConfig()
		cfg.Auth.AllowSelfElevation = allow
		users := memrepo.NewUsers()
		return NewProfileService(memrepo.NewProfiles(), users, cfg), users
	}

	register := func(t *testing.T, users *memrepo.Users, email string) models.AuthUser {
		user := &models.User{Email: email}
		require.NoError(t, users.CreateUser(ctx, user, "pw123456"))
		return models.AuthUser{ID: user.UserID, Email: email}
	}

	t.Run("Первый администратор", func(t *testing.T) {
		svc, users := setup(false)
		first := register(t, users, "first@x.com")
		second := register(t, users, "second@x.com")

		profile, err := svc.SelfElevate(ctx, first)
		require.NoError(t, err)
		assert.True(t, profile.IsAdmin)

		_, err = svc.SelfElevate(ctx, second)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("Самоназначение разрешено конфигурацией", func(t *testing.T) {
		svc, users := setup(true)
		a := register(t, users, "a@x.com")
		b := register(t, users, "b@x.com")

		_, err := svc.SelfElevate(ctx, a)
		require.NoError(t, err)
		profile, err := svc.SelfElevate(ctx, b)
		require.NoError(t, err)
		assert.True(t, profile.IsAdmin)
	})
}

func TestSignUpThenAdminCheck(t *testing.T) {
	ctx := context.Background()
	users := memrepo.NewUsers()
	profiles := memrepo.NewProfiles()
	auth := NewAuthService(users, testConfig())
	svc := NewProfileService(profiles, users, testConfig())

	user, err := auth.Register(ctx, repository.CreateUserRequest{Email: "new@x.com", Password: "pw123456", FullName: "New User"})
	require.NoError(t, err)

	profile, err := svc.GetOrCreateProfile(ctx, user.UserID, user.Email, user.FullName)
	require.NoError(t, err)

	assert.False(t, profile.IsAdmin)
	assert.Equal(t, "new@x.com", profile.Email)
	assert.Equal(t, "New User", profile.FullName)
	assert.Equal(t, 1, profiles.Len())
}
