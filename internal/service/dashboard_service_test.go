package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"contentHub/internal/models"
)

func TestDashboardService_GetStats(t *testing.T) {
	ctx := context.Background()

	t.Run("Счетчики и популярные посты", func(t *testing.T) {
		repo := new(MockStatsRepository)
		repo.On("Dashboard", mock.Anything).Return(&models.DashboardStats{Posts: 8, VideoEvents: 40}, nil).Once()
		repo.On("TopPosts", mock.Anything, 5).Return([]models.TopPost{{ID: "p1", Slug: "hit", ViewCount: 120}}, nil).Once()

		stats, err := NewDashboardService(repo).GetStats(ctx)

		require.NoError(t, err)
		assert.Equal(t, 8, stats.Posts)
		assert.Equal(t, 40, stats.VideoEvents)
		require.Len(t, stats.TopPosts, 1)
		assert.Equal(t, "hit", stats.TopPosts[0].Slug)
		repo.AssertExpectations(t)
	})

	t.Run("Ошибка популярных постов", func(t *testing.T) {
		repo := new(MockStatsRepository)
		repo.On("Dashboard", mock.Anything).Return(&models.DashboardStats{}, nil).Once()
		repo.On("TopPosts", mock.Anything, 5).Return(nil, errors.New("db down")).Once()

		stats, err := NewDashboardService(repo).GetStats(ctx)

		assert.Error(t, err)
		assert.Nil(t, stats)
	})

	t.Run("Ошибка счетчиков", func(t *testing.T) {
		repo := new(MockStatsRepository)
		repo.On("Dashboard", mock.Anything).Return(nil, errors.New("db down")).Once()

		_, err := NewDashboardService(repo).GetStats(ctx)

		assert.Error(t, err)
		repo.AssertNotCalled(t, "TopPosts", mock.Anything, mock.Anything)
	})
}
