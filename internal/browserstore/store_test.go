package browserstore

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentHub/internal/models"
)

type record struct {
	Accepted bool     `json:"accepted"`
	Types    []string `json:"types"`
}

func TestCookieStore_RoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	store := NewDurable(rec, req, true)

	require.NoError(t, store.Set("video_consent_1", record{Accepted: true, Types: []string{"functional"}}))

	t.Run("Чтение в том же запросе", func(t *testing.T) {
		var got record
		require.NoError(t, store.Get("video_consent_1", &got))
		assert.True(t, got.Accepted)
		assert.Equal(t, []string{"functional"}, got.Types)
	})

	t.Run("Cookie переживает следующий запрос", func(t *testing.T) {
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "video_consent_1", cookies[0].Name)
		assert.True(t, cookies[0].Secure)
		assert.True(t, cookies[0].HttpOnly)
		assert.Greater(t, cookies[0].MaxAge, 0)

		next := httptest.NewRequest(http.MethodGet, "/", nil)
		next.AddCookie(cookies[0])

		var got record
		require.NoError(t, NewDurable(httptest.NewRecorder(), next, true).Get("video_consent_1", &got))
		assert.Equal(t, []string{"functional"}, got.Types)
	})
}

func TestCookieStore_TransientHasNoMaxAge(t *testing.T) {
	rec := httptest.NewRecorder()
	store := NewTransient(rec, httptest.NewRequest(http.MethodGet, "/", nil), false)

	require.NoError(t, store.Set("k", "v"))

	header := rec.Header().Get("Set-Cookie")
	assert.NotContains(t, header, "Max-Age")
	assert.NotContains(t, header, "Expires")
}

func TestCookieStore_MissingAndDeleted(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "broken", Value: "%%%"})
	store := NewDurable(httptest.NewRecorder(), req, false)

	var got record
	assert.ErrorIs(t, store.Get("absent", &got), models.ErrNotFound)
	assert.ErrorIs(t, store.Get("broken", &got), models.ErrNotFound)

	require.NoError(t, store.Set("k", record{Accepted: true}))
	require.NoError(t, store.Delete("k"))
	assert.ErrorIs(t, store.Get("k", &got), models.ErrNotFound)
}

func TestSessionID(t *testing.T) {
	t.Run("Создается один раз", func(t *testing.T) {
		store := NewMemory()

		first, err := SessionID(store)
		require.NoError(t, err)
		second, err := SessionID(store)
		require.NoError(t, err)

		_, err = uuid.Parse(first)
		assert.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Разные браузеры получают разные id", func(t *testing.T) {
		a, _ := SessionID(NewMemory())
		b, _ := SessionID(NewMemory())
		assert.NotEqual(t, a, b)
	})
}
