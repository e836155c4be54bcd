package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"contentHub/internal/models"
)

var userRowColumns = []string{
	"user_id", "email", "password_hash", "full_name", "refresh_token",
	"refresh_token_expiry_time", "email_confirmed_at", "confirmation_token", "created_at",
}

func TestUserRepository_CreateUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("Успешное создание пользователя", func(t *testing.T) {
		user := &models.User{Email: "test@example.com", FullName: "Test"}

		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
			WithArgs(
				sqlmock.AnyArg(), // user_id генерируется в репозитории
				"test@example.com",
				sqlmock.AnyArg(), // password_hash
				"Test",
				"",
				time.Time{},
				nil,
				"",
				sqlmock.AnyArg(),
			).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.CreateUser(ctx, user, "password123")

		require.NoError(t, err)
		assert.NotEmpty(t, user.UserID)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Email уже занят", func(t *testing.T) {
		user := &models.User{Email: "test@example.com"}

		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.CreateUser(ctx, user, "password123")

		assert.ErrorIs(t, err, models.ErrEmailTaken)
	})

	t.Run("Ошибка базы данных", func(t *testing.T) {
		user := &models.User{Email: "other@example.com"}

		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
			WillReturnError(errors.New("connection failed"))

		err := repo.CreateUser(ctx, user, "password123")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ошибка при создании пользователя")
	})
}

func TestUserRepository_VerifyPassword(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	email := "test@example.com"
	hashed, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	require.NoError(t, err)

	row := func() *sqlmock.Rows {
		return sqlmock.NewRows(userRowColumns).
			AddRow(uuid.New().String(), email, string(hashed), "", "", time.Time{}, nil, "", time.Now())
	}

	t.Run("Успешная проверка пароля", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
			WithArgs(email).
			WillReturnRows(row())

		user, err := repo.VerifyPassword(ctx, email, "correct")

		require.NoError(t, err)
		assert.Equal(t, email, user.Email)
	})

	t.Run("Неверный пароль", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
			WithArgs(email).
			WillReturnRows(row())

		user, err := repo.VerifyPassword(ctx, email, "wrong")

		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
		assert.Nil(t, user)
	})

	t.Run("Пользователь не найден", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
			WithArgs(email).
			WillReturnError(sql.ErrNoRows)

		user, err := repo.VerifyPassword(ctx, email, "correct")

		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
		assert.Nil(t, user)
	})
}

func TestUserRepository_UpdateRefreshToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	userID := uuid.New().String()
	expiry := time.Now().Add(168 * time.Hour)

	mock.ExpectExec(regexp.QuoteMeta(`SET refresh_token = $1, refresh_token_expiry_time = $2`)).
		WithArgs("new_refresh_token", expiry, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateRefreshToken(ctx, userID, "new_refresh_token", expiry)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetUserByRefreshToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("Валидный refresh token", func(t *testing.T) {
		rows := sqlmock.NewRows(userRowColumns).
			AddRow(uuid.New().String(), "a@example.com", "hash", "", "valid", time.Now().Add(time.Hour), nil, "", time.Now())

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE refresh_token = $1`)).
			WithArgs("valid").
			WillReturnRows(rows)

		user, err := repo.GetUserByRefreshToken(ctx, "valid")

		require.NoError(t, err)
		assert.Equal(t, "valid", user.RefreshToken)
	})

	t.Run("Просроченный refresh token", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE refresh_token = $1`)).
			WithArgs("expired").
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetUserByRefreshToken(ctx, "expired")

		assert.ErrorIs(t, err, models.ErrInvalidToken)
		assert.Nil(t, user)
	})
}

func TestUserRepository_ConfirmEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("Успешное подтверждение", func(t *testing.T) {
		confirmed := time.Now()
		rows := sqlmock.NewRows(userRowColumns).
			AddRow(uuid.New().String(), "a@example.com", "hash", "", "", time.Time{}, confirmed, "", time.Now())

		mock.ExpectQuery(regexp.QuoteMeta(`SET email_confirmed_at = CURRENT_TIMESTAMP`)).
			WithArgs("token").
			WillReturnRows(rows)

		user, err := repo.ConfirmEmail(ctx, "token")

		require.NoError(t, err)
		require.NotNil(t, user.EmailConfirmedAt)
	})

	t.Run("Неизвестный токен", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SET email_confirmed_at = CURRENT_TIMESTAMP`)).
			WithArgs("unknown").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.ConfirmEmail(ctx, "unknown")

		assert.ErrorIs(t, err, models.ErrInvalidToken)
	})
}
