package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"contentHub/internal/models"
	"contentHub/internal/session"
)

type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"fullName" validate:"max=100"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignUpResponse struct {
	User                 *models.User     `json:"user"`
	ConfirmationRequired bool             `json:"confirmationRequired"`
	Session              session.Snapshot `json:"session"`
}

type ElevationResponse struct {
	Profile *models.Profile `json:"profile"`
	Message string          `json:"message"`
}

const reauthMessage = "Права администратора выданы. Выйдите и войдите снова, чтобы они вступили в силу."

func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.entry(w, r)
	if !ok {
		return
	}

	var req SignUpRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные: email и пароль не короче 6 символов обязательны", http.StatusBadRequest)
		return
	}

	user, sess, err := entry.Manager.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			WriteError(w, models.ErrEmailTaken.Error(), http.StatusConflict)
			return
		}
		if user == nil {
			writeServiceError(w, h.Log, err, "Пользователь не найден")
			return
		}
		h.Log.Warn().Err(err).Str("email", req.Email).Msg("пользователь создан, но вход не выполнен")
	}

	if sess == nil && user != nil && user.ConfirmationToken != "" {
		// no mailer: the link goes to the log
		h.Log.Info().Str("email", user.Email).Str("confirm_url", "/api/auth/confirm?token="+user.ConfirmationToken).Msg("требуется подтверждение email")
	}

	snap := entry.Manager.Snapshot()
	if sess != nil {
		snap = h.settle(r.Context(), entry)
		session.RotateID(r.Context())
		session.SetRefreshCookie(w, entry.Client.RefreshToken(), h.Cfg.CookieSecure)
	}

	WriteSuccess(w, SignUpResponse{
		User:                 user,
		ConfirmationRequired: sess == nil,
		Session:              snap,
	}, http.StatusCreated)
}

func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.entry(w, r)
	if !ok {
		return
	}

	var req SignInRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверный формат email", http.StatusBadRequest)
		return
	}

	err := entry.Manager.SignIn(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrInvalidCredentials):
		WriteError(w, models.ErrInvalidCredentials.Error(), http.StatusUnauthorized)
		return
	case errors.Is(err, models.ErrEmailNotConfirmed):
		WriteError(w, "Подтвердите email перед входом", http.StatusForbidden)
		return
	default:
		h.Log.Error().Err(err).Msg("ошибка входа")
		WriteError(w, "Сервис авторизации недоступен", http.StatusBadGateway)
		return
	}

	snap := h.settle(r.Context(), entry)
	// a new id on every sign-in, so an id known before it is worthless
	session.RotateID(r.Context())
	session.SetRefreshCookie(w, entry.Client.RefreshToken(), h.Cfg.CookieSecure)

	WriteSuccess(w, snap, http.StatusOK)
}

// SignOut always answers 200: local state is cleared even if revocation failed.
func (h *Handlers) SignOut(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.entry(w, r)
	if !ok {
		return
	}

	if err := entry.Manager.SignOut(r.Context()); err != nil {
		h.Log.Warn().Err(err).Msg("сессия закрыта локально, отзыв на сервере не удался")
	}
	session.SetRefreshCookie(w, "", h.Cfg.CookieSecure)

	WriteSuccess(w, entry.Manager.Snapshot(), http.StatusOK)
}

func (h *Handlers) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.AuthService.ConfirmEmail(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		if errors.Is(err, models.ErrInvalidToken) {
			WriteError(w, "Ссылка подтверждения недействительна", http.StatusBadRequest)
			return
		}
		writeServiceError(w, h.Log, err, "Пользователь не найден")
		return
	}

	WriteSuccess(w, map[string]string{"email": user.Email, "status": "confirmed"}, http.StatusOK)
}

// Session reports the current state, waiting briefly for an in-flight resolution.
func (h *Handlers) Session(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.entry(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Second)
	defer cancel()
	snap, _ := entry.Manager.WaitReady(ctx)

	WriteSuccess(w, snap, http.StatusOK)
}

// MakeAdmin is the self-service elevation. The running session keeps its
// role until the user signs in again.
func (h *Handlers) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.entry(w, r)
	if !ok {
		return
	}

	snap := entry.Manager.Snapshot()
	if snap.User == nil {
		WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	profile, err := h.ProfileService.SelfElevate(r.Context(), *snap.User)
	if err != nil {
		if errors.Is(err, models.ErrForbidden) {
			WriteError(w, "Самостоятельное получение прав отключено: обратитесь к администратору", http.StatusForbidden)
			return
		}
		writeServiceError(w, h.Log, err, "Профиль не найден")
		return
	}

	h.Log.Info().Str("email", profile.Email).Msg("пользователь получил права администратора")
	WriteSuccess(w, ElevationResponse{Profile: profile, Message: reauthMessage}, http.StatusOK)
}

// settle waits for admin resolution so the response reflects the final role.
func (h *Handlers) settle(ctx context.Context, entry *session.Entry) session.Snapshot {
	ctx, cancel := context.WithTimeout(ctx, h.Cfg.Auth.AdminResolveTimeout+time.Second)
	defer cancel()

	snap, err := entry.Manager.WaitReady(ctx)
	if err != nil {
		h.Log.Warn().Err(err).Msg("состояние сессии не определилось вовремя")
	}
	return snap
}
