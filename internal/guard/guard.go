// Package guard gates the admin area on the session manager's state.
package guard

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	handlers "contentHub/internal/handler"
	"contentHub/internal/session"
)

type Kind int

const (
	Wait Kind = iota
	Redirect
	Deny
	Allow
)

func (k Kind) String() string {
	switch k {
	case Wait:
		return "wait"
	case Redirect:
		return "redirect"
	case Deny:
		return "deny"
	case Allow:
		return "allow"
	default:
		return "unknown"
	}
}

type Decision struct {
	Kind  Kind
	Email string
}

// Decide never redirects while the state is still being resolved: a
// signed-in admin whose role check is in flight must not be bounced.
func Decide(snap session.Snapshot) Decision {
	if snap.Loading || snap.State == session.StateInitializing {
		return Decision{Kind: Wait}
	}

	switch snap.State {
	case session.StateAdmin:
		return Decision{Kind: Allow, Email: email(snap)}
	case session.StateAuthenticated:
		return Decision{Kind: Deny, Email: email(snap)}
	default:
		return Decision{Kind: Redirect}
	}
}

func email(snap session.Snapshot) string {
	if snap.User == nil {
		return ""
	}
	return snap.User.Email
}

const (
	SignInPath   = "/auth"
	ElevatePath  = "/api/profile/make-admin"
	waitMessage  = "Проверка учетных данных..."
	denyMessage  = "Доступ запрещен: требуются права администратора"
	authRequired = "Требуется авторизация"
)

type deniedResponse struct {
	Error string `json:"error"`
	Email string `json:"email"`
	Hint  string `json:"hint"`
}

// Middleware applies Decide to the browser's session. settle bounds how
// long a request may wait for an in-flight resolution before it gets 202.
func Middleware(settle time.Duration, log zerolog.Logger) func(http.Handler) http.Handler {
	log = log.With().Str("component", "guard").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			entry, ok := session.EntryFrom(r.Context())
			if !ok {
				handlers.WriteError(w, authRequired, http.StatusUnauthorized)
				return
			}

			snap := entry.Manager.Snapshot()
			if settle > 0 && Decide(snap).Kind == Wait {
				ctx, cancel := context.WithTimeout(r.Context(), settle)
				snap, _ = entry.Manager.WaitReady(ctx)
				cancel()
			}

			decision := Decide(snap)
			switch decision.Kind {
			case Wait:
				w.Header().Set("Retry-After", "1")
				handlers.WriteSuccess(w, map[string]string{"status": waitMessage}, http.StatusAccepted)
			case Redirect:
				if wantsHTML(r) {
					http.Redirect(w, r, SignInPath, http.StatusSeeOther)
					return
				}
				handlers.WriteError(w, authRequired, http.StatusUnauthorized)
			case Deny:
				log.Info().Str("email", decision.Email).Str("path", r.URL.Path).Msg("доступ к админке без прав")
				handlers.WriteSuccess(w, deniedResponse{
					Error: denyMessage,
					Email: decision.Email,
					Hint:  "Попросите администратора выдать права или используйте " + ElevatePath,
				}, http.StatusForbidden)
			case Allow:
				next.ServeHTTP(w, r.WithContext(session.WithSnapshot(r.Context(), snap)))
			}
		})
	}
}

func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}
