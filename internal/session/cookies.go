package session

import (
	"net/http"
	"time"
)

const (
	// CookieName keys the browser's entry in the Registry.
	CookieName = "auth_session_id"
	// RefreshCookieName lets a browser's session survive a restart.
	RefreshCookieName = "auth_refresh"

	cookieAge = 365 * 24 * time.Hour
)

func SetIDCookie(w http.ResponseWriter, id string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(cookieAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetRefreshCookie stores token, or removes the cookie when token is empty.
func SetRefreshCookie(w http.ResponseWriter, token string, secure bool) {
	cookie := &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cookieAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
	if token == "" {
		cookie.MaxAge = -1
	}
	http.SetCookie(w, cookie)
}
