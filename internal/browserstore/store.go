// Package browserstore keeps small per-browser values in cookies.
package browserstore

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"contentHub/internal/models"
)

// Store is a key/value view of one browser's storage. Values are JSON.
type Store interface {
	Get(key string, dst any) error
	Set(key string, value any) error
	Delete(key string) error
}

const (
	SessionIDKey = "video_session_id"
	durableAge   = 365 * 24 * time.Hour
)

// CookieStore reads from the request and writes Set-Cookie headers to the
// response. Durable stores set a one year Max-Age; transient ones set
// session cookies that end with the browser session.
type CookieStore struct {
	r       *http.Request
	w       http.ResponseWriter
	durable bool
	secure  bool

	mu      sync.Mutex
	written map[string]*http.Cookie
}

func NewDurable(w http.ResponseWriter, r *http.Request, secure bool) *CookieStore {
	return &CookieStore{r: r, w: w, durable: true, secure: secure, written: make(map[string]*http.Cookie)}
}

func NewTransient(w http.ResponseWriter, r *http.Request, secure bool) *CookieStore {
	return &CookieStore{r: r, w: w, secure: secure, written: make(map[string]*http.Cookie)}
}

func (s *CookieStore) Get(key string, dst any) error {
	raw, err := s.lookup(key)
	if err != nil {
		return err
	}

	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return fmt.Errorf("cookie %s: %w", key, models.ErrNotFound)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("cookie %s: %w", key, models.ErrNotFound)
	}
	return nil
}

func (s *CookieStore) Set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("ошибка сериализации %s: %w", key, err)
	}

	cookie := &http.Cookie{
		Name:     key,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if s.durable {
		cookie.MaxAge = int(durableAge.Seconds())
		cookie.Expires = time.Now().Add(durableAge)
	}

	s.write(cookie)
	return nil
}

func (s *CookieStore) Delete(key string) error {
	s.write(&http.Cookie{
		Name:     key,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// lookup prefers values written during this request over the incoming ones.
func (s *CookieStore) lookup(key string) (string, error) {
	s.mu.Lock()
	cookie, ok := s.written[key]
	s.mu.Unlock()

	if ok {
		if cookie.MaxAge < 0 {
			return "", fmt.Errorf("cookie %s: %w", key, models.ErrNotFound)
		}
		return cookie.Value, nil
	}

	incoming, err := s.r.Cookie(key)
	if err != nil || incoming.Value == "" {
		return "", fmt.Errorf("cookie %s: %w", key, models.ErrNotFound)
	}
	return incoming.Value, nil
}

func (s *CookieStore) write(cookie *http.Cookie) {
	s.mu.Lock()
	s.written[cookie.Name] = cookie
	s.mu.Unlock()

	http.SetCookie(s.w, cookie)
}

// MemoryStore is a Store kept in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemory() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string, dst any) error {
	s.mu.RLock()
	data, ok := s.values[key]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%s: %w", key, models.ErrNotFound)
	}
	return json.Unmarshal(data, dst)
}

func (s *MemoryStore) Set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("ошибка сериализации %s: %w", key, err)
	}

	s.mu.Lock()
	s.values[key] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

// SessionID returns the anonymous browser-session id, generating and
// storing it on first use.
func SessionID(store Store) (string, error) {
	var id string
	if err := store.Get(SessionIDKey, &id); err == nil && id != "" {
		return id, nil
	}

	id = uuid.New().String()
	if err := store.Set(SessionIDKey, id); err != nil {
		return "", err
	}
	return id, nil
}
