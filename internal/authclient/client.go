// Package authclient is a per-browser session client over the auth
// service. It keeps the current session in memory, refreshes the access
// token before it expires and publishes auth state changes to listeners
// in the order they happen.
package authclient

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"contentHub/internal/models"
	"contentHub/internal/repository"
	"contentHub/internal/service"
)

type Event string

const (
	EventInitialSession Event = "INITIAL_SESSION"
	EventSignedIn       Event = "SIGNED_IN"
	EventSignedOut      Event = "SIGNED_OUT"
	EventTokenRefreshed Event = "TOKEN_REFRESHED"
)

// Change is one auth state notification. Session is nil when signed out.
type Change struct {
	Event   Event
	Session *models.Session
}

type Listener func(Change)

// Provider is what the session manager needs from an auth client.
type Provider interface {
	GetSession(ctx context.Context) (*models.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)
	SignUp(ctx context.Context, email, password, fullName string) (*models.User, *models.Session, error)
	SignOut(ctx context.Context) error
	OnAuthStateChange(fn Listener) (unsubscribe func())
}

type Option func(*Client)

// WithRefreshToken restores a session from a previously issued refresh token on first use.
func WithRefreshToken(token string) Option {
	return func(c *Client) { c.restoreToken = token }
}

// WithRefreshLead sets how long before expiry the access token is refreshed.
func WithRefreshLead(d time.Duration) Option {
	return func(c *Client) { c.refreshLead = d }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

type queued struct {
	change  Change
	target  int // 0 means every listener
	initial bool
}

type Client struct {
	auth        service.AuthService
	log         zerolog.Logger
	refreshLead time.Duration

	initOnce     sync.Once
	restoreToken string

	mu        sync.Mutex
	session   *models.Session
	signOuts  uint64
	listeners map[int]Listener
	nextID    int
	timer     *time.Timer
	queue     []queued
	closed    bool

	wake chan struct{}
	done chan struct{}
}

var _ Provider = (*Client)(nil)

func New(auth service.AuthService, opts ...Option) *Client {
	c := &Client{
		auth:        auth,
		log:         zerolog.Nop(),
		refreshLead: 30 * time.Second,
		listeners:   make(map[int]Listener),
		wake:        make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.dispatch()

	return c
}

// OnAuthStateChange registers fn and queues an INITIAL_SESSION notification for it.
func (c *Client) OnAuthStateChange(fn Listener) func() {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.listeners[id] = fn
	c.enqueueLocked(queued{change: Change{Event: EventInitialSession}, target: id, initial: true})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// GetSession returns a copy of the current session, or nil when signed out.
func (c *Client) GetSession(ctx context.Context) (*models.Session, error) {
	c.ensureInitialized(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	return copySession(c.session), nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	user, accessToken, refreshToken, err := c.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	session, err := c.buildSession(user, accessToken, refreshToken)
	if err != nil {
		return nil, err
	}

	c.setSession(session, EventSignedIn)
	return copySession(session), nil
}

// SignUp registers a user. When no email confirmation is required the user
// is signed in right away and the session is returned; otherwise the
// session is nil until the address is confirmed.
func (c *Client) SignUp(ctx context.Context, email, password, fullName string) (*models.User, *models.Session, error) {
	user, err := c.auth.Register(ctx, repository.CreateUserRequest{
		Email:    email,
		Password: password,
		FullName: fullName,
	})
	if err != nil {
		return nil, nil, err
	}

	if user.EmailConfirmedAt == nil {
		return user, nil, nil
	}

	session, err := c.SignInWithPassword(ctx, email, password)
	if err != nil {
		return user, nil, err
	}

	return user, session, nil
}

// SignOut always drops the local session; the returned error only reports
// the remote revocation.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	previous := c.session
	c.session = nil
	c.restoreToken = ""
	c.signOuts++
	c.stopTimerLocked()
	c.enqueueLocked(queued{change: Change{Event: EventSignedOut}})
	c.mu.Unlock()

	if previous == nil {
		return nil
	}

	if err := c.auth.Logout(ctx, previous.User.ID); err != nil {
		return fmt.Errorf("ошибка отзыва сессии: %w", err)
	}
	return nil
}

// RefreshToken exposes the current refresh token so it can be persisted by the caller.
func (c *Client) RefreshToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return ""
	}
	return c.session.RefreshToken
}

// Close stops the refresh timer and the dispatch goroutine. Pending notifications are dropped.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopTimerLocked()
	c.queue = nil
	c.mu.Unlock()

	close(c.done)
}

func (c *Client) ensureInitialized(ctx context.Context) {
	c.initOnce.Do(func() {
		c.mu.Lock()
		token := c.restoreToken
		c.restoreToken = ""
		generation := c.signOuts
		c.mu.Unlock()

		if token == "" {
			return
		}

		session, err := c.refresh(ctx, token)
		if err != nil {
			c.log.Info().Err(err).Msg("сохраненная сессия недействительна")
			return
		}

		c.mu.Lock()
		signedOut := c.signOuts != generation
		revoke := signedOut && c.session == nil
		if !signedOut && c.session == nil {
			c.session = session
			c.scheduleRefreshLocked()
		}
		c.mu.Unlock()

		// a sign-out raced the restore: the rotated token must not stay valid
		if revoke {
			if err := c.auth.Logout(ctx, session.User.ID); err != nil {
				c.log.Warn().Err(err).Msg("не удалось отозвать восстановленную сессию")
			}
		}
	})
}

func (c *Client) refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	user, accessToken, newRefreshToken, err := c.auth.RefreshTokens(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return c.buildSession(user, accessToken, newRefreshToken)
}

func (c *Client) buildSession(user *models.User, accessToken, refreshToken string) (*models.Session, error) {
	token, err := c.auth.ValidateToken(accessToken)
	if err != nil {
		return nil, err
	}

	expiresAt, err := service.TokenExpiry(token)
	if err != nil {
		return nil, err
	}

	return &models.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User: models.AuthUser{
			ID:       user.UserID,
			Email:    user.Email,
			FullName: user.FullName,
		},
	}, nil
}

func (c *Client) setSession(session *models.Session, event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session = session
	c.scheduleRefreshLocked()
	c.enqueueLocked(queued{change: Change{Event: event, Session: copySession(session)}})
}

func (c *Client) scheduleRefreshLocked() {
	c.stopTimerLocked()
	if c.session == nil || c.closed {
		return
	}

	wait := time.Until(c.session.ExpiresAt) - c.refreshLead
	if wait < 0 {
		wait = 0
	}

	expected := c.session.RefreshToken
	c.timer = time.AfterFunc(wait, func() { c.onRefreshTimer(expected) })
}

func (c *Client) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// onRefreshTimer rotates the tokens. A failed refresh is a session expiry and signs the user out.
func (c *Client) onRefreshTimer(refreshToken string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session, err := c.refresh(ctx, refreshToken)

	c.mu.Lock()
	defer c.mu.Unlock()

	// signed out or replaced while the refresh was in flight
	if c.closed || c.session == nil || c.session.RefreshToken != refreshToken {
		return
	}

	if err != nil {
		if !errors.Is(err, models.ErrInvalidToken) {
			c.log.Warn().Err(err).Msg("не удалось обновить токен")
		}
		c.session = nil
		c.stopTimerLocked()
		c.enqueueLocked(queued{change: Change{Event: EventSignedOut}})
		return
	}

	c.session = session
	c.scheduleRefreshLocked()
	c.enqueueLocked(queued{change: Change{Event: EventTokenRefreshed, Session: copySession(session)}})
}

func (c *Client) enqueueLocked(q queued) {
	if c.closed {
		return
	}
	c.queue = append(c.queue, q)

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// dispatch delivers queued changes one at a time, in order, outside the lock.
func (c *Client) dispatch() {
	for {
		select {
		case <-c.done:
			return
		case <-c.wake:
		}

		for {
			c.mu.Lock()
			if c.closed || len(c.queue) == 0 {
				c.mu.Unlock()
				break
			}
			next := c.queue[0]
			c.queue = c.queue[1:]
			c.mu.Unlock()

			c.deliver(next)
		}
	}
}

func (c *Client) deliver(q queued) {
	if q.initial {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		c.ensureInitialized(ctx)
		cancel()

		c.mu.Lock()
		q.change.Session = copySession(c.session)
		c.mu.Unlock()
	}

	c.mu.Lock()
	var targets []Listener
	if q.target != 0 {
		if fn, ok := c.listeners[q.target]; ok {
			targets = append(targets, fn)
		}
	} else {
		ids := make([]int, 0, len(c.listeners))
		for id := range c.listeners {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			targets = append(targets, c.listeners[id])
		}
	}
	c.mu.Unlock()

	for _, fn := range targets {
		c.safeCall(fn, q.change)
	}
}

func (c *Client) safeCall(fn Listener, change Change) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Str("event", string(change.Event)).Msg("обработчик события авторизации упал")
		}
	}()
	fn(change)
}

func copySession(s *models.Session) *models.Session {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}
