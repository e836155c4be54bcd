// Package session owns the signed-in state of one browser: who is signed
// in, whether they are an admin, and whether that is still being worked out.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"contentHub/internal/authclient"
	"contentHub/internal/metrics"
	"contentHub/internal/models"
)

type State string

const (
	StateInitializing    State = "initializing"
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"
	StateAdmin           State = "admin"
)

// Snapshot is an immutable view of the manager's state.
type Snapshot struct {
	State   State            `json:"state"`
	User    *models.AuthUser `json:"user"`
	Session *models.Session  `json:"session,omitempty"`
	IsAdmin bool             `json:"isAdmin"`
	Loading bool             `json:"loading"`
}

// AdminResolver looks up, creating if needed, the profile that carries the admin flag.
type AdminResolver interface {
	GetOrCreateProfile(ctx context.Context, userID, email, fullName string) (*models.Profile, error)
}

type Options struct {
	// AdminResolveTimeout bounds a single admin lookup; expiry resolves to non-admin.
	AdminResolveTimeout time.Duration
	Logger              zerolog.Logger
	Metrics             metrics.Recorder
}

type Manager struct {
	provider authclient.Provider
	profiles AdminResolver
	timeout  time.Duration
	log      zerolog.Logger
	metrics  metrics.Recorder

	mu          sync.Mutex
	snap        Snapshot
	generation  uint64
	subscribers map[int]chan Snapshot
	nextSub     int
	ready       chan struct{}
	unsubscribe func()
	started     bool
	lastSeen    time.Time
}

func NewManager(provider authclient.Provider, profiles AdminResolver, opts Options) *Manager {
	if opts.AdminResolveTimeout <= 0 {
		opts.AdminResolveTimeout = 5 * time.Second
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}

	return &Manager{
		provider:    provider,
		profiles:    profiles,
		timeout:     opts.AdminResolveTimeout,
		log:         opts.Logger.With().Str("component", "session").Logger(),
		metrics:     opts.Metrics,
		snap:        Snapshot{State: StateInitializing, Loading: true},
		subscribers: make(map[int]chan Snapshot),
		ready:       make(chan struct{}),
		lastSeen:    time.Now(),
	}
}

// Start subscribes to auth changes and checks for an existing session.
// Both paths may report the same session; admin resolution tolerates that.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	unsubscribe := m.provider.OnAuthStateChange(m.handleChange)

	m.mu.Lock()
	m.unsubscribe = unsubscribe
	m.mu.Unlock()

	go func() {
		session, err := m.provider.GetSession(ctx)
		if err != nil {
			m.log.Warn().Err(err).Msg("не удалось получить текущую сессию")
			session = nil
		}
		m.applySession(session, true)
	}()
}

func (m *Manager) Close() {
	m.mu.Lock()
	unsubscribe := m.unsubscribe
	m.unsubscribe = nil
	m.generation++
	for id, ch := range m.subscribers {
		close(ch)
		delete(m.subscribers, id)
	}
	m.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

// Subscribe returns a channel that always holds the latest snapshot; slow
// readers skip intermediate states rather than block the manager.
func (m *Manager) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	m.mu.Lock()
	m.nextSub++
	id := m.nextSub
	m.subscribers[id] = ch
	ch <- m.snap
	m.mu.Unlock()

	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.subscribers[id]; ok {
			delete(m.subscribers, id)
			close(ch)
		}
	}
}

// WaitReady blocks until the initial resolution finished or ctx ends.
func (m *Manager) WaitReady(ctx context.Context) (Snapshot, error) {
	select {
	case <-m.ready:
	case <-ctx.Done():
		return m.Snapshot(), ctx.Err()
	}

	ch, cancel := m.Subscribe()
	defer cancel()

	for {
		select {
		case snap, ok := <-ch:
			if !ok {
				return m.Snapshot(), nil
			}
			if !snap.Loading {
				return snap, nil
			}
		case <-ctx.Done():
			return m.Snapshot(), ctx.Err()
		}
	}
}

// SignIn surfaces credential errors to the caller. On success the state is
// filled in by the SIGNED_IN notification, which also clears Loading.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	m.setLoading(true)

	_, err := m.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		m.setLoading(false)
		return err
	}
	return nil
}

// SignUp registers the user without creating a profile; the profile appears
// on the first admin check. The returned session is nil when email
// confirmation is pending.
func (m *Manager) SignUp(ctx context.Context, email, password, fullName string) (*models.User, *models.Session, error) {
	return m.provider.SignUp(ctx, email, password, fullName)
}

// SignOut clears the local state first so that a failed remote call never
// leaves the browser signed in.
func (m *Manager) SignOut(ctx context.Context) error {
	m.applySession(nil, false)

	if err := m.provider.SignOut(ctx); err != nil {
		m.log.Warn().Err(err).Msg("ошибка выхода на сервере авторизации")
		return err
	}
	return nil
}

// Touch records activity for idle eviction.
func (m *Manager) Touch(now time.Time) {
	m.mu.Lock()
	m.lastSeen = now
	m.mu.Unlock()
}

func (m *Manager) idleSince() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSeen
}

func (m *Manager) handleChange(change authclient.Change) {
	switch change.Event {
	case authclient.EventInitialSession:
		m.applySession(change.Session, true)
	case authclient.EventSignedIn:
		m.applySession(change.Session, true)
	case authclient.EventSignedOut:
		m.signedOut()
	case authclient.EventTokenRefreshed:
		m.refreshSession(change.Session)
	}
}

// applySession moves to the state implied by session. With resolve set and
// a non-nil session an admin lookup is started; its result only lands if no
// later change bumped the generation.
func (m *Manager) applySession(session *models.Session, resolve bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation++
	gen := m.generation

	if session == nil {
		m.publishLocked(Snapshot{State: StateUnauthenticated})
		return
	}

	if !resolve {
		return
	}

	// the same user already resolved, e.g. INITIAL_SESSION racing GetSession
	if m.snap.User != nil && m.snap.User.ID == session.User.ID && !m.snap.Loading && m.snap.State != StateUnauthenticated {
		next := m.snap
		next.Session = session
		m.publishLocked(next)
		return
	}

	user := session.User
	m.publishLocked(Snapshot{
		State:   StateInitializing,
		User:    &user,
		Session: session,
		Loading: true,
	})

	go m.resolveAdmin(gen, session)
}

// signedOut ignores a notification for a sign-out that was already applied
// locally, so a sign-in started in between keeps its loading flag.
func (m *Manager) signedOut() {
	m.mu.Lock()
	already := m.snap.State == StateUnauthenticated
	m.mu.Unlock()

	if already {
		return
	}
	m.applySession(nil, false)
}

// refreshSession swaps the token pair and keeps the resolved role: a role
// change needs a fresh sign-in.
func (m *Manager) refreshSession(session *models.Session) {
	if session == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snap.User == nil || m.snap.User.ID != session.User.ID {
		return
	}

	next := m.snap
	next.Session = session
	m.publishLocked(next)
}

func (m *Manager) resolveAdmin(gen uint64, session *models.Session) {
	isAdmin := m.lookupAdmin(session.User)

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		m.log.Debug().Str("user_id", session.User.ID).Msg("результат проверки прав устарел")
		return
	}

	state := StateAuthenticated
	if isAdmin {
		state = StateAdmin
	}

	user := session.User
	m.publishLocked(Snapshot{
		State:   state,
		User:    &user,
		Session: session,
		IsAdmin: isAdmin,
	})
}

// lookupAdmin never fails: errors and timeouts resolve to non-admin.
func (m *Manager) lookupAdmin(user models.AuthUser) bool {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	type result struct {
		profile *models.Profile
		err     error
	}
	done := make(chan result, 1)

	go func() {
		profile, err := m.profiles.GetOrCreateProfile(ctx, user.ID, user.Email, user.FullName)
		done <- result{profile: profile, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			if errors.Is(res.err, context.DeadlineExceeded) {
				m.metrics.RecordAdminResolution(metrics.OutcomeTimeout)
			} else {
				m.metrics.RecordAdminResolution(metrics.OutcomeError)
			}
			m.log.Error().Err(res.err).Str("user_id", user.ID).Msg("ошибка проверки прав администратора")
			return false
		}
		if res.profile.IsAdmin {
			m.metrics.RecordAdminResolution(metrics.OutcomeAdmin)
			return true
		}
		m.metrics.RecordAdminResolution(metrics.OutcomeNonAdmin)
		return false
	case <-ctx.Done():
		m.metrics.RecordAdminResolution(metrics.OutcomeTimeout)
		m.log.Warn().Str("user_id", user.ID).Dur("timeout", m.timeout).Msg("проверка прав администратора не успела, доступ без прав")
		return false
	}
}

func (m *Manager) setLoading(loading bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snap.Loading == loading {
		return
	}
	next := m.snap
	next.Loading = loading
	m.publishLocked(next)
}

func (m *Manager) publishLocked(snap Snapshot) {
	m.snap = snap

	if !snap.Loading {
		select {
		case <-m.ready:
		default:
			close(m.ready)
		}
	}

	for _, ch := range m.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}
