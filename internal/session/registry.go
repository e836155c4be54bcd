package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"contentHub/internal/authclient"
	"contentHub/internal/metrics"
	"contentHub/internal/service"
)

// Entry is the per-browser pair of auth client and session manager.
type Entry struct {
	Client  *authclient.Client
	Manager *Manager
}

func (e *Entry) close() {
	e.Manager.Close()
	e.Client.Close()
}

// anonymousIdleTTL evicts entries that never signed in well before the
// regular idle TTL.
const anonymousIdleTTL = 15 * time.Minute

// Registry keeps one Entry per browser, keyed by the auth_session_id cookie.
type Registry struct {
	auth     service.AuthService
	profiles AdminResolver
	opts     Options
	idleTTL  time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	entries map[string]*Entry
}

func NewRegistry(auth service.AuthService, profiles AdminResolver, idleTTL time.Duration, opts Options) *Registry {
	if idleTTL <= 0 {
		idleTTL = 24 * time.Hour
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}

	return &Registry{
		auth:     auth,
		profiles: profiles,
		opts:     opts,
		idleTTL:  idleTTL,
		log:      opts.Logger.With().Str("component", "session_registry").Logger(),
		entries:  make(map[string]*Entry),
	}
}

// Get returns the entry for id, creating and starting it when absent; the
// flag reports creation. refreshToken restores a session that outlived the
// previous process.
func (r *Registry) Get(id, refreshToken string) (*Entry, bool) {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.entries[id]; ok {
		entry.Manager.Touch(now)
		return entry, false
	}

	clientOpts := []authclient.Option{authclient.WithLogger(r.opts.Logger)}
	if refreshToken != "" {
		clientOpts = append(clientOpts, authclient.WithRefreshToken(refreshToken))
	}

	client := authclient.New(r.auth, clientOpts...)
	manager := NewManager(client, r.profiles, r.opts)
	manager.Start(context.Background())

	entry := &Entry{Client: client, Manager: manager}
	r.entries[id] = entry

	r.log.Debug().Str("browser", id).Bool("restored", refreshToken != "").Msg("создана сессия браузера")
	return entry, true
}

// Lookup returns the live entry for id without creating one.
func (r *Registry) Lookup(id string) (*Entry, bool) {
	if id == "" {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if ok {
		entry.Manager.Touch(time.Now())
	}
	return entry, ok
}

// Rekey moves the entry under oldID to newID. It reports false when oldID
// is unknown or newID is taken.
func (r *Registry) Rekey(oldID, newID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[oldID]
	if !ok {
		return false
	}
	if _, taken := r.entries[newID]; taken {
		return false
	}

	delete(r.entries, oldID)
	r.entries[newID] = entry
	return true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep closes entries idle for longer than the TTL and returns how many
// went. Signed-out entries use the shorter anonymous TTL.
func (r *Registry) Sweep(now time.Time) int {
	anonymousTTL := min(anonymousIdleTTL, r.idleTTL)

	r.mu.Lock()
	var stale []*Entry
	for id, entry := range r.entries {
		ttl := r.idleTTL
		if snap := entry.Manager.Snapshot(); snap.State == StateUnauthenticated && !snap.Loading {
			ttl = anonymousTTL
		}
		if now.Sub(entry.Manager.idleSince()) > ttl {
			stale = append(stale, entry)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	for _, entry := range stale {
		entry.close()
	}

	if len(stale) > 0 {
		r.log.Info().Int("evicted", len(stale)).Msg("удалены неактивные сессии")
	}
	return len(stale)
}

// Run sweeps periodically until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.Sweep(now)
		}
	}
}

func (r *Registry) Close() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*Entry)
	r.mu.Unlock()

	for _, entry := range entries {
		entry.close()
	}
}
