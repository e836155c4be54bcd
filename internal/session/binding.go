package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Binding ties one request to its browser entry. The entry is created on
// first use only, so requests that never touch auth leave the registry as is.
type Binding struct {
	registry    *Registry
	w           http.ResponseWriter
	secure      bool
	restoreWait time.Duration
	stored      string

	mu    sync.Mutex
	id    string
	entry *Entry
}

func Bind(registry *Registry, w http.ResponseWriter, r *http.Request, secure bool, restoreWait time.Duration) *Binding {
	b := &Binding{
		registry:    registry,
		w:           w,
		secure:      secure,
		restoreWait: restoreWait,
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		b.id = cookie.Value
	}
	if cookie, err := r.Cookie(RefreshCookieName); err == nil {
		b.stored = cookie.Value
	}
	return b
}

// Attach picks up an entry that already exists for the browser and writes
// back a refresh token rotated since the last response.
func (b *Binding) Attach() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.entry != nil {
		return
	}
	if entry, ok := b.registry.Lookup(b.id); ok {
		b.entry = entry
		b.syncRefreshLocked()
	}
}

// Entry returns the browser's entry, creating it under a freshly issued id
// when the browser has none. A new entry restoring from the refresh cookie
// gets restoreWait to settle.
func (b *Binding) Entry(ctx context.Context) *Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.entry != nil {
		return b.entry
	}
	if entry, ok := b.registry.Lookup(b.id); ok {
		b.entry = entry
		b.syncRefreshLocked()
		return entry
	}

	// ids are only ever issued here, never taken from the client
	b.id = uuid.New().String()
	entry, _ := b.registry.Get(b.id, b.stored)
	SetIDCookie(b.w, b.id, b.secure)

	if b.stored != "" && b.restoreWait > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, b.restoreWait)
		entry.Manager.WaitReady(waitCtx)
		cancel()
	}

	b.entry = entry
	b.syncRefreshLocked()
	return entry
}

// Rotate moves the entry to a new id and reissues the id cookie. Called on
// sign-in so an id planted before authentication stops working.
func (b *Binding) Rotate() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.entry == nil {
		return false
	}

	next := uuid.New().String()
	if !b.registry.Rekey(b.id, next) {
		return false
	}

	b.id = next
	SetIDCookie(b.w, next, b.secure)
	return true
}

func (b *Binding) syncRefreshLocked() {
	if current := b.entry.Client.RefreshToken(); current != "" && current != b.stored {
		SetRefreshCookie(b.w, current, b.secure)
		b.stored = current
	}
}
