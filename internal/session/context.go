package session

import "context"

type contextKey int

const (
	entryKey contextKey = iota
	bindingKey
	snapshotKey
)

func WithEntry(ctx context.Context, entry *Entry) context.Context {
	return context.WithValue(ctx, entryKey, entry)
}

func WithBinding(ctx context.Context, b *Binding) context.Context {
	return context.WithValue(ctx, bindingKey, b)
}

// EntryFrom returns the browser's entry, creating it through the binding
// the session middleware left in ctx.
func EntryFrom(ctx context.Context) (*Entry, bool) {
	if entry, ok := ctx.Value(entryKey).(*Entry); ok && entry != nil {
		return entry, true
	}
	if b, ok := ctx.Value(bindingKey).(*Binding); ok && b != nil {
		return b.Entry(ctx), true
	}
	return nil, false
}

// RotateID gives the browser a new session id; a no-op without a binding.
func RotateID(ctx context.Context) bool {
	b, ok := ctx.Value(bindingKey).(*Binding)
	return ok && b != nil && b.Rotate()
}

func WithSnapshot(ctx context.Context, snap Snapshot) context.Context {
	return context.WithValue(ctx, snapshotKey, snap)
}

// SnapshotFrom returns the snapshot the route guard admitted the request with.
func SnapshotFrom(ctx context.Context) (Snapshot, bool) {
	snap, ok := ctx.Value(snapshotKey).(Snapshot)
	return snap, ok
}
