package ports

import (
	"context"
	"time"
)

// ReleaseFunc gives back a session lock obtained from a SessionLocker.
type ReleaseFunc func(ctx context.Context) error

// SessionLocker serializes answers to one interview session across service
// replicas. Local goroutines are already serialized by session.Manager.
type SessionLocker interface {
	// Acquire blocks until sessionID is held or ctx ends. The lease bounds how
	// long the lock survives a crashed holder. The returned ReleaseFunc must
	// be called once the turn is persisted.
	Acquire(ctx context.Context, sessionID string, lease time.Duration) (ReleaseFunc, error)
}
