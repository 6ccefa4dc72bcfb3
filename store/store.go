// Package store persists completed work sessions
package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lifeinfocus/focus/internal/models"
)

// TaskStore is the CRUD surface over completed sessions. Lists are ordered
// newest first.
type TaskStore interface {
	// Create assigns an id (and a creation time if unset) and stores the
	// session
	Create(
		ctx context.Context,
		sess models.CompletedSession,
	) (models.CompletedSession, error)
	// Get returns the session with the given id or ErrNotFound
	Get(ctx context.Context, id string) (models.CompletedSession, error)
	// List returns the sessions that satisfy the filter
	List(ctx context.Context, f Filter) ([]models.CompletedSession, error)
	// Update edits the given fields of a session
	Update(
		ctx context.Context,
		id string,
		upd models.SessionUpdate,
	) (models.CompletedSession, error)
	// Delete removes a session
	Delete(ctx context.Context, id string) error
	// Close releases the underlying connection
	Close() error
}

// Filter narrows down a List call. Zero values are unbounded.
type Filter struct {
	Since   time.Time
	Until   time.Time
	OwnerID string
	Limit   int
}

// includes reports whether a session created at t falls inside the range.
func (f Filter) includes(t time.Time) bool {
	if !f.Since.IsZero() && t.Before(f.Since) {
		return false
	}

	if !f.Until.IsZero() && t.After(f.Until) {
		return false
	}

	return true
}

// prepare validates a new session and fills in the generated fields.
func prepare(sess models.CompletedSession) (models.CompletedSession, error) {
	sess.TaskName = strings.TrimSpace(sess.TaskName)

	if err := sess.Validate(); err != nil {
		return sess, err
	}

	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}

	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now()
	}

	sess.CreatedAt = sess.CreatedAt.UTC()

	return sess, nil
}
