package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lifeinfocus/focus/internal/models"
)

// Fallback writes to a primary store and falls back to a local one when a
// Create fails. Reads, edits and deletes go to the primary only.
type Fallback struct {
	primary TaskStore
	local   TaskStore
	logger  *slog.Logger
}

// NewFallback wraps primary with a local store for failed writes.
func NewFallback(primary, local TaskStore, logger *slog.Logger) *Fallback {
	if logger == nil {
		logger = slog.Default()
	}

	return &Fallback{primary: primary, local: local, logger: logger}
}

// Create returns ErrStoredLocally, joined with the primary's error, when the
// session only reached the local store.
func (f *Fallback) Create(
	ctx context.Context,
	sess models.CompletedSession,
) (models.CompletedSession, error) {
	saved, err := f.primary.Create(ctx, sess)
	if err == nil {
		return saved, nil
	}

	// invalid sessions are rejected everywhere
	if errors.Is(err, models.ErrEmptyTaskName) ||
		errors.Is(err, models.ErrNoTimeWorked) {
		return saved, err
	}

	f.logger.WarnContext(
		ctx,
		"primary store rejected session, writing locally",
		slog.String("task", sess.TaskName),
		slog.Any("error", err),
	)

	local, localErr := f.local.Create(ctx, sess)
	if localErr != nil {
		return sess, errors.Join(err, localErr)
	}

	return local, fmt.Errorf("%w: %w", ErrStoredLocally, err)
}

func (f *Fallback) Get(
	ctx context.Context,
	id string,
) (models.CompletedSession, error) {
	return f.primary.Get(ctx, id)
}

func (f *Fallback) List(
	ctx context.Context,
	filter Filter,
) ([]models.CompletedSession, error) {
	return f.primary.List(ctx, filter)
}

func (f *Fallback) Update(
	ctx context.Context,
	id string,
	upd models.SessionUpdate,
) (models.CompletedSession, error) {
	return f.primary.Update(ctx, id, upd)
}

func (f *Fallback) Delete(ctx context.Context, id string) error {
	return f.primary.Delete(ctx, id)
}

func (f *Fallback) Close() error {
	return errors.Join(f.primary.Close(), f.local.Close())
}
