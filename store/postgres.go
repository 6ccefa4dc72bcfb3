package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifeinfocus/focus/internal/models"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS task_sessions (
	task_id     text PRIMARY KEY,
	task_name   text NOT NULL,
	time_worked integer NOT NULL CHECK (time_worked > 0),
	created_at  timestamptz NOT NULL DEFAULT now(),
	owner_id    text NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS task_sessions_owner_created_idx
	ON task_sessions (owner_id, created_at DESC);
`

const sessionColumns = `task_id, task_name, time_worked, created_at, owner_id`

// Postgres is a task store backed by a PostgreSQL table, compatible with a
// hosted task_sessions table. Sessions are scoped by owner id.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database at dsn and creates the table if
// needed.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func scanSession(row pgx.CollectableRow) (models.CompletedSession, error) {
	var s models.CompletedSession

	err := row.Scan(
		&s.ID,
		&s.TaskName,
		&s.SecondsWorked,
		&s.CreatedAt,
		&s.OwnerID,
	)

	s.CreatedAt = s.CreatedAt.UTC()

	return s, err
}

func (p *Postgres) Create(
	ctx context.Context,
	sess models.CompletedSession,
) (models.CompletedSession, error) {
	sess, err := prepare(sess)
	if err != nil {
		return sess, err
	}

	rows, _ := p.pool.Query(
		ctx,
		`INSERT INTO task_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+sessionColumns,
		sess.ID,
		sess.TaskName,
		sess.SecondsWorked,
		sess.CreatedAt,
		sess.OwnerID,
	)

	saved, err := pgx.CollectExactlyOneRow(rows, scanSession)
	if err != nil {
		return sess, fmt.Errorf("failed to create session: %w", err)
	}

	return saved, nil
}

func (p *Postgres) Get(
	ctx context.Context,
	id string,
) (models.CompletedSession, error) {
	rows, _ := p.pool.Query(
		ctx,
		`SELECT `+sessionColumns+` FROM task_sessions WHERE task_id = $1`,
		id,
	)

	sess, err := pgx.CollectExactlyOneRow(rows, scanSession)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sess, ErrNotFound
		}

		return sess, fmt.Errorf("failed to find session: %w", err)
	}

	return sess, nil
}

func (p *Postgres) List(
	ctx context.Context,
	f Filter,
) ([]models.CompletedSession, error) {
	var since, until, limit any

	if !f.Since.IsZero() {
		since = f.Since.UTC()
	}

	if !f.Until.IsZero() {
		until = f.Until.UTC()
	}

	if f.Limit > 0 {
		limit = f.Limit
	}

	rows, _ := p.pool.Query(
		ctx,
		`SELECT `+sessionColumns+` FROM task_sessions
		WHERE ($1 = '' OR owner_id = $1)
			AND ($2::timestamptz IS NULL OR created_at >= $2)
			AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY created_at DESC
		LIMIT $4`,
		f.OwnerID,
		since,
		until,
		limit,
	)

	sessions, err := pgx.CollectRows(rows, scanSession)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessions, nil
}

func (p *Postgres) Update(
	ctx context.Context,
	id string,
	upd models.SessionUpdate,
) (models.CompletedSession, error) {
	sess, err := p.Get(ctx, id)
	if err != nil {
		return sess, err
	}

	if err = upd.Apply(&sess); err != nil {
		return sess, err
	}

	rows, _ := p.pool.Query(
		ctx,
		`UPDATE task_sessions
		SET task_name = $2, time_worked = $3
		WHERE task_id = $1
		RETURNING `+sessionColumns,
		id,
		sess.TaskName,
		sess.SecondsWorked,
	)

	saved, err := pgx.CollectExactlyOneRow(rows, scanSession)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sess, ErrNotFound
		}

		return sess, fmt.Errorf("failed to update session: %w", err)
	}

	return saved, nil
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM task_sessions WHERE task_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
