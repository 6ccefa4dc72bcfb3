package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lifeinfocus/focus/internal/models"
)

// sessionRow is the relational shape of a completed session.
type sessionRow struct {
	CreatedAt  time.Time `gorm:"not null;index"`
	ID         string    `gorm:"column:task_id;primarykey;size:36"`
	TaskName   string    `gorm:"size:255;not null"`
	OwnerID    string    `gorm:"size:64;not null;default:'';index"`
	TimeWorked int       `gorm:"not null"`
}

// TableName returns the table name for sessionRow.
func (sessionRow) TableName() string {
	return "task_sessions"
}

func toRow(s *models.CompletedSession) sessionRow {
	return sessionRow{
		ID:         s.ID,
		TaskName:   s.TaskName,
		TimeWorked: s.SecondsWorked,
		CreatedAt:  s.CreatedAt.UTC(),
		OwnerID:    s.OwnerID,
	}
}

func (r *sessionRow) model() models.CompletedSession {
	return models.CompletedSession{
		ID:            r.ID,
		TaskName:      r.TaskName,
		SecondsWorked: r.TimeWorked,
		CreatedAt:     r.CreatedAt.UTC(),
		OwnerID:       r.OwnerID,
	}
}

// SQL is a task store backed by a relational table through gorm. Sessions
// are scoped by owner id.
type SQL struct {
	db *gorm.DB
}

// NewSQL opens (or creates) an SQLite database file and migrates the schema.
func NewSQL(path string) (*SQL, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}

	// SQLite allows a single writer; an in-memory database only exists on
	// its own connection.
	sqlDB.SetMaxOpenConns(1)

	return NewSQLFromDB(db)
}

// NewSQLFromDB wraps an existing gorm connection and migrates the schema.
func NewSQLFromDB(db *gorm.DB) (*SQL, error) {
	if err := db.AutoMigrate(&sessionRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQL{db: db}, nil
}

func (s *SQL) Create(
	ctx context.Context,
	sess models.CompletedSession,
) (models.CompletedSession, error) {
	sess, err := prepare(sess)
	if err != nil {
		return sess, err
	}

	row := toRow(&sess)

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return sess, fmt.Errorf("failed to create session: %w", err)
	}

	return row.model(), nil
}

func (s *SQL) Get(
	ctx context.Context,
	id string,
) (models.CompletedSession, error) {
	row, err := s.find(s.db.WithContext(ctx), id)
	if err != nil {
		return models.CompletedSession{}, err
	}

	return row.model(), nil
}

func (s *SQL) List(
	ctx context.Context,
	f Filter,
) ([]models.CompletedSession, error) {
	q := s.db.WithContext(ctx).Model(&sessionRow{})

	if f.OwnerID != "" {
		q = q.Where("owner_id = ?", f.OwnerID)
	}

	if !f.Since.IsZero() {
		q = q.Where("created_at >= ?", f.Since.UTC())
	}

	if !f.Until.IsZero() {
		q = q.Where("created_at <= ?", f.Until.UTC())
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var rows []sessionRow
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make([]models.CompletedSession, len(rows))
	for i := range rows {
		sessions[i] = rows[i].model()
	}

	return sessions, nil
}

func (s *SQL) Update(
	ctx context.Context,
	id string,
	upd models.SessionUpdate,
) (models.CompletedSession, error) {
	var sess models.CompletedSession

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.find(tx, id)
		if err != nil {
			return err
		}

		sess = row.model()

		if err = upd.Apply(&sess); err != nil {
			return err
		}

		result := tx.Model(&sessionRow{}).
			Where("task_id = ?", id).
			Updates(map[string]any{
				"task_name":   sess.TaskName,
				"time_worked": sess.SecondsWorked,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update session: %w", result.Error)
		}

		return nil
	})

	return sess, err
}

func (s *SQL) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&sessionRow{}, "task_id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *SQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func (s *SQL) find(db *gorm.DB, id string) (*sessionRow, error) {
	var row sessionRow

	if err := db.First(&row, "task_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return &row, nil
}
