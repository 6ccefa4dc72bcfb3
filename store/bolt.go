package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	bolt "go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"

	"github.com/lifeinfocus/focus/internal/models"
	"github.com/lifeinfocus/focus/internal/osutil"
	"github.com/lifeinfocus/focus/internal/timeutil"
)

const (
	sessionBucket = "sessions"
	indexBucket   = "index"
)

// Bolt is a task store backed by a local BoltDB file. Sessions are keyed by
// their creation time followed by their id, so a cursor walks them in
// chronological order. It has a single implicit owner and ignores
// Filter.OwnerID.
type Bolt struct {
	db *bolt.DB
}

// NewBolt opens or creates the database at dbPath and locks it.
func NewBolt(dbPath string) (*Bolt, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	// Create the necessary buckets for storing data if they do not exist already
	err = db.Update(func(tx *bolt.Tx) error {
		_, err = tx.CreateBucketIfNotExists([]byte(sessionBucket))
		if err != nil {
			return err
		}

		_, err = tx.CreateBucketIfNotExists([]byte(indexBucket))

		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Bolt{db: db}, nil
}

// openDB creates or opens a database and locks it.
func openDB(dbPath string) (*bolt.DB, error) {
	db, err := bolt.Open(
		dbPath,
		osutil.FilePermission,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, berrors.ErrTimeout) {
			return nil, ErrFocusRunning
		}

		return nil, err
	}

	return db, nil
}

func sessionKey(sess *models.CompletedSession) []byte {
	return append(timeutil.ToKey(sess.CreatedAt), []byte(sess.ID)...)
}

func (b *Bolt) Create(
	_ context.Context,
	sess models.CompletedSession,
) (models.CompletedSession, error) {
	sess, err := prepare(sess)
	if err != nil {
		return sess, err
	}

	value, err := json.Marshal(sess)
	if err != nil {
		return sess, err
	}

	key := sessionKey(&sess)

	err = b.db.Update(func(tx *bolt.Tx) error {
		err := tx.Bucket([]byte(sessionBucket)).Put(key, value)
		if err != nil {
			return err
		}

		return tx.Bucket([]byte(indexBucket)).Put([]byte(sess.ID), key)
	})

	return sess, err
}

func (b *Bolt) Get(
	_ context.Context,
	id string,
) (models.CompletedSession, error) {
	var sess models.CompletedSession

	err := b.db.View(func(tx *bolt.Tx) error {
		var err error

		sess, _, err = lookup(tx, id)

		return err
	})

	return sess, err
}

func (b *Bolt) List(
	_ context.Context,
	f Filter,
) ([]models.CompletedSession, error) {
	var sessions []models.CompletedSession

	err := b.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(sessionBucket)).Cursor()

		var k, v []byte

		if f.Until.IsZero() {
			k, v = c.Last()
		} else {
			// every key created at or before Until sorts below this bound
			bound := timeutil.ToKey(f.Until.Add(time.Nanosecond))

			if k, _ = c.Seek(bound); k == nil {
				k, v = c.Last()
			} else {
				k, v = c.Prev()
			}
		}

		var floor []byte
		if !f.Since.IsZero() {
			floor = timeutil.ToKey(f.Since)
		}

		for ; k != nil; k, v = c.Prev() {
			if floor != nil && bytes.Compare(k, floor) < 0 {
				break
			}

			var sess models.CompletedSession

			if err := json.Unmarshal(v, &sess); err != nil {
				return errCorruptRecord.Fmt(string(k))
			}

			sessions = append(sessions, sess)

			if f.Limit > 0 && len(sessions) == f.Limit {
				break
			}
		}

		return nil
	})

	return sessions, err
}

func (b *Bolt) Update(
	_ context.Context,
	id string,
	upd models.SessionUpdate,
) (models.CompletedSession, error) {
	var sess models.CompletedSession

	err := b.db.Update(func(tx *bolt.Tx) error {
		var (
			key []byte
			err error
		)

		sess, key, err = lookup(tx, id)
		if err != nil {
			return err
		}

		if err = upd.Apply(&sess); err != nil {
			return err
		}

		value, err := json.Marshal(sess)
		if err != nil {
			return err
		}

		return tx.Bucket([]byte(sessionBucket)).Put(key, value)
	})

	return sess, err
}

func (b *Bolt) Delete(_ context.Context, id string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		key := tx.Bucket([]byte(indexBucket)).Get([]byte(id))
		if key == nil {
			return ErrNotFound
		}

		err := tx.Bucket([]byte(sessionBucket)).Delete(key)
		if err != nil {
			return err
		}

		return tx.Bucket([]byte(indexBucket)).Delete([]byte(id))
	})
}

func (b *Bolt) Close() error {
	return b.db.Close()
}

// lookup resolves an id through the index bucket. The returned key is a copy
// and stays valid after the transaction ends.
func lookup(
	tx *bolt.Tx,
	id string,
) (models.CompletedSession, []byte, error) {
	var sess models.CompletedSession

	key := tx.Bucket([]byte(indexBucket)).Get([]byte(id))
	if key == nil {
		return sess, nil, ErrNotFound
	}

	value := tx.Bucket([]byte(sessionBucket)).Get(key)
	if value == nil {
		return sess, nil, ErrNotFound
	}

	if err := json.Unmarshal(value, &sess); err != nil {
		return sess, nil, errCorruptRecord.Fmt(id)
	}

	return sess, bytes.Clone(key), nil
}
