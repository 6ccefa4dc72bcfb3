package tasks

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeinfocus/focus/internal/models"
	"github.com/lifeinfocus/focus/internal/testutil"
	"github.com/lifeinfocus/focus/store"
)

var base = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

type TestCase struct {
	Name       string
	GoldenFile string
	Snapshot   []byte
}

func (t TestCase) Output() (out []byte, name string) {
	return t.Snapshot, t.GoldenFile
}

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

func newTestStore(t *testing.T) *store.Bolt {
	t.Helper()

	ts, err := store.NewBolt(filepath.Join(t.TempDir(), "focus.db"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = ts.Close() })

	return ts
}

func seed(t *testing.T, ts store.TaskStore, names ...string) []models.CompletedSession {
	t.Helper()

	out := make([]models.CompletedSession, len(names))

	for i, name := range names {
		sess, err := ts.Create(context.Background(), models.CompletedSession{
			TaskName:      name,
			SecondsWorked: 1500,
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)

		out[i] = sess
	}

	return out
}

func TestPrintJSON(t *testing.T) {
	cases := []struct {
		name     string
		sessions []models.CompletedSession
	}{
		{
			name: "list_json",
			sessions: []models.CompletedSession{
				{
					ID:            "b",
					TaskName:      "review",
					SecondsWorked: 1500,
					CreatedAt:     base.Add(time.Hour),
				},
				{
					ID:            "a",
					TaskName:      "write docs",
					OwnerID:       "ada",
					SecondsWorked: 1500,
					CreatedAt:     base,
				},
			},
		},
		{
			name: "list_json_empty",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer

			require.NoError(t, printJSON(&buf, tc.sessions))

			testutil.CompareGoldenFile(t, TestCase{
				Name:       tc.name,
				GoldenFile: tc.name,
				Snapshot:   buf.Bytes(),
			})
		})
	}
}

func TestListTable(t *testing.T) {
	ts := newTestStore(t)
	seed(t, ts, "write docs", "review")

	var buf bytes.Buffer

	m := New(ts, &buf, strings.NewReader(""))
	require.NoError(t, m.List(context.Background(), time.Time{}, time.Time{}, 0, false))

	out := buf.String()
	assert.Contains(t, out, "TIME WORKED")
	assert.Contains(t, out, "write docs")
	assert.Contains(t, out, "25m 00s")
	assert.Less(t, strings.Index(out, "review"), strings.Index(out, "write docs"),
		"newest first")
}

func TestListEmpty(t *testing.T) {
	var buf bytes.Buffer

	m := New(newTestStore(t), &buf, strings.NewReader(""))
	require.NoError(t, m.List(context.Background(), time.Time{}, time.Time{}, 0, false))

	assert.Contains(t, buf.String(), noSessionsMsg)
}

func TestAdd(t *testing.T) {
	ts := newTestStore(t)

	var buf bytes.Buffer

	m := New(ts, &buf, strings.NewReader(""))

	sess, err := m.Add(context.Background(), " pairing ", 45*time.Minute, base)
	require.NoError(t, err)
	assert.Equal(t, "pairing", sess.TaskName)
	assert.Equal(t, 2700, sess.SecondsWorked)

	_, err = m.Add(context.Background(), "pairing", 0, base)
	assert.ErrorIs(t, err, errInvalidWorked)
}

func TestEdit(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed", func(t *testing.T) {
		ts := newTestStore(t)
		sessions := seed(t, ts, "write dcos")

		var buf bytes.Buffer

		m := New(ts, &buf, strings.NewReader("\n"))

		got, err := m.Edit(ctx, sessions[0].ID, models.SessionUpdate{
			TaskName: testutil.Ptr("write docs"),
		})
		require.NoError(t, err)
		assert.Equal(t, "write docs", got.TaskName)
		assert.Equal(t, 1500, got.SecondsWorked)
	})

	t.Run("declined", func(t *testing.T) {
		ts := newTestStore(t)
		sessions := seed(t, ts, "write dcos")

		m := New(ts, &bytes.Buffer{}, strings.NewReader("n\n"))

		_, err := m.Edit(ctx, sessions[0].ID, models.SessionUpdate{
			SecondsWorked: testutil.Ptr(600),
		})
		require.ErrorIs(t, err, errAborted)

		stored, err := ts.Get(ctx, sessions[0].ID)
		require.NoError(t, err)
		assert.Equal(t, 1500, stored.SecondsWorked)
	})

	t.Run("nothing to change", func(t *testing.T) {
		m := New(newTestStore(t), &bytes.Buffer{}, strings.NewReader(""))

		_, err := m.Edit(ctx, "any", models.SessionUpdate{})
		assert.ErrorIs(t, err, errNoUpdate)
	})

	t.Run("unknown id", func(t *testing.T) {
		m := New(newTestStore(t), &bytes.Buffer{}, strings.NewReader(""))

		_, err := m.Edit(ctx, "missing", models.SessionUpdate{
			SecondsWorked: testutil.Ptr(60),
		})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("range", func(t *testing.T) {
		ts := newTestStore(t)
		seed(t, ts, "a", "b", "c")

		m := New(ts, &bytes.Buffer{}, strings.NewReader(""), AssumeYes(true))

		n, err := m.Delete(ctx, nil, base, base.Add(90*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		left, err := ts.List(ctx, store.Filter{})
		require.NoError(t, err)
		require.Len(t, left, 1)
		assert.Equal(t, "c", left[0].TaskName)
	})

	t.Run("ids", func(t *testing.T) {
		ts := newTestStore(t)
		sessions := seed(t, ts, "a", "b")

		m := New(ts, &bytes.Buffer{}, strings.NewReader("\n"))

		n, err := m.Delete(ctx, []string{sessions[1].ID}, time.Time{}, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		_, err = ts.Get(ctx, sessions[1].ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		m := New(newTestStore(t), &bytes.Buffer{}, strings.NewReader(""), AssumeYes(true))

		_, err := m.Delete(ctx, []string{"missing"}, time.Time{}, time.Time{})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("closed input cancels", func(t *testing.T) {
		ts := newTestStore(t)
		seed(t, ts, "a")

		m := New(ts, &bytes.Buffer{}, strings.NewReader(""))

		_, err := m.Delete(ctx, nil, time.Time{}, time.Time{})
		assert.ErrorIs(t, err, errAborted)
	})
}
