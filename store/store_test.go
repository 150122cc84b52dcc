package store_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/tasktimer/internal/apperr"
	"github.com/ayoisaiah/tasktimer/internal/clock"
	"github.com/ayoisaiah/tasktimer/ledger"
	"github.com/ayoisaiah/tasktimer/store"
)

var drivers = []store.Driver{store.DriverBolt, store.DriverSQLite}

func openLedger(t *testing.T, driver store.Driver) (ledger.Ledger, *clock.Fake) {
	t.Helper()

	clk := clock.NewFake(time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC))

	l, err := store.Open(driver, filepath.Join(t.TempDir(), "ledger.db"), clk)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = l.Close()
	})

	return l, clk
}

func forEachDriver(t *testing.T, fn func(t *testing.T, l ledger.Ledger, clk *clock.Fake)) {
	t.Helper()

	for _, d := range drivers {
		t.Run(string(d), func(t *testing.T) {
			l, clk := openLedger(t, d)
			fn(t, l, clk)
		})
	}
}

func TestFindOrCreateTaskIsIdempotent(t *testing.T) {
	forEachDriver(t, func(t *testing.T, l ledger.Ledger, _ *clock.Fake) {
		ctx := context.Background()

		first, err := l.FindOrCreateTask(ctx, "p1", "v1")
		require.NoError(t, err)

		second, err := l.FindOrCreateTask(ctx, "p1", "v1")
		require.NoError(t, err)

		other, err := l.FindOrCreateTask(ctx, "p2", "v1")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.NotEqual(t, first.ID, other.ID)
		assert.Equal(t, "v1", first.VendorTaskID)
		assert.Empty(t, first.Sessions)
	})
}

func TestFindOrCreateTaskConcurrent(t *testing.T) {
	forEachDriver(t, func(t *testing.T, l ledger.Ledger, _ *clock.Fake) {
		const callers = 8

		var wg sync.WaitGroup

		ids := make([]string, callers)
		errs := make([]error, callers)

		for i := range callers {
			wg.Add(1)

			go func(i int) {
				defer wg.Done()

				task, err := l.FindOrCreateTask(context.Background(), "p1", "v1")
				errs[i] = err

				if task != nil {
					ids[i] = task.ID
				}
			}(i)
		}

		wg.Wait()

		for i := range callers {
			require.NoError(t, errs[i])
			assert.Equal(t, ids[0], ids[i])
		}

		tasks, err := l.ListTasks(context.Background(), "p1")
		require.NoError(t, err)
		assert.Len(t, tasks, 1)
	})
}

func TestCreateSessionOrder(t *testing.T) {
	forEachDriver(t, func(t *testing.T, l ledger.Ledger, clk *clock.Fake) {
		ctx := context.Background()

		task, err := l.FindOrCreateTask(ctx, "p1", "v1")
		require.NoError(t, err)

		for i, name := range []string{"morning", "afternoon", "evening"} {
			clk.Advance(time.Hour)

			sess, err := l.CreateSession(ctx, task.ID, name)
			require.NoError(t, err)
			assert.Equal(t, i+1, sess.Order)
			assert.Equal(t, name, sess.Name)
			assert.Empty(t, sess.Segments)
		}

		task, err = l.GetTask(ctx, task.ID)
		require.NoError(t, err)
		require.Len(t, task.Sessions, 3)
		assert.Equal(t, "evening", task.Latest().Name)

		for i, s := range task.Sessions {
			assert.Equal(t, i+1, s.Order)
		}
	})
}

func TestAppendDuration(t *testing.T) {
	forEachDriver(t, func(t *testing.T, l ledger.Ledger, clk *clock.Fake) {
		ctx := context.Background()

		task, err := l.FindOrCreateTask(ctx, "p1", "v1")
		require.NoError(t, err)

		sess, err := l.CreateSession(ctx, task.ID, "deep work")
		require.NoError(t, err)

		clk.Advance(time.Minute)

		got, err := l.AppendDuration(ctx, sess.ID, ledger.Focus, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, time.Minute, got.Total(ledger.Focus))
		assert.Zero(t, got.Total(ledger.Break))

		_, err = l.AppendDuration(ctx, sess.ID, ledger.Break, 30*time.Second)
		require.NoError(t, err)

		got, err = l.AppendDuration(ctx, sess.ID, ledger.Focus, 1500*time.Millisecond)
		require.NoError(t, err)

		assert.Equal(t, []ledger.Segment{
			{Type: ledger.Focus, AccumulatedMs: 61500},
			{Type: ledger.Break, AccumulatedMs: 30000},
		}, got.Segments)

		stored, err := l.GetSession(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, got.Segments, stored.Segments)
		assert.True(t, stored.UpdatedAt.Equal(clk.Now()))
	})
}

func TestLedgerErrors(t *testing.T) {
	forEachDriver(t, func(t *testing.T, l ledger.Ledger, _ *clock.Fake) {
		ctx := context.Background()

		_, err := l.FindOrCreateTask(ctx, "", "v1")
		assert.ErrorIs(t, err, apperr.ErrValidation)

		_, err = l.FindOrCreateTask(ctx, "p1", " ")
		assert.ErrorIs(t, err, apperr.ErrValidation)

		_, err = l.CreateSession(ctx, "missing", "name")
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		_, err = l.AppendDuration(ctx, "missing", ledger.Focus, time.Second)
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		_, err = l.AppendDuration(ctx, "s", ledger.Focus, 0)
		assert.ErrorIs(t, err, apperr.ErrValidation)

		_, err = l.GetTask(ctx, "missing")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := store.Open("postgres", filepath.Join(t.TempDir(), "x.db"), nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestBoltLockedByAnotherInstance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	first, err := store.OpenBolt(path, clock.Real{})
	require.NoError(t, err)

	defer first.Close()

	_, err = store.OpenBolt(path, clock.Real{})
	assert.Error(t, err)
}
