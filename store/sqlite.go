package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ayoisaiah/tasktimer/internal/clock"
	"github.com/ayoisaiah/tasktimer/ledger"
)

//go:embed schema.sql
var schema string

// SQLite is a SQLite ledger. The connection pool is limited to one
// connection so that transactions are serialized.
type SQLite struct {
	db  *sql.DB
	clk clock.Clock
}

// OpenSQLite opens the database at path and initializes the schema.
func OpenSQLite(path string, clk clock.Clock) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=1000")
	if err != nil {
		return nil, persistErr("open ledger", err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, persistErr("initialize schema", err)
	}

	return &SQLite{db: db, clk: clk}, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func getSession(ctx context.Context, q queryer, id string) (*ledger.Session, error) {
	s := &ledger.Session{Segments: []ledger.Segment{}}

	err := q.QueryRowContext(ctx, `
		SELECT id, task_id, name, ord, created_at, updated_at
		FROM sessions WHERE id = ?
	`, id).Scan(&s.ID, &s.TaskID, &s.Name, &s.Order, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrSessionNotFound.Fmt(id)
	}

	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT type, accumulated_ms FROM segments
		WHERE session_id = ? ORDER BY rowid
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var seg ledger.Segment
		if err := rows.Scan(&seg.Type, &seg.AccumulatedMs); err != nil {
			return nil, err
		}

		s.Segments = append(s.Segments, seg)
	}

	return s, rows.Err()
}

func getTask(ctx context.Context, q queryer, id string) (*ledger.Task, error) {
	t := &ledger.Task{}

	err := q.QueryRowContext(ctx, `
		SELECT id, project_id, vendor_task_id, created_at FROM tasks WHERE id = ?
	`, id).Scan(&t.ID, &t.ProjectID, &t.VendorTaskID, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrTaskNotFound.Fmt(id)
	}

	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id FROM sessions WHERE task_id = ? ORDER BY ord
	`, id)
	if err != nil {
		return nil, err
	}

	var ids []string

	for rows.Next() {
		var sid string
		if err := rows.Scan(&sid); err != nil {
			rows.Close()
			return nil, err
		}

		ids = append(ids, sid)
	}

	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	t.Sessions = make([]*ledger.Session, 0, len(ids))

	for _, sid := range ids {
		s, err := getSession(ctx, q, sid)
		if err != nil {
			return nil, err
		}

		t.Sessions = append(t.Sessions, s)
	}

	return t, nil
}

func (s *SQLite) FindOrCreateTask(
	ctx context.Context,
	projectID, vendorTaskID string,
) (*ledger.Task, error) {
	if err := ledger.ValidateTaskKey(projectID, vendorTaskID); err != nil {
		return nil, err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, project_id, vendor_task_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (project_id, vendor_task_id) DO NOTHING
	`, uuid.NewString(), projectID, vendorTaskID, s.clk.Now())
	if err != nil {
		return nil, persistErr("find or create task", err)
	}

	var id string

	err = s.db.QueryRowContext(ctx, `
		SELECT id FROM tasks WHERE project_id = ? AND vendor_task_id = ?
	`, projectID, vendorTaskID).Scan(&id)
	if err != nil {
		return nil, persistErr("find or create task", err)
	}

	task, err := getTask(ctx, s.db, id)

	return task, persistErr("find or create task", err)
}

func (s *SQLite) CreateSession(
	ctx context.Context,
	taskID, name string,
) (*ledger.Session, error) {
	if err := ledger.ValidateNewSession(taskID, name); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, persistErr("create session", err)
	}
	defer tx.Rollback()

	var exists int

	err = tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM tasks WHERE id = ?`, taskID).
		Scan(&exists)
	if err != nil {
		return nil, persistErr("create session", err)
	}

	if exists == 0 {
		return nil, ledger.ErrTaskNotFound.Fmt(taskID)
	}

	var order int

	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(ord), 0) + 1 FROM sessions WHERE task_id = ?
	`, taskID).Scan(&order)
	if err != nil {
		return nil, persistErr("create session", err)
	}

	id := uuid.NewString()
	now := s.clk.Now()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, task_id, name, ord, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, taskID, name, order, now, now)
	if err != nil {
		return nil, persistErr("create session", err)
	}

	sess, err := getSession(ctx, tx, id)
	if err != nil {
		return nil, persistErr("create session", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, persistErr("create session", err)
	}

	return sess, nil
}

func (s *SQLite) AppendDuration(
	ctx context.Context,
	sessionID string,
	mode ledger.Mode,
	delta time.Duration,
) (*ledger.Session, error) {
	if err := ledger.ValidateAppend(sessionID, mode, delta); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, persistErr("append duration", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE sessions SET updated_at = ? WHERE id = ?
	`, s.clk.Now(), sessionID)
	if err != nil {
		return nil, persistErr("append duration", err)
	}

	if n, err := res.RowsAffected(); err != nil || n == 0 {
		if err != nil {
			return nil, persistErr("append duration", err)
		}

		return nil, ledger.ErrSessionNotFound.Fmt(sessionID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO segments (session_id, type, accumulated_ms) VALUES (?, ?, ?)
		ON CONFLICT (session_id, type)
		DO UPDATE SET accumulated_ms = accumulated_ms + excluded.accumulated_ms
	`, sessionID, string(mode), delta.Milliseconds())
	if err != nil {
		return nil, persistErr("append duration", err)
	}

	sess, err := getSession(ctx, tx, sessionID)
	if err != nil {
		return nil, persistErr("append duration", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, persistErr("append duration", err)
	}

	return sess, nil
}

func (s *SQLite) GetTask(ctx context.Context, taskID string) (*ledger.Task, error) {
	if taskID == "" {
		return nil, ledger.ErrMissingTask
	}

	task, err := getTask(ctx, s.db, taskID)

	return task, persistErr("get task", err)
}

func (s *SQLite) GetSession(
	ctx context.Context,
	sessionID string,
) (*ledger.Session, error) {
	if sessionID == "" {
		return nil, ledger.ErrMissingSession
	}

	sess, err := getSession(ctx, s.db, sessionID)

	return sess, persistErr("get session", err)
}

func (s *SQLite) ListTasks(
	ctx context.Context,
	projectID string,
) ([]*ledger.Task, error) {
	if projectID == "" {
		return nil, ledger.ErrMissingProject
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM tasks WHERE project_id = ? ORDER BY created_at, id
	`, projectID)
	if err != nil {
		return nil, persistErr("list tasks", err)
	}

	var ids []string

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, persistErr("list tasks", err)
		}

		ids = append(ids, id)
	}

	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, persistErr("list tasks", err)
	}

	tasks := make([]*ledger.Task, 0, len(ids))

	for _, id := range ids {
		t, err := getTask(ctx, s.db, id)
		if err != nil {
			return nil, persistErr("list tasks", err)
		}

		tasks = append(tasks, t)
	}

	return tasks, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

var _ ledger.Ledger = (*SQLite)(nil)
