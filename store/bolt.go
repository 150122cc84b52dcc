package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/tasktimer/internal/clock"
	"github.com/ayoisaiah/tasktimer/ledger"
)

var (
	taskBucket    = []byte("tasks")
	taskKeyBucket = []byte("task_keys")
	sessionBucket = []byte("sessions")
)

// taskRecord is the stored form of a task. Sessions are stored separately and
// referenced in order.
type taskRecord struct {
	CreatedAt    time.Time `json:"created_at"`
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	VendorTaskID string    `json:"vendor_task_id"`
	SessionIDs   []string  `json:"session_ids"`
}

// Bolt is a BoltDB ledger. BoltDB allows a single writer at a time, so every
// read-modify-write below runs inside one Update transaction and cannot
// interleave with another.
type Bolt struct {
	db  *bolt.DB
	clk clock.Clock
}

// OpenBolt creates or opens a BoltDB ledger at path and locks it.
func OpenBolt(path string, clk clock.Clock) (*Bolt, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		path,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errLedgerLocked
		}

		return nil, persistErr("open ledger", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{taskBucket, taskKeyBucket, sessionBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, persistErr("create buckets", err)
	}

	return &Bolt{db: db, clk: clk}, nil
}

func taskKey(projectID, vendorTaskID string) []byte {
	return []byte(projectID + "\x00" + vendorTaskID)
}

func getJSON(b *bolt.Bucket, key string, v any) (bool, error) {
	raw := b.Get([]byte(key))
	if raw == nil {
		return false, nil
	}

	return true, json.Unmarshal(raw, v)
}

func putJSON(b *bolt.Bucket, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return b.Put([]byte(key), raw)
}

// loadTask assembles a task and its sessions in order.
func loadTask(tx *bolt.Tx, id string) (*ledger.Task, error) {
	var rec taskRecord

	found, err := getJSON(tx.Bucket(taskBucket), id, &rec)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, ledger.ErrTaskNotFound.Fmt(id)
	}

	task := &ledger.Task{
		ID:           rec.ID,
		ProjectID:    rec.ProjectID,
		VendorTaskID: rec.VendorTaskID,
		CreatedAt:    rec.CreatedAt,
		Sessions:     make([]*ledger.Session, 0, len(rec.SessionIDs)),
	}

	sessions := tx.Bucket(sessionBucket)

	for _, sid := range rec.SessionIDs {
		var sess ledger.Session

		found, err := getJSON(sessions, sid, &sess)
		if err != nil {
			return nil, err
		}

		if found {
			task.Sessions = append(task.Sessions, &sess)
		}
	}

	return task, nil
}

func (c *Bolt) FindOrCreateTask(
	_ context.Context,
	projectID, vendorTaskID string,
) (*ledger.Task, error) {
	if err := ledger.ValidateTaskKey(projectID, vendorTaskID); err != nil {
		return nil, err
	}

	var task *ledger.Task

	err := c.db.Update(func(tx *bolt.Tx) error {
		keys := tx.Bucket(taskKeyBucket)
		key := taskKey(projectID, vendorTaskID)

		id := string(keys.Get(key))
		if id == "" {
			id = uuid.NewString()

			rec := taskRecord{
				ID:           id,
				ProjectID:    projectID,
				VendorTaskID: vendorTaskID,
				CreatedAt:    c.clk.Now(),
			}

			if err := putJSON(tx.Bucket(taskBucket), id, rec); err != nil {
				return err
			}

			if err := keys.Put(key, []byte(id)); err != nil {
				return err
			}
		}

		var err error

		task, err = loadTask(tx, id)

		return err
	})

	return task, persistErr("find or create task", err)
}

func (c *Bolt) CreateSession(
	_ context.Context,
	taskID, name string,
) (*ledger.Session, error) {
	if err := ledger.ValidateNewSession(taskID, name); err != nil {
		return nil, err
	}

	var sess *ledger.Session

	err := c.db.Update(func(tx *bolt.Tx) error {
		task, err := loadTask(tx, taskID)
		if err != nil {
			return err
		}

		var maxOrder int
		for _, s := range task.Sessions {
			maxOrder = max(maxOrder, s.Order)
		}

		now := c.clk.Now()
		sess = &ledger.Session{
			ID:        uuid.NewString(),
			TaskID:    taskID,
			Name:      name,
			Order:     maxOrder + 1,
			CreatedAt: now,
			UpdatedAt: now,
			Segments:  []ledger.Segment{},
		}

		if err := putJSON(tx.Bucket(sessionBucket), sess.ID, sess); err != nil {
			return err
		}

		var rec taskRecord
		if _, err := getJSON(tx.Bucket(taskBucket), taskID, &rec); err != nil {
			return err
		}

		rec.SessionIDs = append(rec.SessionIDs, sess.ID)

		return putJSON(tx.Bucket(taskBucket), taskID, rec)
	})
	if err != nil {
		return nil, persistErr("create session", err)
	}

	return sess, nil
}

func (c *Bolt) AppendDuration(
	_ context.Context,
	sessionID string,
	mode ledger.Mode,
	delta time.Duration,
) (*ledger.Session, error) {
	if err := ledger.ValidateAppend(sessionID, mode, delta); err != nil {
		return nil, err
	}

	var sess ledger.Session

	err := c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionBucket)

		found, err := getJSON(b, sessionID, &sess)
		if err != nil {
			return err
		}

		if !found {
			return ledger.ErrSessionNotFound.Fmt(sessionID)
		}

		sess.AddDuration(mode, delta.Milliseconds(), c.clk.Now())

		return putJSON(b, sessionID, &sess)
	})
	if err != nil {
		return nil, persistErr("append duration", err)
	}

	return &sess, nil
}

func (c *Bolt) GetTask(_ context.Context, taskID string) (*ledger.Task, error) {
	if taskID == "" {
		return nil, ledger.ErrMissingTask
	}

	var task *ledger.Task

	err := c.db.View(func(tx *bolt.Tx) error {
		var err error

		task, err = loadTask(tx, taskID)

		return err
	})

	return task, persistErr("get task", err)
}

func (c *Bolt) GetSession(
	_ context.Context,
	sessionID string,
) (*ledger.Session, error) {
	if sessionID == "" {
		return nil, ledger.ErrMissingSession
	}

	var sess ledger.Session

	err := c.db.View(func(tx *bolt.Tx) error {
		found, err := getJSON(tx.Bucket(sessionBucket), sessionID, &sess)
		if err != nil {
			return err
		}

		if !found {
			return ledger.ErrSessionNotFound.Fmt(sessionID)
		}

		return nil
	})
	if err != nil {
		return nil, persistErr("get session", err)
	}

	return &sess, nil
}

func (c *Bolt) ListTasks(
	_ context.Context,
	projectID string,
) ([]*ledger.Task, error) {
	if projectID == "" {
		return nil, ledger.ErrMissingProject
	}

	var tasks []*ledger.Task

	err := c.db.View(func(tx *bolt.Tx) error {
		prefix := []byte(projectID + "\x00")
		cur := tx.Bucket(taskKeyBucket).Cursor()

		for k, v := cur.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = cur.Next() {
			task, err := loadTask(tx, string(v))
			if err != nil {
				return err
			}

			tasks = append(tasks, task)
		}

		return nil
	})
	if err != nil {
		return nil, persistErr("list tasks", err)
	}

	return tasks, nil
}

// Close releases the database lock.
func (c *Bolt) Close() error {
	return c.db.Close()
}

var _ ledger.Ledger = (*Bolt)(nil)
