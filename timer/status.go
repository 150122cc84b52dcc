package timer

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ayoisaiah/tasktimer/internal/osutil"
	"github.com/ayoisaiah/tasktimer/ledger"
)

// Status describes a running timer for other processes, such as a status bar
// or the status command.
type Status struct {
	UpdatedAt    time.Time     `json:"updated_at"`
	Mode         ledger.Mode   `json:"mode"`
	State        string        `json:"state"`
	VendorTaskID string        `json:"vendor_task_id"`
	SessionName  string        `json:"session_name"`
	LedgerError  string        `json:"ledger_error,omitempty"`
	MirrorError  string        `json:"mirror_error,omitempty"`
	Elapsed      time.Duration `json:"elapsed"`
	Remaining    time.Duration `json:"remaining"`
	Target       time.Duration `json:"target"`
	Pending      time.Duration `json:"pending"`
}

// NewStatus captures the state of c and, if non-nil, the sync state of rec.
func NewStatus(
	c *Controller,
	rec *Recorder,
	vendorTaskID, sessionName string,
	now time.Time,
) Status {
	s := Status{
		UpdatedAt:    now,
		Mode:         c.Mode(),
		State:        c.State().String(),
		VendorTaskID: vendorTaskID,
		SessionName:  sessionName,
		Elapsed:      c.Elapsed(),
		Remaining:    c.Remaining(),
		Target:       c.Target(),
	}

	if rec != nil {
		sync := rec.Status()
		s.Pending = sync.Pending

		if sync.LedgerErr != nil {
			s.LedgerError = sync.LedgerErr.Error()
		}

		if sync.MirrorErr != nil {
			s.MirrorError = sync.MirrorErr.Error()
		}
	}

	return s
}

// WriteStatusFile replaces the status file at path with s.
func WriteStatusFile(path string, s Status) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(path), osutil.DirPermission)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"

	err = os.WriteFile(tmp, b, 0o600)
	if err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

// ReadStatusFile reads the status file at path. A missing file reports
// ok == false without an error, since it means no timer is running.
func ReadStatusFile(path string) (s Status, ok bool, err error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, false, nil
	}

	if err != nil {
		return s, false, err
	}

	err = json.Unmarshal(b, &s)
	if err != nil {
		return s, false, err
	}

	return s, true, nil
}

// RemoveStatusFile deletes the status file, ignoring a missing file.
func RemoveStatusFile(path string) error {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}
