// Package mirror pushes cumulative focused minutes to an external task record.
// The mirror is a best-effort projection of the ledger, never the system of
// record.
package mirror

import (
	"context"
	"fmt"
	"math"

	"github.com/ayoisaiah/tasktimer/internal/apperr"
)

// Client reads and writes the numeric "minutes spent" field of a vendor task.
type Client interface {
	ReadMinutes(ctx context.Context, vendorTaskID string) (float64, error)
	WriteMinutes(ctx context.Context, vendorTaskID string, minutes float64) error
}

// Increment adds deltaMinutes to the remote field with a read followed by a
// write. It is not atomic: a concurrent writer between the two calls loses its
// update. Every failure is reported as an external sync error.
func Increment(
	ctx context.Context,
	c Client,
	vendorTaskID string,
	deltaMinutes float64,
) error {
	if vendorTaskID == "" {
		return errMissingVendorTask
	}

	if deltaMinutes <= 0 || math.IsNaN(deltaMinutes) {
		return nil
	}

	current, err := c.ReadMinutes(ctx, vendorTaskID)
	if err != nil {
		return syncErr(fmt.Errorf("read %s: %w", vendorTaskID, err))
	}

	err = c.WriteMinutes(ctx, vendorTaskID, current+deltaMinutes)
	if err != nil {
		return syncErr(fmt.Errorf("write %s: %w", vendorTaskID, err))
	}

	return nil
}

func syncErr(err error) error {
	if apperr.IsKind(err, apperr.KindExternalSync) {
		return err
	}

	return apperr.ErrExternalSync.Wrap(err)
}
