// Package store provides the concrete ledger backends: an embedded BoltDB file
// (the default) and SQLite.
package store

import (
	"errors"
	"fmt"

	"github.com/ayoisaiah/tasktimer/internal/apperr"
	"github.com/ayoisaiah/tasktimer/internal/clock"
	"github.com/ayoisaiah/tasktimer/ledger"
)

// Driver names a ledger backend.
type Driver string

const (
	DriverBolt   Driver = "bolt"
	DriverSQLite Driver = "sqlite"
)

var errUnknownDriver = &apperr.Error{
	Kind:    apperr.KindValidation,
	Message: "unknown ledger driver %q: must be bolt or sqlite",
}

var errLedgerLocked = errors.New(
	"is tasktimer already running? Only one instance can write to the ledger at a time",
)

// Open opens the ledger at path using the given driver.
func Open(driver Driver, path string, clk clock.Clock) (ledger.Ledger, error) {
	if clk == nil {
		clk = clock.Real{}
	}

	switch driver {
	case DriverBolt, "":
		return OpenBolt(path, clk)
	case DriverSQLite:
		return OpenSQLite(path, clk)
	default:
		return nil, errUnknownDriver.Fmt(driver)
	}
}

// persistErr passes ledger errors through untouched and wraps everything else
// as a persistence failure.
func persistErr(op string, err error) error {
	if err == nil {
		return nil
	}

	if apperr.KindOf(err) != apperr.KindUnknown {
		return err
	}

	return apperr.ErrPersistence.Wrap(fmt.Errorf("%s: %w", op, err))
}
