package repos

import (
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	sqlite "modernc.org/sqlite"
)

// TransientError marks a store failure that was retried and still failed
// (lock contention, busy database). Callers treat it as fatal for the operation.
type TransientError struct{ Err error }

func (e *TransientError) Error() string { return "transient store error: " + e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// Primary sqlite result codes worth retrying.
const (
	codeBusy   = 5
	codeLocked = 6
)

func isTransient(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case codeBusy, codeLocked:
			return true
		}
	}
	return false
}

// InTx runs fn as a unit of work: all writes commit together or none do.
func InTx(db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// WithRetry re-runs fn on busy/locked store errors with linear backoff.
// Business errors pass through untouched; exhausted retries surface as
// *TransientError, never silently dropped.
func WithRetry(max int, backoff time.Duration, fn func() error) error {
	var err error
	for attempt := 0; attempt <= max; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff * time.Duration(attempt))
		}
		err = fn()
		if err == nil || !isTransient(err) {
			return err
		}
	}
	return &TransientError{Err: err}
}
