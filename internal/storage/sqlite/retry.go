package sqlite

import (
	"strings"
	"time"
)

const busyRetries = 5

// retryOnBusy retries fn with backoff while the database reports a busy or
// locked state. WAL mode makes this rare but a concurrent writer can still
// hit it during checkpointing.
func retryOnBusy(fn func() error) error {
	var err error
	for attempt := 0; attempt < busyRetries; attempt++ {
		err = fn()
		if err == nil || !isBusy(err) {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
	}
	return err
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database table is locked")
}
