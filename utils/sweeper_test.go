package utils

import (
	"testing"
	"time"
)

func TestStartCheckInSweeperNilDB(t *testing.T) {
	// Starting before the database is wired must be a no-op, not a crash.
	StartCheckInSweeper(nil, time.Minute)
	StartCheckInSweeper(nil, 0)
}
