package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a row doesn't exist or isn't owned by
	// the caller. Handlers map it to 404 without distinguishing the two,
	// so other users' rows are never revealed to exist.
	ErrNotFound = errors.New("record not found")

	// ErrAnalysisFailed is returned when the AI response is malformed or
	// unparseable. Not retried; the user is asked to retry or enter data
	// manually.
	ErrAnalysisFailed = errors.New("could not analyze image")
)

// QuotaError reports a daily AI action limit that has been reached.
type QuotaError struct {
	Action string
	Used   int
	Limit  int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("Daily %s limit reached (%d/%d)", e.Action, e.Used, e.Limit)
}
