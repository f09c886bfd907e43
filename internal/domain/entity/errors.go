package entity

import "errors"

var (
	// ErrInvalidDateRange reports a range expression where neither token
	// parsed as a date. The caller should re-prompt, not proceed unbounded.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrProjectNotFound reports a named project missing at query time. It
	// aborts the whole report because it indicates an operator input error.
	ErrProjectNotFound = errors.New("project not found")

	// ErrNoData reports a valid scope that matched zero log entries. No
	// document is written in that case.
	ErrNoData = errors.New("no log entries matched the filter")
)
