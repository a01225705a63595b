package timeclock

import "errors"

// Domain errors surfaced to the HTTP layer, which maps them onto statuses.
var (
	ErrAlreadyActive    = errors.New("an active session already exists")
	ErrNoActiveSession  = errors.New("no active session")
	ErrAlreadyOnBreak   = errors.New("session is already on break")
	ErrNotOnBreak       = errors.New("session is not on break")
	ErrCompanyNotFound  = errors.New("company not found")
	ErrCompanySuspended = errors.New("company is suspended")
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidAction    = errors.New("invalid clock action")
	ErrInvalidRange     = errors.New("clock_out_time must be after clock_in_time")
)
