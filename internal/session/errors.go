package session

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when a session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// ErrBusy is returned when a session already has a call in flight. At most
// one AI call may be outstanding per session.
var ErrBusy = errors.New("session has a request in flight")

// ValidationError reports missing or invalid user input. The session stays in
// its current stage.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationErr(msg string) error {
	return &ValidationError{Msg: msg}
}

// StageError reports an operation applied in the wrong stage.
type StageError struct {
	Op      string
	Current Stage
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s not allowed in stage %q", e.Op, e.Current)
}

func stageErr(op string, current Stage) error {
	return &StageError{Op: op, Current: current}
}

// PersistenceError wraps a failed interview insert at session completion. The
// hint points at the most common deployment cause.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("save interview: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Hint is a diagnostic appended to the user-facing message.
func (e *PersistenceError) Hint() string {
	return "check that the interviews table exists and that the database role may insert into it"
}
