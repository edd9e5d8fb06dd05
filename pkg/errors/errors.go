package errors

import (
	"fmt"
)

// FriendlyError is an error whose message can be shown directly to the user.
type FriendlyError interface {
	error
	FriendlyMessage() string
}

type friendlyError struct {
	msg string
}

// NewFriendlyError creates an error whose message is formatted from
// `template` and meant to be shown to the user as is.
func NewFriendlyError(template string, a ...interface{}) error {
	return friendlyError{fmt.Sprintf(template, a...)}
}

func (err friendlyError) Error() string {
	return err.msg
}

func (err friendlyError) FriendlyMessage() string {
	return err.msg
}

// New creates a new error from the given format string.
func New(format string, a ...interface{}) error {
	return fmt.Errorf(format, a...)
}

type withContext struct {
	err     error
	context string
}

// WithContext wraps `err` with a short description of what was being done
// when it occurred. The resulting message is "<context>: <err>".
func WithContext(err error, context string) error {
	if err == nil {
		return nil
	}
	return withContext{err: err, context: context}
}

func (err withContext) Error() string {
	return fmt.Sprintf("%s: %s", err.context, err.err)
}

func (err withContext) Unwrap() error {
	return err.err
}

// RootCause returns the innermost error wrapped by WithContext.
func RootCause(err error) error {
	for {
		ctxErr, ok := err.(withContext)
		if !ok {
			return err
		}
		err = ctxErr.err
	}
}
