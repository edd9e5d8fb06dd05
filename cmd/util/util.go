package util

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"

	"github.com/sidkik/template-sync/pkg/errors"
)

// Mocked for unit testing.
var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// HandleFatalError prints the error to the user and exits. Friendly errors
// are printed as is, and all other errors are marked as unexpected.
func HandleFatalError(err error) {
	log.WithError(err).Debug("Fatal error")

	if friendly, ok := errors.RootCause(err).(errors.FriendlyError); ok {
		fmt.Fprintln(stderr, friendly.FriendlyMessage())
	} else {
		fmt.Fprintf(stderr, "Unexpected error: %s\n", err)
	}
	exit(1)
}

// HandlePanic recovers from a panic in the current goroutine and exits with
// the same behavior as HandleFatalError. It must be deferred.
func HandlePanic() {
	if r := recover(); r != nil {
		log.WithField("stack", string(debug.Stack())).Debug("Recovered panic")
		HandleFatalError(errors.New("panic: %v", r))
	}
}
