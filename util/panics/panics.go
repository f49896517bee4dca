package panics

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/dagcore/dagd/infrastructure/logger"
)

const exitHandlerTimeout = 5 * time.Second

// HandlePanic is meant to be deferred at the top of a goroutine. If the
// goroutine panics, the panic is logged together with the stack trace of
// the goroutine that spawned it, and the process shuts down.
func HandlePanic(log *logger.Logger, goroutineStackTrace []byte) {
	err := recover()
	if err == nil {
		return
	}

	exit(log, fmt.Sprintf("Fatal error: %+v", err), debug.Stack(), goroutineStackTrace)
}

// GoroutineWrapperFunc returns a spawn function that runs f in a new
// goroutine guarded by HandlePanic. The spawn site's stack trace is
// captured so panics can be traced back to where the goroutine started.
func GoroutineWrapperFunc(log *logger.Logger) func(name string, f func()) {
	return func(name string, f func()) {
		stackTrace := debug.Stack()
		go func() {
			defer HandlePanic(log, stackTrace)
			f()
		}()
	}
}

// AfterFuncWrapperFunc returns a panic-guarded replacement for
// time.AfterFunc
func AfterFuncWrapperFunc(log *logger.Logger) func(d time.Duration, f func()) *time.Timer {
	return func(d time.Duration, f func()) *time.Timer {
		stackTrace := debug.Stack()
		return time.AfterFunc(d, func() {
			defer HandlePanic(log, stackTrace)
			f()
		})
	}
}

// Exit logs the given reason and shuts the process down cleanly
func Exit(log *logger.Logger, reason string) {
	exit(log, reason, nil, nil)
}

// exit logs the reason and any stack traces, gives the log backend a
// bounded amount of time to flush, and terminates the process.
func exit(log *logger.Logger, reason string, currentThreadStackTrace []byte, goroutineStackTrace []byte) {
	exitHandlerDone := make(chan struct{})
	go func() {
		log.Criticalf("Exiting: %s", reason)
		if goroutineStackTrace != nil {
			log.Criticalf("Goroutine stack trace: %s", goroutineStackTrace)
		}
		if currentThreadStackTrace != nil {
			log.Criticalf("Stack trace: %s", currentThreadStackTrace)
		}
		log.Backend().Close()
		close(exitHandlerDone)
	}()

	select {
	case <-time.After(exitHandlerTimeout):
		fmt.Fprintln(os.Stderr, "Couldn't exit gracefully.")
	case <-exitHandlerDone:
	}
	fmt.Print("Exiting...")
	os.Exit(1)
}
