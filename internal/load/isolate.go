package load

import (
	"fmt"
	"io"
	"os"

	"gitlab.com/tozd/go/errors"
)

// ErrExited is returned by Isolate when the attempt ended its goroutine
// (runtime.Goexit) instead of returning.
var ErrExited = errors.New("load attempt exited before returning")

// PanicError carries the value recovered from a panicking attempt.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("load attempt panicked: %v", e.Value)
}

// Isolate runs fn while everything written to os.Stdout and os.Stderr is
// discarded. Panics become a *PanicError and runtime.Goexit becomes ErrExited.
// The output streams are restored before Isolate returns, on every path.
//
// fn runs on its own goroutine so that Goexit can be observed, but Isolate
// always waits for it: attempts never overlap.
func Isolate(fn func() error) error {
	release := captureOutput()
	defer release()

	done := make(chan error, 1)
	go func() {
		returned := false
		defer func() {
			if r := recover(); r != nil {
				done <- &PanicError{Value: r}
				return
			}
			if !returned {
				done <- ErrExited
			}
		}()

		err := fn()
		returned = true
		done <- err
	}()

	return <-done
}

// captureOutput points os.Stdout and os.Stderr at a pipe drained into
// io.Discard. If no pipe can be opened the streams are left untouched.
func captureOutput() (release func()) {
	r, w, err := os.Pipe()
	if err != nil {
		return func() {}
	}

	stdout, stderr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = w, w

	drained := make(chan struct{})
	go func() {
		_, _ = io.Copy(io.Discard, r)
		close(drained)
	}()

	return func() {
		os.Stdout, os.Stderr = stdout, stderr
		_ = w.Close()
		<-drained
		_ = r.Close()
	}
}
