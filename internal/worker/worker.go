// Package worker provides the background-goroutine embedding idiom used
// throughout this client: a component embeds Worker, calls Go to launch its
// loop, and the loop selects on HaltCh to notice a shutdown request.
package worker

import (
	"gopkg.in/tomb.v1"
)

// Worker tracks the lifetime of a single background goroutine. It is
// intended to be embedded by value in components that run one loop, in the
// style of the session and send-queue workers this client is derived from.
type Worker struct {
	t tomb.Tomb
}

// Go spawns fn as the tracked goroutine. fn should select on HaltCh and
// return promptly once it fires.
func (w *Worker) Go(fn func()) {
	w.t.Go(func() error {
		fn()
		return nil
	})
}

// HaltCh returns the channel that closes when Halt is called.
func (w *Worker) HaltCh() <-chan struct{} {
	return w.t.Dying()
}

// Halt signals the goroutine to stop and blocks until it has exited. It is
// safe to call more than once; only the first call has effect.
func (w *Worker) Halt() {
	w.t.Kill(nil)
	w.t.Wait()
}
