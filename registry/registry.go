// Package registry implements the request/response correlation table that
// bridges the synchronous Client API to the asynchronous Transport
// boundary: RequestRegistry holds pending and completed slots, CallbackSink
// is the transport-facing adapter that completes them, and ResponseFuture
// is the caller-facing handle that waits on one.
package registry

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// RequestID is the opaque correlator minted by a Transport for each
// dispatched request.
type RequestID uint64

type slotState int

const (
	slotPending slotState = iota
	slotReady
	slotFailed
)

type slot struct {
	state   slotState
	payload []byte
	err     error
}

// ErrTimeout is returned by Take when the deadline elapses while the slot
// is still pending.
var ErrTimeout = errors.New("registry: timeout awaiting response")

// ErrUnknownID is returned by Take when id was never registered and no
// result has been stashed for it either.
var ErrUnknownID = errors.New("registry: unknown request id")

// Registry maps outstanding request IDs to pending slots or delivered
// payloads, and wakes waiters via a single condition variable.
//
// Invariants: every ID returned by a transport appears in the table exactly
// once and is removed at most once, by the ResponseFuture that owns it.
// Transitions are monotone: Pending -> Ready|Failed only.
type Registry struct {
	mu    sync.Mutex
	cond  *sync.Cond
	slots map[RequestID]*slot
}

// New returns an empty Registry.
func New() *Registry {
	r := &Registry{slots: make(map[RequestID]*slot)}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// InsertPending registers id as awaiting a response. If Complete already
// stashed a result for id, that result is kept for Take. It panics if id is
// already pending, since every ID must be inserted exactly once.
func (r *Registry) InsertPending(id RequestID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.slots[id]; ok {
		if s.state != slotPending {
			return
		}
		panic("registry: duplicate request id inserted")
	}
	r.slots[id] = &slot{state: slotPending}
}

// Complete transitions id to a terminal state and wakes any waiters. If id
// was never inserted, the result is stashed so a later InsertPending+Take
// still observes it — a transport is allowed to deliver a response before
// the caller has finished registering the ID.
func (r *Registry) Complete(id RequestID, payload []byte, resultErr error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[id]
	if !ok {
		s = &slot{}
		r.slots[id] = s
	}
	if resultErr != nil {
		s.state = slotFailed
		s.err = resultErr
	} else {
		s.state = slotReady
		s.payload = payload
	}
	r.cond.Broadcast()
}

// Take blocks while id's slot is pending and the deadline has not passed,
// then removes and returns the slot's outcome. A zero deadline means wait
// forever.
func (r *Registry) Take(id RequestID, deadline time.Time) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		s, ok := r.slots[id]
		if !ok {
			return nil, ErrUnknownID
		}
		switch s.state {
		case slotReady:
			delete(r.slots, id)
			return s.payload, nil
		case slotFailed:
			delete(r.slots, id)
			return nil, s.err
		}

		if deadline.IsZero() {
			r.cond.Wait()
			continue
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			delete(r.slots, id)
			return nil, ErrTimeout
		}
		if !r.waitUntil(deadline) {
			// Woke due to timeout rather than a broadcast; re-check state
			// once more before giving up, in case of a race with Complete.
			s, ok = r.slots[id]
			if ok && s.state == slotPending {
				delete(r.slots, id)
				return nil, ErrTimeout
			}
		}
	}
}

// waitUntil blocks on the condition variable until either it is signalled
// or deadline passes, returning false in the latter case. sync.Cond has no
// native timed wait, so this spins a timer goroutine that broadcasts on
// expiry; the goroutine exits as soon as it fires or the wait completes.
func (r *Registry) waitUntil(deadline time.Time) bool {
	timer := time.AfterFunc(time.Until(deadline), func() {
		r.mu.Lock()
		r.cond.Broadcast()
		r.mu.Unlock()
	})
	defer timer.Stop()
	r.cond.Wait()
	return time.Now().Before(deadline)
}

// Cancel removes id's slot if present, discarding any terminal result. It
// is used by a ResponseFuture that is dropped before Take is called. Cancel
// keeps no record of id, so a response delivered for it afterwards is
// stashed by Complete like any early delivery and stays in the table until
// a Take for id removes it.
func (r *Registry) Cancel(id RequestID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.slots, id)
}

// FailAll transitions every currently pending slot to Failed with err and
// wakes their waiters. It is used when the owning Client shuts down while
// futures are still outstanding.
func (r *Registry) FailAll(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.slots {
		if s.state == slotPending {
			s.state = slotFailed
			s.err = err
		}
	}
	r.cond.Broadcast()
}
