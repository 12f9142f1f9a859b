package registry

import (
	"runtime"
	"time"
)

// ResponseFuture is a synchronous handle over a single pending request ID.
// It is returned by Client.Put/Client.Get; constructing one implicitly
// takes ownership of id's slot in the Registry.
type ResponseFuture struct {
	id       RequestID
	registry *Registry
	done     bool
}

// NewResponseFuture binds a ResponseFuture to id, which must already have
// been inserted into registry as pending. A finalizer backstops Cancel: if
// a future is garbage collected without ever being waited on or cancelled,
// its slot is still released rather than left pending forever. Callers
// should still call Cancel explicitly when abandoning a future, since
// finalizer timing is not deterministic.
func NewResponseFuture(id RequestID, registry *Registry) *ResponseFuture {
	f := &ResponseFuture{id: id, registry: registry}
	runtime.SetFinalizer(f, (*ResponseFuture).Cancel)
	return f
}

// ID returns the request id this future is bound to.
func (f *ResponseFuture) ID() RequestID { return f.id }

// Wait blocks until the registry has a payload or an error for this
// future's request, or until deadline passes. A zero deadline waits
// forever. Calling Wait more than once after it has returned re-queries an
// already-removed slot and yields ErrUnknownID.
func (f *ResponseFuture) Wait(deadline time.Time) ([]byte, error) {
	payload, err := f.registry.Take(f.id, deadline)
	if err != ErrTimeout {
		f.done = true
	}
	return payload, err
}

// Cancel releases this future's slot without waiting. It is safe to call
// even after Wait has already completed the future. A ResponseFuture that
// is simply discarded without either Wait or Cancel being called keeps its
// slot until the finalizer set by NewResponseFuture runs Cancel; callers
// that abandon a future should call Cancel explicitly.
func (f *ResponseFuture) Cancel() {
	if f.done {
		return
	}
	f.registry.Cancel(f.id)
	f.done = true
}
