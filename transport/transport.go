// Package transport defines the boundary between this client's core and
// the routing/overlay transport, and ships the one concrete implementation
// in this module: MockTransport, a deterministic stand-in backed by a
// store.ContentStore, sufficient to drive every Client operation
// end-to-end in tests and local development. The real routing/overlay
// transport is an external collaborator, out of scope here.
package transport

import (
	"github.com/nimbusnet/client/registry"
	"github.com/nimbusnet/client/store"
)

// Transport is the boundary this client drives. Implementations are
// expected to be long-lived, thread-safe for concurrent Put/Get calls
// guarded externally by a single mutex (see driver.TransportDriver), and to
// deliver every response via the CallbackSink passed at construction.
type Transport interface {
	// Run performs one idempotent drain of internal state, delivering zero
	// or more callbacks. It must return promptly; a TransportDriver calls
	// it repeatedly on a timer.
	Run()

	// Put signs sendable with the client's identity and dispatches it,
	// returning the RequestID that will later be passed to the
	// CallbackSink.
	Put(sendable store.Sendable) (registry.RequestID, error)

	// UnauthorisedPut dispatches sendable to destination without requiring
	// prior key registration with the transport. No response is expected
	// by the core for this call.
	UnauthorisedPut(destination store.Name, sendable store.Sendable) error

	// Get fetches the record of the given type tag at name, returning the
	// RequestID that will later be passed to the CallbackSink.
	Get(typeTag uint64, name store.Name) (registry.RequestID, error)
}
