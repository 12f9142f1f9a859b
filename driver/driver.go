// Package driver runs a Transport's poll loop on a background goroutine and
// serialises every call into the transport behind a single mutex, so a
// Client never has to reason about the transport's own concurrency.
package driver

import (
	"sync"
	"time"

	logging "gopkg.in/op/go-logging.v1"

	"github.com/nimbusnet/client/internal/worker"
	"github.com/nimbusnet/client/registry"
	"github.com/nimbusnet/client/store"
	"github.com/nimbusnet/client/transport"
)

// TransportDriver owns a Transport and polls its Run method on interval from
// a dedicated goroutine. Put, UnauthorisedPut, and Get are forwarded under
// the same mutex that guards the poll, so a Transport implementation never
// observes concurrent calls.
type TransportDriver struct {
	worker.Worker

	mu        sync.Mutex
	transport transport.Transport
	interval  time.Duration
	log       *logging.Logger
}

// New returns a TransportDriver over t, polling at interval. Start must be
// called to begin polling.
func New(t transport.Transport, interval time.Duration, log *logging.Logger) *TransportDriver {
	return &TransportDriver{transport: t, interval: interval, log: log}
}

// Start launches the poll loop. It must be called at most once.
func (d *TransportDriver) Start() {
	d.Go(d.loop)
}

func (d *TransportDriver) loop() {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-d.HaltCh():
			return
		case <-ticker.C:
			d.mu.Lock()
			d.transport.Run()
			d.mu.Unlock()
		}
	}
}

// Put forwards to the underlying Transport under the driver's mutex.
func (d *TransportDriver) Put(sendable store.Sendable) (registry.RequestID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transport.Put(sendable)
}

// UnauthorisedPut forwards to the underlying Transport under the driver's
// mutex.
func (d *TransportDriver) UnauthorisedPut(destination store.Name, sendable store.Sendable) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transport.UnauthorisedPut(destination, sendable)
}

// Get forwards to the underlying Transport under the driver's mutex.
func (d *TransportDriver) Get(typeTag uint64, name store.Name) (registry.RequestID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transport.Get(typeTag, name)
}

// Shutdown stops the poll loop and waits for it to exit. It is safe to call
// more than once; only the first call has effect.
func (d *TransportDriver) Shutdown() {
	d.Halt()
}
