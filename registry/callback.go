package registry

import (
	logging "gopkg.in/op/go-logging.v1"
)

// CallbackSink is the transport-facing adapter: its OnResponse method is
// the single entry point a Transport calls when a dispatched request
// completes. It must be safe to call from the transport's own goroutine,
// which it is, since it only ever touches the Registry's own mutex.
type CallbackSink struct {
	registry *Registry
	log      *logging.Logger
}

// NewCallbackSink returns a CallbackSink that deposits results into
// registry.
func NewCallbackSink(registry *Registry, log *logging.Logger) *CallbackSink {
	return &CallbackSink{registry: registry, log: log}
}

// OnResponse records the outcome of request id. payload is nil on failure.
func (c *CallbackSink) OnResponse(id RequestID, payload []byte, err error) {
	if err != nil && c.log != nil {
		c.log.Debugf("request %d failed: %v", id, err)
	}
	c.registry.Complete(id, payload, err)
}
