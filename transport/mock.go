package transport

import (
	"sync"
	"sync/atomic"

	logging "gopkg.in/op/go-logging.v1"

	"github.com/nimbusnet/client/constants"
	"github.com/nimbusnet/client/registry"
	"github.com/nimbusnet/client/store"
)

// pendingDelivery is a queued callback awaiting a Run call, modelling the
// routing layer as a poll-driven state machine: work submitted by Put/Get
// is not delivered until Run next drains the queue.
type pendingDelivery struct {
	id      registry.RequestID
	payload []byte
	err     error
}

// MockTransport is the one concrete Transport implementation shipped in
// this module. It stands in for the real routing/overlay transport (out of
// scope here): PUTs and GETs are serviced immediately against a
// store.ContentStore, but their results are queued and only handed to the
// CallbackSink on the next Run call, the same "submit now, deliver on next
// poll" shape the real transport has.
type MockTransport struct {
	mu    sync.Mutex
	store *store.ContentStore
	sink  *registry.CallbackSink
	log   *logging.Logger

	nextID  uint64
	pending []pendingDelivery
}

// NewMockTransport returns a MockTransport backed by contentStore,
// delivering completions through sink.
func NewMockTransport(contentStore *store.ContentStore, sink *registry.CallbackSink, log *logging.Logger) *MockTransport {
	return &MockTransport{store: contentStore, sink: sink, log: log}
}

func (m *MockTransport) mintID() registry.RequestID {
	return registry.RequestID(atomic.AddUint64(&m.nextID, 1))
}

// Run delivers every queued completion to the CallbackSink and clears the
// queue. It is idempotent when the queue is empty.
func (m *MockTransport) Run() {
	m.mu.Lock()
	batch := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, d := range batch {
		m.sink.OnResponse(d.id, d.payload, d.err)
	}
}

// Put writes sendable through to the content store keyed by its type tag,
// and queues a success (or failure) delivery for the next Run.
func (m *MockTransport) Put(sendable store.Sendable) (registry.RequestID, error) {
	id := m.mintID()
	raw, err := sendable.SerialisedContents()
	var putErr error
	if err != nil {
		putErr = err
	} else {
		putErr = m.writeRecord(sendable.TypeTag(), raw)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if putErr != nil {
		m.pending = append(m.pending, pendingDelivery{id: id, err: putErr})
	} else {
		m.pending = append(m.pending, pendingDelivery{id: id, payload: raw})
	}
	return id, nil
}

func (m *MockTransport) writeRecord(typeTag uint64, raw []byte) error {
	switch typeTag {
	case constants.ImmutableDataTypeTag:
		d, err := store.DecodeImmutableData(raw)
		if err != nil {
			return err
		}
		return m.store.PutImmutable(d)
	case constants.StructuredDataTypeTag:
		d, err := store.DecodeStructuredData(raw)
		if err != nil {
			return err
		}
		return m.store.PutStructured(d)
	default:
		// Sendables with any other type tag are addressed by the
		// ImmutableData namespace and decoded as ImmutableData, as
		// write-once content-addressed blobs.
		d, err := store.DecodeImmutableData(raw)
		if err != nil {
			return err
		}
		return m.store.PutImmutable(d)
	}
}

// UnauthorisedPut dispatches sendable without expecting a response. The
// mock transport has no key-registration requirement to bypass, so this is
// simply Put with the result discarded immediately rather than queued.
func (m *MockTransport) UnauthorisedPut(destination store.Name, sendable store.Sendable) error {
	raw, err := sendable.SerialisedContents()
	if err != nil {
		return err
	}
	return m.writeRecord(sendable.TypeTag(), raw)
}

// Get queues a lookup of the record of the given type tag at name.
func (m *MockTransport) Get(typeTag uint64, name store.Name) (registry.RequestID, error) {
	id := m.mintID()

	var payload []byte
	var getErr error
	switch typeTag {
	case constants.ImmutableDataTypeTag:
		d, err := m.store.GetImmutable(name)
		if err != nil {
			getErr = err
		} else {
			payload, getErr = d.SerialisedContents()
		}
	case constants.StructuredDataTypeTag:
		d, err := m.store.GetStructured(name)
		if err != nil {
			getErr = err
		} else {
			payload, getErr = d.SerialisedContents()
		}
	default:
		getErr = store.ErrNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if getErr != nil {
		m.pending = append(m.pending, pendingDelivery{id: id, err: getErr})
	} else {
		m.pending = append(m.pending, pendingDelivery{id: id, payload: payload})
	}
	return id, nil
}
