// Package client ties together identity, account, storage, transport, and
// request correlation into the synchronous session/identity lifecycle: a
// user derives a long-lived identity from a keyword, PIN, and password,
// publishes it as an encrypted session packet, and later recovers it on any
// device holding the same three secrets.
package client

import (
	"sync"
	"time"

	logging "gopkg.in/op/go-logging.v1"

	"github.com/nimbusnet/client/account"
	"github.com/nimbusnet/client/config"
	"github.com/nimbusnet/client/constants"
	"github.com/nimbusnet/client/crypto/hybrid"
	"github.com/nimbusnet/client/driver"
	"github.com/nimbusnet/client/identity"
	"github.com/nimbusnet/client/internal/logbackend"
	"github.com/nimbusnet/client/registry"
	"github.com/nimbusnet/client/store"
	"github.com/nimbusnet/client/transport"
)

// Client is a logged-in (or newly created) session: an Identity, the
// Account it was derived from, a live TransportDriver, and the request
// registry and hybrid-crypto context bound to that identity.
type Client struct {
	cfg *config.Config
	log *logging.Logger

	account      *account.Account
	contentStore *store.ContentStore
	registry     *registry.Registry
	driver       *driver.TransportDriver
	hybrid       *hybrid.Crypto

	closeOnce sync.Once
}

func newLogger(cfg *config.Config, name string) (*logging.Logger, error) {
	backend, err := logbackend.New(cfg.LogLevel)
	if err != nil {
		return nil, newErr(KindIO, "init log backend", err)
	}
	return backend.GetLogger(name), nil
}

func openSession(cfg *config.Config, log *logging.Logger) (*store.ContentStore, *registry.Registry, *driver.TransportDriver, error) {
	cs, err := store.NewContentStore(cfg.StorePath)
	if err != nil {
		return nil, nil, nil, newErr(KindIO, "open content store", err)
	}
	reg := registry.New()
	sink := registry.NewCallbackSink(reg, log)
	mt := transport.NewMockTransport(cs, sink, log)
	drv := driver.New(mt, cfg.PollInterval, log)
	drv.Start()
	return cs, reg, drv, nil
}

func (c *Client) deadline() time.Time {
	return time.Now().Add(c.cfg.RequestTimeout)
}

// putAndWait dispatches sendable and blocks for its response, translating
// dispatch and response failures into the client's error kinds.
func putAndWait(drv *driver.TransportDriver, reg *registry.Registry, deadline time.Time, sendable store.Sendable) ([]byte, error) {
	id, err := drv.Put(sendable)
	if err != nil {
		return nil, newErr(KindIO, "put", err)
	}
	reg.InsertPending(id)
	future := registry.NewResponseFuture(id, reg)
	payload, err := future.Wait(deadline)
	if err != nil {
		if err == registry.ErrTimeout {
			return nil, newErr(KindTimeout, "put", err)
		}
		return nil, newErr(KindResponseFailure, "put", err)
	}
	return payload, nil
}

func getAndWait(drv *driver.TransportDriver, reg *registry.Registry, deadline time.Time, typeTag uint64, name store.Name) ([]byte, error) {
	id, err := drv.Get(typeTag, name)
	if err != nil {
		return nil, newErr(KindIO, "get", err)
	}
	reg.InsertPending(id)
	future := registry.NewResponseFuture(id, reg)
	return future.Wait(deadline)
}

// CreateAccount derives a fresh Identity, bootstraps its public key on the
// network, then publishes a session packet and session pointer recoverable
// later via LogIn with the same (keyword, pin, password).
func CreateAccount(cfg *config.Config, keyword string, pin uint32, password []byte) (*Client, error) {
	cfg.ApplyDefaults()

	log, err := newLogger(cfg, "client")
	if err != nil {
		return nil, err
	}

	cs, reg, drv, err := openSession(cfg, log)
	if err != nil {
		return nil, err
	}
	teardown := func() {
		drv.Shutdown()
		cs.Close()
	}

	acc, err := account.New(nil)
	if err != nil {
		teardown()
		return nil, newErr(KindCryptoFailure, "generate identity", err)
	}
	id := acc.Identity
	publicName := id.PublicName()

	if err := drv.UnauthorisedPut(publicName, id.PublicHalf()); err != nil {
		teardown()
		return nil, newErr(KindIO, "bootstrap public identity", err)
	}

	ciphertext, err := acc.Encrypt(password, pin, cfg.KDFIterations)
	if err != nil {
		teardown()
		return nil, newErr(KindCryptoFailure, "encrypt account", err)
	}
	packet := store.NewImmutableData(ciphertext)
	if _, err := putAndWait(drv, reg, time.Now().Add(cfg.RequestTimeout), packet); err != nil {
		teardown()
		return nil, err
	}

	pointer := store.NewStructuredData(account.NetworkID(keyword, pin), publicName, []store.Name{packet.Name()})
	if _, err := putAndWait(drv, reg, time.Now().Add(cfg.RequestTimeout), pointer); err != nil {
		teardown()
		return nil, err
	}

	return &Client{
		cfg:          cfg,
		log:          log,
		account:      acc,
		contentStore: cs,
		registry:     reg,
		driver:       drv,
		hybrid:       hybrid.New(publicName, id.Encrypt.Public, id.Encrypt.Private),
	}, nil
}

// LogIn recovers the Account published by a prior CreateAccount call with
// the same (keyword, pin, password). It first spins up a throwaway identity
// and transport to fetch and decrypt the session packet — the real identity
// is not known until that succeeds — then discards the throwaway driver and
// starts a real one bound to the recovered identity.
func LogIn(cfg *config.Config, keyword string, pin uint32, password []byte) (*Client, error) {
	cfg.ApplyDefaults()

	log, err := newLogger(cfg, "client")
	if err != nil {
		return nil, err
	}

	cs, fakeReg, fakeDrv, err := openSession(cfg, log)
	if err != nil {
		return nil, err
	}
	fakeGuard := func() { fakeDrv.Shutdown() }
	abort := func() {
		fakeGuard()
		cs.Close()
	}
	fetchErr := func(msg string, err error) *Error {
		switch {
		case Is(err, KindIO):
			return newErr(KindIO, msg, err)
		case err == registry.ErrTimeout:
			return newErr(KindTimeout, msg, err)
		default:
			return newErr(KindResponseFailure, msg, err)
		}
	}

	locator := account.NetworkID(keyword, pin)
	deadline := time.Now().Add(cfg.RequestTimeout)
	pointerPayload, err := getAndWait(fakeDrv, fakeReg, deadline, constants.StructuredDataTypeTag, locator)
	if err != nil {
		abort()
		if err == store.ErrNotFound {
			return nil, newErr(KindInvalidCredentials, "session pointer not found", err)
		}
		return nil, fetchErr("fetch session pointer", err)
	}

	pointer, err := store.DecodeStructuredData(pointerPayload)
	if err != nil {
		abort()
		return nil, newErr(KindCorruptSession, "decode session pointer", err)
	}
	latest, ok := pointer.LatestVersion()
	if !ok {
		abort()
		return nil, newErr(KindCorruptSession, "session pointer has no versions", nil)
	}

	packetPayload, err := getAndWait(fakeDrv, fakeReg, time.Now().Add(cfg.RequestTimeout), constants.ImmutableDataTypeTag, latest)
	if err != nil {
		abort()
		if err == store.ErrNotFound {
			return nil, newErr(KindCorruptSession, "session packet missing", err)
		}
		return nil, fetchErr("fetch session packet", err)
	}
	packet, err := store.DecodeImmutableData(packetPayload)
	if err != nil {
		abort()
		return nil, newErr(KindCorruptSession, "decode session packet", err)
	}

	acc, err := account.Decrypt(packet.Value, password, pin, cfg.KDFIterations)
	if err != nil {
		abort()
		return nil, newErr(KindInvalidCredentials, "decrypt session packet", err)
	}

	fakeGuard()

	reg := registry.New()
	sink := registry.NewCallbackSink(reg, log)
	mt := transport.NewMockTransport(cs, sink, log)
	drv := driver.New(mt, cfg.PollInterval, log)
	drv.Start()

	publicName := acc.Identity.PublicName()
	return &Client{
		cfg:          cfg,
		log:          log,
		account:      acc,
		contentStore: cs,
		registry:     reg,
		driver:       drv,
		hybrid:       hybrid.New(publicName, acc.Identity.Encrypt.Public, acc.Identity.Encrypt.Private),
	}, nil
}

// PublicName returns the network-visible identity of this Client's Account.
func (c *Client) PublicName() store.Name {
	return c.account.Identity.PublicName()
}

// Hybrid exposes the seal-to-self crypto context bound to this Client's
// identity, for encrypting and decrypting payloads exchanged with the
// network after login.
func (c *Client) Hybrid() *hybrid.Crypto {
	return c.hybrid
}

// Put dispatches sendable to the network and returns a ResponseFuture for
// its eventual response.
func (c *Client) Put(sendable store.Sendable) (*registry.ResponseFuture, error) {
	id, err := c.driver.Put(sendable)
	if err != nil {
		return nil, newErr(KindIO, "put", err)
	}
	c.registry.InsertPending(id)
	return registry.NewResponseFuture(id, c.registry), nil
}

// Get requests the record of the given type tag at name and returns a
// ResponseFuture for its eventual response.
func (c *Client) Get(typeTag uint64, name store.Name) (*registry.ResponseFuture, error) {
	id, err := c.driver.Get(typeTag, name)
	if err != nil {
		return nil, newErr(KindIO, "get", err)
	}
	c.registry.InsertPending(id)
	return registry.NewResponseFuture(id, c.registry), nil
}

// Close stops the TransportDriver, fails any still-pending futures with
// ClientShutdown, and closes the underlying content store. It is safe to
// call more than once; only the first call has effect.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.driver.Shutdown()
		c.registry.FailAll(newErr(KindClientShutdown, "client closed", nil))
		c.contentStore.Close()
	})
}
