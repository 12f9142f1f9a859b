// Package identity holds the user's long-term asymmetric key material (a
// signing keypair and a sealed-box encryption keypair) and derives the
// public "maid name" that identifies it on the network.
package identity

import (
	"crypto/ed25519"
	"crypto/rand"

	naclbox "golang.org/x/crypto/nacl/box"

	"github.com/nimbusnet/client/constants"
	"github.com/nimbusnet/client/store"
)

// SignKeyPair is an Ed25519 signing keypair.
type SignKeyPair struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// EncryptKeyPair is a Curve25519 keypair used with the sealed box.
type EncryptKeyPair struct {
	Public  *[32]byte
	Private *[32]byte
}

// Maid is the user's long-lived identity: a signing keypair and an
// encryption keypair. Its public halves are publishable; its secret halves
// never leave process memory.
type Maid struct {
	Sign    SignKeyPair
	Encrypt EncryptKeyPair
}

// Fresh generates a new Maid from a cryptographically secure RNG.
func Fresh() (*Maid, error) {
	signPub, signPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	encPub, encPriv, err := naclbox.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Maid{
		Sign:    SignKeyPair{Public: signPub, Private: signPriv},
		Encrypt: EncryptKeyPair{Public: encPub, Private: encPriv},
	}, nil
}

// PublicName returns the deterministic 64-byte hash of the concatenation of
// the Maid's two public keys — its network-visible identity.
func (m *Maid) PublicName() store.Name {
	buf := make([]byte, 0, len(m.Sign.Public)+len(m.Encrypt.Public))
	buf = append(buf, m.Sign.Public...)
	buf = append(buf, m.Encrypt.Public[:]...)
	return store.HashName(buf)
}

// Public is the publishable half of a Maid: both public keys, with no
// secret material. It is itself a store.Sendable so it can be PUT to the
// network to bootstrap an owner's public key.
type Public struct {
	SignPublic    ed25519.PublicKey
	EncryptPublic [32]byte
}

// PublicHalf extracts the publishable half of m.
func (m *Maid) PublicHalf() *Public {
	return &Public{
		SignPublic:    append(ed25519.PublicKey(nil), m.Sign.Public...),
		EncryptPublic: *m.Encrypt.Public,
	}
}

// Name implements store.Sendable: a Public record's network name is the
// same public name as its owning Maid.
func (p *Public) Name() store.Name {
	buf := make([]byte, 0, len(p.SignPublic)+len(p.EncryptPublic))
	buf = append(buf, p.SignPublic...)
	buf = append(buf, p.EncryptPublic[:]...)
	return store.HashName(buf)
}

// TypeTag implements store.Sendable. Public identity records share the
// ImmutableData type tag: they are content-addressed, write-once blobs.
func (p *Public) TypeTag() uint64 { return constants.ImmutableDataTypeTag }

// SerialisedContents implements store.Sendable by delegating to
// ImmutableData's canonical encoding.
func (p *Public) SerialisedContents() ([]byte, error) {
	buf := make([]byte, 0, len(p.SignPublic)+len(p.EncryptPublic))
	buf = append(buf, p.SignPublic...)
	buf = append(buf, p.EncryptPublic[:]...)
	return store.NewImmutableData(buf).SerialisedContents()
}
