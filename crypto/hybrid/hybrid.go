// Package hybrid implements the seal-to-self hybrid encryption scheme used
// for authenticated payload exchange once a Client is logged in: a fresh
// AES-256-CBC key+IV encrypts the payload, and that key+IV blob is itself
// sealed with the client's own Curve25519 keypair (sender and recipient are
// the same identity — confidentiality at rest under that identity's
// control, not a general two-party channel).
package hybrid

import (
	"crypto/sha256"

	"github.com/fxamacker/cbor/v2"
	naclbox "golang.org/x/crypto/nacl/box"

	"github.com/pkg/errors"

	"github.com/nimbusnet/client/constants"
	"github.com/nimbusnet/client/crypto/symmetric"
	"github.com/nimbusnet/client/store"
)

// Nonce is a sealed-box nonce.
type Nonce [constants.NonceLength]byte

// DeterministicNonce derives the nonce used when a caller supplies none:
// the leading NonceLength bytes of SHA-256(publicName).
func DeterministicNonce(publicName store.Name) Nonce {
	digest := sha256.Sum256(publicName[:])
	var n Nonce
	copy(n[:], digest[:len(n)])
	return n
}

// Crypto performs hybrid encryption/decryption using a single Curve25519
// keypair for both the sealing and opening side ("seal to self").
type Crypto struct {
	publicName store.Name
	encPublic  *[32]byte
	encPrivate *[32]byte
}

// New returns a Crypto bound to the given identity's public name and
// encryption keypair.
func New(publicName store.Name, encPublic, encPrivate *[32]byte) *Crypto {
	return &Crypto{publicName: publicName, encPublic: encPublic, encPrivate: encPrivate}
}

type envelope struct {
	Asymmetric []byte
	Symmetric  []byte
}

// Encrypt seals plaintext. If nonce is nil, the deterministic nonce derived
// from the client's public name is used; otherwise the supplied nonce is
// used verbatim. Decrypt must be given the same nonce choice to succeed.
func (c *Crypto) Encrypt(plaintext []byte, nonce *Nonce) ([]byte, error) {
	n := c.resolveNonce(nonce)

	key, iv, err := symmetric.RandomKeyIV()
	if err != nil {
		return nil, errors.Wrap(err, "hybrid: generate symmetric key")
	}
	symCiphertext, err := symmetric.Encrypt(key, iv, plaintext)
	if err != nil {
		return nil, errors.Wrap(err, "hybrid: symmetric encrypt")
	}

	var combined [constants.SealedKeyBlobLength]byte
	copy(combined[:constants.SymmetricKeyLength], key[:])
	copy(combined[constants.SymmetricKeyLength:], iv[:])

	sealed := naclbox.Seal(nil, combined[:], (*[24]byte)(&n), c.encPublic, c.encPrivate)

	return cbor.Marshal(&envelope{Asymmetric: sealed, Symmetric: symCiphertext})
}

// Decrypt opens an envelope produced by Encrypt. It returns an error on any
// parse, unseal, or AES failure, or if the unsealed key blob is not exactly
// SealedKeyBlobLength bytes; per the scheme's design, supplying the wrong
// nonce choice (explicit vs. deterministic) also surfaces here, since the
// unseal step itself fails.
func (c *Crypto) Decrypt(data []byte, nonce *Nonce) ([]byte, error) {
	var env envelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "hybrid: decode envelope")
	}

	n := c.resolveNonce(nonce)

	opened, ok := naclbox.Open(nil, env.Asymmetric, (*[24]byte)(&n), c.encPublic, c.encPrivate)
	if !ok {
		return nil, errors.New("hybrid: unseal failed")
	}
	if len(opened) != constants.SealedKeyBlobLength {
		return nil, errors.New("hybrid: unsealed key blob has unexpected length")
	}

	var key [constants.SymmetricKeyLength]byte
	var iv [constants.SymmetricIVLength]byte
	copy(key[:], opened[:constants.SymmetricKeyLength])
	copy(iv[:], opened[constants.SymmetricKeyLength:])

	plaintext, err := symmetric.Decrypt(key, iv, env.Symmetric)
	if err != nil {
		return nil, errors.Wrap(err, "hybrid: symmetric decrypt")
	}
	return plaintext, nil
}

func (c *Crypto) resolveNonce(nonce *Nonce) Nonce {
	if nonce != nil {
		return *nonce
	}
	return DeterministicNonce(c.publicName)
}
