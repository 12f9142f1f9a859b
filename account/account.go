// Package account implements the Account container: an Identity plus any
// legacy identities carried forward for future key-rotation support, its
// canonical serialisation, its deterministic session locator, and the
// self-encryption of its serialised form under a password+pin derived key.
package account

import (
	"crypto/ed25519"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"github.com/nimbusnet/client/crypto/symmetric"
	"github.com/nimbusnet/client/identity"
	"github.com/nimbusnet/client/store"
)

// Account is the container of a user's Identity. MaybeLegacyIdentities is
// preserved in the serial form for forward compatibility with key
// rotation; this client neither populates nor consults it.
type Account struct {
	Identity              *identity.Maid
	MaybeLegacyIdentities []*identity.Maid
}

// New creates an Account with a fresh Identity. If prev is non-nil, it is
// kept in the legacy-identities list.
func New(prev *identity.Maid) (*Account, error) {
	fresh, err := identity.Fresh()
	if err != nil {
		return nil, errors.Wrap(err, "generate identity")
	}
	a := &Account{Identity: fresh}
	if prev != nil {
		a.MaybeLegacyIdentities = append(a.MaybeLegacyIdentities, prev)
	}
	return a, nil
}

// NetworkID is the deterministic, pure, total function mapping
// (keyword, pin) to the session locator: H(keyword_bytes || decimal_ascii(pin)).
func NetworkID(keyword string, pin uint32) store.Name {
	buf := append([]byte(keyword), symmetric.DecimalASCII(pin)...)
	return store.HashName(buf)
}

// serialForm is the canonical, self-describing (CBOR) encoding of an
// Account used both on the wire and as the encryption plaintext.
type serialForm struct {
	SignPrivate    []byte
	SignPublic     []byte
	EncryptPrivate [32]byte
	EncryptPublic  [32]byte
	LegacySigns    [][]byte
	LegacySignPubs [][]byte
	LegacyEncPriv  [][32]byte
	LegacyEncPub   [][32]byte
}

func (a *Account) toSerialForm() *serialForm {
	s := &serialForm{
		SignPrivate:    []byte(a.Identity.Sign.Private),
		SignPublic:     []byte(a.Identity.Sign.Public),
		EncryptPrivate: *a.Identity.Encrypt.Private,
		EncryptPublic:  *a.Identity.Encrypt.Public,
	}
	for _, legacy := range a.MaybeLegacyIdentities {
		s.LegacySigns = append(s.LegacySigns, []byte(legacy.Sign.Private))
		s.LegacySignPubs = append(s.LegacySignPubs, []byte(legacy.Sign.Public))
		s.LegacyEncPriv = append(s.LegacyEncPriv, *legacy.Encrypt.Private)
		s.LegacyEncPub = append(s.LegacyEncPub, *legacy.Encrypt.Public)
	}
	return s
}

func fromSerialForm(s *serialForm) *Account {
	encPub := s.EncryptPublic
	encPriv := s.EncryptPrivate
	a := &Account{
		Identity: &identity.Maid{
			Sign: identity.SignKeyPair{
				Public:  ed25519.PublicKey(s.SignPublic),
				Private: ed25519.PrivateKey(s.SignPrivate),
			},
			Encrypt: identity.EncryptKeyPair{Public: &encPub, Private: &encPriv},
		},
	}
	for i := range s.LegacySigns {
		lp := s.LegacyEncPub[i]
		ls := s.LegacyEncPriv[i]
		a.MaybeLegacyIdentities = append(a.MaybeLegacyIdentities, &identity.Maid{
			Sign: identity.SignKeyPair{
				Public:  ed25519.PublicKey(s.LegacySignPubs[i]),
				Private: ed25519.PrivateKey(s.LegacySigns[i]),
			},
			Encrypt: identity.EncryptKeyPair{Public: &lp, Private: &ls},
		})
	}
	return a
}

// Serialise encodes a into the canonical binary form.
func (a *Account) Serialise() ([]byte, error) {
	raw, err := cbor.Marshal(a.toSerialForm())
	if err != nil {
		return nil, errors.Wrap(err, "serialise account")
	}
	return raw, nil
}

// Deserialise decodes the canonical binary form produced by Serialise.
func Deserialise(raw []byte) (*Account, error) {
	var s serialForm
	if err := cbor.Unmarshal(raw, &s); err != nil {
		return nil, errors.Wrap(err, "deserialise account")
	}
	return fromSerialForm(&s), nil
}

// ErrDecrypt is returned by Decrypt when the session packet cannot be
// recovered with the supplied password and pin — the caller-visible signal
// used to produce an indistinguishable InvalidCredentials outcome for a
// wrong password.
var ErrDecrypt = errors.New("account: decrypt failed")

// Encrypt serialises a and AES-256-CBC/PKCS#7-encrypts it under the key
// derived from (password, pin) via PBKDF2, returning the session-packet
// payload bytes.
func (a *Account) Encrypt(password []byte, pin uint32, kdfIterations int) ([]byte, error) {
	plaintext, err := a.Serialise()
	if err != nil {
		return nil, err
	}
	sk := symmetric.DeriveSessionKey(password, pin, kdfIterations)
	ciphertext, err := symmetric.Encrypt(sk.Key, sk.IV, plaintext)
	if err != nil {
		return nil, errors.Wrap(err, "encrypt account")
	}
	return ciphertext, nil
}

// Decrypt is the inverse of Encrypt. A wrong password or pin yields
// ErrDecrypt rather than a malformed Account, since PKCS#7 padding
// verification detects the vast majority of wrong-key attempts and any
// surviving garbage fails to parse as a serialForm.
func Decrypt(ciphertext, password []byte, pin uint32, kdfIterations int) (*Account, error) {
	sk := symmetric.DeriveSessionKey(password, pin, kdfIterations)
	plaintext, err := symmetric.Decrypt(sk.Key, sk.IV, ciphertext)
	if err != nil {
		return nil, ErrDecrypt
	}
	a, err := Deserialise(plaintext)
	if err != nil {
		return nil, ErrDecrypt
	}
	return a, nil
}
