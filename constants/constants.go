// Package constants contains the fixed sizes and tunable defaults shared
// across the client.
package constants

import "time"

const (
	// DatabaseConnectTimeout is the connect timeout used when opening the
	// local content-addressed store.
	DatabaseConnectTimeout = 3 * time.Second

	// NameLength is the width in bytes of a Name, the content/identity
	// address used throughout the network.
	NameLength = 64

	// NonceLength is the width in bytes of a sealed-box nonce.
	NonceLength = 24

	// SymmetricKeyLength is the AES-256 key size in bytes.
	SymmetricKeyLength = 32

	// SymmetricIVLength is the AES-CBC IV size in bytes.
	SymmetricIVLength = 16

	// SealedKeyBlobLength is the exact length of the (key || iv) blob that
	// HybridCrypto seals with the sealed-box.
	SealedKeyBlobLength = SymmetricKeyLength + SymmetricIVLength

	// DefaultPollInterval is the reference interval at which a
	// TransportDriver polls its Transport's Run method.
	DefaultPollInterval = 10 * time.Millisecond

	// DefaultRequestTimeout is the default bound on how long CreateAccount
	// and LogIn wait for each response they await.
	DefaultRequestTimeout = 30 * time.Second

	// MinPBKDF2Iterations is the floor on the password KDF's iteration
	// count; DefaultPBKDF2Iterations is what this client uses absent
	// configuration.
	MinPBKDF2Iterations    = 1000
	DefaultPBKDF2Iterations = 4096

	// SessionKeyLength is the number of bytes PBKDF2 is asked to produce:
	// enough for a symmetric key and an IV.
	SessionKeyLength = SymmetricKeyLength + SymmetricIVLength
)

// Sendable type tags. These are pure constants, never read before written:
// the implementation this client is derived from read an uninitialised
// memory location for this value, which this port does not reproduce.
const (
	ImmutableDataTypeTag  uint64 = 1
	StructuredDataTypeTag uint64 = 2
)
