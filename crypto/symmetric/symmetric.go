// Package symmetric provides the password-derived session key and the
// AES-256-CBC/PKCS#7 primitives used to encrypt a serialised Account into
// its session packet.
package symmetric

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"

	"github.com/nimbusnet/client/constants"
)

// ErrBadPadding is returned by Decrypt when the PKCS#7 padding on the
// recovered plaintext is malformed — the expected signal of a wrong key.
var ErrBadPadding = errors.New("symmetric: invalid PKCS#7 padding")

// DecimalASCII renders pin as its decimal ASCII representation, the salt
// convention used throughout this client for both the session locator and
// the password KDF.
func DecimalASCII(pin uint32) []byte {
	return []byte(strconv.FormatUint(uint64(pin), 10))
}

// SessionKey is the symmetric key + IV derived from (password, pin).
type SessionKey struct {
	Key [constants.SymmetricKeyLength]byte
	IV  [constants.SymmetricIVLength]byte
}

// DeriveSessionKey runs PBKDF2-HMAC-SHA256 over password, salted with
// pin's decimal ASCII representation, for iterations rounds (at least
// constants.MinPBKDF2Iterations), producing a key and IV.
func DeriveSessionKey(password []byte, pin uint32, iterations int) SessionKey {
	if iterations < constants.MinPBKDF2Iterations {
		iterations = constants.MinPBKDF2Iterations
	}
	salt := DecimalASCII(pin)
	derived := pbkdf2.Key(password, salt, iterations, constants.SessionKeyLength, sha256.New)

	var sk SessionKey
	copy(sk.Key[:], derived[:constants.SymmetricKeyLength])
	copy(sk.IV[:], derived[constants.SymmetricKeyLength:])
	return sk
}

// Encrypt AES-256-CBC/PKCS#7-encrypts plaintext under key/iv.
func Encrypt(key [constants.SymmetricKeyLength]byte, iv [constants.SymmetricIVLength]byte, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, errors.Wrap(err, "new AES cipher")
	}
	padded := pkcs7Pad(plaintext, block.BlockSize())
	ciphertext := make([]byte, len(padded))
	mode := cipher.NewCBCEncrypter(block, iv[:])
	mode.CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

// Decrypt is the inverse of Encrypt. It returns ErrBadPadding if the
// recovered plaintext's PKCS#7 padding is invalid — in this client's usage
// that signals a wrong password or pin, not a different failure mode.
func Decrypt(key [constants.SymmetricKeyLength]byte, iv [constants.SymmetricIVLength]byte, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, errors.Wrap(err, "new AES cipher")
	}
	if len(ciphertext) == 0 || len(ciphertext)%block.BlockSize() != 0 {
		return nil, ErrBadPadding
	}
	plaintext := make([]byte, len(ciphertext))
	mode := cipher.NewCBCDecrypter(block, iv[:])
	mode.CryptBlocks(plaintext, ciphertext)
	return pkcs7Unpad(plaintext, block.BlockSize())
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padding := make([]byte, padLen)
	for i := range padding {
		padding[i] = byte(padLen)
	}
	return append(append([]byte{}, data...), padding...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrBadPadding
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, ErrBadPadding
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, ErrBadPadding
		}
	}
	return data[:len(data)-padLen], nil
}

// RandomKeyIV generates a fresh random AES-256 key and CBC IV from a
// cryptographically secure RNG, used by HybridCrypto for each encryption.
func RandomKeyIV() ([constants.SymmetricKeyLength]byte, [constants.SymmetricIVLength]byte, error) {
	var key [constants.SymmetricKeyLength]byte
	var iv [constants.SymmetricIVLength]byte
	if _, err := rand.Read(key[:]); err != nil {
		return key, iv, fmt.Errorf("symmetric: generate key: %w", err)
	}
	if _, err := rand.Read(iv[:]); err != nil {
		return key, iv, fmt.Errorf("symmetric: generate iv: %w", err)
	}
	return key, iv, nil
}
