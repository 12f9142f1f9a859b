package hybrid

import (
	"crypto/rand"
	"testing"

	naclbox "golang.org/x/crypto/nacl/box"

	"github.com/stretchr/testify/require"

	"github.com/nimbusnet/client/store"
)

func testCrypto(t *testing.T) *Crypto {
	pub, priv, err := naclbox.GenerateKey(rand.Reader)
	require.NoError(t, err)
	name := store.HashName(pub[:])
	return New(name, pub, priv)
}

func repeatedPlaintext() []byte {
	p := make([]byte, 1000)
	for i := range p {
		p[i] = 123
	}
	return p
}

func TestRoundTripWithExplicitNonce(t *testing.T) {
	require := require.New(t)
	c := testCrypto(t)
	plaintext := repeatedPlaintext()

	var nonce Nonce
	for i := range nonce {
		nonce[i] = byte(i)
	}

	ciphertext, err := c.Encrypt(plaintext, &nonce)
	require.NoError(err)

	recovered, err := c.Decrypt(ciphertext, &nonce)
	require.NoError(err)
	require.Equal(plaintext, recovered)
}

func TestRoundTripWithDeterministicNonce(t *testing.T) {
	require := require.New(t)
	c := testCrypto(t)
	plaintext := repeatedPlaintext()

	ciphertext, err := c.Encrypt(plaintext, nil)
	require.NoError(err)

	recovered, err := c.Decrypt(ciphertext, nil)
	require.NoError(err)
	require.Equal(plaintext, recovered)
}

func TestMismatchedNonceChoiceFailsToDecrypt(t *testing.T) {
	require := require.New(t)
	c := testCrypto(t)
	plaintext := repeatedPlaintext()

	var nonce Nonce
	for i := range nonce {
		nonce[i] = byte(i)
	}

	ciphertext, err := c.Encrypt(plaintext, &nonce)
	require.NoError(err)

	_, err = c.Decrypt(ciphertext, nil)
	require.Error(err)
}

func TestEncryptIsNotDeterministic(t *testing.T) {
	require := require.New(t)
	c := testCrypto(t)
	plaintext := repeatedPlaintext()

	var nonce Nonce
	for i := range nonce {
		nonce[i] = byte(i)
	}

	c1, err := c.Encrypt(plaintext, &nonce)
	require.NoError(err)
	c2, err := c.Encrypt(plaintext, &nonce)
	require.NoError(err)

	require.NotEqual(c1, c2)
}

func TestDeterministicNonceDependsOnPublicName(t *testing.T) {
	require := require.New(t)

	var a, b store.Name
	a[0] = 1
	b[0] = 2

	require.NotEqual(DeterministicNonce(a), DeterministicNonce(b))
}
