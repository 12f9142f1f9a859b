package identity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFreshProducesDistinctIdentities(t *testing.T) {
	require := require.New(t)

	a, err := Fresh()
	require.NoError(err)
	b, err := Fresh()
	require.NoError(err)

	require.NotEqual(a.PublicName(), b.PublicName())
}

func TestPublicNameIsDeterministic(t *testing.T) {
	require := require.New(t)

	m, err := Fresh()
	require.NoError(err)

	require.Equal(m.PublicName(), m.PublicName())
}

func TestPublicHalfNameMatchesMaidPublicName(t *testing.T) {
	require := require.New(t)

	m, err := Fresh()
	require.NoError(err)

	require.Equal(m.PublicName(), m.PublicHalf().Name())
}

func TestPublicHalfCarriesNoSecretMaterial(t *testing.T) {
	require := require.New(t)

	m, err := Fresh()
	require.NoError(err)

	pub := m.PublicHalf()
	require.Equal(m.Sign.Public, pub.SignPublic)
	require.Equal(*m.Encrypt.Public, pub.EncryptPublic)
}
