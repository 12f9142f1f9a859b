package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImmutableDataNameIsHashOfValue(t *testing.T) {
	require := require.New(t)

	d := NewImmutableData([]byte("hello"))
	require.Equal(HashName([]byte("hello")), d.Name())
}

func TestImmutableDataSerialiseDeserialiseRoundTrip(t *testing.T) {
	require := require.New(t)

	d := NewImmutableData([]byte("hello"))
	raw, err := d.SerialisedContents()
	require.NoError(err)

	decoded, err := DecodeImmutableData(raw)
	require.NoError(err)
	require.Equal(d.Value, decoded.Value)
}

func TestStructuredDataNameIsIdentifier(t *testing.T) {
	require := require.New(t)

	id := HashName([]byte("locator"))
	owner := HashName([]byte("owner"))
	d := NewStructuredData(id, owner, []Name{HashName([]byte("v1"))})
	require.Equal(id, d.Name())
}

func TestStructuredDataLatestVersion(t *testing.T) {
	require := require.New(t)

	v1 := HashName([]byte("v1"))
	v2 := HashName([]byte("v2"))
	d := NewStructuredData(Name{}, Name{}, []Name{v1, v2})

	latest, ok := d.LatestVersion()
	require.True(ok)
	require.Equal(v2, latest)
}

func TestStructuredDataLatestVersionEmpty(t *testing.T) {
	require := require.New(t)

	d := NewStructuredData(Name{}, Name{}, nil)
	_, ok := d.LatestVersion()
	require.False(ok)
}
