package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *ContentStore {
	cs, err := NewContentStore(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func TestPutGetImmutable(t *testing.T) {
	require := require.New(t)
	cs := openTestStore(t)

	d := NewImmutableData([]byte("hello"))
	require.NoError(cs.PutImmutable(d))

	got, err := cs.GetImmutable(d.Name())
	require.NoError(err)
	require.Equal(d.Value, got.Value)
}

func TestGetImmutableMissingIsNotFound(t *testing.T) {
	require := require.New(t)
	cs := openTestStore(t)

	_, err := cs.GetImmutable(HashName([]byte("nope")))
	require.ErrorIs(err, ErrNotFound)
}

func TestPutImmutableSameValueIsNoOp(t *testing.T) {
	require := require.New(t)
	cs := openTestStore(t)

	d := NewImmutableData([]byte("hello"))
	require.NoError(cs.PutImmutable(d))
	require.NoError(cs.PutImmutable(d))
}

func TestPutGetStructured(t *testing.T) {
	require := require.New(t)
	cs := openTestStore(t)

	owner := HashName([]byte("owner"))
	id := HashName([]byte("locator"))
	v1 := HashName([]byte("v1"))
	d := NewStructuredData(id, owner, []Name{v1})
	require.NoError(cs.PutStructured(d))

	got, err := cs.GetStructured(id)
	require.NoError(err)
	require.Equal([]Name{v1}, got.Value)
}

func TestPutStructuredAppendByDifferentOwnerFails(t *testing.T) {
	require := require.New(t)
	cs := openTestStore(t)

	owner := HashName([]byte("owner"))
	other := HashName([]byte("attacker"))
	id := HashName([]byte("locator"))
	v1 := HashName([]byte("v1"))
	v2 := HashName([]byte("v2"))

	require.NoError(cs.PutStructured(NewStructuredData(id, owner, []Name{v1})))

	err := cs.PutStructured(NewStructuredData(id, other, []Name{v1, v2}))
	require.ErrorIs(err, ErrNotOwner)
}

func TestGetStructuredMissingIsNotFound(t *testing.T) {
	require := require.New(t)
	cs := openTestStore(t)

	_, err := cs.GetStructured(HashName([]byte("nope")))
	require.ErrorIs(err, ErrNotFound)
}
