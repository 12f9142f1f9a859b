package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nimbusnet/client/account"
	"github.com/nimbusnet/client/config"
	"github.com/nimbusnet/client/constants"
	"github.com/nimbusnet/client/store"
)

func testConfig(t *testing.T) *config.Config {
	cfg := &config.Config{StorePath: t.TempDir() + "/store.db"}
	cfg.ApplyDefaults()
	return cfg
}

func TestCreateAccountPublishesPointerAndPacket(t *testing.T) {
	require := require.New(t)
	cfg := testConfig(t)

	c, err := CreateAccount(cfg, "Spandan", 1234, []byte("Sharma"))
	require.NoError(err)
	defer c.Close()

	require.NotEqual([64]byte{}, [64]byte(c.PublicName()))

	pointerFuture, err := c.Get(constants.StructuredDataTypeTag, account.NetworkID("Spandan", 1234))
	require.NoError(err)
	raw, err := pointerFuture.Wait(time.Now().Add(cfg.RequestTimeout))
	require.NoError(err)
	pointer, err := store.DecodeStructuredData(raw)
	require.NoError(err)
	require.Len(pointer.Value, 1)

	packetFuture, err := c.Get(constants.ImmutableDataTypeTag, pointer.Value[0])
	require.NoError(err)
	_, err = packetFuture.Wait(time.Now().Add(cfg.RequestTimeout))
	require.NoError(err)
}

func TestLogInWithoutPriorCreationFails(t *testing.T) {
	require := require.New(t)
	cfg := testConfig(t)

	c, err := LogIn(cfg, "Spandan", 1234, []byte("Sharma"))
	require.Nil(c)
	require.True(Is(err, KindInvalidCredentials))
}

func TestLogInWithWrongPasswordFails(t *testing.T) {
	require := require.New(t)
	cfg := testConfig(t)

	created, err := CreateAccount(cfg, "Spandan", 1234, []byte("Sharma"))
	require.NoError(err)
	created.Close()

	c, err := LogIn(cfg, "Spandan", 1234, []byte("sharma"))
	require.Nil(c)
	require.True(Is(err, KindInvalidCredentials))
}

func TestLogInWithWrongKeywordFails(t *testing.T) {
	require := require.New(t)
	cfg := testConfig(t)

	created, err := CreateAccount(cfg, "Spandan", 1234, []byte("Sharma"))
	require.NoError(err)
	created.Close()

	c, err := LogIn(cfg, "spandan", 1234, []byte("Sharma"))
	require.Nil(c)
	require.True(Is(err, KindInvalidCredentials))
}

func TestLogInWithWrongPinFails(t *testing.T) {
	require := require.New(t)
	cfg := testConfig(t)

	created, err := CreateAccount(cfg, "Spandan", 1234, []byte("Sharma"))
	require.NoError(err)
	created.Close()

	c, err := LogIn(cfg, "Spandan", 1233, []byte("Sharma"))
	require.Nil(c)
	require.True(Is(err, KindInvalidCredentials))
}

func TestLogInWithCorrectSecretsRecoversIdentity(t *testing.T) {
	require := require.New(t)
	cfg := testConfig(t)

	created, err := CreateAccount(cfg, "Spandan", 1234, []byte("Sharma"))
	require.NoError(err)
	createdName := created.PublicName()
	created.Close()

	loggedIn, err := LogIn(cfg, "Spandan", 1234, []byte("Sharma"))
	require.NoError(err)
	defer loggedIn.Close()

	require.Equal(createdName, loggedIn.PublicName())
}

func TestClientCloseIsIdempotent(t *testing.T) {
	require := require.New(t)
	cfg := testConfig(t)

	c, err := CreateAccount(cfg, "Spandan", 1234, []byte("Sharma"))
	require.NoError(err)

	c.Close()
	c.Close()
}

func TestPutGetRoundTripThroughClient(t *testing.T) {
	require := require.New(t)
	cfg := testConfig(t)

	c, err := CreateAccount(cfg, "Spandan", 1234, []byte("Sharma"))
	require.NoError(err)
	defer c.Close()

	data := []byte("hello, content-addressed world")
	immutable := store.NewImmutableData(data)

	putFuture, err := c.Put(immutable)
	require.NoError(err)
	_, err = putFuture.Wait(time.Now().Add(cfg.RequestTimeout))
	require.NoError(err)

	getFuture, err := c.Get(constants.ImmutableDataTypeTag, immutable.Name())
	require.NoError(err)
	payload, err := getFuture.Wait(time.Now().Add(cfg.RequestTimeout))
	require.NoError(err)
	require.NotEmpty(payload)
}
