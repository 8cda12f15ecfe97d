package profile

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ene-project/ene/alg"
	enecrypto "github.com/ene-project/ene/crypto"
	"github.com/ene-project/ene/crypto/keys"
)

func generateSet(t *testing.T) *keys.SecretKeySet {
	t.Helper()
	ed, err := keys.GenerateEd25519(rand.Reader)
	require.NoError(t, err)
	dh, err := keys.GenerateRistrettoDH(rand.Reader)
	require.NoError(t, err)
	return &keys.SecretKeySet{Ed25519: ed, RistrettoDH: dh}
}

func TestSealOpenRoundTrip(t *testing.T) {
	sk := generateSet(t)

	sealed, err := Seal(rand.Reader, alg.EncryptAes128Colm0, "alice@core.ene", []byte("password"), sk)
	require.NoError(t, err)

	id, got, err := Open([]byte("password"), sealed)
	require.NoError(t, err)
	assert.Equal(t, "alice@core.ene", id)

	// The reopened set must project to the same public keys.
	assert.True(t, sk.Public().Contains(got.Public(), nil))
	require.NotNil(t, got.Ed25519)
	require.NotNil(t, got.RistrettoDH)
}

func TestOpenWrongPassword(t *testing.T) {
	sk := generateSet(t)

	sealed, err := Seal(rand.Reader, alg.EncryptAes128Colm0, "alice@core.ene", []byte("password"), sk)
	require.NoError(t, err)

	_, _, err = Open([]byte("wrong"), sealed)
	assert.ErrorIs(t, err, enecrypto.ErrVerificationFailed)
}

func TestOpenTamperedProfile(t *testing.T) {
	sk := generateSet(t)

	sealed, err := Seal(rand.Reader, alg.EncryptAes128Colm0, "alice@core.ene", []byte("password"), sk)
	require.NoError(t, err)

	// Tampering anywhere inside the ciphertext must read as a verification
	// failure, indistinguishable from a wrong password.
	bad := make([]byte, len(sealed))
	copy(bad, sealed)
	bad[len(bad)-5] ^= 0x01
	_, _, err = Open([]byte("password"), bad)
	assert.ErrorIs(t, err, enecrypto.ErrVerificationFailed)
}

func TestSealFreshSalt(t *testing.T) {
	sk := generateSet(t)

	a, err := Seal(rand.Reader, alg.EncryptAes128Colm0, "alice@core.ene", []byte("pw"), sk)
	require.NoError(t, err)
	b, err := Seal(rand.Reader, alg.EncryptAes128Colm0, "alice@core.ene", []byte("pw"), sk)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSealKyberSlotSurvives(t *testing.T) {
	kyber, err := keys.GenerateKyber(rand.Reader)
	require.NoError(t, err)
	sk := generateSet(t)
	sk.Kyber = kyber

	sealed, err := Seal(rand.Reader, alg.EncryptAes128Colm0, "alice@core.ene", []byte("pw"), sk)
	require.NoError(t, err)
	_, got, err := Open([]byte("pw"), sealed)
	require.NoError(t, err)
	require.NotNil(t, got.Kyber)
	assert.True(t, sk.Public().Kyber.Equal(got.Public().Kyber))
}
