package keys

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	enecrypto "github.com/ene-project/ene/crypto"
)

func TestRistrettoDHExchangeAgreement(t *testing.T) {
	skB, err := GenerateRistrettoDH(rand.Reader)
	require.NoError(t, err)

	sharedA := make([]byte, RistrettoDH.SharedLength())
	msg, err := RistrettoDH.ExchangeTo(rand.Reader, sharedA, skB.Public())
	require.NoError(t, err)

	sharedB := make([]byte, RistrettoDH.SharedLength())
	require.NoError(t, RistrettoDH.ExchangeFrom(sharedB, skB, msg))

	assert.Equal(t, sharedA, sharedB)
	assert.NotEqual(t, make([]byte, len(sharedA)), sharedA)
}

func TestRistrettoDHExchangeFreshness(t *testing.T) {
	skB, err := GenerateRistrettoDH(rand.Reader)
	require.NoError(t, err)

	shared1 := make([]byte, RistrettoDH.SharedLength())
	shared2 := make([]byte, RistrettoDH.SharedLength())
	_, err = RistrettoDH.ExchangeTo(rand.Reader, shared1, skB.Public())
	require.NoError(t, err)
	_, err = RistrettoDH.ExchangeTo(rand.Reader, shared2, skB.Public())
	require.NoError(t, err)
	assert.NotEqual(t, shared1, shared2)
}

func TestRistrettoDHPublicKeyPacking(t *testing.T) {
	sk, err := GenerateRistrettoDH(rand.Reader)
	require.NoError(t, err)
	pk := sk.Public()

	got, err := RistrettoDHPublicKeyFromBytes(pk.Bytes())
	require.NoError(t, err)
	assert.True(t, pk.Equal(got))

	_, err = RistrettoDHPublicKeyFromBytes(make([]byte, RistrettoDHPublicKeyLength))
	var ive *enecrypto.InvalidValueError
	assert.ErrorAs(t, err, &ive)

	_, err = RistrettoDHPublicKeyFromBytes(pk.Bytes()[:16])
	assert.ErrorIs(t, err, enecrypto.ErrInvalidLength)

	// A non-canonical encoding must be rejected by decompression.
	bad := make([]byte, RistrettoDHPublicKeyLength)
	for i := range bad {
		bad[i] = 0xff
	}
	_, err = RistrettoDHPublicKeyFromBytes(bad)
	assert.ErrorAs(t, err, &ive)
}

func TestRistrettoDHSecretKeyPacking(t *testing.T) {
	sk, err := GenerateRistrettoDH(rand.Reader)
	require.NoError(t, err)

	got, err := RistrettoDHSecretKeyFromBytes(sk.Bytes())
	require.NoError(t, err)
	assert.True(t, sk.Public().Equal(got.Public()))

	// The reconstructed key must derive identical shared secrets.
	shared := make([]byte, RistrettoDH.SharedLength())
	msg, err := RistrettoDH.ExchangeTo(rand.Reader, shared, sk.Public())
	require.NoError(t, err)

	shared2 := make([]byte, RistrettoDH.SharedLength())
	require.NoError(t, RistrettoDH.ExchangeFrom(shared2, got, msg))
	assert.Equal(t, shared, shared2)
}
