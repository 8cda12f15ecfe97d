package proto

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	enecrypto "github.com/ene-project/ene/crypto"
	"github.com/ene-project/ene/crypto/aead"
	"github.com/ene-project/ene/crypto/keys"
)

func TestOoakeRoundTrip(t *testing.T) {
	m := randBytes(t, 1024)
	aad := randBytes(t, 42)

	aName := "alice@oake.ene"
	aSK, err := keys.GenerateRistrettoDH(rand.Reader)
	require.NoError(t, err)
	aPK := aSK.Public()

	bName := "bob@oake.ene"
	bSK, err := keys.GenerateRistrettoDH(rand.Reader)
	require.NoError(t, err)
	bPK := bSK.Public()

	msg, c, err := OoakeSend(rand.Reader, aead.Aes128Colm0, aName, aSK, bName, bPK, aad, m)
	require.NoError(t, err)
	assert.Len(t, c, len(m)+aead.Aes128Colm0.TagLength())

	p, err := OoakeRecv(aead.Aes128Colm0, bName, bSK, aName, aPK, msg, aad, c)
	require.NoError(t, err)
	assert.Equal(t, m, p)
}

func TestOoakeRejectsTampering(t *testing.T) {
	m := randBytes(t, 128)
	aad := randBytes(t, 7)

	aSK, err := keys.GenerateRistrettoDH(rand.Reader)
	require.NoError(t, err)
	bSK, err := keys.GenerateRistrettoDH(rand.Reader)
	require.NoError(t, err)

	msg, c, err := OoakeSend(rand.Reader, aead.Aes128Colm0, "a@ene", aSK, "b@ene", bSK.Public(), aad, m)
	require.NoError(t, err)

	// Flipped ciphertext bit.
	bad := make([]byte, len(c))
	copy(bad, c)
	bad[10] ^= 0x01
	_, err = OoakeRecv(aead.Aes128Colm0, "b@ene", bSK, "a@ene", aSK.Public(), msg, aad, bad)
	assert.ErrorIs(t, err, enecrypto.ErrVerificationFailed)

	// Wrong associated data.
	_, err = OoakeRecv(aead.Aes128Colm0, "b@ene", bSK, "a@ene", aSK.Public(), msg, []byte("other"), c)
	assert.ErrorIs(t, err, enecrypto.ErrVerificationFailed)

	// Wrong identifiers change the challenge scalar, hence the key.
	_, err = OoakeRecv(aead.Aes128Colm0, "b@ene", bSK, "mallory@ene", aSK.Public(), msg, aad, c)
	assert.ErrorIs(t, err, enecrypto.ErrVerificationFailed)
}

func TestOoakeWrongSenderKeyFails(t *testing.T) {
	aSK, err := keys.GenerateRistrettoDH(rand.Reader)
	require.NoError(t, err)
	bSK, err := keys.GenerateRistrettoDH(rand.Reader)
	require.NoError(t, err)
	mallory, err := keys.GenerateRistrettoDH(rand.Reader)
	require.NoError(t, err)

	msg, c, err := OoakeSend(rand.Reader, aead.Aes128Colm0, "a@ene", aSK, "b@ene", bSK.Public(), nil, []byte("secret"))
	require.NoError(t, err)

	// The implicit authentication: substituting the sender's long-term key
	// yields a different shared key.
	_, err = OoakeRecv(aead.Aes128Colm0, "b@ene", bSK, "a@ene", mallory.Public(), msg, nil, c)
	assert.ErrorIs(t, err, enecrypto.ErrVerificationFailed)
}
