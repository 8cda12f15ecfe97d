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

type sigaeParty struct {
	sigSK *keys.Ed25519SecretKey
	dhSK  *keys.RistrettoDHSecretKey
}

func newSigaeParty(t *testing.T) sigaeParty {
	t.Helper()
	sigSK, err := keys.GenerateEd25519(rand.Reader)
	require.NoError(t, err)
	dhSK, err := keys.GenerateRistrettoDH(rand.Reader)
	require.NoError(t, err)
	return sigaeParty{sigSK: sigSK, dhSK: dhSK}
}

func TestSigaeRoundTrip(t *testing.T) {
	for _, bindAAD := range []bool{false, true} {
		m := randBytes(t, 1024)
		aad := randBytes(t, 42)

		alice := newSigaeParty(t)
		bob := newSigaeParty(t)

		msg, sigCT, msgCT, err := SigaeSend(rand.Reader, aead.Aes128Colm0, keys.Ed25519, keys.RistrettoDH,
			"alice@oake.ene", alice.sigSK, "bob@oake.ene", bob.dhSK.Public(), aad, m, bindAAD)
		require.NoError(t, err)

		p, err := SigaeRecv(aead.Aes128Colm0, keys.Ed25519, keys.RistrettoDH,
			"bob@oake.ene", bob.dhSK, bob.dhSK.Public(),
			"alice@oake.ene", alice.sigSK.Public(),
			msg, sigCT, msgCT, aad, bindAAD)
		require.NoError(t, err)
		assert.Equal(t, m, p, "bindAAD=%v", bindAAD)
	}
}

func TestSigaeKyberRoundTrip(t *testing.T) {
	m := randBytes(t, 512)
	aad := randBytes(t, 9)

	aliceSig, err := keys.GenerateEd25519(rand.Reader)
	require.NoError(t, err)
	bobKEM, err := keys.GenerateKyber(rand.Reader)
	require.NoError(t, err)

	msg, sigCT, msgCT, err := SigaeSend(rand.Reader, aead.Aes128Colm0, keys.Ed25519, keys.Kyber,
		"alice@oake.ene", aliceSig, "bob@oake.ene", bobKEM.Public(), aad, m, true)
	require.NoError(t, err)

	p, err := SigaeRecv(aead.Aes128Colm0, keys.Ed25519, keys.Kyber,
		"bob@oake.ene", bobKEM, bobKEM.Public(),
		"alice@oake.ene", aliceSig.Public(),
		msg, sigCT, msgCT, aad, true)
	require.NoError(t, err)
	assert.Equal(t, m, p)
}

func TestSigaeRejectsTamperedCiphertexts(t *testing.T) {
	m := randBytes(t, 200)
	aad := randBytes(t, 5)

	alice := newSigaeParty(t)
	bob := newSigaeParty(t)

	msg, sigCT, msgCT, err := SigaeSend(rand.Reader, aead.Aes128Colm0, keys.Ed25519, keys.RistrettoDH,
		"a@ene", alice.sigSK, "b@ene", bob.dhSK.Public(), aad, m, false)
	require.NoError(t, err)

	recv := func(msgArg enecrypto.KeyExchangeMessage, sigCT, msgCT, aad []byte) error {
		_, err := SigaeRecv(aead.Aes128Colm0, keys.Ed25519, keys.RistrettoDH,
			"b@ene", bob.dhSK, bob.dhSK.Public(), "a@ene", alice.sigSK.Public(),
			msgArg, sigCT, msgCT, aad, false)
		return err
	}

	flip := func(b []byte, i int) []byte {
		out := make([]byte, len(b))
		copy(out, b)
		out[i] ^= 0x01
		return out
	}

	assert.ErrorIs(t, recv(msg, flip(sigCT, 3), msgCT, aad), enecrypto.ErrVerificationFailed)
	assert.ErrorIs(t, recv(msg, sigCT, flip(msgCT, 3), aad), enecrypto.ErrVerificationFailed)

	// Without bindAAD the signature ignores the aad, but the payload AEAD
	// still fails: changing aad never succeeds.
	assert.ErrorIs(t, recv(msg, sigCT, msgCT, []byte("other")), enecrypto.ErrVerificationFailed)
}

func TestSigaeBindAADRejectsChangedAAD(t *testing.T) {
	m := randBytes(t, 64)

	alice := newSigaeParty(t)
	bob := newSigaeParty(t)

	msg, sigCT, msgCT, err := SigaeSend(rand.Reader, aead.Aes128Colm0, keys.Ed25519, keys.RistrettoDH,
		"a@ene", alice.sigSK, "b@ene", bob.dhSK.Public(), []byte("aad"), m, true)
	require.NoError(t, err)

	_, err = SigaeRecv(aead.Aes128Colm0, keys.Ed25519, keys.RistrettoDH,
		"b@ene", bob.dhSK, bob.dhSK.Public(), "a@ene", alice.sigSK.Public(),
		msg, sigCT, msgCT, []byte("bad"), true)
	assert.ErrorIs(t, err, enecrypto.ErrVerificationFailed)
}

func TestSigaeWrongSignerFails(t *testing.T) {
	alice := newSigaeParty(t)
	bob := newSigaeParty(t)
	mallory := newSigaeParty(t)

	msg, sigCT, msgCT, err := SigaeSend(rand.Reader, aead.Aes128Colm0, keys.Ed25519, keys.RistrettoDH,
		"a@ene", alice.sigSK, "b@ene", bob.dhSK.Public(), nil, []byte("hello"), false)
	require.NoError(t, err)

	_, err = SigaeRecv(aead.Aes128Colm0, keys.Ed25519, keys.RistrettoDH,
		"b@ene", bob.dhSK, bob.dhSK.Public(), "a@ene", mallory.sigSK.Public(),
		msg, sigCT, msgCT, nil, false)
	assert.ErrorIs(t, err, enecrypto.ErrVerificationFailed)
}

func TestSigaeIdentifierBinding(t *testing.T) {
	alice := newSigaeParty(t)
	bob := newSigaeParty(t)

	msg, sigCT, msgCT, err := SigaeSend(rand.Reader, aead.Aes128Colm0, keys.Ed25519, keys.RistrettoDH,
		"a@ene", alice.sigSK, "b@ene", bob.dhSK.Public(), nil, []byte("hello"), false)
	require.NoError(t, err)

	// The identifier pair is the associated data of the signature
	// ciphertext; a different pair fails before signature verification.
	_, err = SigaeRecv(aead.Aes128Colm0, keys.Ed25519, keys.RistrettoDH,
		"c@ene", bob.dhSK, bob.dhSK.Public(), "a@ene", alice.sigSK.Public(),
		msg, sigCT, msgCT, nil, false)
	assert.ErrorIs(t, err, enecrypto.ErrVerificationFailed)
}
