package alg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrips(t *testing.T) {
	names := []string{
		"sonly-ed25519",
		"ooake-ristrettodh-aes128colm0",
		"sigae-ed25519-ristrettodh-aes128colm0",
		"sigae+-ed25519-ristrettodh-aes128colm0",
		"sigae-ed25519-kyber-aes128colm0",
		"sigae+-ed25519-kyber-aes128colm0",
	}
	for _, name := range names {
		p, err := Parse(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, p.String())
	}
}

func TestParseVariants(t *testing.T) {
	p, err := Parse("sonly-ed25519")
	require.NoError(t, err)
	assert.Equal(t, Sonly{Sig: SignatureEd25519}, p)

	p, err = Parse("ooake-ristrettodh-aes128colm0")
	require.NoError(t, err)
	assert.Equal(t, Ooake{Kex: KeyExchangeRistrettoDH, Enc: EncryptAes128Colm0}, p)

	p, err = Parse("sigae+-ed25519-ristrettodh-aes128colm0")
	require.NoError(t, err)
	sigae, ok := p.(Sigae)
	require.True(t, ok)
	assert.True(t, sigae.BindAAD)

	p, err = Parse("sigae-ed25519-ristrettodh-aes128colm0")
	require.NoError(t, err)
	assert.False(t, p.(Sigae).BindAAD)
}

func TestParseNormalizesCase(t *testing.T) {
	p, err := Parse("SONLY-Ed25519")
	require.NoError(t, err)
	assert.Equal(t, Sonly{Sig: SignatureEd25519}, p)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		kind ParseErrorKind
	}{
		{"xxx-ed25519", ParseUnknown},
		{"sonly-rsa", ParseUnknown},
		{"sonly", ParseUnexpectedEnd},
		{"ooake-ristrettodh", ParseUnexpectedEnd},
		{"sigae-ed25519-ristrettodh", ParseUnexpectedEnd},
		{"ooake-kyber-norxmrs", ParseNotAvailable},
		{"ooake-kyber-aes128colm0", ParseNotAvailable},
		{"sigae-ed25519-ristrettodh-norxmrs", ParseNotAvailable},
		{"", ParseUnknown},
	}
	for _, tc := range cases {
		_, err := Parse(tc.name)
		require.Error(t, err, tc.name)
		var pe *ParseError
		require.ErrorAs(t, err, &pe, tc.name)
		assert.Equal(t, tc.kind, pe.Kind, tc.name)
		assert.ErrorIs(t, err, ErrParse, tc.name)
	}
}

func TestDefaultProtocol(t *testing.T) {
	p := Default()
	assert.Equal(t, DefaultProtocolName, p.String())
}

func TestRegistryNames(t *testing.T) {
	assert.Equal(t, []string{"ed25519"}, SignatureNames())
	assert.Equal(t, []string{"ristrettodh", "kyber"}, KeyExchangeNames())
	assert.Equal(t, []string{"aes128colm0"}, EncryptNames())

	// Every published name must parse in its default position.
	for _, sig := range SignatureNames() {
		_, err := Parse("sonly-" + sig)
		assert.NoError(t, err, sig)
	}
	for _, kex := range KeyExchangeNames() {
		for _, enc := range EncryptNames() {
			for _, sig := range SignatureNames() {
				_, err := Parse("sigae-" + sig + "-" + kex + "-" + enc)
				assert.NoError(t, err)
			}
		}
	}
}

func TestCipherResolution(t *testing.T) {
	c, err := EncryptAes128Colm0.Cipher()
	require.NoError(t, err)
	assert.Equal(t, "aes128colm0", c.Name())

	_, err = EncryptNorxMRS.Cipher()
	assert.Error(t, err)
}
