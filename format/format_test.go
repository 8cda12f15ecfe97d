package format

import (
	"crypto/rand"
	"testing"

	"github.com/fxamacker/cbor/v2"
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

func TestPublicKeyEnvelopeRoundTrip(t *testing.T) {
	pk := generateSet(t).Public()

	data, err := EncodePublicKey("alice@core.ene", pk)
	require.NoError(t, err)

	id, got, err := DecodePublicKey(data)
	require.NoError(t, err)
	assert.Equal(t, "alice@core.ene", id)
	assert.True(t, pk.Contains(got, nil))
	assert.True(t, got.Contains(pk, nil))
	require.NotNil(t, got.Ed25519)
	require.NotNil(t, got.RistrettoDH)
}

func TestPrivateKeyEnvelopeRoundTrip(t *testing.T) {
	salt := make([]byte, 16)
	ct := make([]byte, 99)
	_, err := rand.Read(salt)
	require.NoError(t, err)

	data, err := EncodePrivateKey("alice@core.ene", alg.EncryptAes128Colm0, salt, ct)
	require.NoError(t, err)

	id, enc, gotSalt, gotCT, err := DecodePrivateKey(data)
	require.NoError(t, err)
	assert.Equal(t, "alice@core.ene", id)
	assert.Equal(t, alg.EncryptAes128Colm0, enc)
	assert.Equal(t, salt, gotSalt)
	assert.Equal(t, ct, gotCT)
}

func TestMessageEnvelopeRoundTrip(t *testing.T) {
	sender := generateSet(t)
	recipient := generateSet(t).Public()

	meta := &Meta{
		SenderID:       "alice@core.ene",
		SenderKey:      sender.Public(),
		RecipientID:    "bob@core.ene",
		RecipientShort: recipient.Short(),
	}
	payload := []byte{0x01, 0x02, 0x03}
	proto := alg.Sigae{BindAAD: true, Sig: alg.SignatureEd25519, Kex: alg.KeyExchangeRistrettoDH, Enc: alg.EncryptAes128Colm0}

	data, err := EncodeMessage(meta, proto, payload)
	require.NoError(t, err)

	gotMeta, gotProto, gotPayload, err := DecodeMessage(data)
	require.NoError(t, err)
	assert.Equal(t, meta.SenderID, gotMeta.SenderID)
	assert.True(t, gotMeta.HasRecipient())
	assert.Equal(t, meta.RecipientID, gotMeta.RecipientID)
	assert.True(t, recipient.Short().Contains(gotMeta.RecipientShort, nil))
	assert.Equal(t, proto, gotProto)
	assert.Equal(t, payload, gotPayload)
}

func TestMessageEnvelopeWithoutRecipient(t *testing.T) {
	meta := &Meta{SenderID: "alice@core.ene", SenderKey: generateSet(t).Public()}

	data, err := EncodeMessage(meta, alg.Sonly{Sig: alg.SignatureEd25519}, []byte("sig"))
	require.NoError(t, err)

	gotMeta, gotProto, _, err := DecodeMessage(data)
	require.NoError(t, err)
	assert.False(t, gotMeta.HasRecipient())
	assert.Equal(t, alg.Sonly{Sig: alg.SignatureEd25519}, gotProto)
}

func TestEnvelopeTagMismatch(t *testing.T) {
	pk := generateSet(t).Public()
	pkData, err := EncodePublicKey("alice@core.ene", pk)
	require.NoError(t, err)

	// A PK blob must not decode as MSG or SK, and vice versa.
	_, _, _, err = DecodeMessage(pkData)
	assert.ErrorIs(t, err, enecrypto.ErrFormat)
	_, _, _, _, err = DecodePrivateKey(pkData)
	assert.ErrorIs(t, err, enecrypto.ErrFormat)

	msgData, err := EncodeMessage(&Meta{SenderID: "a", SenderKey: pk}, alg.Sonly{Sig: alg.SignatureEd25519}, nil)
	require.NoError(t, err)
	_, _, err = DecodePublicKey(msgData)
	assert.ErrorIs(t, err, enecrypto.ErrFormat)
}

func TestEnvelopeVersionMismatch(t *testing.T) {
	pk := generateSet(t).Public()
	data, err := EncodePublicKey("alice@core.ene", pk)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, cbor.Unmarshal(data, &env))
	env.Version = CurrentVersion + 1
	bad, err := encMode.Marshal(env)
	require.NoError(t, err)

	_, _, err = DecodePublicKey(bad)
	assert.ErrorIs(t, err, enecrypto.ErrFormat)
}

func TestEnvelopeGarbage(t *testing.T) {
	_, _, err := DecodePublicKey([]byte("not cbor at all"))
	assert.ErrorIs(t, err, enecrypto.ErrFormat)
}

func TestEncodingDeterministic(t *testing.T) {
	pk := generateSet(t).Public()
	a, err := EncodePublicKey("alice@core.ene", pk)
	require.NoError(t, err)
	b, err := EncodePublicKey("alice@core.ene", pk)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSecretKeySetRoundTrip(t *testing.T) {
	sk := generateSet(t)

	body, err := EncodeSecretKeySet(sk)
	require.NoError(t, err)

	got, err := DecodeSecretKeySet(body)
	require.NoError(t, err)
	assert.True(t, sk.Public().Contains(got.Public(), nil))
	require.NotNil(t, got.Ed25519)
	require.NotNil(t, got.RistrettoDH)
	assert.Nil(t, got.Kyber)
}

func TestInvalidKeyBytesRejected(t *testing.T) {
	// A zero public key slot must fail validation on decode.
	payload := publicKeyPayload{
		ID:  "alice@core.ene",
		Key: map[string][]byte{keys.Ed25519Name: make([]byte, keys.Ed25519PublicKeyLength)},
	}
	data, err := sealEnvelope(MagicPublicKey, payload)
	require.NoError(t, err)

	_, _, err = DecodePublicKey(data)
	assert.ErrorIs(t, err, enecrypto.ErrFormat)
}

func TestEnginePayloads(t *testing.T) {
	sig := []byte("sixty-four bytes of signature")
	data, err := EncodeSonlyPayload(sig)
	require.NoError(t, err)
	got, err := DecodeSonlyPayload(data)
	require.NoError(t, err)
	assert.Equal(t, sig, got)

	data, err = EncodeOoakePayload([]byte("point"), []byte("ciphertext"))
	require.NoError(t, err)
	msg, ct, err := DecodeOoakePayload(data)
	require.NoError(t, err)
	assert.Equal(t, []byte("point"), msg)
	assert.Equal(t, []byte("ciphertext"), ct)

	data, err = EncodeSigaePayload([]byte("point"), []byte("sig-ct"), []byte("msg-ct"))
	require.NoError(t, err)
	kexMsg, sigCT, msgCT, err := DecodeSigaePayload(data)
	require.NoError(t, err)
	assert.Equal(t, []byte("point"), kexMsg)
	assert.Equal(t, []byte("sig-ct"), sigCT)
	assert.Equal(t, []byte("msg-ct"), msgCT)
}

func TestProtocolWireRestrictionsHold(t *testing.T) {
	// An envelope claiming ooake over kyber must be rejected at decode: the
	// registry restriction applies to the wire too.
	raw, err := encMode.Marshal([]interface{}{protoTagOoake, "kyber", "aes128colm0"})
	require.NoError(t, err)
	_, err = unmarshalProtocol(raw)
	assert.ErrorIs(t, err, enecrypto.ErrFormat)
}
