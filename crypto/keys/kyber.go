package keys

import (
	"fmt"
	"io"

	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/kyber/kyber768"

	enecrypto "github.com/ene-project/ene/crypto"
	"github.com/ene-project/ene/internal/memutil"
)

var kyberScheme = kyber768.Scheme()

// KyberSecretKey is a Kyber768 decapsulation key.
type KyberSecretKey struct {
	sk kem.PrivateKey
}

// KyberPublicKey is a Kyber768 encapsulation key.
type KyberPublicKey struct {
	pk kem.PublicKey
}

// KyberMessage is a Kyber768 ciphertext, the single wire message of the
// exchange.
type KyberMessage struct {
	ct []byte
}

// GenerateKyber generates a new key pair from the given random source.
func GenerateKyber(rand io.Reader) (*KyberSecretKey, error) {
	seed := make([]byte, kyberScheme.SeedSize())
	if _, err := io.ReadFull(rand, seed); err != nil {
		return nil, fmt.Errorf("%w: %v", enecrypto.ErrRand, err)
	}
	defer memutil.Wipe(seed)
	_, sk := kyberScheme.DeriveKeyPair(seed)
	return &KyberSecretKey{sk: sk}, nil
}

// Public derives the encapsulation key.
func (k *KyberSecretKey) Public() *KyberPublicKey {
	return &KyberPublicKey{pk: k.sk.Public()}
}

// Bytes returns the packed private key form.
func (k *KyberSecretKey) Bytes() []byte {
	b, err := k.sk.MarshalBinary()
	if err != nil {
		return nil
	}
	return b
}

// Zero drops the key reference. circl key objects are opaque; the backing
// storage is reclaimed by the collector.
func (k *KyberSecretKey) Zero() {
	k.sk = nil
}

// KeyExchangeAlgorithm implements crypto.KeyExchangePrivateKey.
func (k *KyberSecretKey) KeyExchangeAlgorithm() string { return KyberName }

// KyberSecretKeyFromBytes decodes a packed private key.
func KyberSecretKeyFromBytes(b []byte) (*KyberSecretKey, error) {
	if len(b) != kyberScheme.PrivateKeySize() {
		return nil, enecrypto.ErrInvalidLength
	}
	sk, err := kyberScheme.UnmarshalBinaryPrivateKey(b)
	if err != nil {
		return nil, &enecrypto.InvalidValueError{Reason: "malformed kyber private key"}
	}
	return &KyberSecretKey{sk: sk}, nil
}

// Bytes returns the packed public key form.
func (k *KyberPublicKey) Bytes() []byte {
	b, err := k.pk.MarshalBinary()
	if err != nil {
		return nil
	}
	return b
}

// Equal reports whether two public keys are identical.
func (k *KyberPublicKey) Equal(other *KyberPublicKey) bool {
	return k.pk.Equal(other.pk)
}

// KeyExchangeAlgorithm implements crypto.KeyExchangePublicKey.
func (k *KyberPublicKey) KeyExchangeAlgorithm() string { return KyberName }

// KyberPublicKeyFromBytes decodes a packed public key.
func KyberPublicKeyFromBytes(b []byte) (*KyberPublicKey, error) {
	if len(b) != kyberScheme.PublicKeySize() {
		return nil, enecrypto.ErrInvalidLength
	}
	if allZero(b) {
		return nil, &enecrypto.InvalidValueError{Reason: "zero value"}
	}
	pk, err := kyberScheme.UnmarshalBinaryPublicKey(b)
	if err != nil {
		return nil, &enecrypto.InvalidValueError{Reason: "malformed kyber public key"}
	}
	return &KyberPublicKey{pk: pk}, nil
}

// Bytes returns the ciphertext form.
func (m *KyberMessage) Bytes() []byte {
	return m.ct
}

// KyberMessageFromBytes decodes a Kyber768 ciphertext.
func KyberMessageFromBytes(b []byte) (*KyberMessage, error) {
	if len(b) != kyberScheme.CiphertextSize() {
		return nil, enecrypto.ErrInvalidLength
	}
	if allZero(b) {
		return nil, &enecrypto.InvalidValueError{Reason: "zero value"}
	}
	ct := make([]byte, len(b))
	copy(ct, b)
	return &KyberMessage{ct: ct}, nil
}

// kyberKEX implements crypto.KeyExchange over the Kyber768 KEM.
type kyberKEX struct{}

// Kyber is the post-quantum key-exchange slot.
var Kyber enecrypto.KeyExchange = kyberKEX{}

func (kyberKEX) Name() string { return KyberName }

func (kyberKEX) SharedLength() int { return kyberScheme.SharedKeySize() }

func (kyberKEX) ExchangeTo(rand io.Reader, shared []byte, pk enecrypto.KeyExchangePublicKey) (enecrypto.KeyExchangeMessage, error) {
	p, ok := pk.(*KyberPublicKey)
	if !ok {
		return nil, &enecrypto.UnsupportedError{Slot: KyberName}
	}
	if len(shared) != kyberScheme.SharedKeySize() {
		return nil, enecrypto.ErrInvalidLength
	}

	seed := make([]byte, kyberScheme.EncapsulationSeedSize())
	if _, err := io.ReadFull(rand, seed); err != nil {
		return nil, fmt.Errorf("%w: %v", enecrypto.ErrRand, err)
	}
	defer memutil.Wipe(seed)

	ct, ss, err := kyberScheme.EncapsulateDeterministically(p.pk, seed)
	if err != nil {
		return nil, &enecrypto.InvalidValueError{Reason: "kyber encapsulation failed"}
	}
	copy(shared, ss)
	memutil.Wipe(ss)
	return &KyberMessage{ct: ct}, nil
}

func (kyberKEX) ExchangeFrom(shared []byte, sk enecrypto.KeyExchangePrivateKey, msg enecrypto.KeyExchangeMessage) error {
	k, ok := sk.(*KyberSecretKey)
	if !ok {
		return &enecrypto.UnsupportedError{Slot: KyberName}
	}
	m, ok := msg.(*KyberMessage)
	if !ok {
		return &enecrypto.InvalidValueError{Reason: "kyber message expected"}
	}
	if len(shared) != kyberScheme.SharedKeySize() {
		return enecrypto.ErrInvalidLength
	}

	ss, err := kyberScheme.Decapsulate(k.sk, m.ct)
	if err != nil {
		return &enecrypto.VerificationError{Which: KyberName}
	}
	copy(shared, ss)
	memutil.Wipe(ss)
	return nil
}

func (kyberKEX) MessageFromBytes(b []byte) (enecrypto.KeyExchangeMessage, error) {
	return KyberMessageFromBytes(b)
}
