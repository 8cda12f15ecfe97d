package keys

import (
	"fmt"
	"io"

	"github.com/gtank/ristretto255"
	"golang.org/x/crypto/sha3"

	enecrypto "github.com/ene-project/ene/crypto"
	"github.com/ene-project/ene/internal/memutil"
)

// RistrettoDH byte lengths.
const (
	RistrettoDHPublicKeyLength = 32
	RistrettoDHSecretKeyLength = 64
	RistrettoDHMessageLength   = 32
	RistrettoDHSharedLength    = 64
)

// RistrettoDHSecretKey is a Ristretto255 Diffie-Hellman secret: a scalar
// together with its public point.
type RistrettoDHSecretKey struct {
	s   *ristretto255.Scalar
	pub *RistrettoDHPublicKey
}

// RistrettoDHPublicKey is a Ristretto255 group element.
type RistrettoDHPublicKey struct {
	e *ristretto255.Element
}

// RistrettoDHMessage is the ephemeral point of a one-pass exchange.
type RistrettoDHMessage struct {
	e *ristretto255.Element
}

// GenerateRistrettoDH generates a new key from the given random source.
func GenerateRistrettoDH(rand io.Reader) (*RistrettoDHSecretKey, error) {
	s, err := randomScalar(rand)
	if err != nil {
		return nil, err
	}
	pub := ristretto255.NewIdentityElement().ScalarBaseMult(s)
	return &RistrettoDHSecretKey{s: s, pub: &RistrettoDHPublicKey{e: pub}}, nil
}

func randomScalar(rand io.Reader) (*ristretto255.Scalar, error) {
	wide := make([]byte, 64)
	if _, err := io.ReadFull(rand, wide); err != nil {
		return nil, fmt.Errorf("%w: %v", enecrypto.ErrRand, err)
	}
	defer memutil.Wipe(wide)
	s, err := ristretto255.NewScalar().SetUniformBytes(wide)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", enecrypto.ErrRand, err)
	}
	return s, nil
}

// Public returns the public point.
func (k *RistrettoDHSecretKey) Public() *RistrettoDHPublicKey {
	return k.pub
}

// Scalar exposes the secret scalar for the OOAKE engine.
func (k *RistrettoDHSecretKey) Scalar() *ristretto255.Scalar {
	return k.s
}

// Bytes returns the 64-byte form: scalar followed by compressed public point.
func (k *RistrettoDHSecretKey) Bytes() []byte {
	b := make([]byte, 0, RistrettoDHSecretKeyLength)
	b = append(b, k.s.Bytes()...)
	return append(b, k.pub.Bytes()...)
}

// Zero drops the scalar. The ristretto255 API keeps scalars opaque, so the
// best available hygiene is replacing it with zero.
func (k *RistrettoDHSecretKey) Zero() {
	k.s = ristretto255.NewScalar()
}

// KeyExchangeAlgorithm implements crypto.KeyExchangePrivateKey.
func (k *RistrettoDHSecretKey) KeyExchangeAlgorithm() string { return RistrettoDHName }

// RistrettoDHSecretKeyFromBytes decodes the 64-byte secret form.
func RistrettoDHSecretKeyFromBytes(b []byte) (*RistrettoDHSecretKey, error) {
	if len(b) != RistrettoDHSecretKeyLength {
		return nil, enecrypto.ErrInvalidLength
	}
	s, err := ristretto255.NewScalar().SetCanonicalBytes(b[:32])
	if err != nil {
		return nil, &enecrypto.InvalidValueError{Reason: "non-canonical ristretto scalar"}
	}
	pub, err := RistrettoDHPublicKeyFromBytes(b[32:])
	if err != nil {
		return nil, err
	}
	return &RistrettoDHSecretKey{s: s, pub: pub}, nil
}

// Bytes returns the 32-byte compressed point form.
func (k *RistrettoDHPublicKey) Bytes() []byte {
	return k.e.Bytes()
}

// Element exposes the group element for the OOAKE engine.
func (k *RistrettoDHPublicKey) Element() *ristretto255.Element {
	return k.e
}

// Equal reports whether two public keys encode the same point.
func (k *RistrettoDHPublicKey) Equal(other *RistrettoDHPublicKey) bool {
	return k.e.Equal(other.e) == 1
}

// KeyExchangeAlgorithm implements crypto.KeyExchangePublicKey.
func (k *RistrettoDHPublicKey) KeyExchangeAlgorithm() string { return RistrettoDHName }

// RistrettoDHPublicKeyFromBytes decodes a 32-byte canonical non-zero point.
func RistrettoDHPublicKeyFromBytes(b []byte) (*RistrettoDHPublicKey, error) {
	e, err := ristrettoPointFromBytes(b)
	if err != nil {
		return nil, err
	}
	return &RistrettoDHPublicKey{e: e}, nil
}

// Bytes returns the 32-byte compressed point form.
func (m *RistrettoDHMessage) Bytes() []byte {
	return m.e.Bytes()
}

// Element exposes the group element for the OOAKE engine.
func (m *RistrettoDHMessage) Element() *ristretto255.Element {
	return m.e
}

// RistrettoDHMessageFromBytes decodes a 32-byte canonical non-zero point.
func RistrettoDHMessageFromBytes(b []byte) (*RistrettoDHMessage, error) {
	e, err := ristrettoPointFromBytes(b)
	if err != nil {
		return nil, err
	}
	return &RistrettoDHMessage{e: e}, nil
}

func ristrettoPointFromBytes(b []byte) (*ristretto255.Element, error) {
	if len(b) != RistrettoDHPublicKeyLength {
		return nil, enecrypto.ErrInvalidLength
	}
	if allZero(b) {
		return nil, &enecrypto.InvalidValueError{Reason: "zero value"}
	}
	e, err := ristretto255.NewIdentityElement().SetCanonicalBytes(b)
	if err != nil {
		return nil, &enecrypto.InvalidValueError{Reason: "ristretto decompression failed"}
	}
	return e, nil
}

// ristrettoDHScheme implements crypto.KeyExchange.
type ristrettoDHScheme struct{}

// RistrettoDH is the classical Diffie-Hellman key exchange over the
// Ristretto255 group. The shared secret is SHA3-512 of the compressed
// shared point.
var RistrettoDH enecrypto.KeyExchange = ristrettoDHScheme{}

func (ristrettoDHScheme) Name() string { return RistrettoDHName }

func (ristrettoDHScheme) SharedLength() int { return RistrettoDHSharedLength }

func (ristrettoDHScheme) ExchangeTo(rand io.Reader, shared []byte, pk enecrypto.KeyExchangePublicKey) (enecrypto.KeyExchangeMessage, error) {
	p, ok := pk.(*RistrettoDHPublicKey)
	if !ok {
		return nil, &enecrypto.UnsupportedError{Slot: RistrettoDHName}
	}
	if len(shared) != RistrettoDHSharedLength {
		return nil, enecrypto.ErrInvalidLength
	}

	x, err := randomScalar(rand)
	if err != nil {
		return nil, err
	}
	m := ristretto255.NewIdentityElement().ScalarBaseMult(x)

	k := ristretto255.NewIdentityElement().ScalarMult(x, p.e)
	sum := sha3.Sum512(k.Bytes())
	copy(shared, sum[:])
	memutil.Wipe(sum[:])

	return &RistrettoDHMessage{e: m}, nil
}

func (ristrettoDHScheme) ExchangeFrom(shared []byte, sk enecrypto.KeyExchangePrivateKey, msg enecrypto.KeyExchangeMessage) error {
	k, ok := sk.(*RistrettoDHSecretKey)
	if !ok {
		return &enecrypto.UnsupportedError{Slot: RistrettoDHName}
	}
	m, ok := msg.(*RistrettoDHMessage)
	if !ok {
		return &enecrypto.InvalidValueError{Reason: "ristrettodh message expected"}
	}
	if len(shared) != RistrettoDHSharedLength {
		return enecrypto.ErrInvalidLength
	}

	p := ristretto255.NewIdentityElement().ScalarMult(k.s, m.e)
	sum := sha3.Sum512(p.Bytes())
	copy(shared, sum[:])
	memutil.Wipe(sum[:])
	return nil
}

func (ristrettoDHScheme) MessageFromBytes(b []byte) (enecrypto.KeyExchangeMessage, error) {
	return RistrettoDHMessageFromBytes(b)
}
