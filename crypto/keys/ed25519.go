package keys

import (
	"crypto/ed25519"
	"fmt"
	"io"

	enecrypto "github.com/ene-project/ene/crypto"
	"github.com/ene-project/ene/internal/memutil"
)

// Ed25519 byte lengths.
const (
	Ed25519PublicKeyLength = ed25519.PublicKeySize
	Ed25519SecretKeyLength = ed25519.PrivateKeySize
	Ed25519SignatureLength = ed25519.SignatureSize
)

// Ed25519SecretKey is an Ed25519 signing key.
type Ed25519SecretKey struct {
	sk ed25519.PrivateKey
}

// Ed25519PublicKey is an Ed25519 verification key.
type Ed25519PublicKey struct {
	pk ed25519.PublicKey
}

// Ed25519Signature is a detached Ed25519 signature.
type Ed25519Signature struct {
	sig [Ed25519SignatureLength]byte
}

// GenerateEd25519 generates a new signing key from the given random source.
func GenerateEd25519(rand io.Reader) (*Ed25519SecretKey, error) {
	_, sk, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", enecrypto.ErrRand, err)
	}
	return &Ed25519SecretKey{sk: sk}, nil
}

// Public derives the verification key.
func (k *Ed25519SecretKey) Public() *Ed25519PublicKey {
	return &Ed25519PublicKey{pk: k.sk.Public().(ed25519.PublicKey)}
}

// Bytes returns the 64-byte private key form (seed followed by public key).
func (k *Ed25519SecretKey) Bytes() []byte {
	return k.sk
}

// Zero overwrites the key material.
func (k *Ed25519SecretKey) Zero() {
	memutil.Wipe(k.sk)
}

// SignatureAlgorithm implements crypto.SignaturePrivateKey.
func (k *Ed25519SecretKey) SignatureAlgorithm() string { return Ed25519Name }

// Ed25519SecretKeyFromBytes decodes the 64-byte private key form.
func Ed25519SecretKeyFromBytes(b []byte) (*Ed25519SecretKey, error) {
	if len(b) != Ed25519SecretKeyLength {
		return nil, enecrypto.ErrInvalidLength
	}
	if allZero(b) {
		return nil, &enecrypto.InvalidValueError{Reason: "zero value"}
	}
	sk := make(ed25519.PrivateKey, Ed25519SecretKeyLength)
	copy(sk, b)
	return &Ed25519SecretKey{sk: sk}, nil
}

// Bytes returns the 32-byte compressed point form.
func (k *Ed25519PublicKey) Bytes() []byte {
	return k.pk
}

// Equal reports whether two public keys have identical canonical bytes.
func (k *Ed25519PublicKey) Equal(other *Ed25519PublicKey) bool {
	return k.pk.Equal(other.pk)
}

// SignatureAlgorithm implements crypto.SignaturePublicKey.
func (k *Ed25519PublicKey) SignatureAlgorithm() string { return Ed25519Name }

// Ed25519PublicKeyFromBytes accepts a 32-byte non-zero public key. Only the
// length and the all-zero case are checked; the point is not decompressed
// here.
func Ed25519PublicKeyFromBytes(b []byte) (*Ed25519PublicKey, error) {
	if len(b) != Ed25519PublicKeyLength {
		return nil, enecrypto.ErrInvalidLength
	}
	if allZero(b) {
		return nil, &enecrypto.InvalidValueError{Reason: "zero value"}
	}
	pk := make(ed25519.PublicKey, Ed25519PublicKeyLength)
	copy(pk, b)
	return &Ed25519PublicKey{pk: pk}, nil
}

// Bytes returns the 64-byte signature form.
func (s *Ed25519Signature) Bytes() []byte {
	return s.sig[:]
}

// Ed25519SignatureFromBytes decodes a 64-byte signature. Either half being
// all-zero is rejected.
func Ed25519SignatureFromBytes(b []byte) (*Ed25519Signature, error) {
	if len(b) != Ed25519SignatureLength {
		return nil, enecrypto.ErrInvalidLength
	}
	if allZero(b[:32]) || allZero(b[32:]) {
		return nil, &enecrypto.InvalidValueError{Reason: "zero value"}
	}
	var s Ed25519Signature
	copy(s.sig[:], b)
	return &s, nil
}

// ed25519Scheme implements crypto.Signature. The protocol engines pre-hash
// with SHA3-512, so Sign and Verify operate on the 64-byte digest.
type ed25519Scheme struct{}

// Ed25519 is the Ed25519 signature scheme.
var Ed25519 enecrypto.Signature = ed25519Scheme{}

func (ed25519Scheme) Name() string { return Ed25519Name }

func (ed25519Scheme) SignatureLength() int { return Ed25519SignatureLength }

func (ed25519Scheme) Sign(sk enecrypto.SignaturePrivateKey, digest []byte) (enecrypto.SignatureValue, error) {
	k, ok := sk.(*Ed25519SecretKey)
	if !ok {
		return nil, &enecrypto.UnsupportedError{Slot: Ed25519Name}
	}
	var s Ed25519Signature
	copy(s.sig[:], ed25519.Sign(k.sk, digest))
	return &s, nil
}

func (ed25519Scheme) Verify(pk enecrypto.SignaturePublicKey, sig enecrypto.SignatureValue, digest []byte) bool {
	k, ok := pk.(*Ed25519PublicKey)
	if !ok {
		return false
	}
	s, ok := sig.(*Ed25519Signature)
	if !ok {
		return false
	}
	return ed25519.Verify(k.pk, digest, s.sig[:])
}

func (ed25519Scheme) SignatureFromBytes(b []byte) (enecrypto.SignatureValue, error) {
	return Ed25519SignatureFromBytes(b)
}
