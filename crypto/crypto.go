// Package crypto defines the capability interfaces shared by every ENE
// primitive: detached signatures, one-pass key exchanges, and AEAD ciphers.
//
// The concrete algorithms live in the subpackages:
//   - crypto/keys: key material and the signature / key-exchange adapters
//   - crypto/aead: AEAD adapters
//
// Every wire-visible value implements Packed, exposing its canonical byte
// form. Decoding constructors validate length and structure before any value
// reaches protocol code.
package crypto

import "io"

// Packed is implemented by every fixed-length wire value (public keys,
// signatures, key-exchange messages). Bytes returns the canonical byte form;
// callers must not modify the returned slice.
type Packed interface {
	Bytes() []byte
}

// SignaturePrivateKey is an opaque signing key.
type SignaturePrivateKey interface {
	SignatureAlgorithm() string
}

// SignaturePublicKey is an opaque verification key.
type SignaturePublicKey interface {
	Packed
	SignatureAlgorithm() string
}

// SignatureValue is a detached signature.
type SignatureValue interface {
	Packed
}

// Signature is a detached signature scheme over pre-hashed input.
type Signature interface {
	// Name is the registry token, e.g. "ed25519".
	Name() string

	// SignatureLength is the byte length of a signature.
	SignatureLength() int

	// Sign signs the digest with the given private key.
	Sign(sk SignaturePrivateKey, digest []byte) (SignatureValue, error)

	// Verify reports whether sig is a valid signature of digest under pk.
	Verify(pk SignaturePublicKey, sig SignatureValue, digest []byte) bool

	// SignatureFromBytes decodes and validates a signature byte form.
	SignatureFromBytes(b []byte) (SignatureValue, error)
}

// KeyExchangePrivateKey is an opaque key-exchange secret.
type KeyExchangePrivateKey interface {
	KeyExchangeAlgorithm() string
}

// KeyExchangePublicKey is an opaque key-exchange public key.
type KeyExchangePublicKey interface {
	Packed
	KeyExchangeAlgorithm() string
}

// KeyExchangeMessage is the single wire message of a one-pass exchange.
type KeyExchangeMessage interface {
	Packed
}

// KeyExchange is a one-pass key exchange: the sender derives a shared secret
// toward a public key and emits one message, the recipient derives the same
// secret from its private key and that message.
type KeyExchange interface {
	// Name is the registry token, e.g. "ristrettodh".
	Name() string

	// SharedLength is the required length of the shared-secret buffer.
	SharedLength() int

	// ExchangeTo fills shared and returns the message to transmit.
	ExchangeTo(rand io.Reader, shared []byte, pk KeyExchangePublicKey) (KeyExchangeMessage, error)

	// ExchangeFrom fills shared from the private key and received message.
	ExchangeFrom(shared []byte, sk KeyExchangePrivateKey, msg KeyExchangeMessage) error

	// MessageFromBytes decodes and validates a message byte form.
	MessageFromBytes(b []byte) (KeyExchangeMessage, error)
}

// AeadCipher is an authenticated cipher with associated data. Seal and Open
// are inverses; ciphertext length is always plaintext length plus TagLength.
type AeadCipher interface {
	// Name is the registry token, e.g. "aes128colm0".
	Name() string

	KeyLength() int
	NonceLength() int
	TagLength() int

	// Seal encrypts plaintext, binding aad, and appends the tag.
	Seal(key, nonce, aad, plaintext []byte) ([]byte, error)

	// Open decrypts and verifies ciphertext produced by Seal.
	Open(key, nonce, aad, ciphertext []byte) ([]byte, error)
}
