// Package alg is the algorithm registry: the enumerations of supported
// signature, key-exchange, and AEAD choices, the Protocol sum type, and the
// dash-separated protocol-string grammar.
package alg

import (
	enecrypto "github.com/ene-project/ene/crypto"
	"github.com/ene-project/ene/crypto/aead"
	"github.com/ene-project/ene/crypto/keys"
)

// SignatureAlg names a supported signature scheme.
type SignatureAlg string

// KeyExchangeAlg names a supported key exchange.
type KeyExchangeAlg string

// EncryptAlg names a supported AEAD cipher.
type EncryptAlg string

const (
	SignatureEd25519 SignatureAlg = keys.Ed25519Name

	KeyExchangeRistrettoDH KeyExchangeAlg = keys.RistrettoDHName
	KeyExchangeKyber       KeyExchangeAlg = keys.KyberName

	EncryptAes128Colm0 EncryptAlg = aead.Aes128Colm0Name

	// EncryptNorxMRS is recognized by the parser but not available in this
	// distribution.
	EncryptNorxMRS EncryptAlg = "norxmrs"
)

// SignatureNames lists the registered signature tokens.
func SignatureNames() []string {
	return []string{string(SignatureEd25519)}
}

// KeyExchangeNames lists the registered key-exchange tokens.
func KeyExchangeNames() []string {
	return []string{string(KeyExchangeRistrettoDH), string(KeyExchangeKyber)}
}

// EncryptNames lists the registered AEAD tokens.
func EncryptNames() []string {
	return []string{string(EncryptAes128Colm0)}
}

// Scheme resolves the signature capability.
func (s SignatureAlg) Scheme() (enecrypto.Signature, error) {
	switch s {
	case SignatureEd25519:
		return keys.Ed25519, nil
	default:
		return nil, &ParseError{Kind: ParseUnknown, Token: string(s)}
	}
}

// Scheme resolves the key-exchange capability.
func (k KeyExchangeAlg) Scheme() (enecrypto.KeyExchange, error) {
	switch k {
	case KeyExchangeRistrettoDH:
		return keys.RistrettoDH, nil
	case KeyExchangeKyber:
		return keys.Kyber, nil
	default:
		return nil, &ParseError{Kind: ParseUnknown, Token: string(k)}
	}
}

// Cipher resolves the AEAD capability.
func (e EncryptAlg) Cipher() (enecrypto.AeadCipher, error) {
	switch e {
	case EncryptAes128Colm0:
		return aead.Aes128Colm0, nil
	default:
		return nil, &ParseError{Kind: ParseNotAvailable, Token: string(e)}
	}
}
