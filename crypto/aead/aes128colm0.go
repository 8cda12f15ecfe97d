// Package aead provides ENE's authenticated-cipher adapters.
package aead

import (
	"crypto/aes"
	"errors"

	enecrypto "github.com/ene-project/ene/crypto"
	"github.com/ene-project/ene/crypto/aead/colm"
)

// Aes128Colm0Name is the registry token of the default cipher.
const Aes128Colm0Name = "aes128colm0"

// aes128colm0 implements crypto.AeadCipher with AES-128 in COLM0 mode.
// Key, nonce, and tag are one block (16 bytes) each.
type aes128colm0 struct{}

// Aes128Colm0 is the default AEAD.
var Aes128Colm0 enecrypto.AeadCipher = aes128colm0{}

func (aes128colm0) Name() string { return Aes128Colm0Name }

func (aes128colm0) KeyLength() int { return colm.KeySize }

func (aes128colm0) NonceLength() int { return colm.NonceSize }

func (aes128colm0) TagLength() int { return colm.TagSize }

func (aes128colm0) Seal(key, nonce, aad, plaintext []byte) ([]byte, error) {
	c, err := newColm(key, nonce)
	if err != nil {
		return nil, err
	}
	out, err := c.Seal(nonce, aad, plaintext)
	if err != nil {
		return nil, enecrypto.ErrInvalidLength
	}
	return out, nil
}

func (aes128colm0) Open(key, nonce, aad, ciphertext []byte) ([]byte, error) {
	c, err := newColm(key, nonce)
	if err != nil {
		return nil, err
	}
	out, err := c.Open(nonce, aad, ciphertext)
	if err != nil {
		if errors.Is(err, colm.ErrOpen) {
			return nil, &enecrypto.VerificationError{Which: Aes128Colm0Name}
		}
		return nil, enecrypto.ErrInvalidLength
	}
	return out, nil
}

func newColm(key, nonce []byte) (*colm.Cipher, error) {
	if len(key) != colm.KeySize || len(nonce) != colm.NonceSize {
		return nil, enecrypto.ErrInvalidLength
	}
	b, err := aes.NewCipher(key)
	if err != nil {
		return nil, enecrypto.ErrInvalidLength
	}
	return colm.New(b)
}
