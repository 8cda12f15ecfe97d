// Package profile seals a secret key set to disk under a password-derived
// key and opens it again. A sealed profile is an SK envelope carrying the
// identifier, the AEAD choice, the KDF salt, and the ciphertext.
package profile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"

	"github.com/ene-project/ene/alg"
	enecrypto "github.com/ene-project/ene/crypto"
	"github.com/ene-project/ene/crypto/keys"
	"github.com/ene-project/ene/format"
	"github.com/ene-project/ene/internal/memutil"
)

// SaltLength is the byte length of the KDF salt.
const SaltLength = 16

// Pinned Argon2 parameters. The derived output is split into the AEAD key
// and nonce, so a given password and salt fix the whole sealing key.
const (
	argonTime    = 3
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 1
)

// deriveKey stretches the password into keyLen+nonceLen bytes and splits.
// Callers must wipe both returned slices.
func deriveKey(password, salt []byte, aead enecrypto.AeadCipher) (key, nonce []byte) {
	tmp := argon2.Key(password, salt, argonTime, argonMemory, argonThreads,
		uint32(aead.KeyLength()+aead.NonceLength()))
	return tmp[:aead.KeyLength()], tmp[aead.KeyLength():]
}

// Seal encrypts the secret key set under the password and wraps the result
// in an SK envelope. The salt doubles as the AEAD associated data, binding
// the KDF input to the ciphertext.
func Seal(rand io.Reader, enc alg.EncryptAlg, id string, password []byte, sk *keys.SecretKeySet) ([]byte, error) {
	aead, err := enc.Cipher()
	if err != nil {
		return nil, err
	}

	salt := make([]byte, SaltLength)
	if _, err := io.ReadFull(rand, salt); err != nil {
		return nil, fmt.Errorf("%w: %v", enecrypto.ErrRand, err)
	}

	key, nonce := deriveKey(password, salt, aead)
	defer memutil.WipeAll(key, nonce)

	body, err := format.EncodeSecretKeySet(sk)
	if err != nil {
		return nil, err
	}
	defer memutil.Wipe(body)

	ciphertext, err := aead.Seal(key, nonce, salt, body)
	if err != nil {
		return nil, err
	}

	return format.EncodePrivateKey(id, enc, salt, ciphertext)
}

// Open inverts Seal. Any mismatch between password and ciphertext surfaces
// as a VerificationError without distinguishing a wrong password from
// tampering.
func Open(password, sealed []byte) (string, *keys.SecretKeySet, error) {
	id, enc, salt, ciphertext, err := format.DecodePrivateKey(sealed)
	if err != nil {
		return "", nil, err
	}
	aead, err := enc.Cipher()
	if err != nil {
		return "", nil, err
	}
	if len(salt) != SaltLength {
		return "", nil, enecrypto.ErrInvalidLength
	}

	key, nonce := deriveKey(password, salt, aead)
	defer memutil.WipeAll(key, nonce)

	body, err := aead.Open(key, nonce, salt, ciphertext)
	if err != nil {
		return "", nil, &enecrypto.VerificationError{Which: "profile"}
	}
	defer memutil.Wipe(body)

	sk, err := format.DecodeSecretKeySet(body)
	if err != nil {
		return "", nil, err
	}
	return id, sk, nil
}

// DefaultPath resolves the default sealed-profile location,
// <user config dir>/ene/key.ene.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "ene", "key.ene"), nil
}
