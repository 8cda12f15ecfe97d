package proto

import (
	"golang.org/x/crypto/sha3"

	enecrypto "github.com/ene-project/ene/crypto"
)

// sonlyDigest computes SHA3-512(id ‖ 0xff ‖ SHA3-512(aad) ‖ message): the
// value signed by the SONLY protocol. Hashing the associated data first
// keeps the outer input unambiguous for arbitrary aad.
func sonlyDigest(id string, aad, message []byte) []byte {
	aadSum := sha3.Sum512(aad)
	return digest512([]byte(id), []byte{idSeparator}, aadSum[:], message)
}

// SonlySend signs the message, binding the sender identity and the
// associated data. The message itself is transmitted in the clear.
func SonlySend(sig enecrypto.Signature, ida string, sk enecrypto.SignaturePrivateKey, aad, message []byte) (enecrypto.SignatureValue, error) {
	return sig.Sign(sk, sonlyDigest(ida, aad, message))
}

// SonlyRecv verifies a SONLY signature.
func SonlyRecv(sig enecrypto.Signature, ida string, pk enecrypto.SignaturePublicKey, sv enecrypto.SignatureValue, aad, message []byte) error {
	if !sig.Verify(pk, sv, sonlyDigest(ida, aad, message)) {
		return &enecrypto.VerificationError{Which: sig.Name()}
	}
	return nil
}
