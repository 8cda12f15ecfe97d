package proto

import (
	"io"

	"github.com/gtank/ristretto255"
	"golang.org/x/crypto/sha3"

	enecrypto "github.com/ene-project/ene/crypto"
	"github.com/ene-project/ene/crypto/keys"
	"github.com/ene-project/ene/internal/memutil"
)

// One-pass OAKE.
//
//	Party A                                                 Party B
//	   |                            X                          |
//	   +------------------------------------------------------>|
//
//	e   = SHA3-512(ID_A ‖ A ‖ ID_B ‖ B ‖ X)  reduced to a scalar
//	K_A = B·(a + e·x)          K_B = A·b + X·(e·b)
//	(key, nonce) = SHAKE256(K)
//
// The OAKE family (Yao et al.) authenticates implicitly: only the holders of
// the two long-term secrets can derive K. This is the one-pass variant from
// the appendix of the OAKE paper, fixed to the Ristretto255 group.

// ooakeChallenge derives the challenge scalar e. The concatenation order is
// ida, A, idb, B, X with no separators; every field after the identifiers is
// a fixed-length compressed point.
func ooakeChallenge(ida string, aa *ristretto255.Element, idb string, bb, xx *ristretto255.Element) (*ristretto255.Scalar, error) {
	wide := digest512([]byte(ida), aa.Bytes(), []byte(idb), bb.Bytes(), xx.Bytes())
	e, err := ristretto255.NewScalar().SetUniformBytes(wide)
	if err != nil {
		return nil, &enecrypto.InvalidValueError{Reason: "scalar reduction failed"}
	}
	return e, nil
}

// ooakeExpand reads the AEAD key and nonce, in that order, from SHAKE256 of
// the compressed shared point.
func ooakeExpand(aead enecrypto.AeadCipher, k *ristretto255.Element) (key, nonce []byte) {
	xof := sha3.NewShake256()
	xof.Write(k.Bytes())
	key = make([]byte, aead.KeyLength())
	nonce = make([]byte, aead.NonceLength())
	io.ReadFull(xof, key)
	io.ReadFull(xof, nonce)
	return key, nonce
}

// OoakeSend encrypts plaintext for the recipient under an implicitly
// authenticated shared key, returning the ephemeral point and ciphertext.
func OoakeSend(
	rand io.Reader,
	aead enecrypto.AeadCipher,
	ida string, ska *keys.RistrettoDHSecretKey,
	idb string, pkb *keys.RistrettoDHPublicKey,
	aad, plaintext []byte,
) (*keys.RistrettoDHMessage, []byte, error) {
	x, err := keys.GenerateRistrettoDH(rand)
	if err != nil {
		return nil, nil, err
	}
	xx := x.Public()

	e, err := ooakeChallenge(ida, ska.Public().Element(), idb, pkb.Element(), xx.Element())
	if err != nil {
		return nil, nil, err
	}

	// k = B·(a + e·x)
	s := ristretto255.NewScalar().Multiply(e, x.Scalar())
	s = s.Add(ska.Scalar(), s)
	k := ristretto255.NewIdentityElement().ScalarMult(s, pkb.Element())

	key, nonce := ooakeExpand(aead, k)
	defer memutil.WipeAll(key, nonce)

	ciphertext, err := aead.Seal(key, nonce, aad, plaintext)
	if err != nil {
		return nil, nil, err
	}
	msg, err := keys.RistrettoDHMessageFromBytes(xx.Bytes())
	if err != nil {
		return nil, nil, err
	}
	return msg, ciphertext, nil
}

// OoakeRecv derives the same shared key from the recipient side and opens
// the ciphertext.
func OoakeRecv(
	aead enecrypto.AeadCipher,
	idb string, skb *keys.RistrettoDHSecretKey,
	ida string, pka *keys.RistrettoDHPublicKey,
	msg *keys.RistrettoDHMessage,
	aad, ciphertext []byte,
) ([]byte, error) {
	e, err := ooakeChallenge(ida, pka.Element(), idb, skb.Public().Element(), msg.Element())
	if err != nil {
		return nil, err
	}

	// k = A·b + X·(e·b), algebraically equal to the sender's B·(a + e·x)
	eb := ristretto255.NewScalar().Multiply(e, skb.Scalar())
	k := ristretto255.NewIdentityElement().ScalarMult(skb.Scalar(), pka.Element())
	k = k.Add(k, ristretto255.NewIdentityElement().ScalarMult(eb, msg.Element()))

	key, nonce := ooakeExpand(aead, k)
	defer memutil.WipeAll(key, nonce)

	return aead.Open(key, nonce, aad, ciphertext)
}
