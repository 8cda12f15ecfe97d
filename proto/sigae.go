package proto

import (
	"io"

	"golang.org/x/crypto/sha3"

	enecrypto "github.com/ene-project/ene/crypto"
	"github.com/ene-project/ene/internal/memutil"
)

// One-pass SIGMA with AEAD.
//
//	Party A                                                 Party B
//	   |   X, AEAD(K1; SIG(a; ID_A‖0xff‖ID_B, B, X); ID_A‖0xff‖ID_B)  |
//	   |   AEAD(K2; message; aad)                              |
//	   +------------------------------------------------------>|
//
//	shared       = KEX(x, B) = KEX(b, X)
//	xof          = SHAKE256("SIGAE" ‖ SIG.NAME ‖ KEX.NAME ‖ shared)
//	(K1, nonce1) = xof read   — signature transport key, read FIRST
//	(K2, nonce2) = xof read   — payload key, read SECOND
//
// AEAD replaces SIGMA's MAC step: opening c_sig under the identifier pair as
// associated data both authenticates the transport and binds the identities.
// This is not SIGMA-I; identifiers travel in the clear, which suits a mail
// protocol where both ends are public anyway.

// sigaeXOF starts the key-expansion stream for one exchange.
func sigaeXOF(sig enecrypto.Signature, kex enecrypto.KeyExchange, shared []byte) sha3.ShakeHash {
	xof := sha3.NewShake256()
	xof.Write([]byte("SIGAE"))
	xof.Write([]byte(sig.Name()))
	xof.Write([]byte(kex.Name()))
	xof.Write(shared)
	return xof
}

func sigaeRead(xof sha3.ShakeHash, aead enecrypto.AeadCipher) (key, nonce []byte) {
	key = make([]byte, aead.KeyLength())
	nonce = make([]byte, aead.NonceLength())
	io.ReadFull(xof, key)
	io.ReadFull(xof, nonce)
	return key, nonce
}

func sigaeIDPair(ida, idb string) []byte {
	id := make([]byte, 0, len(ida)+len(idb)+1)
	id = append(id, ida...)
	id = append(id, idSeparator)
	return append(id, idb...)
}

// sigaeDigest computes the signed value: the identifier pair, the recipient
// KEX key, and the ephemeral message, plus digests of aad and plaintext when
// bindAAD is set.
func sigaeDigest(idPair []byte, pkb enecrypto.KeyExchangePublicKey, msg enecrypto.KeyExchangeMessage, aad, plaintext []byte, bindAAD bool) []byte {
	h := sha3.New512()
	h.Write(idPair)
	h.Write(pkb.Bytes())
	h.Write(msg.Bytes())
	if bindAAD {
		aadSum := sha3.Sum512(aad)
		ptSum := sha3.Sum512(plaintext)
		h.Write(aadSum[:])
		h.Write(ptSum[:])
	}
	return h.Sum(nil)
}

// SigaeSend performs the sender side: one key exchange toward the recipient,
// a signature over the public transcript (optionally committing to aad and
// plaintext), and two AEAD sealings under consecutive XOF reads.
func SigaeSend(
	rand io.Reader,
	aead enecrypto.AeadCipher,
	sig enecrypto.Signature,
	kex enecrypto.KeyExchange,
	ida string, sigSK enecrypto.SignaturePrivateKey,
	idb string, kexPK enecrypto.KeyExchangePublicKey,
	aad, plaintext []byte,
	bindAAD bool,
) (msg enecrypto.KeyExchangeMessage, sigCT, msgCT []byte, err error) {
	shared := make([]byte, kex.SharedLength())
	defer memutil.Wipe(shared)

	msg, err = kex.ExchangeTo(rand, shared, kexPK)
	if err != nil {
		return nil, nil, nil, err
	}

	xof := sigaeXOF(sig, kex, shared)
	idPair := sigaeIDPair(ida, idb)

	sv, err := sig.Sign(sigSK, sigaeDigest(idPair, kexPK, msg, aad, plaintext, bindAAD))
	if err != nil {
		return nil, nil, nil, err
	}

	key, nonce := sigaeRead(xof, aead)
	sigCT, err = aead.Seal(key, nonce, idPair, sv.Bytes())
	memutil.WipeAll(key, nonce)
	if err != nil {
		return nil, nil, nil, err
	}

	key, nonce = sigaeRead(xof, aead)
	msgCT, err = aead.Seal(key, nonce, aad, plaintext)
	memutil.WipeAll(key, nonce)
	if err != nil {
		return nil, nil, nil, err
	}

	return msg, sigCT, msgCT, nil
}

// SigaeRecv mirrors SigaeSend: rederives the shared key, opens the signature
// transport and the payload with the same ordered XOF reads, and verifies
// the signature over the reconstructed transcript.
func SigaeRecv(
	aead enecrypto.AeadCipher,
	sig enecrypto.Signature,
	kex enecrypto.KeyExchange,
	idb string, kexSK enecrypto.KeyExchangePrivateKey, kexPK enecrypto.KeyExchangePublicKey,
	ida string, sigPK enecrypto.SignaturePublicKey,
	msg enecrypto.KeyExchangeMessage,
	sigCT, msgCT []byte,
	aad []byte,
	bindAAD bool,
) ([]byte, error) {
	shared := make([]byte, kex.SharedLength())
	defer memutil.Wipe(shared)

	if err := kex.ExchangeFrom(shared, kexSK, msg); err != nil {
		return nil, err
	}

	xof := sigaeXOF(sig, kex, shared)
	idPair := sigaeIDPair(ida, idb)

	key, nonce := sigaeRead(xof, aead)
	sigBytes, err := aead.Open(key, nonce, idPair, sigCT)
	memutil.WipeAll(key, nonce)
	if err != nil {
		return nil, err
	}
	sv, err := sig.SignatureFromBytes(sigBytes)
	if err != nil {
		return nil, err
	}

	key, nonce = sigaeRead(xof, aead)
	plaintext, err := aead.Open(key, nonce, aad, msgCT)
	memutil.WipeAll(key, nonce)
	if err != nil {
		return nil, err
	}

	if !sig.Verify(sigPK, sv, sigaeDigest(idPair, kexPK, msg, aad, plaintext, bindAAD)) {
		memutil.Wipe(plaintext)
		return nil, &enecrypto.VerificationError{Which: sig.Name()}
	}
	return plaintext, nil
}
