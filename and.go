package ene

import (
	"github.com/ene-project/ene/alg"
	enecrypto "github.com/ene-project/ene/crypto"
	"github.com/ene-project/ene/crypto/keys"
	"github.com/ene-project/ene/format"
	"github.com/ene-project/ene/proto"
)

// And borrows a profile and one correspondent's material for a single
// operation.
type And struct {
	ene       *Ene
	targetID  string
	targetKey *keys.PublicKeySet
}

// SendTo encrypts (or signs) message for the correspondent under the given
// protocol and returns the MSG envelope bytes.
func (a *And) SendTo(p alg.Protocol, aad, message []byte) ([]byte, error) {
	switch p := p.(type) {
	case alg.Sonly:
		return a.sendSonly(p, aad, message)
	case alg.Ooake:
		return a.sendOoake(p, aad, message)
	case alg.Sigae:
		return a.sendSigae(p, aad, message)
	default:
		return nil, &enecrypto.FormatError{Reason: "unknown protocol"}
	}
}

// RecvFrom inverts SendTo: it consumes the engine payload of a decoded MSG
// envelope, using the profile's secret keys and the correspondent's (the
// sender's) public keys. For Sonly the returned plaintext is empty.
func (a *And) RecvFrom(p alg.Protocol, aad, payload []byte) ([]byte, error) {
	switch p := p.(type) {
	case alg.Sonly:
		return a.recvSonly(p, aad, payload)
	case alg.Ooake:
		return a.recvOoake(p, aad, payload)
	case alg.Sigae:
		return a.recvSigae(p, aad, payload)
	default:
		return nil, &enecrypto.FormatError{Reason: "unknown protocol"}
	}
}

func (a *And) sendSonly(p alg.Sonly, aad, message []byte) ([]byte, error) {
	sig, err := p.Sig.Scheme()
	if err != nil {
		return nil, err
	}
	sk, pub, err := signatureSlot(a.ene.key, p.Sig)
	if err != nil {
		return nil, err
	}

	// The envelope payload carries only the signature, so both ends sign
	// the empty message; the associated data is what binds content.
	sv, err := proto.SonlySend(sig, a.ene.id, sk, aad, nil)
	if err != nil {
		return nil, err
	}
	payload, err := format.EncodeSonlyPayload(sv.Bytes())
	if err != nil {
		return nil, err
	}

	meta := &format.Meta{SenderID: a.ene.id, SenderKey: pub}
	return format.EncodeMessage(meta, p, payload)
}

func (a *And) recvSonly(p alg.Sonly, aad, payload []byte) ([]byte, error) {
	sig, err := p.Sig.Scheme()
	if err != nil {
		return nil, err
	}
	pk, err := signaturePublicSlot(a.targetKey, p.Sig)
	if err != nil {
		return nil, err
	}

	raw, err := format.DecodeSonlyPayload(payload)
	if err != nil {
		return nil, err
	}
	sv, err := sig.SignatureFromBytes(raw)
	if err != nil {
		return nil, err
	}
	if err := proto.SonlyRecv(sig, a.targetID, pk, sv, aad, nil); err != nil {
		return nil, err
	}
	return []byte{}, nil
}

func (a *And) sendOoake(p alg.Ooake, aad, message []byte) ([]byte, error) {
	aead, err := p.Enc.Cipher()
	if err != nil {
		return nil, err
	}
	if a.ene.key.RistrettoDH == nil {
		return nil, &enecrypto.UnsupportedError{Slot: keys.RistrettoDHName}
	}
	if a.targetKey.RistrettoDH == nil {
		return nil, &enecrypto.UnsupportedError{Slot: keys.RistrettoDHName}
	}
	ska := a.ene.key.RistrettoDH
	pkb := a.targetKey.RistrettoDH

	msg, ciphertext, err := proto.OoakeSend(a.ene.Rand, aead, a.ene.id, ska, a.targetID, pkb, aad, message)
	if err != nil {
		return nil, err
	}
	payload, err := format.EncodeOoakePayload(msg.Bytes(), ciphertext)
	if err != nil {
		return nil, err
	}

	short := keys.ShortOf(pkb)
	meta := &format.Meta{
		SenderID:       a.ene.id,
		SenderKey:      &keys.PublicKeySet{RistrettoDH: ska.Public()},
		RecipientID:    a.targetID,
		RecipientShort: &keys.ShortPublicKeySet{RistrettoDH: &short},
	}
	return format.EncodeMessage(meta, p, payload)
}

func (a *And) recvOoake(p alg.Ooake, aad, payload []byte) ([]byte, error) {
	aead, err := p.Enc.Cipher()
	if err != nil {
		return nil, err
	}
	if a.ene.key.RistrettoDH == nil {
		return nil, &enecrypto.UnsupportedError{Slot: keys.RistrettoDHName}
	}
	if a.targetKey.RistrettoDH == nil {
		return nil, &enecrypto.UnsupportedError{Slot: keys.RistrettoDHName}
	}

	rawMsg, ciphertext, err := format.DecodeOoakePayload(payload)
	if err != nil {
		return nil, err
	}
	msg, err := keys.RistrettoDHMessageFromBytes(rawMsg)
	if err != nil {
		return nil, err
	}

	return proto.OoakeRecv(aead, a.ene.id, a.ene.key.RistrettoDH, a.targetID, a.targetKey.RistrettoDH, msg, aad, ciphertext)
}

func (a *And) sendSigae(p alg.Sigae, aad, message []byte) ([]byte, error) {
	aead, err := p.Enc.Cipher()
	if err != nil {
		return nil, err
	}
	sig, err := p.Sig.Scheme()
	if err != nil {
		return nil, err
	}
	kex, err := p.Kex.Scheme()
	if err != nil {
		return nil, err
	}

	sigSK, sigPub, err := signatureSlot(a.ene.key, p.Sig)
	if err != nil {
		return nil, err
	}
	kexPK, short, err := keyExchangePublicSlot(a.targetKey, p.Kex)
	if err != nil {
		return nil, err
	}

	msg, sigCT, msgCT, err := proto.SigaeSend(a.ene.Rand, aead, sig, kex,
		a.ene.id, sigSK, a.targetID, kexPK, aad, message, p.BindAAD)
	if err != nil {
		return nil, err
	}
	payload, err := format.EncodeSigaePayload(msg.Bytes(), sigCT, msgCT)
	if err != nil {
		return nil, err
	}

	meta := &format.Meta{
		SenderID:       a.ene.id,
		SenderKey:      sigPub,
		RecipientID:    a.targetID,
		RecipientShort: short,
	}
	return format.EncodeMessage(meta, p, payload)
}

func (a *And) recvSigae(p alg.Sigae, aad, payload []byte) ([]byte, error) {
	aead, err := p.Enc.Cipher()
	if err != nil {
		return nil, err
	}
	sig, err := p.Sig.Scheme()
	if err != nil {
		return nil, err
	}
	kex, err := p.Kex.Scheme()
	if err != nil {
		return nil, err
	}

	kexSK, kexPK, err := keyExchangeSecretSlot(a.ene.key, p.Kex)
	if err != nil {
		return nil, err
	}
	sigPK, err := signaturePublicSlot(a.targetKey, p.Sig)
	if err != nil {
		return nil, err
	}

	rawMsg, sigCT, msgCT, err := format.DecodeSigaePayload(payload)
	if err != nil {
		return nil, err
	}
	msg, err := kex.MessageFromBytes(rawMsg)
	if err != nil {
		return nil, err
	}

	return proto.SigaeRecv(aead, sig, kex, a.ene.id, kexSK, kexPK, a.targetID, sigPK, msg, sigCT, msgCT, aad, p.BindAAD)
}

// signatureSlot projects the sender's signing key and its single-slot public
// subset.
func signatureSlot(set *keys.SecretKeySet, a alg.SignatureAlg) (enecrypto.SignaturePrivateKey, *keys.PublicKeySet, error) {
	switch a {
	case alg.SignatureEd25519:
		if set.Ed25519 == nil {
			return nil, nil, &enecrypto.UnsupportedError{Slot: keys.Ed25519Name}
		}
		return set.Ed25519, &keys.PublicKeySet{Ed25519: set.Ed25519.Public()}, nil
	default:
		return nil, nil, &enecrypto.UnsupportedError{Slot: string(a)}
	}
}

func signaturePublicSlot(set *keys.PublicKeySet, a alg.SignatureAlg) (enecrypto.SignaturePublicKey, error) {
	switch a {
	case alg.SignatureEd25519:
		if set.Ed25519 == nil {
			return nil, &enecrypto.UnsupportedError{Slot: keys.Ed25519Name}
		}
		return set.Ed25519, nil
	default:
		return nil, &enecrypto.UnsupportedError{Slot: string(a)}
	}
}

// keyExchangePublicSlot projects the recipient's key-exchange key and its
// single-slot short-fingerprint subset.
func keyExchangePublicSlot(set *keys.PublicKeySet, a alg.KeyExchangeAlg) (enecrypto.KeyExchangePublicKey, *keys.ShortPublicKeySet, error) {
	switch a {
	case alg.KeyExchangeRistrettoDH:
		if set.RistrettoDH == nil {
			return nil, nil, &enecrypto.UnsupportedError{Slot: keys.RistrettoDHName}
		}
		short := keys.ShortOf(set.RistrettoDH)
		return set.RistrettoDH, &keys.ShortPublicKeySet{RistrettoDH: &short}, nil
	case alg.KeyExchangeKyber:
		if set.Kyber == nil {
			return nil, nil, &enecrypto.UnsupportedError{Slot: keys.KyberName}
		}
		short := keys.ShortOf(set.Kyber)
		return set.Kyber, &keys.ShortPublicKeySet{Kyber: &short}, nil
	default:
		return nil, nil, &enecrypto.UnsupportedError{Slot: string(a)}
	}
}

func keyExchangeSecretSlot(set *keys.SecretKeySet, a alg.KeyExchangeAlg) (enecrypto.KeyExchangePrivateKey, enecrypto.KeyExchangePublicKey, error) {
	switch a {
	case alg.KeyExchangeRistrettoDH:
		if set.RistrettoDH == nil {
			return nil, nil, &enecrypto.UnsupportedError{Slot: keys.RistrettoDHName}
		}
		return set.RistrettoDH, set.RistrettoDH.Public(), nil
	case alg.KeyExchangeKyber:
		if set.Kyber == nil {
			return nil, nil, &enecrypto.UnsupportedError{Slot: keys.KyberName}
		}
		return set.Kyber, set.Kyber.Public(), nil
	default:
		return nil, nil, &enecrypto.UnsupportedError{Slot: string(a)}
	}
}
