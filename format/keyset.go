package format

import (
	enecrypto "github.com/ene-project/ene/crypto"
	"github.com/ene-project/ene/crypto/keys"
	"github.com/ene-project/ene/internal/memutil"
)

// Key sets travel as CBOR maps keyed by algorithm token with byte-string
// values. Absent slots are omitted; unknown tokens are ignored so newer
// peers with extra slots stay readable.

func publicKeySetToWire(pk *keys.PublicKeySet) map[string][]byte {
	m := make(map[string][]byte)
	if pk.Ed25519 != nil {
		m[keys.Ed25519Name] = pk.Ed25519.Bytes()
	}
	if pk.RistrettoDH != nil {
		m[keys.RistrettoDHName] = pk.RistrettoDH.Bytes()
	}
	if pk.Kyber != nil {
		m[keys.KyberName] = pk.Kyber.Bytes()
	}
	return m
}

func publicKeySetFromWire(m map[string][]byte) (*keys.PublicKeySet, error) {
	pk := &keys.PublicKeySet{}
	var err error
	if b, ok := m[keys.Ed25519Name]; ok {
		if pk.Ed25519, err = keys.Ed25519PublicKeyFromBytes(b); err != nil {
			return nil, &enecrypto.FormatError{Reason: keys.Ed25519Name + " public key", Err: err}
		}
	}
	if b, ok := m[keys.RistrettoDHName]; ok {
		if pk.RistrettoDH, err = keys.RistrettoDHPublicKeyFromBytes(b); err != nil {
			return nil, &enecrypto.FormatError{Reason: keys.RistrettoDHName + " public key", Err: err}
		}
	}
	if b, ok := m[keys.KyberName]; ok {
		if pk.Kyber, err = keys.KyberPublicKeyFromBytes(b); err != nil {
			return nil, &enecrypto.FormatError{Reason: keys.KyberName + " public key", Err: err}
		}
	}
	return pk, nil
}

func shortSetToWire(sp *keys.ShortPublicKeySet) map[string][]byte {
	m := make(map[string][]byte)
	if sp.Ed25519 != nil {
		m[keys.Ed25519Name] = sp.Ed25519.Bytes()
	}
	if sp.RistrettoDH != nil {
		m[keys.RistrettoDHName] = sp.RistrettoDH.Bytes()
	}
	if sp.Kyber != nil {
		m[keys.KyberName] = sp.Kyber.Bytes()
	}
	return m
}

func shortSetFromWire(m map[string][]byte) (*keys.ShortPublicKeySet, error) {
	sp := &keys.ShortPublicKeySet{}
	set := func(dst **keys.Short, name string) error {
		b, ok := m[name]
		if !ok {
			return nil
		}
		s, err := keys.ShortFromBytes(b)
		if err != nil {
			return &enecrypto.FormatError{Reason: name + " short fingerprint", Err: err}
		}
		*dst = &s
		return nil
	}
	if err := set(&sp.Ed25519, keys.Ed25519Name); err != nil {
		return nil, err
	}
	if err := set(&sp.RistrettoDH, keys.RistrettoDHName); err != nil {
		return nil, err
	}
	if err := set(&sp.Kyber, keys.KyberName); err != nil {
		return nil, err
	}
	return sp, nil
}

// EncodeSecretKeySet produces the canonical binary form of a secret key set:
// the body that profile sealing encrypts. Callers must wipe the returned
// buffer when done.
func EncodeSecretKeySet(sk *keys.SecretKeySet) ([]byte, error) {
	m := make(map[string][]byte)
	if sk.Ed25519 != nil {
		m[keys.Ed25519Name] = sk.Ed25519.Bytes()
	}
	if sk.RistrettoDH != nil {
		m[keys.RistrettoDHName] = sk.RistrettoDH.Bytes()
	}
	if sk.Kyber != nil {
		m[keys.KyberName] = sk.Kyber.Bytes()
	}
	out, err := encMode.Marshal(m)
	if err != nil {
		return nil, &enecrypto.FormatError{Reason: "encode secret key set", Err: err}
	}
	return out, nil
}

// DecodeSecretKeySet inverts EncodeSecretKeySet, wiping the intermediate
// slot buffers.
func DecodeSecretKeySet(data []byte) (*keys.SecretKeySet, error) {
	var m map[string][]byte
	if err := decMode.Unmarshal(data, &m); err != nil {
		return nil, &enecrypto.FormatError{Reason: "decode secret key set", Err: err}
	}
	defer func() {
		for _, b := range m {
			memutil.Wipe(b)
		}
	}()

	sk := &keys.SecretKeySet{}
	var err error
	if b, ok := m[keys.Ed25519Name]; ok {
		if sk.Ed25519, err = keys.Ed25519SecretKeyFromBytes(b); err != nil {
			return nil, &enecrypto.FormatError{Reason: keys.Ed25519Name + " secret key", Err: err}
		}
	}
	if b, ok := m[keys.RistrettoDHName]; ok {
		if sk.RistrettoDH, err = keys.RistrettoDHSecretKeyFromBytes(b); err != nil {
			return nil, &enecrypto.FormatError{Reason: keys.RistrettoDHName + " secret key", Err: err}
		}
	}
	if b, ok := m[keys.KyberName]; ok {
		if sk.Kyber, err = keys.KyberSecretKeyFromBytes(b); err != nil {
			return nil, &enecrypto.FormatError{Reason: keys.KyberName + " secret key", Err: err}
		}
	}
	return sk, nil
}
