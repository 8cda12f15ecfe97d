// Package format implements the self-describing binary envelope layer: a
// deterministic CBOR encoding of the three envelope shapes (sealed private
// key, exportable public key, encrypted message), each discriminated by a
// type tag folded into the magic string. A message envelope can never be
// mis-decoded as a key envelope: the tag is checked before any payload is
// touched.
package format

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/ene-project/ene/alg"
	enecrypto "github.com/ene-project/ene/crypto"
	"github.com/ene-project/ene/crypto/keys"
)

// CurrentVersion is the format major version. Envelopes carrying any other
// value are rejected.
const CurrentVersion uint16 = 1

// Envelope magic strings: "ENE" plus the type tag.
const (
	MagicPublicKey  = "ENEPK"
	MagicPrivateKey = "ENESK"
	MagicMessage    = "ENEMSG"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("format: encoder options: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("format: decoder options: " + err.Error())
	}
}

// envelope is the outer wire triple.
type envelope struct {
	_       struct{} `cbor:",toarray"`
	Magic   string
	Version uint16
	Payload cbor.RawMessage
}

func sealEnvelope(magic string, payload interface{}) ([]byte, error) {
	raw, err := encMode.Marshal(payload)
	if err != nil {
		return nil, &enecrypto.FormatError{Reason: "encode payload", Err: err}
	}
	out, err := encMode.Marshal(envelope{Magic: magic, Version: CurrentVersion, Payload: raw})
	if err != nil {
		return nil, &enecrypto.FormatError{Reason: "encode envelope", Err: err}
	}
	return out, nil
}

func openEnvelope(magic string, data []byte, payload interface{}) error {
	var env envelope
	if err := decMode.Unmarshal(data, &env); err != nil {
		return &enecrypto.FormatError{Reason: "decode envelope", Err: err}
	}
	if env.Magic != magic {
		return &enecrypto.FormatError{
			Reason: fmt.Sprintf("magic mismatch: expected %q, found %q", magic, env.Magic),
		}
	}
	if env.Version != CurrentVersion {
		return &enecrypto.FormatError{
			Reason: fmt.Sprintf("unsupported version %d (current %d)", env.Version, CurrentVersion),
		}
	}
	if err := decMode.Unmarshal(env.Payload, payload); err != nil {
		return &enecrypto.FormatError{Reason: "decode payload", Err: err}
	}
	return nil
}

// publicKeyPayload is the PK envelope body.
type publicKeyPayload struct {
	_   struct{} `cbor:",toarray"`
	ID  string
	Key map[string][]byte
}

// EncodePublicKey serializes an exportable contact.
func EncodePublicKey(id string, pk *keys.PublicKeySet) ([]byte, error) {
	return sealEnvelope(MagicPublicKey, publicKeyPayload{ID: id, Key: publicKeySetToWire(pk)})
}

// DecodePublicKey deserializes and validates a PK envelope.
func DecodePublicKey(data []byte) (string, *keys.PublicKeySet, error) {
	var p publicKeyPayload
	if err := openEnvelope(MagicPublicKey, data, &p); err != nil {
		return "", nil, err
	}
	pk, err := publicKeySetFromWire(p.Key)
	if err != nil {
		return "", nil, err
	}
	return p.ID, pk, nil
}

// privateKeyPayload is the SK envelope body: a sealed profile.
type privateKeyPayload struct {
	_          struct{} `cbor:",toarray"`
	ID         string
	Encrypt    string
	Salt       []byte
	Ciphertext []byte
}

// EncodePrivateKey serializes a sealed profile.
func EncodePrivateKey(id string, enc alg.EncryptAlg, salt, ciphertext []byte) ([]byte, error) {
	return sealEnvelope(MagicPrivateKey, privateKeyPayload{
		ID: id, Encrypt: string(enc), Salt: salt, Ciphertext: ciphertext,
	})
}

// DecodePrivateKey deserializes an SK envelope. The ciphertext is returned
// sealed; opening it is the profile layer's concern.
func DecodePrivateKey(data []byte) (id string, enc alg.EncryptAlg, salt, ciphertext []byte, err error) {
	var p privateKeyPayload
	if err := openEnvelope(MagicPrivateKey, data, &p); err != nil {
		return "", "", nil, nil, err
	}
	return p.ID, alg.EncryptAlg(p.Encrypt), p.Salt, p.Ciphertext, nil
}

// Meta carries the sender identity with its public-key subset and, for the
// protocols that address a recipient, the recipient identity with its
// short-fingerprint subset.
type Meta struct {
	SenderID       string
	SenderKey      *keys.PublicKeySet
	RecipientID    string
	RecipientShort *keys.ShortPublicKeySet
}

// HasRecipient reports whether the recipient hint is present.
func (m *Meta) HasRecipient() bool {
	return m.RecipientShort != nil
}

type metaSenderWire struct {
	_   struct{} `cbor:",toarray"`
	ID  string
	Key map[string][]byte
}

type metaRecipientWire struct {
	_   struct{} `cbor:",toarray"`
	ID  string
	Key map[string][]byte
}

type metaWire struct {
	S metaSenderWire     `cbor:"s"`
	R *metaRecipientWire `cbor:"r"`
}

// messagePayload is the MSG envelope body.
type messagePayload struct {
	_        struct{} `cbor:",toarray"`
	Meta     metaWire
	Protocol cbor.RawMessage
	Payload  []byte
}

// EncodeMessage serializes an encrypted message envelope.
func EncodeMessage(meta *Meta, p alg.Protocol, payload []byte) ([]byte, error) {
	proto, err := marshalProtocol(p)
	if err != nil {
		return nil, err
	}
	mw := metaWire{
		S: metaSenderWire{ID: meta.SenderID, Key: publicKeySetToWire(meta.SenderKey)},
	}
	if meta.HasRecipient() {
		mw.R = &metaRecipientWire{ID: meta.RecipientID, Key: shortSetToWire(meta.RecipientShort)}
	}
	return sealEnvelope(MagicMessage, messagePayload{Meta: mw, Protocol: proto, Payload: payload})
}

// DecodeMessage deserializes a MSG envelope into its metadata, protocol, and
// opaque engine payload.
func DecodeMessage(data []byte) (*Meta, alg.Protocol, []byte, error) {
	var p messagePayload
	if err := openEnvelope(MagicMessage, data, &p); err != nil {
		return nil, nil, nil, err
	}
	proto, err := unmarshalProtocol(p.Protocol)
	if err != nil {
		return nil, nil, nil, err
	}
	senderKey, err := publicKeySetFromWire(p.Meta.S.Key)
	if err != nil {
		return nil, nil, nil, err
	}
	meta := &Meta{SenderID: p.Meta.S.ID, SenderKey: senderKey}
	if p.Meta.R != nil {
		short, err := shortSetFromWire(p.Meta.R.Key)
		if err != nil {
			return nil, nil, nil, err
		}
		meta.RecipientID = p.Meta.R.ID
		meta.RecipientShort = short
	}
	return meta, proto, p.Payload, nil
}
