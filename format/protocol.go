package format

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/ene-project/ene/alg"
	enecrypto "github.com/ene-project/ene/crypto"
)

// Protocols travel as arrays with a small uint discriminator followed by the
// variant fields; algorithm choices are their registry tokens.
const (
	protoTagSonly uint64 = iota
	protoTagOoake
	protoTagSigae
)

func marshalProtocol(p alg.Protocol) (cbor.RawMessage, error) {
	var v interface{}
	switch p := p.(type) {
	case alg.Sonly:
		v = []interface{}{protoTagSonly, string(p.Sig)}
	case alg.Ooake:
		v = []interface{}{protoTagOoake, string(p.Kex), string(p.Enc)}
	case alg.Sigae:
		v = []interface{}{protoTagSigae, p.BindAAD, string(p.Sig), string(p.Kex), string(p.Enc)}
	default:
		return nil, &enecrypto.FormatError{Reason: fmt.Sprintf("unencodable protocol %T", p)}
	}
	raw, err := encMode.Marshal(v)
	if err != nil {
		return nil, &enecrypto.FormatError{Reason: "encode protocol", Err: err}
	}
	return raw, nil
}

func unmarshalProtocol(raw cbor.RawMessage) (alg.Protocol, error) {
	var fields []cbor.RawMessage
	if err := decMode.Unmarshal(raw, &fields); err != nil {
		return nil, &enecrypto.FormatError{Reason: "decode protocol", Err: err}
	}
	if len(fields) == 0 {
		return nil, &enecrypto.FormatError{Reason: "empty protocol"}
	}

	var tag uint64
	if err := decMode.Unmarshal(fields[0], &tag); err != nil {
		return nil, &enecrypto.FormatError{Reason: "protocol discriminator", Err: err}
	}

	str := func(i int) (string, error) {
		if i >= len(fields) {
			return "", &enecrypto.FormatError{Reason: "truncated protocol"}
		}
		var s string
		if err := decMode.Unmarshal(fields[i], &s); err != nil {
			return "", &enecrypto.FormatError{Reason: "protocol token", Err: err}
		}
		return s, nil
	}

	// Reassembling the textual name and reparsing keeps the registry the
	// single authority on allowed combinations.
	switch tag {
	case protoTagSonly:
		sig, err := str(1)
		if err != nil {
			return nil, err
		}
		return reparse("sonly-" + sig)
	case protoTagOoake:
		kex, err := str(1)
		if err != nil {
			return nil, err
		}
		enc, err := str(2)
		if err != nil {
			return nil, err
		}
		return reparse("ooake-" + kex + "-" + enc)
	case protoTagSigae:
		if len(fields) < 2 {
			return nil, &enecrypto.FormatError{Reason: "truncated protocol"}
		}
		var bind bool
		if err := decMode.Unmarshal(fields[1], &bind); err != nil {
			return nil, &enecrypto.FormatError{Reason: "protocol flag", Err: err}
		}
		sig, err := str(2)
		if err != nil {
			return nil, err
		}
		kex, err := str(3)
		if err != nil {
			return nil, err
		}
		enc, err := str(4)
		if err != nil {
			return nil, err
		}
		name := "sigae"
		if bind {
			name += "+"
		}
		return reparse(name + "-" + sig + "-" + kex + "-" + enc)
	default:
		return nil, &enecrypto.FormatError{Reason: fmt.Sprintf("unknown protocol discriminator %d", tag)}
	}
}

func reparse(name string) (alg.Protocol, error) {
	p, err := alg.Parse(name)
	if err != nil {
		return nil, &enecrypto.FormatError{Reason: "protocol " + name, Err: err}
	}
	return p, nil
}

// Engine payloads.

type ooakePayload struct {
	_          struct{} `cbor:",toarray"`
	Message    []byte
	Ciphertext []byte
}

type sigaeTransport struct {
	_       struct{} `cbor:",toarray"`
	Message []byte
	SigCT   []byte
}

type sigaePayload struct {
	_         struct{} `cbor:",toarray"`
	Transport sigaeTransport
	MsgCT     []byte
}

// EncodeSonlyPayload wraps a detached signature.
func EncodeSonlyPayload(sig []byte) ([]byte, error) {
	out, err := encMode.Marshal(sig)
	if err != nil {
		return nil, &enecrypto.FormatError{Reason: "encode sonly payload", Err: err}
	}
	return out, nil
}

// DecodeSonlyPayload unwraps a detached signature.
func DecodeSonlyPayload(data []byte) ([]byte, error) {
	var sig []byte
	if err := decMode.Unmarshal(data, &sig); err != nil {
		return nil, &enecrypto.FormatError{Reason: "decode sonly payload", Err: err}
	}
	return sig, nil
}

// EncodeOoakePayload wraps the ephemeral point and ciphertext.
func EncodeOoakePayload(msg, ciphertext []byte) ([]byte, error) {
	out, err := encMode.Marshal(ooakePayload{Message: msg, Ciphertext: ciphertext})
	if err != nil {
		return nil, &enecrypto.FormatError{Reason: "encode ooake payload", Err: err}
	}
	return out, nil
}

// DecodeOoakePayload unwraps the ephemeral point and ciphertext.
func DecodeOoakePayload(data []byte) (msg, ciphertext []byte, err error) {
	var p ooakePayload
	if err := decMode.Unmarshal(data, &p); err != nil {
		return nil, nil, &enecrypto.FormatError{Reason: "decode ooake payload", Err: err}
	}
	return p.Message, p.Ciphertext, nil
}

// EncodeSigaePayload wraps the transport tuple and the payload ciphertext.
func EncodeSigaePayload(kexMsg, sigCT, msgCT []byte) ([]byte, error) {
	out, err := encMode.Marshal(sigaePayload{
		Transport: sigaeTransport{Message: kexMsg, SigCT: sigCT},
		MsgCT:     msgCT,
	})
	if err != nil {
		return nil, &enecrypto.FormatError{Reason: "encode sigae payload", Err: err}
	}
	return out, nil
}

// DecodeSigaePayload unwraps the transport tuple and the payload ciphertext.
func DecodeSigaePayload(data []byte) (kexMsg, sigCT, msgCT []byte, err error) {
	var p sigaePayload
	if err := decMode.Unmarshal(data, &p); err != nil {
		return nil, nil, nil, &enecrypto.FormatError{Reason: "decode sigae payload", Err: err}
	}
	return p.Transport.Message, p.Transport.SigCT, p.MsgCT, nil
}
