package alg

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultProtocolName is the protocol used when the caller names none.
const DefaultProtocolName = "sigae-ed25519-ristrettodh-aes128colm0"

// Protocol is the tagged union of the three envelope protocols.
type Protocol interface {
	fmt.Stringer
	isProtocol()
}

// Sonly is the signature-only protocol: authenticity without confidentiality.
type Sonly struct {
	Sig SignatureAlg
}

// Ooake is the one-pass implicitly-authenticated key exchange. It is defined
// only over the classical Diffie-Hellman slot.
type Ooake struct {
	Kex KeyExchangeAlg
	Enc EncryptAlg
}

// Sigae is the one-pass signed SIGMA variant. BindAAD selects whether the
// signature additionally commits to the associated data and plaintext.
type Sigae struct {
	BindAAD bool
	Sig     SignatureAlg
	Kex     KeyExchangeAlg
	Enc     EncryptAlg
}

func (Sonly) isProtocol() {}
func (Ooake) isProtocol() {}
func (Sigae) isProtocol() {}

func (p Sonly) String() string {
	return "sonly-" + string(p.Sig)
}

func (p Ooake) String() string {
	return "ooake-" + string(p.Kex) + "-" + string(p.Enc)
}

func (p Sigae) String() string {
	name := "sigae"
	if p.BindAAD {
		name += "+"
	}
	return name + "-" + string(p.Sig) + "-" + string(p.Kex) + "-" + string(p.Enc)
}

// ParseErrorKind classifies protocol-string parse failures.
type ParseErrorKind uint8

const (
	// ParseUnknown reports an unrecognized token.
	ParseUnknown ParseErrorKind = iota

	// ParseUnexpectedEnd reports a truncated protocol string.
	ParseUnexpectedEnd

	// ParseNotAvailable reports a recognized but disallowed combination.
	ParseNotAvailable
)

// ErrParse is matched by every ParseError.
var ErrParse = errors.New("protocol parse error")

// ParseError reports a protocol-string parse failure.
type ParseError struct {
	Kind  ParseErrorKind
	Token string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ParseUnexpectedEnd:
		return "protocol parse error: unexpected end"
	case ParseNotAvailable:
		return fmt.Sprintf("protocol parse error: %q is not available", e.Token)
	default:
		return fmt.Sprintf("protocol parse error: unknown token %q", e.Token)
	}
}

func (e *ParseError) Unwrap() error { return ErrParse }

// tokens walks the dash-separated fields of a protocol string.
type tokens struct {
	fields []string
	pos    int
}

func (t *tokens) next() (string, error) {
	if t.pos >= len(t.fields) {
		return "", &ParseError{Kind: ParseUnexpectedEnd}
	}
	s := strings.ToLower(strings.TrimSpace(t.fields[t.pos]))
	t.pos++
	return s, nil
}

// Parse parses a lowercase dash-separated protocol name, e.g.
// "sigae+-ed25519-ristrettodh-aes128colm0".
func Parse(s string) (Protocol, error) {
	t := &tokens{fields: strings.Split(s, "-")}

	head, err := t.next()
	if err != nil {
		return nil, err
	}

	switch head {
	case "sonly":
		sig, err := parseSignature(t)
		if err != nil {
			return nil, err
		}
		return Sonly{Sig: sig}, nil

	case "ooake":
		kex, err := parseKeyExchange(t)
		if err != nil {
			return nil, err
		}
		// OOAKE's key derivation is Diffie-Hellman algebra; a KEM slot
		// cannot serve it.
		if kex != KeyExchangeRistrettoDH {
			return nil, &ParseError{Kind: ParseNotAvailable, Token: head}
		}
		enc, err := parseEncrypt(t)
		if err != nil {
			return nil, err
		}
		return Ooake{Kex: kex, Enc: enc}, nil

	case "sigae", "sigae+":
		sig, err := parseSignature(t)
		if err != nil {
			return nil, err
		}
		kex, err := parseKeyExchange(t)
		if err != nil {
			return nil, err
		}
		enc, err := parseEncrypt(t)
		if err != nil {
			return nil, err
		}
		return Sigae{
			BindAAD: strings.HasSuffix(head, "+"),
			Sig:     sig,
			Kex:     kex,
			Enc:     enc,
		}, nil

	default:
		return nil, &ParseError{Kind: ParseUnknown, Token: head}
	}
}

func parseSignature(t *tokens) (SignatureAlg, error) {
	s, err := t.next()
	if err != nil {
		return "", err
	}
	switch SignatureAlg(s) {
	case SignatureEd25519:
		return SignatureEd25519, nil
	default:
		return "", &ParseError{Kind: ParseUnknown, Token: s}
	}
}

func parseKeyExchange(t *tokens) (KeyExchangeAlg, error) {
	s, err := t.next()
	if err != nil {
		return "", err
	}
	switch KeyExchangeAlg(s) {
	case KeyExchangeRistrettoDH:
		return KeyExchangeRistrettoDH, nil
	case KeyExchangeKyber:
		return KeyExchangeKyber, nil
	default:
		return "", &ParseError{Kind: ParseUnknown, Token: s}
	}
}

func parseEncrypt(t *tokens) (EncryptAlg, error) {
	s, err := t.next()
	if err != nil {
		return "", err
	}
	switch EncryptAlg(s) {
	case EncryptAes128Colm0:
		return EncryptAes128Colm0, nil
	case EncryptNorxMRS:
		return "", &ParseError{Kind: ParseNotAvailable, Token: s}
	default:
		return "", &ParseError{Kind: ParseUnknown, Token: s}
	}
}

// ParseEncryptName parses a single AEAD token, e.g. "aes128colm0".
func ParseEncryptName(s string) (EncryptAlg, error) {
	return parseEncrypt(&tokens{fields: []string{s}})
}

// Default returns the default protocol.
func Default() Protocol {
	p, err := Parse(DefaultProtocolName)
	if err != nil {
		panic("alg: default protocol must parse: " + err.Error())
	}
	return p
}
