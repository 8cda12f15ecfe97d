// Package ene is an end-to-end encrypted messaging and file-encryption
// library. A long-term identity (a profile) holds one private key per
// algorithm slot; given a correspondent's public key set, SendTo produces a
// self-describing envelope binding a plaintext and optional associated data
// to both identities under one of three protocols, and RecvFrom inverts it.
package ene

import (
	"crypto/rand"
	"errors"
	"io"
	"strings"

	"github.com/ene-project/ene/alg"
	"github.com/ene-project/ene/crypto/keys"
)

// Ene is a loaded profile: an identifier and its secret key set.
type Ene struct {
	id  string
	key *keys.SecretKeySet

	// Rand is the random source used by SendTo. Defaults to crypto/rand.
	Rand io.Reader
}

// New wraps an identifier and secret key set into a profile.
func New(id string, key *keys.SecretKeySet) *Ene {
	return &Ene{id: id, key: key, Rand: rand.Reader}
}

// ID returns the profile identifier.
func (e *Ene) ID() string { return e.id }

// Secret returns the profile's secret key set.
func (e *Ene) Secret() *keys.SecretKeySet { return e.key }

// Zero overwrites the profile's key material.
func (e *Ene) Zero() { e.key.Zero() }

// And pairs the profile with a correspondent for one operation. For SendTo
// the correspondent is the recipient; for RecvFrom it is the sender.
func (e *Ene) And(id string, pk *keys.PublicKeySet) *And {
	return &And{ene: e, targetID: id, targetKey: pk}
}

// Builder selects which algorithm slots a generated profile carries.
type Builder struct {
	Ed25519     bool
	RistrettoDH bool
	Kyber       bool
}

// DefaultBuilder enables the classical slots.
func DefaultBuilder() Builder {
	return Builder{Ed25519: true, RistrettoDH: true}
}

// ParseBuilder parses a comma-separated slot list, e.g.
// "ed25519,ristrettodh".
func ParseBuilder(s string) (Builder, error) {
	var b Builder
	for _, tok := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(tok)) {
		case keys.Ed25519Name:
			b.Ed25519 = true
		case keys.RistrettoDHName:
			b.RistrettoDH = true
		case keys.KyberName:
			b.Kyber = true
		default:
			return Builder{}, &alg.ParseError{Kind: alg.ParseUnknown, Token: tok}
		}
	}
	return b, nil
}

// Generate creates a fresh profile with the selected slots.
func (b Builder) Generate(id string, rng io.Reader) (*Ene, error) {
	if id == "" {
		return nil, errors.New("ene: empty identifier")
	}
	if !b.Ed25519 && !b.RistrettoDH && !b.Kyber {
		return nil, errors.New("ene: no algorithm slots selected")
	}

	set := &keys.SecretKeySet{}
	var err error
	if b.Ed25519 {
		if set.Ed25519, err = keys.GenerateEd25519(rng); err != nil {
			return nil, err
		}
	}
	if b.RistrettoDH {
		if set.RistrettoDH, err = keys.GenerateRistrettoDH(rng); err != nil {
			return nil, err
		}
	}
	if b.Kyber {
		if set.Kyber, err = keys.GenerateKyber(rng); err != nil {
			return nil, err
		}
	}

	e := New(id, set)
	e.Rand = rng
	return e, nil
}
