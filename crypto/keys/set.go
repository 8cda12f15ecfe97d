package keys

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/dchest/siphash"

	enecrypto "github.com/ene-project/ene/crypto"
)

// ShortLength is the byte length of a short fingerprint.
const ShortLength = 16

// Short is a 128-bit fingerprint of a public key's canonical byte form:
// SipHash-2-4 with a fixed all-zero key. It is an identity hint, not a
// cryptographic commitment.
type Short [ShortLength]byte

// ShortOf fingerprints any packed value.
func ShortOf(p enecrypto.Packed) Short {
	h1, h2 := siphash.Hash128(0, 0, p.Bytes())
	var s Short
	binary.LittleEndian.PutUint64(s[:8], h1)
	binary.LittleEndian.PutUint64(s[8:], h2)
	return s
}

// ShortFromBytes decodes a 16-byte fingerprint.
func ShortFromBytes(b []byte) (Short, error) {
	var s Short
	if len(b) != ShortLength {
		return s, enecrypto.ErrInvalidLength
	}
	copy(s[:], b)
	return s, nil
}

// Bytes returns the 16-byte form.
func (s Short) Bytes() []byte {
	b := make([]byte, ShortLength)
	copy(b, s[:])
	return b
}

func (s Short) String() string {
	return "0x" + hex.EncodeToString(s[:])
}

// SecretKeySet holds one private key per algorithm slot. Every slot is
// independently optional; a protocol demanding an absent slot fails with
// Unsupported.
type SecretKeySet struct {
	Ed25519     *Ed25519SecretKey
	RistrettoDH *RistrettoDHSecretKey
	Kyber       *KyberSecretKey
}

// PublicKeySet holds one public key per algorithm slot.
type PublicKeySet struct {
	Ed25519     *Ed25519PublicKey
	RistrettoDH *RistrettoDHPublicKey
	Kyber       *KyberPublicKey
}

// ShortPublicKeySet holds one short fingerprint per algorithm slot. It is
// the compact recipient hint carried inside message envelopes.
type ShortPublicKeySet struct {
	Ed25519     *Short
	RistrettoDH *Short
	Kyber       *Short
}

// Public projects every present slot to its public key.
func (s *SecretKeySet) Public() *PublicKeySet {
	pk := &PublicKeySet{}
	if s.Ed25519 != nil {
		pk.Ed25519 = s.Ed25519.Public()
	}
	if s.RistrettoDH != nil {
		pk.RistrettoDH = s.RistrettoDH.Public()
	}
	if s.Kyber != nil {
		pk.Kyber = s.Kyber.Public()
	}
	return pk
}

// IsEmpty reports whether no slot is present.
func (s *SecretKeySet) IsEmpty() bool {
	return s.Ed25519 == nil && s.RistrettoDH == nil && s.Kyber == nil
}

// Zero overwrites all present key material.
func (s *SecretKeySet) Zero() {
	if s.Ed25519 != nil {
		s.Ed25519.Zero()
	}
	if s.RistrettoDH != nil {
		s.RistrettoDH.Zero()
	}
	if s.Kyber != nil {
		s.Kyber.Zero()
	}
}

// Short projects every present slot to its fingerprint.
func (p *PublicKeySet) Short() *ShortPublicKeySet {
	sp := &ShortPublicKeySet{}
	if p.Ed25519 != nil {
		s := ShortOf(p.Ed25519)
		sp.Ed25519 = &s
	}
	if p.RistrettoDH != nil {
		s := ShortOf(p.RistrettoDH)
		sp.RistrettoDH = &s
	}
	if p.Kyber != nil {
		s := ShortOf(p.Kyber)
		sp.Kyber = &s
	}
	return sp
}

// Contains structurally compares two key sets. For every slot present in
// BOTH sets the keys must be equal; each mismatch invokes onMismatch with
// the slot name and the two fingerprints. Missing slots on either side never
// count as mismatches, which keeps partial key sets comparable. Returns true
// iff no mismatch occurred.
func (p *PublicKeySet) Contains(other *PublicKeySet, onMismatch func(slot string, own, got Short)) bool {
	ok := true
	if p.Ed25519 != nil && other.Ed25519 != nil && !p.Ed25519.Equal(other.Ed25519) {
		if onMismatch != nil {
			onMismatch(Ed25519Name, ShortOf(p.Ed25519), ShortOf(other.Ed25519))
		}
		ok = false
	}
	if p.RistrettoDH != nil && other.RistrettoDH != nil && !p.RistrettoDH.Equal(other.RistrettoDH) {
		if onMismatch != nil {
			onMismatch(RistrettoDHName, ShortOf(p.RistrettoDH), ShortOf(other.RistrettoDH))
		}
		ok = false
	}
	if p.Kyber != nil && other.Kyber != nil && !p.Kyber.Equal(other.Kyber) {
		if onMismatch != nil {
			onMismatch(KyberName, ShortOf(p.Kyber), ShortOf(other.Kyber))
		}
		ok = false
	}
	return ok
}

// Contains compares two fingerprint sets slot-wise with the same missing-slot
// semantics as PublicKeySet.Contains.
func (p *ShortPublicKeySet) Contains(other *ShortPublicKeySet, onMismatch func(slot string, own, got Short)) bool {
	ok := true
	check := func(name string, a, b *Short) {
		if a != nil && b != nil && *a != *b {
			if onMismatch != nil {
				onMismatch(name, *a, *b)
			}
			ok = false
		}
	}
	check(Ed25519Name, p.Ed25519, other.Ed25519)
	check(RistrettoDHName, p.RistrettoDH, other.RistrettoDH)
	check(KyberName, p.Kyber, other.Kyber)
	return ok
}
