// Package colm implements the COLM0 authenticated-encryption mode over a
// 128-bit block cipher: an encrypt-mix-encrypt construction with doubling
// masks in GF(2^128), a PMAC-style absorption of nonce and associated data,
// and a linear ρ chain linking the message blocks. Ciphertext length is
// always plaintext length plus one block of tag.
package colm

import (
	"crypto/cipher"
	"crypto/subtle"
	"errors"
)

// Sizes of the AES-128 instantiation.
const (
	KeySize   = 16
	NonceSize = 16
	TagSize   = 16
	BlockSize = 16
)

var (
	// ErrOpen reports an authentication failure during Open.
	ErrOpen = errors.New("colm: message authentication failed")

	// ErrLength reports invalid key, nonce, or message lengths.
	ErrLength = errors.New("colm: invalid length")
)

type block = [BlockSize]byte

// Cipher is a COLM0 instance keyed with a 128-bit block cipher.
type Cipher struct {
	b cipher.Block

	// mask chain roots derived from L = E_K(0)
	l  block // message masks
	l3 block // 3L, nonce/aad masks
	l4 block // 4L, partial-block domain separation
	l7 block // 7L, keystream mask for ragged tails
}

// New builds a COLM0 instance around the given 128-bit block cipher.
func New(b cipher.Block) (*Cipher, error) {
	if b.BlockSize() != BlockSize {
		return nil, ErrLength
	}
	c := &Cipher{b: b}
	var zero block
	c.b.Encrypt(c.l[:], zero[:])
	l2 := double(c.l)
	c.l3 = xor(l2, c.l)
	c.l4 = double(l2)
	c.l7 = xor(double(c.l3), c.l)
	return c, nil
}

// double multiplies by x in GF(2^128) with the 0x87 reduction polynomial.
func double(v block) block {
	var out block
	carry := v[0] >> 7
	for i := 0; i < BlockSize-1; i++ {
		out[i] = v[i]<<1 | v[i+1]>>7
	}
	out[BlockSize-1] = v[BlockSize-1] << 1
	out[BlockSize-1] ^= carry * 0x87
	return out
}

func xor(a, b block) block {
	var out block
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

func xorInto(dst *block, src block) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}

// absorb folds the nonce and associated data into the initial chain state.
func (c *Cipher) absorb(nonce, aad []byte) block {
	d := c.l3

	var n, w, e block
	copy(n[:], nonce)
	nd := xor(n, d)
	c.b.Encrypt(w[:], nd[:])

	for len(aad) > 0 {
		d = double(d)
		var a block
		if len(aad) >= BlockSize {
			copy(a[:], aad[:BlockSize])
			aad = aad[BlockSize:]
		} else {
			copy(a[:], aad)
			a[len(aad)] = 0x80
			aad = nil
			xorInto(&d, c.l7)
		}
		ad := xor(a, d)
		c.b.Encrypt(e[:], ad[:])
		xorInto(&w, e)
	}
	return w
}

// step runs one encrypt-ρ-encrypt round: x is the masked input block, w the
// chain state. Returns the masked output block and the next state.
func (c *Cipher) step(x, w block) (block, block) {
	var u, y, out block
	c.b.Encrypt(u[:], x[:])
	y = xor(u, double(w))
	c.b.Encrypt(out[:], y[:])
	return out, xor(u, w)
}

// unstep inverts step given the masked output block and the prior state.
func (c *Cipher) unstep(out, w block) (block, block) {
	var y, u, x block
	c.b.Decrypt(y[:], out[:])
	u = xor(y, double(w))
	c.b.Decrypt(x[:], u[:])
	return x, xor(u, w)
}

// Seal encrypts and authenticates plaintext, binding nonce and aad. The
// plaintext must be non-empty.
func (c *Cipher) Seal(nonce, aad, plaintext []byte) ([]byte, error) {
	if len(nonce) != NonceSize || len(plaintext) == 0 {
		return nil, ErrLength
	}

	w := c.absorb(nonce, aad)
	d := c.l
	var checksum block

	full := len(plaintext) / BlockSize
	rem := len(plaintext) % BlockSize
	out := make([]byte, len(plaintext)+TagSize)

	for i := 0; i < full; i++ {
		var m block
		copy(m[:], plaintext[i*BlockSize:])
		xorInto(&checksum, m)

		d = double(d)
		y, nw := c.step(xor(m, d), w)
		w = nw
		yd := xor(y, d)
		copy(out[i*BlockSize:], yd[:])
	}

	if rem > 0 {
		d = double(d)

		// Keystream for the ragged tail; derived from the chain state, so it
		// does not depend on the tail plaintext itself.
		var pad block
		wdl7 := xor(xor(w, d), c.l7)
		c.b.Encrypt(pad[:], wdl7[:])
		tail := plaintext[full*BlockSize:]
		for i, v := range tail {
			out[full*BlockSize+i] = v ^ pad[i]
		}

		// The 10*-padded tail still participates in the checksum and chain.
		var mstar, e block
		copy(mstar[:], tail)
		mstar[rem] = 0x80
		xorInto(&checksum, mstar)
		mstard := xor(mstar, d)
		c.b.Encrypt(e[:], mstard[:])
		xorInto(&w, e)
	}

	tag := c.tag(checksum, w, d, rem > 0)
	copy(out[len(plaintext):], tag[:])
	return out, nil
}

// Open decrypts and verifies ciphertext produced by Seal.
func (c *Cipher) Open(nonce, aad, ciphertext []byte) ([]byte, error) {
	if len(nonce) != NonceSize || len(ciphertext) <= TagSize {
		return nil, ErrLength
	}

	w := c.absorb(nonce, aad)
	d := c.l
	var checksum block

	mlen := len(ciphertext) - TagSize
	full := mlen / BlockSize
	rem := mlen % BlockSize
	out := make([]byte, mlen)

	for i := 0; i < full; i++ {
		var cb block
		copy(cb[:], ciphertext[i*BlockSize:])

		d = double(d)
		x, nw := c.unstep(xor(cb, d), w)
		w = nw
		m := xor(x, d)
		xorInto(&checksum, m)
		copy(out[i*BlockSize:], m[:])
	}

	if rem > 0 {
		d = double(d)

		var pad block
		wdl7 := xor(xor(w, d), c.l7)
		c.b.Encrypt(pad[:], wdl7[:])
		for i := 0; i < rem; i++ {
			out[full*BlockSize+i] = ciphertext[full*BlockSize+i] ^ pad[i]
		}

		var mstar, e block
		copy(mstar[:], out[full*BlockSize:])
		mstar[rem] = 0x80
		xorInto(&checksum, mstar)
		mstard := xor(mstar, d)
		c.b.Encrypt(e[:], mstard[:])
		xorInto(&w, e)
	}

	tag := c.tag(checksum, w, d, rem > 0)
	if subtle.ConstantTimeCompare(tag[:], ciphertext[mlen:]) != 1 {
		for i := range out {
			out[i] = 0
		}
		return nil, ErrOpen
	}
	return out, nil
}

// tag closes the chain over the checksum block. Ragged and block-aligned
// messages use distinct masks.
func (c *Cipher) tag(checksum, w, d block, ragged bool) block {
	d = double(d)
	if ragged {
		xorInto(&d, c.l4)
	}
	y, _ := c.step(xor(checksum, d), w)
	return xor(y, d)
}
