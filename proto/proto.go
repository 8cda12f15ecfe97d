// Package proto implements the three one-pass envelope protocols as pure
// functions over identifiers, key material, associated data, and payload
// bytes. The façade in the root package selects key slots and drives the
// serialization; nothing here touches the wire format.
package proto

import (
	"golang.org/x/crypto/sha3"
)

// idSeparator is the domain-separation byte between identifiers in the
// SONLY digest and the SIGAE identifier pair. The OOAKE hash input omits it:
// there the remaining fields are fixed-length, so concatenation is already
// unambiguous. This asymmetry is part of the wire format.
const idSeparator = 0xff

// digest512 is a convenience wrapper around a one-shot SHA3-512.
func digest512(parts ...[]byte) []byte {
	h := sha3.New512()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}
