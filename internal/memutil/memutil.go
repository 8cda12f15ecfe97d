// Package memutil provides best-effort zeroization of sensitive buffers.
package memutil

import "runtime"

// Wipe overwrites b with zeros. The KeepAlive fence stops the compiler from
// eliding the stores when b is about to go out of scope.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// WipeAll wipes every buffer in bs.
func WipeAll(bs ...[]byte) {
	for _, b := range bs {
		Wipe(b)
	}
}
