// Package keys implements ENE's key material: the per-algorithm signature and
// key-exchange adapters (ed25519, ristrettodh, kyber) and the multi-algorithm
// key-set containers with their 128-bit short fingerprints.
package keys

// Algorithm slot tokens. These double as the registry names and as the map
// keys of the serialized key sets.
const (
	Ed25519Name     = "ed25519"
	RistrettoDHName = "ristrettodh"
	KyberName       = "kyber"
)

// allZero reports whether every byte of b is zero, scanning all of b
// regardless of content.
func allZero(b []byte) bool {
	var acc byte
	for _, v := range b {
		acc |= v
	}
	return acc == 0
}
