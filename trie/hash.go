package trie

import (
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

// MaxDepth bounds the key space to uint64 with one bit to spare for the
// range check (1 << depth must not overflow).
const MaxDepth = 63

// hashNode is MiMC-bn254 over the two children, each written as a 32-byte
// big-endian element. This is what std/hash/mimc computes in-circuit for
// Write(left, right); Sum().
func hashNode(left, right fr.Element) fr.Element {
	h := mimc.NewMiMC()
	lb := left.Bytes()
	rb := right.Bytes()
	h.Write(lb[:])
	h.Write(rb[:])
	var out fr.Element
	out.SetBytes(h.Sum(nil))
	return out
}

// HashNode exposes the node hash for witness verification outside the package.
func HashNode(left, right fr.Element) fr.Element {
	return hashNode(left, right)
}

var (
	zeroOnce   sync.Once
	zeroHashes [MaxDepth + 1]fr.Element
)

// zeroHash is the root of an empty subtree of the given height. Height 0 is
// an unset leaf, which is the field zero.
func zeroHash(height int) fr.Element {
	zeroOnce.Do(func() {
		for h := 1; h <= MaxDepth; h++ {
			zeroHashes[h] = hashNode(zeroHashes[h-1], zeroHashes[h-1])
		}
	})
	return zeroHashes[height]
}

// EmptyRoot is the root of a tree of the given depth with no keys set.
func EmptyRoot(depth int) fr.Element {
	return zeroHash(depth)
}

// DepthFor returns the smallest depth D with 2^D >= cells, at least 1.
func DepthFor(cells uint64) int {
	d := 1
	for d < MaxDepth && uint64(1)<<d < cells {
		d++
	}
	return d
}
