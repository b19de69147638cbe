package trie

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Witness is the inclusion proof of one leaf value. Bit i of Key selects
// whether the running node is the right child at level i.
type Witness struct {
	Key   uint64
	Value fr.Element
	Path  []fr.Element
}

func (w *Witness) ComputeRoot() fr.Element {
	cur := w.Value
	for i, sibling := range w.Path {
		if (w.Key>>i)&1 == 1 {
			cur = hashNode(sibling, cur)
		} else {
			cur = hashNode(cur, sibling)
		}
	}
	return cur
}

func (w *Witness) Verify(root fr.Element) bool {
	if w == nil || len(w.Path) == 0 || len(w.Path) > MaxDepth || w.Key >= uint64(1)<<len(w.Path) {
		return false
	}
	computed := w.ComputeRoot()
	return computed.Equal(&root)
}

// WithValue returns a copy of w proving a different value at the same key.
// Only the leaf changes on a single-key update, so the siblings still hold.
func (w *Witness) WithValue(v fr.Element) *Witness {
	c := w.Clone()
	c.Value = v
	return c
}

func (w *Witness) Clone() *Witness {
	path := make([]fr.Element, len(w.Path))
	copy(path, w.Path)
	return &Witness{Key: w.Key, Value: w.Value, Path: path}
}

// VerifyWitness checks that value sits at key under root.
func VerifyWitness(root fr.Element, key uint64, value fr.Element, path []fr.Element) bool {
	w := Witness{Key: key, Value: value, Path: path}
	return w.Verify(root)
}
