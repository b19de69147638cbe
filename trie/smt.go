package trie

import (
	"fmt"
	"strings"

	"github.com/colorfulnotion/treasure/common"
	"github.com/colorfulnotion/treasure/gameerrors"
	"github.com/colorfulnotion/treasure/log"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// smtNode is immutable once built. A nil child is an empty subtree whose hash
// is zeroHash(height). Leaves (height 0) carry the value as their hash.
type smtNode struct {
	left  *smtNode
	right *smtNode
	hash  fr.Element
}

// SparseMerkleTree is a fixed-depth key/value commitment. Updates copy the
// path from leaf to root and leave every existing node untouched, so Clone
// is a pointer copy and clones never observe each other's writes.
// A single tree is not safe for concurrent Set.
type SparseMerkleTree struct {
	depth   int
	root    *smtNode
	count   int
	version uint64
}

type Entry struct {
	Key   uint64
	Value fr.Element
}

func NewSparseMerkleTree(depth int) (*SparseMerkleTree, error) {
	if depth < 1 || depth > MaxDepth {
		return nil, fmt.Errorf("sparse merkle tree: depth %d outside [1, %d]", depth, MaxDepth)
	}
	return &SparseMerkleTree{depth: depth}, nil
}

func (t *SparseMerkleTree) Depth() int { return t.depth }

// Len is the number of keys holding a non-zero value.
func (t *SparseMerkleTree) Len() int { return t.count }

// Version counts the Set calls applied since the tree was created.
func (t *SparseMerkleTree) Version() uint64 { return t.version }

func (t *SparseMerkleTree) checkKey(key uint64) error {
	if key >= uint64(1)<<t.depth {
		return fmt.Errorf("%w: key %d, depth %d", gameerrors.ErrKeyOutOfRange, key, t.depth)
	}
	return nil
}

func nodeHash(n *smtNode, height int) fr.Element {
	if n == nil {
		return zeroHash(height)
	}
	return n.hash
}

// Root returns the commitment over the full key/value set.
func (t *SparseMerkleTree) Root() fr.Element {
	return nodeHash(t.root, t.depth)
}

// Set overwrites key. Writing zero removes the key.
func (t *SparseMerkleTree) Set(key uint64, value fr.Element) error {
	if err := t.checkKey(key); err != nil {
		return err
	}
	old, _, _ := t.Get(key)
	switch {
	case old.IsZero() && !value.IsZero():
		t.count++
	case !old.IsZero() && value.IsZero():
		t.count--
	}
	t.root = insert(t.root, t.depth, key, value)
	t.version++
	log.Trace(log.TrieMonitoring, "smt set", "key", key, "value", common.FieldShort(value), "version", t.version)
	return nil
}

func insert(n *smtNode, height int, key uint64, value fr.Element) *smtNode {
	if height == 0 {
		if value.IsZero() {
			return nil
		}
		return &smtNode{hash: value}
	}
	var left, right *smtNode
	if n != nil {
		left, right = n.left, n.right
	}
	if (key>>(height-1))&1 == 1 {
		right = insert(right, height-1, key, value)
	} else {
		left = insert(left, height-1, key, value)
	}
	if left == nil && right == nil {
		return nil
	}
	return &smtNode{
		left:  left,
		right: right,
		hash:  hashNode(nodeHash(left, height-1), nodeHash(right, height-1)),
	}
}

// Get returns the value at key and whether it is set (non-zero).
func (t *SparseMerkleTree) Get(key uint64) (fr.Element, bool, error) {
	var zero fr.Element
	if err := t.checkKey(key); err != nil {
		return zero, false, err
	}
	n := t.root
	for height := t.depth; height > 0 && n != nil; height-- {
		if (key>>(height-1))&1 == 1 {
			n = n.right
		} else {
			n = n.left
		}
	}
	if n == nil {
		return zero, false, nil
	}
	return n.hash, true, nil
}

// Witness returns the leaf value (zero when unset) and the sibling path,
// leaf level first.
func (t *SparseMerkleTree) Witness(key uint64) (*Witness, error) {
	if err := t.checkKey(key); err != nil {
		return nil, err
	}
	path := make([]fr.Element, t.depth)
	n := t.root
	for height := t.depth; height > 0; height-- {
		var next, sibling *smtNode
		if n != nil {
			if (key>>(height-1))&1 == 1 {
				next, sibling = n.right, n.left
			} else {
				next, sibling = n.left, n.right
			}
		}
		path[height-1] = nodeHash(sibling, height-1)
		n = next
	}
	w := &Witness{Key: key, Path: path}
	if n != nil {
		w.Value = n.hash
	}
	return w, nil
}

// Clone returns an independent tree sharing the immutable nodes.
func (t *SparseMerkleTree) Clone() *SparseMerkleTree {
	c := *t
	return &c
}

// Entries lists the non-zero keys in ascending order.
func (t *SparseMerkleTree) Entries() []Entry {
	out := make([]Entry, 0, t.count)
	var walk func(n *smtNode, height int, prefix uint64)
	walk = func(n *smtNode, height int, prefix uint64) {
		if n == nil {
			return
		}
		if height == 0 {
			out = append(out, Entry{Key: prefix, Value: n.hash})
			return
		}
		walk(n.left, height-1, prefix)
		walk(n.right, height-1, prefix|uint64(1)<<(height-1))
	}
	walk(t.root, t.depth, 0)
	return out
}

func (t *SparseMerkleTree) Keys() []uint64 {
	entries := t.Entries()
	keys := make([]uint64, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

func (t *SparseMerkleTree) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "smt(depth=%d, keys=%d, root=%s)", t.depth, t.count, common.FieldShort(t.Root()))
	for _, e := range t.Entries() {
		fmt.Fprintf(&sb, "\n  %d: %s", e.Key, common.FieldShort(e.Value))
	}
	return sb.String()
}
