package types

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// FoldNode records how a root proof was assembled. Leaves are single moves
// in path order; inner nodes are folds of exactly two children.
type FoldNode struct {
	Statement Statement
	Opcode    Opcode // leaves only
	Step      int    // index of the first move covered
	Level     int    // 0 for leaves
	Children  []*FoldNode
}

func NewLeafNode(step int, op Opcode, stmt Statement) *FoldNode {
	return &FoldNode{Statement: stmt, Opcode: op, Step: step}
}

func NewFoldNode(left, right *FoldNode, stmt Statement) *FoldNode {
	level := left.Level
	if right.Level > level {
		level = right.Level
	}
	return &FoldNode{
		Statement: stmt,
		Step:      left.Step,
		Level:     level + 1,
		Children:  []*FoldNode{left, right},
	}
}

func (node *FoldNode) IsLeaf() bool {
	return len(node.Children) == 0
}

// Leaves returns the covered moves in order.
func (node *FoldNode) Leaves() []*FoldNode {
	if node.IsLeaf() {
		return []*FoldNode{node}
	}
	var out []*FoldNode
	for _, child := range node.Children {
		out = append(out, child.Leaves()...)
	}
	return out
}

func (node *FoldNode) label() string {
	s := node.Statement
	if node.IsLeaf() {
		return fmt.Sprintf("step %d %s: location %s, score %s",
			node.Step, node.Opcode, s.Location, s.Score)
	}
	return fmt.Sprintf("fold moves %d-%d (%d): location %s, score %s",
		node.Step, node.Step+int(s.Moves)-1, s.Moves, s.Location, s.Score)
}

func (node *FoldNode) addTo(tree treeprint.Tree) {
	if node.IsLeaf() {
		tree.AddNode(node.label())
		return
	}
	branch := tree.AddBranch(node.label())
	for _, child := range node.Children {
		child.addTo(branch)
	}
}

func (node *FoldNode) ToTree() treeprint.Tree {
	tree := treeprint.New()
	tree.SetValue(node.label())
	for _, child := range node.Children {
		child.addTo(tree)
	}
	return tree
}

func (node *FoldNode) String() string {
	return node.ToTree().String()
}
