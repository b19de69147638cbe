package types

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

func (node *FoldNode) treeData() *opts.TreeData {
	data := &opts.TreeData{Name: node.label()}
	for _, child := range node.Children {
		data.Children = append(data.Children, child.treeData())
	}
	return data
}

// RenderFoldTree writes a standalone HTML page drawing the fold tree, root
// on the left and moves on the right.
func RenderFoldTree(node *FoldNode, w io.Writer) error {
	if node == nil {
		return fmt.Errorf("render fold tree: empty tree")
	}
	tree := charts.NewTree()
	tree.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Fold tree", Width: "1400px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Fold tree",
			Subtitle: fmt.Sprintf("%d moves, score %s", node.Statement.Moves, node.Statement.Score),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	tree.AddSeries("folds", []opts.TreeData{*node.treeData()}).SetSeriesOptions(
		charts.WithTreeOpts(opts.TreeChart{Layout: "orthogonal", Orient: "LR"}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "left"}),
	)
	return tree.Render(w)
}
