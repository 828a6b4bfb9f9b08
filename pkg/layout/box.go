package layout

import (
	"math"

	"github.com/vango-dev/shadow/pkg/dom"
)

// Box is a dom.Layouter. The zero value is ready to use.
type Box struct {
	// MaxDepth bounds recursion on malformed trees. Zero means 1024.
	MaxDepth int
}

// New returns a Box with default settings.
func New() *Box {
	return &Box{}
}

// Layout implements dom.Layouter. The root is sized from its own width and
// height inputs; unset dimensions resolve to zero.
func (b *Box) Layout(root *dom.Node, resolve dom.Resolver) []*dom.Node {
	if root == nil {
		return nil
	}
	ls := root.LayoutStyle()
	frame := dom.Frame{Width: orZero(ls.Width), Height: orZero(ls.Height)}

	var changed []*dom.Node
	b.place(root, frame, resolve, 0, &changed)
	return changed
}

// place assigns frame to n and lays out its children.
func (b *Box) place(n *dom.Node, frame dom.Frame, resolve dom.Resolver, depth int, changed *[]*dom.Node) {
	if n.SetFrame(frame) {
		*changed = append(*changed, n)
	}
	maxDepth := b.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 1024
	}
	if depth >= maxDepth {
		return
	}

	children := make([]*dom.Node, 0, n.ChildCount())
	for _, id := range n.Children() {
		if c := resolve(id); c != nil {
			children = append(children, c)
		}
	}
	if len(children) == 0 {
		return
	}

	ls := n.LayoutStyle()
	row := ls.FlexDirection == dom.DirectionRow
	contentW := math.Max(0, frame.Width-2*ls.Padding)
	contentH := math.Max(0, frame.Height-2*ls.Padding)
	mainAvail, crossAvail := contentH, contentW
	if row {
		mainAvail, crossAvail = contentW, contentH
	}

	// First pass: fixed main sizes and total grow factor.
	used, grow := 0.0, 0.0
	for _, c := range children {
		cs := c.LayoutStyle()
		used += orZero(mainSize(cs, row)) + 2*cs.Margin
		grow += cs.FlexGrow
	}
	free := math.Max(0, mainAvail-used)

	cursor := 0.0
	for _, c := range children {
		cs := c.LayoutStyle()
		main := orZero(mainSize(cs, row))
		if grow > 0 && cs.FlexGrow > 0 {
			main += free * cs.FlexGrow / grow
		}
		cross := crossSize(cs, row)
		if math.IsNaN(cross) {
			cross = math.Max(0, crossAvail-2*cs.Margin)
		}

		var f dom.Frame
		if row {
			f = dom.Frame{X: ls.Padding + cursor + cs.Margin, Y: ls.Padding + cs.Margin, Width: main, Height: cross}
		} else {
			f = dom.Frame{X: ls.Padding + cs.Margin, Y: ls.Padding + cursor + cs.Margin, Width: cross, Height: main}
		}
		cursor += main + 2*cs.Margin
		b.place(c, f, resolve, depth+1, changed)
	}
}

func mainSize(ls dom.LayoutStyle, row bool) float64 {
	if row {
		return ls.Width
	}
	return ls.Height
}

func crossSize(ls dom.LayoutStyle, row bool) float64 {
	if row {
		return ls.Height
	}
	return ls.Width
}

func orZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
