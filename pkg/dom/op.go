package dom

// OpKind is the type of a queued render operation.
type OpKind uint8

const (
	OpCreate       OpKind = 0x01 // Create render nodes
	OpUpdate       OpKind = 0x02 // Apply style diffs
	OpDelete       OpKind = 0x03 // Delete render nodes
	OpUpdateLayout OpKind = 0x04 // Apply computed frames
)

// String returns the string representation of the OpKind.
func (k OpKind) String() string {
	switch k {
	case OpCreate:
		return "Create"
	case OpUpdate:
		return "Update"
	case OpDelete:
		return "Delete"
	case OpUpdateLayout:
		return "UpdateLayout"
	default:
		return "Unknown"
	}
}

// Op is one render operation queued during a batch. Ownership of Nodes
// passes to the backend once the op is applied.
type Op struct {
	Kind  OpKind
	Nodes []*Node
}

// IDs returns the ids of the op's nodes in order.
func (o Op) IDs() []uint32 {
	ids := make([]uint32, len(o.Nodes))
	for i, n := range o.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// Backend materializes committed operations. The Manager calls the four
// node methods in queue order and then Batch exactly once per EndBatch.
type Backend interface {
	CreateRenderNode(nodes []*Node)
	UpdateRenderNode(nodes []*Node)
	DeleteRenderNode(nodes []*Node)
	UpdateLayout(nodes []*Node)
	Batch()
}

// Layouter computes geometry for the tree under root and returns the nodes
// whose frame changed during this pass.
type Layouter interface {
	Layout(root *Node, resolve Resolver) []*Node
}

// LayouterFunc adapts a function to the Layouter interface.
type LayouterFunc func(root *Node, resolve Resolver) []*Node

// Layout implements Layouter.
func (f LayouterFunc) Layout(root *Node, resolve Resolver) []*Node {
	return f(root, resolve)
}

// apply hands op to the backend.
func apply(b Backend, op Op) {
	switch op.Kind {
	case OpCreate:
		b.CreateRenderNode(op.Nodes)
	case OpUpdate:
		b.UpdateRenderNode(op.Nodes)
	case OpDelete:
		b.DeleteRenderNode(op.Nodes)
	case OpUpdateLayout:
		b.UpdateLayout(op.Nodes)
	}
}
