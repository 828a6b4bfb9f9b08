package render

import "github.com/vango-dev/shadow/pkg/dom"

// NodeRecord is a serializable snapshot of one node inside an operation.
type NodeRecord struct {
	ID       uint32         `json:"id"`
	ParentID uint32         `json:"pid"`
	Index    int            `json:"index"`
	Tag      string         `json:"tag,omitempty"`
	Diff     map[string]any `json:"diff,omitempty"`
	Frame    *dom.Frame     `json:"frame,omitempty"`
}

// OpRecord is a serializable render operation.
type OpRecord struct {
	Kind  string       `json:"kind"`
	Nodes []NodeRecord `json:"nodes"`
}

// IDs returns the node ids of the record in order.
func (r OpRecord) IDs() []uint32 {
	ids := make([]uint32, len(r.Nodes))
	for i, n := range r.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// Commit is everything one EndBatch handed to the backend.
type Commit struct {
	Seq uint64     `json:"seq"`
	Ops []OpRecord `json:"ops"`
}

// Snapshot converts nodes into an OpRecord of the given kind. Diffs are
// captured for update ops and frames for layout ops; removed style keys
// are encoded as nil.
func Snapshot(kind dom.OpKind, nodes []*dom.Node) OpRecord {
	rec := OpRecord{Kind: kind.String(), Nodes: make([]NodeRecord, len(nodes))}
	for i, n := range nodes {
		info := n.RenderInfo()
		nr := NodeRecord{ID: n.ID, ParentID: info.ParentID, Index: info.Index, Tag: n.Tag}
		switch kind {
		case dom.OpUpdate:
			if diff := n.DiffStyle(); len(diff) > 0 {
				nr.Diff = make(map[string]any, len(diff))
				for k, v := range diff {
					if dom.IsUnset(v) {
						v = nil
					}
					nr.Diff[k] = v
				}
			}
		case dom.OpUpdateLayout:
			f := n.Frame()
			nr.Frame = &f
		}
		rec.Nodes[i] = nr
	}
	return rec
}
