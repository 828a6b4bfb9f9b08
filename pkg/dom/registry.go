package dom

import "slices"

// Registry maps node ids to nodes. It never touches tree structure.
type Registry struct {
	nodes map[uint32]*Node
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{nodes: make(map[uint32]*Node)}
}

// AddNode inserts node by id. An existing entry with the same id is
// overwritten and replaced reports true.
func (r *Registry) AddNode(node *Node) (replaced bool) {
	_, replaced = r.nodes[node.ID]
	r.nodes[node.ID] = node
	return replaced
}

// GetNode returns the node for id, or nil.
func (r *Registry) GetNode(id uint32) *Node {
	return r.nodes[id]
}

// RemoveNode erases the mapping for id.
func (r *Registry) RemoveNode(id uint32) {
	delete(r.nodes, id)
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int {
	return len(r.nodes)
}

// Range calls fn for every node in ascending id order until fn returns false.
func (r *Registry) Range(fn func(*Node) bool) {
	ids := make([]uint32, 0, len(r.nodes))
	for id := range r.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if !fn(r.nodes[id]) {
			return
		}
	}
}
