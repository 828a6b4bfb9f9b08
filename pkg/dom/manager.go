package dom

import "log/slog"

// InvalidListenerID is returned by AddEventListener when the node does not exist.
const InvalidListenerID uint32 = 0

// Option configures a Manager.
type Option func(*Manager)

// WithLayouter sets the layout engine run by EndBatch.
// Default: a layouter that computes nothing.
func WithLayouter(l Layouter) Option {
	return func(m *Manager) {
		if l != nil {
			m.layouter = l
		}
	}
}

// WithLogger sets the logger used for skipped requests.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Manager reconciles create, update and delete batches against the shadow
// tree and commits the resulting render operations to a Backend.
type Manager struct {
	root     *Node
	registry *Registry
	backend  Backend
	layouter Layouter
	logger   *slog.Logger

	// ops is the render queue of the current batch, in request order.
	ops []Op

	// tombstones keep deleted nodes resolvable for their own deleted event.
	tombstones map[uint32]*Node
}

// NewManager creates a Manager whose tree holds a single root node.
func NewManager(rootID uint32, backend Backend, opts ...Option) *Manager {
	m := &Manager{
		registry:   NewRegistry(),
		backend:    backend,
		layouter:   LayouterFunc(func(*Node, Resolver) []*Node { return nil }),
		logger:     slog.Default(),
		tombstones: make(map[uint32]*Node),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.SetRootNode(NewNode(rootID, NoID, 0))
	return m
}

// Root returns the current root node.
func (m *Manager) Root() *Node { return m.root }

// GetNode returns the registered node for id, or nil.
func (m *Manager) GetNode(id uint32) *Node { return m.registry.GetNode(id) }

// Registry returns the id lookup table.
func (m *Manager) Registry() *Registry { return m.registry }

// Pending returns a copy of the operations queued for the next commit.
func (m *Manager) Pending() []Op {
	out := make([]Op, len(m.ops))
	copy(out, m.ops)
	return out
}

// lookup resolves registered nodes and, during deletion, tombstoned ones.
func (m *Manager) lookup(id uint32) *Node {
	if n := m.registry.GetNode(id); n != nil {
		return n
	}
	return m.tombstones[id]
}

// CreateNodes attaches each node under its ParentID at its Index. Nodes
// whose parent is not registered, whose id is already taken, or whose index
// is invalid are dropped. The surviving nodes are queued as one create op.
// The slice is reused and must not be touched by the caller afterwards.
func (m *Manager) CreateNodes(nodes []*Node) {
	created := nodes[:0]
	for _, node := range nodes {
		if node == nil {
			continue
		}
		parent := m.registry.GetNode(node.ParentID)
		if parent == nil {
			m.logger.Debug("create skipped: parent not found", "id", node.ID, "parent", node.ParentID)
			continue
		}
		if m.registry.GetNode(node.ID) != nil {
			m.logger.Warn("create skipped: duplicate id", "id", node.ID)
			continue
		}
		node.renderInfo = RenderInfo{ParentID: node.ParentID, Index: node.Index}
		node.ParseLayoutStyle()
		if err := parent.AddChildAt(node, node.Index); err != nil {
			m.logger.Warn("create skipped", "id", node.ID, "parent", node.ParentID, "error", err)
			continue
		}
		m.registry.AddNode(node)
		created = append(created, node)
		m.HandleEvent(NewEvent(EventCreated, node.ID, true, true))
	}
	m.enqueue(OpCreate, created)
}

// UpdateNodes diffs each incoming snapshot against the registered node with
// the same id and stores the merged delta as that node's DiffStyle. The
// incoming Style and ExtStyle become the node's new state. Unknown ids are
// dropped; the registered nodes are queued as one update op.
func (m *Manager) UpdateNodes(nodes []*Node) {
	updated := nodes[:0]
	for _, in := range nodes {
		if in == nil {
			continue
		}
		node := m.registry.GetNode(in.ID)
		if node == nil {
			m.logger.Debug("update skipped: node not found", "id", in.ID)
			continue
		}
		diff := DiffProps(node.Style, in.Style)
		mergeProps(diff, DiffProps(node.ExtStyle, in.ExtStyle))
		node.Style = cloneProps(in.Style)
		node.ExtStyle = cloneProps(in.ExtStyle)
		node.diffStyle = diff
		node.ParseLayoutStyle()

		updated = append(updated, node)
		m.HandleEvent(NewEvent(EventUpdated, node.ID, true, true))
	}
	m.enqueue(OpUpdate, updated)
}

// DeleteNodes detaches each node from its parent and erases it, together
// with its descendants, from the registry. Unknown ids and the root are
// dropped; the removed nodes are queued as one delete op.
func (m *Manager) DeleteNodes(nodes []*Node) {
	deleted := nodes[:0]
	for _, in := range nodes {
		if in == nil {
			continue
		}
		node := m.registry.GetNode(in.ID)
		if node == nil {
			m.logger.Debug("delete skipped: node not found", "id", in.ID)
			continue
		}
		if node == m.root {
			m.logger.Warn("delete skipped: node is the root", "id", in.ID)
			continue
		}
		if parent := m.registry.GetNode(node.parent); parent != nil {
			if idx := parent.IndexOf(node.ID); idx >= 0 {
				if _, err := parent.RemoveChildAt(idx); err != nil {
					m.logger.Warn("detach failed", "id", node.ID, "error", err)
				}
			}
		}
		node.parent = NoID
		m.evict(node)

		deleted = append(deleted, node)
		m.tombstones[node.ID] = node
		m.HandleEvent(NewEvent(EventDeleted, node.ID, true, true))
		delete(m.tombstones, node.ID)
	}
	m.enqueue(OpDelete, deleted)
}

// evict erases node and every registered descendant from the registry.
func (m *Manager) evict(node *Node) {
	stack := []*Node{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		m.registry.RemoveNode(n.ID)
		for _, id := range n.children {
			if child := m.registry.GetNode(id); child != nil && child.parent == n.ID {
				stack = append(stack, child)
			}
		}
	}
}

func (m *Manager) enqueue(kind OpKind, nodes []*Node) {
	if len(nodes) == 0 {
		return
	}
	m.ops = append(m.ops, Op{Kind: kind, Nodes: nodes})
}

// BeginBatch marks the start of a reconciliation cycle. It currently does
// no bookkeeping.
func (m *Manager) BeginBatch() {}

// EndBatch runs layout on the root, queues an UpdateLayout op when frames
// changed, applies every queued op to the backend in the order it was
// queued and finally commits with Backend.Batch.
func (m *Manager) EndBatch() {
	if changed := m.layouter.Layout(m.root, m.lookup); len(changed) > 0 {
		m.enqueue(OpUpdateLayout, changed)
	}

	ops := m.ops
	m.ops = nil
	for _, op := range ops {
		apply(m.backend, op)
	}
	m.backend.Batch()
}

// HandleEvent dispatches ev through the tree.
func (m *Manager) HandleEvent(ev *Event) {
	Dispatch(ev, m.lookup)
}

// AddEventListener registers cb on node id and returns a listener id, or
// InvalidListenerID when the node does not exist.
func (m *Manager) AddEventListener(id uint32, name string, useCapture bool, cb EventListener) uint32 {
	node := m.registry.GetNode(id)
	if node == nil {
		return InvalidListenerID
	}
	return node.AddEventListener(name, useCapture, cb)
}

// RemoveEventListener unregisters a listener returned by AddEventListener.
func (m *Manager) RemoveEventListener(id, listenerID uint32) bool {
	node := m.registry.GetNode(id)
	if node == nil {
		return false
	}
	return node.RemoveEventListener(listenerID)
}

// SetFunction registers fn under name on node id.
func (m *Manager) SetFunction(id uint32, name string, fn Function) bool {
	node := m.registry.GetNode(id)
	if node == nil {
		return false
	}
	node.SetFunction(name, fn)
	return true
}

// CallFunction forwards an imperative call to node id. Missing nodes and
// unknown function names are ignored.
func (m *Manager) CallFunction(id uint32, name string, param any, cb CallFunctionCallback) {
	node := m.registry.GetNode(id)
	if node == nil {
		return
	}
	if !node.CallFunction(name, param, cb) {
		m.logger.Debug("call skipped: function not found", "id", id, "name", name)
	}
}

// GetRootSize returns the root's viewport size.
func (m *Manager) GetRootSize() (float64, float64) {
	return m.root.GetLayoutSize()
}

// SetRootSize sets the root's viewport size used by the next layout pass.
func (m *Manager) SetRootSize(width, height float64) {
	m.root.SetLayoutSize(width, height)
}

// SetRootNode replaces the tracked root. The old root and its subtree are
// evicted from the registry. A nil root is ignored.
func (m *Manager) SetRootNode(root *Node) {
	if root == nil {
		return
	}
	if m.root != nil {
		m.evict(m.root)
	}
	root.parent = NoID
	root.renderInfo = RenderInfo{ParentID: NoID, Index: 0, IsRoot: true}
	root.ParseLayoutStyle()
	m.root = root
	m.registry.AddNode(root)
}
