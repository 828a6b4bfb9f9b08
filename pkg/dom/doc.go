// Package dom maintains the shadow tree that mirrors a UI description.
//
// A Manager owns one tree rooted at a single root node. Callers feed it
// batches of create, update and delete requests; the Manager reconciles
// them against the tree, diffs style state, dispatches capture/bubble
// events to listeners and queues one render operation per request. When
// the batch ends it runs layout and hands the queued operations, in order,
// to a Backend followed by exactly one Batch commit.
//
// # Node identity
//
// Nodes reference each other by id only. The Registry is the arena that
// resolves ids to *Node, and it is the sole authority on whether a node
// exists. Id 0 (NoID) is reserved for "no node".
//
// # Batching
//
//	m := dom.NewManager(1, backend, dom.WithLayouter(layout.New()))
//	m.BeginBatch()
//	m.CreateNodes([]*dom.Node{dom.NewNode(2, 1, 0)})
//	m.EndBatch() // backend: CreateRenderNode, UpdateLayout, Batch
//
// # Events
//
// Listeners registered with AddEventListener run in capture order
// (root to target) and then bubble order (target to root). A Manager is
// not safe for concurrent use; callers serialize access.
package dom
