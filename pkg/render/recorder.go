package render

import (
	"sync"

	"github.com/vango-dev/shadow/pkg/dom"
)

// Recorder is a dom.Backend that keeps every commit as records. It is safe
// to read from other goroutines while a Manager writes to it.
type Recorder struct {
	mu       sync.Mutex
	pending  []OpRecord
	commits  []Commit
	seq      uint64
	limit    int
	onCommit func(Commit)
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithHistory keeps at most n commits. Zero keeps all of them.
func WithHistory(n int) RecorderOption {
	return func(r *Recorder) {
		r.limit = n
	}
}

// OnCommit registers fn to be called with every sealed commit. fn runs on
// the goroutine calling Batch, outside the Recorder's lock.
func OnCommit(fn func(Commit)) RecorderOption {
	return func(r *Recorder) {
		r.onCommit = fn
	}
}

// NewRecorder creates an empty Recorder.
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Recorder) add(kind dom.OpKind, nodes []*dom.Node) {
	rec := Snapshot(kind, nodes)
	r.mu.Lock()
	r.pending = append(r.pending, rec)
	r.mu.Unlock()
}

// CreateRenderNode implements dom.Backend.
func (r *Recorder) CreateRenderNode(nodes []*dom.Node) { r.add(dom.OpCreate, nodes) }

// UpdateRenderNode implements dom.Backend.
func (r *Recorder) UpdateRenderNode(nodes []*dom.Node) { r.add(dom.OpUpdate, nodes) }

// DeleteRenderNode implements dom.Backend.
func (r *Recorder) DeleteRenderNode(nodes []*dom.Node) { r.add(dom.OpDelete, nodes) }

// UpdateLayout implements dom.Backend.
func (r *Recorder) UpdateLayout(nodes []*dom.Node) { r.add(dom.OpUpdateLayout, nodes) }

// Batch seals the pending records into a commit.
func (r *Recorder) Batch() {
	r.mu.Lock()
	r.seq++
	c := Commit{Seq: r.seq, Ops: r.pending}
	if c.Ops == nil {
		c.Ops = []OpRecord{}
	}
	r.pending = nil
	r.commits = append(r.commits, c)
	if r.limit > 0 && len(r.commits) > r.limit {
		r.commits = append([]Commit(nil), r.commits[len(r.commits)-r.limit:]...)
	}
	fn := r.onCommit
	r.mu.Unlock()

	if fn != nil {
		fn(c)
	}
}

// Commits returns a copy of the retained commits, oldest first.
func (r *Recorder) Commits() []Commit {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Commit, len(r.commits))
	copy(out, r.commits)
	return out
}

// Last returns the most recent commit.
func (r *Recorder) Last() (Commit, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.commits) == 0 {
		return Commit{}, false
	}
	return r.commits[len(r.commits)-1], true
}

// Reset drops all retained and pending records. Sequence numbers continue.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.pending = nil
	r.commits = nil
	r.mu.Unlock()
}
