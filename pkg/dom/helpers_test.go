package dom

import (
	"fmt"
	"io"
	"log/slog"
)

// call is one backend invocation captured by fakeBackend.
type call struct {
	method string
	ids    []uint32
}

func (c call) String() string { return fmt.Sprintf("%s%v", c.method, c.ids) }

type fakeBackend struct {
	calls []call
}

func (f *fakeBackend) record(method string, nodes []*Node) {
	ids := make([]uint32, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	f.calls = append(f.calls, call{method: method, ids: ids})
}

func (f *fakeBackend) CreateRenderNode(nodes []*Node) { f.record("create", nodes) }
func (f *fakeBackend) UpdateRenderNode(nodes []*Node) { f.record("update", nodes) }
func (f *fakeBackend) DeleteRenderNode(nodes []*Node) { f.record("delete", nodes) }
func (f *fakeBackend) UpdateLayout(nodes []*Node)     { f.record("layout", nodes) }
func (f *fakeBackend) Batch()                         { f.record("batch", nil) }

func (f *fakeBackend) methods() []string {
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.method
	}
	return out
}

func (f *fakeBackend) count(method string) int {
	n := 0
	for _, c := range f.calls {
		if c.method == method {
			n++
		}
	}
	return n
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(opts ...Option) (*Manager, *fakeBackend) {
	backend := &fakeBackend{}
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return NewManager(1, backend, opts...), backend
}

// newChain builds root(1) -> A(2) -> B(3) and clears the backend log.
func newChain() (*Manager, *fakeBackend) {
	m, backend := newTestManager()
	m.BeginBatch()
	m.CreateNodes([]*Node{NewNode(2, 1, 0), NewNode(3, 2, 0)})
	m.EndBatch()
	backend.calls = nil
	return m, backend
}

func styled(id, pid uint32, index int, style map[string]any) *Node {
	n := NewNode(id, pid, index)
	n.Style = style
	return n
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
