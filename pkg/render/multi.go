package render

import "github.com/vango-dev/shadow/pkg/dom"

type multi []dom.Backend

// Multi returns a backend that forwards every call to each backend in order.
// Nil backends are skipped.
func Multi(backends ...dom.Backend) dom.Backend {
	m := make(multi, 0, len(backends))
	for _, b := range backends {
		if b != nil {
			m = append(m, b)
		}
	}
	return m
}

func (m multi) CreateRenderNode(nodes []*dom.Node) {
	for _, b := range m {
		b.CreateRenderNode(nodes)
	}
}

func (m multi) UpdateRenderNode(nodes []*dom.Node) {
	for _, b := range m {
		b.UpdateRenderNode(nodes)
	}
}

func (m multi) DeleteRenderNode(nodes []*dom.Node) {
	for _, b := range m {
		b.DeleteRenderNode(nodes)
	}
}

func (m multi) UpdateLayout(nodes []*dom.Node) {
	for _, b := range m {
		b.UpdateLayout(nodes)
	}
}

func (m multi) Batch() {
	for _, b := range m {
		b.Batch()
	}
}
