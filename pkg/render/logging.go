package render

import (
	"context"
	"log/slog"

	"github.com/vango-dev/shadow/pkg/dom"
)

// Logging is a dom.Backend decorator that logs every operation at Debug
// level and every commit at Info level.
type Logging struct {
	next   dom.Backend
	logger *slog.Logger
	ops    int
	nodes  int
}

// NewLogging wraps next. A nil logger uses slog.Default().
func NewLogging(next dom.Backend, logger *slog.Logger) *Logging {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logging{next: next, logger: logger.With("component", "render")}
}

func (l *Logging) log(kind dom.OpKind, nodes []*dom.Node) {
	l.ops++
	l.nodes += len(nodes)
	if l.logger.Enabled(context.Background(), slog.LevelDebug) {
		ids := make([]uint32, len(nodes))
		for i, n := range nodes {
			ids[i] = n.ID
		}
		l.logger.Debug("render op", "op", kind.String(), "count", len(nodes), "ids", ids)
	}
}

// CreateRenderNode implements dom.Backend.
func (l *Logging) CreateRenderNode(nodes []*dom.Node) {
	l.log(dom.OpCreate, nodes)
	l.next.CreateRenderNode(nodes)
}

// UpdateRenderNode implements dom.Backend.
func (l *Logging) UpdateRenderNode(nodes []*dom.Node) {
	l.log(dom.OpUpdate, nodes)
	l.next.UpdateRenderNode(nodes)
}

// DeleteRenderNode implements dom.Backend.
func (l *Logging) DeleteRenderNode(nodes []*dom.Node) {
	l.log(dom.OpDelete, nodes)
	l.next.DeleteRenderNode(nodes)
}

// UpdateLayout implements dom.Backend.
func (l *Logging) UpdateLayout(nodes []*dom.Node) {
	l.log(dom.OpUpdateLayout, nodes)
	l.next.UpdateLayout(nodes)
}

// Batch implements dom.Backend.
func (l *Logging) Batch() {
	l.next.Batch()
	l.logger.Info("batch committed", "ops", l.ops, "nodes", l.nodes)
	l.ops, l.nodes = 0, 0
}
