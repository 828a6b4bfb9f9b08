package render

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/vango-dev/shadow/pkg/dom"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/embedded"
	"go.opentelemetry.io/otel/trace/noop"
)

func styled(id, pid uint32, index int, style map[string]any) *dom.Node {
	n := dom.NewNode(id, pid, index)
	n.Style = style
	return n
}

// drive runs two batches: one creating 2 and 3, one updating 2 and deleting 3.
func drive(backend dom.Backend) *dom.Manager {
	m := dom.NewManager(1, backend, dom.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	m.BeginBatch()
	m.CreateNodes([]*dom.Node{styled(2, 1, 0, map[string]any{"a": 1, "b": 2}), dom.NewNode(3, 1, 1)})
	m.EndBatch()

	m.BeginBatch()
	m.UpdateNodes([]*dom.Node{styled(2, 1, 0, map[string]any{"a": 5})})
	m.DeleteNodes([]*dom.Node{dom.NewNode(3, dom.NoID, 0)})
	m.EndBatch()
	return m
}

func TestRecorderCommits(t *testing.T) {
	var seen []uint64
	rec := NewRecorder(OnCommit(func(c Commit) { seen = append(seen, c.Seq) }))
	drive(rec)

	commits := rec.Commits()
	if len(commits) != 2 {
		t.Fatalf("commits = %d, want 2", len(commits))
	}
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("OnCommit seqs = %v, want [1 2]", seen)
	}

	first := commits[0]
	if len(first.Ops) != 1 || first.Ops[0].Kind != "Create" {
		t.Fatalf("first commit ops = %+v", first.Ops)
	}
	if ids := first.Ops[0].IDs(); len(ids) != 2 || ids[0] != 2 || ids[1] != 3 {
		t.Errorf("create ids = %v, want [2 3]", ids)
	}

	second := commits[1]
	if len(second.Ops) != 2 || second.Ops[0].Kind != "Update" || second.Ops[1].Kind != "Delete" {
		t.Fatalf("second commit ops = %+v", second.Ops)
	}
	diff := second.Ops[0].Nodes[0].Diff
	if diff["a"] != 5 {
		t.Errorf("diff a = %v, want 5", diff["a"])
	}
	if v, ok := diff["b"]; !ok || v != nil {
		t.Errorf("diff b = %v (present %v), want nil marker", v, ok)
	}

	last, ok := rec.Last()
	if !ok || last.Seq != 2 {
		t.Errorf("Last = %+v, %v", last, ok)
	}
}

func TestRecorderEmptyCommitEncodes(t *testing.T) {
	rec := NewRecorder()
	rec.Batch()

	c, _ := rec.Last()
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"seq":1,"ops":[]}` {
		t.Errorf("json = %s", data)
	}
}

func TestRecorderHistoryLimit(t *testing.T) {
	rec := NewRecorder(WithHistory(2))
	for i := 0; i < 5; i++ {
		rec.Batch()
	}
	commits := rec.Commits()
	if len(commits) != 2 || commits[0].Seq != 4 || commits[1].Seq != 5 {
		t.Errorf("commits = %+v, want seqs 4,5", commits)
	}

	rec.Reset()
	if len(rec.Commits()) != 0 {
		t.Error("Reset kept commits")
	}
	if _, ok := rec.Last(); ok {
		t.Error("Last after Reset = ok")
	}
}

func TestSnapshotLayoutFrame(t *testing.T) {
	n := dom.NewNode(2, 1, 0)
	n.SetFrame(dom.Frame{Width: 10, Height: 20})

	rec := Snapshot(dom.OpUpdateLayout, []*dom.Node{n})
	if rec.Nodes[0].Frame == nil || rec.Nodes[0].Frame.Height != 20 {
		t.Errorf("frame = %+v", rec.Nodes[0].Frame)
	}
	if rec.Nodes[0].Diff != nil {
		t.Error("layout record carries a diff")
	}
}

func TestMulti(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	drive(Multi(a, nil, b))

	if len(a.Commits()) != 2 || len(b.Commits()) != 2 {
		t.Errorf("commits a=%d b=%d, want 2 each", len(a.Commits()), len(b.Commits()))
	}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	rec := NewRecorder()
	drive(NewLogging(rec, logger))

	out := buf.String()
	for _, want := range []string{"render op", "op=Create", "batch committed", "ops=2"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
	if len(rec.Commits()) != 2 {
		t.Error("Logging did not forward to the next backend")
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder()
	m := NewMetrics(rec, WithRegistry(reg), WithNamespace("test"))
	drive(m)

	if got := testutil.ToFloat64(m.opsTotal.WithLabelValues("Create")); got != 1 {
		t.Errorf("ops_total{Create} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.nodesTotal.WithLabelValues("Create")); got != 2 {
		t.Errorf("nodes_total{Create} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.opsTotal.WithLabelValues("Delete")); got != 1 {
		t.Errorf("ops_total{Delete} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.commitsTotal); got != 2 {
		t.Errorf("commits_total = %v, want 2", got)
	}
	if n, err := testutil.GatherAndCount(reg, "test_render_commit_ops"); err != nil || n != 1 {
		t.Errorf("commit_ops series = %d, %v", n, err)
	}
	if len(rec.Commits()) != 2 {
		t.Error("Metrics did not forward to the next backend")
	}
}

type spanLog struct {
	started []string
	ended   []string
}

type recProvider struct {
	embedded.TracerProvider
	log *spanLog
}

func (p recProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return recTracer{log: p.log}
}

type recTracer struct {
	embedded.Tracer
	log *spanLog
}

func (t recTracer) Start(ctx context.Context, name string, _ ...trace.SpanStartOption) (context.Context, trace.Span) {
	t.log.started = append(t.log.started, name)
	return ctx, recSpan{log: t.log, name: name}
}

type recSpan struct {
	noop.Span
	log  *spanLog
	name string
}

func (s recSpan) End(...trace.SpanEndOption) {
	s.log.ended = append(s.log.ended, s.name)
}

func TestTracing(t *testing.T) {
	log := &spanLog{}
	rec := NewRecorder()
	drive(NewTracing(rec, WithTracerProvider(recProvider{log: log})))

	wantStarted := []string{
		"shadow.commit", "shadow.render.Create",
		"shadow.commit", "shadow.render.Update", "shadow.render.Delete",
	}
	if strings.Join(log.started, ",") != strings.Join(wantStarted, ",") {
		t.Errorf("started = %v, want %v", log.started, wantStarted)
	}
	wantEnded := []string{
		"shadow.render.Create", "shadow.commit",
		"shadow.render.Update", "shadow.render.Delete", "shadow.commit",
	}
	if strings.Join(log.ended, ",") != strings.Join(wantEnded, ",") {
		t.Errorf("ended = %v, want %v", log.ended, wantEnded)
	}
	if len(rec.Commits()) != 2 {
		t.Error("Tracing did not forward to the next backend")
	}
}

func TestTracingEmptyBatch(t *testing.T) {
	log := &spanLog{}
	tr := NewTracing(NewRecorder(), WithTracerProvider(recProvider{log: log}))
	tr.Batch()

	if len(log.started) != 1 || log.started[0] != "shadow.commit" || len(log.ended) != 1 {
		t.Errorf("started = %v ended = %v", log.started, log.ended)
	}
}
