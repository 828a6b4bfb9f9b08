package inspect

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/shadow/pkg/dom"
	"github.com/vango-dev/shadow/pkg/render"
)

// Options configures a Server.
type Options struct {
	// Lock serializes access to the manager. Default: a private mutex.
	Lock sync.Locker

	// Recorder backs /commits. Optional.
	Recorder *render.Recorder

	// Hub backs /stream. Optional.
	Hub *Hub

	// Gatherer backs /metrics. Default: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// Logger is used for access and stream logs. Default: slog.Default().
	Logger *slog.Logger

	// WriteTimeout bounds each websocket write. Default: 10 seconds.
	WriteTimeout time.Duration

	// PingInterval is the websocket heartbeat interval. Default: 30 seconds.
	PingInterval time.Duration
}

// Server is the inspector HTTP handler.
type Server struct {
	manager  *dom.Manager
	mu       sync.Locker
	recorder *render.Recorder
	hub      *Hub
	logger   *slog.Logger
	router   chi.Router
	upgrader websocket.Upgrader

	writeTimeout time.Duration
	pingInterval time.Duration
}

// New creates an inspector for m.
func New(m *dom.Manager, opts Options) *Server {
	if opts.Lock == nil {
		opts.Lock = &sync.Mutex{}
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.PingInterval == 0 {
		opts.PingInterval = 30 * time.Second
	}

	s := &Server{
		manager:      m,
		mu:           opts.Lock,
		recorder:     opts.Recorder,
		hub:          opts.Hub,
		logger:       opts.Logger.With("component", "inspect"),
		upgrader:     websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 4096},
		writeTimeout: opts.WriteTimeout,
		pingInterval: opts.PingInterval,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)
	r.Get("/tree", s.handleTree)
	r.Get("/nodes/{id}", s.handleNode)
	r.Post("/nodes/{id}/events/{name}", s.handleDispatch)
	r.Post("/nodes/{id}/functions/{name}", s.handleCall)
	r.Get("/commits", s.handleCommits)
	r.Get("/stream", s.handleStream)
	r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

// NodeView is the JSON shape of a node.
type NodeView struct {
	ID       uint32         `json:"id"`
	Parent   uint32         `json:"pid"`
	Tag      string         `json:"tag,omitempty"`
	Style    map[string]any `json:"style,omitempty"`
	ExtStyle map[string]any `json:"extStyle,omitempty"`
	Frame    *dom.Frame     `json:"frame,omitempty"`
	Children []uint32       `json:"children,omitempty"`
}

// TreeView is the JSON shape of a subtree.
type TreeView struct {
	NodeView
	Nodes []TreeView `json:"nodes,omitempty"`
}

func viewOf(n *dom.Node) NodeView {
	v := NodeView{
		ID:       n.ID,
		Parent:   n.Parent(),
		Tag:      n.Tag,
		Style:    n.Style,
		ExtStyle: n.ExtStyle,
		Children: n.Children(),
	}
	if n.HasLayout() {
		f := n.Frame()
		v.Frame = &f
	}
	return v
}

// maxTreeDepth bounds the /tree walk.
const maxTreeDepth = 256

func (s *Server) treeOf(n *dom.Node, depth int) TreeView {
	tv := TreeView{NodeView: viewOf(n)}
	if depth >= maxTreeDepth {
		return tv
	}
	for _, id := range tv.Children {
		if c := s.manager.GetNode(id); c != nil {
			tv.Nodes = append(tv.Nodes, s.treeOf(c, depth+1))
		}
	}
	return tv
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	tree := s.treeOf(s.manager.Root(), 0)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, tree)
}

func (s *Server) nodeID(w http.ResponseWriter, r *http.Request) (uint32, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid node id")
		return 0, false
	}
	return uint32(id), true
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	id, ok := s.nodeID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	n := s.manager.GetNode(id)
	var v NodeView
	if n != nil {
		v = viewOf(n)
	}
	s.mu.Unlock()

	if n == nil {
		writeError(w, http.StatusNotFound, "node not found")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	id, ok := s.nodeID(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	q := r.URL.Query()
	capture := q.Get("capture") != "false"
	bubble := q.Get("bubble") != "false"

	s.mu.Lock()
	found := s.manager.GetNode(id) != nil
	if found {
		s.manager.HandleEvent(dom.NewEvent(name, id, capture, bubble))
	}
	s.mu.Unlock()

	if !found {
		writeError(w, http.StatusNotFound, "node not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dispatched": true, "id": id, "event": name})
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	id, ok := s.nodeID(w, r)
	if !ok {
		return
	}
	var param any
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&param); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	var (
		result any
		called bool
	)
	s.mu.Lock()
	found := s.manager.GetNode(id) != nil
	s.manager.CallFunction(id, chi.URLParam(r, "name"), param, func(res any) {
		result, called = res, true
	})
	s.mu.Unlock()

	switch {
	case !found:
		writeError(w, http.StatusNotFound, "node not found")
	case !called:
		writeError(w, http.StatusNotFound, "function not found")
	default:
		writeJSON(w, http.StatusOK, map[string]any{"result": result})
	}
}

func (s *Server) handleCommits(w http.ResponseWriter, r *http.Request) {
	if s.recorder == nil {
		writeError(w, http.StatusNotFound, "commit history disabled")
		return
	}
	writeJSON(w, http.StatusOK, s.recorder.Commits())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
