// Package script decodes batch scripts and replays them against a
// dom.Manager.
//
// A script is YAML (JSON is accepted too) listing batches of steps:
//
//	root:
//	  width: 375
//	  height: 812
//	batches:
//	  - name: mount
//	    steps:
//	      - op: create
//	        nodes:
//	          - {id: 2, pid: 1, index: 0, tag: View, style: {height: 100}}
//	  - name: resize
//	    steps:
//	      - op: update
//	        nodes:
//	          - {id: 2, style: {height: 200}}
package script

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/vango-dev/shadow/internal/errors"
	"github.com/vango-dev/shadow/pkg/dom"
	"gopkg.in/yaml.v3"
)

// Operation names accepted in a step.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Script is a decoded batch script.
type Script struct {
	Root    *RootSpec `yaml:"root,omitempty" json:"root,omitempty"`
	Batches []Batch   `yaml:"batches" json:"batches"`
}

// RootSpec sets the root viewport before the first batch.
type RootSpec struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Batch is one BeginBatch/EndBatch cycle.
type Batch struct {
	Name  string `yaml:"name,omitempty" json:"name,omitempty"`
	Steps []Step `yaml:"steps" json:"steps"`
}

// Step is one Create, Update or Delete request.
type Step struct {
	Op    string     `yaml:"op" json:"op"`
	Nodes []NodeSpec `yaml:"nodes" json:"nodes"`
}

// NodeSpec describes a node in a step.
type NodeSpec struct {
	ID       uint32         `yaml:"id" json:"id"`
	PID      uint32         `yaml:"pid,omitempty" json:"pid,omitempty"`
	Index    int            `yaml:"index,omitempty" json:"index,omitempty"`
	Tag      string         `yaml:"tag,omitempty" json:"tag,omitempty"`
	Style    map[string]any `yaml:"style,omitempty" json:"style,omitempty"`
	ExtStyle map[string]any `yaml:"extStyle,omitempty" json:"extStyle,omitempty"`
}

// Node builds a detached dom.Node described by s.
func (s NodeSpec) Node() *dom.Node {
	n := dom.NewNode(s.ID, s.PID, s.Index)
	n.Tag = s.Tag
	n.Style = s.Style
	n.ExtStyle = s.ExtStyle
	return n
}

// Load reads and decodes the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E301").Wrap(err).
			WithSuggestion("Check the script path: " + path)
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes a YAML or JSON script from r and validates it.
func Decode(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return nil, errors.New("E302").Wrap(err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks every step names a known operation.
func (s *Script) Validate() error {
	for bi, b := range s.Batches {
		for si, step := range b.Steps {
			switch strings.ToLower(step.Op) {
			case OpCreate, OpUpdate, OpDelete:
			default:
				return errors.New("E303").WithDetail(
					"batch " + strconv.Itoa(bi) + " step " + strconv.Itoa(si) + ": unknown op " + strconv.Quote(step.Op))
			}
		}
	}
	return nil
}

// Replay runs every batch of s against m. When mu is non-nil it is held
// for the duration of each batch, so other goroutines reading m observe
// whole batches only.
func Replay(m *dom.Manager, s *Script, mu sync.Locker) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if mu == nil {
		mu = noLock{}
	}
	if s.Root != nil {
		mu.Lock()
		m.SetRootSize(s.Root.Width, s.Root.Height)
		mu.Unlock()
	}
	for _, b := range s.Batches {
		mu.Lock()
		m.BeginBatch()
		for _, step := range b.Steps {
			nodes := make([]*dom.Node, len(step.Nodes))
			for i, ns := range step.Nodes {
				nodes[i] = ns.Node()
			}
			switch strings.ToLower(step.Op) {
			case OpCreate:
				m.CreateNodes(nodes)
			case OpUpdate:
				m.UpdateNodes(nodes)
			case OpDelete:
				m.DeleteNodes(nodes)
			}
		}
		m.EndBatch()
		mu.Unlock()
	}
	return nil
}

type noLock struct{}

func (noLock) Lock()   {}
func (noLock) Unlock() {}
