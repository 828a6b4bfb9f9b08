package dom

import (
	"math"
	"strconv"
	"strings"

	"github.com/vango-dev/shadow/internal/errors"
)

// NoID is the id used when a node has no parent.
const NoID uint32 = 0

// Direction is the main axis children are laid out along.
type Direction uint8

const (
	DirectionColumn Direction = iota
	DirectionRow
)

// String returns the style value for the direction.
func (d Direction) String() string {
	if d == DirectionRow {
		return "row"
	}
	return "column"
}

// LayoutStyle holds the layout inputs parsed from a node's style map.
// Width and Height are NaN when not set.
type LayoutStyle struct {
	Width         float64
	Height        float64
	FlexDirection Direction
	FlexGrow      float64
	Padding       float64
	Margin        float64
}

// Frame is a computed layout box, relative to the parent's frame.
type Frame struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RenderInfo is the placement metadata handed to the render backend.
type RenderInfo struct {
	ParentID uint32
	Index    int
	IsRoot   bool
}

// Function handles a CallFunction request on a node.
type Function func(param any) any

// CallFunctionCallback receives the result of a Function.
type CallFunctionCallback func(result any)

// EventListener is invoked during dispatch. It may halt propagation and
// mutate the tree.
type EventListener func(ev *Event)

type listenerKey struct {
	name    string
	capture bool
}

type listener struct {
	id uint32
	cb EventListener
}

// Node is one entity of the shadow tree.
//
// ID, ParentID, Index, Tag, Style and ExtStyle are set by the producer of a
// create or update request. Everything else is owned by the Manager.
type Node struct {
	ID       uint32
	ParentID uint32
	Index    int
	Tag      string
	Style    map[string]any
	ExtStyle map[string]any

	parent   uint32
	children []uint32

	diffStyle   map[string]any
	layoutStyle LayoutStyle
	frame       Frame
	laidOut     bool
	renderInfo  RenderInfo

	listeners      map[listenerKey][]listener
	nextListenerID uint32
	functions      map[string]Function
}

// NewNode creates a detached node that will be inserted under pid at index.
func NewNode(id, pid uint32, index int) *Node {
	return &Node{
		ID:          id,
		ParentID:    pid,
		Index:       index,
		layoutStyle: LayoutStyle{Width: math.NaN(), Height: math.NaN()},
	}
}

// Parent returns the id of the node's current parent, or NoID.
func (n *Node) Parent() uint32 { return n.parent }

// Children returns a copy of the child ids in sibling order.
func (n *Node) Children() []uint32 {
	out := make([]uint32, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// ChildAt returns the child id at index, or NoID when out of range.
func (n *Node) ChildAt(index int) uint32 {
	if index < 0 || index >= len(n.children) {
		return NoID
	}
	return n.children[index]
}

// AddChildAt inserts child at index, shifting later siblings right.
// The tree is left untouched when index is outside [0, ChildCount()].
func (n *Node) AddChildAt(child *Node, index int) error {
	if child.ID == n.ID {
		return errors.New("E103").WithDetail("node " + strconv.FormatUint(uint64(n.ID), 10))
	}
	if index < 0 || index > len(n.children) {
		return errors.New("E101").WithDetail(rangeDetail(index, len(n.children)))
	}
	n.children = append(n.children, NoID)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child.ID
	child.parent = n.ID
	return nil
}

// RemoveChildAt removes the child at index and returns its id.
// The caller is responsible for clearing the child's parent link.
func (n *Node) RemoveChildAt(index int) (uint32, error) {
	if index < 0 || index >= len(n.children) {
		return NoID, errors.New("E102").WithDetail(rangeDetail(index, len(n.children)-1))
	}
	id := n.children[index]
	copy(n.children[index:], n.children[index+1:])
	n.children = n.children[:len(n.children)-1]
	return id, nil
}

// IndexOf returns the position of id among the children, or -1.
func (n *Node) IndexOf(id uint32) int {
	for i, c := range n.children {
		if c == id {
			return i
		}
	}
	return -1
}

func rangeDetail(index, upper int) string {
	return "index " + strconv.Itoa(index) + " outside [0, " + strconv.Itoa(max(upper, 0)) + "]"
}

// DiffStyle returns the style delta computed by the most recent update.
// Removed keys hold the Unset marker.
func (n *Node) DiffStyle() map[string]any { return n.diffStyle }

// RenderInfo returns the placement metadata recorded at creation.
func (n *Node) RenderInfo() RenderInfo { return n.renderInfo }

// LayoutStyle returns the parsed layout inputs.
func (n *Node) LayoutStyle() LayoutStyle { return n.layoutStyle }

// Frame returns the computed layout box. It is only meaningful after a
// layout pass has visited the node.
func (n *Node) Frame() Frame { return n.frame }

// HasLayout reports whether a layout pass has produced a frame.
func (n *Node) HasLayout() bool { return n.laidOut }

// SetFrame stores a computed frame and reports whether it differs from the
// previous one. The first frame a node receives always counts as a change.
func (n *Node) SetFrame(f Frame) bool {
	changed := !n.laidOut || f != n.frame
	n.frame = f
	n.laidOut = true
	return changed
}

// GetLayoutSize returns the width and height layout inputs.
func (n *Node) GetLayoutSize() (float64, float64) {
	return n.layoutStyle.Width, n.layoutStyle.Height
}

// SetLayoutSize fixes the node's width and height layout inputs.
func (n *Node) SetLayoutSize(width, height float64) {
	if n.Style == nil {
		n.Style = make(map[string]any)
	}
	n.Style["width"] = width
	n.Style["height"] = height
	n.layoutStyle.Width = width
	n.layoutStyle.Height = height
}

// ParseLayoutStyle reads the layout keys of Style into LayoutStyle.
// Unknown keys are ignored and unparsable values fall back to defaults.
func (n *Node) ParseLayoutStyle() {
	ls := LayoutStyle{Width: math.NaN(), Height: math.NaN()}
	if v, ok := toFloat(n.Style["width"]); ok {
		ls.Width = v
	}
	if v, ok := toFloat(n.Style["height"]); ok {
		ls.Height = v
	}
	if v, ok := toFloat(n.Style["flexGrow"]); ok && v > 0 {
		ls.FlexGrow = v
	}
	if v, ok := toFloat(n.Style["padding"]); ok && v > 0 {
		ls.Padding = v
	}
	if v, ok := toFloat(n.Style["margin"]); ok && v > 0 {
		ls.Margin = v
	}
	if s, ok := n.Style["flexDirection"].(string); ok && strings.EqualFold(s, "row") {
		ls.FlexDirection = DirectionRow
	}
	n.layoutStyle = ls
}

// toFloat converts numeric style values, including numeric strings.
func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case uint32:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSuffix(val, "px"), 64)
		return f, err == nil
	}
	return 0, false
}

// AddEventListener registers cb for name in the given phase and returns a
// listener id unique within this node. Ids start at 1.
func (n *Node) AddEventListener(name string, useCapture bool, cb EventListener) uint32 {
	if n.listeners == nil {
		n.listeners = make(map[listenerKey][]listener)
	}
	n.nextListenerID++
	key := listenerKey{name: name, capture: useCapture}
	n.listeners[key] = append(n.listeners[key], listener{id: n.nextListenerID, cb: cb})
	return n.nextListenerID
}

// RemoveEventListener unregisters the listener with the given id.
func (n *Node) RemoveEventListener(id uint32) bool {
	for key, ls := range n.listeners {
		for i, l := range ls {
			if l.id != id {
				continue
			}
			n.listeners[key] = append(ls[:i:i], ls[i+1:]...)
			if len(n.listeners[key]) == 0 {
				delete(n.listeners, key)
			}
			return true
		}
	}
	return false
}

// eventListeners returns a snapshot of the listeners for name and phase.
func (n *Node) eventListeners(name string, capture bool) []listener {
	ls := n.listeners[listenerKey{name: name, capture: capture}]
	if len(ls) == 0 {
		return nil
	}
	out := make([]listener, len(ls))
	copy(out, ls)
	return out
}

// SetFunction registers fn under name for CallFunction. A nil fn removes it.
func (n *Node) SetFunction(name string, fn Function) {
	if fn == nil {
		delete(n.functions, name)
		return
	}
	if n.functions == nil {
		n.functions = make(map[string]Function)
	}
	n.functions[name] = fn
}

// CallFunction runs the function registered under name and passes its
// result to cb. It reports whether a function was found.
func (n *Node) CallFunction(name string, param any, cb CallFunctionCallback) bool {
	fn, ok := n.functions[name]
	if !ok {
		return false
	}
	result := fn(param)
	if cb != nil {
		cb(result)
	}
	return true
}
