package dom

// Names of the events the Manager fires for structural changes.
const (
	EventCreated = "onDomCreated"
	EventUpdated = "onDomUpdated"
	EventDeleted = "onDomDeleted"
)

// Phase is the propagation phase a listener runs in.
type Phase uint8

const (
	PhaseNone Phase = iota
	PhaseCapture
	PhaseBubble
)

// String returns the string representation of the Phase.
func (p Phase) String() string {
	switch p {
	case PhaseCapture:
		return "capture"
	case PhaseBubble:
		return "bubble"
	default:
		return "none"
	}
}

// Resolver looks a node up by id and returns nil when it does not exist.
type Resolver func(id uint32) *Node

// Event is a transient value carried through one dispatch. It refers to its
// target by id, so a queued event never keeps a deleted node reachable.
type Event struct {
	typ            string
	target         uint32
	currentTarget  *Node
	phase          Phase
	preventCapture bool
	preventBubble  bool
}

// NewEvent creates an event of type typ aimed at target. When canCapture is
// false the capture phase is skipped; when canBubble is false only the
// target's bubble listeners run.
func NewEvent(typ string, target uint32, canCapture, canBubble bool) *Event {
	return &Event{
		typ:            typ,
		target:         target,
		preventCapture: !canCapture,
		preventBubble:  !canBubble,
	}
}

// Type returns the event name.
func (e *Event) Type() string { return e.typ }

// Target returns the id of the node the event was fired at.
func (e *Event) Target() uint32 { return e.target }

// CurrentTarget returns the node whose listeners are running, or nil
// outside dispatch.
func (e *Event) CurrentTarget() *Node { return e.currentTarget }

// Phase returns the phase currently being dispatched.
func (e *Event) Phase() Phase { return e.phase }

// StopCapture halts the capture phase once the current node's listeners
// have run. The bubble phase still runs.
func (e *Event) StopCapture() { e.preventCapture = true }

// StopBubble halts the bubble phase once the current node's listeners
// have run.
func (e *Event) StopBubble() { e.preventBubble = true }

// StopPropagation halts both phases.
func (e *Event) StopPropagation() {
	e.preventCapture = true
	e.preventBubble = true
}

// IsPreventCapture reports whether capture has been halted.
func (e *Event) IsPreventCapture() bool { return e.preventCapture }

// IsPreventBubble reports whether bubbling has been halted.
func (e *Event) IsPreventBubble() bool { return e.preventBubble }

// Dispatch runs the capture and bubble phases of ev.
//
// Nodes are resolved afresh before each visit, so listeners may mutate the
// tree: a node removed mid-dispatch is skipped during capture and ends
// bubbling. Each node's listener list is snapshotted when the node is
// visited. Listener panics are not recovered.
func Dispatch(ev *Event, resolve Resolver) {
	target := resolve(ev.target)
	if target == nil {
		return
	}
	defer func() {
		ev.currentTarget = nil
		ev.phase = PhaseNone
	}()

	if !ev.preventCapture {
		ev.phase = PhaseCapture
		for _, id := range capturePath(target, resolve) {
			node := resolve(id)
			if node == nil {
				continue
			}
			ev.currentTarget = node
			for _, l := range node.eventListeners(ev.typ, true) {
				l.cb(ev)
			}
			if ev.preventCapture {
				break
			}
		}
	}

	ev.phase = PhaseBubble
	for id := ev.target; id != NoID; {
		node := resolve(id)
		if node == nil {
			return
		}
		ev.currentTarget = node
		for _, l := range node.eventListeners(ev.typ, false) {
			l.cb(ev)
		}
		if ev.preventBubble {
			return
		}
		id = node.parent
	}
}

// capturePath returns the ids from the root down to target, inclusive.
func capturePath(target *Node, resolve Resolver) []uint32 {
	path := []uint32{target.ID}
	seen := map[uint32]bool{target.ID: true}
	for id := target.parent; id != NoID && !seen[id]; {
		node := resolve(id)
		if node == nil {
			break
		}
		seen[id] = true
		path = append(path, id)
		id = node.parent
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
