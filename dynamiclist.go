package animgraph

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	entryIDCounter       uint32
	activepointIDCounter uint32
)

func nextEntryID() uint32 {
	entryIDCounter++
	return entryIDCounter
}

func nextActivepointID() uint32 {
	activepointIDCounter++
	return activepointIDCounter
}

// Activepoint switches a list entry on or off from Time onward.
type Activepoint struct {
	ID   uint32
	Time Time
	On   bool
}

// Interval is the half-open span [Start, End) of the timeline. Unbounded
// ends are TimeBegin and TimeEnd.
type Interval struct {
	Start, End Time
}

// Contains reports whether t lies in the interval.
func (iv Interval) Contains(t Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%v, %v)", iv.Start, iv.End)
}

// --- ListEntry ---

// ListEntry is one element of a dynamic list: a value node plus the
// activepoint timeline deciding when the element takes part. An entry keeps
// its identity and timeline through reordering of the list.
type ListEntry struct {
	id           uint32
	value        Node
	activepoints []Activepoint
}

// ID identifies the entry across list edits.
func (e *ListEntry) ID() uint32 { return e.id }

// Value returns the entry's node for inspection.
func (e *ListEntry) Value() Node { return e.value }

// Status reports whether the entry is on at t: the state of the latest
// activepoint at or before t. Before the first activepoint the entry is off.
// An entry without activepoints is always on.
func (e *ListEntry) Status(t Time) bool {
	if len(e.activepoints) == 0 {
		return true
	}
	i := sort.Search(len(e.activepoints), func(i int) bool {
		return e.activepoints[i].Time.After(t)
	})
	if i == 0 {
		return false
	}
	return e.activepoints[i-1].On
}

// AddActivepoint inserts an activepoint and returns its ID. One already at t
// is replaced.
func (e *ListEntry) AddActivepoint(t Time, on bool) uint32 {
	if globalDebug {
		debugCheckEditor("AddActivepoint")
	}
	ap := Activepoint{ID: nextActivepointID(), Time: t, On: on}
	i := sort.Search(len(e.activepoints), func(i int) bool {
		return !e.activepoints[i].Time.Before(t)
	})
	if i < len(e.activepoints) && e.activepoints[i].Time.Equal(t) {
		e.activepoints[i] = ap
		return ap.ID
	}
	e.activepoints = append(e.activepoints, Activepoint{})
	copy(e.activepoints[i+1:], e.activepoints[i:])
	e.activepoints[i] = ap
	return ap.ID
}

// RemoveActivepoint deletes the activepoint with the given ID.
func (e *ListEntry) RemoveActivepoint(id uint32) bool {
	if globalDebug {
		debugCheckEditor("RemoveActivepoint")
	}
	for i, ap := range e.activepoints {
		if ap.ID == id {
			e.activepoints = append(e.activepoints[:i], e.activepoints[i+1:]...)
			return true
		}
	}
	return false
}

// Activepoints returns a time-ordered copy of the timeline.
func (e *ListEntry) Activepoints() []Activepoint {
	out := make([]Activepoint, len(e.activepoints))
	copy(out, e.activepoints)
	return out
}

// intervals splits the timeline into maximal runs of equal status.
func (e *ListEntry) intervals(on bool) []Interval {
	if len(e.activepoints) == 0 {
		if on {
			return []Interval{{TimeBegin, TimeEnd}}
		}
		return nil
	}
	var out []Interval
	cur, start := false, TimeBegin
	for _, ap := range e.activepoints {
		if ap.On == cur {
			continue
		}
		if cur == on && ap.Time != start {
			out = append(out, Interval{start, ap.Time})
		}
		cur, start = ap.On, ap.Time
	}
	if cur == on {
		out = append(out, Interval{start, TimeEnd})
	}
	return out
}

// ActiveIntervals returns the spans during which the entry is on.
func (e *ListEntry) ActiveIntervals() []Interval { return e.intervals(true) }

// InactiveIntervals returns the spans during which the entry is off.
func (e *ListEntry) InactiveIntervals() []Interval { return e.intervals(false) }

// Times returns the activepoint times and the value node's times.
func (e *ListEntry) Times() TimeSet {
	var out TimeSet
	if e.value != nil {
		out = e.value.Times()
	}
	for _, ap := range e.activepoints {
		out.Add(ap.Time)
	}
	return out
}

// --- DynamicList ---

// DynamicList is an ordered list of entries whose membership varies over
// time. Its value at t holds the values of the entries on at t, in list
// order. The element type is fixed by the constructor or by the first entry.
type DynamicList struct {
	nodeBase
	elem    *Type
	entries []*ListEntry
}

var dynamicListVariant = Variant{
	Name:      "dynamic_list",
	LocalName: "Dynamic List",
	CheckType: typeIn(TypeList),
	New: func(*Type) (Node, error) {
		return NewDynamicList(nil), nil
	},
	Wrap: func(x Node) (Node, error) {
		l := NewDynamicList(nil)
		if _, err := l.Append(x); err != nil {
			return nil, err
		}
		return l, nil
	},
}

// NewDynamicList returns an empty list of elem values. A nil elem is set by
// the first entry added.
func NewDynamicList(elem *Type) *DynamicList {
	return &DynamicList{nodeBase: newNodeBase("dynamic_list", TypeList), elem: elem}
}

// ElemType returns the element type, or nil if still undecided.
func (l *DynamicList) ElemType() *Type { return l.elem }

func (l *DynamicList) checkEdit(op string) error {
	if globalDebug {
		debugCheckEditor(op)
	}
	if l.disposed {
		return fmt.Errorf("animgraph: %s on %s: %w", op, l.label(), ErrDisposed)
	}
	return nil
}

func (l *DynamicList) checkValue(op string, v Node) error {
	declared := l.elem
	if declared == nil && v != nil {
		declared = v.Type()
	}
	return checkChild(l.id, l.label(), declared, v, fmt.Sprintf("%s %s", op, l.label()))
}

// Append adds v as a new entry at the end of the list.
func (l *DynamicList) Append(v Node) (*ListEntry, error) {
	return l.Insert(len(l.entries), v)
}

// Insert adds v as a new entry at position i.
func (l *DynamicList) Insert(i int, v Node) (*ListEntry, error) {
	if err := l.checkEdit("Insert"); err != nil {
		return nil, err
	}
	if i < 0 || i > len(l.entries) {
		return nil, linkIndexError(l.label(), i, len(l.entries)+1)
	}
	if err := l.checkValue("insert", v); err != nil {
		return nil, err
	}
	if l.elem == nil {
		l.elem = v.Type()
	}
	retain(v)
	e := &ListEntry{id: nextEntryID(), value: v}
	l.entries = append(l.entries, nil)
	copy(l.entries[i+1:], l.entries[i:])
	l.entries[i] = e
	if globalDebug {
		debugCheckDepth(v)
	}
	return e, nil
}

// Remove deletes the entry with the given ID, releasing its value.
func (l *DynamicList) Remove(id uint32) bool {
	if l.checkEdit("Remove") != nil {
		return false
	}
	i := l.IndexOf(id)
	if i < 0 {
		return false
	}
	release(l.entries[i].value)
	copy(l.entries[i:], l.entries[i+1:])
	l.entries[len(l.entries)-1] = nil
	l.entries = l.entries[:len(l.entries)-1]
	return true
}

// Move places the entry with the given ID at position i.
func (l *DynamicList) Move(id uint32, i int) error {
	if err := l.checkEdit("Move"); err != nil {
		return err
	}
	from := l.IndexOf(id)
	if from < 0 {
		return fmt.Errorf("animgraph: entry %d on %s: %w", id, l.label(), ErrNotFound)
	}
	if i < 0 || i >= len(l.entries) {
		return linkIndexError(l.label(), i, len(l.entries))
	}
	e := l.entries[from]
	if from < i {
		copy(l.entries[from:i], l.entries[from+1:i+1])
	} else {
		copy(l.entries[i+1:from+1], l.entries[i:from])
	}
	l.entries[i] = e
	return nil
}

// Entry returns the entry with the given ID, or nil.
func (l *DynamicList) Entry(id uint32) *ListEntry {
	if i := l.IndexOf(id); i >= 0 {
		return l.entries[i]
	}
	return nil
}

// EntryAt returns the entry at position i, or nil.
func (l *DynamicList) EntryAt(i int) *ListEntry {
	if i < 0 || i >= len(l.entries) {
		return nil
	}
	return l.entries[i]
}

// IndexOf returns the position of the entry with the given ID, or -1.
func (l *DynamicList) IndexOf(id uint32) int {
	for i, e := range l.entries {
		if e.id == id {
			return i
		}
	}
	return -1
}

// Entries returns the entries in list order.
func (l *DynamicList) Entries() []*ListEntry {
	out := make([]*ListEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *DynamicList) Len() int { return len(l.entries) }

// --- Linkable ---

func (l *DynamicList) LinkCount() int { return len(l.entries) }

func (l *DynamicList) Link(i int) Node {
	if e := l.EntryAt(i); e != nil {
		return e.value
	}
	return nil
}

// LinkIndex resolves names of the form "item3".
func (l *DynamicList) LinkIndex(name string) int {
	s, ok := strings.CutPrefix(name, "item")
	if !ok {
		return -1
	}
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 || i >= len(l.entries) {
		return -1
	}
	return i
}

// Vocab describes the current entries. It is built on every call because
// the slot count follows the list.
func (l *DynamicList) Vocab() Vocab {
	v := make(Vocab, len(l.entries))
	for i := range l.entries {
		v[i] = ParamDesc{
			Name:      "item" + strconv.Itoa(i),
			LocalName: fmt.Sprintf("Item %03d", i+1),
			Type:      l.elem,
		}
	}
	return v
}

// SetLink replaces the value of entry i. The entry keeps its ID and
// activepoints.
func (l *DynamicList) SetLink(i int, child Node) (bool, error) {
	if err := l.checkEdit("SetLink"); err != nil {
		return false, err
	}
	if i < 0 || i >= len(l.entries) {
		return false, linkIndexError(l.label(), i, len(l.entries))
	}
	if err := l.checkValue("set_link", child); err != nil {
		return false, err
	}
	e := l.entries[i]
	if e.value == child {
		return false, nil
	}
	retain(child)
	if e.value != nil {
		release(e.value)
	}
	e.value = child
	if globalDebug {
		debugCheckDepth(child)
	}
	return true, nil
}

// UnlinkAll removes every entry.
func (l *DynamicList) UnlinkAll() {
	for _, e := range l.entries {
		if e.value != nil {
			release(e.value)
		}
	}
	l.entries = nil
}

// --- Evaluation ---

func (l *DynamicList) Evaluate(t Time) (Value, error) {
	if l.disposed {
		return nil, fmt.Errorf("animgraph: evaluate %s: %w", l.label(), ErrDisposed)
	}
	out := make([]Value, 0, len(l.entries))
	for i, e := range l.entries {
		if !e.Status(t) {
			continue
		}
		if e.value == nil {
			return nil, &UnlinkedNodeError{Node: l.label(), Slot: "item" + strconv.Itoa(i)}
		}
		v, err := e.value.Evaluate(t)
		if err != nil {
			return nil, err
		}
		if TypeOf(v) != l.elem {
			if v, err = ConvertValue(v, l.elem); err != nil {
				return nil, err
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// Times is the union of the entries' times.
func (l *DynamicList) Times() TimeSet {
	var out TimeSet
	for _, e := range l.entries {
		out.Merge(e.Times())
	}
	return out
}

// ValueChangeTimes reports each entry's value change times plus its
// activepoint times, where membership of the list changes.
func (l *DynamicList) ValueChangeTimes(out *TimeSet) {
	for _, e := range l.entries {
		if e.value != nil {
			e.value.ValueChangeTimes(out)
		}
		for _, ap := range e.activepoints {
			out.Add(ap.Time)
		}
	}
}

func (l *DynamicList) Dispose() error {
	if l.disposed {
		return nil
	}
	if err := l.checkDispose(); err != nil {
		return err
	}
	l.UnlinkAll()
	l.disposed = true
	return nil
}
