package animgraph

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// children returns the non-nil links of n, or nil for leaves.
func children(n Node) []Node {
	l, ok := n.(Linkable)
	if !ok {
		return nil
	}
	out := make([]Node, 0, l.LinkCount())
	for i := 0; i < l.LinkCount(); i++ {
		if c := l.Link(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// findPath returns the labels along a path from n down to the node with ID
// target, or nil if target is unreachable.
func findPath(n Node, target uint32) []string {
	visited := map[uint32]bool{}
	var walk func(Node) []string
	walk = func(cur Node) []string {
		if cur.ID() == target {
			return []string{labelOf(cur)}
		}
		if visited[cur.ID()] {
			return nil
		}
		visited[cur.ID()] = true
		for _, c := range children(cur) {
			if p := walk(c); p != nil {
				return append([]string{labelOf(cur)}, p...)
			}
		}
		return nil
	}
	return walk(n)
}

// Walk calls fn for root and every node below it, depth first, parents
// before children. A node shared by several parents is visited once.
// Returning false from fn skips that node's children.
func Walk(root Node, fn func(n Node, depth int) bool) {
	visited := map[uint32]bool{}
	var walk func(Node, int)
	walk = func(n Node, depth int) {
		if n == nil || visited[n.ID()] {
			return
		}
		visited[n.ID()] = true
		if !fn(n, depth) {
			return
		}
		for _, c := range children(n) {
			walk(c, depth+1)
		}
	}
	walk(root, 0)
}

// Depth returns the number of nodes on the longest path from n to a leaf.
func Depth(n Node) int {
	memo := map[uint32]int{}
	var depth func(Node) int
	depth = func(n Node) int {
		if d, ok := memo[n.ID()]; ok {
			return d
		}
		d := 0
		for _, c := range children(n) {
			d = max(d, depth(c))
		}
		memo[n.ID()] = d + 1
		return d + 1
	}
	return depth(n)
}

// Validate reports every problem that would make evaluating root fail for
// structural reasons: empty slots, empty animated tracks and disposed
// nodes still linked. It returns nil for a sound graph.
func Validate(root Node) error {
	if root == nil {
		return &UnlinkedNodeError{Node: "<root>", Slot: "root"}
	}
	var result *multierror.Error
	Walk(root, func(n Node, _ int) bool {
		if n.IsDisposed() {
			result = multierror.Append(result, fmt.Errorf("animgraph: %s: %w", labelOf(n), ErrDisposed))
			return false
		}
		switch x := n.(type) {
		case *AnimatedNode:
			if x.Len() == 0 {
				result = multierror.Append(result, &UnlinkedNodeError{Node: labelOf(n), Slot: "waypoints"})
			}
		case *DynamicList:
			for i, e := range x.entries {
				if e.value == nil {
					result = multierror.Append(result, &UnlinkedNodeError{Node: labelOf(n), Slot: fmt.Sprintf("item%d", i)})
				}
			}
		case Linkable:
			vocab := x.Vocab()
			for i := 0; i < x.LinkCount(); i++ {
				if x.Link(i) == nil {
					result = multierror.Append(result, &UnlinkedNodeError{Node: labelOf(n), Slot: vocab[i].Name})
				}
			}
		}
		return true
	})
	return result.ErrorOrNil()
}

// --- Change-time index ---

// ValueChangeTimes returns the instants at which n's value is
// discontinuous. It is computed from the current graph on every call.
func ValueChangeTimes(n Node) TimeSet {
	var out TimeSet
	if n != nil {
		n.ValueChangeTimes(&out)
	}
	return out
}

// Times returns the interesting instants of n and everything below it.
func Times(n Node) TimeSet {
	if n == nil {
		return TimeSet{}
	}
	return n.Times()
}
