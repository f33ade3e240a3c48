// Package animgraph is the value-node dependency graph of an animation
// authoring tool.
//
// Every animatable parameter of a scene is computed by a small graph of
// typed, time-parameterized nodes: constants, converters, composites,
// animated keyframe tracks and dynamic lists. Asking a node for its value at
// time t pulls values from its children at t, recursively, down to the
// leaves. Nothing is pushed and nothing is cached.
//
// # Quick start
//
//	pos, _ := animgraph.NewAnimated(animgraph.TypeVector)
//	pos.AddValue(0, animgraph.Vector{X: 0, Y: 0})
//	pos.AddValue(2, animgraph.Vector{X: 100, Y: 40})
//
//	v, err := pos.Evaluate(1) // halfway along the spline
//
// # Nodes and links
//
// Every node implements [Node]. Nodes computed from children also implement
// [Linkable]: an ordered list of named slots described by a [Vocab].
// [Linkable.SetLink] checks the child's type against the slot, accepting
// types listed by [IsConvertible], and rejects links that would close a
// cycle. A rejected link leaves the graph unchanged.
//
// A child may sit under several parents. [Node.RefCount] counts the slots,
// layers and canvases holding it, and [Node.Dispose] refuses while any
// remain.
//
// # Variants
//
// Node kinds are registered by name in a process-wide registry during
// package initialization. [Create] builds a node by variant name, [Wrap]
// builds one around an existing node, and [VocabOf] describes a variant's
// slots for editors:
//
//	rev, err := animgraph.Wrap("blinerevtangent", point)
//
// Custom variants may call [Register] from an init function. The registry is
// read-only once it has been used.
//
// # Time
//
// [Time] is in seconds. Two times closer than half a millisecond are the
// same instant. [ValueChangeTimes] returns the instants where a node's value
// jumps, recomputed on each call, for timeline markers. [Times] returns the
// waypoints and activepoints found below a node.
//
// # Dynamic lists
//
// A [DynamicList] holds ordered entries, each with its own timeline of
// activepoints. An entry is on at t if its latest activepoint at or before t
// is on. Entries keep their identity and timeline through reordering.
//
// # Concurrency
//
// Graphs are edited on one goroutine. Evaluation does not mutate nodes, so
// independent times may be evaluated in parallel while no edits happen.
// [SetDebugMode] enables checks that panic when an edit comes from another
// goroutine.
package animgraph
