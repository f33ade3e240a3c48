package animgraph

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/petermattis/goid"
)

// globalDebug enables the editing checks below. Read on every structural
// edit, so it stays a plain bool.
var globalDebug bool

// editorGoroutine is the goroutine allowed to edit graphs in debug mode.
var editorGoroutine int64

var debugLogger hclog.Logger = hclog.NewNullLogger()

// SetDebugMode turns debug checks on or off. While on, every structural
// edit must happen on the goroutine that called SetDebugMode(true), or it
// panics, and linking that makes a graph deeper than debugMaxDepth logs a
// warning.
func SetDebugMode(enabled bool) {
	globalDebug = enabled
	if enabled {
		editorGoroutine = goid.Get()
	}
}

// SetLogger sets the logger debug warnings go to. Nil restores the null
// logger.
func SetLogger(l hclog.Logger) {
	if l == nil {
		l = hclog.NewNullLogger()
	}
	debugLogger = l
}

// debugCheckEditor panics when op runs off the editing goroutine.
func debugCheckEditor(op string) {
	if id := goid.Get(); id != editorGoroutine {
		panic(fmt.Sprintf("animgraph debug: %s on goroutine %d, graphs are edited on goroutine %d", op, id, editorGoroutine))
	}
}

const debugMaxDepth = 64

// debugCheckDepth warns if the subgraph below n is deeper than debugMaxDepth.
func debugCheckDepth(n Node) {
	if d := Depth(n); d > debugMaxDepth {
		debugLogger.Warn("deep value graph", "node", labelOf(n), "depth", d, "threshold", debugMaxDepth)
	}
}
