// Package scenefile reads and writes HCL scene descriptions: a flat list of
// named value nodes wired together by name, plus layers binding parameters
// to them.
//
//	name = "intro"
//
//	node "pos" {
//	  variant = "animated"
//	  type    = "vector"
//	  waypoint {
//	    time  = 0
//	    value = [0, 0]
//	  }
//	  waypoint {
//	    time   = 2
//	    value  = [100, 40]
//	    before = "ease"
//	  }
//	}
//
//	node "flip" {
//	  variant = "const"
//	  type    = "bool"
//	  value   = true
//	}
//
//	layer "circle" {
//	  params = { origin = "pos" }
//	}
//
// Node names starting with an underscore are private to the file. Every other
// node is exported by the resulting canvas under its name.
package scenefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/phanxgames/animgraph"
)

// Scene is a parsed scene file.
type Scene struct {
	Canvas *animgraph.Canvas
	// Nodes holds every node block by name, private ones included.
	Nodes map[string]animgraph.Node
	// Order lists node names in file order.
	Order []string
}

// Node returns the node named name.
func (s *Scene) Node(name string) (animgraph.Node, bool) {
	n, ok := s.Nodes[name]
	return n, ok
}

// Load reads and parses the scene file at path.
func Load(path string) (*Scene, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenefile: %w", err)
	}
	return Parse(src, path)
}

// nodeBlock is a node block after the first pass.
type nodeBlock struct {
	name  string
	node  animgraph.Node
	block *hclsyntax.Block
}

// Parse parses a scene description. Errors are returned as hcl.Diagnostics
// pointing at the offending source.
func Parse(src []byte, filename string) (*Scene, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, diags
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("scenefile: %s is not native HCL syntax", filename)
	}

	name := strings.TrimSuffix(filepath.Base(filename), ".hcl")
	for attrName, attr := range body.Attributes {
		if attrName != "name" {
			diags = diags.Append(errorAt(attr.SrcRange, "Unsupported attribute", fmt.Sprintf("%q is not a scene attribute.", attrName)))
			continue
		}
		s, d := stringAttr(body.Attributes, "name", true)
		diags = diags.Extend(d)
		name = s
	}

	scene := &Scene{Canvas: animgraph.NewCanvas(name), Nodes: map[string]animgraph.Node{}}
	var blocks []nodeBlock
	for _, block := range body.Blocks {
		if block.Type != "node" {
			continue
		}
		if len(block.Labels) != 1 {
			diags = diags.Append(errorAt(block.DefRange(), "Invalid node block", "A node block needs exactly one label, its name."))
			continue
		}
		nodeName := block.Labels[0]
		if _, dup := scene.Nodes[nodeName]; dup {
			diags = diags.Append(errorAt(block.LabelRanges[0], "Duplicate node", fmt.Sprintf("Node %q is defined twice.", nodeName)))
			continue
		}
		n, d := createNode(block)
		diags = diags.Extend(d)
		if n == nil {
			continue
		}
		scene.Nodes[nodeName] = n
		scene.Order = append(scene.Order, nodeName)
		blocks = append(blocks, nodeBlock{name: nodeName, node: n, block: block})
	}
	if diags.HasErrors() {
		return nil, diags
	}

	for _, nb := range blocks {
		diags = diags.Extend(linkNode(scene, nb))
	}
	for _, nodeName := range scene.Order {
		if strings.HasPrefix(nodeName, "_") {
			continue
		}
		if err := scene.Canvas.Export(nodeName, scene.Nodes[nodeName]); err != nil {
			diags = diags.Append(&hcl.Diagnostic{Severity: hcl.DiagError, Summary: "Export failed", Detail: err.Error()})
		}
	}
	for _, block := range body.Blocks {
		switch block.Type {
		case "node":
		case "layer":
			diags = diags.Extend(readLayer(scene, block))
		default:
			diags = diags.Append(errorAt(block.TypeRange, "Unsupported block type", fmt.Sprintf("Blocks of type %q are not expected here.", block.Type)))
		}
	}
	if diags.HasErrors() {
		return nil, diags
	}
	return scene, nil
}

func errorAt(rng hcl.Range, summary, detail string) *hcl.Diagnostic {
	return &hcl.Diagnostic{Severity: hcl.DiagError, Summary: summary, Detail: detail, Subject: rng.Ptr()}
}

// attrValue evaluates a literal attribute. A missing optional attribute
// returns cty.NilVal.
func attrValue(attrs hclsyntax.Attributes, name string, required bool) (cty.Value, *hclsyntax.Attribute, hcl.Diagnostics) {
	attr, ok := attrs[name]
	if !ok {
		if required {
			return cty.NilVal, nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Missing required attribute",
				Detail:   fmt.Sprintf("The attribute %q is required.", name),
			}}
		}
		return cty.NilVal, nil, nil
	}
	v, diags := attr.Expr.Value(nil)
	return v, attr, diags
}

func stringAttr(attrs hclsyntax.Attributes, name string, required bool) (string, hcl.Diagnostics) {
	v, attr, diags := attrValue(attrs, name, required)
	if diags.HasErrors() || attr == nil {
		return "", diags
	}
	s, err := decodeString(v)
	if err != nil {
		return "", diags.Append(errorAt(attr.Expr.Range(), "Invalid "+name, err.Error()))
	}
	return s, diags
}

func typeAttr(attrs hclsyntax.Attributes, name string, required bool) (*animgraph.Type, hcl.Diagnostics) {
	s, diags := stringAttr(attrs, name, required)
	if diags.HasErrors() || s == "" {
		return nil, diags
	}
	typ, ok := animgraph.TypeByName(s)
	if !ok {
		return nil, diags.Append(errorAt(attrs[name].Expr.Range(), "Unknown type", fmt.Sprintf("%q is not a value type.", s)))
	}
	return typ, diags
}

// refsAttr reads an object of node names such as links or params.
func refsAttr(attrs hclsyntax.Attributes, name string) (map[string]string, hcl.Diagnostics) {
	v, attr, diags := attrValue(attrs, name, false)
	if diags.HasErrors() || attr == nil {
		return nil, diags
	}
	out := map[string]string{}
	err := decodeObject(v, fieldsFor(v, func(key string) func(cty.Value) error {
		return func(e cty.Value) (err error) {
			out[key], err = decodeString(e)
			return
		}
	}))
	if err != nil {
		return nil, diags.Append(errorAt(attr.Expr.Range(), "Invalid "+name, err.Error()))
	}
	return out, diags
}

// fieldsFor accepts every attribute of an object value.
func fieldsFor(v cty.Value, fn func(key string) func(cty.Value) error) fields {
	fs := fields{}
	if v.IsNull() || !(v.Type().IsObjectType() || v.Type().IsMapType()) {
		return fs
	}
	for key := range v.AsValueMap() {
		fs[key] = fn(key)
	}
	return fs
}

// --- first pass: create ---

func createNode(block *hclsyntax.Block) (animgraph.Node, hcl.Diagnostics) {
	attrs := block.Body.Attributes
	variant, diags := stringAttr(attrs, "variant", true)
	if diags.HasErrors() {
		return nil, diags
	}
	typ, d := typeAttr(attrs, "type", variant != "dynamic_list")
	diags = diags.Extend(d)
	if diags.HasErrors() {
		return nil, diags
	}
	def := block.DefRange()

	switch variant {
	case "const":
		v, attr, d := attrValue(attrs, "value", true)
		diags = diags.Extend(d)
		if diags.HasErrors() {
			return nil, diags
		}
		val, err := decodeValue(typ, v)
		if err != nil {
			return nil, diags.Append(errorAt(attr.Expr.Range(), "Invalid value", err.Error()))
		}
		n, err := animgraph.NewConst(val)
		if err != nil {
			return nil, diags.Append(errorAt(def, "Invalid constant", err.Error()))
		}
		return n, diags

	case "animated":
		a, err := animgraph.NewAnimated(typ)
		if err != nil {
			return nil, diags.Append(errorAt(def, "Invalid animated node", err.Error()))
		}
		for _, wb := range block.Body.Blocks {
			if wb.Type != "waypoint" {
				diags = diags.Append(errorAt(wb.TypeRange, "Unsupported block type", "Animated nodes only hold waypoint blocks."))
				continue
			}
			wp, d := readWaypoint(typ, wb)
			diags = diags.Extend(d)
			if d.HasErrors() {
				continue
			}
			if _, err := a.Add(wp); err != nil {
				diags = diags.Append(errorAt(wb.DefRange(), "Invalid waypoint", err.Error()))
			}
		}
		return a, diags

	case "dynamic_list":
		elem, d := typeAttr(attrs, "element", false)
		diags = diags.Extend(d)
		return animgraph.NewDynamicList(elem), diags
	}

	n, err := animgraph.Create(variant, typ)
	if err != nil {
		return nil, diags.Append(errorAt(def, "Cannot create node", err.Error()))
	}
	return n, diags
}

func readWaypoint(typ *animgraph.Type, block *hclsyntax.Block) (animgraph.Waypoint, hcl.Diagnostics) {
	var wp animgraph.Waypoint
	attrs := block.Body.Attributes
	var diags hcl.Diagnostics
	for name, attr := range attrs {
		v, d := attr.Expr.Value(nil)
		diags = diags.Extend(d)
		if d.HasErrors() {
			continue
		}
		var err error
		switch name {
		case "time":
			var f float64
			f, err = decodeNumber(v)
			wp.Time = animgraph.Time(f)
		case "value":
			wp.Value, err = decodeValue(typ, v)
		case "before", "after":
			var s string
			if s, err = decodeString(v); err == nil {
				var mode animgraph.Interpolation
				if mode, err = animgraph.ParseInterpolation(s); name == "before" {
					wp.Before = mode
				} else {
					wp.After = mode
				}
			}
		case "tension":
			wp.Tension, err = decodeNumber(v)
		case "continuity":
			wp.Continuity, err = decodeNumber(v)
		case "bias":
			wp.Bias, err = decodeNumber(v)
		default:
			err = fmt.Errorf("%q is not a waypoint attribute", name)
		}
		if err != nil {
			diags = diags.Append(errorAt(attr.SrcRange, "Invalid waypoint", err.Error()))
		}
	}
	if _, ok := attrs["time"]; !ok {
		diags = diags.Append(errorAt(block.DefRange(), "Missing required attribute", `A waypoint needs "time".`))
	}
	if _, ok := attrs["value"]; !ok {
		diags = diags.Append(errorAt(block.DefRange(), "Missing required attribute", `A waypoint needs "value".`))
	}
	return wp, diags
}

// --- second pass: link ---

func resolve(scene *Scene, ref string, rng hcl.Range) (animgraph.Node, *hcl.Diagnostic) {
	n, ok := scene.Nodes[ref]
	if !ok {
		return nil, errorAt(rng, "Unknown node", fmt.Sprintf("No node named %q.", ref))
	}
	return n, nil
}

func linkNode(scene *Scene, nb nodeBlock) hcl.Diagnostics {
	attrs := nb.block.Body.Attributes
	links, diags := refsAttr(attrs, "links")
	if diags.HasErrors() {
		return diags
	}
	if len(links) > 0 {
		l, ok := nb.node.(animgraph.Linkable)
		rng := attrs["links"].Expr.Range()
		if !ok {
			return diags.Append(errorAt(rng, "Unexpected links", fmt.Sprintf("Node %q has no links.", nb.name)))
		}
		for _, slot := range sortedKeys(links) {
			child, d := resolve(scene, links[slot], rng)
			if d != nil {
				diags = diags.Append(d)
				continue
			}
			if _, err := animgraph.SetLinkByName(l, slot, child); err != nil {
				diags = diags.Append(errorAt(rng, "Invalid link", err.Error()))
			}
		}
	}

	list, isList := nb.node.(*animgraph.DynamicList)
	for _, eb := range nb.block.Body.Blocks {
		if eb.Type != "entry" {
			continue
		}
		if !isList {
			diags = diags.Append(errorAt(eb.TypeRange, "Unexpected entry", "Only dynamic_list nodes hold entry blocks."))
			continue
		}
		diags = diags.Extend(readEntry(scene, list, eb))
	}
	return diags
}

func readEntry(scene *Scene, list *animgraph.DynamicList, block *hclsyntax.Block) hcl.Diagnostics {
	ref, diags := stringAttr(block.Body.Attributes, "value", true)
	if diags.HasErrors() {
		return diags
	}
	child, d := resolve(scene, ref, block.Body.Attributes["value"].Expr.Range())
	if d != nil {
		return diags.Append(d)
	}
	entry, err := list.Append(child)
	if err != nil {
		return diags.Append(errorAt(block.DefRange(), "Invalid entry", err.Error()))
	}
	for _, ab := range block.Body.Blocks {
		if ab.Type != "activepoint" {
			diags = diags.Append(errorAt(ab.TypeRange, "Unsupported block type", "Entries only hold activepoint blocks."))
			continue
		}
		tv, _, d := attrValue(ab.Body.Attributes, "time", true)
		diags = diags.Extend(d)
		ov, _, d := attrValue(ab.Body.Attributes, "on", true)
		diags = diags.Extend(d)
		if diags.HasErrors() {
			continue
		}
		t, err := decodeNumber(tv)
		if err != nil {
			diags = diags.Append(errorAt(ab.DefRange(), "Invalid activepoint", err.Error()))
			continue
		}
		on, err := decodeBool(ov)
		if err != nil {
			diags = diags.Append(errorAt(ab.DefRange(), "Invalid activepoint", err.Error()))
			continue
		}
		entry.AddActivepoint(animgraph.Time(t), on)
	}
	return diags
}

func readLayer(scene *Scene, block *hclsyntax.Block) hcl.Diagnostics {
	if len(block.Labels) != 1 {
		return hcl.Diagnostics{errorAt(block.DefRange(), "Invalid layer block", "A layer block needs exactly one label, its name.")}
	}
	layer, err := scene.Canvas.AddLayer(block.Labels[0])
	if err != nil {
		return hcl.Diagnostics{errorAt(block.LabelRanges[0], "Duplicate layer", err.Error())}
	}
	params, diags := refsAttr(block.Body.Attributes, "params")
	if diags.HasErrors() {
		return diags
	}
	for _, name := range sortedKeys(params) {
		rng := block.Body.Attributes["params"].Expr.Range()
		n, d := resolve(scene, params[name], rng)
		if d != nil {
			diags = diags.Append(d)
			continue
		}
		if err := layer.SetParam(name, n); err != nil {
			diags = diags.Append(errorAt(rng, "Invalid parameter", err.Error()))
		}
	}
	return diags
}
