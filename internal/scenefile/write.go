package scenefile

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/phanxgames/animgraph"
)

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

// namer assigns file names to nodes. Exported nodes keep their export ID;
// others get a private name built from their variant and ID.
type namer struct {
	names map[animgraph.Node]string
	order []animgraph.Node
}

func (nm *namer) add(n animgraph.Node, name string) {
	if _, ok := nm.names[n]; ok {
		return
	}
	nm.names[n] = name
	nm.order = append(nm.order, n)
}

// collect names root and everything below it.
func (nm *namer) collect(root animgraph.Node) {
	animgraph.Walk(root, func(n animgraph.Node, _ int) bool {
		nm.add(n, fmt.Sprintf("_%s%d", n.VariantName(), n.ID()))
		return true
	})
}

// Marshal renders c as a scene file.
func Marshal(c *animgraph.Canvas) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders c as a scene file. Every node reachable from an exported
// value or a layer parameter is written, shared nodes once.
func Write(w io.Writer, c *animgraph.Canvas) error {
	nm := &namer{names: map[animgraph.Node]string{}}
	for _, id := range c.Exported() {
		n, _ := c.Lookup(id)
		nm.add(n, id)
	}
	for _, id := range c.Exported() {
		n, _ := c.Lookup(id)
		nm.collect(n)
	}
	for _, l := range c.Layers() {
		for _, name := range l.ParamNames() {
			n, _ := l.Param(name)
			nm.collect(n)
		}
	}

	f := hclwrite.NewEmptyFile()
	body := f.Body()
	body.SetAttributeValue("name", cty.StringVal(c.Name))
	for _, n := range nm.order {
		body.AppendNewline()
		if err := writeNode(body.AppendNewBlock("node", []string{nm.names[n]}).Body(), n, nm); err != nil {
			return err
		}
	}
	for _, l := range c.Layers() {
		body.AppendNewline()
		params := map[string]cty.Value{}
		for _, name := range l.ParamNames() {
			n, _ := l.Param(name)
			params[name] = cty.StringVal(nm.names[n])
		}
		lb := body.AppendNewBlock("layer", []string{l.Name}).Body()
		if len(params) > 0 {
			lb.SetAttributeValue("params", cty.ObjectVal(params))
		}
	}
	_, err := w.Write(f.Bytes())
	return err
}

func writeNode(b *hclwrite.Body, n animgraph.Node, nm *namer) error {
	b.SetAttributeValue("variant", cty.StringVal(n.VariantName()))
	if _, isList := n.(*animgraph.DynamicList); !isList {
		b.SetAttributeValue("type", cty.StringVal(n.Type().Name()))
	}

	switch x := n.(type) {
	case *animgraph.ConstNode:
		v, err := encodeValue(x.Value())
		if err != nil {
			return fmt.Errorf("scenefile: node %q: %w", nm.names[n], err)
		}
		b.SetAttributeValue("value", v)

	case *animgraph.AnimatedNode:
		for _, wp := range x.Waypoints() {
			v, err := encodeValue(wp.Value)
			if err != nil {
				return fmt.Errorf("scenefile: node %q: %w", nm.names[n], err)
			}
			wb := b.AppendNewBlock("waypoint", nil).Body()
			wb.SetAttributeValue("time", cty.NumberFloatVal(float64(wp.Time)))
			wb.SetAttributeValue("value", v)
			if wp.Before != animgraph.InterpolationClamped {
				wb.SetAttributeValue("before", cty.StringVal(wp.Before.String()))
			}
			if wp.After != animgraph.InterpolationClamped {
				wb.SetAttributeValue("after", cty.StringVal(wp.After.String()))
			}
			if wp.Tension != 0 || wp.Continuity != 0 || wp.Bias != 0 {
				wb.SetAttributeValue("tension", cty.NumberFloatVal(wp.Tension))
				wb.SetAttributeValue("continuity", cty.NumberFloatVal(wp.Continuity))
				wb.SetAttributeValue("bias", cty.NumberFloatVal(wp.Bias))
			}
		}

	case *animgraph.DynamicList:
		if elem := x.ElemType(); elem != nil {
			b.SetAttributeValue("element", cty.StringVal(elem.Name()))
		}
		for _, e := range x.Entries() {
			eb := b.AppendNewBlock("entry", nil).Body()
			eb.SetAttributeValue("value", cty.StringVal(nm.names[e.Value()]))
			for _, ap := range e.Activepoints() {
				ab := eb.AppendNewBlock("activepoint", nil).Body()
				ab.SetAttributeValue("time", cty.NumberFloatVal(float64(ap.Time)))
				ab.SetAttributeValue("on", cty.BoolVal(ap.On))
			}
		}

	case animgraph.Linkable:
		links := map[string]cty.Value{}
		vocab := x.Vocab()
		for i := 0; i < x.LinkCount(); i++ {
			if c := x.Link(i); c != nil {
				links[vocab[i].Name] = cty.StringVal(nm.names[c])
			}
		}
		if len(links) > 0 {
			b.SetAttributeValue("links", cty.ObjectVal(links))
		}

	default:
		return fmt.Errorf("scenefile: node %q: variant %q cannot be written", nm.names[n], n.VariantName())
	}
	return nil
}
