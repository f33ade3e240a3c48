package animgraph

import (
	"fmt"
	"sync/atomic"
)

// Variant is a registered kind of node.
type Variant struct {
	// Name is the registry key, e.g. "blinerevtangent".
	Name      string
	LocalName string
	// CheckType reports whether the variant can ever produce typ.
	CheckType func(typ *Type) bool
	// Vocab returns the slots for a node of type typ. Nil for variants
	// without links.
	Vocab func(typ *Type) Vocab
	// New creates a node of type typ with default children.
	New func(typ *Type) (Node, error)
	// Wrap builds a node around an existing one, the "convert" gesture.
	// Optional.
	Wrap func(x Node) (Node, error)
}

type variantEntry struct {
	Variant
	vocabs map[*Type]Vocab
}

var (
	registry       = map[string]*variantEntry{}
	registryOrder  []string
	registryFrozen atomic.Bool
)

func init() {
	Register(constVariant)
	Register(animatedVariant)
	Register(compositeVariant)
	Register(revTangentVariant)
	Register(referenceVariant)
	Register(scaleVariant)
	Register(addVariant)
	Register(switchVariant)
	Register(timeLoopVariant)
	Register(dynamicListVariant)
}

// Register adds a variant to the process-wide registry. It must run during
// program initialization: the registry is read-only once any lookup happens,
// and registering afterwards panics.
func Register(v Variant) {
	if registryFrozen.Load() {
		panic(fmt.Sprintf("animgraph: Register(%q) after the variant registry was used", v.Name))
	}
	if v.Name == "" || v.CheckType == nil || v.New == nil {
		panic("animgraph: Register needs Name, CheckType and New")
	}
	if _, dup := registry[v.Name]; dup {
		panic(fmt.Sprintf("animgraph: variant %q registered twice", v.Name))
	}
	e := &variantEntry{Variant: v, vocabs: map[*Type]Vocab{}}
	if v.Vocab != nil {
		for _, t := range types {
			if v.CheckType(t) {
				e.vocabs[t] = v.Vocab(t)
			}
		}
	}
	registry[v.Name] = e
	registryOrder = append(registryOrder, v.Name)
}

func lookupVariant(name string) (*variantEntry, error) {
	registryFrozen.Store(true)
	e, ok := registry[name]
	if !ok {
		return nil, &UnknownVariantError{Name: name}
	}
	return e, nil
}

// LookupVariant returns the registered variant named name.
func LookupVariant(name string) (Variant, bool) {
	e, err := lookupVariant(name)
	if err != nil {
		return Variant{}, false
	}
	return e.Variant, true
}

// Variants returns the registered variant names in registration order.
func Variants() []string {
	registryFrozen.Store(true)
	out := make([]string, len(registryOrder))
	copy(out, registryOrder)
	return out
}

// CheckType reports whether variant name can produce typ.
func CheckType(name string, typ *Type) (bool, error) {
	e, err := lookupVariant(name)
	if err != nil {
		return false, err
	}
	return e.CheckType(typ), nil
}

// VocabOf returns the slots of variant name for output type typ. The result
// is computed once at registration and shared; it MUST NOT be mutated.
func VocabOf(name string, typ *Type) (Vocab, error) {
	e, err := lookupVariant(name)
	if err != nil {
		return nil, err
	}
	if !e.CheckType(typ) {
		return nil, &TypeError{Op: "vocab " + name, Actual: typ}
	}
	return e.vocabs[typ], nil
}

// registeredVocab is used by constructors; the variant and type are known good.
func registeredVocab(name string, typ *Type) Vocab {
	return registry[name].vocabs[typ]
}

// Create builds a node of variant name producing typ. Children, if given,
// fill the slots in order; a nil child keeps the slot's default.
func Create(name string, typ *Type, children ...Node) (Node, error) {
	e, err := lookupVariant(name)
	if err != nil {
		return nil, err
	}
	if !e.CheckType(typ) {
		return nil, &TypeError{Op: "create " + name, Actual: typ}
	}
	n, err := e.New(typ)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return n, nil
	}
	if dl, ok := n.(*DynamicList); ok {
		for _, c := range children {
			if _, err := dl.Append(c); err != nil {
				dl.UnlinkAll()
				return nil, err
			}
		}
		return dl, nil
	}
	l, ok := n.(Linkable)
	if !ok || len(children) > l.LinkCount() {
		count := 0
		if ok {
			count = l.LinkCount()
		}
		return nil, linkIndexError(labelOf(n), len(children)-1, count)
	}
	for i, c := range children {
		if c == nil {
			continue
		}
		if _, err := l.SetLink(i, c); err != nil {
			l.UnlinkAll()
			return nil, err
		}
	}
	return n, nil
}

// Wrap builds a node of variant name around x, as when the user converts a
// parameter to another variant.
func Wrap(name string, x Node) (Node, error) {
	e, err := lookupVariant(name)
	if err != nil {
		return nil, err
	}
	if e.Wrap == nil {
		return nil, fmt.Errorf("animgraph: variant %q cannot wrap an existing node", name)
	}
	if x == nil {
		return nil, &TypeError{Op: "wrap " + name}
	}
	return e.Wrap(x)
}

func anyType(t *Type) bool { return t != nil }

func typeIn(set ...*Type) func(*Type) bool {
	return func(t *Type) bool {
		for _, s := range set {
			if s == t {
				return true
			}
		}
		return false
	}
}
