package group

// Target is one entry of a selection: either a single element or a group of
// targets. Groups may nest.
type Target[E comparable] struct {
	elem     E
	children []Target[E]
	isGroup  bool
}

// Elem returns a Target for a single element.
func Elem[E comparable](e E) Target[E] {
	return Target[E]{elem: e}
}

// Nest returns a group Target holding children in order.
func Nest[E comparable](children ...Target[E]) Target[E] {
	return Target[E]{children: children, isGroup: true}
}

// Elems wraps each element in its own single-element Target.
func Elems[E comparable](es ...E) []Target[E] {
	out := make([]Target[E], len(es))
	for i, e := range es {
		out[i] = Elem(e)
	}
	return out
}

// NestElems returns a group Target whose children are the given elements.
func NestElems[E comparable](es ...E) Target[E] {
	return Nest(Elems(es...)...)
}

// IsGroup reports whether t is a group rather than a single element.
func (t Target[E]) IsGroup() bool {
	return t.isGroup
}

// Element returns the element of a single-element Target. For groups it
// returns the zero value.
func (t Target[E]) Element() E {
	return t.elem
}

// Children returns the direct children of a group Target. The returned slice
// MUST NOT be mutated by the caller.
func (t Target[E]) Children() []Target[E] {
	return t.children
}

// Flatten returns every element reachable from t, depth first.
func (t Target[E]) Flatten() []E {
	return t.appendFlat(nil)
}

func (t Target[E]) appendFlat(buf []E) []E {
	if !t.isGroup {
		return append(buf, t.elem)
	}
	for _, c := range t.children {
		buf = c.appendFlat(buf)
	}
	return buf
}

// Flatten deep-flattens a target list into its elements.
func Flatten[E comparable](targets []Target[E]) []E {
	var out []E
	for _, t := range targets {
		out = t.appendFlat(out)
	}
	return out
}

// TargetList is the result of a selection step.
type TargetList[E comparable] struct {
	targets []Target[E]
}

// Targets returns the selected targets in tree order.
func (l TargetList[E]) Targets() []Target[E] {
	return l.targets
}

// Flatten returns the selected elements, groups expanded.
func (l TargetList[E]) Flatten() []E {
	return Flatten(l.targets)
}

// Len returns the number of top-level targets.
func (l TargetList[E]) Len() int {
	return len(l.targets)
}
