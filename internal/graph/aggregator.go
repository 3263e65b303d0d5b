package graph

// Aggregator is an interface node: it groups child ports and, when flagged
// EdgeAggregator, summarizes a whole group of per-port edges for coarse
// traversal. A module's PeriodicTask annotation (if any) normally lives on
// the module element that is this aggregator's parent, not on the
// aggregator itself — the aggregator is the module's declared
// incoming/outgoing interface.
type Aggregator struct {
	*Element
	Ports []*Port
}

// NewAggregator creates an aggregator element with the given flags, always
// including Interface.
func NewAggregator(name string, flags Flag) *Aggregator {
	a := &Aggregator{Element: NewElement(name, flags|Interface)}
	a.register()
	return a
}

// NewPort creates a port owned by a, appends it to a.Ports and returns it.
func (a *Aggregator) NewPort(name string, flags Flag) *Port {
	p := &Port{Name: name, Flags: flags, owner: a}
	a.Ports = append(a.Ports, p)
	return p
}

// AggregatorOf returns the owning aggregator of a port — the "aggregator of
// a port" lookup the tracing algorithm relies on.
func AggregatorOf(p *Port) *Aggregator {
	return p.owner
}

// Siblings returns the aggregators sharing a's parent element, a excluded.
func (a *Aggregator) Siblings() []*Aggregator {
	if a.Parent() == nil {
		return nil
	}
	var out []*Aggregator
	for _, c := range a.Parent().Children() {
		if sib, ok := AsAggregator(c); ok && sib != a {
			out = append(out, sib)
		}
	}
	return out
}

// AsAggregator attempts to view a plain *Element as an *Aggregator. The
// in-process graph always constructs aggregators via NewAggregator, so
// aggregator-ness is tracked by a side annotation rather than a type
// assertion on *Element.
func AsAggregator(e *Element) (*Aggregator, bool) {
	v, ok := e.Annotation(aggregatorKind)
	if !ok {
		return nil, false
	}
	agg, ok := v.(*Aggregator)
	return agg, ok
}

const aggregatorKind = "graph.Aggregator"

// register stores a back-reference from the embedded Element to the
// Aggregator, so AsAggregator can recover it from tree walks that only see
// *Element. Called once by NewAggregator.
func (a *Aggregator) register() {
	a.SetAnnotation(aggregatorKind, a)
}
