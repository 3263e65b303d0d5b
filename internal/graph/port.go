package graph

// Port is a single data-flow endpoint owned by an Aggregator. Connections
// are directed: Outgoing lists ports this port sends to, Incoming lists
// ports this port receives from.
type Port struct {
	Name  string
	Flags Flag
	owner *Aggregator

	Outgoing []*Port
	Incoming []*Port
}

// Owner returns the aggregator this port belongs to.
func (p *Port) Owner() *Aggregator { return p.owner }

// Connect creates a directed data-flow edge from src to dst: dst is
// appended to src's Outgoing and src to dst's Incoming.
func Connect(src, dst *Port) {
	src.Outgoing = append(src.Outgoing, dst)
	dst.Incoming = append(dst.Incoming, src)
}

// IsPureInput reports whether the port only ever receives data (accepts
// but never emits) — used by the ≥50% heuristic in trace.go.
func (p *Port) IsPureInput() bool {
	return p.Flags.Has(AcceptsData) && !p.Flags.Any(EmitsData)
}
