package graph

// Listener receives runtime-change notifications. Implementations must be
// re-entrant with respect to the structural lock: the scheduler's worker
// only ever sets an atomic flag from these callbacks, never re-enters the
// runtime.
type Listener interface {
	// OnElementChange fires when an element is added or its flags change
	// (Runtime.AddElement, Runtime.SetFlags).
	OnElementChange(e *Element)
	// OnConnectorChange fires when a port-to-port connection is made
	// (Runtime.Connect).
	OnConnectorChange(src, dst *Port)
	// OnURIConnectorChange fires for remote (URI-addressed) connector
	// changes. The scheduler observes but ignores these.
	OnURIConnectorChange()
}
