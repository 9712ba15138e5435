package coil

// PadLocator resolves a pad to its absolute board position. Implementations
// return an error wrapping ErrPadNotFound when the component or pad is
// missing.
type PadLocator interface {
	PadPosition(ref PadRef) (Point, error)
}

// NetResolver maps a net name to its code. Implementations return an error
// wrapping ErrNetNotFound when the net does not exist.
type NetResolver interface {
	ResolveNet(name string) (NetID, error)
}

// Sink receives emitted geometry in order. Errors should wrap
// ErrDesignStore; they are returned to the caller unmodified.
type Sink interface {
	EmitTrack(TrackSegment) error
	EmitVia(Via) error
}

// LayerStack reports which copper layers a design provides.
type LayerStack interface {
	HasCopperLayer(LayerID) bool
}

// Filter selects previously generated geometry for removal.
type Filter struct {
	Nets []string
}

// Clearer removes geometry matching a filter. Clearing must be idempotent.
type Clearer interface {
	Clear(Filter) error
}

// Design bundles the collaborators a run needs. Clearer and Layers are
// optional; without Layers, a phase on a layer the design lacks only fails
// when its geometry reaches the Sink.
// When Options.Parallel is set, Pads and Nets must be safe for concurrent
// use; Sink and Clearer are only ever called from the caller's goroutine.
type Design struct {
	Pads    PadLocator
	Nets    NetResolver
	Sink    Sink
	Clearer Clearer
	Layers  LayerStack
}
