package coil

// Kind classifies an emitted item by the part of the winding it belongs to.
type Kind int

const (
	KindUShape Kind = iota
	KindBridge
	KindStartLine
	KindEndLine
	KindStub
	KindVia
	KindStubVia
)

var kindNames = [...]string{
	KindUShape:    "u-shape",
	KindBridge:    "bridge",
	KindStartLine: "start-line",
	KindEndLine:   "end-line",
	KindStub:      "stub",
	KindVia:       "via",
	KindStubVia:   "stub-via",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// IsVia reports whether items of this kind carry a Via.
func (k Kind) IsVia() bool {
	return k == KindVia || k == KindStubVia
}

// Emission is one generated track or via, tagged with where it came from.
type Emission struct {
	Kind    Kind
	Phase   string
	Period  int
	Track   int
	Segment TrackSegment
	Via     Via
}

// Buffer collects one phase's emissions so a failed phase can be dropped
// without leaving partial geometry behind.
type Buffer struct {
	phase string
	items []Emission
}

// NewBuffer creates an empty buffer for the named phase.
func NewBuffer(phase string) *Buffer {
	return &Buffer{phase: phase}
}

func (b *Buffer) addTrack(kind Kind, period, track int, seg TrackSegment) error {
	if err := seg.Validate(); err != nil {
		return err
	}
	b.items = append(b.items, Emission{Kind: kind, Phase: b.phase, Period: period, Track: track, Segment: seg})
	return nil
}

func (b *Buffer) addVia(kind Kind, period, track int, via Via) error {
	if err := via.Validate(); err != nil {
		return err
	}
	b.items = append(b.items, Emission{Kind: kind, Phase: b.phase, Period: period, Track: track, Via: via})
	return nil
}

// Items returns the emissions in order. The slice must not be modified.
func (b *Buffer) Items() []Emission {
	return b.items
}

// Len returns the number of emissions.
func (b *Buffer) Len() int {
	return len(b.items)
}

// Count returns how many emissions have the given kind.
func (b *Buffer) Count(kind Kind) int {
	n := 0
	for _, it := range b.items {
		if it.Kind == kind {
			n++
		}
	}
	return n
}

// Totals returns the number of tracks and vias in the buffer.
func (b *Buffer) Totals() (tracks, vias int) {
	for _, it := range b.items {
		if it.Kind.IsVia() {
			vias++
		} else {
			tracks++
		}
	}
	return tracks, vias
}

// Flush sends every emission to sink in order and stops at the first error.
func (b *Buffer) Flush(sink Sink) error {
	for _, it := range b.items {
		var err error
		if it.Kind.IsVia() {
			err = sink.EmitVia(it.Via)
		} else {
			err = sink.EmitTrack(it.Segment)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
