package coil

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// 80 mm stator, 8 poles, 4 periods, 10 tracks: P = 20 mm, pole = 10 mm,
// pitch = 1 mm, width = 0.8 mm.
func testParams() Params {
	return Params{
		Length:        80 * Millimeter,
		Height:        20 * Millimeter,
		PoleCount:     8,
		PeriodCount:   4,
		TracksPerPole: 10,
		PhaseCount:    3,
		Clearance:     MM(0.2),
		ViaDiameter:   MM(0.8),
		ViaDrill:      MM(0.4),
		Origin:        Pt(100*Millimeter, 50*Millimeter),
	}
}

func testGeometry(t *testing.T) *Geometry {
	t.Helper()
	geo, err := Resolve(testParams())
	require.NoError(t, err)
	return geo
}

func testPhases() []PhaseSpec {
	return []PhaseSpec{
		{Name: "A", From: BackCopper, To: InnerLayer(1), ShiftSign: -1, Net: "PHASE_A",
			StartPad: PadRef{"J1", "1"}, EndPad: PadRef{"J1", "2"}},
		{Name: "B", From: InnerLayer(2), To: InnerLayer(3), ShiftSign: 0, Net: "PHASE_B",
			StartPad: PadRef{"J1", "3"}, EndPad: PadRef{"J1", "4"}},
		{Name: "C", From: InnerLayer(4), To: InnerLayer(5), ShiftSign: 1, Net: "PHASE_C",
			StartPad: PadRef{"J1", "5"}, EndPad: PadRef{"J1", "6"}},
	}
}

type fakePads map[PadRef]Point

func (f fakePads) PadPosition(ref PadRef) (Point, error) {
	p, ok := f[ref]
	if !ok {
		return Point{}, fmt.Errorf("%w: %s", ErrPadNotFound, ref)
	}
	return p, nil
}

// connectorPads places J1 above the winding, clear of every track.
func connectorPads() fakePads {
	pads := fakePads{}
	for i := 1; i <= 6; i++ {
		pads[PadRef{"J1", fmt.Sprint(i)}] = Pt(90*Millimeter+Length(i)*2*Millimeter, 30*Millimeter)
	}
	return pads
}

type fakeNets map[string]NetID

func (f fakeNets) ResolveNet(name string) (NetID, error) {
	id, ok := f[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNetNotFound, name)
	}
	return id, nil
}

func phaseNets() fakeNets {
	return fakeNets{"PHASE_A": 1, "PHASE_B": 2, "PHASE_C": 3}
}

type countingClearer struct {
	mu      sync.Mutex
	filters []Filter
}

func (c *countingClearer) Clear(f Filter) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = append(c.filters, f)
	return nil
}

type failingSink struct {
	after int
	err   error
	n     int
}

func (s *failingSink) emit() error {
	s.n++
	if s.n > s.after {
		return s.err
	}
	return nil
}

func (s *failingSink) EmitTrack(TrackSegment) error { return s.emit() }
func (s *failingSink) EmitVia(Via) error            { return s.emit() }

type fakeLayers []LayerID

func (f fakeLayers) HasCopperLayer(l LayerID) bool {
	for _, have := range f {
		if have == l {
			return true
		}
	}
	return false
}

type countingNets struct {
	fakeNets
	mu    sync.Mutex
	calls int
}

func (c *countingNets) ResolveNet(name string) (NetID, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.fakeNets.ResolveNet(name)
}
