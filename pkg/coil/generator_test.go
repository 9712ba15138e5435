package coil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bareSpec(from, to LayerID) PhaseSpec {
	return PhaseSpec{Name: "A", From: from, To: to, Net: "PHASE_A", SkipConnectors: true}
}

func trackItems(buf *Buffer, track int) []Emission {
	var out []Emission
	for _, it := range buf.Items() {
		if it.Track == track && it.Kind != KindStub && it.Kind != KindStubVia {
			out = append(out, it)
		}
	}
	return out
}

func TestForwardCounts(t *testing.T) {
	geo := testGeometry(t)
	gen := NewGenerator(geo, nil)
	buf := NewBuffer("A")

	ph := Phase{Spec: bareSpec(BackCopper, InnerLayer(1)), Net: 1, Origin: geo.Origin}
	require.NoError(t, gen.Forward(ph, buf))

	assert.Equal(t, 50*3, buf.Count(KindUShape))
	assert.Equal(t, 40, buf.Count(KindBridge))
	assert.Equal(t, 10, buf.Count(KindVia))
	assert.Zero(t, buf.Count(KindStub))
	assert.Zero(t, buf.Count(KindStubVia))

	for _, it := range buf.Items() {
		if it.Kind.IsVia() {
			assert.Equal(t, BackCopper, it.Via.From)
			assert.Equal(t, InnerLayer(1), it.Via.To)
			continue
		}
		assert.Equal(t, BackCopper, it.Segment.Layer)
		assert.Equal(t, NetID(1), it.Segment.Net)
	}
}

func TestForwardTrackIsContinuous(t *testing.T) {
	geo := testGeometry(t)
	gen := NewGenerator(geo, nil)
	buf := NewBuffer("A")
	ph := Phase{Spec: bareSpec(BackCopper, InnerLayer(1)), Net: 1, Origin: geo.Origin}
	require.NoError(t, gen.Forward(ph, buf))

	for track := 0; track < geo.TracksPerPole; track++ {
		items := trackItems(buf, track)
		require.NotEmpty(t, items)

		dx, dy := geo.Offsets(track)
		assert.Equal(t, Pt(geo.Origin.X+dx, geo.Origin.Y-dy), items[0].Segment.Start)

		for i := 1; i < len(items)-1; i++ {
			assert.Equal(t, items[i-1].Segment.End, items[i].Segment.Start, "track %d item %d", track, i)
		}
		last := items[len(items)-1]
		require.Equal(t, KindVia, last.Kind)
		assert.Equal(t, items[len(items)-2].Segment.End, last.Via.Position)
	}
}

func TestBackwardCounts(t *testing.T) {
	geo := testGeometry(t)
	gen := NewGenerator(geo, nil)
	buf := NewBuffer("A")
	ph := Phase{Spec: bareSpec(BackCopper, InnerLayer(1)), Net: 1, Origin: geo.Origin}
	require.NoError(t, gen.Backward(ph, buf))

	assert.Equal(t, 40*3, buf.Count(KindUShape))
	assert.Equal(t, 30, buf.Count(KindBridge))
	assert.Equal(t, 10, buf.Count(KindStartLine))
	assert.Equal(t, 10, buf.Count(KindEndLine))
	assert.Equal(t, 10, buf.Count(KindVia))

	for _, it := range buf.Items() {
		if !it.Kind.IsVia() {
			assert.Equal(t, InnerLayer(1), it.Segment.Layer)
		}
	}
}

func TestBackwardClosesOntoForwardVias(t *testing.T) {
	geo := testGeometry(t)
	gen := NewGenerator(geo, nil)
	ph := Phase{Spec: bareSpec(BackCopper, InnerLayer(1)), Net: 1, Origin: geo.PhaseOrigin(1)}

	fwd := NewBuffer("A")
	require.NoError(t, gen.Forward(ph, fwd))
	bwd := NewBuffer("A")
	require.NoError(t, gen.Backward(ph, bwd))

	for track := 0; track < geo.TracksPerPole; track++ {
		f := trackItems(fwd, track)
		b := trackItems(bwd, track)

		terminal := f[len(f)-1].Via.Position
		end := b[len(b)-1]
		require.Equal(t, KindEndLine, end.Kind)
		assert.Equal(t, terminal, end.Segment.End, "track %d", track)

		for i := 2; i < len(b); i++ {
			assert.Equal(t, b[i-1].Segment.End, b[i].Segment.Start, "track %d item %d", track, i)
		}
		require.Equal(t, KindVia, b[0].Kind)
		require.Equal(t, KindStartLine, b[1].Kind)
		assert.Equal(t, b[0].Via.Position, b[1].Segment.Start)
	}
}

func TestBackwardTurnsLandOnNextForwardTrack(t *testing.T) {
	geo := testGeometry(t)
	gen := NewGenerator(geo, nil)
	ph := Phase{Spec: bareSpec(BackCopper, InnerLayer(1)), Net: 1, Origin: geo.Origin}

	fwd := NewBuffer("A")
	require.NoError(t, gen.Forward(ph, fwd))
	bwd := NewBuffer("A")
	require.NoError(t, gen.Backward(ph, bwd))

	for track := 0; track < geo.TracksPerPole-1; track++ {
		turn := trackItems(bwd, track)[0].Via.Position
		lead := trackItems(fwd, track+1)[0].Segment

		assert.Equal(t, lead.Start.X, turn.X, "track %d", track)
		assert.Greater(t, turn.Y, lead.Start.Y)
		assert.Less(t, turn.Y, lead.End.Y)
	}

	outer := trackItems(bwd, geo.TracksPerPole-1)[0].Via.Position
	lo, _ := geo.Extent()
	assert.Equal(t, lo.X, outer.X)
}

func TestConnectorOnTopLayer(t *testing.T) {
	geo := testGeometry(t)
	pads := connectorPads()
	gen := NewGenerator(geo, pads)

	spec := PhaseSpec{Name: "A", From: FrontCopper, To: BackCopper, Net: "PHASE_A",
		StartPad: PadRef{"J1", "1"}, EndPad: PadRef{"J1", "2"}}
	ph := Phase{Spec: spec, Net: 1, Origin: geo.Origin}

	buf := NewBuffer("A")
	require.NoError(t, gen.Forward(ph, buf))
	assert.Equal(t, 2, buf.Count(KindStub))
	assert.Zero(t, buf.Count(KindStubVia))

	stubs := buf.Items()[:2]
	assert.Equal(t, pads[PadRef{"J1", "1"}], stubs[1].Segment.End)
	assert.Equal(t, stubs[0].Segment.End, stubs[1].Segment.Start)
	for _, s := range stubs {
		assert.Equal(t, geo.ConnectorWidth(), s.Segment.Width)
		assert.Equal(t, FrontCopper, s.Segment.Layer)
	}
}

func TestConnectorOffTopLayer(t *testing.T) {
	geo := testGeometry(t)
	pads := connectorPads()
	gen := NewGenerator(geo, pads)

	spec := testPhases()[1]
	ph := Phase{Spec: spec, Net: 2, Origin: geo.Origin}

	buf := NewBuffer("B")
	require.NoError(t, gen.Backward(ph, buf))
	assert.Equal(t, 2, buf.Count(KindStub))
	require.Equal(t, 1, buf.Count(KindStubVia))

	var stub []Emission
	for _, it := range buf.Items() {
		if it.Kind == KindStub || it.Kind == KindStubVia {
			stub = append(stub, it)
		}
	}
	require.Len(t, stub, 3)

	assert.Equal(t, spec.From, stub[0].Segment.Layer)
	via := stub[1].Via
	assert.Equal(t, spec.From, via.From)
	assert.Equal(t, FrontCopper, via.To)
	assert.Less(t, via.Diameter, geo.ViaDiameter)
	assert.Less(t, via.Drill, geo.ViaDrill)
	assert.Equal(t, stub[0].Segment.End, via.Position)
	assert.Equal(t, FrontCopper, stub[2].Segment.Layer)
	assert.Equal(t, pads[spec.EndPad], stub[2].Segment.End)
}

func TestConnectSkipsZeroLengthLegs(t *testing.T) {
	geo := testGeometry(t)
	from := Pt(10*Millimeter, 10*Millimeter)
	pads := fakePads{{"J1", "1"}: Pt(10*Millimeter, 2*Millimeter)}
	gen := NewGenerator(geo, pads)

	buf := NewBuffer("A")
	require.NoError(t, gen.Connect(from, PadRef{"J1", "1"}, FrontCopper, 1, buf))
	require.Equal(t, 1, buf.Len())
	assert.Equal(t, pads[PadRef{"J1", "1"}], buf.Items()[0].Segment.End)
}

func TestForwardMissingPad(t *testing.T) {
	geo := testGeometry(t)
	gen := NewGenerator(geo, fakePads{})
	ph := Phase{Spec: testPhases()[0], Net: 1, Origin: geo.Origin}

	err := gen.Forward(ph, NewBuffer("A"))
	assert.ErrorIs(t, err, ErrPadNotFound)
}

func TestGeneratorDeterministic(t *testing.T) {
	geo := testGeometry(t)
	gen := NewGenerator(geo, connectorPads())
	ph := Phase{Spec: testPhases()[2], Net: 3, Origin: geo.PhaseOrigin(1)}

	run := func() []Emission {
		buf := NewBuffer("C")
		require.NoError(t, gen.Forward(ph, buf))
		require.NoError(t, gen.Backward(ph, buf))
		return buf.Items()
	}
	assert.Equal(t, run(), run())
}
