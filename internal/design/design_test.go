package design

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/lincoil/pkg/coil"
	"github.com/OpenTraceLab/lincoil/pkg/kicad/pcb"
)

const testBoard = `(kicad_pcb (version 20221018) (generator pcbnew)
	(layers (0 "F.Cu" signal) (1 "In1.Cu" signal) (2 "In2.Cu" signal) (3 "In3.Cu" signal)
		(4 "In4.Cu" signal) (5 "In5.Cu" signal) (31 "B.Cu" signal) (44 "Edge.Cuts" user))
	(net 0 "")
	(net 1 "PHASE_A")
	(net 2 "PHASE_B")
	(net 3 "PHASE_C")
	(footprint "Conn" (layer "F.Cu") (at 90 30)
		(property "Reference" "J1")
		(pad "1" thru_hole rect (at 0 0) (size 1.7 1.7) (drill 1) (layers "*.Cu") (net 1 "PHASE_A"))
		(pad "2" thru_hole oval (at 2.54 0) (size 1.7 1.7) (drill 1) (layers "*.Cu") (net 1 "PHASE_A"))
		(pad "3" thru_hole oval (at 5.08 0) (size 1.7 1.7) (drill 1) (layers "*.Cu") (net 2 "PHASE_B"))
		(pad "4" thru_hole oval (at 7.62 0) (size 1.7 1.7) (drill 1) (layers "*.Cu") (net 2 "PHASE_B"))
		(pad "5" thru_hole oval (at 10.16 0) (size 1.7 1.7) (drill 1) (layers "*.Cu") (net 3 "PHASE_C"))
		(pad "6" thru_hole oval (at 12.7 0) (size 1.7 1.7) (drill 1) (layers "*.Cu") (net 3 "PHASE_C")))
	(segment (start 0 0) (end 1 0) (width 0.2) (layer "F.Cu") (net 1) (tstamp 0b6c6a3e-8d0c-4a62-9d7c-2f5d2b8f61a1))
)`

func openTestBoard(t *testing.T) *Board {
	t.Helper()
	doc, err := pcb.ParseDocument(strings.NewReader(testBoard))
	require.NoError(t, err)
	return New(doc)
}

func motorPhases() []coil.PhaseSpec {
	pad := func(n string) coil.PadRef { return coil.PadRef{Component: "J1", Pad: n} }
	return []coil.PhaseSpec{
		{Name: "A", From: coil.BackCopper, To: coil.InnerLayer(1), ShiftSign: -1, Net: "PHASE_A", StartPad: pad("1"), EndPad: pad("2")},
		{Name: "B", From: coil.InnerLayer(2), To: coil.InnerLayer(3), Net: "PHASE_B", StartPad: pad("3"), EndPad: pad("4")},
		{Name: "C", From: coil.InnerLayer(4), To: coil.InnerLayer(5), ShiftSign: 1, Net: "PHASE_C", StartPad: pad("5"), EndPad: pad("6")},
	}
}

func motorGeometry(t *testing.T) *coil.Geometry {
	t.Helper()
	geo, err := coil.Resolve(coil.Params{
		Length:        80 * coil.Millimeter,
		Height:        20 * coil.Millimeter,
		PoleCount:     8,
		PeriodCount:   4,
		TracksPerPole: 10,
		PhaseCount:    3,
		Clearance:     coil.MM(0.2),
		ViaDiameter:   coil.MM(0.8),
		ViaDrill:      coil.MM(0.4),
		Origin:        coil.Pt(100*coil.Millimeter, 50*coil.Millimeter),
	})
	require.NoError(t, err)
	return geo
}

func TestPadPosition(t *testing.T) {
	b := openTestBoard(t)

	pos, err := b.PadPosition(coil.PadRef{Component: "J1", Pad: "3"})
	require.NoError(t, err)
	assert.Equal(t, coil.Pt(coil.MM(95.08), 30*coil.Millimeter), pos)

	_, err = b.PadPosition(coil.PadRef{Component: "J2", Pad: "1"})
	assert.ErrorIs(t, err, coil.ErrPadNotFound)

	_, err = b.PadPosition(coil.PadRef{Component: "J1", Pad: "9"})
	assert.ErrorIs(t, err, coil.ErrPadNotFound)
}

func TestResolveNet(t *testing.T) {
	b := openTestBoard(t)

	id, err := b.ResolveNet("PHASE_C")
	require.NoError(t, err)
	assert.Equal(t, coil.NetID(3), id)

	_, err = b.ResolveNet("PHASE_D")
	assert.ErrorIs(t, err, coil.ErrNetNotFound)
}

func TestEmitRejectsUnknownLayer(t *testing.T) {
	b := openTestBoard(t)

	err := b.EmitTrack(coil.TrackSegment{End: coil.Pt(1, 0), Width: 1, Layer: coil.InnerLayer(9), Net: 1})
	assert.ErrorIs(t, err, coil.ErrDesignStore)

	err = b.EmitVia(coil.Via{Drill: 1, Diameter: 2, From: coil.FrontCopper, To: coil.BackCopper, Net: 9})
	assert.ErrorIs(t, err, coil.ErrDesignStore)
}

func TestGenerateIntoBoard(t *testing.T) {
	b := openTestBoard(t)
	orch := coil.NewOrchestrator(motorGeometry(t), b.Design(), coil.Options{Clear: true})

	report, err := orch.Run(context.Background(), motorPhases())
	require.NoError(t, err)
	tracks, vias := report.Totals()

	board := b.Document().Board()
	assert.Len(t, board.Tracks, tracks, "the pre-existing PHASE_A segment should have been cleared")
	assert.Len(t, board.Vias, vias)

	var blind int
	for _, v := range board.Vias {
		if v.Type == "blind" {
			blind++
		}
	}
	// Only phase A's two connector vias, B.Cu to F.Cu, go through the board.
	assert.Equal(t, vias-2, blind)

	var buf bytes.Buffer
	_, err = b.Document().WriteTo(&buf)
	require.NoError(t, err)
	reparsed, err := pcb.Parse(&buf)
	require.NoError(t, err)
	assert.Len(t, reparsed.Tracks, tracks)
}

func TestRegenerateIsIdempotent(t *testing.T) {
	run := func(b *Board) string {
		orch := coil.NewOrchestrator(motorGeometry(t), b.Design(), coil.Options{Clear: true})
		_, err := orch.Run(context.Background(), motorPhases())
		require.NoError(t, err)
		var buf bytes.Buffer
		_, err = b.Document().WriteTo(&buf)
		require.NoError(t, err)
		return buf.String()
	}

	b := openTestBoard(t)
	first := run(b)
	second := run(b)
	assert.Equal(t, len(first), len(second))

	n1 := strings.Count(first, "(segment")
	n2 := strings.Count(second, "(segment")
	assert.Equal(t, n1, n2)
}

func TestGenerateRejectsLayerMissingFromBoard(t *testing.T) {
	b := openTestBoard(t)
	var before bytes.Buffer
	_, err := b.Document().WriteTo(&before)
	require.NoError(t, err)

	phases := motorPhases()
	phases[2].To = coil.InnerLayer(6)
	orch := coil.NewOrchestrator(motorGeometry(t), b.Design(), coil.Options{Clear: true})

	_, err = orch.Run(context.Background(), phases)
	assert.ErrorIs(t, err, coil.ErrConfiguration)
	assert.NotErrorIs(t, err, coil.ErrDesignStore)

	var after bytes.Buffer
	_, err = b.Document().WriteTo(&after)
	require.NoError(t, err)
	assert.Equal(t, before.String(), after.String(), "nothing may be cleared or written")
}

func TestHasCopperLayer(t *testing.T) {
	b := openTestBoard(t)
	assert.True(t, b.HasCopperLayer(coil.InnerLayer(5)))
	assert.False(t, b.HasCopperLayer(coil.InnerLayer(6)))
	assert.False(t, b.HasCopperLayer("Edge.Cuts"))
}
