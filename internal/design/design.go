// Package design binds the winding generator to a KiCad board file: pad
// lookup, net resolution, and writing tracks and vias back into the board.
package design

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/lincoil/pkg/coil"
	"github.com/OpenTraceLab/lincoil/pkg/kicad/pcb"
)

// Board adapts a pcb.Document to the generator's ports.
//
// Pad and net lookups read a snapshot taken when the board was opened and
// are safe for concurrent use. Emitting and clearing mutate the document
// and must not run concurrently with anything else.
type Board struct {
	doc  *pcb.Document
	pads *pcb.Board
}

// Open reads a board file.
func Open(path string) (*Board, error) {
	doc, err := pcb.OpenDocument(path)
	if err != nil {
		return nil, err
	}
	return New(doc), nil
}

// New wraps an already parsed document.
func New(doc *pcb.Document) *Board {
	return &Board{doc: doc, pads: doc.Board()}
}

// Document returns the wrapped document.
func (b *Board) Document() *pcb.Document {
	return b.doc
}

// Design returns the board as a complete coil.Design.
func (b *Board) Design() coil.Design {
	return coil.Design{Pads: b, Nets: b, Sink: b, Clearer: b, Layers: b}
}

// HasCopperLayer implements coil.LayerStack.
func (b *Board) HasCopperLayer(layer coil.LayerID) bool {
	return b.doc.HasCopperLayer(string(layer))
}

// PadPosition implements coil.PadLocator.
func (b *Board) PadPosition(ref coil.PadRef) (coil.Point, error) {
	pos, err := b.pads.PadPosition(ref.Component, ref.Pad)
	if err != nil {
		if errors.Is(err, pcb.ErrFootprintNotFound) || errors.Is(err, pcb.ErrPadNotFound) {
			return coil.Point{}, fmt.Errorf("%w: %v", coil.ErrPadNotFound, err)
		}
		return coil.Point{}, err
	}
	return coil.Pt(coil.MM(pos.X), coil.MM(pos.Y)), nil
}

// ResolveNet implements coil.NetResolver.
func (b *Board) ResolveNet(name string) (coil.NetID, error) {
	code, err := b.doc.NetCode(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", coil.ErrNetNotFound, name)
	}
	return coil.NetID(code), nil
}

// EmitTrack implements coil.Sink.
func (b *Board) EmitTrack(t coil.TrackSegment) error {
	err := b.doc.AddSegment(pcb.NewSegment{
		Start: point(t.Start),
		End:   point(t.End),
		Width: int64(t.Width),
		Layer: string(t.Layer),
		Net:   int(t.Net),
	})
	if err != nil {
		return fmt.Errorf("%w: track %s-%s: %v", coil.ErrDesignStore, t.Start, t.End, err)
	}
	return nil
}

// EmitVia implements coil.Sink.
func (b *Board) EmitVia(v coil.Via) error {
	err := b.doc.AddVia(pcb.NewVia{
		At:       point(v.Position),
		Diameter: int64(v.Diameter),
		Drill:    int64(v.Drill),
		Layers:   [2]string{string(v.From), string(v.To)},
		Net:      int(v.Net),
	})
	if err != nil {
		return fmt.Errorf("%w: via at %s: %v", coil.ErrDesignStore, v.Position, err)
	}
	return nil
}

// Clear implements coil.Clearer by removing tracks and vias on the
// filter's nets. Running it twice removes nothing the second time.
func (b *Board) Clear(f coil.Filter) error {
	b.doc.RemoveNetGeometry(f.Nets)
	return nil
}

// Save writes the board to path.
func (b *Board) Save(path string) error {
	if err := b.doc.Save(path); err != nil {
		return fmt.Errorf("%w: %v", coil.ErrDesignStore, err)
	}
	return nil
}

func point(p coil.Point) pcb.PointNM {
	return pcb.PointNM{X: int64(p.X), Y: int64(p.Y)}
}
