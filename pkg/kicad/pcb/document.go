package pcb

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/OpenTraceLab/lincoil/pkg/kicad/sexp"
	"github.com/OpenTraceLab/lincoil/pkg/kicad/sexp/kicadsexp"
)

// UUIDKeyVersion is the first file format that tags items with (uuid ...)
// instead of (tstamp ...).
const UUIDKeyVersion = 20240108

// namespace seeds the identifiers of generated items, so writing the same
// geometry into the same board twice yields the same file.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/OpenTraceLab/lincoil"))

// PointNM is a board position in integer nanometres.
type PointNM struct {
	X, Y int64
}

// NewSegment describes a track segment to add to a board.
type NewSegment struct {
	Start, End PointNM
	Width      int64
	Layer      string
	Net        int
}

// NewVia describes a via to add to a board.
type NewVia struct {
	At       PointNM
	Diameter int64
	Drill    int64
	Layers   [2]string
	Net      int
}

// Document is a board file held as its syntax tree, so it can be edited and
// written back with everything this package does not model left intact.
type Document struct {
	root    *kicadsexp.List
	board   *Board
	version int
	layers  *LayerMap
	nets    *NetMap
	seq     int
}

// ParseDocument reads a board for editing.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := parseRoot(r)
	if err != nil {
		return nil, err
	}
	board, err := parseBoard(root)
	if err != nil {
		return nil, err
	}
	return &Document{
		root:    root,
		board:   board,
		version: board.Version,
		layers:  NewLayerMap(board.Layers),
		nets:    NewNetMap(board.Nets),
	}, nil
}

// OpenDocument reads a board file for editing.
func OpenDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return ParseDocument(f)
}

// Board returns the board model as of the last edit.
func (d *Document) Board() *Board {
	if d.board == nil {
		// The tree was valid when parsed and edits only add well-formed
		// items, so this cannot fail.
		d.board, _ = parseBoard(d.root)
	}
	return d.board
}

// Root returns the underlying syntax tree.
func (d *Document) Root() *kicadsexp.List {
	return d.root
}

// NetCode returns the code of a named net.
func (d *Document) NetCode(name string) (int, error) {
	net, ok := d.nets.GetByName(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNet, name)
	}
	return net.Number, nil
}

// HasCopperLayer reports whether the board's stack has the named copper
// layer.
func (d *Document) HasCopperLayer(name string) bool {
	return d.layers.IsCopperLayer(name)
}

// AddSegment appends a track segment after the board's existing routing.
func (d *Document) AddSegment(s NewSegment) error {
	if err := d.checkCopper(s.Layer); err != nil {
		return err
	}
	if err := d.checkNet(s.Net); err != nil {
		return err
	}

	node := kicadsexp.Node("segment",
		point("start", s.Start),
		point("end", s.End),
		kicadsexp.Node("width", length(s.Width)),
		kicadsexp.Node("layer", kicadsexp.Quoted(s.Layer)),
		kicadsexp.Node("net", kicadsexp.Symbol(fmt.Sprint(s.Net))),
	)
	d.insert(node)
	return nil
}

// AddVia appends a via. Vias that do not span F.Cu to B.Cu are written as
// blind, which KiCad uses for blind and buried vias alike.
func (d *Document) AddVia(v NewVia) error {
	for _, l := range v.Layers {
		if err := d.checkCopper(l); err != nil {
			return err
		}
	}
	if v.Layers[0] == v.Layers[1] {
		return fmt.Errorf("via at %s,%s: both ends on %s",
			sexp.FormatNM(v.At.X), sexp.FormatNM(v.At.Y), v.Layers[0])
	}
	if err := d.checkNet(v.Net); err != nil {
		return err
	}

	// KiCad lists the pair top layer first.
	top, bottom := v.Layers[0], v.Layers[1]
	ti, _ := d.layers.StackIndex(top)
	bi, _ := d.layers.StackIndex(bottom)
	if bi < ti {
		top, bottom = bottom, top
	}

	node := kicadsexp.Node("via")
	if !(top == "F.Cu" && bottom == "B.Cu") {
		node.Append(kicadsexp.Symbol("blind"))
	}
	node.Append(
		point("at", v.At),
		kicadsexp.Node("size", length(v.Diameter)),
		kicadsexp.Node("drill", length(v.Drill)),
		kicadsexp.Node("layers", kicadsexp.Quoted(top), kicadsexp.Quoted(bottom)),
		kicadsexp.Node("net", kicadsexp.Symbol(fmt.Sprint(v.Net))),
	)
	d.insert(node)
	return nil
}

// RemoveNetGeometry deletes every top-level segment, arc and via on the
// named nets and reports how many were removed. Unknown names are ignored.
func (d *Document) RemoveNetGeometry(names []string) int {
	codes := make(map[int]bool, len(names))
	for _, name := range names {
		if net, ok := d.nets.GetByName(name); ok {
			codes[net.Number] = true
		}
	}
	if len(codes) == 0 {
		return 0
	}

	removed := d.root.RemoveIf(func(e kicadsexp.Sexp) bool {
		l, ok := e.(*kicadsexp.List)
		if !ok {
			return false
		}
		switch l.Key() {
		case "segment", "arc", "via":
			code, ok := getNetCode(l)
			return ok && codes[code]
		}
		return false
	})
	if removed > 0 {
		d.board = nil
	}
	return removed
}

// WriteTo writes the board in KiCad's layout.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := kicadsexp.Write(cw, d.root)
	return cw.n, err
}

// Save writes the board to path through a temporary file in the same
// directory, so an interrupted write leaves the original untouched.
func (d *Document) Save(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := d.WriteTo(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (d *Document) insert(node *kicadsexp.List) {
	d.seq++
	id := uuid.NewSHA1(namespace, []byte(fmt.Sprintf("%d %s", d.seq, node.String())))
	if d.version >= UUIDKeyVersion {
		node.Append(kicadsexp.Node("uuid", kicadsexp.Quoted(id.String())))
	} else {
		node.Append(kicadsexp.Node("tstamp", kicadsexp.Symbol(id.String())))
	}

	d.root.InsertAfterLast(node,
		"segment", "arc", "via", "footprint",
		"gr_line", "gr_rect", "gr_circle", "gr_arc", "gr_poly", "gr_text")
	d.board = nil
}

func (d *Document) checkCopper(layer string) error {
	if !d.HasCopperLayer(layer) {
		return fmt.Errorf("%w: %q is not a copper layer of this board", ErrUnknownLayer, layer)
	}
	return nil
}

func (d *Document) checkNet(code int) error {
	if _, ok := d.nets.GetByNumber(code); !ok {
		return fmt.Errorf("%w: code %d", ErrUnknownNet, code)
	}
	return nil
}

func point(key string, p PointNM) *kicadsexp.List {
	return kicadsexp.Node(key, length(p.X), length(p.Y))
}

func length(nm int64) kicadsexp.Symbol {
	return kicadsexp.Symbol(sexp.FormatNM(nm))
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
