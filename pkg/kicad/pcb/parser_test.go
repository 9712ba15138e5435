package pcb

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/OpenTraceLab/lincoil/pkg/kicad/sexp/kicadsexp"
)

const motorBoard = "testdata/motor.kicad_pcb"

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantVersion int
		wantGen     string
		wantErr     bool
	}{
		{
			name:        "valid KiCad 6.0 with generator",
			input:       "(kicad_pcb (version 20211014) (generator pcbnew))",
			wantVersion: 20211014,
			wantGen:     "pcbnew",
		},
		{
			name:        "valid KiCad 6.0 with host",
			input:       "(kicad_pcb (version 20221018) (host pcbnew \"(6.0.10)\"))",
			wantVersion: 20221018,
			wantGen:     "pcbnew",
		},
		{
			name:        "KiCad 8 quoted generator",
			input:       "(kicad_pcb (version 20240108) (generator \"pcbnew\"))",
			wantVersion: 20240108,
			wantGen:     "pcbnew",
		},
		{
			name:    "missing version",
			input:   "(kicad_pcb (generator pcbnew))",
			wantErr: true,
		},
		{
			name:    "old version (KiCad 5)",
			input:   "(kicad_pcb (version 20171130))",
			wantErr: true,
		},
		{
			name:        "no generator (should default to unknown)",
			input:       "(kicad_pcb (version 20211014))",
			wantVersion: 20211014,
			wantGen:     "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sexps, err := kicadsexp.ParseString(tt.input)
			if err != nil {
				t.Fatalf("Failed to parse s-expression: %v", err)
			}

			version, gen, err := parseHeader(sexps[0])

			if tt.wantErr {
				if err == nil {
					t.Errorf("parseHeader() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("parseHeader() unexpected error: %v", err)
			}
			if version != tt.wantVersion {
				t.Errorf("version = %d, want %d", version, tt.wantVersion)
			}
			if gen != tt.wantGen {
				t.Errorf("generator = %q, want %q", gen, tt.wantGen)
			}
		})
	}
}

func TestParseRejectsOtherFiles(t *testing.T) {
	tests := []string{
		"",
		"(kicad_sch (version 20230121))",
		"kicad_pcb",
	}
	for _, input := range tests {
		if _, err := ParseDocument(strings.NewReader(input)); err == nil {
			t.Errorf("ParseDocument(%q) expected error", input)
		}
	}
}

func TestParseFile(t *testing.T) {
	board, err := ParseFile(motorBoard)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}

	if board.Version != 20221018 {
		t.Errorf("Version = %d", board.Version)
	}
	if board.General.Thickness != 1.6 {
		t.Errorf("Thickness = %v", board.General.Thickness)
	}
	if len(board.Layers) != 5 {
		t.Errorf("got %d layers, want 5", len(board.Layers))
	}
	if got := len(board.CopperLayers()); got != 4 {
		t.Errorf("got %d copper layers, want 4", got)
	}
	if len(board.Nets) != 3 {
		t.Errorf("got %d nets, want 3", len(board.Nets))
	}
	if len(board.Tracks) != 1 || len(board.Vias) != 2 {
		t.Errorf("got %d tracks and %d vias, want 1 and 2", len(board.Tracks), len(board.Vias))
	}
	if len(board.Graphics.Lines) != 1 || len(board.Graphics.Rects) != 1 {
		t.Errorf("got %d lines and %d rects", len(board.Graphics.Lines), len(board.Graphics.Rects))
	}
	if len(board.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", board.Warnings)
	}
}

func TestParseFootprints(t *testing.T) {
	board, err := ParseFile(motorBoard)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}

	tests := []struct {
		ref     string
		library string
		value   string
		pads    int
		angle   Angle
	}{
		{"J1", "Connector_PinHeader_2.54mm", "Motor", 2, 90},
		{"R1", "", "10k", 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			fp, ok := board.FindFootprint(tt.ref)
			if !ok {
				t.Fatalf("footprint %s not found", tt.ref)
			}
			if fp.Library != tt.library {
				t.Errorf("Library = %q, want %q", fp.Library, tt.library)
			}
			if fp.Value != tt.value {
				t.Errorf("Value = %q, want %q", fp.Value, tt.value)
			}
			if len(fp.Pads) != tt.pads {
				t.Errorf("got %d pads, want %d", len(fp.Pads), tt.pads)
			}
			if fp.Position.Angle != tt.angle {
				t.Errorf("Angle = %v, want %v", fp.Position.Angle, tt.angle)
			}
		})
	}

	j1, _ := board.FindFootprint("J1")
	if j1.Pads[0].Net == nil || j1.Pads[0].Net.Name != "PHASE_A" {
		t.Errorf("J1.1 net = %v, want PHASE_A", j1.Pads[0].Net)
	}
	if !j1.Pads[0].Layers.Contains("In2.Cu") {
		t.Error("*.Cu pad does not report In2.Cu")
	}
	if j1.Pads[0].Drill != 1 {
		t.Errorf("J1.1 drill = %v", j1.Pads[0].Drill)
	}
}

func TestPadPosition(t *testing.T) {
	board, err := ParseFile(motorBoard)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}

	tests := []struct {
		ref, pad string
		want     Position
		wantErr  error
	}{
		{"J1", "1", Position{X: 100, Y: 50}, nil},
		// Rotated 90° counter-clockwise: a pad below the origin moves right.
		{"J1", "2", Position{X: 102.54, Y: 50}, nil},
		{"R1", "2", Position{X: 10.8, Y: 10}, nil},
		{"J9", "1", Position{}, ErrFootprintNotFound},
		{"J1", "3", Position{}, ErrPadNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.ref+"."+tt.pad, func(t *testing.T) {
			got, err := board.PadPosition(tt.ref, tt.pad)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("PadPosition() error = %v", err)
			}
			if !approx(got.X, tt.want.X) || !approx(got.Y, tt.want.Y) {
				t.Errorf("PadPosition() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseTracksAndVias(t *testing.T) {
	board, err := ParseFile(motorBoard)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}

	track := board.Tracks[0]
	if track.Layer != "F.Cu" || track.Width != 0.25 || track.Net == nil || track.Net.Number != 1 {
		t.Errorf("unexpected track %+v", track)
	}

	through, blind := board.Vias[0], board.Vias[1]
	if through.Type != "" {
		t.Errorf("through via Type = %q", through.Type)
	}
	if blind.Type != "blind" {
		t.Errorf("blind via Type = %q", blind.Type)
	}
	if len(blind.Layers) != 2 || blind.Layers[0] != "In1.Cu" || blind.Layers[1] != "In2.Cu" {
		t.Errorf("blind via layers = %v", blind.Layers)
	}

	info := board.GetNetInfo("PHASE_A")
	if info == nil {
		t.Fatal("GetNetInfo(PHASE_A) = nil")
	}
	if len(info.Pads) != 1 || len(info.Tracks) != 1 || len(info.Vias) != 1 {
		t.Errorf("PHASE_A has %d pads, %d tracks, %d vias", len(info.Pads), len(info.Tracks), len(info.Vias))
	}
	if board.GetNetInfo("NOPE") != nil {
		t.Error("GetNetInfo(NOPE) should be nil")
	}
}

func TestParseSkipsBrokenPads(t *testing.T) {
	input := `(kicad_pcb (version 20221018) (layers (0 "F.Cu" signal))
		(footprint "x" (layer "F.Cu") (at 0 0) (property "Reference" "U1")
			(pad "1" smd rect (at 0 0) (size 1 1) (layers "F.Cu"))
			(pad "2" smd rect (size 1 1) (layers "F.Cu"))))`

	board, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(board.Footprints[0].Pads) != 1 {
		t.Errorf("got %d pads, want 1", len(board.Footprints[0].Pads))
	}
	if len(board.Warnings) != 1 {
		t.Errorf("got warnings %v, want one", board.Warnings)
	}
}

func TestLayerSetContains(t *testing.T) {
	tests := []struct {
		set   LayerSet
		layer string
		want  bool
	}{
		{LayerSet{"F.Cu"}, "F.Cu", true},
		{LayerSet{"F.Cu"}, "B.Cu", false},
		{LayerSet{"*.Cu", "*.Mask"}, "In4.Cu", true},
		{LayerSet{"*.Mask"}, "F.Cu", false},
		{LayerSet{"F&B.Cu"}, "In1.Cu", false},
	}
	for _, tt := range tests {
		if got := tt.set.Contains(tt.layer); got != tt.want {
			t.Errorf("%v.Contains(%q) = %v, want %v", tt.set, tt.layer, got, tt.want)
		}
	}
}

func TestBoundingBox(t *testing.T) {
	board, err := ParseFile(motorBoard)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}

	// The Edge.Cuts rectangle with half its 0.1 mm stroke on each side.
	bbox := board.GetBoundingBox()
	if !approx(bbox.Min.X, -0.05) || !approx(bbox.Min.Y, -0.05) ||
		!approx(bbox.Max.X, 200.05) || !approx(bbox.Max.Y, 120.05) {
		t.Errorf("board bounding box = %+v", bbox)
	}

	// J1 is turned 90 degrees, so its second pad lands to the right of the first.
	j1, ok := board.FindFootprint("J1")
	if !ok {
		t.Fatal("J1 not found")
	}
	fb := j1.GetBoundingBox()
	if !approx(fb.Min.X, 99.15) || !approx(fb.Max.X, 103.39) ||
		!approx(fb.Min.Y, 49.15) || !approx(fb.Max.Y, 50.85) {
		t.Errorf("J1 bounding box = %+v", fb)
	}
}

func TestBoundingBoxCoversCopper(t *testing.T) {
	board, err := Parse(strings.NewReader(`(kicad_pcb (version 20221018) (generator pcbnew)
	(layers (0 "F.Cu" signal) (31 "B.Cu" signal))
	(net 0 "")
	(segment (start 10 10) (end 20 10) (width 0.5) (layer "F.Cu") (net 0))
	(via (at 25 12) (size 1) (drill 0.5) (layers "F.Cu" "B.Cu") (net 0)))`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	bbox := board.GetBoundingBox()
	if !approx(bbox.Min.X, 9.75) || !approx(bbox.Min.Y, 9.75) ||
		!approx(bbox.Max.X, 25.5) || !approx(bbox.Max.Y, 12.5) {
		t.Errorf("bounding box = %+v", bbox)
	}
}
