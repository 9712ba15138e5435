package kicadsexp

import (
	"strings"
	"testing"
)

func TestFormatLayout(t *testing.T) {
	exprs, err := ParseString(`(kicad_pcb (version 20221018) (segment (start 1 2) (end 3 4) (width 0.25) (layer "F.Cu") (net 1)) (footprint "lib:fp" (pad "1" smd rect (at 0 0))))`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	want := strings.Join([]string{
		`(kicad_pcb`,
		`	(version 20221018)`,
		`	(segment (start 1 2) (end 3 4) (width 0.25) (layer "F.Cu") (net 1))`,
		`	(footprint "lib:fp"`,
		`		(pad "1" smd rect (at 0 0))`,
		`	)`,
		`)`,
		``,
	}, "\n")

	if got := Format(exprs[0]); got != want {
		t.Errorf("Format() =\n%s\nwant\n%s", got, want)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	input := `(kicad_pcb (version 20221018) (generator pcbnew) (net 1 "say \"A\"") (gr_text "multi\nline" (at 1 2)))`
	exprs, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	again, err := ParseString(Format(exprs[0]))
	if err != nil {
		t.Fatalf("reparse error = %v", err)
	}
	if again[0].String() != exprs[0].String() {
		t.Errorf("round trip changed the tree:\n%s\n%s", again[0], exprs[0])
	}
}

func TestFormatKeepsLeafListsOnOneLine(t *testing.T) {
	var b strings.Builder
	b.WriteString("(layers")
	for i := 0; i < 20; i++ {
		b.WriteString(` "In1.Cu"`)
	}
	b.WriteString(")")

	exprs, err := ParseString(b.String())
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	got := Format(exprs[0])
	if strings.Count(got, "\n") != 1 {
		t.Errorf("leaf-only list was broken into lines:\n%s", got)
	}
}
