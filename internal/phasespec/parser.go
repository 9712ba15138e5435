// Package phasespec parses the one-line phase declarations used on the
// command line and in configuration files.
package phasespec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/OpenTraceLab/lincoil/pkg/coil"
)

var parser = participle.MustBuild[File](
	participle.Lexer(Lexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)

// Parse parses exactly one phase declaration.
func Parse(s string) (coil.PhaseSpec, error) {
	specs, err := ParseAll(s)
	if err != nil {
		return coil.PhaseSpec{}, err
	}
	if len(specs) != 1 {
		return coil.PhaseSpec{}, fmt.Errorf("phase %q: expected one declaration, got %d", s, len(specs))
	}
	return specs[0], nil
}

// ParseAll parses any number of declarations and checks each one.
func ParseAll(s string) ([]coil.PhaseSpec, error) {
	file, err := parser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	specs := make([]coil.PhaseSpec, 0, len(file.Phases))
	for _, d := range file.Phases {
		spec, err := d.Spec()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Pos, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// Spec converts the declaration and validates it.
func (d *Decl) Spec() (coil.PhaseSpec, error) {
	spec := coil.PhaseSpec{
		Name:           d.Name,
		From:           coil.LayerID(d.From),
		To:             coil.LayerID(d.To),
		Net:            d.Net,
		SkipConnectors: d.NoConnect,
	}
	if d.Shift != nil {
		spec.ShiftSign = *d.Shift
	}
	if d.Pads != nil {
		var err error
		if spec.StartPad, err = coil.ParsePadRef(d.Pads.Start); err != nil {
			return spec, err
		}
		if spec.EndPad, err = coil.ParsePadRef(d.Pads.End); err != nil {
			return spec, err
		}
	}
	return spec, spec.Validate()
}

// Format writes a phase back in declaration syntax.
func Format(spec coil.PhaseSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s -> %s shift %d net %s", spec.Name, spec.From, spec.To, spec.ShiftSign, strconv.Quote(spec.Net))
	if !spec.StartPad.IsZero() || !spec.EndPad.IsZero() {
		fmt.Fprintf(&b, " pads %s -> %s", spec.StartPad, spec.EndPad)
	}
	if spec.SkipConnectors {
		b.WriteString(" noconnect")
	}
	return b.String()
}
