package kicadsexp

import (
	"errors"
	"strings"
	"testing"
)

func TestParseAtoms(t *testing.T) {
	exprs, err := ParseString(`(net 3 "PHASE A") (layer F.Cu)`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if len(exprs) != 2 {
		t.Fatalf("got %d expressions, want 2", len(exprs))
	}

	net := exprs[0].(*List)
	if net.Key() != "net" {
		t.Errorf("Key() = %q, want net", net.Key())
	}
	if _, ok := net.Get(1).(Symbol); !ok {
		t.Errorf("net code parsed as %T, want Symbol", net.Get(1))
	}
	name, ok := net.Get(2).(Quoted)
	if !ok {
		t.Fatalf("net name parsed as %T, want Quoted", net.Get(2))
	}
	if string(name) != "PHASE A" {
		t.Errorf("net name = %q, want %q", name, "PHASE A")
	}
	if got := net.String(); got != `(net 3 "PHASE A")` {
		t.Errorf("String() = %s", got)
	}
}

func TestParseEscapes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"plain"`, "plain"},
		{`"say \"hi\""`, `say "hi"`},
		{`"a\\b"`, `a\b`},
		{`"line\nbreak"`, "line\nbreak"},
		{`"#PWR01"`, "#PWR01"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			exprs, err := ParseString(tt.input)
			if err != nil {
				t.Fatalf("ParseString() error = %v", err)
			}
			got, ok := AtomValue(exprs[0])
			if !ok || got != tt.want {
				t.Errorf("AtomValue() = %q, %v; want %q", got, ok, tt.want)
			}
			if exprs[0].String() != tt.input {
				t.Errorf("String() = %s, want %s", exprs[0].String(), tt.input)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
	}{
		{"unterminated list", "(kicad_pcb\n(version 1)", 1},
		{"stray paren", "(a)\n)", 2},
		{"unterminated string", "(a\n\"open)", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			var syn *SyntaxError
			if !errors.As(err, &syn) {
				t.Fatalf("error = %v, want *SyntaxError", err)
			}
			if syn.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", syn.Line, tt.wantLine)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	exprs, err := Parse(strings.NewReader("  \n\t"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(exprs) != 0 {
		t.Errorf("got %d expressions, want 0", len(exprs))
	}
}

func TestListEditing(t *testing.T) {
	exprs, err := ParseString(`(kicad_pcb (net 0 "") (net 1 "A") (footprint "x") (segment (net 1)) (via (net 2)))`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	root := exprs[0].(*List)

	root.InsertAfterLast(Node("net", Symbol("2"), Quoted("B")), "net")
	if got := root.Get(3).String(); got != `(net 2 "B")` {
		t.Errorf("inserted node at 3 = %s", got)
	}

	removed := root.RemoveIf(func(e Sexp) bool {
		l, ok := e.(*List)
		return ok && (l.Key() == "segment" || l.Key() == "via")
	})
	if removed != 2 {
		t.Errorf("RemoveIf() = %d, want 2", removed)
	}
	if root.Len() != 5 {
		t.Errorf("Len() = %d, want 5", root.Len())
	}

	root.Append(Node("segment", Node("width", Symbol("0.25"))))
	if root.Get(root.Len()-1).(*List).Key() != "segment" {
		t.Error("Append() did not add to the end")
	}
}
