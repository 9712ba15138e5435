// Package kicadsexp provides a lightweight streaming S-expression parser
// and writer for KiCad board files. Quoted strings are kept distinct from
// bare symbols so a parsed file can be written back without changing its
// meaning.
package kicadsexp

import (
	"io"
	"strings"
)

// Sexp represents an S-expression node.
// It can be either a leaf (atom) or a list.
type Sexp interface {
	// IsLeaf returns true if this is an atom (not a list)
	IsLeaf() bool

	// LeafCount returns the number of elements in a list (1 for atoms)
	LeafCount() int

	// Head returns the first element of a list (the atom itself for atoms)
	Head() Sexp

	// Tail returns the rest of the list after the first element (nil for atoms)
	Tail() Sexp

	// String returns the textual form as it would appear in a file
	String() string
}

// Symbol is a bare atom: a keyword, number or unquoted identifier.
type Symbol string

func (s Symbol) IsLeaf() bool   { return true }
func (s Symbol) LeafCount() int { return 1 }
func (s Symbol) Head() Sexp     { return s }
func (s Symbol) Tail() Sexp     { return nil }
func (s Symbol) String() string { return string(s) }

// Quoted is a double-quoted string atom. The value is stored unescaped.
type Quoted string

func (q Quoted) IsLeaf() bool   { return true }
func (q Quoted) LeafCount() int { return 1 }
func (q Quoted) Head() Sexp     { return q }
func (q Quoted) Tail() Sexp     { return nil }
func (q Quoted) String() string { return quote(string(q)) }

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)

func quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}

// AtomValue returns the text of a Symbol or Quoted atom.
func AtomValue(s Sexp) (string, bool) {
	switch v := s.(type) {
	case Symbol:
		return string(v), true
	case Quoted:
		return string(v), true
	}
	return "", false
}

// List represents a list of S-expressions
type List struct {
	elements []Sexp
}

// NewList builds a list from its elements.
func NewList(elements ...Sexp) *List {
	return &List{elements: elements}
}

// Node builds a (key values...) list, the common KiCad property shape.
func Node(key string, values ...Sexp) *List {
	return &List{elements: append([]Sexp{Symbol(key)}, values...)}
}

func (l *List) IsLeaf() bool { return false }

func (l *List) LeafCount() int {
	return len(l.elements)
}

func (l *List) Head() Sexp {
	if len(l.elements) == 0 {
		return nil
	}
	return l.elements[0]
}

func (l *List) Tail() Sexp {
	if len(l.elements) <= 1 {
		return nil
	}
	return &List{elements: l.elements[1:]}
}

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, elem := range l.elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(elem.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Get returns the element at the given index
func (l *List) Get(index int) Sexp {
	if index < 0 || index >= len(l.elements) {
		return nil
	}
	return l.elements[index]
}

// Len returns the number of elements in the list
func (l *List) Len() int {
	return len(l.elements)
}

// Elements returns the list's elements. The slice must not be modified.
func (l *List) Elements() []Sexp {
	return l.elements
}

// Key returns the list's leading symbol, or "" if it has none.
func (l *List) Key() string {
	if len(l.elements) == 0 {
		return ""
	}
	sym, _ := l.elements[0].(Symbol)
	return string(sym)
}

// Append adds elements to the end of the list.
func (l *List) Append(elems ...Sexp) {
	l.elements = append(l.elements, elems...)
}

// InsertAfterLast inserts elem right after the last child list whose key is
// one of keys, or appends it when there is none.
func (l *List) InsertAfterLast(elem Sexp, keys ...string) {
	at := -1
	for i, e := range l.elements {
		if sub, ok := e.(*List); ok {
			for _, k := range keys {
				if sub.Key() == k {
					at = i
				}
			}
		}
	}
	if at < 0 {
		l.Append(elem)
		return
	}
	l.elements = append(l.elements, nil)
	copy(l.elements[at+2:], l.elements[at+1:])
	l.elements[at+1] = elem
}

// RemoveIf drops every element for which drop returns true and reports how
// many were removed.
func (l *List) RemoveIf(drop func(Sexp) bool) int {
	kept := l.elements[:0]
	removed := 0
	for _, e := range l.elements {
		if drop(e) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(l.elements); i++ {
		l.elements[i] = nil
	}
	l.elements = kept
	return removed
}

// Parse parses S-expressions from an io.Reader.
func Parse(r io.Reader) ([]Sexp, error) {
	parser := NewParser(r)
	return parser.ParseAll()
}

// ParseString parses S-expressions from a string (convenience function)
func ParseString(s string) ([]Sexp, error) {
	return Parse(strings.NewReader(s))
}
