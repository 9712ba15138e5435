package kicadsexp

import (
	"bufio"
	"io"
	"strings"
)

// maxInline is the longest list, in bytes, written on a single line.
// Track segments with their identifier fit comfortably.
const maxInline = 200

// Write serializes expr in KiCad's layout: short leaf lists stay on one
// line, anything nested deeper is broken up with one child list per
// tab-indented line.
func Write(w io.Writer, expr Sexp) error {
	bw := bufio.NewWriter(w)
	writeExpr(bw, expr, 0)
	bw.WriteByte('\n')
	return bw.Flush()
}

// Format returns expr in the same layout as Write.
func Format(expr Sexp) string {
	var b strings.Builder
	Write(&b, expr)
	return b.String()
}

func writeExpr(w *bufio.Writer, expr Sexp, depth int) {
	l, ok := expr.(*List)
	if !ok {
		w.WriteString(expr.String())
		return
	}
	if inline(l) {
		w.WriteString(l.String())
		return
	}

	w.WriteByte('(')
	broken := false
	for i, e := range l.elements {
		if _, isList := e.(*List); isList || broken {
			broken = true
			w.WriteByte('\n')
			w.WriteString(strings.Repeat("\t", depth+1))
		} else if i > 0 {
			w.WriteByte(' ')
		}
		writeExpr(w, e, depth+1)
	}
	if broken {
		w.WriteByte('\n')
		w.WriteString(strings.Repeat("\t", depth))
	}
	w.WriteByte(')')
}

// inline reports whether l is at most two levels deep and short.
func inline(l *List) bool {
	size := 2
	for _, e := range l.elements {
		if sub, ok := e.(*List); ok {
			for _, se := range sub.elements {
				if !se.IsLeaf() {
					return false
				}
			}
		}
		size += len(e.String()) + 1
		if size > maxInline {
			return false
		}
	}
	return true
}
