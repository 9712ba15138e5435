package phasespec

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes phase declarations such as
//
//	A: B.Cu -> In1.Cu shift -1 net "PHASE_A" pads J1.1 -> J1.2
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Semicolon", Pattern: `;`},
	{Name: "Integer", Pattern: `[-+]?[0-9]+`},

	// Layer names, pad references and keywords: B.Cu, J1.1, shift
	{Name: "Word", Pattern: `[A-Za-z_][A-Za-z0-9_.]*`},
})
