package phasespec

import "github.com/alecthomas/participle/v2/lexer"

// File is a sequence of phase declarations, one per line or separated by
// semicolons.
type File struct {
	Phases []*Decl `( @@ Semicolon? )*`
}

// Decl is a single phase declaration.
type Decl struct {
	Pos lexer.Position

	Name      string   `@Word Colon`
	From      string   `@Word Arrow`
	To        string   `@Word`
	Shift     *int     `( "shift" @Integer )?`
	Net       string   `"net" @( String | Word )`
	Pads      *PadPair `@@?`
	NoConnect bool     `@"noconnect"?`
}

// PadPair names the start and end connector pads.
type PadPair struct {
	Start string `"pads" @Word`
	End   string `Arrow @Word`
}
