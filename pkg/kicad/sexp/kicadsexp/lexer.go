package kicadsexp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"unicode"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenLeftParen
	TokenRightParen
	TokenSymbol
	TokenString
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenLeftParen:
		return "'('"
	case TokenRightParen:
		return "')'"
	case TokenSymbol:
		return "symbol"
	case TokenString:
		return "string"
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
	Line  int
}

// SyntaxError reports malformed input and the line it was found on.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Lexer tokenizes S-expressions from an io.Reader
type Lexer struct {
	reader *bufio.Reader
	peeked *rune
	line   int
}

// NewLexer creates a new lexer
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(r),
		line:   1,
	}
}

// NextToken reads the next token from the input
func (l *Lexer) NextToken() (Token, error) {
	for {
		ch, err := l.peek()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Token{Type: TokenEOF, Line: l.line}, nil
			}
			return Token{}, err
		}
		if !unicode.IsSpace(ch) {
			break
		}
		l.read()
	}

	ch, _ := l.peek()
	line := l.line
	switch ch {
	case '(':
		l.read()
		return Token{Type: TokenLeftParen, Value: "(", Line: line}, nil

	case ')':
		l.read()
		return Token{Type: TokenRightParen, Value: ")", Line: line}, nil

	case '"':
		return l.readString()

	default:
		return l.readSymbol()
	}
}

// peek looks at the next rune without consuming it
func (l *Lexer) peek() (rune, error) {
	if l.peeked != nil {
		return *l.peeked, nil
	}

	ch, _, err := l.reader.ReadRune()
	if err != nil {
		return 0, err
	}

	l.peeked = &ch
	return ch, nil
}

// read consumes and returns the next rune
func (l *Lexer) read() (rune, error) {
	var ch rune
	if l.peeked != nil {
		ch = *l.peeked
		l.peeked = nil
	} else {
		var err error
		ch, _, err = l.reader.ReadRune()
		if err != nil {
			return 0, err
		}
	}
	if ch == '\n' {
		l.line++
	}
	return ch, nil
}

// readString reads a quoted string
func (l *Lexer) readString() (Token, error) {
	line := l.line
	l.read()

	var result []rune
	for {
		ch, err := l.read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Token{}, &SyntaxError{Line: line, Msg: "unexpected EOF in string"}
			}
			return Token{}, err
		}

		if ch == '"' {
			break
		}

		if ch == '\\' {
			next, err := l.read()
			if err != nil {
				return Token{}, &SyntaxError{Line: l.line, Msg: "unexpected EOF after backslash"}
			}
			switch next {
			case 'n':
				result = append(result, '\n')
			case 't':
				result = append(result, '\t')
			case 'r':
				result = append(result, '\r')
			default:
				result = append(result, next)
			}
			continue
		}

		result = append(result, ch)
	}

	return Token{Type: TokenString, Value: string(result), Line: line}, nil
}

// readSymbol reads an unquoted symbol (identifier, number, etc.)
func (l *Lexer) readSymbol() (Token, error) {
	line := l.line
	var result []rune

	for {
		ch, err := l.peek()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Token{}, err
		}

		if unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' {
			break
		}

		l.read()
		result = append(result, ch)
	}

	if len(result) == 0 {
		return Token{}, &SyntaxError{Line: line, Msg: "empty symbol"}
	}

	return Token{Type: TokenSymbol, Value: string(result), Line: line}, nil
}
