package kicadsexp

import (
	"io"
)

// Parser parses S-expressions from a lexer
type Parser struct {
	lexer   *Lexer
	current Token
}

// NewParser creates a new parser from an io.Reader
func NewParser(r io.Reader) *Parser {
	return &Parser{
		lexer: NewLexer(r),
	}
}

// ParseAll parses all top-level S-expressions from the input
func (p *Parser) ParseAll() ([]Sexp, error) {
	var result []Sexp

	if err := p.advance(); err != nil {
		return nil, err
	}

	for p.current.Type != TokenEOF {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		result = append(result, expr)

		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (p *Parser) advance() error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.current = tok
	return nil
}

// parseExpr parses a single S-expression
func (p *Parser) parseExpr() (Sexp, error) {
	switch p.current.Type {
	case TokenLeftParen:
		return p.parseList()

	case TokenSymbol:
		return Symbol(p.current.Value), nil

	case TokenString:
		return Quoted(p.current.Value), nil

	default:
		return nil, p.unexpected()
	}
}

// parseList parses a list: ( ... )
func (p *Parser) parseList() (Sexp, error) {
	open := p.current.Line
	var elements []Sexp

	for {
		if err := p.advance(); err != nil {
			return nil, err
		}

		if p.current.Type == TokenRightParen {
			break
		}

		if p.current.Type == TokenEOF {
			return nil, &SyntaxError{Line: open, Msg: "unexpected EOF in list opened here"}
		}

		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elements = append(elements, elem)
	}

	return &List{elements: elements}, nil
}

func (p *Parser) unexpected() error {
	return &SyntaxError{Line: p.current.Line, Msg: "unexpected " + p.current.Type.String()}
}
