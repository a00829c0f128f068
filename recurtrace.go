package recurtrace

import (
	"github.com/kallsbrook/recurtrace/fe"
	"github.com/kallsbrook/recurtrace/syntax"
)

// Parse lexes and parses source into a Program. It returns a ParseError on
// any lexical or grammatical failure, with the offending position; the
// returned error can always be type-asserted to ParseError.
func Parse(source string) (*syntax.Program, error) {
	toks, err := fe.Lex(source)
	if err != nil {
		if le, ok := err.(fe.LexError); ok {
			return nil, ParseError{Line: le.Line, Col: le.Col, Message: le.Message}
		}
		return nil, fallbackParseError("%s", err)
	}

	prog, err := fe.Parse(toks)
	if err != nil {
		if pe, ok := err.(*fe.ParseError); ok {
			return nil, ParseError{Line: pe.Line, Col: pe.Col, Message: pe.Message}
		}
		return nil, fallbackParseError("%s", err)
	}
	return prog, nil
}
