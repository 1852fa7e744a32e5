package dsl

import (
	"github.com/ritamzico/overpassql/internal/ast"
)

// Parser is the entry point for turning Overpass QL text into a Request
// AST. Compilation never mutates shared state, so a Parser value can be
// constructed once (or not at all — ParseRequest is a pure function) and
// reused freely across goroutines.
type Parser struct{}

// NewParser returns a ready-to-use Parser.
func NewParser() Parser {
	return Parser{}
}

// ParseRequest parses Overpass QL source text into a Request AST, or
// returns a ParseError, StructuralError, or NumericError.
func (Parser) ParseRequest(input string) (*ast.Request, error) {
	parsed, err := overpassParser.ParseString("", input)
	if err != nil {
		return nil, enrichParseError(err)
	}
	return convertRequest(parsed)
}
