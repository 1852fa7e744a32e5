package dsl

import (
	"github.com/alecthomas/participle/v2"

	"github.com/ritamzico/overpassql/internal/ast"
)

// enrichParseError wraps a participle parse failure as an ast.ParseError
// carrying the offending byte span.
func enrichParseError(err error) error {
	if perr, ok := err.(participle.Error); ok {
		pos := perr.Position()
		return ast.ParseError{
			Span:    ast.Span{Start: pos.Offset, End: pos.Offset},
			Message: perr.Message(),
		}
	}
	return ast.ParseError{Message: err.Error()}
}
