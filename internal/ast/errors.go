package ast

import "fmt"

// Span is the byte range of the source text an error is attached to.
type Span struct {
	Start int
	End   int
}

// ParseError is a grammar-level failure: the input text did not match the
// Overpass QL grammar at the given span.
type ParseError struct {
	Span    Span
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Span.Start, e.Span.End, e.Message)
}

// StructuralError is raised by the AST builder when it encounters a parse
// tree child it does not recognize for the rule being converted. There is
// no silent fallthrough anywhere in the builder.
type StructuralError struct {
	Span    Span
	Rule    string
	Message string
}

func (e StructuralError) Error() string {
	return fmt.Sprintf("structural error (%s) at %d:%d: %s", e.Rule, e.Span.Start, e.Span.End, e.Message)
}

// NumericError is a ParseError variant for a malformed number inside a
// filter (bbox coordinate, id, around radius).
type NumericError struct {
	Span    Span
	Field   string
	Literal string
}

func (e NumericError) Error() string {
	return fmt.Sprintf("numeric error in %s at %d:%d: invalid number %q", e.Field, e.Span.Start, e.Span.End, e.Literal)
}

// UnsupportedDialect is raised only at the driver boundary, never by the
// parser or emitter.
type UnsupportedDialect struct {
	Name string
}

func (e UnsupportedDialect) Error() string {
	return fmt.Sprintf("unsupported SQL dialect %q", e.Name)
}
