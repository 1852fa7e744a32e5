// Package overpassql compiles Overpass QL queries into SQL statements
// targeting a PostGIS-style relational schema.
package overpassql

import (
	"strings"

	"github.com/ritamzico/overpassql/internal/ast"
	"github.com/ritamzico/overpassql/internal/dialect"
	"github.com/ritamzico/overpassql/internal/dsl"
	"github.com/ritamzico/overpassql/internal/emit"
)

// Compiler parses and lowers Overpass QL source text. Stateless and safe
// for concurrent use: every compilation gets its own emit.Context and
// counter, never shared mutable state.
type Compiler struct {
	parser dsl.Parser
}

// New returns a ready-to-use Compiler.
func New() Compiler {
	return Compiler{parser: dsl.NewParser()}
}

// Compile parses query, validates it into an AST, and lowers it against the
// named SQL dialect ("postgres" or "duckdb"). finalizer, if non-nil, is a
// SQL template substituted for the usual union-of-outs tail; every
// occurrence of {{query}} in it is replaced with a reference to the
// request's last default set.
//
// The returned slice is the ordered sequence of statements a driver must
// execute; the last statement is always the one producing the result set.
func (c Compiler) Compile(query string, dialectName string, srid string, finalizer *string) ([]string, error) {
	req, err := c.parser.ParseRequest(query)
	if err != nil {
		return nil, err
	}

	d, err := dialect.ByName(dialectName)
	if err != nil {
		return nil, err
	}

	return emit.Compile(req, d, srid, finalizer), nil
}

// Parse exposes the AST directly, for callers that want to inspect a
// request without immediately lowering it.
func (c Compiler) Parse(query string) (*ast.Request, error) {
	return c.parser.ParseRequest(query)
}

// ParseQueryJSON compiles text against PostgreSQL at EPSG:4326 and returns
// the joined SQL, or an "Error parsing query: " prefixed message on
// failure. Intended for embedders that want a single string in, string out
// entry point without handling the dialect/error-type plumbing themselves.
func ParseQueryJSON(text string) string {
	statements, err := New().Compile(text, "postgres", "4326", nil)
	if err != nil {
		return "Error parsing query: " + err.Error()
	}
	return strings.Join(statements, "\n")
}
