// Package emit lowers a validated ast.Request into one or more SQL
// statements against a dialect.Dialect. Lowering is a pure function of the
// AST plus an explicit Counter: no package-level mutable state, per
// spec.md's Design Notes on replacing the original's global counters.
package emit

import (
	"strconv"

	"github.com/ritamzico/overpassql/internal/ast"
)

// Counter hands out counter-derived fallback set names during one
// compilation. It is created once per top-level Compile call and threaded
// through the lowering functions via Context; it is never package state.
type Counter struct {
	n int
}

// Next returns the next fallback set name, starting at "0".
func (c *Counter) Next() ast.SetName {
	name := ast.SetName(strconv.Itoa(c.n))
	c.n++
	return name
}
