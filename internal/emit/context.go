package emit

import (
	"strings"

	"github.com/ritamzico/overpassql/internal/ast"
	"github.com/ritamzico/overpassql/internal/dialect"
)

// Context carries the state shared across one Compile call: the target
// dialect, the working SRID, and the fallback-name Counter. It is passed
// by pointer through every lowering function instead of being recovered
// from ambient/global state.
type Context struct {
	Dialect dialect.Dialect
	SRID    string
	Counter *Counter
}

func newContext(d dialect.Dialect, srid string) *Context {
	return &Context{Dialect: d, SRID: srid, Counter: &Counter{}}
}

// resolveSet turns an optional explicit *ast.SetName into the set actually
// referenced: the explicit name if given (unless it is the "_" default
// sentinel), otherwise the previous default set carried forward by the
// enclosing Subrequest.
func resolveSet(explicit *ast.SetName, previousDefault ast.SetName) ast.SetName {
	if explicit == nil {
		return previousDefault
	}
	if *explicit == ast.DefaultSet {
		return previousDefault
	}
	return *explicit
}

// indent prepends four spaces to every line of s.
func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "    " + line
	}
	return strings.Join(lines, "\n")
}
