package emit

import (
	"strings"

	"github.com/ritamzico/overpassql/internal/ast"
	"github.com/ritamzico/overpassql/internal/dialect"
)

// maxTimeoutSeconds is the hard ceiling applied to Request.Timeout at
// emission time, regardless of what the [timeout:N] metadata requested.
const maxTimeoutSeconds = 500

// Compile lowers a validated ast.Request into the ordered sequence of SQL
// statements a driver must execute. The last statement is always the
// combined WITH producing the query's final result; any statements before
// it are the dialect's statement-timeout statement (when it has one)
// followed by the standalone precompute steps of a precompute dialect.
//
// finalizer, if non-nil, replaces the usual "union of every out" tail with
// a caller-supplied SQL template: every occurrence of {{query}} is replaced
// with a reference to the last default set.
func Compile(req *ast.Request, d dialect.Dialect, srid string, finalizer *string) []string {
	ctx := newContext(d, srid)

	var statements []string
	timeout := req.Timeout
	if timeout > maxTimeoutSeconds {
		timeout = maxTimeoutSeconds
	}
	if stmt := d.StatementTimeout(timeout * 1000); stmt != "" {
		statements = append(statements, stmt)
	}

	var ctes []cteEntry
	var outNames []string
	previousDefault := ast.DefaultSet

	for _, item := range req.Subrequest.Items {
		switch {
		case item.Query != nil:
			qe := emitQuery(ctx, item.Query, previousDefault)

			name, has := item.Query.Binding()
			if !has {
				name = ctx.Counter.Next()
			}

			if d.IsPrecompute() {
				statements = append(statements, qe.Precompute...)
				statements = append(statements, d.Precompute(string(name), qe.SQL)...)
			} else {
				ctes = append(ctes, qe.ExtraCTEs...)
				ctes = append(ctes, cteEntry{name: string(name), sql: qe.SQL})
			}
			previousDefault = name

		case item.Out != nil:
			set := resolveSet(item.Out.InputSet, previousDefault)
			outName := "out_" + string(set)
			ctes = append(ctes, cteEntry{name: outName, sql: emitOut(ctx, item.Out, set)})
			outNames = append(outNames, outName)
		}
	}

	var final string
	if finalizer != nil {
		ctes = append(ctes, cteEntry{
			name: "__finalizer",
			sql:  strings.ReplaceAll(*finalizer, "{{query}}", "_"+string(previousDefault)),
		})
		final = "SELECT * FROM __finalizer"
	} else {
		parts := make([]string, len(outNames))
		for i, n := range outNames {
			parts[i] = "SELECT * FROM _" + n
		}
		final = strings.Join(parts, "\nUNION ALL\n")
	}

	var with []string
	for _, c := range ctes {
		with = append(with, "_"+c.name+" AS (\n"+indent(c.sql)+"\n)")
	}

	combined := "WITH\n" + strings.Join(with, ",\n") + "\n" + final + ";"
	statements = append(statements, combined)

	return statements
}
