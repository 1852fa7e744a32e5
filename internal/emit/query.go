package emit

import (
	"fmt"
	"strings"

	"github.com/ritamzico/overpassql/internal/ast"
)

// cteEntry is one binding of a combined WITH statement.
type cteEntry struct {
	name string
	sql  string
}

// queryEmission is the result of lowering one ast.Query: the inner SELECT
// text for this query's own binding, plus whatever its filters demanded:
// extraCTEs for non-precompute dialects (materializations that must sit
// alongside this query's CTE, such as a poly filter's geometry), and
// precompute statements for precompute dialects (standalone statements
// that must run before this query's own CREATE TEMP TABLE).
type queryEmission struct {
	SQL        string
	ExtraCTEs  []cteEntry
	Precompute []string
}

func emitQuery(ctx *Context, q ast.Query, previousDefault ast.SetName) queryEmission {
	switch query := q.(type) {
	case ast.QueryObjects:
		return emitQueryObjects(ctx, query, previousDefault)
	case ast.QueryUnion:
		return emitQueryUnion(ctx, query, previousDefault)
	case ast.QueryRecurse:
		return emitQueryRecurse(ctx, query, previousDefault)
	default:
		panic(fmt.Sprintf("emit: unhandled ast.Query implementation %T", q))
	}
}

func tableFor(objType ast.ObjectType, filters *ast.Filters) string {
	if objType == ast.ObjectNWR || (filters != nil && filters.HasIDs()) {
		return string(objType) + "_by_id"
	}
	return string(objType) + "_by_geom"
}

func emitQueryObjects(ctx *Context, q ast.QueryObjects, previousDefault ast.SetName) queryEmission {
	var source string
	if q.InputSet == nil {
		source = tableFor(q.ObjectType, q.Filters)
	} else {
		source = "_" + string(resolveSet(q.InputSet, previousDefault))
	}

	var whereClauses []string
	if q.ObjectType != ast.ObjectNWR && q.ObjectType != ast.ObjectArea {
		whereClauses = append(whereClauses, fmt.Sprintf("osm_type = '%c'", q.ObjectType[0]))
	}
	if len(q.Selectors.Items) > 0 {
		whereClauses = append(whereClauses, emitSelectors(ctx, q.Selectors))
	}

	var joinLines []string
	var extraCTEs []cteEntry
	var precompute []string
	if q.Filters != nil && len(q.Filters.Items) > 0 {
		var conjuncts []string
		for _, f := range q.Filters.Items {
			piece := emitFilter(ctx, source, f)
			conjuncts = append(conjuncts, piece.clause)
			if piece.joinLine != "" {
				joinLines = append(joinLines, piece.joinLine)
			}
			if piece.cteName != "" {
				extraCTEs = append(extraCTEs, cteEntry{name: piece.cteName, sql: piece.cteSQL})
			}
			precompute = append(precompute, piece.precompute...)
		}
		whereClauses = append(whereClauses, strings.Join(conjuncts, " AND\n    "))
	}

	var b strings.Builder
	b.WriteString("SELECT\n    *\nFROM\n    ")
	b.WriteString(source)
	for _, j := range joinLines {
		b.WriteString("\n")
		b.WriteString(j)
	}
	if len(whereClauses) > 0 {
		b.WriteString("\nWHERE\n    ")
		b.WriteString(strings.Join(whereClauses, " AND\n    "))
	}

	return queryEmission{SQL: b.String(), ExtraCTEs: extraCTEs, Precompute: precompute}
}

func emitQueryUnion(ctx *Context, q ast.QueryUnion, previousDefault ast.SetName) queryEmission {
	current := previousDefault
	var ctes []cteEntry
	var asignations []string
	var precompute []string

	for _, child := range q.Queries {
		qe := emitQuery(ctx, child, current)

		name, has := child.Binding()
		if !has {
			name = ctx.Counter.Next()
		}

		if ctx.Dialect.IsPrecompute() {
			precompute = append(precompute, qe.Precompute...)
			precompute = append(precompute, ctx.Dialect.Precompute(string(name), qe.SQL)...)
		} else {
			ctes = append(ctes, qe.ExtraCTEs...)
			ctes = append(ctes, cteEntry{name: string(name), sql: qe.SQL})
		}

		asignations = append(asignations, fmt.Sprintf("(SELECT * FROM _%s)", name))
		current = name
	}

	var with []string
	for _, c := range ctes {
		with = append(with, fmt.Sprintf("_%s AS (\n%s\n)", c.name, indent(c.sql)))
	}

	var withPrefix string
	if len(with) > 0 {
		withPrefix = "WITH\n" + strings.Join(with, ",\n") + "\n"
	}

	sql := fmt.Sprintf(
		"%sSELECT DISTINCT ON (osm_type, id)\n    *\nFROM (\n    %s\n) AS t\nORDER BY\n    osm_type, id",
		withPrefix,
		strings.Join(asignations, " UNION\n    "),
	)

	return queryEmission{SQL: sql, Precompute: precompute}
}

func emitQueryRecurse(ctx *Context, q ast.QueryRecurse, previousDefault ast.SetName) queryEmission {
	source := "_" + string(resolveSet(q.InputSet, previousDefault))

	sql := fmt.Sprintf(`SELECT
    node.*
FROM
    %[1]s AS way
    JOIN node_by_id AS node ON
        node.id = ANY(way.nodes)
WHERE
    way.osm_type = 'w'
UNION ALL
SELECT
    node.*
FROM
    %[1]s AS relation
    JOIN LATERAL (
        SELECT * FROM jsonb_to_recordset(members) AS t(ref bigint, role text, type text)
    ) AS members ON
        members.type = 'n'
    JOIN node_by_id AS node ON
        node.id = members.ref
WHERE
    relation.osm_type = 'r'
UNION ALL
SELECT
    way.*
FROM
    %[1]s AS relation
    JOIN LATERAL (
        SELECT * FROM jsonb_to_recordset(members) AS t(ref bigint, role text, type text)
    ) AS members ON
        members.type = 'w'
    JOIN way_by_id AS way ON
        way.id = members.ref
WHERE
    relation.osm_type = 'r'`, source)

	return queryEmission{SQL: sql}
}
