package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritamzico/overpassql/internal/dialect"
	"github.com/ritamzico/overpassql/internal/dsl"
)

func compileOne(t *testing.T, query, dialectName string) []string {
	t.Helper()
	req, err := dsl.NewParser().ParseRequest(query)
	require.NoError(t, err)

	d, err := dialect.ByName(dialectName)
	require.NoError(t, err)

	return Compile(req, d, "4326", nil)
}

// Scenario 1: node(1,2,3,4);out; on PostgreSQL emits a bbox-filtered
// node_by_geom CTE joined into a single combined WITH.
func TestCompile_BBoxQuery(t *testing.T) {
	statements := compileOne(t, `node(1,2,3,4);out;`, "postgres")
	require.Len(t, statements, 2)

	stmt := statements[1]
	assert.True(t, strings.HasPrefix(stmt, "WITH\n"))
	assert.True(t, strings.HasSuffix(stmt, ";"))
	assert.Contains(t, stmt, "node_by_geom")
	assert.Contains(t, stmt, "ST_Envelope('SRID=4326;LINESTRING(2 1, 4 3)'::geometry)")
	assert.Contains(t, stmt, "ST_Intersects(")
	assert.Contains(t, stmt, "_out_0")
}

// Scenario 2: node(id:1,2,3);out; emits the dialect-appropriate id list
// predicate.
func TestCompile_IDListFilter(t *testing.T) {
	pg := compileOne(t, `node(id:1,2,3);out;`, "postgres")
	require.Len(t, pg, 2)
	assert.Contains(t, pg[1], "id = ANY (ARRAY[1, 2, 3])")

	duck := compileOne(t, `node(id:1,2,3);out;`, "duckdb")
	joined := strings.Join(duck, "\n")
	assert.Contains(t, joined, "(id = 1 OR id = 2 OR id = 3)")
}

// Scenario 3: area(...)->.a; nwr(area.a)->.x; .x out; chains a named area
// binding into a following query via area.a, and outputs the named set.
func TestCompile_AreaFilterChain(t *testing.T) {
	stmt := compileOne(t, `area(3600166718)->.a; nwr(area.a)->.x; .x out;`, "postgres")[1]

	assert.Contains(t, stmt, "_a AS (")
	assert.Contains(t, stmt, "_x AS (")
	assert.Contains(t, stmt, "_out_x AS (")
	assert.Contains(t, stmt, "SELECT * FROM _out_x")
}

// Scenario 4: (node->.a; way->.b;); out; emits a DISTINCT ON union ordered
// by (osm_type, id).
func TestCompile_Union(t *testing.T) {
	stmt := compileOne(t, `(node->.a; way->.b;); out;`, "postgres")[1]

	assert.Contains(t, stmt, "SELECT DISTINCT ON (osm_type, id)")
	assert.Contains(t, stmt, "ORDER BY\n        osm_type, id")
	assert.Contains(t, stmt, "_a")
	assert.Contains(t, stmt, "_b")
}

// A precompute dialect (DuckDB) materializes union children out of line, so
// the union's own SQL must not emit a bare "WITH" with no bindings.
func TestCompile_UnionDuckDBHasNoEmptyWith(t *testing.T) {
	statements := compileOne(t, `(node->.a; way->.b;); out;`, "duckdb")
	for _, s := range statements {
		assert.NotContains(t, s, "WITH\n\n")
	}
}

// Scenario 5: way(id:1)->.a; .a >->.b; .b out; emits the three-branch
// recursive UNION ALL keyed on the named input set.
func TestCompile_Recurse(t *testing.T) {
	stmt := compileOne(t, `way(id:1)->.a; .a >->.b; .b out;`, "postgres")[1]

	assert.Contains(t, stmt, "_b AS (")
	assert.Equal(t, 2, strings.Count(stmt, "UNION ALL"))
	assert.Contains(t, stmt, "jsonb_to_recordset(members)")
	assert.Contains(t, stmt, "members.type = 'n'")
	assert.Contains(t, stmt, "members.type = 'w'")
}

// Scenario 6: a poly filter against DuckDB emits a standalone
// CREATE TEMP TABLE / SET VARIABLE precompute pair ahead of the combined
// WITH statement.
func TestCompile_PolyFilterDuckDBPrecompute(t *testing.T) {
	statements := compileOne(t, `node(poly:"1 2 3 4 5 6")->.a;.a out;`, "duckdb")
	require.Greater(t, len(statements), 1)

	joined := strings.Join(statements[:len(statements)-1], "\n")
	assert.Contains(t, joined, "CREATE TEMP TABLE")
	assert.True(t, strings.Contains(joined, "SET VARIABLE") || strings.Contains(joined, "SET variable"))

	final := statements[len(statements)-1]
	assert.True(t, strings.HasPrefix(final, "WITH\n"))
}

func TestCompile_TimeoutClampedAt500(t *testing.T) {
	statements := compileOne(t, `[timeout:10000];node;out;`, "postgres")
	require.GreaterOrEqual(t, len(statements), 1)
	assert.Contains(t, statements[0], "500000")
}

func TestCompile_EveryStatementTerminated(t *testing.T) {
	for _, d := range []string{"postgres", "duckdb"} {
		statements := compileOne(t, `node(poly:"1 2 3 4 5 6")->.a;.a out;`, d)
		for _, s := range statements {
			assert.True(t, strings.HasSuffix(strings.TrimSpace(s), ";"), "statement %q must end with ;", s)
		}
	}
}

func TestCompile_DeterministicGivenFreshCounter(t *testing.T) {
	first := compileOne(t, `node(1,2,3,4);out;`, "postgres")
	second := compileOne(t, `node(1,2,3,4);out;`, "postgres")
	assert.Equal(t, first, second)
}

func TestCompile_OutProjectsSingleJSONColumn(t *testing.T) {
	stmt := compileOne(t, `node;out;`, "postgres")[1]
	assert.Contains(t, stmt, " AS j")
}

func TestCompile_AroundFilterUsesUTMZoneBuffer(t *testing.T) {
	stmt := compileOne(t, `node->.a; node(around.a:50);out;`, "postgres")[1]
	assert.Contains(t, stmt, "ST_Buffer(")
	assert.Contains(t, stmt, "32600")
}

// The default out clause (geom mode "geom") and an explicit "out bb;" must
// not include a spurious 'center' field; only geom mode "center" does.
func TestCompile_CenterFieldOnlyForCenterGeomMode(t *testing.T) {
	assert.NotContains(t, compileOne(t, `node;out;`, "postgres")[1], "'center'")
	assert.NotContains(t, compileOne(t, `node;out bb;`, "postgres")[1], "'center'")
	assert.Contains(t, compileOne(t, `node;out center;`, "postgres")[1], "'center'")
}
