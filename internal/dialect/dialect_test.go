package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritamzico/overpassql/internal/ast"
)

func TestByName(t *testing.T) {
	pg, err := ByName("postgres")
	require.NoError(t, err)
	assert.Equal(t, "postgres", pg.Name())
	assert.False(t, pg.IsPrecompute())

	duck, err := ByName("duckdb")
	require.NoError(t, err)
	assert.Equal(t, "duckdb", duck.Name())
	assert.True(t, duck.IsPrecompute())
}

func TestByName_Unsupported(t *testing.T) {
	_, err := ByName("sqlite")
	require.Error(t, err)
	var unsupported ast.UnsupportedDialect
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "sqlite", unsupported.Name)
}

func TestPostgres_IDInList(t *testing.T) {
	p := NewPostgres()
	assert.Equal(t, "id = ANY (ARRAY[1, 2, 3])", p.IDInList("id", []int64{1, 2, 3}))
}

func TestDuckDB_IDInList(t *testing.T) {
	d := NewDuckDB()
	assert.Equal(t, "(id = 1 OR id = 2 OR id = 3)", d.IDInList("id", []int64{1, 2, 3}))
}

func TestPostgres_StatementTimeout(t *testing.T) {
	p := NewPostgres()
	assert.Equal(t, "SET statement_timeout = 5000;", p.StatementTimeout(5000))
}

func TestDuckDB_StatementTimeout_Empty(t *testing.T) {
	d := NewDuckDB()
	assert.Equal(t, "", d.StatementTimeout(5000))
}

func TestDuckDB_STTransform_AcceptsExpressionSRID(t *testing.T) {
	d := NewDuckDB()
	expr := d.STTransform("geom", "32600 + floor(ST_X(centroid) / 6)")
	assert.Contains(t, expr, "'EPSG:' || (32600 + floor(ST_X(centroid) / 6))::text")
}

func TestDuckDB_Precompute(t *testing.T) {
	d := NewDuckDB()
	statements := d.Precompute("a", "SELECT 1")
	require.Len(t, statements, 2)
	assert.Equal(t, "CREATE TEMP TABLE _a AS SELECT 1;", statements[0])
	assert.Contains(t, statements[1], "SET VARIABLE _a_bbox")
}

func TestPostgres_Precompute_ReturnsNil(t *testing.T) {
	p := NewPostgres()
	assert.Nil(t, p.Precompute("a", "SELECT 1"))
}

func TestPostgres_EscapeLiteral(t *testing.T) {
	p := NewPostgres()
	assert.Equal(t, "'it''s'", p.EscapeLiteral("it's"))
}
