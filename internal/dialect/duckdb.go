package dialect

import (
	"fmt"
	"strconv"
	"strings"
)

// DuckDB targets duckdb_spatial. Every referenced set is materialized as a
// standalone CREATE TEMP TABLE plus a companion cached bbox variable,
// instead of living as a CTE inside one combined statement.
type DuckDB struct{}

func NewDuckDB() *DuckDB {
	return &DuckDB{}
}

func (d *DuckDB) Name() string { return "duckdb" }

func (d *DuckDB) EscapeLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// StatementTimeout returns the empty string: DuckDB has no equivalent of
// Postgres's statement_timeout GUC reachable from this driver.
func (d *DuckDB) StatementTimeout(ms uint32) string { return "" }

func (d *DuckDB) IsPrecompute() bool { return true }

func (d *DuckDB) Precompute(setName, innerSQL string) []string {
	return []string{
		fmt.Sprintf("CREATE TEMP TABLE _%s AS %s;", setName, innerSQL),
		fmt.Sprintf(
			"SET VARIABLE _%[1]s_bbox = (SELECT struct_pack(xmin := ST_XMin(geom), xmax := ST_XMax(geom), ymin := ST_YMin(geom), ymax := ST_YMax(geom)) FROM _%[1]s);",
			setName,
		),
	}
}

func (d *DuckDB) IDInList(field string, ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%s = %s", field, strconv.FormatInt(id, 10))
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

func (d *DuckDB) HashExists(key string) string {
	return fmt.Sprintf("(tags->>%s) IS NOT NULL", d.EscapeLiteral(key))
}

func (d *DuckDB) HashGet(key string) string {
	return fmt.Sprintf("(tags->>%s)", d.EscapeLiteral(key))
}

// JSONStripNulls returns the empty string: DuckDB's json_object already
// omits absent keys, so the emitter skips wrapping the projection when
// this returns "".
func (d *DuckDB) JSONStripNulls() string  { return "" }
func (d *DuckDB) JSONBuildObject() string { return "json_object" }
func (d *DuckDB) JSONBAgg() string        { return "json_group_array" }

func (d *DuckDB) JSONBuildBBox(geomExpr string, srid string) string {
	return fmt.Sprintf(
		"json_object('minlon', ST_XMin(%[1]s), 'minlat', ST_YMin(%[1]s), 'maxlon', ST_XMax(%[1]s), 'maxlat', ST_YMax(%[1]s))",
		d.STTransformReverse(geomExpr, srid),
	)
}

// STUnion returns the empty string: DuckDB spatial has no ST_Union
// aggregate wired through this driver yet.
func (d *DuckDB) STUnion() string { return "" }

// STDumpPoints returns the empty string: the emitter falls back to the
// textual GeoJSON-coordinate rewrite when this is empty.
func (d *DuckDB) STDumpPoints() string { return "" }

func (d *DuckDB) TablePrecomputeGeom(setName string) string {
	return fmt.Sprintf("(SELECT geom FROM _%s)", setName)
}

func (d *DuckDB) STIntersectsExtentWithGeom(table, geomExpr string) string {
	return fmt.Sprintf(
		"getvariable('_%[1]s_bbox').xmin <= ST_XMax(%[2]s) AND\n"+
			"getvariable('_%[1]s_bbox').xmax >= ST_XMin(%[2]s) AND\n"+
			"getvariable('_%[1]s_bbox').ymin <= ST_YMax(%[2]s) AND\n"+
			"getvariable('_%[1]s_bbox').ymax >= ST_YMin(%[2]s)",
		table, geomExpr,
	)
}

func (d *DuckDB) STIntersectsWithGeom(table, geomExpr string) string {
	return d.STIntersectsExtentWithGeom(table, geomExpr) + fmt.Sprintf(
		" AND\nST_Intersects(\n    %s,\n    %s.geom\n)", geomExpr, table,
	)
}

// STTransform concatenates the EPSG prefix onto srid rather than
// interpolating it into a string literal, so a dynamic SRID expression
// (the around filter's computed UTM zone) works the same as a plain literal.
func (d *DuckDB) STTransform(geomExpr, srid string) string {
	return fmt.Sprintf("ST_Transform(%s, 'EPSG:4326', 'EPSG:' || (%s)::text)", geomExpr, srid)
}

func (d *DuckDB) STTransformReverse(geomExpr, srid string) string {
	return fmt.Sprintf("ST_Transform(%s, 'EPSG:' || (%s)::text, 'EPSG:4326')", geomExpr, srid)
}

func (d *DuckDB) STAsGeoJSON(geomExpr string, _ int) string {
	return fmt.Sprintf("ST_AsGeoJSON(%s)", geomExpr)
}
