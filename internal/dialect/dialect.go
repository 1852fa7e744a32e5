// Package dialect defines the SQL capability set that internal/emit lowers
// against, and the two concrete dialects (PostgreSQL/PostGIS, DuckDB
// spatial) that implement it.
package dialect

import "github.com/ritamzico/overpassql/internal/ast"

// Dialect is the capability set a SQL target must provide. Implementations
// are read-only after construction and safe for concurrent use by multiple
// compilations.
type Dialect interface {
	Name() string

	EscapeLiteral(s string) string
	StatementTimeout(ms uint32) string

	IsPrecompute() bool
	// Precompute returns zero or more standalone statements that define
	// setName (and any bbox companion) from innerSQL, for dialects where
	// IsPrecompute is true. Dialects that inline everything into one WITH
	// return nil.
	Precompute(setName, innerSQL string) []string

	IDInList(field string, ids []int64) string

	HashExists(key string) string
	HashGet(key string) string

	JSONStripNulls() string
	JSONBuildObject() string
	JSONBAgg() string
	JSONBuildBBox(geom string, srid string) string

	STUnion() string
	// STDumpPoints returns the per-vertex enumeration function name, or ""
	// when the dialect has no such primitive.
	STDumpPoints() string

	// TablePrecomputeGeom returns the geometry-handle expression for a
	// (possibly precomputed) set.
	TablePrecomputeGeom(setName string) string

	STIntersectsWithGeom(table, geomExpr string) string
	STIntersectsExtentWithGeom(table, geomExpr string) string

	STTransform(geomExpr, srid string) string
	STTransformReverse(geomExpr, srid string) string

	STAsGeoJSON(geomExpr string, digits int) string
}

// ByName instantiates a dialect by its driver-facing name. Unknown names
// are a hard error at the driver boundary, never inside the emitter.
func ByName(name string) (Dialect, error) {
	switch name {
	case "postgres":
		return NewPostgres(), nil
	case "duckdb":
		return NewDuckDB(), nil
	default:
		return nil, ast.UnsupportedDialect{Name: name}
	}
}
