package dialect

import (
	"fmt"
	"strconv"
	"strings"
)

// Postgres targets PostgreSQL + PostGIS. Every referenced set lives as a
// CTE inside one combined WITH statement; there is no precomputation.
type Postgres struct {
	// EscapeLiteralFunc overrides the default doubled-quote escaping when
	// set. Left nil, EscapeLiteral falls back to the standard behavior.
	EscapeLiteralFunc func(string) string
}

func NewPostgres() *Postgres {
	return &Postgres{}
}

func (p *Postgres) Name() string { return "postgres" }

func (p *Postgres) EscapeLiteral(s string) string {
	if p.EscapeLiteralFunc != nil {
		return p.EscapeLiteralFunc(s)
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (p *Postgres) StatementTimeout(ms uint32) string {
	return fmt.Sprintf("SET statement_timeout = %d;", ms)
}

func (p *Postgres) IsPrecompute() bool { return false }

func (p *Postgres) Precompute(setName, innerSQL string) []string { return nil }

func (p *Postgres) IDInList(field string, ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("%s = ANY (ARRAY[%s])", field, strings.Join(parts, ", "))
}

func (p *Postgres) HashExists(key string) string {
	return fmt.Sprintf("tags?%s", p.EscapeLiteral(key))
}

func (p *Postgres) HashGet(key string) string {
	return fmt.Sprintf("tags->>%s", p.EscapeLiteral(key))
}

func (p *Postgres) JSONStripNulls() string  { return "jsonb_strip_nulls" }
func (p *Postgres) JSONBuildObject() string { return "jsonb_build_object" }
func (p *Postgres) JSONBAgg() string        { return "jsonb_agg" }

func (p *Postgres) JSONBuildBBox(geom string, srid string) string {
	return fmt.Sprintf(
		"jsonb_build_object('minlon', ST_XMin(%[1]s), 'minlat', ST_YMin(%[1]s), 'maxlon', ST_XMax(%[1]s), 'maxlat', ST_YMax(%[1]s))",
		p.STTransformReverse(geom, srid),
	)
}

func (p *Postgres) STUnion() string { return "ST_Union" }

func (p *Postgres) STDumpPoints() string { return "ST_DumpPoints" }

func (p *Postgres) TablePrecomputeGeom(setName string) string {
	return fmt.Sprintf("(SELECT geom FROM _%s)", setName)
}

func (p *Postgres) STIntersectsWithGeom(table, geomExpr string) string {
	return fmt.Sprintf("ST_Intersects(\n    %s,\n    %s.geom\n)", geomExpr, table)
}

// STIntersectsExtentWithGeom is identical to STIntersectsWithGeom: Postgres
// gets its bounding-box prefilter for free from the GiST operator class
// backing ST_Intersects, so there is no separate extent-only predicate.
func (p *Postgres) STIntersectsExtentWithGeom(table, geomExpr string) string {
	return p.STIntersectsWithGeom(table, geomExpr)
}

func (p *Postgres) STTransform(geomExpr, srid string) string {
	return fmt.Sprintf("ST_Transform(%s, %s)", geomExpr, srid)
}

func (p *Postgres) STTransformReverse(geomExpr, _ string) string {
	return fmt.Sprintf("ST_Transform(%s, 4326)", geomExpr)
}

func (p *Postgres) STAsGeoJSON(geomExpr string, digits int) string {
	return fmt.Sprintf("ST_AsGeoJSON(%s, %d)", geomExpr, digits)
}
