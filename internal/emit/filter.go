package emit

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/ritamzico/overpassql/internal/ast"
)

// filterPiece is what one ast.Filter contributes to the enclosing
// QueryObjects: a WHERE conjunct, and optionally a join line (non-precompute
// dialects) or standalone precompute statements (precompute dialects) for
// filters that need a companion geometry set.
type filterPiece struct {
	clause     string
	joinLine   string
	cteName    string
	cteSQL     string
	precompute []string
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func emitFilter(ctx *Context, table string, f ast.Filter) filterPiece {
	switch {
	case f.BBox != nil:
		return filterPiece{clause: emitBBoxFilter(ctx, table, *f.BBox)}
	case f.Poly != nil:
		return emitPolyFilter(ctx, table, f.Poly)
	case len(f.IDs) > 0:
		return filterPiece{clause: ctx.Dialect.IDInList("id", f.IDs)}
	case f.AreaID != nil:
		return emitAreaFilter(ctx, table, *f.AreaID)
	case f.Around != nil:
		return filterPiece{clause: emitAroundFilter(ctx, table, *f.Around)}
	default:
		return filterPiece{}
	}
}

func emitBBoxFilter(ctx *Context, table string, bbox ast.BBox) string {
	envelope := fmt.Sprintf(
		"ST_Envelope('SRID=4326;LINESTRING(%s %s, %s %s)'::geometry)",
		fmtFloat(bbox.West), fmtFloat(bbox.South), fmtFloat(bbox.East), fmtFloat(bbox.North),
	)
	transformed := ctx.Dialect.STTransform(envelope, ctx.SRID)
	return ctx.Dialect.STIntersectsExtentWithGeom(table, transformed)
}

// polyPrecomputeSQL builds the single-row geometry+bbox projection shared by
// both dialects' poly materialization.
func polyPrecomputeSQL(wkt string) string {
	return fmt.Sprintf(
		"SELECT\n    geom,\n    STRUCT_PACK(\n        xmin := ST_XMin(geom),\n        ymin := ST_YMin(geom),\n        xmax := ST_XMax(geom),\n        ymax := ST_YMax(geom)\n    ) AS bbox\nFROM\n    (SELECT %s AS geom) AS p",
		wkt,
	)
}

func polyName(transformed string) string {
	h := fnv.New64a()
	h.Write([]byte(transformed))
	return fmt.Sprintf("poly_%x", h.Sum64())
}

func emitPolyFilter(ctx *Context, table string, points []ast.LatLon) filterPiece {
	coords := make([]string, len(points))
	for i, p := range points {
		coords[i] = fmt.Sprintf("%s %s", fmtFloat(p.Lon), fmtFloat(p.Lat))
	}
	polyWKT := fmt.Sprintf("'SRID=4326;POLYGON((%s))'::geometry", strings.Join(coords, ", "))
	transformed := ctx.Dialect.STTransform(polyWKT, ctx.SRID)

	name := polyName(transformed)
	precomputeSQL := polyPrecomputeSQL(transformed)
	geomExpr := ctx.Dialect.TablePrecomputeGeom(name)
	clause := ctx.Dialect.STIntersectsWithGeom(table, geomExpr)

	if ctx.Dialect.IsPrecompute() {
		return filterPiece{clause: clause, precompute: ctx.Dialect.Precompute(name, precomputeSQL)}
	}
	return filterPiece{
		clause:   clause,
		joinLine: fmt.Sprintf("    JOIN _%s ON true", name),
		cteName:  name,
		cteSQL:   precomputeSQL,
	}
}

// emitAreaFilter joins against an already-bound area set; area() queries
// are themselves ordinary Query items, so nothing new needs precomputing
// here, only a reference to the set that was already materialized.
func emitAreaFilter(ctx *Context, table string, areaID ast.SetName) filterPiece {
	geomExpr := ctx.Dialect.TablePrecomputeGeom(string(areaID))
	clause := ctx.Dialect.STIntersectsWithGeom(table, geomExpr)
	if ctx.Dialect.IsPrecompute() {
		return filterPiece{clause: clause}
	}
	return filterPiece{clause: clause, joinLine: fmt.Sprintf("    JOIN _%s ON true", areaID)}
}

func emitAroundFilter(ctx *Context, table string, around ast.FilterAround) string {
	coreGeom := fmt.Sprintf("(SELECT %s(geom) FROM _%s)", ctx.Dialect.STUnion(), around.Core)

	utmZone := fmt.Sprintf(
		"\n    -- Calculate UTM zone from\n    32600 +\n    CASE WHEN ST_Y(ST_Centroid(\n        %s\n    )) >= 0 THEN 1 ELSE 31 END +\n    floor(ST_X(ST_Centroid(\n        %s\n    ) + 180) / 6)\n",
		coreGeom, coreGeom,
	)
	utmTransformed := ctx.Dialect.STTransform(coreGeom, utmZone)
	buffer := fmt.Sprintf("ST_Buffer(\n    %s,\n    %s\n)", utmTransformed, fmtFloat(around.Radius))
	transformed := ctx.Dialect.STTransform(buffer, ctx.SRID)

	return ctx.Dialect.STIntersectsWithGeom(table, transformed)
}
