package emit

import (
	"fmt"

	"github.com/ritamzico/overpassql/internal/ast"
)

// emitOut lowers one Out item into a single-statement SELECT producing one
// JSON column, aliased j, over the resolved input set.
func emitOut(ctx *Context, o *ast.Out, set ast.SetName) string {
	d := ctx.Dialect
	lonLat := d.STTransformReverse("geom", ctx.SRID)

	includeMembers := o.Detail == ast.DetailSkel || o.Detail == ast.DetailBody || o.Detail == ast.DetailMeta
	includeTags := o.Detail == ast.DetailBody || o.Detail == ast.DetailTags || o.Detail == ast.DetailMeta
	includeMeta := o.Detail == ast.DetailMeta

	fields := fmt.Sprintf(
		"'type', CASE osm_type\n        WHEN 'n' THEN 'node'\n        WHEN 'w' THEN 'way'\n        WHEN 'r' THEN 'relation'\n        WHEN 'a' THEN 'area'\n    END,\n    'id', id,\n    'lon', CASE osm_type WHEN 'n' THEN ST_X(%s)::numeric END,\n    'lat', CASE osm_type WHEN 'n' THEN ST_Y(%s)::numeric END",
		lonLat, lonLat,
	)

	if includeMeta {
		fields += ",\n    'timestamp', created,\n    'version', version,\n    'changeset', changeset,\n    'user', \"user\",\n    'uid', uid"
	}

	if o.Geom == ast.GeomCenter {
		fields += fmt.Sprintf(
			",\n    'center', CASE WHEN osm_type = 'w' OR osm_type = 'r' THEN %s(\n        'lon', ST_X(ST_PointOnSurface(%s))::numeric,\n        'lat', ST_Y(ST_PointOnSurface(%s))::numeric\n    ) END",
			d.JSONBuildObject(), lonLat, lonLat,
		)
	}

	if o.Geom == ast.GeomBB || o.Geom == ast.GeomGeom {
		fields += fmt.Sprintf(
			",\n    'bounds', CASE WHEN osm_type = 'w' OR osm_type = 'r' THEN\n%s\n    END",
			indent(d.JSONBuildBBox("geom", ctx.SRID)),
		)
	}

	if o.Geom == ast.GeomGeom {
		fields += ",\n    'geometry', " + emitWayGeometry(ctx, lonLat)
	}

	if includeMembers {
		fields += ",\n    'nodes', nodes,\n    'members', members"
	}

	if includeTags {
		fields += ",\n    'tags', tags"
	}

	projection := fmt.Sprintf("%s(\n    %s\n)", d.JSONBuildObject(), fields)
	if strip := d.JSONStripNulls(); strip != "" {
		projection = fmt.Sprintf("%s(\n%s\n)", strip, indent(projection))
	}

	return fmt.Sprintf("SELECT\n    %s AS j\nFROM\n    _%s", projection, set)
}

// emitWayGeometry renders a way's line geometry as an array of
// {lon, lat} objects. Dialects that expose a per-vertex dump function use it
// directly; otherwise the array is derived by rewriting the GeoJSON
// coordinate text emitted by STAsGeoJSON.
func emitWayGeometry(ctx *Context, lonLat string) string {
	d := ctx.Dialect
	asGeoJSON := d.STAsGeoJSON(lonLat, 7)

	if dump := d.STDumpPoints(); dump != "" {
		return fmt.Sprintf(
			"CASE osm_type WHEN 'w' THEN (\n        SELECT %s(%s('lon', ST_X(geom)::numeric, 'lat', ST_Y(geom)::numeric))\n        FROM %s(%s)\n    ) END",
			d.JSONBAgg(), d.JSONBuildObject(), dump, lonLat,
		)
	}

	return fmt.Sprintf(
		"CASE osm_type WHEN 'w' THEN\n        replace(replace(replace(replace(replace((\n            %s->'coordinates'\n        )::text, '[', '{\"lon\":'), ',', ',\"lat\":'), '{\"lon\":{\"lon\":', '[{\"lon\":'), '],\"lat\":{\"lon\":', '},{\"lon\":'), ']]', '}]')::json\n    END",
		asGeoJSON,
	)
}
