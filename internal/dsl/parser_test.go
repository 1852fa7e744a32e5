package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritamzico/overpassql/internal/ast"
)

func TestParser_SimpleBBoxQuery(t *testing.T) {
	req, err := NewParser().ParseRequest(`node(1,2,3,4);out;`)
	require.NoError(t, err)
	require.Len(t, req.Subrequest.Items, 2)

	objects, ok := req.Subrequest.Items[0].Query.(ast.QueryObjects)
	require.Truef(t, ok, "expected QueryObjects, got %T", req.Subrequest.Items[0].Query)
	assert.Equal(t, ast.ObjectNode, objects.ObjectType)
	require.Len(t, objects.Filters.Items, 1)
	require.NotNil(t, objects.Filters.Items[0].BBox)
	assert.Equal(t, ast.BBox{South: 1, West: 2, North: 3, East: 4}, *objects.Filters.Items[0].BBox)

	require.NotNil(t, req.Subrequest.Items[1].Out)
}

func TestParser_IDListFilter(t *testing.T) {
	req, err := NewParser().ParseRequest(`node(id:1,2,3);out;`)
	require.NoError(t, err)

	objects := req.Subrequest.Items[0].Query.(ast.QueryObjects)
	require.Len(t, objects.Filters.Items, 1)
	assert.Equal(t, []int64{1, 2, 3}, objects.Filters.Items[0].IDs)
}

func TestParser_SelectorVariants(t *testing.T) {
	req, err := NewParser().ParseRequest(`node["amenity"]["name"!~"old"][!disused]["shop"="bakery"];out;`)
	require.NoError(t, err)

	objects := req.Subrequest.Items[0].Query.(ast.QueryObjects)
	require.Len(t, objects.Selectors.Items, 4)

	assert.Equal(t, "amenity", objects.Selectors.Items[0].Key)
	assert.Nil(t, objects.Selectors.Items[0].Operator)

	assert.Equal(t, "name", objects.Selectors.Items[1].Key)
	require.NotNil(t, objects.Selectors.Items[1].Operator)
	assert.Equal(t, "!~", *objects.Selectors.Items[1].Operator)
	require.NotNil(t, objects.Selectors.Items[1].Regex)

	assert.True(t, objects.Selectors.Items[2].Not)
	assert.Equal(t, "disused", objects.Selectors.Items[2].Key)

	assert.Equal(t, "shop", objects.Selectors.Items[3].Key)
	require.NotNil(t, objects.Selectors.Items[3].Value)
	assert.Equal(t, "bakery", *objects.Selectors.Items[3].Value)
}

func TestParser_SetBindingAndReference(t *testing.T) {
	req, err := NewParser().ParseRequest(`area(3600166718)->.a; nwr(area.a)->.x; .x out;`)
	require.NoError(t, err)
	require.Len(t, req.Subrequest.Items, 3)

	area := req.Subrequest.Items[0].Query.(ast.QueryObjects)
	binding, ok := area.Binding()
	require.True(t, ok)
	assert.Equal(t, ast.SetName("a"), binding)

	nwr := req.Subrequest.Items[1].Query.(ast.QueryObjects)
	require.Len(t, nwr.Filters.Items, 1)
	require.NotNil(t, nwr.Filters.Items[0].AreaID)
	assert.Equal(t, ast.SetName("a"), *nwr.Filters.Items[0].AreaID)

	out := req.Subrequest.Items[2].Out
	require.NotNil(t, out.InputSet)
	assert.Equal(t, ast.SetName("x"), *out.InputSet)
}

func TestParser_Union(t *testing.T) {
	req, err := NewParser().ParseRequest(`(node->.a; way->.b;); out;`)
	require.NoError(t, err)

	union, ok := req.Subrequest.Items[0].Query.(ast.QueryUnion)
	require.Truef(t, ok, "expected QueryUnion, got %T", req.Subrequest.Items[0].Query)
	require.Len(t, union.Queries, 2)
}

func TestParser_Recurse(t *testing.T) {
	req, err := NewParser().ParseRequest(`way(id:1)->.a; .a >->.b; .b out;`)
	require.NoError(t, err)

	recurse, ok := req.Subrequest.Items[1].Query.(ast.QueryRecurse)
	require.Truef(t, ok, "expected QueryRecurse, got %T", req.Subrequest.Items[1].Query)
	require.NotNil(t, recurse.InputSet)
	assert.Equal(t, ast.SetName("a"), *recurse.InputSet)
	binding, ok := recurse.Binding()
	require.True(t, ok)
	assert.Equal(t, ast.SetName("b"), binding)
}

func TestParser_AroundFilter(t *testing.T) {
	req, err := NewParser().ParseRequest(`node(around.a:50);out;`)
	require.NoError(t, err)

	objects := req.Subrequest.Items[0].Query.(ast.QueryObjects)
	require.Len(t, objects.Filters.Items, 1)
	require.NotNil(t, objects.Filters.Items[0].Around)
	assert.Equal(t, ast.SetName("a"), objects.Filters.Items[0].Around.Core)
	assert.Equal(t, 50.0, objects.Filters.Items[0].Around.Radius)
}

func TestParser_PolyFilter(t *testing.T) {
	req, err := NewParser().ParseRequest(`node(poly:"1 2 3 4 5 6")->.a;.a out;`)
	require.NoError(t, err)

	objects := req.Subrequest.Items[0].Query.(ast.QueryObjects)
	require.Len(t, objects.Filters.Items, 1)
	require.Equal(t, []ast.LatLon{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}, {Lat: 5, Lon: 6}}, objects.Filters.Items[0].Poly)
}

func TestParser_OutModifiers(t *testing.T) {
	req, err := NewParser().ParseRequest(`node;out geom meta;`)
	require.NoError(t, err)

	out := req.Subrequest.Items[1].Out
	require.NotNil(t, out)
	assert.Equal(t, ast.GeomGeom, out.Geom)
	assert.Equal(t, ast.DetailMeta, out.Detail)
}

func TestParser_TimeoutMetadata(t *testing.T) {
	req, err := NewParser().ParseRequest(`[timeout:60];node;out;`)
	require.NoError(t, err)
	assert.Equal(t, uint32(60), req.Timeout)
}

func TestParser_DefaultTimeout(t *testing.T) {
	req, err := NewParser().ParseRequest(`node;out;`)
	require.NoError(t, err)
	assert.Equal(t, uint32(160), req.Timeout)
}

func TestParser_EmptySelectorList(t *testing.T) {
	req, err := NewParser().ParseRequest(`node;out;`)
	require.NoError(t, err)

	objects := req.Subrequest.Items[0].Query.(ast.QueryObjects)
	assert.Empty(t, objects.Selectors.Items)
}

func TestParser_UnterminatedStatementIsParseError(t *testing.T) {
	_, err := NewParser().ParseRequest(`node(1,2,3,4)`)
	require.Error(t, err)
}

func TestParser_MalformedNumberIsNumericOrParseError(t *testing.T) {
	_, err := NewParser().ParseRequest(`node(around.a:notanumber);out;`)
	require.Error(t, err)
}
