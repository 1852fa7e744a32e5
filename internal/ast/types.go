// Package ast holds the typed, validated representation of an Overpass QL
// request. Values in this package are constructed once by the dsl package
// and are read-only for the remainder of a compilation.
package ast

import "regexp"

// SetName identifies a CTE binding. "_" denotes the last default set in
// the current lexical chain; any other value is either an explicit
// binding (->.name) or a counter-derived fallback.
type SetName string

const DefaultSet SetName = "_"

// ObjectType is one of the five object types accepted by QueryObjects: the
// four OSM entity kinds (node, way, relation, area) and nwr, which matches
// nodes, ways and relations.
type ObjectType string

const (
	ObjectNode     ObjectType = "node"
	ObjectWay      ObjectType = "way"
	ObjectRelation ObjectType = "relation"
	ObjectNWR      ObjectType = "nwr"
	ObjectArea     ObjectType = "area"
)

// Request is the top-level parsed entity. Immutable after construction.
type Request struct {
	// Timeout is the requested execution budget in seconds. Defaults to
	// 160 when the metadata block omits [timeout:N]; clamped to 500 at
	// emission time, never here.
	Timeout    uint32
	Subrequest Subrequest
}

// Subrequest is an ordered sequence of items, each either a Query or an
// Out. At least one item is required by the grammar.
type Subrequest struct {
	Items []SubrequestItem
}

// SubrequestItem holds exactly one of Query or Out.
type SubrequestItem struct {
	Query Query
	Out   *Out
}

// Query is the closed sum of the three query forms. Dispatch at emission
// time is a type switch over the three concrete cases below, never an
// open registry.
//
// Query carries only the explicit binding parsed from the source text.
// The counter-derived fallback identifier used when no explicit binding
// is given is strictly an emission-time concern (spec: "renaming default
// sets with the counter when no explicit binding exists") and lives in
// internal/emit, not here — the AST stays immutable and free of any
// auto-incrementing state so that parsing remains independent of how
// many times a query has been emitted.
type Query interface {
	// Binding returns the explicit assignment (->.name) if present.
	Binding() (SetName, bool)
	isQuery()
}

// QueryBase holds the set-naming field shared by all three Query cases.
// Embedded (not wrapped) so each case satisfies the Query interface
// directly, mirroring the per-struct asignation field of the original
// implementation.
type QueryBase struct {
	Assignment *SetName
}

func (q QueryBase) Binding() (SetName, bool) {
	if q.Assignment != nil {
		return *q.Assignment, true
	}
	return "", false
}

// QueryObjects selects OSM entities of a given type, filtered by tag
// selectors and spatial/id filters, optionally against a named input set.
type QueryObjects struct {
	QueryBase
	ObjectType ObjectType
	Selectors  Selectors
	Filters    *Filters
	InputSet   *SetName
}

func (QueryObjects) isQuery() {}

// QueryUnion combines the results of an ordered list of inner queries.
type QueryUnion struct {
	QueryBase
	Queries []Query
}

func (QueryUnion) isQuery() {}

// QueryRecurse lowers the ">" operator: nodes of ways, then nodes and ways
// referenced by relation members.
type QueryRecurse struct {
	QueryBase
	InputSet *SetName
}

func (QueryRecurse) isQuery() {}

// Selector is a single tag predicate: [key], [!key], or [key op value].
type Selector struct {
	Not      bool
	Key      string
	Operator *string // one of "=", "!=", "~", "!~"; nil means existence test
	Value    *string // for "=" / "!="
	Regex    *regexp.Regexp
}

// Selectors is a conjunction of Selector. An empty list contributes no
// conjunct to the emitted WHERE clause.
type Selectors struct {
	Items []Selector
}

// FilterAround is the (core, radius) pair for an "around" filter.
type FilterAround struct {
	Core   SetName
	Radius float64
}

// Filter holds at most one of its five kinds.
type Filter struct {
	BBox   *BBox
	Poly   []LatLon
	IDs    []int64
	AreaID *SetName
	Around *FilterAround
}

// BBox is (south, west, north, east).
type BBox struct {
	South, West, North, East float64
}

// LatLon is one vertex of a poly filter.
type LatLon struct {
	Lat, Lon float64
}

// Filters is an ordered, conjunctively-composed list of Filter.
type Filters struct {
	Items []Filter
}

// HasIDs is true iff any Filter in the list sets IDs.
func (f Filters) HasIDs() bool {
	for _, item := range f.Items {
		if len(item.IDs) > 0 {
			return true
		}
	}
	return false
}

// GeomMode is the "out" clause's geometry projection mode.
type GeomMode string

const (
	GeomGeom   GeomMode = "geom"
	GeomCenter GeomMode = "center"
	GeomBB     GeomMode = "bb"
	GeomIDs    GeomMode = "ids"
)

// DetailLevel is the "out" clause's field-inclusion level.
type DetailLevel string

const (
	DetailIDs  DetailLevel = "ids"
	DetailSkel DetailLevel = "skel"
	DetailBody DetailLevel = "body"
	DetailTags DetailLevel = "tags"
	DetailMeta DetailLevel = "meta"
)

// Out is one output statement: project rows from an input set (or the
// current default set) as a single JSON column.
type Out struct {
	InputSet *SetName
	Geom     GeomMode
	Detail   DetailLevel
}
