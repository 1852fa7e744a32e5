package dsl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ritamzico/overpassql/internal/ast"
)

const defaultTimeout = 160

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			inner := s[1 : len(s)-1]
			inner = strings.ReplaceAll(inner, `\"`, `"`)
			inner = strings.ReplaceAll(inner, `\'`, `'`)
			return inner
		}
	}
	return s
}

func parseFloat(field, literal string) (float64, error) {
	v, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return 0, ast.NumericError{Field: field, Literal: literal}
	}
	return v, nil
}

func parseInt(field, literal string) (int64, error) {
	v, err := strconv.ParseInt(literal, 10, 64)
	if err != nil {
		return 0, ast.NumericError{Field: field, Literal: literal}
	}
	return v, nil
}

func convertRequest(p *RequestAST) (*ast.Request, error) {
	req := &ast.Request{Timeout: defaultTimeout}
	for _, m := range p.Metadata {
		if strings.EqualFold(m.Key, "timeout") && m.Value != nil {
			v, err := parseInt("timeout", *m.Value)
			if err != nil {
				return nil, err
			}
			req.Timeout = uint32(v)
		}
	}

	sub, err := convertSubrequest(&p.Subrequest)
	if err != nil {
		return nil, err
	}
	req.Subrequest = *sub
	return req, nil
}

func convertSubrequest(p *SubrequestAST) (*ast.Subrequest, error) {
	sub := &ast.Subrequest{}
	for _, item := range p.Items {
		converted, err := convertSubrequestItem(item)
		if err != nil {
			return nil, err
		}
		sub.Items = append(sub.Items, converted)
	}
	return sub, nil
}

func convertSubrequestItem(p *SubrequestItemAST) (ast.SubrequestItem, error) {
	switch {
	case p.Out != nil:
		out, err := convertOut(p.Out)
		if err != nil {
			return ast.SubrequestItem{}, err
		}
		return ast.SubrequestItem{Out: out}, nil

	case p.Query != nil:
		q, err := convertQuery(p.Query)
		if err != nil {
			return ast.SubrequestItem{}, err
		}
		return ast.SubrequestItem{Query: q}, nil

	default:
		return ast.SubrequestItem{}, ast.StructuralError{
			Rule:    "SubrequestItem",
			Message: "neither an Out clause nor a Query was present",
		}
	}
}

func convertQuery(p *QueryAST) (ast.Query, error) {
	switch {
	case p.Recurse != nil:
		return convertQueryRecurse(p.Recurse)
	case p.Union != nil:
		return convertQueryUnion(p.Union)
	case p.Objects != nil:
		return convertQueryObjects(p.Objects)
	default:
		return nil, ast.StructuralError{
			Rule:    "Query",
			Message: "none of Recurse, Union, or Objects was present",
		}
	}
}

func convertAssign(a *AssignAST) *ast.SetName {
	if a == nil {
		return nil
	}
	name := ast.SetName(a.Name)
	return &name
}

func convertDotID(d *DotIDAST) *ast.SetName {
	if d == nil {
		return nil
	}
	name := ast.SetName(d.Name)
	return &name
}

func convertQueryRecurse(p *QueryRecurseAST) (ast.Query, error) {
	return ast.QueryRecurse{
		QueryBase: ast.QueryBase{Assignment: convertAssign(p.Assign)},
		InputSet:  convertDotID(p.Input),
	}, nil
}

func convertQueryUnion(p *QueryUnionAST) (ast.Query, error) {
	queries := make([]ast.Query, 0, len(p.Queries))
	for _, q := range p.Queries {
		converted, err := convertQuery(q)
		if err != nil {
			return nil, err
		}
		queries = append(queries, converted)
	}
	return ast.QueryUnion{
		QueryBase: ast.QueryBase{Assignment: convertAssign(p.Assign)},
		Queries:   queries,
	}, nil
}

func convertQueryObjects(p *QueryObjectsAST) (ast.Query, error) {
	objType, err := convertObjectType(p.ObjectType)
	if err != nil {
		return nil, err
	}

	selectors, err := convertSelectors(p.Selectors)
	if err != nil {
		return nil, err
	}

	var filters *ast.Filters
	if len(p.Filters) > 0 {
		f, err := convertFilterGroups(p.Filters)
		if err != nil {
			return nil, err
		}
		filters = f
	}

	return ast.QueryObjects{
		QueryBase:  ast.QueryBase{Assignment: convertAssign(p.Assign)},
		ObjectType: objType,
		Selectors:  selectors,
		Filters:    filters,
		InputSet:   convertDotID(p.InputSet),
	}, nil
}

func convertObjectType(s string) (ast.ObjectType, error) {
	switch strings.ToLower(s) {
	case "node":
		return ast.ObjectNode, nil
	case "way":
		return ast.ObjectWay, nil
	case "relation":
		return ast.ObjectRelation, nil
	case "nwr":
		return ast.ObjectNWR, nil
	case "area":
		return ast.ObjectArea, nil
	default:
		return "", ast.StructuralError{
			Rule:    "ObjectType",
			Message: fmt.Sprintf("unknown object type %q", s),
		}
	}
}

func convertSelectors(ps []*SelectorAST) (ast.Selectors, error) {
	selectors := ast.Selectors{}
	for _, p := range ps {
		s, err := convertSelector(p)
		if err != nil {
			return ast.Selectors{}, err
		}
		selectors.Items = append(selectors.Items, s)
	}
	return selectors, nil
}

func convertSelector(p *SelectorAST) (ast.Selector, error) {
	s := ast.Selector{
		Not: p.Not,
		Key: unquote(p.Key),
	}
	if p.OpVal == nil {
		return s, nil
	}

	op := p.OpVal.Operator
	s.Operator = &op
	value := unquote(p.OpVal.Value)

	if op == "~" || op == "!~" {
		re, err := regexp.Compile(value)
		if err != nil {
			return ast.Selector{}, ast.ParseError{Message: fmt.Sprintf("invalid regular expression %q: %v", value, err)}
		}
		s.Regex = re
		return s, nil
	}

	s.Value = &value
	return s, nil
}

func convertFilterGroups(ps []*FilterGroupAST) (*ast.Filters, error) {
	filters := &ast.Filters{}
	for _, p := range ps {
		f, err := convertFilter(p.Body)
		if err != nil {
			return nil, err
		}
		filters.Items = append(filters.Items, f)
	}
	return filters, nil
}

func convertFilter(p *FilterBodyAST) (ast.Filter, error) {
	switch {
	case p.BBox != nil:
		return convertFilterBBox(p.BBox)
	case p.Poly != nil:
		return convertFilterPoly(p.Poly)
	case p.ID != nil:
		v, err := parseInt("id", p.ID.ID)
		if err != nil {
			return ast.Filter{}, err
		}
		return ast.Filter{IDs: []int64{v}}, nil
	case p.Ids != nil:
		return convertFilterIds(p.Ids)
	case p.Area != nil:
		name := ast.SetName(p.Area.AreaID)
		return ast.Filter{AreaID: &name}, nil
	case p.Around != nil:
		return convertFilterAround(p.Around)
	default:
		return ast.Filter{}, ast.StructuralError{
			Rule:    "Filter",
			Message: "none of the recognized filter kinds was present",
		}
	}
}

func convertFilterBBox(p *FilterBBoxAST) (ast.Filter, error) {
	south, err := parseFloat("bbox.south", p.South)
	if err != nil {
		return ast.Filter{}, err
	}
	west, err := parseFloat("bbox.west", p.West)
	if err != nil {
		return ast.Filter{}, err
	}
	north, err := parseFloat("bbox.north", p.North)
	if err != nil {
		return ast.Filter{}, err
	}
	east, err := parseFloat("bbox.east", p.East)
	if err != nil {
		return ast.Filter{}, err
	}
	return ast.Filter{BBox: &ast.BBox{South: south, West: west, North: north, East: east}}, nil
}

func convertFilterPoly(p *FilterPolyAST) (ast.Filter, error) {
	raw := unquote(p.Coords)
	fields := strings.Fields(raw)
	if len(fields)%2 != 0 || len(fields) < 6 {
		return ast.Filter{}, ast.NumericError{Field: "poly", Literal: raw}
	}
	points := make([]ast.LatLon, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		lat, err := parseFloat("poly.lat", fields[i])
		if err != nil {
			return ast.Filter{}, err
		}
		lon, err := parseFloat("poly.lon", fields[i+1])
		if err != nil {
			return ast.Filter{}, err
		}
		points = append(points, ast.LatLon{Lat: lat, Lon: lon})
	}
	return ast.Filter{Poly: points}, nil
}

func convertFilterIds(p *FilterIdsAST) (ast.Filter, error) {
	ids := make([]int64, 0, 1+len(p.Rest))
	first, err := parseInt("ids", p.First)
	if err != nil {
		return ast.Filter{}, err
	}
	ids = append(ids, first)
	for _, lit := range p.Rest {
		v, err := parseInt("ids", lit)
		if err != nil {
			return ast.Filter{}, err
		}
		ids = append(ids, v)
	}
	return ast.Filter{IDs: ids}, nil
}

func convertFilterAround(p *FilterAroundAST) (ast.Filter, error) {
	radius, err := parseFloat("around.radius", p.Radius)
	if err != nil {
		return ast.Filter{}, err
	}
	return ast.Filter{Around: &ast.FilterAround{
		Core:   ast.SetName(p.Core),
		Radius: radius,
	}}, nil
}

func convertOut(p *OutAST) (*ast.Out, error) {
	out := &ast.Out{
		InputSet: convertDotID(p.InputSet),
		Geom:     ast.GeomGeom,
		Detail:   ast.DetailBody,
	}
	for _, m := range p.Modifiers {
		switch strings.ToLower(m.Token) {
		case "geom":
			out.Geom = ast.GeomGeom
		case "center":
			out.Geom = ast.GeomCenter
		case "bb":
			out.Geom = ast.GeomBB
		case "ids":
			out.Geom = ast.GeomIDs
			out.Detail = ast.DetailIDs
		case "skel":
			out.Detail = ast.DetailSkel
		case "body":
			out.Detail = ast.DetailBody
		case "tags":
			out.Detail = ast.DetailTags
		case "meta":
			out.Detail = ast.DetailMeta
		default:
			return nil, ast.StructuralError{
				Rule:    "OutModifier",
				Message: fmt.Sprintf("unknown out modifier %q", m.Token),
			}
		}
	}
	return out, nil
}
