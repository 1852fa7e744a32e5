// Package dsl implements the Overpass QL grammar, parser, and AST builder.
package dsl

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var overpassLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|/\*([^*]|\*[^/])*\*/`},
	{Name: "Float", Pattern: `-?\d+\.\d+`},
	{Name: "Int", Pattern: `-?\d+`},
	{Name: "String", Pattern: `"([^"\\]|\\.)*"|'([^'\\]|\\.)*'`},
	{Name: "Keyword", Pattern: `(?i)\b(node|way|relation|nwr|area|out|poly|id|ids|around|geom|center|bb|skel|body|tags|meta)\b`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "NotEq", Pattern: `!=`},
	{Name: "NotMatch", Pattern: `!~`},
	{Name: "Not", Pattern: `!`},
	{Name: "Match", Pattern: `~`},
	{Name: "Eq", Pattern: `=`},
	{Name: "Recurse", Pattern: `>`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[(),.:;\[\]]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// RequestAST is the root grammar production: optional metadata blocks
// terminated by ";", followed by a subrequest.
type RequestAST struct {
	Metadata   []*MetadataItemAST `parser:"( ( \"[\" @@ \"]\" )+ \";\" )?"`
	Subrequest SubrequestAST      `parser:"@@"`
}

// MetadataItemAST is one "[key]" or "[key:value]" block. Only "timeout" is
// semantically captured by the AST builder; the rest are tolerated.
type MetadataItemAST struct {
	Key   string  `parser:"@(Ident|Keyword)"`
	Value *string `parser:"( \":\" @(Ident|Int|Keyword) )?"`
}

// SubrequestAST is a non-empty sequence of semicolon-terminated items.
type SubrequestAST struct {
	Items []*SubrequestItemAST `parser:"@@+"`
}

// SubrequestItemAST is either an Out clause or a Query, each consuming its
// own trailing ";".
type SubrequestItemAST struct {
	Out   *OutAST   `parser:"  @@ \";\""`
	Query *QueryAST `parser:"| @@ \";\""`
}

// QueryAST dispatches to one of the three query forms.
type QueryAST struct {
	Recurse *QueryRecurseAST `parser:"  @@"`
	Union   *QueryUnionAST   `parser:"| @@"`
	Objects *QueryObjectsAST `parser:"| @@"`
}

// DotIDAST is a ".name" reference to a previously bound set.
type DotIDAST struct {
	Name string `parser:"\".\" @(Ident|Keyword)"`
}

// AssignAST is the "->.name" output binding.
type AssignAST struct {
	Name string `parser:"\"->\" \".\" @(Ident|Keyword)"`
}

// QueryRecurseAST: [".ID"] ">" ["->." ID]
type QueryRecurseAST struct {
	Input   *DotIDAST  `parser:"@@?"`
	Recurse string     `parser:"@\">\""`
	Assign  *AssignAST `parser:"@@?"`
}

// QueryUnionAST: "(" ( query ";" )+ ")" ["->." ID]
type QueryUnionAST struct {
	LParen  string      `parser:"\"(\""`
	Queries []*QueryAST `parser:"( @@ \";\" )+"`
	RParen  string      `parser:"\")\""`
	Assign  *AssignAST  `parser:"@@?"`
}

// QueryObjectsAST: object_type ["." ID] [selector]... [filter]... ["->." ID]
type QueryObjectsAST struct {
	ObjectType string            `parser:"@(\"node\"|\"way\"|\"relation\"|\"nwr\"|\"area\")"`
	InputSet   *DotIDAST         `parser:"@@?"`
	Selectors  []*SelectorAST    `parser:"@@*"`
	Filters    []*FilterGroupAST `parser:"@@*"`
	Assign     *AssignAST        `parser:"@@?"`
}

// SelectorAST: "[" "!"? key (op value)? "]"
type SelectorAST struct {
	LBracket string              `parser:"\"[\""`
	Not      bool                `parser:"@\"!\"?"`
	Key      string              `parser:"@(Ident|Keyword|String)"`
	OpVal    *SelectorOpValueAST `parser:"@@?"`
	RBracket string              `parser:"\"]\""`
}

// SelectorOpValueAST: op value, where op is one of = != ~ !~
type SelectorOpValueAST struct {
	Operator string `parser:"@(\"=\"|\"!=\"|\"~\"|\"!~\")"`
	Value    string `parser:"@(Ident|Keyword|String)"`
}

// FilterGroupAST: "(" filter_body ")"
type FilterGroupAST struct {
	LParen string         `parser:"\"(\""`
	Body   *FilterBodyAST `parser:"@@"`
	RParen string         `parser:"\")\""`
}

// FilterBodyAST dispatches to one of the six filter kinds.
type FilterBodyAST struct {
	Around *FilterAroundAST `parser:"  @@"`
	Area   *FilterAreaAST   `parser:"| @@"`
	Ids    *FilterIdsAST    `parser:"| @@"`
	Poly   *FilterPolyAST   `parser:"| @@"`
	BBox   *FilterBBoxAST   `parser:"| @@"`
	ID     *FilterIDAST     `parser:"| @@"`
}

// FilterBBoxAST: south,west,north,east
type FilterBBoxAST struct {
	South string `parser:"@(Float|Int)"`
	West  string `parser:"\",\" @(Float|Int)"`
	North string `parser:"\",\" @(Float|Int)"`
	East  string `parser:"\",\" @(Float|Int)"`
}

// FilterPolyAST: poly:"lat lon lat lon ..."
type FilterPolyAST struct {
	Coords string `parser:"\"poly\" \":\" @String"`
}

// FilterIDAST: a bare integer, a single id filter.
type FilterIDAST struct {
	ID string `parser:"@Int"`
}

// FilterIdsAST: id:N,N,...
type FilterIdsAST struct {
	First string   `parser:"\"id\" \":\" @Int"`
	Rest  []string `parser:"( \",\" @Int )*"`
}

// FilterAreaAST: area.ID
type FilterAreaAST struct {
	AreaID string `parser:"\"area\" \".\" @(Ident|Keyword)"`
}

// FilterAroundAST: around.ID:radius
type FilterAroundAST struct {
	Core   string `parser:"\"around\" \".\" @(Ident|Keyword)"`
	Radius string `parser:"\":\" @(Float|Int)"`
}

// OutAST: [".ID"] "out" [modifier]...
type OutAST struct {
	InputSet  *DotIDAST         `parser:"@@?"`
	Out       bool              `parser:"@\"out\""`
	Modifiers []*OutModifierAST `parser:"@@*"`
}

// OutModifierAST is one geometry-mode or detail-level keyword.
type OutModifierAST struct {
	Token string `parser:"@(\"geom\"|\"center\"|\"bb\"|\"ids\"|\"skel\"|\"body\"|\"tags\"|\"meta\")"`
}

var overpassParser = participle.MustBuild[RequestAST](
	participle.Lexer(overpassLexer),
	// ".ID >" and ".ID out" share a two-token prefix.
	participle.UseLookahead(2),
	participle.CaseInsensitive("Keyword"),
	participle.Elide("Whitespace", "Comment"),
)
