package emit

import (
	"fmt"
	"strings"

	"github.com/ritamzico/overpassql/internal/ast"
)

func emitSelectors(ctx *Context, selectors ast.Selectors) string {
	parts := make([]string, len(selectors.Items))
	for i, s := range selectors.Items {
		parts[i] = emitSelector(ctx, s)
	}
	return strings.Join(parts, " AND ")
}

func emitSelector(ctx *Context, s ast.Selector) string {
	exists := ctx.Dialect.HashExists(s.Key)

	if s.Operator == nil {
		if s.Not {
			return "NOT " + exists
		}
		return exists
	}

	var value string
	if s.Value != nil {
		value = ctx.Dialect.EscapeLiteral(*s.Value)
	} else if s.Regex != nil {
		value = "'" + s.Regex.String() + "'"
	}

	get := ctx.Dialect.HashGet(s.Key)

	switch *s.Operator {
	case "=":
		return fmt.Sprintf("(%s AND %s = %s)", exists, get, value)
	case "!=":
		return fmt.Sprintf("(NOT %s OR %s != %s)", exists, get, value)
	case "~":
		return fmt.Sprintf("(%s AND %s ~ %s)", exists, get, value)
	case "!~":
		return fmt.Sprintf("(NOT %s OR %s !~ %s)", exists, get, value)
	default:
		return fmt.Sprintf("(%s AND %s %s %s)", exists, get, *s.Operator, value)
	}
}
