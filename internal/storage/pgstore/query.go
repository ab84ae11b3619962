package pgstore

import (
	"fmt"
	"strings"

	"github.com/proyectos-app/proyectos-backend/internal/storage/docstore"
)

// buildSelect renders a docstore query as SQL over the jsonb doc column.
// Field names are always passed as parameters, never spliced into the text.
func buildSelect(table string, q docstore.Query) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	for _, c := range q.Conditions {
		switch c.Op {
		case docstore.OpExists:
			want, _ := c.Value.(bool)
			expr := fmt.Sprintf("doc ? %s::text", arg(c.Field))
			if !want {
				expr = "NOT (" + expr + ")"
			}
			where = append(where, expr)
		case docstore.OpGte:
			where = append(where, fmt.Sprintf("(doc->>%s::text)::timestamptz >= %s::timestamptz", arg(c.Field), arg(c.Value)))
		case docstore.OpLte:
			where = append(where, fmt.Sprintf("(doc->>%s::text)::timestamptz <= %s::timestamptz", arg(c.Field), arg(c.Value)))
		case docstore.OpNonEmpty:
			f := arg(c.Field)
			where = append(where, fmt.Sprintf(
				"CASE WHEN jsonb_typeof(doc->%s::text) = 'array' THEN jsonb_array_length(doc->%s::text) > 0 ELSE false END", f, f))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT id::text, doc FROM %s", table)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}

	order := make([]string, 0, len(q.Sort)+1)
	for _, s := range q.Sort {
		f := arg(s.Field)
		expr := fmt.Sprintf("doc->%s::text", f)
		if s.AsTime {
			expr = fmt.Sprintf("(doc->>%s::text)::timestamptz", f)
		}
		if s.Descending {
			expr += " DESC"
		} else {
			expr += " ASC"
		}
		order = append(order, expr+" NULLS LAST")
	}
	order = append(order, "seq ASC")
	b.WriteString(" ORDER BY ")
	b.WriteString(strings.Join(order, ", "))

	return b.String(), args
}
