package postgrest

import (
	"fmt"
	"net/url"
	"strings"
)

// Query builds a PostgREST filter expression: equality/range predicates on
// columns plus ordering and limit hints.
type Query struct {
	conds []string
	order []string
	limit int
}

// NewQuery returns an empty query matching all rows.
func NewQuery() Query {
	return Query{}
}

// Eq adds an equality predicate on column.
func (q Query) Eq(column string, value any) Query {
	return q.cond(column, "eq", value)
}

// Gt adds a greater-than predicate on column.
func (q Query) Gt(column string, value any) Query {
	return q.cond(column, "gt", value)
}

// Gte adds a greater-or-equal predicate on column.
func (q Query) Gte(column string, value any) Query {
	return q.cond(column, "gte", value)
}

// Lte adds a less-or-equal predicate on column.
func (q Query) Lte(column string, value any) Query {
	return q.cond(column, "lte", value)
}

// IsNull adds a null predicate on column.
func (q Query) IsNull(column string) Query {
	q.conds = appendCopy(q.conds, column+"=is.null")
	return q
}

// OrderAsc orders results by column, ascending.
func (q Query) OrderAsc(column string) Query {
	q.order = appendCopy(q.order, column+".asc")
	return q
}

// OrderAscNullsFirst orders ascending with null values first.
func (q Query) OrderAscNullsFirst(column string) Query {
	q.order = appendCopy(q.order, column+".asc.nullsfirst")
	return q
}

// OrderDesc orders results by column, descending.
func (q Query) OrderDesc(column string) Query {
	q.order = appendCopy(q.order, column+".desc")
	return q
}

// Limit caps the number of returned rows.
func (q Query) Limit(n int) Query {
	q.limit = n
	return q
}

// Encode renders the query as a PostgREST query string (without leading "?").
func (q Query) Encode() string {
	parts := make([]string, 0, len(q.conds)+2)
	parts = append(parts, q.conds...)
	if len(q.order) > 0 {
		parts = append(parts, "order="+strings.Join(q.order, ","))
	}
	if q.limit > 0 {
		parts = append(parts, fmt.Sprintf("limit=%d", q.limit))
	}
	return strings.Join(parts, "&")
}

func (q Query) cond(column, op string, value any) Query {
	encoded := url.QueryEscape(fmt.Sprint(value))
	q.conds = appendCopy(q.conds, fmt.Sprintf("%s=%s.%s", column, op, encoded))
	return q
}

// appendCopy appends into a fresh backing array so two queries branched from
// the same base never write into shared slice capacity.
func appendCopy(in []string, part string) []string {
	out := make([]string, len(in), len(in)+1)
	copy(out, in)
	return append(out, part)
}
