package drive

import (
	"fmt"
	"strings"
)

// Op is a comparison operator in a Drive files.list query term.
type Op string

const (
	OpEquals   Op = "="
	OpContains Op = "contains"
)

type term struct {
	field string
	op    Op
	value interface{}
}

// Query builds a Drive search expression from structured terms instead of
// hand-interpolated strings, so values with quotes cannot break out of the
// filter.
type Query struct {
	terms []term
}

func NewQuery() *Query {
	return &Query{}
}

func (q *Query) Where(field string, op Op, value interface{}) *Query {
	q.terms = append(q.terms, term{field: field, op: op, value: value})
	return q
}

// InParents restricts results to direct children of the given folder.
func (q *Query) InParents(folderID string) *Query {
	q.terms = append(q.terms, term{field: "parents", op: "in", value: folderID})
	return q
}

func (q *Query) String() string {
	parts := make([]string, 0, len(q.terms))
	for _, t := range q.terms {
		switch v := t.value.(type) {
		case string:
			if t.field == "parents" {
				parts = append(parts, fmt.Sprintf("%s in parents", quote(v)))
			} else {
				parts = append(parts, fmt.Sprintf("%s %s %s", t.field, t.op, quote(v)))
			}
		case bool:
			parts = append(parts, fmt.Sprintf("%s %s %t", t.field, t.op, v))
		default:
			parts = append(parts, fmt.Sprintf("%s %s %v", t.field, t.op, v))
		}
	}
	return strings.Join(parts, " and ")
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}
