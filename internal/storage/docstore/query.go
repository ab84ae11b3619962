package docstore

import (
	"reflect"
	"sort"
	"time"
)

type Op string

const (
	OpExists   Op = "exists"
	OpGte      Op = "gte"
	OpLte      Op = "lte"
	OpNonEmpty Op = "non_empty"
)

// Condition constrains a single top-level field. Value is a bool for OpExists,
// a time.Time for OpGte/OpLte, and unused for OpNonEmpty.
type Condition struct {
	Field string
	Op    Op
	Value interface{}
}

type SortField struct {
	Field      string
	Descending bool
	// AsTime orders by the field's timestamp value instead of its raw representation.
	AsTime bool
}

// Query is a conjunction of conditions plus an optional ordering.
// The zero Query matches every document.
type Query struct {
	Conditions []Condition
	Sort       []SortField
}

func (q Query) Where(field string, op Op, value interface{}) Query {
	q.Conditions = append(append([]Condition(nil), q.Conditions...), Condition{Field: field, Op: op, Value: value})
	return q
}

func (q Query) OrderBy(s SortField) Query {
	q.Sort = append(append([]SortField(nil), q.Sort...), s)
	return q
}

// Matches evaluates the query conditions against a decoded document. Backends
// without a native query language (redis) use it to filter in process.
func (q Query) Matches(doc Document) bool {
	for _, c := range q.Conditions {
		if !c.matches(doc) {
			return false
		}
	}
	return true
}

func (c Condition) matches(doc Document) bool {
	v, present := doc[c.Field]
	switch c.Op {
	case OpExists:
		want, _ := c.Value.(bool)
		return present == want
	case OpNonEmpty:
		if !present || v == nil {
			return false
		}
		rv := reflect.ValueOf(v)
		return (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Len() > 0
	case OpGte, OpLte:
		bound, ok := c.Value.(time.Time)
		if !ok || !present {
			return false
		}
		t, ok := AsTime(v)
		if !ok {
			return false
		}
		if c.Op == OpGte {
			return !t.Before(bound)
		}
		return !t.After(bound)
	}
	return false
}

// SortDocuments orders docs in place according to q.Sort. Documents missing a
// sort field order after those that have it, whatever the direction.
func (q Query) SortDocuments(docs []Document) {
	if len(q.Sort) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, s := range q.Sort {
			c := compareField(docs[i], docs[j], s)
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
}

// compareField returns <0 when a sorts before b.
func compareField(a, b Document, s SortField) int {
	av, aok := sortKey(a[s.Field], s.AsTime)
	bv, bok := sortKey(b[s.Field], s.AsTime)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	}
	c := 0
	switch x := av.(type) {
	case time.Time:
		y, ok := bv.(time.Time)
		if !ok {
			return 0
		}
		if x.Before(y) {
			c = -1
		} else if x.After(y) {
			c = 1
		}
	case string:
		y, ok := bv.(string)
		if !ok {
			return 0
		}
		if x < y {
			c = -1
		} else if x > y {
			c = 1
		}
	case float64:
		y, ok := bv.(float64)
		if !ok {
			return 0
		}
		if x < y {
			c = -1
		} else if x > y {
			c = 1
		}
	}
	if s.Descending {
		c = -c
	}
	return c
}

func sortKey(v interface{}, asTime bool) (interface{}, bool) {
	if v == nil {
		return nil, false
	}
	if asTime {
		t, ok := AsTime(v)
		return t, ok
	}
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case time.Time:
		return x.Format(time.RFC3339Nano), true
	}
	return nil, false
}

// AsTime interprets v as a timestamp: either a time.Time or an RFC 3339 string,
// which is how time.Time round-trips through JSON.
func AsTime(v interface{}) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		t, err := time.Parse(time.RFC3339Nano, x)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}
