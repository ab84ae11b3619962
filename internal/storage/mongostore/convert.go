package mongostore

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/proyectos-app/proyectos-backend/internal/storage/docstore"
)

// buildFilter translates a docstore query into a bson filter. Range conditions
// on the same field are merged into one sub-document.
func buildFilter(q docstore.Query) bson.M {
	filter := bson.M{}
	for _, c := range q.Conditions {
		switch c.Op {
		case docstore.OpExists:
			filter[c.Field] = bson.M{"$exists": c.Value}
		case docstore.OpNonEmpty:
			filter[c.Field+".0"] = bson.M{"$exists": true}
		case docstore.OpGte, docstore.OpLte:
			op := "$gte"
			if c.Op == docstore.OpLte {
				op = "$lte"
			}
			sub, ok := filter[c.Field].(bson.M)
			if !ok {
				sub = bson.M{}
				filter[c.Field] = sub
			}
			sub[op] = c.Value
		}
	}
	return filter
}

// Mongo orders missing fields as the lowest value, so a descending sort
// already puts them last.
func buildSort(fields []docstore.SortField) bson.D {
	d := make(bson.D, 0, len(fields))
	for _, f := range fields {
		dir := 1
		if f.Descending {
			dir = -1
		}
		d = append(d, bson.E{Key: f.Field, Value: dir})
	}
	return d
}

func toBSON(doc docstore.Document) bson.M {
	m := make(bson.M, len(doc))
	for k, v := range doc {
		m[k] = toBSONValue(v)
	}
	return m
}

func toBSONValue(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		return toBSON(x)
	case docstore.Document:
		return toBSON(x)
	case []interface{}:
		a := make(bson.A, len(x))
		for i, e := range x {
			a[i] = toBSONValue(e)
		}
		return a
	}
	return v
}

// fromBSON converts decoded driver values into plain Go values so handlers can
// render them as JSON without driver-specific types.
func fromBSON(m bson.M) docstore.Document {
	doc := make(docstore.Document, len(m))
	for k, v := range m {
		doc[k] = fromBSONValue(v)
	}
	return doc
}

func fromBSONValue(v interface{}) interface{} {
	switch x := v.(type) {
	case primitive.ObjectID:
		return x.Hex()
	case primitive.DateTime:
		return x.Time()
	case time.Time:
		return x
	case bson.M:
		return map[string]interface{}(fromBSON(x))
	case bson.D:
		return map[string]interface{}(fromBSON(x.Map()))
	case bson.A:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = fromBSONValue(e)
		}
		return out
	case int32:
		return int64(x)
	}
	return v
}
