package docstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQuery_Matches(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := day.Add(24*time.Hour - time.Millisecond)

	t.Run("zero query matches everything", func(t *testing.T) {
		assert.True(t, Query{}.Matches(Document{}))
		assert.True(t, Query{}.Matches(Document{"a": 1.0}))
	})

	t.Run("exists checks presence only", func(t *testing.T) {
		q := Query{}.Where("piezas", OpExists, true)
		assert.True(t, q.Matches(Document{"piezas": []interface{}{}}))
		assert.True(t, q.Matches(Document{"piezas": nil}))
		assert.False(t, q.Matches(Document{"nombre": "x"}))

		q = Query{}.Where("piezas", OpExists, false)
		assert.False(t, q.Matches(Document{"piezas": []interface{}{}}))
		assert.True(t, q.Matches(Document{"nombre": "x"}))
	})

	t.Run("range is inclusive on both ends", func(t *testing.T) {
		q := Query{}.Where("fechaInicio", OpGte, day).Where("fechaInicio", OpLte, end)
		assert.True(t, q.Matches(Document{"fechaInicio": day}))
		assert.True(t, q.Matches(Document{"fechaInicio": end}))
		assert.True(t, q.Matches(Document{"fechaInicio": end.Format(time.RFC3339Nano)}))
		assert.False(t, q.Matches(Document{"fechaInicio": end.Add(time.Millisecond)}))
		assert.False(t, q.Matches(Document{"fechaInicio": day.Add(-time.Millisecond)}))
		assert.False(t, q.Matches(Document{}))
		assert.False(t, q.Matches(Document{"fechaInicio": "not a date"}))
	})

	t.Run("non empty requires a populated array", func(t *testing.T) {
		q := Query{}.Where("piezas", OpNonEmpty, nil)
		assert.True(t, q.Matches(Document{"piezas": []interface{}{"p1"}}))
		assert.False(t, q.Matches(Document{"piezas": []interface{}{}}))
		assert.False(t, q.Matches(Document{"piezas": "p1"}))
		assert.False(t, q.Matches(Document{}))
	})

	t.Run("conditions are combined with AND", func(t *testing.T) {
		q := Query{}.Where("piezas", OpExists, true).Where("fechaInicio", OpGte, day)
		assert.True(t, q.Matches(Document{"piezas": []interface{}{}, "fechaInicio": day}))
		assert.False(t, q.Matches(Document{"fechaInicio": day}))
	})
}

func TestQuery_WhereDoesNotAlias(t *testing.T) {
	base := Query{}.Where("a", OpExists, true)
	q1 := base.Where("b", OpExists, true)
	q2 := base.Where("c", OpExists, true)

	assert.Len(t, base.Conditions, 1)
	assert.Equal(t, "b", q1.Conditions[1].Field)
	assert.Equal(t, "c", q2.Conditions[1].Field)
}

func TestQuery_SortDocuments(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	t3 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	docs := []Document{
		{"_id": "a", "fecha": t1},
		{"_id": "none"},
		{"_id": "c", "fecha": t3.Format(time.RFC3339Nano)},
		{"_id": "b", "fecha": t2},
	}

	q := Query{}.OrderBy(SortField{Field: "fecha", Descending: true, AsTime: true})
	q.SortDocuments(docs)

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID()
	}
	assert.Equal(t, []string{"c", "b", "a", "none"}, ids)
}

func TestDocument_WithoutID(t *testing.T) {
	d := Document{"_id": "x", "nombre": "n"}
	out := d.WithoutID()

	assert.Equal(t, Document{"nombre": "n"}, out)
	assert.Equal(t, "x", d.ID(), "original is untouched")
}

func TestUnmarshalBody(t *testing.T) {
	doc, err := UnmarshalBody([]byte(`{"nombre":"n","piezas":["p1"]}`), "id-1")
	assert.NoError(t, err)
	assert.Equal(t, "id-1", doc.ID())
	assert.Equal(t, []interface{}{"p1"}, doc["piezas"])

	doc, err = UnmarshalBody([]byte(`null`), "id-2")
	assert.NoError(t, err)
	assert.Equal(t, Document{"_id": "id-2"}, doc)
}
