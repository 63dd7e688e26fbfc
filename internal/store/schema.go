package store

import (
	"reflect"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/tablequest/ent/schema"
)

// Table and column names shared by the repos.
const (
	tableKV       = "kv_entries"
	tableSessions = "session_events"
	tableAnswers  = "answer_events"
	tableLLM      = "llm_request_events"
	tableSequence = "global_sequence"
)

// entity is the subset of ent.Interface needed to derive a table.
type entity interface {
	Mixin() []ent.Mixin
	Fields() []ent.Field
	Indexes() []ent.Index
}

// tableFor builds the SQL table for an ent schema. Mixin fields come
// first. An "id" field becomes the primary key; without one an
// auto-increment integer ID is added.
func tableFor(name string, e entity) *schema.Table {
	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range e.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, e.Fields()...)
	indexes = append(indexes, e.Indexes()...)

	t := &schema.Table{Name: name}
	byField := make(map[string]*schema.Column, len(fields)+1)

	for _, f := range fields {
		d := f.Descriptor()
		col := columnFor(d)
		byField[d.Name] = col
		if d.Name == "id" {
			t.PrimaryKey = []*schema.Column{col}
			t.Columns = append([]*schema.Column{col}, t.Columns...)
			continue
		}
		t.Columns = append(t.Columns, col)
	}
	if t.PrimaryKey == nil {
		id := &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
		t.PrimaryKey = []*schema.Column{id}
		t.Columns = append([]*schema.Column{id}, t.Columns...)
	}

	for _, ix := range indexes {
		d := ix.Descriptor()
		idx := &schema.Index{Unique: d.Unique}
		names := make([]string, 0, len(d.Fields))
		for _, fname := range d.Fields {
			col := byField[fname]
			idx.Columns = append(idx.Columns, col)
			names = append(names, col.Name)
		}
		idx.Name = name + "_" + strings.Join(names, "_")
		if d.StorageKey != "" {
			idx.Name = d.StorageKey
		}
		t.Indexes = append(t.Indexes, idx)
	}
	return t
}

func columnFor(d *field.Descriptor) *schema.Column {
	col := &schema.Column{
		Name:     d.Name,
		Type:     d.Info.Type,
		Size:     int64(d.Size),
		Unique:   d.Unique,
		Nullable: d.Optional,
		Comment:  d.Comment,
	}
	if d.StorageKey != "" {
		col.Name = d.StorageKey
	}
	// Function defaults such as time.Now are applied by the repos.
	if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
		col.Default = d.Default
	}
	return col
}

// sequenceTable is migrated with tables but never cleared by Reset.
var sequenceTable = tableFor(tableSequence, entschema.Sequence{})

// tables holds player data; Open migrates them and Reset empties them.
var tables = []*schema.Table{
	tableFor(tableKV, entschema.KVEntry{}),
	tableFor(tableSessions, entschema.SessionEvent{}),
	tableFor(tableAnswers, entschema.AnswerEvent{}),
	tableFor(tableLLM, entschema.LLMRequestEvent{}),
}
