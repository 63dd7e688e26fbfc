package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Sequence holds the single counter row that orders events across tables.
type Sequence struct {
	ent.Schema
}

func (Sequence) Fields() []ent.Field {
	return []ent.Field{
		field.Int("id").Immutable(),
		field.Int64("next_val").Default(1),
	}
}
