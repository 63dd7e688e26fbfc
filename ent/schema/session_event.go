package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent records one finished drill session.
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty(),
		field.String("mode").
			Comment("practice or endless"),
		field.String("tables").
			Comment("Comma-separated table numbers"),
		field.Int("correct_answers").Default(0),
		field.Int("wrong_attempts").Default(0),
		field.Int("skipped_questions").Default(0),
		field.Int("accuracy").
			Default(0).
			Comment("Whole percent, 0-100"),
		field.Int64("duration_ms").Default(0),
		field.Time("started_at"),
		field.Text("new_badges").
			Default("").
			Comment("Comma-separated badge IDs awarded by this session"),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
	}
}
