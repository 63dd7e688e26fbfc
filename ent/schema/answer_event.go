package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AnswerEvent records a single submission within a session.
type AnswerEvent struct {
	ent.Schema
}

func (AnswerEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AnswerEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("Links to SessionEvent"),
		field.String("question_id").
			NotEmpty(),
		field.Int("multiplicand"),
		field.Int("multiplier"),
		field.Int("given").
			Default(0).
			Comment("What the player entered; 0 for a skip"),
		field.Bool("correct").Default(false),
		field.Bool("skipped").Default(false),
		field.Int("attempt").
			Default(0).
			Comment("1-based attempt number for this question"),
		field.Int64("time_ms").
			Default(0).
			Comment("Milliseconds to answer"),
	}
}

func (AnswerEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("multiplicand", "multiplier"),
	}
}
