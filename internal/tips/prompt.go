package tips

import (
	"fmt"
	"strings"
)

const tipSystemPrompt = `You are a friendly times-tables coach for children aged 7-11. You give one short, concrete strategy for remembering a single multiplication fact.`

func buildTipUserMessage(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Fact: %d x %d = %d\n", in.Fact.Multiplicand, in.Fact.Multiplier, in.Fact.Answer())
	if len(in.WrongAnswers) > 0 {
		b.WriteString("The player answered: ")
		for i, w := range in.WrongAnswers {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%d", w)
		}
		b.WriteString("\n")
	}

	b.WriteString(`
Instructions:
1. Give a strategy in at most two sentences that builds the answer from an easier fact.
2. If a well-known rhyme or pattern fits this fact, put it in "trick"; otherwise leave "trick" empty.
3. Do not just restate the answer. Use plain ASCII text, write x for multiplication.`)

	return b.String()
}
