package tips

import "github.com/abhisek/tablequest/internal/llm"

// TipSchema defines the JSON schema for fact tip generation.
var TipSchema = &llm.Schema{
	Name:        "fact-tip",
	Description: "A short memory tip for one multiplication fact",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tip": map[string]any{
				"type":        "string",
				"description": "One or two sentences showing a strategy to work out the fact",
			},
			"trick": map[string]any{
				"type":        "string",
				"description": "Optional catchy mnemonic, empty when none fits",
			},
		},
		"required":             []any{"tip", "trick"},
		"additionalProperties": false,
	},
}
