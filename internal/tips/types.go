// Package tips produces short memory aids for multiplication facts a
// player keeps getting wrong.
package tips

import "github.com/abhisek/tablequest/internal/drill"

// Source records where a tip came from.
type Source string

const (
	SourceBuiltin Source = "builtin"
	SourceLLM     Source = "llm"
)

// Tip is a memory aid for one fact.
type Tip struct {
	Fact   drill.Fact
	Text   string
	Trick  string // optional one-line mnemonic
	Source Source
}

// Config holds tip generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns defaults for tip generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   256,
		Temperature: 0.6,
	}
}
