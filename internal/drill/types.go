package drill

import "fmt"

const (
	// MinTable and MaxTable bound the selectable multiplication tables.
	MinTable = 2
	MaxTable = 12

	// MultipliersPerTable is the number of facts drilled per table (x1..x12).
	MultipliersPerTable = 12

	// EndlessRounds is how many copies of the fact set an endless pool holds.
	EndlessRounds = 10
)

// Mode selects how the pool is built and how the next question is chosen.
type Mode string

const (
	// ModePractice visits every fact of the selected tables once.
	ModePractice Mode = "practice"

	// ModeEndless cycles through the facts until the player ends the session.
	ModeEndless Mode = "endless"
)

// ParseMode maps a user-supplied name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "practice", "training":
		return ModePractice, nil
	case "endless", "arena":
		return ModeEndless, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want practice or endless)", s)
	}
}

// Title is the in-game name of the mode.
func (m Mode) Title() string {
	if m == ModeEndless {
		return "Arena Challenge"
	}
	return "Training Grounds"
}

// Fact is a single multiplication fact, independent of pool position.
type Fact struct {
	Multiplicand int
	Multiplier   int
}

// Answer returns the product of the fact.
func (f Fact) Answer() int { return f.Multiplicand * f.Multiplier }

// String renders the fact as it is shown to the player, e.g. "7 × 8".
func (f Fact) String() string {
	return fmt.Sprintf("%d × %d", f.Multiplicand, f.Multiplier)
}

// Question is one entry of a session pool.
type Question struct {
	// Multiplicand is the table the question belongs to.
	Multiplicand int

	// Multiplier is the second operand (1..12).
	Multiplier int

	// Answer is Multiplicand*Multiplier, fixed at creation.
	Answer int

	// TableID identifies the table for progress reporting.
	TableID int

	// ID is unique within the pool: "t-m" in practice, "t-m-r" in endless.
	ID string

	// Completed is set once the player answers correctly.
	Completed bool

	// Skipped is set when the player gives up on the question.
	Skipped bool
}

// Fact returns the multiplication fact behind the question.
func (q Question) Fact() Fact {
	return Fact{Multiplicand: q.Multiplicand, Multiplier: q.Multiplier}
}

// Pending reports whether the question still needs to be served.
func (q Question) Pending() bool { return !q.Completed && !q.Skipped }

// Pool is the ordered question list for one session.
type Pool []Question

// IndexOf returns the position of the question with the given ID, or -1.
func (p Pool) IndexOf(id string) int {
	for i := range p {
		if p[i].ID == id {
			return i
		}
	}
	return -1
}

// ResetFlags clears every completion and skip flag in place.
func (p Pool) ResetFlags() {
	for i := range p {
		p[i].Completed = false
		p[i].Skipped = false
	}
}
