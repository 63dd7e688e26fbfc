package tips

import (
	"fmt"

	"github.com/abhisek/tablequest/internal/drill"
)

// Builtin returns a rule-based tip for f. It never fails.
func Builtin(f drill.Fact) Tip {
	a, b := f.Multiplicand, f.Multiplier
	n := f.Answer()
	t := Tip{Fact: f, Source: SourceBuiltin}

	// Explain through whichever factor has the friendlier rule.
	x, y := a, b
	if rank(b) < rank(a) {
		x, y = b, a
	}

	switch {
	case x == y:
		t.Text = fmt.Sprintf("%d is a square number: %d rows of %d make a perfect square.", n, x, x)
	case x == 1:
		t.Text = fmt.Sprintf("Anything times 1 stays the same: %d.", y)
	case x == 10:
		t.Text = fmt.Sprintf("Times 10: put a zero after %d to get %d.", y, n)
	case x == 2:
		t.Text = fmt.Sprintf("Times 2 is doubling: %d + %d = %d.", y, y, n)
	case x == 5:
		t.Text = fmt.Sprintf("Times 5 is half of times 10: %d × 10 = %d, half is %d.", y, y*10, n)
	case x == 11 && y <= 9:
		t.Text = fmt.Sprintf("Times 11 for a single digit: write %d twice to get %d.", y, n)
	case x == 11:
		t.Text = fmt.Sprintf("Times 11 is times 10 plus one more: %d + %d = %d.", y*10, y, n)
	case x == 9:
		t.Text = fmt.Sprintf("Times 9 is times 10 minus one: %d - %d = %d.", y*10, y, n)
		t.Trick = fmt.Sprintf("The digits of %d add up to 9.", n)
	case x == 4:
		t.Text = fmt.Sprintf("Times 4 is double, then double again: %d, %d, %d.", y, y*2, n)
	case x == 12:
		t.Text = fmt.Sprintf("Times 12 is times 10 plus times 2: %d + %d = %d.", y*10, y*2, n)
	case x == 3:
		t.Text = fmt.Sprintf("Times 3 is double plus one more: %d + %d = %d.", y*2, y, n)
	case x == 6:
		t.Text = fmt.Sprintf("Times 6 is times 5 plus one more: %d + %d = %d.", y*5, y, n)
	case x == 8:
		t.Text = fmt.Sprintf("Times 8 is doubling three times: %d, %d, %d, %d.", y, y*2, y*4, n)
	default:
		t.Text = fmt.Sprintf("Break it up: %d × 5 = %d, then add %d × %d = %d. Together %d.",
			y, y*5, y, x-5, y*(x-5), n)
	}

	if n == 56 {
		t.Trick = "5, 6, 7, 8: 56 = 7 × 8."
	}
	return t
}

// rank orders factors by how easy their rule is; lower is easier.
func rank(n int) int {
	switch n {
	case 1:
		return 0
	case 10:
		return 1
	case 2:
		return 2
	case 5:
		return 3
	case 11:
		return 4
	case 9:
		return 5
	case 4:
		return 6
	case 12:
		return 7
	case 3:
		return 8
	case 6:
		return 9
	case 8:
		return 10
	default:
		return 11
	}
}
