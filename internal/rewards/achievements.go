package rewards

import "slices"

// Progress is the lifetime state badge requirements are checked against.
type Progress struct {
	TotalCorrect int
	Sessions     int
	BestAccuracy int
}

// Unlockable returns the IDs of badges whose requirement is met and which
// are not yet owned, in catalog order. Accuracy requirements compare against
// sessionAccuracy when it is non-nil, otherwise against the best accuracy.
func Unlockable(p Progress, owned []string, sessionAccuracy *int) []string {
	var out []string
	for _, b := range badges {
		if b.Requirement == nil || slices.Contains(owned, b.ID) {
			continue
		}
		if requirementMet(*b.Requirement, p, sessionAccuracy) {
			out = append(out, b.ID)
		}
	}
	return out
}

func requirementMet(r Requirement, p Progress, sessionAccuracy *int) bool {
	switch r.Type {
	case RequireCorrectAnswers:
		return p.TotalCorrect >= r.Value
	case RequireSessions:
		return p.Sessions >= r.Value
	case RequireAccuracy:
		if sessionAccuracy != nil {
			return *sessionAccuracy >= r.Value
		}
		return p.BestAccuracy >= r.Value
	default:
		return false
	}
}
