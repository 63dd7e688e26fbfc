package rewards

// Kind identifies the category of a shop item.
type Kind string

const (
	KindTheme Kind = "theme"
	KindBadge Kind = "badge"
	KindPet   Kind = "pet"
)

// AllKinds returns all item kinds in display order.
func AllKinds() []Kind {
	return []Kind{KindTheme, KindBadge, KindPet}
}

// DisplayName returns a human-readable label for the kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindTheme:
		return "Themes"
	case KindBadge:
		return "Badges"
	case KindPet:
		return "Companions"
	default:
		return string(k)
	}
}

// DefaultThemeID is the free theme every player owns.
const DefaultThemeID = "pastel"

// Palette is a theme's terminal colors as hex strings.
type Palette struct {
	Primary    string
	Secondary  string
	Accent     string
	Background string
}

// Theme is a purchasable color scheme.
type Theme struct {
	ID      string
	Name    string
	Price   int
	Preview string
	Palette Palette
}

// RequirementType names the progress counter a badge is unlocked by.
type RequirementType string

const (
	RequireCorrectAnswers RequirementType = "correctAnswers"
	RequireSessions       RequirementType = "sessions"
	RequireAccuracy       RequirementType = "accuracy"
)

// Requirement is the threshold an earned badge unlocks at.
type Requirement struct {
	Type  RequirementType
	Value int
}

// Badge is either earned through a Requirement or bought for Price.
type Badge struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Price       int          // 0 for earned badges
	Requirement *Requirement // nil for purchasable badges
}

// Purchasable reports whether the badge is sold in the shop.
func (b Badge) Purchasable() bool { return b.Requirement == nil && b.Price > 0 }

// Pet is a companion shown next to the question.
type Pet struct {
	ID          string
	Name        string
	Emoji       string
	Description string
	Price       int
}

var themes = []Theme{
	{ID: "pastel", Name: "Mystic Meadows", Price: 0, Preview: "M",
		Palette: Palette{Primary: "#34D399", Secondary: "#22D3EE", Accent: "#10B981", Background: "#0F2A24"}},
	{ID: "ocean", Name: "Sapphire Depths", Price: 50, Preview: "S",
		Palette: Palette{Primary: "#60A5FA", Secondary: "#2DD4BF", Accent: "#3B82F6", Background: "#0C1E3A"}},
	{ID: "sunset", Name: "Dragon's Flame", Price: 75, Preview: "D",
		Palette: Palette{Primary: "#FB923C", Secondary: "#F472B6", Accent: "#EF4444", Background: "#2E1410"}},
	{ID: "forest", Name: "Elven Sanctuary", Price: 60, Preview: "E",
		Palette: Palette{Primary: "#4ADE80", Secondary: "#A3E635", Accent: "#059669", Background: "#102716"}},
	{ID: "galaxy", Name: "Void Realm", Price: 100, Preview: "V",
		Palette: Palette{Primary: "#C084FC", Secondary: "#818CF8", Accent: "#EC4899", Background: "#1E1037"}},
	{ID: "rainbow", Name: "Prismatic Realm", Price: 150, Preview: "P",
		Palette: Palette{Primary: "#F87171", Secondary: "#FACC15", Accent: "#A855F7", Background: "#1F1B2E"}},
	{ID: "golden", Name: "Golden Kingdom", Price: 200, Preview: "G",
		Palette: Palette{Primary: "#FACC15", Secondary: "#FBBF24", Accent: "#D97706", Background: "#2A210A"}},
	{ID: "shadow", Name: "Shadow Realm", Price: 180, Preview: "S",
		Palette: Palette{Primary: "#94A3B8", Secondary: "#71717A", Accent: "#DC2626", Background: "#18181B"}},
}

var badges = []Badge{
	{ID: "first-steps", Name: "Apprentice Scholar", Description: "Answer your first question correctly", Icon: "📜",
		Requirement: &Requirement{Type: RequireCorrectAnswers, Value: 1}},
	{ID: "novice", Name: "Novice Arithmancer", Description: "Answer 10 questions correctly", Icon: "🧙",
		Requirement: &Requirement{Type: RequireCorrectAnswers, Value: 10}},
	{ID: "apprentice", Name: "Guild Apprentice", Description: "Answer 50 questions correctly", Icon: "⚔️",
		Requirement: &Requirement{Type: RequireCorrectAnswers, Value: 50}},
	{ID: "scholar", Name: "Master Scholar", Description: "Answer 100 questions correctly", Icon: "🎓",
		Requirement: &Requirement{Type: RequireCorrectAnswers, Value: 100}},
	{ID: "master", Name: "Grandmaster", Description: "Answer 500 questions correctly", Icon: "👑",
		Requirement: &Requirement{Type: RequireCorrectAnswers, Value: 500}},
	{ID: "perfectionist", Name: "Flawless Victory", Description: "Achieve 100% accuracy in a session", Icon: "💎",
		Requirement: &Requirement{Type: RequireAccuracy, Value: 100}},
	{ID: "dedicated", Name: "Devoted Practitioner", Description: "Complete 10 practice sessions", Icon: "🔥",
		Requirement: &Requirement{Type: RequireSessions, Value: 10}},
	{ID: "champion", Name: "Arena Champion", Description: "Achieve 95% accuracy in a session", Icon: "🏆",
		Requirement: &Requirement{Type: RequireAccuracy, Value: 95}},
	{ID: "speed-demon", Name: "Lightning Reflexes", Description: "For the swift of mind", Icon: "⚡", Price: 25},
	{ID: "night-owl", Name: "Midnight Scholar", Description: "For nocturnal learners", Icon: "🦉", Price: 30},
	{ID: "star-student", Name: "Celestial Prodigy", Description: "Shine among the stars", Icon: "⭐", Price: 40},
	{ID: "dragon-slayer", Name: "Dragon Slayer", Description: "Conqueror of the most fearsome challenges", Icon: "🐉", Price: 100},
	{ID: "arcane-master", Name: "Arcane Master", Description: "Master of mystical mathematics", Icon: "🔮", Price: 80},
}

var pets = []Pet{
	{ID: "cat", Name: "Whiskers the Wise", Emoji: "🐱", Price: 80, Description: "A mystical feline companion with ancient knowledge"},
	{ID: "dog", Name: "Loyal Guardian", Emoji: "🐶", Price: 85, Description: "A faithful hound that never leaves your side"},
	{ID: "rabbit", Name: "Swift Hopscotch", Emoji: "🐰", Price: 70, Description: "Quick as lightning with multiplication magic"},
	{ID: "panda", Name: "Zen Master Bamboo", Emoji: "🐼", Price: 120, Description: "A wise panda who teaches patience and focus"},
	{ID: "fox", Name: "Clever Trickster", Emoji: "🦊", Price: 95, Description: "A cunning fox with a talent for number puzzles"},
	{ID: "owl", Name: "Professor Hoot", Emoji: "🦉", Price: 110, Description: "A scholarly owl keeper of ancient wisdom"},
	{ID: "penguin", Name: "Arctic Waddles", Emoji: "🐧", Price: 90, Description: "A cool penguin who slides through problems"},
	{ID: "turtle", Name: "Ancient Steady", Emoji: "🐢", Price: 75, Description: "Slow and steady wins the mathematical race"},
	{ID: "unicorn", Name: "Mystic Sparkle", Emoji: "🦄", Price: 200, Description: "A legendary unicorn that brings magical luck"},
	{ID: "dragon", Name: "Ember the Mighty", Emoji: "🐉", Price: 300, Description: "A powerful dragon ally for the greatest challenges"},
	{ID: "phoenix", Name: "Flame Reborn", Emoji: "🔥", Price: 250, Description: "A phoenix that rises from mathematical ashes"},
}

// Themes returns every theme in catalog order.
func Themes() []Theme { return append([]Theme(nil), themes...) }

// Badges returns every badge in catalog order.
func Badges() []Badge { return append([]Badge(nil), badges...) }

// Pets returns every pet in catalog order.
func Pets() []Pet { return append([]Pet(nil), pets...) }

// ThemeByID returns the theme, falling back to the default theme.
func ThemeByID(id string) Theme {
	for _, t := range themes {
		if t.ID == id {
			return t
		}
	}
	return themes[0]
}

// LookupTheme returns the theme with id, if any.
func LookupTheme(id string) (Theme, bool) {
	for _, t := range themes {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}

// LookupBadge returns the badge with id, if any.
func LookupBadge(id string) (Badge, bool) {
	for _, b := range badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

// LookupPet returns the pet with id, if any.
func LookupPet(id string) (Pet, bool) {
	for _, p := range pets {
		if p.ID == id {
			return p, true
		}
	}
	return Pet{}, false
}

// Price returns the shop price of an item, or false if it is not for sale.
func Price(kind Kind, id string) (int, bool) {
	switch kind {
	case KindTheme:
		t, ok := LookupTheme(id)
		return t.Price, ok
	case KindBadge:
		b, ok := LookupBadge(id)
		return b.Price, ok && b.Purchasable()
	case KindPet:
		p, ok := LookupPet(id)
		return p.Price, ok
	}
	return 0, false
}
