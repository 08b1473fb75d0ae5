package drill

// Pattern is a named fixed sequence of commands for combination mode.
type Pattern struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Commands []string `json:"commands"`
}

// Patterns is the combination-mode pattern library.
var Patterns = map[string]Pattern{
	// Advancing attack: marche, marche, allongez, fendez, remise.
	"A": {
		ID:       "A",
		Name:     "前進攻撃",
		Commands: []string{"marche", "marche", "allongez", "fendez", "remise"},
	},
	// Counter after retreating: rompe, rompe, marche, fendez, remise.
	"B": {
		ID:       "B",
		Name:     "後退からの反撃",
		Commands: []string{"rompe", "rompe", "marche", "fendez", "remise"},
	},
	// Footwork drill, no blade work.
	"C": {
		ID:       "C",
		Name:     "フットワーク強化",
		Commands: []string{"marche", "marche", "rompe", "marche", "rompe", "rompe"},
	},
}

// GetPattern returns the pattern for the given ID.
func GetPattern(patternID string) (Pattern, bool) {
	p, ok := Patterns[patternID]
	return p, ok
}
