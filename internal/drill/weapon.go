package drill

// WeaponProfile adjusts tempo and the eligible command set per weapon.
// TempoMultiplier scales command cadence: >1 means a faster drill, so
// inter-command delays are divided by it.
type WeaponProfile struct {
	Weapon          string   `json:"weapon"`
	TempoMultiplier float64  `json:"tempo_multiplier"`
	Additional      []string `json:"additional,omitempty"`
	Excluded        []string `json:"excluded,omitempty"`
}

// WeaponProfiles holds the fixed set of supported weapons.
var WeaponProfiles = map[string]WeaponProfile{
	"foil": {
		Weapon:          "foil",
		TempoMultiplier: 1.0,
	},
	"epee": {
		Weapon:          "epee",
		TempoMultiplier: 0.8,
	},
	"sabre": {
		Weapon:          "sabre",
		TempoMultiplier: 1.3,
		Additional:      []string{"fleche"},
		Excluded:        []string{"balancez"},
	},
}

// Profile returns the weapon profile for the given weapon.
func Profile(weapon string) (WeaponProfile, bool) {
	p, ok := WeaponProfiles[weapon]
	return p, ok
}

// FilterCommands applies the profile's inclusion and exclusion rules to a
// command set: weapon-specific commands outside the profile are removed,
// excluded commands are removed, and the profile's additional commands are
// appended.
func (p WeaponProfile) FilterCommands(commandIDs []string) []string {
	excluded := make(map[string]bool, len(p.Excluded))
	for _, id := range p.Excluded {
		excluded[id] = true
	}

	result := make([]string, 0, len(commandIDs)+len(p.Additional))
	for _, id := range commandIDs {
		if excluded[id] {
			continue
		}
		if !ValidForWeapon(id, p.Weapon) {
			continue
		}
		result = append(result, id)
	}

	for _, id := range p.Additional {
		seen := false
		for _, have := range result {
			if have == id {
				seen = true
				break
			}
		}
		if !seen {
			result = append(result, id)
		}
	}

	return result
}
