package drill

import (
	"fmt"
	"sort"
)

// CatalogIDs resolves the optional tier and weapon filters into a sorted
// list of command IDs. An empty tier means the full catalog.
func CatalogIDs(tier, weapon string) ([]string, error) {
	var ids []string
	if tier != "" {
		set, ok := TierCommands[Tier(tier)]
		if !ok {
			return nil, fmt.Errorf("unknown tier: %s", tier)
		}
		ids = append(ids, set...)
	} else {
		for id := range Commands {
			ids = append(ids, id)
		}
	}

	if weapon != "" {
		profile, ok := Profile(weapon)
		if !ok {
			return nil, fmt.Errorf("unknown weapon: %s", weapon)
		}
		ids = profile.FilterCommands(ids)
	}

	sort.Strings(ids)
	return ids, nil
}
