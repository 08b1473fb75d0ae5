package drill

// Weight classifies a command's nominal duration.
type Weight string

const (
	WeightShort    Weight = "short"
	WeightStandard Weight = "standard"
	WeightLong     Weight = "long"
)

// Command is a single fencing footwork command with its display metadata.
// The catalog is immutable and defined at process start.
type Command struct {
	ID             string   `json:"id"`
	French         string   `json:"fr"`
	Japanese       string   `json:"jp"`
	AudioFile      string   `json:"-"`
	Weight         Weight   `json:"weight"`
	WeaponSpecific bool     `json:"weapon_specific,omitempty"`
	Weapons        []string `json:"weapons,omitempty"`
}

// AudioRef returns the audio asset reference pushed to clients.
func (c Command) AudioRef() string {
	return "/static/audio/" + c.AudioFile
}

// Commands is the full command catalog keyed by command ID.
var Commands = map[string]Command{
	"en_garde": {
		ID:        "en_garde",
		French:    "En garde",
		Japanese:  "アンギャルド",
		AudioFile: "en_garde.mp3",
		Weight:    WeightStandard,
	},
	"marche": {
		ID:        "marche",
		French:    "Marchez",
		Japanese:  "マルシェ",
		AudioFile: "marche.mp3",
		Weight:    WeightStandard,
	},
	"rompe": {
		ID:        "rompe",
		French:    "Rompez",
		Japanese:  "ロンペ",
		AudioFile: "rompe.mp3",
		Weight:    WeightStandard,
	},
	"allongez": {
		ID:        "allongez",
		French:    "Allongez le bras",
		Japanese:  "アロンジェ・ル・ブラ",
		AudioFile: "allongez.mp3",
		Weight:    WeightShort,
	},
	"fendez": {
		ID:        "fendez",
		French:    "Fendez",
		Japanese:  "ファンドゥ",
		AudioFile: "fendez.mp3",
		Weight:    WeightLong,
	},
	"remise": {
		ID:        "remise",
		French:    "Remise en garde",
		Japanese:  "ルミーズ・アンギャルド",
		AudioFile: "remise.mp3",
		Weight:    WeightLong,
	},
	"balancez": {
		ID:        "balancez",
		French:    "Balancez",
		Japanese:  "バランセ",
		AudioFile: "balancez.mp3",
		Weight:    WeightStandard,
	},
	"double_marche": {
		ID:        "double_marche",
		French:    "Double marchez",
		Japanese:  "ドゥブル・マルシェ",
		AudioFile: "double_marche.mp3",
		Weight:    WeightLong,
	},
	"bond_avant": {
		ID:        "bond_avant",
		French:    "Bond en avant",
		Japanese:  "ボンナバン",
		AudioFile: "bond_avant.mp3",
		Weight:    WeightLong,
	},
	"bond_arriere": {
		ID:        "bond_arriere",
		French:    "Bond en arrière",
		Japanese:  "ボンナリエール",
		AudioFile: "bond_arriere.mp3",
		Weight:    WeightLong,
	},
	"fleche": {
		ID:             "fleche",
		French:         "Flèche",
		Japanese:       "フレッシュ",
		AudioFile:      "fleche.mp3",
		Weight:         WeightLong,
		WeaponSpecific: true,
		Weapons:        []string{"sabre"},
	},
	"halte": {
		ID:        "halte",
		French:    "Halte",
		Japanese:  "止め",
		AudioFile: "halte.mp3",
		Weight:    WeightShort,
	},
}

// Tier is an ordered difficulty level controlling which commands are
// eligible in random mode.
type Tier string

const (
	TierBeginner     Tier = "beginner"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
)

// TierCommands maps each tier to its eligible command IDs.
var TierCommands = map[Tier][]string{
	TierBeginner:     {"marche", "rompe"},
	TierIntermediate: {"marche", "rompe", "fendez", "remise"},
	TierAdvanced:     {"marche", "rompe", "fendez", "remise", "bond_avant", "bond_arriere", "balancez"},
}

// Direction classifies a command's movement along the piste.
type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
	DirectionNeutral  Direction = "neutral"
)

var forwardCommands = map[string]bool{
	"marche":        true,
	"double_marche": true,
	"bond_avant":    true,
}

var backwardCommands = map[string]bool{
	"rompe":        true,
	"bond_arriere": true,
}

var bondCommands = map[string]bool{
	"bond_avant":   true,
	"bond_arriere": true,
}

// DirectionOf returns the directional class of a command.
func DirectionOf(commandID string) Direction {
	switch {
	case forwardCommands[commandID]:
		return DirectionForward
	case backwardCommands[commandID]:
		return DirectionBackward
	default:
		return DirectionNeutral
	}
}

// IsBond reports whether the command is a jump (bond) command.
func IsBond(commandID string) bool {
	return bondCommands[commandID]
}

// PositionEffects maps each command to its displacement on the piste
// relative to the starting en garde position. Positive is toward the
// opponent.
var PositionEffects = map[string]float64{
	"en_garde":      0.0,
	"marche":        1.0,
	"rompe":         -1.0,
	"allongez":      0.0,
	"fendez":        2.0,
	"remise":        -2.0,
	"balancez":      0.0,
	"double_marche": 2.0,
	"bond_avant":    1.5,
	"bond_arriere":  -1.5,
	"fleche":        3.0,
	"halte":         0.0,
}

// Get returns the command for the given ID.
func Get(commandID string) (Command, bool) {
	c, ok := Commands[commandID]
	return c, ok
}

// ValidForWeapon reports whether a command may be issued for the given
// weapon. Non-weapon-specific commands are valid for all weapons.
func ValidForWeapon(commandID, weapon string) bool {
	cmd, ok := Commands[commandID]
	if !ok {
		return false
	}
	if !cmd.WeaponSpecific {
		return true
	}
	for _, w := range cmd.Weapons {
		if w == weapon {
			return true
		}
	}
	return false
}
