package model

// GameMode selects which ordered list of piece kinds is active
type GameMode string

const (
	ModeNormal    GameMode = "normal"
	ModeHalloween GameMode = "halloween"
	ModeWinter    GameMode = "winter"
)

// normalKinds is always included, in this order; type codes are
// assigned index+1 over the final list
var normalKinds = []string{"cherry", "emerald", "ruby", "sapphire", "topaz", "amethyst"}

// modeKinds are appended after the normal list for the matching mode
var modeKinds = map[GameMode][]string{
	ModeHalloween: {"pumpkin", "bat"},
	ModeWinter:    {"snowflake"},
}

// KindsForMode returns the ordered piece kind list for a game mode.
// Unknown modes get the normal list.
func KindsForMode(mode GameMode) []string {
	kinds := make([]string, len(normalKinds))
	copy(kinds, normalKinds)
	return append(kinds, modeKinds[mode]...)
}

// BoardConfig holds the board geometry and rules for a session
type BoardConfig struct {
	Rows      int      `json:"rows"`
	Cols      int      `json:"cols"`
	TileSize  float64  `json:"tile_size"` // view pixels per cell
	MatchSize int      `json:"match_size"`
	CanSpin   bool     `json:"can_spin"` // accept valid moves even when they match nothing
	Mode      GameMode `json:"mode"`
}

// DefaultBoardConfig returns the standard 8x8 board rules
func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		Rows:      8,
		Cols:      8,
		TileSize:  64,
		MatchSize: 3,
		CanSpin:   true,
		Mode:      ModeNormal,
	}
}

// Kinds returns the ordered kind list active for this config
func (c BoardConfig) Kinds() []string {
	return KindsForMode(c.Mode)
}
