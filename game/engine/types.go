package engine

// Direction names accepted by the movement operations
const (
	DirUp    = "up"
	DirDown  = "down"
	DirLeft  = "left"
	DirRight = "right"
)

// Validation constants
const (
	MinGridSize         = 2
	MaxGridSize         = 16
	MinWinningValue     = 8
	DefaultWinningValue = 512
	DefaultGridSize     = 4
	DefaultStartTiles   = 2
	MaxBulkMoves        = 50
	WebSocketBufferSize = 256
)

// Directions lists the four legal move directions in a stable order
var Directions = []string{DirUp, DirDown, DirLeft, DirRight}

// GameConfig represents the game configuration from JSON
type GameConfig struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Rows            int     `json:"rows"`
	Cols            int     `json:"cols"`
	WinningValue    int     `json:"winning_value"`
	FourProbability float64 `json:"four_probability"`
	StartingTiles   int     `json:"starting_tiles"`
	Messages        struct {
		Welcome  string `json:"welcome"`
		Moved    string `json:"moved"`
		Blocked  string `json:"blocked"`
		Victory  string `json:"victory"`
		GameOver string `json:"game_over"`
	} `json:"messages"`
}

// TileInfo is a snapshot of a single tile for serialization
type TileInfo struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Value int `json:"value"`
}

// GameState represents the complete game state
type GameState struct {
	Grid        [][]int            `json:"grid"`
	Score       int                `json:"score"`
	HighestTile int                `json:"highest_tile"`
	EmptyCells  int                `json:"empty_cells"`
	Message     string             `json:"message"`
	GameOver    bool               `json:"game_over"`
	Victory     bool               `json:"victory"`
	ConfigName  string             `json:"config_name"`
	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last reset. It mirrors
	// MoveHistory entries but gets cleared on reset while MoveHistory
	// remains cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`

	// PossibleMoves is a computed helper view for clients
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Action     string    `json:"action"`
	ScoreAfter int       `json:"score_after"`
	ScoreDelta int       `json:"score_delta"`
	Spawned    *TileInfo `json:"spawned,omitempty"`
	Timestamp  int64     `json:"timestamp"`
	Success    bool      `json:"success"`
	MoveNumber int       `json:"move_number"`
}
