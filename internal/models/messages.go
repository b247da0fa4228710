package models

// message types exchanged over the game websocket
const (
	TypeMove      = "move"
	TypeReconnect = "reconnect"

	TypeGameState      = "game_state"
	TypeMarbleShifted  = "marble_shifted"
	TypeMarbleInserted = "marble_inserted"
	TypeMovePlayed     = "move_played"
	TypeGameOver       = "game_over"
	TypeError          = "error"
)

type ClientMessage struct {
	Type     string `json:"type"`
	Token    string `json:"token"`
	Side     string `json:"side,omitempty"`
	Position int    `json:"position,omitempty"`
}

type MovePayload struct {
	Side     string `json:"side"`
	Position int    `json:"position"`
}

type SlotPayload struct {
	HorPos int `json:"horPos"`
	VerPos int `json:"verPos"`
}

type ServerMessage struct {
	Type        string       `json:"type"`
	Message     string       `json:"message,omitempty"`
	GameID      string       `json:"gameId,omitempty"`
	YourColour  string       `json:"yourColour,omitempty"`
	CurrentTurn string       `json:"currentTurn,omitempty"`
	Slot        *SlotPayload `json:"slot,omitempty"`
	Direction   string       `json:"direction,omitempty"`
	Move        *MovePayload `json:"move,omitempty"`
	Colour      string       `json:"colour,omitempty"`
	Board       [][]string   `json:"board,omitempty"`
	Winner      string       `json:"winner,omitempty"`
	Draw        bool         `json:"draw,omitempty"`
	SkillLevel  string       `json:"skillLevel,omitempty"`
}
