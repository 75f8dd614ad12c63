package game

import (
	"time"

	"checkers/internal/domain/checkers"
)

const (
	StatusWaitOpponent = "wait_opponent"
	StatusActive       = "active"
)

type Game struct {
	GameKey     string     `json:"game_key" bson:"game_key"` // уникальный ключ
	Status      string     `json:"status" bson:"status"`
	PlayerWhite string     `json:"player_white" bson:"player_white"`
	PlayerBlack string     `json:"player_black" bson:"player_black"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty" bson:"started_at,omitempty"`
	Board       [][]string `json:"board" bson:"board"`
	Moves       []Move     `json:"moves" bson:"moves"`
}

// ColorOf returns the side playerID plays in this game.
func (g Game) ColorOf(playerID string) (checkers.Color, bool) {
	switch {
	case playerID == "":
		return checkers.White, false
	case playerID == g.PlayerWhite:
		return checkers.White, true
	case playerID == g.PlayerBlack:
		return checkers.Black, true
	}
	return checkers.White, false
}

type Move struct {
	PlayerID string           `json:"player_id" bson:"player_id"`
	From     checkers.Square  `json:"from" bson:"from"`
	To       checkers.Square  `json:"to" bson:"to"`
	Kind     string           `json:"kind" bson:"kind"`
	Victim   *checkers.Square `json:"victim,omitempty" bson:"victim,omitempty"`
	Promoted bool             `json:"promoted,omitempty" bson:"promoted,omitempty"`
	At       time.Time        `json:"at" bson:"at"`
}

type CreateGameRequest struct {
	PlayerID string `json:"player_id"`
	Color    string `json:"color"`
}

type GameCreateResponse struct {
	GameKey string `json:"game_key"`
	Color   string `json:"color"`
}

type GameJoinRequest struct {
	PlayerID string `json:"player_id"`
}

type MoveRequest struct {
	PlayerID string `json:"player_id"`
	FromRow  int    `json:"from_row"`
	FromCol  int    `json:"from_col"`
	ToRow    int    `json:"to_row"`
	ToCol    int    `json:"to_col"`
}

type SelectRequest struct {
	PlayerID string `json:"player_id"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
}

// MoveResult is returned for every move attempt; Applied is false when the
// move was rejected and Reason/Message say why.
type MoveResult struct {
	Applied bool       `json:"applied"`
	Reason  string     `json:"reason,omitempty"`
	Message string     `json:"message,omitempty"`
	Move    *Move      `json:"move,omitempty"`
	Board   [][]string `json:"board"`
}

type SelectResult struct {
	Selected *checkers.Square `json:"selected,omitempty"`
	Message  string           `json:"message,omitempty"`
	Move     *MoveResult      `json:"move,omitempty"`
}

// BoardUpdate is pushed to websocket subscribers after every applied move.
type BoardUpdate struct {
	GameKey string     `json:"game_key"`
	Move    Move       `json:"move"`
	Board   [][]string `json:"board"`
}
