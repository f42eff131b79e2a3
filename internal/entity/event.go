package entity

import "time"

type EventKind string

const (
	EventPlayerAssigned EventKind = "player_assigned"
	EventMove           EventKind = "move"
	EventGameOver       EventKind = "game_over"
	EventPlayersSwapped EventKind = "players_swapped"
	EventRoundReset     EventKind = "round_reset"
)

// Event is one line of the append-only game log.
type Event struct {
	Kind     EventKind `json:"event"`
	RoundID  string    `json:"round"`
	At       time.Time `json:"at"`
	Identity string    `json:"identity,omitempty"`
	Mark     Mark      `json:"mark,omitempty"`
	Row      *int      `json:"row,omitempty"`
	Col      *int      `json:"col,omitempty"`
	Result   *Result   `json:"result,omitempty"`
	Players  []Player  `json:"players,omitempty"`
}
