package entity

// MoveOutcome describes an accepted move. Result is nil when the round continues.
type MoveOutcome struct {
	RoundID  string  `json:"round_id"`
	Identity string  `json:"identity"`
	Mark     Mark    `json:"mark"`
	Row      int     `json:"row"`
	Col      int     `json:"col"`
	Result   *Result `json:"result,omitempty"`
}

func (that MoveOutcome) IsTerminal() bool {
	return that.Result != nil
}

// View is a point-in-time copy of the game state used for rendering.
type View struct {
	RoundID string   `json:"round_id"`
	Board   Board    `json:"board"`
	Turn    Mark     `json:"turn"`
	Result  *Result  `json:"result,omitempty"`
	Players []Player `json:"players"`
	Moves   int      `json:"moves"`
	Version uint64   `json:"version"`
}

func (that View) IsOver() bool {
	return that.Result != nil
}

// IsWaiting reports whether the second seat is still free.
func (that View) IsWaiting() bool {
	return len(that.Players) < 2
}

// MarkOf returns the mark held by identity, or EmptyCell for spectators.
func (that View) MarkOf(identity string) Mark {
	for _, player := range that.Players {
		if player.Identity == identity {
			return player.Mark
		}
	}

	return EmptyCell
}
