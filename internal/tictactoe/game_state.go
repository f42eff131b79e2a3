package tictactoe

import (
	"sync"

	"github.com/rocketscienceinc/tictactoe-lan/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-lan/internal/entity"
)

const MaxPlayers = 2

// GameState owns the board, the player registry, the turn and the result of
// the single game hosted by the server. All methods are safe for concurrent use.
type GameState struct {
	mu sync.Mutex

	newRoundID func() string

	roundID string
	board   entity.Board
	turn    entity.Mark
	result  *entity.Result
	version uint64

	// players maps identity to mark, order keeps identities in join order.
	players map[string]entity.Mark
	order   []string
}

// NewGameState returns an empty game with X to move. newRoundID is called
// once now and once per reset.
func NewGameState(newRoundID func() string) *GameState {
	return &GameState{
		newRoundID: newRoundID,
		roundID:    newRoundID(),
		turn:       entity.PlayerX,
		players:    make(map[string]entity.Mark, MaxPlayers),
	}
}

// IdentifyOrRegister returns the mark of identity, registering it when a seat
// is free. The first joiner plays X and the second O. registered is true only
// on the call that assigned the mark; spectators get EmptyCell.
func (that *GameState) IdentifyOrRegister(identity string) (entity.Mark, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if mark, ok := that.players[identity]; ok {
		return mark, false
	}

	if len(that.order) >= MaxPlayers {
		return entity.EmptyCell, false
	}

	mark := entity.PlayerX
	if len(that.order) == 1 {
		mark = that.players[that.order[0]].Opponent()
	}

	that.players[identity] = mark
	that.order = append(that.order, identity)
	that.version++

	return mark, true
}

// AttemptMove places the mark of identity at row, col. A rejected move leaves
// the state untouched and returns one of the apperror rejection reasons.
func (that *GameState) AttemptMove(identity string, row, col int) (entity.MoveOutcome, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.result != nil {
		return entity.MoveOutcome{}, apperror.ErrGameOver
	}

	mark, ok := that.players[identity]
	if !ok {
		return entity.MoveOutcome{}, apperror.ErrSpectator
	}

	if mark != that.turn {
		return entity.MoveOutcome{}, apperror.ErrNotYourTurn
	}

	if !entity.InBounds(row, col) {
		return entity.MoveOutcome{}, apperror.ErrInvalidCoordinates
	}

	if that.board[row][col] != entity.EmptyCell {
		return entity.MoveOutcome{}, apperror.ErrCellOccupied
	}

	that.board[row][col] = mark
	that.version++

	outcome := entity.MoveOutcome{
		RoundID:  that.roundID,
		Identity: identity,
		Mark:     mark,
		Row:      row,
		Col:      col,
	}

	if result := that.board.DetermineGameResult(); result != nil {
		that.result = result
		outcome.Result = result

		return outcome, nil
	}

	that.turn = mark.Opponent()

	return outcome, nil
}

// SwapPlayers exchanges the marks of the two registered players. It reports
// false and does nothing unless both seats are taken.
func (that *GameState) SwapPlayers() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.swapLocked()
}

func (that *GameState) swapLocked() bool {
	if len(that.order) != MaxPlayers {
		return false
	}

	first, second := that.order[0], that.order[1]
	that.players[first], that.players[second] = that.players[second], that.players[first]
	that.version++

	return true
}

// ResetRound clears the board and result and gives the move back to X. With
// autoSwap the players also exchange marks so the other one opens. It reports
// whether a swap happened.
func (that *GameState) ResetRound(autoSwap bool) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.board = entity.Board{}
	that.turn = entity.PlayerX
	that.result = nil
	that.roundID = that.newRoundID()
	that.version++

	if !autoSwap {
		return false
	}

	return that.swapLocked()
}

// Snapshot returns a copy of the current state.
func (that *GameState) Snapshot() entity.View {
	that.mu.Lock()
	defer that.mu.Unlock()

	view := entity.View{
		RoundID: that.roundID,
		Board:   that.board,
		Turn:    that.turn,
		Moves:   that.board.Count(entity.PlayerX) + that.board.Count(entity.PlayerO),
		Version: that.version,
		Players: make([]entity.Player, 0, len(that.order)),
	}

	if that.result != nil {
		result := *that.result
		view.Result = &result
	}

	for _, identity := range that.order {
		view.Players = append(view.Players, entity.Player{
			Identity: identity,
			Mark:     that.players[identity],
		})
	}

	return view
}
