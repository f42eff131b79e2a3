package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-lan/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-lan/internal/entity"
)

type gameState interface {
	IdentifyOrRegister(identity string) (entity.Mark, bool)
	AttemptMove(identity string, row, col int) (entity.MoveOutcome, error)
	SwapPlayers() bool
	ResetRound(autoSwap bool) bool
	Snapshot() entity.View
}

type eventRecorder interface {
	Record(ctx context.Context, event *entity.Event) error
}

type changePublisher interface {
	Publish(view entity.View)
}

// GameManager turns page requests into game state transitions, records them
// in the event log and notifies open pages.
type GameManager struct {
	logger *slog.Logger

	state     gameState
	recorder  eventRecorder
	publisher changePublisher

	autoSwap bool
	now      func() time.Time
}

func NewGameManager(
	logger *slog.Logger,
	state gameState,
	recorder eventRecorder,
	publisher changePublisher,
	autoSwap bool,
) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		state:     state,
		recorder:  recorder,
		publisher: publisher,

		autoSwap: autoSwap,
		now:      time.Now,
	}
}

// Join identifies the client, taking a free seat if there is one, and returns
// the current view with the client's mark. Spectators get EmptyCell.
func (that *GameManager) Join(ctx context.Context, identity string) (entity.View, entity.Mark) {
	mark, registered := that.state.IdentifyOrRegister(identity)
	view := that.state.Snapshot()

	if registered {
		that.logger.Info("player assigned", "identity", identity, "mark", mark)
		that.record(ctx, &entity.Event{
			Kind:     entity.EventPlayerAssigned,
			RoundID:  view.RoundID,
			Identity: identity,
			Mark:     mark,
		})
		that.publisher.Publish(view)
	}

	return view, mark
}

// Play makes a move for identity at cell, given in the "row,col" form of the
// board page. Malformed cells are rejected like out-of-range ones. The
// returned error is an apperror rejection reason.
func (that *GameManager) Play(ctx context.Context, identity, cell string) (entity.MoveOutcome, error) {
	log := that.logger.With("method", "Play", "identity", identity)

	that.Join(ctx, identity)

	row, col, err := entity.ParseCell(cell)
	if err != nil {
		log.Debug("malformed cell", "error", err)
		row, col = -1, -1
	}

	outcome, err := that.state.AttemptMove(identity, row, col)
	if err != nil {
		log.Debug("move rejected", "cell", cell, "reason", err)
		return entity.MoveOutcome{}, fmt.Errorf("failed to make turn: %w", err)
	}

	that.record(ctx, &entity.Event{
		Kind:     entity.EventMove,
		RoundID:  outcome.RoundID,
		Identity: outcome.Identity,
		Mark:     outcome.Mark,
		Row:      &outcome.Row,
		Col:      &outcome.Col,
	})

	if outcome.IsTerminal() {
		log.Info("game over", "result", outcome.Result.String())
		that.record(ctx, &entity.Event{
			Kind:    entity.EventGameOver,
			RoundID: outcome.RoundID,
			Result:  outcome.Result,
		})
	}

	that.publisher.Publish(that.state.Snapshot())

	return outcome, nil
}

// Switch exchanges the players' marks. It reports false when fewer than two
// players are registered.
func (that *GameManager) Switch(ctx context.Context) bool {
	if !that.state.SwapPlayers() {
		return false
	}

	view := that.state.Snapshot()
	that.recordSwap(ctx, view)
	that.publisher.Publish(view)

	return true
}

// Reset starts a new round, rotating who opens unless disabled.
func (that *GameManager) Reset(ctx context.Context) entity.View {
	swapped := that.state.ResetRound(that.autoSwap)
	view := that.state.Snapshot()

	that.logger.Info("round reset", "round", view.RoundID, "swapped", swapped)
	that.record(ctx, &entity.Event{
		Kind:    entity.EventRoundReset,
		RoundID: view.RoundID,
	})

	if swapped {
		that.recordSwap(ctx, view)
	}

	that.publisher.Publish(view)

	return view
}

func (that *GameManager) View() entity.View {
	return that.state.Snapshot()
}

func (that *GameManager) recordSwap(ctx context.Context, view entity.View) {
	that.record(ctx, &entity.Event{
		Kind:    entity.EventPlayersSwapped,
		RoundID: view.RoundID,
		Players: view.Players,
	})
}

// record never fails the request; a broken journal is only logged.
func (that *GameManager) record(ctx context.Context, event *entity.Event) {
	event.At = that.now()

	if err := that.recorder.Record(ctx, event); err != nil {
		that.logger.Error("failed to record event", "event", event.Kind, "error", err)
	}
}

// RejectionMessage returns the text shown to a player whose move was refused,
// or an empty string when err is not a rejection.
func RejectionMessage(err error) string {
	for _, reason := range []error{
		apperror.ErrGameOver,
		apperror.ErrSpectator,
		apperror.ErrNotYourTurn,
		apperror.ErrCellOccupied,
		apperror.ErrInvalidCoordinates,
	} {
		if errors.Is(err, reason) {
			return reason.Error()
		}
	}

	return ""
}
