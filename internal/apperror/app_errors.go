package apperror

import "errors"

// Rejection reasons for a move. The error text is shown to the player as is.
var (
	ErrGameOver           = errors.New("game over")
	ErrSpectator          = errors.New("spectators cannot play")
	ErrNotYourTurn        = errors.New("it's not your turn")
	ErrCellOccupied       = errors.New("cell is already taken")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// IsRejection reports whether err is one of the expected move rejections
// rather than a fault.
func IsRejection(err error) bool {
	return errors.Is(err, ErrGameOver) ||
		errors.Is(err, ErrSpectator) ||
		errors.Is(err, ErrNotYourTurn) ||
		errors.Is(err, ErrCellOccupied) ||
		errors.Is(err, ErrInvalidCoordinates)
}
