package journal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/rocketscienceinc/tictactoe-lan/internal/entity"
)

type logRecorder struct {
	logger *slog.Logger
}

// NewLogRecorder writes one log line per event to logger.
func NewLogRecorder(logger *slog.Logger) Recorder {
	return &logRecorder{logger: logger}
}

func (that *logRecorder) Record(ctx context.Context, event *entity.Event) error {
	attrs := []slog.Attr{
		slog.String("event", string(event.Kind)),
		slog.String("round", event.RoundID),
	}

	if event.Identity != "" {
		attrs = append(attrs, slog.String("identity", event.Identity))
	}

	if event.Mark != entity.EmptyCell {
		attrs = append(attrs, slog.String("mark", string(event.Mark)))
	}

	if event.Row != nil && event.Col != nil {
		attrs = append(attrs, slog.Int("row", *event.Row), slog.Int("col", *event.Col))
	}

	if event.Result != nil {
		attrs = append(attrs, slog.String("winner", string(event.Result.Winner)), slog.Bool("draw", event.Result.Draw))
	}

	if len(event.Players) > 0 {
		attrs = append(attrs, slog.Any("players", event.Players))
	}

	that.logger.LogAttrs(ctx, slog.LevelInfo, describe(event), attrs...)

	return nil
}

func describe(event *entity.Event) string {
	switch event.Kind {
	case entity.EventPlayerAssigned:
		return fmt.Sprintf("Assigned %s as %s", event.Identity, event.Mark)
	case entity.EventMove:
		return fmt.Sprintf("%s (%s) -> move at %d,%d", event.Identity, event.Mark, *event.Row, *event.Col)
	case entity.EventGameOver:
		if event.Result != nil {
			return "Game over: " + event.Result.String()
		}
		return "Game over"
	case entity.EventPlayersSwapped:
		return "Players swapped"
	case entity.EventRoundReset:
		return "Round reset"
	default:
		return string(event.Kind)
	}
}

// FileLog is an append-only event log file.
type FileLog struct {
	Recorder
	file *os.File
}

// OpenFileLog opens path for appending, creating it when missing.
func OpenFileLog(path string) (*FileLog, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("can't open event log: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelInfo}))

	return &FileLog{
		Recorder: NewLogRecorder(logger),
		file:     file,
	}, nil
}

func (that *FileLog) Close() error {
	return that.file.Close()
}
