package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-lan/internal/entity"
)

// Recorder appends game events to a log.
type Recorder interface {
	Record(ctx context.Context, event *entity.Event) error
}

type eventAppender interface {
	Append(ctx context.Context, event *entity.Event) error
}

type repositoryRecorder struct {
	repo eventAppender
}

// NewRepositoryRecorder records events into an event repository.
func NewRepositoryRecorder(repo eventAppender) Recorder {
	return &repositoryRecorder{repo: repo}
}

func (that *repositoryRecorder) Record(ctx context.Context, event *entity.Event) error {
	if err := that.repo.Append(ctx, event); err != nil {
		return fmt.Errorf("failed to append event to journal: %w", err)
	}

	return nil
}

type multiRecorder []Recorder

// Multi records every event into all recorders, even if some of them fail.
func Multi(recorders ...Recorder) Recorder {
	return multiRecorder(recorders)
}

func (that multiRecorder) Record(ctx context.Context, event *entity.Event) error {
	var errs []error
	for _, recorder := range that {
		if err := recorder.Record(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
