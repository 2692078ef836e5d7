package worktrail

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Stage is one named step of a sequential UI transition.
type Stage struct {
	Name string
	Run  func(ctx context.Context) error
}

// Pipeline runs stages strictly in order. Every stage after the first starts
// Step after the previous one finished, giving the prior step's effects time
// to settle. Cancelling ctx stops the pipeline before the next stage.
type Pipeline struct {
	Name   string
	Step   time.Duration
	Stages []Stage
	Logger *zap.Logger
}

// StageError reports which stage stopped a pipeline.
type StageError struct {
	Pipeline string
	Stage    string
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: stage %s: %v", e.Pipeline, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Run executes the stages and returns the names of those that completed.
func (p Pipeline) Run(ctx context.Context) ([]string, error) {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}
	done := make([]string, 0, len(p.Stages))
	for i, st := range p.Stages {
		if i > 0 && p.Step > 0 {
			t := time.NewTimer(p.Step)
			select {
			case <-ctx.Done():
				t.Stop()
				return done, &StageError{Pipeline: p.Name, Stage: st.Name, Err: ctx.Err()}
			case <-t.C:
			}
		}
		if err := ctx.Err(); err != nil {
			return done, &StageError{Pipeline: p.Name, Stage: st.Name, Err: err}
		}
		if err := st.Run(ctx); err != nil {
			log.Debug("pipeline stage failed", zap.String("pipeline", p.Name), zap.String("stage", st.Name), zap.Error(err))
			return done, &StageError{Pipeline: p.Name, Stage: st.Name, Err: err}
		}
		done = append(done, st.Name)
	}
	return done, nil
}
