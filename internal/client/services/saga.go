package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/greetkeeper/internal/logging"
)

// Policy decides what happens when a saga step fails.
type Policy int

const (
	// SurfaceAndHalt stops the saga and reports the error; committed steps
	// stay committed.
	SurfaceAndHalt Policy = iota
	// Compensate runs the Undo of every committed step, newest first, then
	// reports the error.
	Compensate
)

// Step is one named remote call of a saga.
type Step struct {
	Name   string
	OnFail Policy
	Run    func(ctx context.Context) error
	Undo   func(ctx context.Context) error
}

// SagaError reports where a saga stopped and what had already happened.
type SagaError struct {
	Saga        string
	Step        string
	Committed   []string
	Compensated []string
	UndoErr     error
	Err         error
}

func (e *SagaError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Saga, e.Step, e.Err)
}

func (e *SagaError) Unwrap() error {
	return e.Err
}

// PartiallyApplied reports whether earlier steps remain committed.
func (e *SagaError) PartiallyApplied() bool {
	return len(e.Committed) > len(e.Compensated)
}

// Warning describes the committed steps left behind, or "" if none.
func (e *SagaError) Warning() string {
	if !e.PartiallyApplied() {
		return ""
	}
	left := make([]string, 0, len(e.Committed))
	for _, s := range e.Committed {
		if !contains(e.Compensated, s) {
			left = append(left, s)
		}
	}
	return "already completed: " + strings.Join(left, ", ")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type saga struct {
	name   string
	steps  []Step
	logger logging.Logger
	// stepTimeout bounds each Run and Undo separately; zero means no bound.
	stepTimeout time.Duration
}

func (s *saga) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.stepTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.stepTimeout)
}

func (s *saga) runStep(ctx context.Context, f func(context.Context) error) error {
	sctx, cancel := s.stepContext(ctx)
	defer cancel()
	return f(sctx)
}

func (s *saga) run(ctx context.Context) error {
	var done []Step
	for _, step := range s.steps {
		if err := s.runStep(ctx, step.Run); err != nil {
			s.logger.Warn(ctx, "saga step failed", "saga", s.name, "step", step.Name, "error", err)
			serr := &SagaError{Saga: s.name, Step: step.Name, Err: err}
			for _, d := range done {
				serr.Committed = append(serr.Committed, d.Name)
			}
			if step.OnFail == Compensate {
				s.compensate(ctx, done, serr)
			}
			return serr
		}
		done = append(done, step)
	}
	return nil
}

// compensate undoes committed steps newest first and stops at the first
// failing undo. It ignores cancellation of ctx.
func (s *saga) compensate(ctx context.Context, done []Step, serr *SagaError) {
	ctx = context.WithoutCancel(ctx)
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Undo == nil {
			continue
		}
		if err := s.runStep(ctx, step.Undo); err != nil {
			s.logger.Error(ctx, "saga compensation failed", "saga", s.name, "step", step.Name, "error", err)
			serr.UndoErr = err
			return
		}
		serr.Compensated = append(serr.Compensated, step.Name)
	}
}
