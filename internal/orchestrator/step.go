// Package orchestrator runs the side-effecting steps that follow file
// generation: dependency install, Prisma bootstrap, auth scaffolding,
// formatting and repository initialization.
package orchestrator

import (
	"context"
	"io"
	"log/slog"

	"github.com/cockroachdb/errors"
)

// Policy decides what a step failure does to the rest of the sequence.
type Policy int

const (
	// Fatal stops the sequence and fails the command.
	Fatal Policy = iota
	// BestEffort records the failure as a warning and continues.
	BestEffort
)

func (p Policy) String() string {
	if p == BestEffort {
		return "best-effort"
	}
	return "fatal"
}

// State is the lifecycle position of a step.
type State int

const (
	Pending State = iota
	Running
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// Step is one named side effect.
type Step struct {
	Name   string
	Title  string
	Policy Policy
	Run    func(ctx context.Context) error
}

// Outcome records how a step ended.
type Outcome struct {
	Name   string
	Policy Policy
	State  State
	Err    error
}

// Report lists the outcome of every step that was reached, in order.
type Report struct {
	Outcomes []Outcome
}

// Warnings returns the outcomes of failed best-effort steps.
func (r Report) Warnings() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.State == Failed && o.Policy == BestEffort {
			out = append(out, o)
		}
	}
	return out
}

// Observer is notified around every step; the console spinner implements it.
type Observer interface {
	StepStarted(step Step)
	StepFinished(step Step, outcome Outcome)
}

type nopObserver struct{}

func (nopObserver) StepStarted(Step)           {}
func (nopObserver) StepFinished(Step, Outcome) {}

// Sequence runs steps strictly in order.
type Sequence struct {
	Steps    []Step
	Observer Observer
	Logger   *slog.Logger
}

// Run executes every step. The first failed Fatal step ends the run and its
// error is returned; best-effort failures appear only in the report.
func (s Sequence) Run(ctx context.Context) (Report, error) {
	obs := s.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var report Report
	for _, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		obs.StepStarted(step)
		logger.Debug("step started", "step", step.Name, "policy", step.Policy)
		err := step.Run(ctx)

		outcome := Outcome{Name: step.Name, Policy: step.Policy, State: Succeeded}
		if err != nil {
			outcome.State = Failed
			outcome.Err = err
		}
		report.Outcomes = append(report.Outcomes, outcome)
		obs.StepFinished(step, outcome)
		logger.Debug("step finished", "step", step.Name, "state", outcome.State, "error", err)

		if err != nil && step.Policy == Fatal {
			return report, errors.Wrapf(err, "%s", step.Name)
		}
	}
	return report, nil
}
