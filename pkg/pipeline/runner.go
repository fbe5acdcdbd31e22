// Package pipeline runs the build-and-publish steps in order, stopping at the
// first failure.
package pipeline

import (
	"context"
	"time"

	errUtils "github.com/cloudposse/artifactor/errors"
	"github.com/cloudposse/artifactor/pkg/ci"
	log "github.com/cloudposse/artifactor/pkg/logger"
	"github.com/cloudposse/artifactor/pkg/perf"
)

// StepFunc is the body of a step.
type StepFunc func(ctx context.Context, state *State) error

// Step is a named unit of work.
type Step struct {
	// Name is the display name used in logs and failure messages.
	Name string
	Run  StepFunc
}

// StepResult records the outcome of one step.
type StepResult struct {
	Name     string
	Success  bool
	Duration time.Duration
	Err      error
}

// Output is one published key/value pair.
type Output struct {
	Key   string
	Value string
}

// Result is the outcome of a run.
type Result struct {
	Success bool
	Steps   []StepResult
	Outputs []Output
}

// Output returns the value published for key.
func (r *Result) Output(key string) (string, bool) {
	for i := len(r.Outputs) - 1; i >= 0; i-- {
		if r.Outputs[i].Key == key {
			return r.Outputs[i].Value, true
		}
	}
	return "", false
}

// Runner executes steps in order and reports failures to the CI provider.
type Runner struct {
	provider ci.Provider
	steps    []Step
}

// NewRunner creates a Runner.
func NewRunner(provider ci.Provider, steps ...Step) *Runner {
	return &Runner{provider: provider, steps: steps}
}

// Run executes every step. The first failing step stops the run; its error
// is reported through the provider and returned.
func (r *Runner) Run(ctx context.Context, state *State, result *Result) error {
	defer perf.Track(nil, "pipeline.Runner.Run")()

	if len(r.steps) == 0 {
		return errUtils.ErrEmptyPipeline
	}

	for _, step := range r.steps {
		stepResult, err := r.runStep(ctx, step, state)
		result.Steps = append(result.Steps, stepResult)
		if err != nil {
			result.Success = false
			return err
		}
	}

	result.Success = true
	return nil
}

func (r *Runner) runStep(ctx context.Context, step Step, state *State) (StepResult, error) {
	defer perf.Track(nil, "pipeline.Runner.runStep")()

	log.Info(step.Name + " started.")
	start := time.Now()

	err := ctx.Err()
	if err == nil {
		err = step.Run(ctx, state)
	}

	stepResult := StepResult{Name: step.Name, Duration: time.Since(start)}
	if err != nil {
		wrapped := errUtils.Build(errUtils.ErrStepFailed).
			WithMessagef("Step %q failed. Error", step.Name).
			WithCause(err).
			WithContext("step", step.Name).
			Err()
		stepResult.Err = wrapped
		r.provider.Fail(wrapped.Error())
		return stepResult, wrapped
	}

	stepResult.Success = true
	log.Info(step.Name + " finished.")
	return stepResult, nil
}
