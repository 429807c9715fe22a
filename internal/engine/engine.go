// Package engine drives a model through drafting, self-critique,
// independent verification, and correction until it produces a result it
// can defend, or gives up within a resource budget. The controller is a
// bounded loop over unreliable, high-latency operations: every stage is a
// generation call that may fail, and termination rests on accumulated
// success/failure streaks rather than a single pass/fail check.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"proofloop/internal/llm"
	"proofloop/internal/runlog"
)

// Fixed thresholds. These mirror observed tuning of the refinement loop
// and deliberately have no configuration surface.
const (
	// successTarget is the consecutive accepted-verification streak that
	// converges a run.
	successTarget = 5

	// failureLimit is the consecutive rejected-verification streak that
	// fails a run.
	failureLimit = 10

	// maxIterations caps inner verification/correction cycles per run
	// regardless of streaks.
	maxIterations = 30
)

// DefaultMaxRuns is the default outer budget of independent run attempts.
const DefaultMaxRuns = 10

// State is the terminal state of an engine invocation.
type State int

const (
	// StateConverged means a run attempt was accepted successTarget times
	// in a row and the solution was persisted.
	StateConverged State = iota

	// StateFailed means every run attempt within the budget failed.
	StateFailed

	// StateAborted means cancellation was observed.
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateConverged:
		return "converged"
	case StateFailed:
		return "failed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Params are the inputs to one engine invocation.
type Params struct {
	Problem string
	Extras  []string
	MaxRuns int
}

// Result is the output contract: the caller always gets either a solution
// plus its path, or a failure message plus the run directory to inspect.
type Result struct {
	State        State
	Solution     string
	SolutionPath string
	RunDir       string
	RunsUsed     int
	LastError    string
}

// Engine owns one invocation's generator, artifact directory, and logger.
// Invocations share nothing; concurrent engines coexist because each
// writes to its own timestamped run directory.
type Engine struct {
	gen    llm.Generator
	run    *runlog.Run
	logger *slog.Logger
}

// New binds an engine to a generator and an already-begun run directory.
func New(gen llm.Generator, run *runlog.Run, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{gen: gen, run: run, logger: logger}
}

// runOutcome is the terminal state of one inner run attempt.
type runOutcome struct {
	converged bool
	solution  string
	reason    string // set when not converged
}

// Solve makes up to MaxRuns independent run attempts and stops at the
// first that converges. Cancellation is polled at the top of the outer
// loop and the inner iteration loop; an in-flight call is not forcibly
// aborted here, the loop simply never issues the next one.
func (e *Engine) Solve(ctx context.Context, p Params) *Result {
	res := &Result{RunDir: e.run.Dir, LastError: "no run attempts were made"}

	for runNum := 1; runNum <= p.MaxRuns; runNum++ {
		if ctx.Err() != nil {
			return e.aborted(res, ctx)
		}

		res.RunsUsed = runNum
		e.run.Appendf("run %d/%d: starting", runNum, p.MaxRuns)

		outcome, err := e.attempt(ctx, runNum, p)
		if ctx.Err() != nil {
			return e.aborted(res, ctx)
		}
		if err != nil {
			// Config and transient generation errors fail this attempt
			// only; the outer budget decides whether to try again.
			res.LastError = err.Error()
			e.run.Appendf("run %d: error: %v", runNum, err)
			e.logger.Warn("run attempt errored", "run", runNum, "error", err)
			continue
		}
		if outcome.converged {
			return e.finalize(res, outcome.solution)
		}

		res.LastError = outcome.reason
		e.run.Appendf("run %d: failed: %s", runNum, outcome.reason)
	}

	res.State = StateFailed
	e.run.Appendf("giving up after %d run(s): %s", res.RunsUsed, res.LastError)
	return res
}

// attempt is one full run: a fresh conversation, a draft, and up to
// maxIterations verification/correction cycles. The success and failure
// streaks are mutually exclusive resets — an acceptance zeroes the failure
// streak and a rejection zeroes the success streak, so the two are never
// simultaneously non-zero.
func (e *Engine) attempt(ctx context.Context, runNum int, p Params) (runOutcome, error) {
	candidate, err := e.draft(ctx, p.Problem, p.Extras)
	if err != nil {
		return runOutcome{}, err
	}

	complete, err := e.isClaimedComplete(ctx, candidate)
	if err != nil {
		return runOutcome{}, err
	}
	if !complete {
		return runOutcome{reason: "draft does not claim a complete solution"}, nil
	}
	e.run.Appendf("run %d: draft claims completeness, verifying", runNum)

	successes, failures := 0, 0
	for iter := 1; iter <= maxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return runOutcome{}, err
		}

		vr, err := e.verify(ctx, p.Problem, candidate)
		if err != nil {
			return runOutcome{}, err
		}

		if vr.Accepted {
			failures = 0
			successes++
			e.run.Appendf("run %d iteration %d: verification accepted (streak %d/%d)",
				runNum, iter, successes, successTarget)
			if successes >= successTarget {
				return runOutcome{converged: true, solution: candidate}, nil
			}
			continue
		}

		successes = 0
		failures++
		e.run.Appendf("run %d iteration %d: verification rejected (streak %d/%d)",
			runNum, iter, failures, failureLimit)
		if failures >= failureLimit {
			return runOutcome{reason: fmt.Sprintf("%d consecutive rejected verifications", failureLimit)}, nil
		}

		candidate, err = e.correct(ctx, p.Problem, p.Extras, candidate, vr.BugReport)
		if err != nil {
			return runOutcome{}, err
		}

		complete, err = e.isClaimedComplete(ctx, candidate)
		if err != nil {
			return runOutcome{}, err
		}
		if !complete {
			return runOutcome{reason: "corrected draft no longer claims a complete solution"}, nil
		}
	}

	return runOutcome{reason: fmt.Sprintf("inner iteration cap (%d) reached", maxIterations)}, nil
}

func (e *Engine) finalize(res *Result, solution string) *Result {
	res.State = StateConverged
	res.Solution = solution
	res.LastError = ""

	path, err := e.run.Finalize(solution)
	if err != nil {
		// The caller still gets the solution text and the run directory.
		res.LastError = err.Error()
		e.logger.Warn("failed to persist solution", "error", err)
	} else {
		res.SolutionPath = path
	}
	e.run.Appendf("converged after %d run(s)", res.RunsUsed)
	return res
}

func (e *Engine) aborted(res *Result, ctx context.Context) *Result {
	res.State = StateAborted
	res.LastError = context.Cause(ctx).Error()
	e.logger.Info("aborted: cancellation observed", "runs", res.RunsUsed)
	return res
}
