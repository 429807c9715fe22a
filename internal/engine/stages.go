package engine

import (
	"context"
	"fmt"
	"strings"

	"proofloop/internal/extract"
	"proofloop/internal/llm"
)

// VerificationResult pairs the critique with the verdict derived from it.
// The verdict comes from a secondary yes/no query over the critique, never
// from parsing the critique's prose.
type VerificationResult struct {
	BugReport string
	Accepted  bool
}

// draft produces the initial candidate: one generation call under the
// rigor instruction, then one self-improvement pass over the result. The
// second reply is the working candidate.
func (e *Engine) draft(ctx context.Context, problem string, extras []string) (string, error) {
	conv := llm.Conversation{}.WithUser(problem)
	for _, extra := range extras {
		conv = conv.WithUser(extra)
	}

	first, err := e.gen.Generate(ctx, rigorSystem, conv)
	if err != nil {
		return "", fmt.Errorf("initial draft: %w", err)
	}
	e.run.Append("draft: first attempt")
	e.run.Append(first)

	conv = conv.WithModel(first).WithUser(selfImprovePrompt)
	improved, err := e.gen.Generate(ctx, rigorSystem, conv)
	if err != nil {
		return "", fmt.Errorf("self-improvement pass: %w", err)
	}
	e.run.Append("draft: self-improvement")
	e.run.Append(improved)

	return improved, nil
}

// isClaimedComplete asks the yes/no meta-question over the candidate.
// Anything but an affirmative reply counts as "no".
func (e *Engine) isClaimedComplete(ctx context.Context, candidate string) (bool, error) {
	reply, err := e.gen.Generate(ctx, "", llm.Conversation{}.WithUser(completenessPrompt(candidate)))
	if err != nil {
		return false, fmt.Errorf("completeness check: %w", err)
	}
	return isAffirmative(reply), nil
}

// verify runs the adversarial review pass, then derives the verdict with a
// second yes/no call over the critique.
func (e *Engine) verify(ctx context.Context, problem, candidate string) (VerificationResult, error) {
	solution := extract.Section(candidate, SectionSolution)

	conv := llm.Conversation{}.WithUser(verificationPrompt(problem, solution))
	critique, err := e.gen.Generate(ctx, verifierSystem, conv)
	if err != nil {
		return VerificationResult{}, fmt.Errorf("verification pass: %w", err)
	}
	e.run.Append("verify: critique")
	e.run.Append(critique)

	conv = conv.WithModel(critique).WithUser(verdictPrompt)
	reply, err := e.gen.Generate(ctx, verifierSystem, conv)
	if err != nil {
		return VerificationResult{}, fmt.Errorf("verification verdict: %w", err)
	}

	if isAffirmative(reply) {
		return VerificationResult{Accepted: true}, nil
	}

	bugReport := extract.Section(critique, SectionVerificationLog)
	if bugReport == "" {
		bugReport = strings.TrimSpace(critique)
	}
	return VerificationResult{BugReport: bugReport}, nil
}

// correct rebuilds the conversation from scratch — problem, extras, the
// previous candidate as a model turn, the correction instruction with the
// bug report — and generates a revised candidate. The rebuilt conversation
// supersedes the accumulated history, bounding context growth across
// correction rounds.
func (e *Engine) correct(ctx context.Context, problem string, extras []string, previous, bugReport string) (string, error) {
	conv := llm.Conversation{}.WithUser(problem)
	for _, extra := range extras {
		conv = conv.WithUser(extra)
	}
	conv = conv.WithModel(previous)
	conv = conv.WithUser(fmt.Sprintf(correctionPrompt, bugReport))

	revised, err := e.gen.Generate(ctx, rigorSystem, conv)
	if err != nil {
		return "", fmt.Errorf("correction pass: %w", err)
	}
	e.run.Append("correct: revised candidate")
	e.run.Append(revised)

	return revised, nil
}

// isAffirmative reports whether a meta-question reply, trimmed and
// lowercased, is exactly "yes" or "y". "Yes, but..." is a "no".
func isAffirmative(reply string) bool {
	switch strings.ToLower(strings.TrimSpace(reply)) {
	case "yes", "y":
		return true
	default:
		return false
	}
}
