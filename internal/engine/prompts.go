package engine

import (
	"fmt"

	"proofloop/internal/extract"
)

// Section names the stages ask the model to emit and the extractor pulls
// back out.
const (
	SectionSolution        = "Detailed Solution"
	SectionVerificationLog = "Detailed Verification Log"
)

// rigorSystem governs both drafting and correction. It asks for complete
// rigor and for honesty when rigor cannot be reached, and pins the output
// format so the extractor's sentinel strategy usually succeeds.
var rigorSystem = fmt.Sprintf(`You are an expert mathematician producing a complete and rigorously justified solution.

Every step must be justified. Do not guess, do not hand-wave, and do not appeal to intuition where a proof is required. If you cannot fully solve the problem, say so plainly and present only the partial results you can rigorously establish; a significant partial result stated honestly is worth more than a complete-looking argument with a hidden gap.

Structure your reply as:

1. A brief summary of your approach and of what you actually establish (full solution or partial result).
2. The complete writeup, placed between the exact lines:

%s
...
%s

Inside those markers, restate each intermediate claim before proving it, and keep every logical step explicit. Use TeX for mathematics.`,
	extract.BeginMarker(SectionSolution), extract.EndMarker(SectionSolution))

// selfImprovePrompt drives the one self-critique pass after the first draft.
const selfImprovePrompt = `Review your solution above with fresh eyes. Hunt for errors, unjustified steps, and gaps, then produce an improved version. Keep the same output format, including the solution markers.`

// verifierSystem governs the adversarial review pass. The grader reports
// problems; it never repairs them.
var verifierSystem = fmt.Sprintf(`You are an unforgiving grader reviewing a proposed solution to a competition-level problem.

Your only task is to find problems. Classify every finding as either a critical error (a step that is wrong, or an unproven claim the argument depends on) or a justification gap (a conclusion that may be true but is not adequately argued). Do not fix anything, and do not award partial credit in your judgment of correctness.

Structure your reply as:

1. A short summary verdict.
2. A numbered list of every finding with its classification, placed between the exact lines:

%s
...
%s

If you find no issues at all, state that explicitly inside the markers.`,
	extract.BeginMarker(SectionVerificationLog), extract.EndMarker(SectionVerificationLog))

// completenessPrompt wraps a candidate in the yes/no completeness question.
func completenessPrompt(candidate string) string {
	return fmt.Sprintf(`Below is a response to a mathematical problem. Does the response claim to contain a complete solution to the problem, as opposed to a partial result or an admission of failure?

Respond with exactly one word: yes or no.

--- RESPONSE START ---
%s
--- RESPONSE END ---`, candidate)
}

// verificationPrompt embeds the problem and the candidate's solution
// section into the review request.
func verificationPrompt(problem, solution string) string {
	return fmt.Sprintf(`Review the following proposed solution.

--- PROBLEM START ---
%s
--- PROBLEM END ---

--- SOLUTION START ---
%s
--- SOLUTION END ---`, problem, solution)
}

// verdictPrompt is the derived yes/no question asked over the critique.
const verdictPrompt = `Consider your review above as a whole. Does it indicate that the solution is correct, with no critical error and no major justification gap?

Respond with exactly one word: yes or no.`

// correctionPrompt introduces the bug report fed back to the solver.
const correctionPrompt = `An independent review of your solution above found the problems listed below. Address every finding: repair what is wrong, justify what is unjustified, and rewrite the affected parts. Then produce the full corrected solution in the same output format as before, including the solution markers. If a finding convinces you the approach cannot work, say so honestly rather than papering over it.

--- REVIEW FINDINGS START ---
%s
--- REVIEW FINDINGS END ---`
