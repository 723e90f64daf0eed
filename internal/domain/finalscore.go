package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// PrematureScoreBase is the numerator of the discounted score assigned to
// sessions that ended before any response could be evaluated. The result
// is proportional to how few responses were given relative to the minimum
// expected and never exceeds the minimum-performance threshold.
const PrematureScoreBase = 30.0

// FinalResult is the terminal outcome of an interview: the rounded
// penalty-adjusted score and the human-readable report.
type FinalResult struct {
	Score    int
	Feedback string
}

// FinalizeInput carries everything the calculator needs to produce the
// terminal score for one interview.
type FinalizeInput struct {
	// Scoring is the continuous scoring state at the end of the session,
	// nil when no candidate response was ever evaluated.
	Scoring *ContinuousScoring

	// CandidateResponses is the count of user-role messages in the
	// transcript, evaluated or not.
	CandidateResponses int

	// Reason is why the session ended. EndReasonNone marks an explicit
	// end action.
	Reason EndReason

	// Elapsed is the session duration at the time the interview ended.
	Elapsed time.Duration

	// LatestFeedback is the evaluation collaborator's most recent
	// free-text feedback, appended verbatim to the report.
	LatestFeedback string
}

// FinalScoreCalculator produces the terminal numeric score and report,
// applying coverage and early-termination penalties. It is invoked exactly
// once, at the transition into the completed status.
type FinalScoreCalculator struct {
	Policy TerminationPolicy
}

// Finalize computes the final score for the three disjoint terminal
// situations, in priority order:
//
//  1. no evaluated responses and no candidate responses at all: score 0;
//  2. the session ended while scoring state is absent (responses were
//     given but never evaluated): a steeply discounted score capped at the
//     minimum-performance threshold;
//  3. normal completion: the running mean with the coverage penalty, the
//     early-termination cap, and threshold alignment applied in order.
//
// The returned score is always an integer in [0,100].
func (c FinalScoreCalculator) Finalize(in FinalizeInput) FinalResult {
	if in.Scoring.ResponseCount() == 0 {
		if in.CandidateResponses == 0 {
			return c.noResponses()
		}
		return c.premature(in)
	}
	return c.normal(in)
}

// noResponses covers sessions that ended with nothing answered, whether by
// timeout or explicit end. Elapsed time and job content never change this
// outcome.
func (c FinalScoreCalculator) noResponses() FinalResult {
	var b strings.Builder
	b.WriteString("Interview ended with no responses from the candidate.\n\n")
	fmt.Fprintf(&b, "Final Score: 0/100\n")
	fmt.Fprintf(&b, "Questions Answered: 0/%d minimum required\n\n", c.Policy.MinTopics)
	b.WriteString("Note: Candidate did not provide any responses during the interview.")

	return FinalResult{Score: 0, Feedback: b.String()}
}

// premature covers sessions ended while continuous scoring never got a
// composite score: the candidate said something, but nothing was
// evaluated. The score is proportional to the response count relative to
// the expected minimum and capped at the minimum threshold.
func (c FinalScoreCalculator) premature(in FinalizeInput) FinalResult {
	raw := math.Round(PrematureScoreBase * float64(in.CandidateResponses) / float64(c.Policy.MinTopics))
	score := int(math.Min(c.Policy.MinimumThreshold, raw))

	var b strings.Builder
	b.WriteString("Interview ended before any responses could be evaluated.\n\n")
	fmt.Fprintf(&b, "Final Score: %d/100\n", score)
	fmt.Fprintf(&b, "Questions Answered: %d/%d minimum required\n\n", in.CandidateResponses, c.Policy.MinTopics)
	b.WriteString("Note: Score was heavily discounted because the session ended early.")

	return FinalResult{Score: score, Feedback: b.String()}
}

// normal covers completion with evaluated responses. Penalties apply in a
// fixed order so the rounded final score never misrepresents which
// performance band the candidate fell into.
func (c FinalScoreCalculator) normal(in FinalizeInput) FinalResult {
	cs := in.Scoring
	finalScore := cs.CurrentScore
	responseCount := in.CandidateResponses
	topicsCovered := cs.UniqueTopicsAsked

	// Coverage penalty: short sessions are scaled down, never up.
	if responseCount < c.Policy.MinTopics {
		penalized := finalScore * (float64(responseCount) / float64(c.Policy.MinTopics)) * 0.8
		finalScore = math.Min(finalScore, penalized)
	}

	// Early-termination cap: performance-based ends before the wall-clock
	// ceiling cannot score above the minimum threshold.
	perfEnd := in.Reason.Performance()
	if perfEnd && in.Elapsed < c.Policy.DurationLimit {
		finalScore = math.Min(finalScore, c.Policy.MinimumThreshold)
	}

	// Threshold alignment against the unpenalized running mean.
	if cs.CurrentScore <= c.Policy.MinimumThreshold {
		finalScore = math.Min(finalScore, c.Policy.MinimumThreshold)
	} else if cs.CurrentScore < c.Policy.DecentThreshold {
		finalScore = math.Min(finalScore, c.Policy.DecentThreshold-5)
	}

	score := int(math.Round(finalScore))

	var b strings.Builder
	if perfEnd {
		fmt.Fprintf(&b, "Interview ended early due to performance concerns after evaluating %d different skill areas.\n\n", topicsCovered)
	} else {
		fmt.Fprintf(&b, "Interview ended after evaluating %d different skill areas.\n\n", topicsCovered)
	}
	fmt.Fprintf(&b, "Final Score: %d/100\n", score)
	fmt.Fprintf(&b, "Technical Accuracy: %d/100\n", int(math.Round(cs.TechnicalAccuracy)))
	fmt.Fprintf(&b, "Job Alignment: %d/100\n", int(math.Round(cs.JobAlignment)))
	fmt.Fprintf(&b, "Communication Clarity: %d/100\n\n", int(math.Round(cs.CommunicationClarity)))
	fmt.Fprintf(&b, "Questions Answered: %d/%d minimum required\n", responseCount, c.Policy.MinTopics)
	fmt.Fprintf(&b, "Topics Covered: %d/%d minimum required\n", topicsCovered, c.Policy.MinTopics)
	if responseCount < c.Policy.MinTopics {
		b.WriteString("\nNote: Score was adjusted down due to insufficient number of responses.")
	}
	if perfEnd {
		b.WriteString("\nNote: Interview was terminated early due to performance concerns.")
	}
	if in.LatestFeedback != "" {
		fmt.Fprintf(&b, "\n\nDetailed Feedback:\n%s", in.LatestFeedback)
	}

	return FinalResult{Score: score, Feedback: b.String()}
}
