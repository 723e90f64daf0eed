package domain

import "time"

// Default thresholds and limits for the termination policy, matching the
// product's scoring bands.
const (
	// DefaultMinimumThreshold is the running-mean floor below which the
	// candidate is considered to be performing poorly.
	DefaultMinimumThreshold = 40.0

	// DefaultDecentThreshold is the running-mean bound below which a
	// sustained session is considered underperforming.
	DefaultDecentThreshold = 60.0

	// DefaultMinTopics is the minimum distinct-topic coverage required
	// before any performance-based early termination may trigger.
	DefaultMinTopics = 5

	// DefaultDurationLimit is the hard wall-clock ceiling on a session.
	DefaultDurationLimit = 45 * time.Minute
)

// EndReason identifies why the termination policy decided to end an
// interview.
type EndReason string

// Termination reasons, in the order the policy evaluates them.
const (
	// EndReasonNone means the interview continues.
	EndReasonNone EndReason = ""

	// EndReasonRecommended means the evaluator recommended ending and
	// topic coverage permitted acting on it.
	EndReasonRecommended EndReason = "evaluator_recommended"

	// EndReasonScoreFloor means the running mean fell to the minimum
	// threshold with sufficient topic coverage.
	EndReasonScoreFloor EndReason = "score_floor"

	// EndReasonSustainedPoor means enough responses were evaluated with
	// sufficient coverage while the running mean stayed below the decent
	// threshold.
	EndReasonSustainedPoor EndReason = "sustained_poor"

	// EndReasonTimeLimit means the wall-clock ceiling was reached.
	EndReasonTimeLimit EndReason = "time_limit"
)

// Performance reports whether the reason is a performance-based early
// termination, as opposed to the wall-clock ceiling.
func (r EndReason) Performance() bool {
	switch r {
	case EndReasonRecommended, EndReasonScoreFloor, EndReasonSustainedPoor:
		return true
	default:
		return false
	}
}

// TerminationPolicy is a pure decision function over aggregate scoring
// state, topic coverage, elapsed time, and the latest evaluation's
// recommendation.
//
// Coverage gating prevents ending an interview after one bad answer before
// the candidate has had a fair chance to demonstrate breadth; the
// wall-clock ceiling bounds session length regardless of scoring state.
type TerminationPolicy struct {
	// MinimumThreshold is the poor-performance running-mean floor.
	MinimumThreshold float64

	// DecentThreshold is the underperformance running-mean bound.
	DecentThreshold float64

	// MinTopics gates performance-based termination on topic coverage
	// and is the denominator of the coverage penalties.
	MinTopics int

	// DurationLimit is the hard wall-clock ceiling.
	DurationLimit time.Duration
}

// DefaultTerminationPolicy returns the policy with production defaults.
func DefaultTerminationPolicy() TerminationPolicy {
	return TerminationPolicy{
		MinimumThreshold: DefaultMinimumThreshold,
		DecentThreshold:  DefaultDecentThreshold,
		MinTopics:        DefaultMinTopics,
		DurationLimit:    DefaultDurationLimit,
	}
}

// Decide evaluates the termination conditions after a folded response and
// returns the first matching end reason, or EndReasonNone to continue.
//
// Performance conditions, all gated on UniqueTopicsAsked >= MinTopics:
//
//  1. the latest evaluation recommends ending;
//  2. the running mean is at or below MinimumThreshold;
//  3. at least MinTopics responses were evaluated and the running mean is
//     below DecentThreshold.
//
// Independently, the interview always ends once elapsed reaches
// DurationLimit, regardless of coverage.
func (p TerminationPolicy) Decide(cs *ContinuousScoring, latest Evaluation, elapsed time.Duration) EndReason {
	if cs != nil && cs.UniqueTopicsAsked >= p.MinTopics {
		switch {
		case latest.EndRecommended:
			return EndReasonRecommended
		case cs.CurrentScore <= p.MinimumThreshold:
			return EndReasonScoreFloor
		case len(cs.Responses) >= p.MinTopics && cs.CurrentScore < p.DecentThreshold:
			return EndReasonSustainedPoor
		}
	}

	if elapsed >= p.DurationLimit {
		return EndReasonTimeLimit
	}

	return EndReasonNone
}
