package evaluation

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hireloop/interview-engine/internal/domain"
	"github.com/hireloop/interview-engine/internal/ports"
)

// DefaultRescoreConcurrency bounds parallel LLM calls during a transcript
// re-score.
const DefaultRescoreConcurrency = 5

// RescoredResponse pairs a transcript message with its fresh evaluation.
type RescoredResponse struct {
	// MessageIndex is the position of the candidate message in the
	// transcript.
	MessageIndex int

	// Evaluation is the judge's fresh assessment of that message.
	Evaluation domain.Evaluation
}

// RescoreResult is the outcome of re-scoring a full transcript.
type RescoreResult struct {
	// Responses holds one entry per candidate message, in transcript
	// order.
	Responses []RescoredResponse

	// Scoring is the continuous scoring state rebuilt from the fresh
	// evaluations, nil when the transcript holds no candidate messages.
	Scoring *domain.ContinuousScoring
}

// Rescorer re-evaluates every candidate response of a finished interview,
// typically for auditing or after a judge prompt change. Responses are
// scored concurrently; the rebuilt running means are computed in
// transcript order so they match what live scoring would have produced.
type Rescorer struct {
	judge       ports.Evaluator
	concurrency int
}

// NewRescorer creates a rescorer over the given evaluator. A
// non-positive concurrency uses the default.
func NewRescorer(judge ports.Evaluator, concurrency int) (*Rescorer, error) {
	if judge == nil {
		return nil, fmt.Errorf("evaluator cannot be nil")
	}
	if concurrency <= 0 {
		concurrency = DefaultRescoreConcurrency
	}
	return &Rescorer{judge: judge, concurrency: concurrency}, nil
}

// Rescore evaluates every candidate message in the interview transcript
// against the job context. Any single evaluation failure fails the whole
// re-score; partial rebuilds would silently skew the means.
func (r *Rescorer) Rescore(ctx context.Context, iv *domain.Interview, job ports.JobContext) (*RescoreResult, error) {
	if iv == nil {
		return nil, fmt.Errorf("interview cannot be nil")
	}

	var indices []int
	for i, msg := range iv.Messages {
		if msg.Role == domain.RoleUser {
			indices = append(indices, i)
		}
	}

	evaluations := make([]domain.Evaluation, len(indices))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for slot, msgIndex := range indices {
		g.Go(func() error {
			ev, err := r.judge.Evaluate(gctx, ports.EvaluationRequest{
				CandidateMessage: iv.Messages[msgIndex].Content,
				Transcript:       iv.Messages[:msgIndex+1],
				Job:              job,
			})
			if err != nil {
				return fmt.Errorf("rescore message %d: %w", msgIndex, err)
			}
			evaluations[slot] = ev
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &RescoreResult{}
	for slot, msgIndex := range indices {
		result.Responses = append(result.Responses, RescoredResponse{
			MessageIndex: msgIndex,
			Evaluation:   evaluations[slot],
		})
		result.Scoring = domain.FoldEvaluation(result.Scoring, evaluations[slot], msgIndex)
	}

	return result, nil
}
