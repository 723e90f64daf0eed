// Package engine implements the continuous interview scoring and
// termination engine. It drives the per-turn cycle of evaluating candidate
// responses, folding them into running per-criterion means, tracking topic
// coverage, and deciding when and how an interview ends.
package engine

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hireloop/interview-engine/internal/domain"
	"github.com/hireloop/interview-engine/internal/ports"
)

// Metric names emitted by the engine.
const (
	metricTurnsTotal          = "interview_turns_total"
	metricEvaluationFailures  = "evaluation_failures_total"
	metricCompletedTotal      = "interview_completed_total"
	metricEvaluationDuration  = "evaluation_duration_seconds"
	metricFinalScore          = "interview_final_score"
	metricUniqueTopics        = "interview_unique_topics"
)

// NeutralEvaluation is the default substituted when the evaluation
// collaborator fails: mid-range scores that neither punish nor reward the
// candidate for an infrastructure failure, and no end recommendation.
func NeutralEvaluation() domain.Evaluation {
	return domain.Evaluation{
		Score:                70,
		TechnicalAccuracy:    70,
		JobAlignment:         70,
		CommunicationClarity: 70,
		Feedback:             "evaluation unavailable",
		EndRecommended:       false,
	}
}

// TurnInput carries one candidate turn into the engine. The caller owns
// the wall clock: elapsed time and timestamps are supplied, never measured
// by the engine.
type TurnInput struct {
	// InterviewID identifies the interview being advanced.
	InterviewID string

	// Content is the candidate's response text.
	Content string

	// ElapsedTimeMs is the session duration in milliseconds as observed
	// by the caller. Values below the stored elapsed time are ignored.
	ElapsedTimeMs int64

	// Timestamp is when the candidate message was produced.
	Timestamp time.Time
}

// TurnResult reports the outcome of one processed turn.
type TurnResult struct {
	// Interview is the post-turn state of the interview record.
	Interview *domain.Interview

	// Evaluation is the evaluation folded this turn, neutral when the
	// collaborator failed.
	Evaluation domain.Evaluation

	// EvaluationDegraded is set when the neutral default was substituted
	// for a failed evaluation.
	EvaluationDegraded bool

	// Ended reports whether this turn terminated the interview.
	Ended bool

	// EndReason is why the interview ended, empty while it continues.
	EndReason domain.EndReason
}

// Engine orchestrates interview turns against pluggable collaborators.
// It assumes at most one writer per interview at a time; serializing
// concurrent turns for the same interview is the caller's responsibility.
type Engine struct {
	repo    ports.InterviewRepository
	eval    ports.Evaluator
	jobs    ports.JobDirectory
	topics  domain.TopicTracker
	policy  domain.TerminationPolicy
	calc    domain.FinalScoreCalculator
	metrics ports.MetricsCollector
	tracer  trace.Tracer
}

// New creates an engine from its collaborators and configuration. The
// repository, evaluator, and job directory are required; metrics may be
// nil to disable collection.
func New(
	repo ports.InterviewRepository,
	eval ports.Evaluator,
	jobs ports.JobDirectory,
	cfg Config,
	metrics ports.MetricsCollector,
) (*Engine, error) {
	if repo == nil {
		return nil, fmt.Errorf("interview repository cannot be nil")
	}
	if eval == nil {
		return nil, fmt.Errorf("evaluator cannot be nil")
	}
	if jobs == nil {
		return nil, fmt.Errorf("job directory cannot be nil")
	}

	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	policy := cfg.policy()
	return &Engine{
		repo:    repo,
		eval:    eval,
		jobs:    jobs,
		topics:  domain.NewLeadingPhraseTracker(),
		policy:  policy,
		calc:    domain.FinalScoreCalculator{Policy: policy},
		metrics: metrics,
		tracer:  otel.Tracer("interview-engine"),
	}, nil
}

// WithTopicTracker replaces the default topic tracker. Intended for wiring
// an alternative coverage heuristic; must be called before the engine
// processes turns.
func (e *Engine) WithTopicTracker(t domain.TopicTracker) *Engine {
	if t != nil {
		e.topics = t
	}
	return e
}

// Schedule creates a new interview in the scheduled state and persists it.
// The id is caller-supplied so the engine stays free of id-generation
// policy.
func (e *Engine) Schedule(ctx context.Context, id, candidateID, jobID, opening string, now time.Time) (*domain.Interview, error) {
	iv, err := domain.NewInterview(id, candidateID, jobID, opening, now)
	if err != nil {
		return nil, err
	}
	if err := e.repo.Save(ctx, iv); err != nil {
		return nil, ports.NewRepositoryError("save", id, err)
	}
	return iv, nil
}

// Start transitions a scheduled interview to in_progress and resets its
// elapsed time.
func (e *Engine) Start(ctx context.Context, id string, now time.Time) (*domain.Interview, error) {
	iv, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := iv.Start(now); err != nil {
		return nil, err
	}
	if err := e.repo.Save(ctx, iv); err != nil {
		return nil, ports.NewRepositoryError("save", id, err)
	}
	return iv, nil
}

// RecordInterviewerMessage appends an interviewer (assistant) message to an
// in-progress interview's transcript. Question content generation lives
// outside the engine; recording the question here keeps topic coverage
// derivable from the transcript alone.
func (e *Engine) RecordInterviewerMessage(ctx context.Context, id, content string, ts time.Time) (*domain.Interview, error) {
	iv, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := iv.AppendMessage(domain.ChatMessage{
		Role:      domain.RoleAssistant,
		Content:   content,
		Timestamp: ts,
	}); err != nil {
		return nil, err
	}
	if err := e.repo.Save(ctx, iv); err != nil {
		return nil, ports.NewRepositoryError("save", id, err)
	}
	return iv, nil
}

// ProcessTurn advances an in-progress interview by one candidate response:
// append, evaluate, fold, recount topics, and decide termination. Exactly
// one save happens per turn, after all mutation, so a failure at any stage
// leaves the stored record untouched.
//
// An evaluation failure does not abort the turn: the neutral default is
// folded instead and the degradation is reported on the result.
func (e *Engine) ProcessTurn(ctx context.Context, in TurnInput) (*TurnResult, error) {
	ctx, span := e.tracer.Start(ctx, "Engine.ProcessTurn",
		trace.WithAttributes(
			attribute.String("interview.id", in.InterviewID),
			attribute.Int64("interview.elapsed_ms", in.ElapsedTimeMs),
		),
	)
	defer span.End()

	iv, err := e.load(ctx, in.InterviewID)
	if err != nil {
		span.SetStatus(codes.Error, "load failed")
		return nil, err
	}
	if iv.Status != domain.StatusInProgress {
		err := e.statusError(iv)
		span.SetStatus(codes.Error, "wrong status")
		return nil, err
	}

	// Resolve the job before touching interview state: an abort here must
	// leave the stored record unchanged.
	job, err := e.jobs.GetJob(ctx, iv.JobID)
	if err != nil {
		span.SetStatus(codes.Error, "job lookup failed")
		return nil, fmt.Errorf("resolve job %s for interview %s: %w", iv.JobID, iv.ID, err)
	}

	iv.AdvanceElapsed(in.ElapsedTimeMs)

	msgIndex, err := iv.AppendMessage(domain.ChatMessage{
		Role:      domain.RoleUser,
		Content:   in.Content,
		Timestamp: in.Timestamp,
	})
	if err != nil {
		span.SetStatus(codes.Error, "append failed")
		return nil, err
	}

	eval, degraded := e.evaluate(ctx, ports.EvaluationRequest{
		CandidateMessage: in.Content,
		Transcript:       iv.Messages,
		Job:              job,
	})

	iv.Scoring = domain.FoldEvaluation(iv.Scoring, eval, msgIndex)
	iv.Scoring.UniqueTopicsAsked = e.topics.CountUniqueTopics(iv.Messages)

	elapsed := time.Duration(iv.ElapsedTime) * time.Millisecond
	reason := e.policy.Decide(iv.Scoring, eval, elapsed)

	res := &TurnResult{
		Evaluation:         eval,
		EvaluationDegraded: degraded,
		EndReason:          reason,
		Ended:              reason != domain.EndReasonNone,
	}

	if res.Ended {
		final := e.calc.Finalize(domain.FinalizeInput{
			Scoring:            iv.Scoring,
			CandidateResponses: iv.CandidateResponseCount(),
			Reason:             reason,
			Elapsed:            elapsed,
			LatestFeedback:     eval.Feedback,
		})
		if err := iv.Complete(final.Score, final.Feedback); err != nil {
			span.SetStatus(codes.Error, "complete failed")
			return nil, err
		}
		e.recordCompletion(iv, reason)
	}

	if err := e.repo.Save(ctx, iv); err != nil {
		span.SetStatus(codes.Error, "save failed")
		return nil, ports.NewRepositoryError("save", iv.ID, err)
	}

	e.count(metricTurnsTotal, map[string]string{"degraded": fmt.Sprintf("%t", degraded)})
	span.SetAttributes(
		attribute.Float64("scoring.current_score", iv.Scoring.CurrentScore),
		attribute.Int("scoring.unique_topics", iv.Scoring.UniqueTopicsAsked),
		attribute.Bool("interview.ended", res.Ended),
		attribute.String("interview.end_reason", string(reason)),
	)

	res.Interview = iv
	return res, nil
}

// End explicitly terminates an in-progress or scheduled interview and
// computes its final score from whatever state exists. It covers both the
// caller-driven wall-clock timeout and a manual end action.
func (e *Engine) End(ctx context.Context, id string, elapsedMs int64) (*domain.Interview, error) {
	ctx, span := e.tracer.Start(ctx, "Engine.End",
		trace.WithAttributes(attribute.String("interview.id", id)),
	)
	defer span.End()

	iv, err := e.load(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, "load failed")
		return nil, err
	}
	if iv.IsTerminal() {
		return nil, &domain.TransitionError{
			ID:   iv.ID,
			From: iv.Status,
			To:   domain.StatusCompleted,
			Err:  domain.ErrAlreadyTerminal,
		}
	}

	iv.AdvanceElapsed(elapsedMs)
	elapsed := time.Duration(iv.ElapsedTime) * time.Millisecond

	reason := domain.EndReasonNone
	if elapsed >= e.policy.DurationLimit {
		reason = domain.EndReasonTimeLimit
	}

	latestFeedback := ""
	if n := iv.Scoring.ResponseCount(); n > 0 {
		latestFeedback = iv.Scoring.Responses[n-1].Feedback
	}

	final := e.calc.Finalize(domain.FinalizeInput{
		Scoring:            iv.Scoring,
		CandidateResponses: iv.CandidateResponseCount(),
		Reason:             reason,
		Elapsed:            elapsed,
		LatestFeedback:     latestFeedback,
	})
	if err := iv.Complete(final.Score, final.Feedback); err != nil {
		return nil, err
	}
	e.recordCompletion(iv, reason)

	if err := e.repo.Save(ctx, iv); err != nil {
		span.SetStatus(codes.Error, "save failed")
		return nil, ports.NewRepositoryError("save", id, err)
	}
	return iv, nil
}

// Cancel marks an interview cancelled without computing a score.
func (e *Engine) Cancel(ctx context.Context, id string) (*domain.Interview, error) {
	iv, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := iv.Cancel(); err != nil {
		return nil, err
	}
	if err := e.repo.Save(ctx, iv); err != nil {
		return nil, ports.NewRepositoryError("save", id, err)
	}
	return iv, nil
}

// Get returns the current state of an interview.
func (e *Engine) Get(ctx context.Context, id string) (*domain.Interview, error) {
	return e.load(ctx, id)
}

func (e *Engine) load(ctx context.Context, id string) (*domain.Interview, error) {
	iv, err := e.repo.Load(ctx, id)
	if err != nil {
		return nil, ports.NewRepositoryError("load", id, err)
	}
	return iv, nil
}

func (e *Engine) statusError(iv *domain.Interview) error {
	if iv.IsTerminal() {
		return &domain.TransitionError{ID: iv.ID, From: iv.Status, To: iv.Status, Err: domain.ErrAlreadyTerminal}
	}
	return &domain.TransitionError{ID: iv.ID, From: iv.Status, To: domain.StatusInProgress, Err: domain.ErrInvalidTransition}
}

// evaluate calls the evaluation collaborator and substitutes the neutral
// default on failure. The turn never fails because the evaluator did.
func (e *Engine) evaluate(ctx context.Context, req ports.EvaluationRequest) (domain.Evaluation, bool) {
	start := time.Now()
	eval, err := e.eval.Evaluate(ctx, req)
	e.observe(metricEvaluationDuration, time.Since(start).Seconds(), nil)

	if err != nil {
		e.count(metricEvaluationFailures, nil)
		return NeutralEvaluation(), true
	}
	return eval.Clamped(), false
}

func (e *Engine) recordCompletion(iv *domain.Interview, reason domain.EndReason) {
	labels := map[string]string{"reason": string(reason)}
	e.count(metricCompletedTotal, labels)
	if iv.Score != nil {
		e.observe(metricFinalScore, float64(*iv.Score), nil)
	}
	if iv.Scoring != nil {
		e.gauge(metricUniqueTopics, float64(iv.Scoring.UniqueTopicsAsked), nil)
	}
}

func (e *Engine) count(metric string, labels map[string]string) {
	if e.metrics != nil {
		e.metrics.RecordCounter(metric, 1, labels)
	}
}

func (e *Engine) observe(metric string, value float64, labels map[string]string) {
	if e.metrics != nil {
		e.metrics.RecordHistogram(metric, value, labels)
	}
}

func (e *Engine) gauge(metric string, value float64, labels map[string]string) {
	if e.metrics != nil {
		e.metrics.RecordGauge(metric, value, labels)
	}
}
