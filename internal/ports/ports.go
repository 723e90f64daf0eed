// Package ports defines the contracts between the interview engine and its
// collaborators: the evaluation collaborator, the record repository, the
// LLM transport, and metrics collection. These interfaces enable dependency
// inversion and make the engine testable without external services.
package ports

import (
	"context"

	"github.com/hireloop/interview-engine/internal/domain"
)

// JobContext carries the job description the evaluator scores responses
// against. The job record itself lives in an external store.
type JobContext struct {
	// Title is the position title.
	Title string `json:"title"`

	// Description is the free-text job description.
	Description string `json:"description"`

	// Requirements lists the required skills.
	Requirements []string `json:"requirements"`
}

// EvaluationRequest is the input to one evaluation collaborator call.
type EvaluationRequest struct {
	// CandidateMessage is the response being evaluated.
	CandidateMessage string

	// Transcript is the interview message history up to and including the
	// candidate message.
	Transcript []domain.ChatMessage

	// Job provides the context the response is scored against.
	Job JobContext
}

// Evaluator is the evaluation collaborator: given a candidate message plus
// interview and job context, it returns a structured quality evaluation.
// Implementations may fail or return out-of-range values; the engine
// recovers from failures by substituting a neutral default rather than
// aborting the turn.
type Evaluator interface {
	// Evaluate scores a single candidate response. The call is the only
	// suspending operation in a turn; implementations should respect
	// context cancellation.
	Evaluate(ctx context.Context, req EvaluationRequest) (domain.Evaluation, error)
}

// InterviewRepository is the record repository collaborator. The engine
// performs whole-record read-modify-write cycles and assumes at-most-one
// writer per interview at a time; serializing turns is the caller's
// responsibility.
type InterviewRepository interface {
	// Load returns the interview with the given id, or an error wrapping
	// ErrInterviewNotFound.
	Load(ctx context.Context, id string) (*domain.Interview, error)

	// Save persists the complete interview record. The next turn must
	// observe this save once it returns.
	Save(ctx context.Context, iv *domain.Interview) error
}

// LLMClient abstracts a large language model provider for the evaluation
// infrastructure. Implementations handle retries, rate limiting, and
// timeouts behind this interface.
type LLMClient interface {
	// Complete sends a prompt to the LLM and returns the generated text.
	// The options map carries provider-tunable parameters such as
	// "temperature" (float64), "max_tokens" (int), "system" (string), and
	// "response_format" for providers supporting structured output.
	Complete(ctx context.Context, prompt string, options map[string]any) (string, error)

	// GetModel returns the model identifier used by this client, for
	// logging and capability checks.
	GetModel() string
}

// JobDirectory resolves the job a candidate is interviewing for. The
// engine fetches the job context before mutating any interview state so a
// lookup failure leaves the record untouched.
type JobDirectory interface {
	// GetJob returns the job context for the given id, or an error when
	// the job cannot be resolved.
	GetJob(ctx context.Context, jobID string) (JobContext, error)
}

// MetricsCollector abstracts metrics recording so the engine and the LLM
// middleware stay backend-agnostic. A nil collector is valid everywhere
// and disables collection.
type MetricsCollector interface {
	// RecordCounter increments a named counter by value.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordHistogram records an observation for a named histogram.
	RecordHistogram(metric string, value float64, labels map[string]string)

	// RecordGauge sets a named gauge to value.
	RecordGauge(metric string, value float64, labels map[string]string)
}
