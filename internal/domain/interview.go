// Package domain contains pure, dependency-free domain models for the
// interview scoring engine: the Interview aggregate, continuous scoring
// state, topic tracking, the termination policy, and final score
// calculation.
package domain

import (
	"fmt"
	"time"
)

// Role identifies the author of a chat message within an interview
// transcript.
type Role string

// Message roles recognized by the engine.
const (
	// RoleSystem marks framing messages such as the interview opening.
	RoleSystem Role = "system"

	// RoleAssistant marks interviewer-authored messages. Topic tracking
	// only considers messages with this role.
	RoleAssistant Role = "assistant"

	// RoleUser marks candidate-authored messages. Only these are
	// evaluated and folded into the continuous scoring state.
	RoleUser Role = "user"
)

// InterviewStatus represents the lifecycle state of an interview.
// Transitions are forward-only; completed and cancelled are terminal.
type InterviewStatus string

// Interview lifecycle states.
const (
	StatusScheduled  InterviewStatus = "scheduled"
	StatusInProgress InterviewStatus = "in_progress"
	StatusCompleted  InterviewStatus = "completed"
	StatusCancelled  InterviewStatus = "cancelled"
)

// ChatMessage is a single entry in the interview transcript.
type ChatMessage struct {
	// Role identifies the message author.
	Role Role `json:"role"`

	// Content contains the message text.
	Content string `json:"content"`

	// Timestamp records when the message was produced, supplied by the
	// caller. The engine does not own a wall clock.
	Timestamp time.Time `json:"timestamp"`
}

// Interview is the aggregate root mutated by the engine turn by turn and
// persisted whole through the record repository. Message ordering is the
// sole source of truth for the message indices referenced by the scoring
// response log.
type Interview struct {
	// ID uniquely identifies this interview.
	ID string `json:"id"`

	// CandidateID references the candidate record in an external store.
	CandidateID string `json:"candidate_id"`

	// JobID references the job record in an external store.
	JobID string `json:"job_id"`

	// Status is the current lifecycle state.
	Status InterviewStatus `json:"status"`

	// Messages is the ordered transcript. Append-only while in progress,
	// immutable once the interview is terminal.
	Messages []ChatMessage `json:"messages"`

	// ElapsedTime is the caller-supplied session duration in milliseconds
	// since the interview started. It never decreases.
	ElapsedTime int64 `json:"elapsed_time"`

	// Scoring holds the continuous scoring state. It is nil until the
	// first candidate response has been evaluated and frozen once the
	// interview completes.
	Scoring *ContinuousScoring `json:"continuous_scoring,omitempty"`

	// Score is the final score in [0,100], populated at completion.
	Score *int `json:"score,omitempty"`

	// Feedback is the final human-readable report, populated at completion.
	Feedback string `json:"feedback,omitempty"`

	// CreatedAt records when the interview was scheduled.
	CreatedAt time.Time `json:"created_at"`

	// StartedAt records the scheduled -> in_progress transition.
	StartedAt *time.Time `json:"started_at,omitempty"`
}

// NewInterview creates a scheduled interview for a candidate/job pair with
// an opening system message.
func NewInterview(id, candidateID, jobID, opening string, now time.Time) (*Interview, error) {
	if id == "" {
		return nil, fmt.Errorf("interview id cannot be empty")
	}
	if candidateID == "" || jobID == "" {
		return nil, fmt.Errorf("interview %s: candidate and job ids are required", id)
	}

	iv := &Interview{
		ID:          id,
		CandidateID: candidateID,
		JobID:       jobID,
		Status:      StatusScheduled,
		CreatedAt:   now,
	}
	if opening != "" {
		iv.Messages = append(iv.Messages, ChatMessage{
			Role:      RoleSystem,
			Content:   opening,
			Timestamp: now,
		})
	}
	return iv, nil
}

// IsTerminal reports whether the interview has reached a terminal status.
// Terminal interviews reject all further mutation.
func (iv *Interview) IsTerminal() bool {
	return iv.Status == StatusCompleted || iv.Status == StatusCancelled
}

// Start transitions the interview from scheduled to in_progress.
// Starting an interview in any other state is rejected without mutation;
// starting twice yields ErrInvalidTransition, not a crash.
func (iv *Interview) Start(now time.Time) error {
	if iv.Status != StatusScheduled {
		return &TransitionError{
			ID:   iv.ID,
			From: iv.Status,
			To:   StatusInProgress,
			Err:  ErrInvalidTransition,
		}
	}
	iv.Status = StatusInProgress
	iv.StartedAt = &now
	iv.ElapsedTime = 0
	return nil
}

// Cancel transitions the interview to the cancelled terminal state.
// No score calculation is performed.
func (iv *Interview) Cancel() error {
	if iv.IsTerminal() {
		return &TransitionError{
			ID:   iv.ID,
			From: iv.Status,
			To:   StatusCancelled,
			Err:  ErrAlreadyTerminal,
		}
	}
	iv.Status = StatusCancelled
	return nil
}

// AppendMessage appends a message to the transcript and returns its index.
// Messages may only be appended while the interview is in progress.
func (iv *Interview) AppendMessage(msg ChatMessage) (int, error) {
	if iv.Status != StatusInProgress {
		if iv.IsTerminal() {
			return 0, &TransitionError{ID: iv.ID, From: iv.Status, To: iv.Status, Err: ErrAlreadyTerminal}
		}
		return 0, &TransitionError{ID: iv.ID, From: iv.Status, To: StatusInProgress, Err: ErrInvalidTransition}
	}
	iv.Messages = append(iv.Messages, msg)
	return len(iv.Messages) - 1, nil
}

// AdvanceElapsed updates the caller-supplied elapsed time, keeping it
// monotonically non-decreasing.
func (iv *Interview) AdvanceElapsed(elapsedMs int64) {
	if elapsedMs > iv.ElapsedTime {
		iv.ElapsedTime = elapsedMs
	}
}

// CandidateResponseCount returns the number of user-role messages in the
// transcript. Not every counted message need have been evaluated.
func (iv *Interview) CandidateResponseCount() int {
	count := 0
	for _, msg := range iv.Messages {
		if msg.Role == RoleUser {
			count++
		}
	}
	return count
}

// Complete marks the interview completed with the given final score and
// report. Completing a terminal interview is rejected.
func (iv *Interview) Complete(score int, feedback string) error {
	if iv.IsTerminal() {
		return &TransitionError{ID: iv.ID, From: iv.Status, To: StatusCompleted, Err: ErrAlreadyTerminal}
	}
	iv.Status = StatusCompleted
	iv.Score = &score
	iv.Feedback = feedback
	return nil
}

// Clone returns a deep copy of the interview. Repositories hand out clones
// so callers can never mutate stored state through aliased slices.
func (iv *Interview) Clone() *Interview {
	if iv == nil {
		return nil
	}
	cp := *iv
	if iv.Messages != nil {
		cp.Messages = make([]ChatMessage, len(iv.Messages))
		copy(cp.Messages, iv.Messages)
	}
	if iv.Scoring != nil {
		cp.Scoring = iv.Scoring.Clone()
	}
	if iv.Score != nil {
		score := *iv.Score
		cp.Score = &score
	}
	if iv.StartedAt != nil {
		started := *iv.StartedAt
		cp.StartedAt = &started
	}
	return &cp
}
