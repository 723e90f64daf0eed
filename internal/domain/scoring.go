package domain

// Score bounds for every evaluation dimension and running mean.
const (
	MinScore = 0.0
	MaxScore = 100.0
)

// Evaluation is the structured quality assessment of a single candidate
// response, as produced by the evaluation collaborator. All numeric
// dimensions are on the 0-100 scale.
type Evaluation struct {
	// Score is the composite score for this response.
	Score float64 `json:"score"`

	// TechnicalAccuracy rates the factual correctness of the response.
	TechnicalAccuracy float64 `json:"technical_accuracy"`

	// JobAlignment rates how well the response matches the job's
	// requirements.
	JobAlignment float64 `json:"job_alignment"`

	// CommunicationClarity rates how clearly the response is expressed.
	CommunicationClarity float64 `json:"communication_clarity"`

	// Feedback is the evaluator's free-text assessment of the response.
	Feedback string `json:"feedback"`

	// EndRecommended is set when the evaluator recommends ending the
	// interview. The termination policy gates this on topic coverage.
	EndRecommended bool `json:"end_recommended"`
}

// Clamped returns a copy of the evaluation with every numeric dimension
// clamped into [MinScore, MaxScore]. The aggregator trusts upstream
// validation but never crashes on out-of-range input.
func (ev Evaluation) Clamped() Evaluation {
	ev.Score = clampScore(ev.Score)
	ev.TechnicalAccuracy = clampScore(ev.TechnicalAccuracy)
	ev.JobAlignment = clampScore(ev.JobAlignment)
	ev.CommunicationClarity = clampScore(ev.CommunicationClarity)
	return ev
}

func clampScore(v float64) float64 {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

// ResponseRecord is one entry in the ordered log of evaluated candidate
// turns. Entries are never removed.
type ResponseRecord struct {
	// MessageIndex is the position of the evaluated message in the
	// interview transcript.
	MessageIndex int `json:"message_index"`

	// Score is the composite score the evaluator assigned to this turn.
	Score float64 `json:"score"`

	// Feedback is the evaluator's free-text feedback for this turn.
	Feedback string `json:"feedback"`
}

// ContinuousScoring holds the running per-criterion means across all
// evaluated responses plus the response log. It is created on the first
// evaluated candidate turn and mutated in place on every subsequent one.
type ContinuousScoring struct {
	// CurrentScore is the running mean of composite scores.
	CurrentScore float64 `json:"current_score"`

	// TechnicalAccuracy is the running mean of the technical dimension.
	TechnicalAccuracy float64 `json:"technical_accuracy"`

	// JobAlignment is the running mean of the job-alignment dimension.
	JobAlignment float64 `json:"job_alignment"`

	// CommunicationClarity is the running mean of the clarity dimension.
	CommunicationClarity float64 `json:"communication_clarity"`

	// UniqueTopicsAsked is the distinct-topic count derived from the
	// transcript. It is always recomputed from messages, never
	// incremented ad hoc.
	UniqueTopicsAsked int `json:"unique_topics_asked"`

	// Responses is the append-only log of evaluated candidate turns.
	Responses []ResponseRecord `json:"responses"`
}

// ResponseCount returns the number of evaluated candidate turns.
func (cs *ContinuousScoring) ResponseCount() int {
	if cs == nil {
		return 0
	}
	return len(cs.Responses)
}

// Clone returns a deep copy of the scoring state.
func (cs *ContinuousScoring) Clone() *ContinuousScoring {
	if cs == nil {
		return nil
	}
	cp := *cs
	if cs.Responses != nil {
		cp.Responses = make([]ResponseRecord, len(cs.Responses))
		copy(cp.Responses, cs.Responses)
	}
	return &cp
}

// FoldEvaluation folds a fresh evaluation into the scoring state and
// returns the updated state. A nil state initializes every running mean to
// the evaluation's values; otherwise each dimension advances by the
// incremental mean
//
//	newMean = (oldMean*n + value) / (n+1)
//
// where n is the response count before this fold. Every evaluated turn
// counts equally regardless of when it occurred. The evaluation is
// defensively clamped into [0,100] before folding. The fold has no side
// effects beyond the returned state; persistence belongs to the caller.
func FoldEvaluation(cs *ContinuousScoring, ev Evaluation, messageIndex int) *ContinuousScoring {
	ev = ev.Clamped()

	if cs == nil {
		cs = &ContinuousScoring{
			CurrentScore:         ev.Score,
			TechnicalAccuracy:    ev.TechnicalAccuracy,
			JobAlignment:         ev.JobAlignment,
			CommunicationClarity: ev.CommunicationClarity,
			Responses:            []ResponseRecord{},
		}
	} else {
		n := float64(len(cs.Responses))
		cs.CurrentScore = (cs.CurrentScore*n + ev.Score) / (n + 1)
		cs.TechnicalAccuracy = (cs.TechnicalAccuracy*n + ev.TechnicalAccuracy) / (n + 1)
		cs.JobAlignment = (cs.JobAlignment*n + ev.JobAlignment) / (n + 1)
		cs.CommunicationClarity = (cs.CommunicationClarity*n + ev.CommunicationClarity) / (n + 1)
	}

	cs.Responses = append(cs.Responses, ResponseRecord{
		MessageIndex: messageIndex,
		Score:        ev.Score,
		Feedback:     ev.Feedback,
	})

	return cs
}
