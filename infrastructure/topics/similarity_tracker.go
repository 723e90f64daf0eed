// Package topics provides an alternative topic-coverage tracker that
// deduplicates interviewer questions by string similarity instead of the
// leading-phrase heuristic.
package topics

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/hireloop/interview-engine/internal/domain"
)

var (
	_ domain.TopicTracker = (*SimilarityTracker)(nil)

	// foldCaser is a package-level Unicode case folder shared across
	// tracker instances.
	foldCaser = cases.Fold()
)

// DefaultSimilarityThreshold treats questions as the same topic when their
// normalized edit similarity reaches this value.
const DefaultSimilarityThreshold = 0.75

// SimilarityTracker counts distinct question topics using Levenshtein
// similarity. A question opens a new topic only when its normalized text
// is sufficiently far from every topic seen so far, which catches
// rephrased repeats the leading-phrase heuristic counts twice.
//
// The tracker is stateless and safe for concurrent use.
type SimilarityTracker struct {
	threshold float64
}

// NewSimilarityTracker creates a tracker with the given similarity
// threshold in (0,1]. A zero threshold uses the default.
func NewSimilarityTracker(threshold float64) (*SimilarityTracker, error) {
	if threshold == 0 {
		threshold = DefaultSimilarityThreshold
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("similarity threshold %.2f out of range (0,1]", threshold)
	}
	return &SimilarityTracker{threshold: threshold}, nil
}

// CountUniqueTopics scans interviewer questions and counts those that are
// not similar to any previously seen question. The count is a pure
// function of the transcript and never decreases under appends.
func (t *SimilarityTracker) CountUniqueTopics(messages []domain.ChatMessage) int {
	var seen []string

	for _, msg := range messages {
		if msg.Role != domain.RoleAssistant || !strings.Contains(msg.Content, "?") {
			continue
		}
		normalized := strings.TrimSpace(foldCaser.String(msg.Content))
		if normalized == "" {
			continue
		}

		duplicate := false
		for _, prev := range seen {
			if similarity(normalized, prev) >= t.threshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			seen = append(seen, normalized)
		}
	}

	return len(seen)
}

// similarity returns the normalized edit similarity of two strings in
// [0,1], where 1 means identical.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := utf8.RuneCountInString(a)
	if lb := utf8.RuneCountInString(b); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}
