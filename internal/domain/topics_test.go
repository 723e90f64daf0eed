package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assistantMsg(content string) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: content}
}

func userMsg(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}

// TestLeadingPhraseTracker_CountUniqueTopics covers the coverage heuristic:
// which messages qualify as questions, how topics are extracted, and when
// a question is treated as a follow-up.
func TestLeadingPhraseTracker_CountUniqueTopics(t *testing.T) {
	tests := []struct {
		name     string
		messages []ChatMessage
		expected int
	}{
		{
			name:     "empty transcript",
			messages: nil,
			expected: 0,
		},
		{
			name: "assistant statement without question mark is ignored",
			messages: []ChatMessage{
				assistantMsg("Tell me about your background."),
			},
			expected: 0,
		},
		{
			name: "user question is ignored",
			messages: []ChatMessage{
				userMsg("Could you repeat the question?"),
			},
			expected: 0,
		},
		{
			name: "two unrelated questions count separately",
			messages: []ChatMessage{
				assistantMsg("What is a goroutine?"),
				userMsg("A lightweight thread."),
				assistantMsg("How does garbage collection work?"),
			},
			expected: 2,
		},
		{
			name: "follow-up containing previous first word is not counted",
			messages: []ChatMessage{
				assistantMsg("Explain channels in Go?"),
				userMsg("They pass values between goroutines."),
				assistantMsg("Explain buffered channels then?"),
			},
			expected: 1,
		},
		{
			name: "topic is the phrase before the first sentence terminator",
			messages: []ChatMessage{
				assistantMsg("Good. What about indexes?"),
			},
			// Leading phrase "good" carries the topic; the question text
			// after the period is not part of it.
			expected: 1,
		},
		{
			name: "case folding deduplicates repeated questions",
			messages: []ChatMessage{
				assistantMsg("What is REST?"),
				userMsg("An API style."),
				assistantMsg("Databases: how do transactions work?"),
				userMsg("They group writes."),
				assistantMsg("WHAT IS REST?"),
			},
			expected: 2,
		},
	}

	tracker := NewLeadingPhraseTracker()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tracker.CountUniqueTopics(tt.messages))
		})
	}
}

// TestLeadingPhraseTracker_PureFunction verifies determinism and
// append-monotonicity of the count.
func TestLeadingPhraseTracker_PureFunction(t *testing.T) {
	tracker := NewLeadingPhraseTracker()

	var messages []ChatMessage
	last := 0
	for i := 0; i < 10; i++ {
		messages = append(messages, assistantMsg(fmt.Sprintf("Question number %d about area %d?", i, i)))
		messages = append(messages, userMsg("an answer"))

		count := tracker.CountUniqueTopics(messages)
		assert.GreaterOrEqual(t, count, last, "count must not decrease under appends")
		assert.Equal(t, count, tracker.CountUniqueTopics(messages), "count must be deterministic")
		last = count
	}
}
