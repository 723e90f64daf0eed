package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// foldCaser is a package-level Unicode case folder shared by the topic
// trackers. This avoids creating a new caser per message scan.
var foldCaser = cases.Fold()

// TopicTracker derives the number of distinct question topics the
// interviewer has raised so far from the message transcript. It is a
// coverage proxy for the termination policy, not an exact classifier;
// implementations may over-count semantically identical questions phrased
// differently or under-count different questions sharing a leading word.
//
// The interface isolates the heuristic so a future implementation can swap
// in embedding similarity or explicit topic tagging without touching the
// termination policy.
type TopicTracker interface {
	// CountUniqueTopics returns the distinct-topic count for the given
	// transcript. The count is a pure function of the messages: calling
	// it twice on the same list yields the same result, and it never
	// decreases when messages are only appended.
	CountUniqueTopics(messages []ChatMessage) int
}

// topicCandidate extracts the normalized topic for an interviewer message,
// or "" when the message is not a question. The topic is the case-folded
// text before the first sentence terminator.
func topicCandidate(msg ChatMessage) string {
	if msg.Role != RoleAssistant || !strings.Contains(msg.Content, "?") {
		return ""
	}
	head := msg.Content
	if idx := strings.IndexAny(head, "?.!"); idx >= 0 {
		head = head[:idx]
	}
	return strings.TrimSpace(foldCaser.String(head))
}

func firstWord(topic string) string {
	fields := strings.Fields(topic)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// LeadingPhraseTracker is the default TopicTracker. A question's topic is
// the leading phrase before the first of `? . !`; a question opens a new
// topic only when its phrase does not contain the previous topic's first
// word, otherwise it is treated as a follow-up on the same topic.
type LeadingPhraseTracker struct{}

var _ TopicTracker = (*LeadingPhraseTracker)(nil)

// NewLeadingPhraseTracker returns the default leading-phrase topic tracker.
func NewLeadingPhraseTracker() *LeadingPhraseTracker { return &LeadingPhraseTracker{} }

// CountUniqueTopics scans interviewer messages containing a question mark
// and counts distinct leading phrases, treating phrases that contain the
// previous topic's first word as continuations.
func (t *LeadingPhraseTracker) CountUniqueTopics(messages []ChatMessage) int {
	topics := make(map[string]struct{})
	lastTopic := ""

	for _, msg := range messages {
		topic := topicCandidate(msg)
		if topic == "" {
			continue
		}
		if lastTopic == "" || !strings.Contains(topic, firstWord(lastTopic)) {
			topics[topic] = struct{}{}
			lastTopic = topic
		}
	}

	return len(topics)
}
