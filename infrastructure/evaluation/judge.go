// Package evaluation implements the evaluation collaborator: an LLM-backed
// judge that scores a single candidate response against the interview
// transcript and the job description, returning the structured evaluation
// the engine folds into its running means.
package evaluation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/go-playground/validator/v10"

	"github.com/hireloop/interview-engine/internal/domain"
	"github.com/hireloop/interview-engine/internal/ports"
)

var _ ports.Evaluator = (*ResponseJudge)(nil)

// Default generation parameters for the judge.
const (
	// DefaultJudgeTemperature keeps scoring consistent across turns.
	DefaultJudgeTemperature = 0.3

	// DefaultJudgeMaxTokens leaves room for detailed feedback.
	DefaultJudgeMaxTokens = 500

	// maxTranscriptMessages bounds how much history is replayed into the
	// prompt on long interviews.
	maxTranscriptMessages = 20
)

// defaultPromptTemplate scores one response against the job context and
// recent conversation. The JSON format instruction is appended separately.
const defaultPromptTemplate = `You are an expert technical interviewer evaluating a candidate's response during a live interview for the position of {{.Title}}.

Job Details:
- Title: {{.Title}}
- Description: {{.Description}}
- Required Skills: {{.Requirements}}

Recent Conversation:
{{.Transcript}}

Candidate's Latest Response:
{{.Response}}

Evaluate the latest response on a 0-100 scale for each dimension:
- score: overall quality of the response
- technical_accuracy: factual and technical correctness
- job_alignment: relevance to the required skills
- communication_clarity: structure and clarity of expression

Also decide end_recommended: true only when the responses so far show the candidate clearly cannot meet the bar for this role.`

// jsonFormatInstruction forces a parseable response shape.
const jsonFormatInstruction = "\n\nIMPORTANT: You must respond with valid JSON in exactly this format:\n" +
	`{"score": <0-100>, "technical_accuracy": <0-100>, "job_alignment": <0-100>, "communication_clarity": <0-100>, "feedback": "<detailed assessment>", "end_recommended": <true|false>}`

// judgeResponse is the JSON structure expected back from the LLM.
type judgeResponse struct {
	Score                float64 `json:"score" validate:"min=0,max=100"`
	TechnicalAccuracy    float64 `json:"technical_accuracy" validate:"min=0,max=100"`
	JobAlignment         float64 `json:"job_alignment" validate:"min=0,max=100"`
	CommunicationClarity float64 `json:"communication_clarity" validate:"min=0,max=100"`
	Feedback             string  `json:"feedback" validate:"required"`
	EndRecommended       bool    `json:"end_recommended"`
}

// JudgeConfig tunes the response judge. Zero values use the defaults.
type JudgeConfig struct {
	// PromptTemplate overrides the built-in evaluation prompt. It must
	// reference {{.Title}}, {{.Transcript}}, and {{.Response}}.
	PromptTemplate string

	// Temperature controls scoring randomness.
	Temperature float64 `validate:"min=0,max=1"`

	// MaxTokens bounds the judge's output length.
	MaxTokens int `validate:"min=0,max=4000"`
}

// ResponseJudge implements ports.Evaluator with an LLM client. It is
// stateless and safe for concurrent use.
type ResponseJudge struct {
	llm      ports.LLMClient
	config   JudgeConfig
	validate *validator.Validate
	tmpl     *template.Template
}

// NewResponseJudge creates a judge over the given LLM client.
func NewResponseJudge(llm ports.LLMClient, config JudgeConfig) (*ResponseJudge, error) {
	if llm == nil {
		return nil, fmt.Errorf("LLM client cannot be nil")
	}

	if config.Temperature == 0 {
		config.Temperature = DefaultJudgeTemperature
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = DefaultJudgeMaxTokens
	}

	v := validator.New()
	if err := v.Struct(config); err != nil {
		return nil, fmt.Errorf("judge configuration validation failed: %w", err)
	}

	promptText := config.PromptTemplate
	if promptText == "" {
		promptText = defaultPromptTemplate
	}
	tmpl, err := template.New("judgePrompt").Parse(promptText)
	if err != nil {
		return nil, fmt.Errorf("parse judge prompt template: %w", err)
	}

	return &ResponseJudge{
		llm:      llm,
		config:   config,
		validate: v,
		tmpl:     tmpl,
	}, nil
}

// Evaluate scores one candidate response. Failures are returned to the
// caller; the engine decides whether to degrade to a neutral default.
func (j *ResponseJudge) Evaluate(ctx context.Context, req ports.EvaluationRequest) (domain.Evaluation, error) {
	prompt, err := j.buildPrompt(req)
	if err != nil {
		return domain.Evaluation{}, err
	}

	options := map[string]any{
		"temperature": j.config.Temperature,
		"max_tokens":  j.config.MaxTokens,
	}
	if supportsJSONMode(j.llm) {
		options["response_format"] = "json"
	}

	response, err := j.llm.Complete(ctx, prompt, options)
	if err != nil {
		return domain.Evaluation{}, fmt.Errorf("%w: %v", ports.ErrEvaluationUnavailable, err)
	}

	return j.parseResponse(response)
}

func (j *ResponseJudge) buildPrompt(req ports.EvaluationRequest) (string, error) {
	data := struct {
		Title        string
		Description  string
		Requirements string
		Transcript   string
		Response     string
	}{
		Title:        req.Job.Title,
		Description:  req.Job.Description,
		Requirements: strings.Join(req.Job.Requirements, ", "),
		Transcript:   renderTranscript(req.Transcript),
		Response:     req.CandidateMessage,
	}

	var buf bytes.Buffer
	if err := j.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute judge prompt template: %w", err)
	}

	return buf.String() + jsonFormatInstruction, nil
}

// renderTranscript flattens recent messages into role-prefixed lines.
func renderTranscript(messages []domain.ChatMessage) string {
	if len(messages) > maxTranscriptMessages {
		messages = messages[len(messages)-maxTranscriptMessages:]
	}

	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", msg.Role, msg.Content)
	}
	return b.String()
}

func (j *ResponseJudge) parseResponse(response string) (domain.Evaluation, error) {
	jsonStr := extractJSON(response)
	if jsonStr == "" {
		return domain.Evaluation{}, fmt.Errorf("%w: no JSON object in judge response (%d chars)",
			ports.ErrEvaluationUnavailable, len(response))
	}

	var parsed judgeResponse
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return domain.Evaluation{}, fmt.Errorf("%w: parse judge response: %v", ports.ErrEvaluationUnavailable, err)
	}

	if err := j.validate.Struct(parsed); err != nil {
		return domain.Evaluation{}, fmt.Errorf("%w: invalid judge response structure: %v", ports.ErrEvaluationUnavailable, err)
	}

	return domain.Evaluation{
		Score:                parsed.Score,
		TechnicalAccuracy:    parsed.TechnicalAccuracy,
		JobAlignment:         parsed.JobAlignment,
		CommunicationClarity: parsed.CommunicationClarity,
		Feedback:             parsed.Feedback,
		EndRecommended:       parsed.EndRecommended,
	}.Clamped(), nil
}

// supportsJSONMode reports whether the model likely honors a JSON response
// format hint. A heuristic on the model name; wrong guesses only cost a
// hint the provider ignores.
func supportsJSONMode(client ports.LLMClient) bool {
	model := strings.ToLower(client.GetModel())
	return strings.Contains(model, "gpt") || strings.Contains(model, "gemini")
}

// extractJSON pulls the first JSON object out of a response that may wrap
// it in markdown fences or surrounding prose.
func extractJSON(response string) string {
	response = strings.TrimSpace(response)

	if idx := strings.Index(response, "```json"); idx != -1 {
		rest := response[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
	}

	if idx := strings.Index(response, "```"); idx != -1 {
		rest := response[idx+3:]
		if nl := strings.Index(rest, "\n"); nl != -1 {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end != -1 {
			candidate := strings.TrimSpace(rest[:end])
			if strings.HasPrefix(candidate, "{") {
				return candidate
			}
		}
	}

	start := strings.Index(response, "{")
	if start == -1 {
		return ""
	}

	// Scan for the matching closing brace, skipping braces inside strings.
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(response); i++ {
		c := response[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return response[start : i+1]
				}
			}
		}
	}

	return ""
}
