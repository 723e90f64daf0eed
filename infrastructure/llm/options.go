package llm

// RequestOptions is the normalized view of the free-form options map
// accepted by CoreLLM.DoRequest. Providers read only what they support.
type RequestOptions struct {
	// Model overrides the client's configured model for this request.
	Model string

	// System is the system prompt, empty when unset.
	System string

	// Temperature is nil when unset; providers clamp it to their range.
	Temperature *float64

	// TopP is nil when unset.
	TopP *float64

	// MaxTokens is the output token cap, 0 when unset.
	MaxTokens int

	// ResponseFormat requests structured output, for example "json" on
	// providers that support it.
	ResponseFormat string

	// Extra carries provider-specific options not modeled above.
	Extra map[string]any
}

// ParseRequestOptions normalizes an options map, falling back to the
// given default model. Unknown keys are preserved in Extra.
func ParseRequestOptions(opts map[string]any, defaultModel string) RequestOptions {
	options := RequestOptions{
		Model: defaultModel,
		Extra: map[string]any{},
	}

	for key, value := range opts {
		switch key {
		case "model":
			if s, ok := value.(string); ok && s != "" {
				options.Model = s
			}
		case "system":
			if s, ok := value.(string); ok {
				options.System = s
			}
		case "temperature":
			if f, ok := asFloat64(value); ok && f >= 0 {
				options.Temperature = &f
			}
		case "top_p":
			if f, ok := asFloat64(value); ok {
				options.TopP = &f
			}
		case "max_tokens":
			if n, ok := asInt(value); ok && n > 0 {
				options.MaxTokens = n
			}
		case "response_format":
			if s, ok := value.(string); ok {
				options.ResponseFormat = s
			}
		default:
			options.Extra[key] = value
		}
	}

	return options
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// clamp restricts a float64 value to a range.
func clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// clampInt restricts an integer value to a range.
func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
