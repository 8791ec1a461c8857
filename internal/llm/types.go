package llm

type LLMRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Usage carries the provider-reported token counts for one call. The
// assistant turns these into per-query cost estimates.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type LLMResponse struct {
	Content    string
	StopReason string
	Usage      Usage
}
