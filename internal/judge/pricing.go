package judge

// ModelCost holds per-million-token pricing for a judge model, in USD.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// EstimateUSD returns the estimated cost of a call against the named model,
// or 0 when the model is not in the pricing table. Deployment names often
// decorate the base model name, so unknown ids are expected; cost reporting
// degrades to zero rather than failing a scoring run.
func EstimateUSD(modelID string, inputTokens, outputTokens int) float64 {
	if c, ok := modelCosts[modelID]; ok {
		return c.Cost(inputTokens, outputTokens)
	}
	return 0
}

// modelCosts is the embedded pricing table for the judge deployments this
// engine is pointed at in practice. USD per 1M tokens.
var modelCosts = map[string]ModelCost{
	// OpenAI / Azure OpenAI
	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},
	"gpt-5":        {1.25, 10},
	"gpt-5-mini":   {0.25, 2},
	"gpt-5-nano":   {0.05, 0.4},
	"o1":           {15, 60},
	"o1-mini":      {1.1, 4.4},
	"o3":           {2, 8},
	"o3-mini":      {1.1, 4.4},
	"o4-mini":      {1.1, 4.4},

	// Anthropic
	"claude-3-5-haiku-latest":    {0.8, 4},
	"claude-haiku-4-5-20251001":  {1, 5},
	"claude-sonnet-4-20250514":   {3, 15},
	"claude-sonnet-4-5-20250929": {3, 15},

	// Google
	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
}
