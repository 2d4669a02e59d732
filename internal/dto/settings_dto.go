package dto

type UpdateInstructionsRequest struct {
	About string `json:"about" validate:"max=2000"`
	Style string `json:"style" validate:"max=2000"`
}

type InstructionsResponse struct {
	About string `json:"about"`
	Style string `json:"style"`
}

type UpdateCommandsRequest struct {
	Commands string `json:"commands" validate:"max=5000"`
}

type CommandsResponse struct {
	Commands string `json:"commands"`
}

type ModelPricingResponse struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
}

type ModelResponse struct {
	Id                  string               `json:"id"`
	Name                string               `json:"name"`
	ContextLength       int                  `json:"context_length"`
	MaxCompletionTokens int                  `json:"max_completion_tokens"`
	Pricing             ModelPricingResponse `json:"pricing"`
}
