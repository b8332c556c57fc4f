package output

import "context"

// CompletionRequest holds a system/user prompt pair and its budget
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// TextGenerator interface - Output port
// Defines what the application needs from a chat-completion model
type TextGenerator interface {
	// Complete returns the model's answer to the prompt pair
	Complete(ctx context.Context, request CompletionRequest) (string, error)
}
