package factory

import (
	"fmt"
	"time"

	"ai-docchat-be/pkg/llm"
	"ai-docchat-be/pkg/llm/ollama"
	"ai-docchat-be/pkg/llm/openai"
)

// NewChatProvider selects the chat backend by name. "openai" covers any
// endpoint speaking the OpenAI chat-completions wire format via baseURL.
func NewChatProvider(providerType, apiKey, baseURL, model string, timeout time.Duration) (llm.Provider, error) {
	switch providerType {
	case "openai":
		return openai.NewProvider(apiKey, baseURL, model, timeout), nil
	case "ollama":
		return ollama.NewProvider(baseURL, model, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
