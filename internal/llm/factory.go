package llm

import (
	"fmt"
	"strings"
)

const (
	ProviderCopilot  = "copilot"
	ProviderOllama   = "ollama"
	ProviderLMStudio = "lmstudio"
)

var providerAliases = map[string]string{
	"":          ProviderCopilot,
	"lm-studio": ProviderLMStudio,
	"llmstudio": ProviderLMStudio,
}

// NormalizeProvider maps a configured provider name to its canonical form.
func NormalizeProvider(provider string) string {
	p := strings.ToLower(strings.TrimSpace(provider))
	if alias, ok := providerAliases[p]; ok {
		return alias
	}
	return p
}

// NewClient creates an LLM client based on provider configuration.
func NewClient(provider, model, baseURL string) (Client, error) {
	switch NormalizeProvider(provider) {
	case ProviderCopilot:
		return NewCopilotClient(model)
	case ProviderOllama:
		return NewOllamaClient(model, baseURL)
	case ProviderLMStudio:
		return NewLMStudioClient(model, baseURL)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
