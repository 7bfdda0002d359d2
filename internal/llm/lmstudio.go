package llm

import (
	"errors"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultLMStudioBaseURL = "http://localhost:1234/v1"

// LMStudioClient implements the Client interface using LM Studio's OpenAI-compatible API.
type LMStudioClient struct {
	openAIChat
	baseURL string
}

// NewLMStudioClient creates a new LM Studio client.
func NewLMStudioClient(model, baseURL string) (*LMStudioClient, error) {
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("lm studio model is required")
	}
	if baseURL == "" {
		baseURL = defaultLMStudioBaseURL
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(lmStudioAPIKey()),
	)

	return &LMStudioClient{
		openAIChat: openAIChat{client: client, model: model, label: "lm studio"},
		baseURL:    baseURL,
	}, nil
}

// lmStudioAPIKey returns a configured key, or a placeholder since LM Studio ignores it.
func lmStudioAPIKey() string {
	for _, name := range []string{"LMSTUDIO_API_KEY", "OPENAI_API_KEY"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return "lm-studio"
}
