package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Rephrase errors.
var (
	ErrEmptyText     = errors.New("nothing to rephrase")
	ErrLabelsDropped = errors.New("rephrased text dropped dates")
)

const maxRephraseAttempts = 2

const rephraseSystemPrompt = `You rewrite meeting availability messages.
Keep every date label exactly as written, for example "1/1(月)".
Keep every time range and the word 終日 exactly as written.
Do not add or remove dates or times.
Answer with JSON only: {"text": "rewritten message", "notes": ["optional remark"]}`

// RephraseRequest is the input to Rephrase.
type RephraseRequest struct {
	Text        string
	Instruction string   // e.g. "more casual" or "in English"
	Labels      []string // date labels that must appear in the result
}

// RephraseResponse is the model's rewritten message.
type RephraseResponse struct {
	Text  string   `json:"text"`
	Notes []string `json:"notes"`
}

// Rephraser rewrites rendered availability text through an LLM.
type Rephraser struct {
	client Client
}

// NewRephraser creates a Rephraser using client.
func NewRephraser(client Client) *Rephraser {
	return &Rephraser{client: client}
}

// Rephrase rewrites req.Text following req.Instruction.
// A reply that loses any of req.Labels is retried once with feedback.
func (r *Rephraser) Rephrase(ctx context.Context, req RephraseRequest) (*RephraseResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyText
	}

	messages := BuildRephraseMessages(req)
	var missing []string
	for attempt := 0; attempt < maxRephraseAttempts; attempt++ {
		var resp RephraseResponse
		if err := r.client.ChatJSON(ctx, messages, &resp); err != nil {
			return nil, fmt.Errorf("rephrasing: %w", err)
		}
		resp.Text = strings.TrimSpace(resp.Text)

		missing = missingLabels(resp.Text, req.Labels)
		if resp.Text != "" && len(missing) == 0 {
			return &resp, nil
		}

		messages = append(messages,
			Message{Role: RoleAssistant, Content: resp.Text},
			Message{Role: RoleUser, Content: retryFeedback(resp.Text, missing)},
		)
	}

	if len(missing) == 0 {
		return nil, fmt.Errorf("%w: empty reply", ErrLabelsDropped)
	}
	return nil, fmt.Errorf("%w: %s", ErrLabelsDropped, strings.Join(missing, ", "))
}

// BuildRephraseMessages creates the initial message list for a rephrase request.
func BuildRephraseMessages(req RephraseRequest) []Message {
	instruction := strings.TrimSpace(req.Instruction)
	if instruction == "" {
		instruction = "Make it sound natural and friendly."
	}

	var b strings.Builder
	b.WriteString("Instruction: ")
	b.WriteString(instruction)
	b.WriteString("\n\nMessage:\n")
	b.WriteString(req.Text)

	return []Message{
		{Role: RoleSystem, Content: rephraseSystemPrompt},
		{Role: RoleUser, Content: b.String()},
	}
}

func missingLabels(text string, labels []string) []string {
	var missing []string
	for _, label := range labels {
		if !strings.Contains(text, label) {
			missing = append(missing, label)
		}
	}
	return missing
}

func retryFeedback(text string, missing []string) string {
	if text == "" {
		return `The "text" field was empty. Return the full rewritten message.`
	}
	return fmt.Sprintf("Your answer is missing these date labels: %s. Rewrite it so each one appears exactly as written.",
		strings.Join(missing, ", "))
}
