// Package moderation screens transcripts and descriptions before they reach the model.
package moderation

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Verdict is the outcome of a moderation check.
type Verdict struct {
	Flagged    bool     `json:"flagged"`
	Categories []string `json:"categories,omitempty"`
}

// Moderator calls the moderation endpoint.
type Moderator struct {
	client *openai.Client
	model  string
}

// New wraps a go-openai client. An empty model uses the endpoint default.
func New(client *openai.Client, model string) *Moderator {
	return &Moderator{client: client, model: model}
}

// Check reports whether text violates the content policy.
func (m *Moderator) Check(ctx context.Context, text string) (*Verdict, error) {
	resp, err := m.client.Moderations(ctx, openai.ModerationRequest{
		Input: text,
		Model: m.model,
	})
	if err != nil {
		return nil, fmt.Errorf("moderation: %w", err)
	}

	v := &Verdict{}
	for _, r := range resp.Results {
		if !r.Flagged {
			continue
		}
		v.Flagged = true
		v.Categories = append(v.Categories, flaggedCategories(r.Categories)...)
	}
	return v, nil
}

func flaggedCategories(c openai.ResultCategories) []string {
	var out []string
	for name, set := range map[string]bool{
		"hate":             c.Hate,
		"hate/threatening": c.HateThreatening,
		"harassment":       c.Harassment,
		"self-harm":        c.SelfHarm,
		"sexual":           c.Sexual,
		"sexual/minors":    c.SexualMinors,
		"violence":         c.Violence,
		"violence/graphic": c.ViolenceGraphic,
	} {
		if set {
			out = append(out, name)
		}
	}
	return out
}
