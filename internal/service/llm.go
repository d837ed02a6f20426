package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/model"
)

// SystemPrompt is sent ahead of every extraction request.
const SystemPrompt = "Extract recipe data. Return only valid JSON."

// recipeShape is the example object the model is asked to mirror.
const recipeShape = `{"title":"Recipe Name","servings":4,"prep_time_minutes":10,"cook_time_minutes":15,` +
	`"equipment":["bowl","spatula"],` +
	`"ingredients":[{"name":"ingredient","amount":"1 cup","cost":"2.00 (local currency)","protein_g":5,"carbs_g":10,"fat_g":2,"calories":80}],` +
	`"instructions":["step1","step2"],` +
	`"notes":"Measurements and costs are approximate",` +
	`"total_cost_estimate":"5-7 (local currency)",` +
	`"total_macros":{"protein_g":20,"carbs_g":40,"fat_g":10,"calories":320},` +
	`"dietary_substitutions":{"gluten_free":"substitute","vegan":"substitute"}}`

// zeroTemperature is the smallest value go-openai will serialize; a literal 0
// is dropped by omitempty and the endpoint would fall back to its default.
const zeroTemperature = math.SmallestNonzeroFloat32

// PromptInput is everything the prompt depends on.
type PromptInput struct {
	Title       string
	Transcript  string
	Description string
	Location    string
}

// BuildPrompt renders the extraction prompt. Identical input always yields
// a byte-identical prompt.
func BuildPrompt(in PromptInput) string {
	var b strings.Builder
	if in.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", in.Title)
	}
	if in.Transcript != "" {
		fmt.Fprintf(&b, "Transcript: \"%s\"\n", in.Transcript)
	}
	fmt.Fprintf(&b, "Extract recipe from: \"%s\"\n", in.Description)
	fmt.Fprintf(&b, "Location: %s\n\n", in.Location)
	b.WriteString("Return JSON with this exact structure:\n")
	b.WriteString(recipeShape)
	return b.String()
}

// LLMService turns video text into a recipe through a chat completion endpoint.
type LLMService struct {
	client    ChatCompleter
	model     string
	maxTokens int
}

// NewLLMService creates a new LLMService instance
func NewLLMService(client ChatCompleter, model string, maxTokens int) *LLMService {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	if maxTokens <= 0 {
		maxTokens = 1200
	}
	return &LLMService{client: client, model: model, maxTokens: maxTokens}
}

// NewOpenAIClient builds a go-openai client, pointing it at baseURL when set.
func NewOpenAIClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return openai.NewClientWithConfig(cfg)
}

// ExtractRecipe sends one deterministic completion request and decodes the answer.
// The answer is not repaired: anything that is not a JSON recipe object fails.
func (s *LLMService) ExtractRecipe(ctx context.Context, in PromptInput) (*model.Recipe, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(in)},
		},
		Temperature: zeroTemperature,
		MaxTokens:   s.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", ErrCompletionFailed)
	}

	return ParseRecipe(resp.Choices[0].Message.Content)
}

// Ping issues the smallest possible completion to open a connection to the endpoint.
func (s *LLMService) Ping(ctx context.Context) error {
	_, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.model,
		Messages:  []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: "ping"}},
		MaxTokens: 1,
	})
	return err
}

// ParseRecipe decodes model output into a Recipe.
func ParseRecipe(content string) (*model.Recipe, error) {
	var recipe model.Recipe
	dec := json.NewDecoder(strings.NewReader(content))
	if err := dec.Decode(&recipe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModelOutput, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrInvalidModelOutput)
	}
	return &recipe, nil
}
