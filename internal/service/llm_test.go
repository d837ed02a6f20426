package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/service"
)

type fakeCompleter struct {
	requests []openai.ChatCompletionRequest
	content  string
	err      error
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: f.content}}},
	}, nil
}

const validRecipeJSON = `{"title":"Garlic Noodles","servings":2,"prep_time_minutes":5,"cook_time_minutes":10,
"equipment":["pot"],"ingredients":[{"name":"noodles","amount":"200 g","cost":"1.50 (USD)","protein_g":12,"carbs_g":140,"fat_g":2,"calories":640}],
"instructions":["Boil","Toss"],"notes":"approx","total_cost_estimate":"2-3 (USD)",
"total_macros":{"protein_g":12,"carbs_g":140,"fat_g":2,"calories":640},"dietary_substitutions":{"vegan":"tofu"}}`

func TestBuildPrompt(t *testing.T) {
	t.Run("description only", func(t *testing.T) {
		prompt := service.BuildPrompt(service.PromptInput{Description: "Boil pasta", Location: "94103"})
		assert.True(t, strings.HasPrefix(prompt, "Extract recipe from: \"Boil pasta\"\nLocation: 94103\n\n"))
		assert.NotContains(t, prompt, "Title:")
		assert.NotContains(t, prompt, "Transcript:")
		assert.Contains(t, prompt, "Return JSON with this exact structure:\n{\"title\":\"Recipe Name\"")
	})

	t.Run("all fields in order", func(t *testing.T) {
		prompt := service.BuildPrompt(service.PromptInput{
			Title:       "Noodles",
			Transcript:  "first boil water",
			Description: "easy noodles",
			Location:    "Tokyo",
		})
		title := strings.Index(prompt, "Title: Noodles\n")
		transcript := strings.Index(prompt, "Transcript: \"first boil water\"\n")
		desc := strings.Index(prompt, "Extract recipe from: \"easy noodles\"\n")
		require.True(t, title >= 0 && transcript > title && desc > transcript, prompt)
	})

	t.Run("deterministic", func(t *testing.T) {
		in := service.PromptInput{Title: "A", Description: "quotes \"inside\"", Location: "x"}
		assert.Equal(t, service.BuildPrompt(in), service.BuildPrompt(in))
		assert.Contains(t, service.BuildPrompt(in), `"quotes "inside""`)
	})
}

func TestLLMServiceExtractRecipe(t *testing.T) {
	ctx := context.Background()

	t.Run("sends a deterministic json request", func(t *testing.T) {
		fc := &fakeCompleter{content: validRecipeJSON}
		svc := service.NewLLMService(fc, "", 0)

		in := service.PromptInput{Description: "noodles", Location: "94103"}
		recipe, err := svc.ExtractRecipe(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, "Garlic Noodles", recipe.Title)
		assert.Len(t, recipe.Ingredients, 1)

		require.Len(t, fc.requests, 1)
		req := fc.requests[0]
		assert.Equal(t, openai.GPT3Dot5Turbo, req.Model)
		assert.Equal(t, 1200, req.MaxTokens)
		assert.Less(t, req.Temperature, float32(1e-6))
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, req.ResponseFormat.Type)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, service.SystemPrompt, req.Messages[0].Content)
		assert.Equal(t, service.BuildPrompt(in), req.Messages[1].Content)
	})

	t.Run("completion error", func(t *testing.T) {
		svc := service.NewLLMService(&fakeCompleter{err: errors.New("503")}, "gpt-4o-mini", 500)
		_, err := svc.ExtractRecipe(ctx, service.PromptInput{Description: "x", Location: "y"})
		assert.ErrorIs(t, err, service.ErrCompletionFailed)
	})

	t.Run("no choices", func(t *testing.T) {
		svc := service.NewLLMService(completerFunc(func() (openai.ChatCompletionResponse, error) {
			return openai.ChatCompletionResponse{}, nil
		}), "", 0)
		_, err := svc.ExtractRecipe(ctx, service.PromptInput{Description: "x", Location: "y"})
		assert.ErrorIs(t, err, service.ErrCompletionFailed)
	})

	t.Run("malformed output is not repaired", func(t *testing.T) {
		for _, content := range []string{"", "Here is your recipe: {}", `{"title":"x"`, `{"title":"x"} extra`} {
			svc := service.NewLLMService(&fakeCompleter{content: content}, "", 0)
			_, err := svc.ExtractRecipe(ctx, service.PromptInput{Description: "x", Location: "y"})
			assert.ErrorIs(t, err, service.ErrInvalidModelOutput, content)
		}
	})
}

func TestLLMServicePing(t *testing.T) {
	fc := &fakeCompleter{}
	svc := service.NewLLMService(fc, "gpt-4o-mini", 0)
	require.NoError(t, svc.Ping(context.Background()))
	require.Len(t, fc.requests, 1)
	assert.Equal(t, 1, fc.requests[0].MaxTokens)
	assert.Equal(t, "gpt-4o-mini", fc.requests[0].Model)
}

type completerFunc func() (openai.ChatCompletionResponse, error)

func (f completerFunc) CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return f()
}
