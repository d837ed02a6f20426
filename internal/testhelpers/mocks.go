package testhelpers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/model"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/moderation"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/progress"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/service"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/transcribe"
)

// MockFetcher is a mock implementation of service.MetadataFetcher
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchMetadata(ctx context.Context, url string) (*model.VideoMetadata, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VideoMetadata), args.Error(1)
}

// MockParser is a mock implementation of service.RecipeParser
type MockParser struct {
	mock.Mock
}

func (m *MockParser) ExtractRecipe(ctx context.Context, in service.PromptInput) (*model.Recipe, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Hand out a copy so callers mutating the result do not affect later calls.
	r := *args.Get(0).(*model.Recipe)
	return &r, args.Error(1)
}

// MockDownloader is a mock implementation of service.VideoDownloader
type MockDownloader struct {
	mock.Mock
}

func (m *MockDownloader) DownloadVideo(ctx context.Context, url, dir string) (string, error) {
	args := m.Called(ctx, url, dir)
	return args.String(0), args.Error(1)
}

// MockTranscoder is a mock implementation of service.AudioTranscoder
type MockTranscoder struct {
	mock.Mock
}

func (m *MockTranscoder) ToWAV(ctx context.Context, videoPath string) (string, error) {
	args := m.Called(ctx, videoPath)
	return args.String(0), args.Error(1)
}

// MockTranscriber is a mock implementation of service.Transcriber
type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audioPath string) (*transcribe.Transcript, error) {
	args := m.Called(ctx, audioPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transcribe.Transcript), args.Error(1)
}

// MockModerator is a mock implementation of service.ContentModerator
type MockModerator struct {
	mock.Mock
}

func (m *MockModerator) Check(ctx context.Context, text string) (*moderation.Verdict, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*moderation.Verdict), args.Error(1)
}

// MockThumbnailMirror is a mock implementation of service.ThumbnailMirror
type MockThumbnailMirror struct {
	mock.Mock
}

func (m *MockThumbnailMirror) Mirror(ctx context.Context, sourceURL, videoURL string) (string, error) {
	args := m.Called(ctx, sourceURL, videoURL)
	return args.String(0), args.Error(1)
}

// MockExtractor is a mock implementation of service.RecipeExtractor. When
// Events is set, each message is emitted as progress before returning.
type MockExtractor struct {
	mock.Mock
	Events []string
}

func (m *MockExtractor) Process(ctx context.Context, url, location string, emitter progress.Emitter) (*model.Recipe, error) {
	for _, ev := range m.Events {
		emitter.Progress(ev, nil)
	}
	args := m.Called(ctx, url, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	recipe := args.Get(0).(*model.Recipe)
	emitter.Result(recipe)
	return recipe, args.Error(1)
}

// SampleRecipe returns a recipe that passes validation.
func SampleRecipe() *model.Recipe {
	return &model.Recipe{
		Title:           "Garlic Noodles",
		Servings:        2,
		PrepTimeMinutes: 5,
		CookTimeMinutes: 10,
		Equipment:       []string{"pot", "pan"},
		Ingredients: []model.Ingredient{
			{Name: "noodles", Amount: "200 g", Cost: "1.50 (USD)", ProteinG: 12, CarbsG: 140, FatG: 2, Calories: 640},
			{Name: "garlic", Amount: "4 cloves", Cost: "0.40 (USD)", CarbsG: 4, Calories: 18},
		},
		Instructions:         []string{"Boil noodles", "Fry garlic", "Toss together"},
		Notes:                "Measurements and costs are approximate",
		TotalCostEstimate:    "2-3 (USD)",
		TotalMacros:          model.Macros{ProteinG: 12, CarbsG: 144, FatG: 2, Calories: 658},
		DietarySubstitutions: map[string]string{"gluten_free": "rice noodles"},
	}
}
