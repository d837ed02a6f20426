package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/model"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/service"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/testhelpers"
)

const videoURL = "https://www.tiktok.com/@cook/video/1"

func builder(e service.RecipeExtractor) extractorFactory {
	return builderWithLogger(e, testhelpers.TestLogger())
}

func builderWithLogger(e service.RecipeExtractor, logger *log.Logger) extractorFactory {
	return func(context.Context) (service.RecipeExtractor, *log.Logger, error) { return e, logger, nil }
}

func TestSplitArgs(t *testing.T) {
	args, stream := splitArgs([]string{videoURL, "94103", "--stream"}, false)
	assert.Equal(t, []string{videoURL, "94103"}, args)
	assert.True(t, stream)

	args, stream = splitArgs([]string{videoURL, "94103"}, false)
	assert.Len(t, args, 2)
	assert.False(t, stream)
}

func TestRunJSON(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		e := &testhelpers.MockExtractor{}
		e.On("Process", mock.Anything, videoURL, "94103").Return(testhelpers.SampleRecipe(), nil)

		var out bytes.Buffer
		require.NoError(t, run(ctx, []string{videoURL, "94103"}, false, &out, builder(e)))

		var recipe model.Recipe
		require.NoError(t, json.Unmarshal(out.Bytes(), &recipe))
		assert.Equal(t, "Garlic Noodles", recipe.Title)
	})

	t.Run("progress goes to the configured logger", func(t *testing.T) {
		e := &testhelpers.MockExtractor{Events: []string{"Fetching video metadata"}}
		e.On("Process", mock.Anything, videoURL, "94103").Return(testhelpers.SampleRecipe(), nil)

		var out, logs bytes.Buffer
		logger := log.New(&logs)
		logger.SetLevel(log.WarnLevel)
		require.NoError(t, run(ctx, []string{videoURL, "94103"}, false, &out, builderWithLogger(e, logger)))
		assert.Empty(t, logs.String(), "info progress is below the configured level")

		logger.SetLevel(log.InfoLevel)
		out.Reset()
		require.NoError(t, run(ctx, []string{videoURL, "94103"}, false, &out, builderWithLogger(e, logger)))
		assert.Contains(t, logs.String(), "Fetching video metadata")
		assert.NotContains(t, out.String(), "Fetching video metadata")
	})

	t.Run("usage", func(t *testing.T) {
		var out bytes.Buffer
		err := run(ctx, []string{videoURL}, false, &out, builder(&testhelpers.MockExtractor{}))
		assert.ErrorIs(t, err, errReported)
		assert.JSONEq(t, `{"title":"","ingredients":[],"instructions":[],"notes":"","error":"Usage: extract <url> <location> [--stream]"}`, out.String())
	})

	t.Run("failure", func(t *testing.T) {
		e := &testhelpers.MockExtractor{}
		e.On("Process", mock.Anything, mock.Anything, mock.Anything).Return(nil, service.ErrNoDescription)

		var out bytes.Buffer
		err := run(ctx, []string{videoURL, "94103"}, false, &out, builder(e))
		assert.Error(t, err)
		assert.Contains(t, out.String(), `"error":"No description found in video metadata"`)
	})

	t.Run("configuration failure", func(t *testing.T) {
		var out bytes.Buffer
		err := run(ctx, []string{videoURL, "94103"}, false, &out, func(context.Context) (service.RecipeExtractor, *log.Logger, error) {
			return nil, nil, errors.New("configuration validation failed")
		})
		assert.Error(t, err)
		assert.Contains(t, out.String(), "configuration validation failed")
	})
}

func TestRunStream(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		e := &testhelpers.MockExtractor{Events: []string{"Fetching video metadata"}}
		e.On("Process", mock.Anything, videoURL, "94103").Return(testhelpers.SampleRecipe(), nil)

		var out bytes.Buffer
		require.NoError(t, run(ctx, []string{videoURL, "94103"}, true, &out, builder(e)))

		body := out.String()
		require.True(t, strings.HasPrefix(body, ssePreamble))
		events := strings.Split(strings.TrimSpace(strings.TrimPrefix(body, ssePreamble)), "\n\n")
		require.Len(t, events, 2)
		assert.Contains(t, events[0], `"type":"progress"`)
		assert.Contains(t, events[1], `"type":"result"`)
	})

	t.Run("usage error is an error event", func(t *testing.T) {
		var out bytes.Buffer
		err := run(ctx, nil, true, &out, builder(&testhelpers.MockExtractor{}))
		assert.Error(t, err)
		line := strings.TrimSpace(strings.TrimPrefix(out.String(), ssePreamble))
		require.True(t, strings.HasPrefix(line, "data: "))
		var ev struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
		assert.Equal(t, "error", ev.Type)
		assert.Equal(t, service.ErrUsage.Error(), ev.Message)
	})
}
