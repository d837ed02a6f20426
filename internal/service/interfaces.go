package service

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/model"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/moderation"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/progress"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/transcribe"
)

// MetadataFetcher reads a video's metadata.
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, url string) (*model.VideoMetadata, error)
}

// VideoDownloader saves a video into a directory.
type VideoDownloader interface {
	DownloadVideo(ctx context.Context, url, dir string) (string, error)
}

// AudioTranscoder converts a video into speech-ready audio.
type AudioTranscoder interface {
	ToWAV(ctx context.Context, videoPath string) (string, error)
}

// Transcriber converts audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*transcribe.Transcript, error)
}

// ContentModerator screens text against the content policy.
type ContentModerator interface {
	Check(ctx context.Context, text string) (*moderation.Verdict, error)
}

// ChatCompleter is the subset of the go-openai client used for completions.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ThumbnailMirror copies a remote thumbnail into storage the service controls.
type ThumbnailMirror interface {
	Mirror(ctx context.Context, sourceURL, videoURL string) (string, error)
}

// RecipeExtractor runs the extraction pipeline for one URL.
type RecipeExtractor interface {
	Process(ctx context.Context, url, location string, emitter progress.Emitter) (*model.Recipe, error)
}
