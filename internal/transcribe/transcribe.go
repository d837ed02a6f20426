// Package transcribe turns speech audio into text through an OpenAI-compatible
// transcription endpoint, usually a local whisper.cpp server.
package transcribe

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
	openai "github.com/sashabaranov/go-openai"
)

// Transcript is the text of an audio file plus its detected language.
type Transcript struct {
	Text string `json:"text"`
	// Language is the ISO 639-1 code, empty when detection was inconclusive.
	Language string `json:"language,omitempty"`
}

// Whisper calls the /audio/transcriptions endpoint.
type Whisper struct {
	client *openai.Client
	model  string

	detectorOnce sync.Once
	detector     lingua.LanguageDetector
}

// New creates a Whisper client for baseURL. The API key may be empty for a local server.
func New(baseURL, apiKey, model string) *Whisper {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return NewWithClient(openai.NewClientWithConfig(cfg), model)
}

// NewWithClient wraps an existing client.
func NewWithClient(client *openai.Client, model string) *Whisper {
	if model == "" {
		model = openai.Whisper1
	}
	return &Whisper{client: client, model: model}
}

// Transcribe uploads the audio file and returns its transcript.
func (w *Whisper) Transcribe(ctx context.Context, audioPath string) (*Transcript, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("transcription: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	return &Transcript{Text: text, Language: w.DetectLanguage(text)}, nil
}

// DetectLanguage returns the ISO 639-1 code of text, or "" when unsure.
func (w *Whisper) DetectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	w.detectorOnce.Do(func() {
		w.detector = lingua.NewLanguageDetectorBuilder().FromAllLanguages().Build()
	})
	lang, ok := w.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
