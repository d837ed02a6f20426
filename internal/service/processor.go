package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/cache"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/media"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/model"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/progress"
)

// RecipeParser turns prompt input into a recipe.
type RecipeParser interface {
	ExtractRecipe(ctx context.Context, in PromptInput) (*model.Recipe, error)
}

// MediaPipeline produces a spoken-word transcript for a video. Moderator is optional.
type MediaPipeline struct {
	Downloader  VideoDownloader
	Transcoder  AudioTranscoder
	Transcriber Transcriber
	Moderator   ContentModerator
	TempDir     string
}

// Processor sequences fetch, transcription, moderation and completion for one URL.
type Processor struct {
	fetcher   MetadataFetcher
	parser    RecipeParser
	cache     cache.Cache
	logger    *log.Logger
	warmer    *Warmer
	media     *MediaPipeline
	store     *RecipeStore
	thumbs    ThumbnailMirror
	recipeKey func(PromptInput) string
	ttl       time.Duration
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithWarmer runs a connection warm-up alongside the metadata fetch.
func WithWarmer(w *Warmer) ProcessorOption {
	return func(p *Processor) { p.warmer = w }
}

// WithMediaPipeline enables the transcript path.
func WithMediaPipeline(m *MediaPipeline) ProcessorOption {
	return func(p *Processor) { p.media = m }
}

// WithRecipeStore archives every extraction in the database.
func WithRecipeStore(s *RecipeStore) ProcessorOption {
	return func(p *Processor) { p.store = s }
}

// WithThumbnailMirror copies thumbnails before they are attached to recipes.
func WithThumbnailMirror(m ThumbnailMirror) ProcessorOption {
	return func(p *Processor) { p.thumbs = m }
}

// WithCacheTTL expires cached metadata and recipes after ttl. Zero keeps them
// for the life of the cache.
func WithCacheTTL(ttl time.Duration) ProcessorOption {
	return func(p *Processor) { p.ttl = ttl }
}

// WithLegacyRecipeKeys keys cached recipes by the first 50 characters of the
// description plus the location. Distinct videos can collide under it.
func WithLegacyRecipeKeys() ProcessorOption {
	return func(p *Processor) {
		p.recipeKey = func(in PromptInput) string {
			return cache.LegacyRecipeKey(in.Description, in.Location)
		}
	}
}

// NewProcessor creates a Processor. A nil cache gets a small in-memory one.
func NewProcessor(fetcher MetadataFetcher, parser RecipeParser, c cache.Cache, logger *log.Logger, opts ...ProcessorOption) *Processor {
	if c == nil {
		c = cache.NewMemory(128)
	}
	p := &Processor{
		fetcher: fetcher,
		parser:  parser,
		cache:   c,
		logger:  logger,
		recipeKey: func(in PromptInput) string {
			return cache.RecipeKey(in.Title, in.Description, in.Transcript, in.Location)
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process extracts a recipe for url, priced for location. Milestones are sent
// to emitter; failures are returned and never emitted.
func (p *Processor) Process(ctx context.Context, url, location string, emitter progress.Emitter) (*model.Recipe, error) {
	if emitter == nil {
		emitter = progress.Discard
	}
	url, location = strings.TrimSpace(url), strings.TrimSpace(location)
	if url == "" || location == "" {
		return nil, ErrUsage
	}

	start := time.Now()
	logger := p.logger.With("url", url)
	emitter.Progress("Starting recipe extraction", map[string]any{"url": url, "location": location})

	warm := p.warmer.Start(ctx)
	defer warm.Cancel()

	meta, err := p.metadata(ctx, url, emitter)
	if err != nil {
		return nil, err
	}

	if p.media == nil && strings.TrimSpace(meta.Description) == "" {
		return nil, ErrNoDescription
	}

	var transcript string
	if p.media != nil {
		if transcript, err = p.transcript(ctx, url, emitter); err != nil {
			return nil, err
		}
		if strings.TrimSpace(meta.Description) == "" && transcript == "" {
			return nil, ErrNoDescription
		}
		if err := p.moderate(ctx, transcript, meta.Description, emitter); err != nil {
			return nil, err
		}
	}

	in := PromptInput{
		Title:       meta.Title,
		Transcript:  transcript,
		Description: meta.Description,
		Location:    location,
	}
	key := p.recipeKey(in)

	var cached model.Recipe
	if err := p.cache.Get(ctx, key, &cached); err == nil {
		emitter.Progress("Using cached recipe", nil)
		emitter.Result(&cached)
		return &cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		logger.Warn("recipe cache read failed", "err", err)
	}

	// The warm-up must be settled before the real completion goes out.
	if err := warm.Wait(); err != nil {
		emitter.Progress("Connection warm-up failed, continuing", nil)
	}

	emitter.Progress("Generating recipe", map[string]any{"location": location})
	recipe, err := p.parser.ExtractRecipe(ctx, in)
	if err != nil {
		return nil, err
	}

	if recipe.Title == "" || recipe.Title == model.TitlePlaceholder {
		if meta.Title != "" {
			recipe.Title = meta.Title
		}
	}
	if err := ValidateRecipe(recipe); err != nil {
		return nil, err
	}

	if meta.Thumbnail != "" {
		recipe.ImageURL = p.thumbnail(ctx, meta.Thumbnail, url)
	}

	if err := p.cache.Set(ctx, key, recipe, p.ttl); err != nil {
		logger.Warn("recipe cache write failed", "err", err)
	}
	if p.store != nil {
		if err := p.store.Save(ctx, url, transcript, recipe); err != nil {
			logger.Warn("recipe archive write failed", "err", err)
		}
	}

	logger.Info("recipe extracted", "title", recipe.Title, "elapsed", time.Since(start).Round(time.Millisecond))
	emitter.Progress("Recipe extracted", map[string]any{"elapsed_seconds": time.Since(start).Seconds()})
	emitter.Result(recipe)
	return recipe, nil
}

func (p *Processor) metadata(ctx context.Context, url string, emitter progress.Emitter) (*model.VideoMetadata, error) {
	key := cache.MetadataKey(url)

	var meta model.VideoMetadata
	err := p.cache.Get(ctx, key, &meta)
	if err == nil {
		emitter.Progress("Using cached metadata", nil)
		return &meta, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		p.logger.Warn("metadata cache read failed", "url", url, "err", err)
	}

	emitter.Progress("Fetching video metadata", nil)
	fetched, err := p.fetcher.FetchMetadata(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	if err := p.cache.Set(ctx, key, fetched, p.ttl); err != nil {
		p.logger.Warn("metadata cache write failed", "url", url, "err", err)
	}
	emitter.Progress("Metadata fetched", map[string]any{
		"title":    fetched.Title,
		"uploader": fetched.Uploader,
		"duration": fetched.Duration,
	})
	return fetched, nil
}

// transcript downloads the video into a private temporary directory that is
// removed whatever the outcome.
func (p *Processor) transcript(ctx context.Context, url string, emitter progress.Emitter) (string, error) {
	dir, err := os.MkdirTemp(p.media.TempDir, "recipe-*")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			p.logger.Warn("temporary media cleanup failed", "dir", dir, "err", err)
		}
	}()

	emitter.Progress("Downloading video", nil)
	video, err := p.media.Downloader.DownloadVideo(ctx, url, dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	emitter.Progress("Extracting audio", nil)
	audio, err := p.media.Transcoder.ToWAV(ctx, video)
	if errors.Is(err, media.ErrNoAudio) {
		emitter.Progress("Video has no audio track", nil)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscodeFailed, err)
	}

	emitter.Progress("Transcribing audio", nil)
	t, err := p.media.Transcriber.Transcribe(ctx, audio)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscribeFailed, err)
	}
	emitter.Progress("Transcription complete", map[string]any{"language": t.Language, "characters": len(t.Text)})
	return t.Text, nil
}

func (p *Processor) moderate(ctx context.Context, transcript, description string, emitter progress.Emitter) error {
	if p.media.Moderator == nil {
		return nil
	}
	emitter.Progress("Checking content", nil)
	verdict, err := p.media.Moderator.Check(ctx, transcript+"\n"+description)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModerationFailed, err)
	}
	if verdict.Flagged {
		if len(verdict.Categories) == 0 {
			return ErrContentFlagged
		}
		return fmt.Errorf("%w: %s", ErrContentFlagged, strings.Join(verdict.Categories, ", "))
	}
	return nil
}

func (p *Processor) thumbnail(ctx context.Context, thumb, url string) string {
	if p.thumbs == nil {
		return thumb
	}
	mirrored, err := p.thumbs.Mirror(ctx, thumb, url)
	if err != nil {
		p.logger.Warn("thumbnail mirror failed, using source url", "url", url, "err", err)
		return thumb
	}
	return mirrored
}
