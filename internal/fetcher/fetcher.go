// Package fetcher retrieves video metadata and media through yt-dlp.
package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/command"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/model"
)

// ErrEmptyURL is returned when no URL is supplied.
var ErrEmptyURL = errors.New("video url is required")

// YtDlp wraps the yt-dlp binary.
type YtDlp struct {
	bin    string
	runner command.Runner
}

// New creates a YtDlp using bin, or "yt-dlp" from PATH when bin is empty.
func New(bin string, runner command.Runner) *YtDlp {
	if bin == "" {
		bin = "yt-dlp"
	}
	if runner == nil {
		runner = command.ExecRunner{}
	}
	return &YtDlp{bin: bin, runner: runner}
}

// FetchMetadata reads a video's metadata without downloading it. A missing
// description is reported as an empty string, not an error.
func (y *YtDlp) FetchMetadata(ctx context.Context, url string) (*model.VideoMetadata, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ErrEmptyURL
	}

	out, err := y.runner.Run(ctx, y.bin,
		"--dump-single-json",
		"--skip-download",
		"--no-playlist",
		"--no-warnings",
		url,
	)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp metadata: %w", err)
	}

	var meta model.VideoMetadata
	if err := json.Unmarshal(out, &meta); err != nil {
		return nil, fmt.Errorf("decode yt-dlp metadata: %w", err)
	}
	return &meta, nil
}

// DownloadVideo saves the video for url into dir and returns the file path.
func (y *YtDlp) DownloadVideo(ctx context.Context, url, dir string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", ErrEmptyURL
	}

	out, err := y.runner.Run(ctx, y.bin,
		"-f", "best[ext=mp4]/best",
		"-o", filepath.Join(dir, "video.%(ext)s"),
		"--no-playlist",
		"--no-warnings",
		"--quiet",
		"--print", "after_move:filepath",
		url,
	)
	if err != nil {
		return "", fmt.Errorf("yt-dlp download: %w", err)
	}

	if path := lastLine(out); path != "" {
		return path, nil
	}

	// Older yt-dlp builds ignore --print with --quiet; fall back to the output template.
	matches, _ := filepath.Glob(filepath.Join(dir, "video.*"))
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && !info.IsDir() {
			return m, nil
		}
	}
	return "", fmt.Errorf("yt-dlp download: no file written to %s", dir)
}

func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
