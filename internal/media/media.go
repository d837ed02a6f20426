// Package media converts downloaded videos into audio the transcriber accepts.
package media

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/command"
)

// ErrNoAudio is returned when the input has no audio stream.
var ErrNoAudio = errors.New("video has no audio stream")

// FFmpeg wraps the ffmpeg binary.
type FFmpeg struct {
	bin    string
	runner command.Runner
}

// New creates an FFmpeg using bin, or "ffmpeg" from PATH when bin is empty.
func New(bin string, runner command.Runner) *FFmpeg {
	if bin == "" {
		bin = "ffmpeg"
	}
	if runner == nil {
		runner = command.ExecRunner{}
	}
	return &FFmpeg{bin: bin, runner: runner}
}

// ToWAV writes a mono 16 kHz 16-bit PCM WAV next to the input and returns its path.
func (f *FFmpeg) ToWAV(ctx context.Context, videoPath string) (string, error) {
	audioPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".wav"

	_, err := f.runner.Run(ctx, f.bin,
		"-y",
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		audioPath,
	)
	if err != nil {
		var cmdErr *command.Error
		if errors.As(err, &cmdErr) && strings.Contains(cmdErr.Stderr, "does not contain any stream") {
			return "", ErrNoAudio
		}
		return "", fmt.Errorf("ffmpeg: %w", err)
	}
	return audioPath, nil
}
