package service

import "errors"

// Pipeline failures. Entry points map these onto exit codes and HTTP statuses
// with errors.Is; the message of the outermost error is what the caller sees.
var (
	ErrUsage              = errors.New("Usage: extract <url> <location> [--stream]")
	ErrFetchFailed        = errors.New("failed to fetch video metadata")
	ErrNoDescription      = errors.New("No description found in video metadata")
	ErrDownloadFailed     = errors.New("failed to download video")
	ErrTranscodeFailed    = errors.New("failed to extract audio")
	ErrTranscribeFailed   = errors.New("failed to transcribe audio")
	ErrModerationFailed   = errors.New("failed to moderate content")
	ErrContentFlagged     = errors.New("content flagged by moderation")
	ErrCompletionFailed   = errors.New("recipe completion failed")
	ErrInvalidModelOutput = errors.New("model returned an invalid recipe")
)

// Account failures.
var (
	ErrUserExists         = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)
