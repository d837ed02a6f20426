package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/config"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/database"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/logging"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/model"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/progress"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/server"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/service"
)

// ssePreamble mirrors the headers of the HTTP stream so the output can be
// proxied verbatim.
const ssePreamble = "Content-Type: text/event-stream\nCache-Control: no-cache\nConnection: keep-alive\n\n"

// errReported means the failure has already been written to stdout.
var errReported = errors.New("extraction failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:      "extract",
		Usage:     "extract a structured recipe from a short-form cooking video",
		ArgsUsage: "<url> <location>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "stream", Usage: "write progress as server-sent events"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args, stream := splitArgs(cmd.Args().Slice(), cmd.Bool("stream"))
			return run(ctx, args, stream, os.Stdout, newExtractor)
		},
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// splitArgs pulls a --stream given after the positional arguments.
func splitArgs(args []string, stream bool) ([]string, bool) {
	positional := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--stream" {
			stream = true
			continue
		}
		positional = append(positional, a)
	}
	return positional, stream
}

// extractorFactory builds the extractor and the logger progress is written to.
type extractorFactory func(context.Context) (service.RecipeExtractor, *log.Logger, error)

func newExtractor(ctx context.Context) (service.RecipeExtractor, *log.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	// Logs go to stderr so stdout carries only the result.
	logger := logging.New(os.Stderr, cfg.LogLevel)

	var c = server.NewCache(cfg, nil)
	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(cfg.RedisURL, logger)
		if err != nil {
			logger.Warn("redis unavailable, using in-process cache", "err", err)
		} else {
			c = server.NewCache(cfg, client)
		}
	}
	processor, err := server.NewProcessor(ctx, cfg, c, nil, logger)
	if err != nil {
		return nil, nil, err
	}
	return processor, logger, nil
}

// run extracts one recipe and writes it, or the failure, to stdout.
func run(ctx context.Context, args []string, stream bool, stdout io.Writer, build extractorFactory) error {
	var emitter *progress.SSE
	if stream {
		if _, err := io.WriteString(stdout, ssePreamble); err != nil {
			return err
		}
		emitter = progress.NewSSE(stdout)
	}

	fail := func(err error) error {
		if emitter != nil {
			emitter.Error(err.Error())
		} else {
			_ = json.NewEncoder(stdout).Encode(model.NewErrorResult(err.Error()))
		}
		return errReported
	}

	if len(args) != 2 {
		return fail(service.ErrUsage)
	}

	extractor, logger, err := build(ctx)
	if err != nil {
		return fail(err)
	}

	if emitter != nil {
		if _, err := extractor.Process(ctx, args[0], args[1], emitter); err != nil {
			return fail(err)
		}
		return nil
	}

	recipe, err := extractor.Process(ctx, args[0], args[1], progress.NewLog(logger))
	if err != nil {
		return fail(err)
	}
	return json.NewEncoder(stdout).Encode(recipe)
}
