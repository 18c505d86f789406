package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	goflags "github.com/jessevdk/go-flags"
	"github.com/kapu/youtube-analyzer-go/internal/adapter"
	"github.com/kapu/youtube-analyzer-go/internal/app"
	"github.com/kapu/youtube-analyzer-go/internal/config"
	"github.com/kapu/youtube-analyzer-go/internal/service/session"
	"github.com/kapu/youtube-analyzer-go/internal/util"
	"github.com/kapu/youtube-analyzer-go/pkg/errors"
	"go.uber.org/zap"
)

const (
	exitOK         = 0
	exitFailure    = 1
	exitUsage      = 2
	exitCredential = 3
)

type options struct {
	URL     string `short:"u" long:"url" description:"YouTube video URL to analyze" required:"true"`
	Key     string `short:"k" long:"key" description:"YouTube API key or OAuth access token (defaults to YOUTUBE_API_KEY)"`
	Channel bool   `short:"c" long:"channel" description:"Include channel insight and subscriber milestone"`
	JSON    bool   `long:"json" description:"Print the report as JSON"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(exitFailure)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(exitFailure)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], cfg, logger, os.Stdout, os.Stderr)
	stop()
	_ = logger.Sync()
	os.Exit(code)
}

// parseOptions returns (nil, nil) when help was requested and already printed.
func parseOptions(args []string, stdout io.Writer) (*options, error) {
	var opts options

	parser := goflags.NewParser(&opts, goflags.HelpFlag|goflags.PassDoubleDash)
	parser.Name = "analyze"
	parser.LongDescription = "Analyze one YouTube video and print its engagement report."

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok && flagsErr.Type == goflags.ErrHelp {
			fmt.Fprintln(stdout, flagsErr.Message)
			return nil, nil
		}
		return nil, err
	}

	return &opts, nil
}

func run(ctx context.Context, args []string, cfg *config.Config, logger *zap.Logger, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stdout)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if opts == nil {
		return exitOK
	}

	container, err := app.Build(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to assemble services: %v\n", err)
		return exitFailure
	}
	defer container.Close()

	manager := session.NewManager(session.NewMemoryStore(), cfg.YouTube.APIKey, cfg.Session.TTL, logger)

	current, err := manager.Start(ctx, "",
		adapter.SanitizeInput(opts.Key),
		adapter.SanitizeInput(opts.URL))
	if err != nil {
		return fail(stderr, container.Formatter, err)
	}

	report, err := container.Analyzer.Run(ctx, current, opts.Channel)
	if err != nil {
		return fail(stderr, container.Formatter, err)
	}

	if opts.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(stderr, "Failed to encode report: %v\n", err)
			return exitFailure
		}
		return exitOK
	}

	text, err := container.Formatter.FormatReport(report)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to render report: %v\n", err)
		return exitFailure
	}
	fmt.Fprintln(stdout, text)
	return exitOK
}

func fail(stderr io.Writer, formatter *adapter.ResponseFormatter, err error) int {
	fmt.Fprintln(stderr, formatter.FormatError(err))

	var inputErr *errors.InputError
	var validationErr *errors.ValidationError
	var credentialErr *errors.CredentialError
	switch {
	case errors.As(err, &inputErr), errors.As(err, &validationErr):
		return exitUsage
	case errors.As(err, &credentialErr), errors.IsKind(err, errors.KindAuthRejected):
		return exitCredential
	default:
		return exitFailure
	}
}
