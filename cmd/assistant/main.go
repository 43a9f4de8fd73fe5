package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/pageza/recipe-assistant/backend/config"
	"github.com/pageza/recipe-assistant/backend/internal/assistant"
	"github.com/pageza/recipe-assistant/backend/internal/client"
	"github.com/pageza/recipe-assistant/backend/internal/logger"
	"github.com/pageza/recipe-assistant/backend/internal/notify"
	"github.com/pageza/recipe-assistant/backend/internal/pipeline"
	"github.com/pageza/recipe-assistant/backend/internal/service"
	"github.com/pageza/recipe-assistant/backend/internal/voice"
)

func main() {
	logFile := flag.String("log-file", ".assistant/assistant.log", "file to write logs to (use \"stderr\" to log to console)")
	withVoice := flag.Bool("voice", false, "enable voice input via local Whisper STT")
	sttDir := flag.String("stt-dir", ".assistant/stt", "directory for temporary recordings")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	// Logs go to a file by default so the prompt stays readable
	var outputs []string
	if *logFile != "" && *logFile != "stderr" {
		if err := os.MkdirAll(filepath.Dir(*logFile), 0o755); err != nil {
			stdlog.Fatalf("Failed to create log directory: %v", err)
		}
		outputs = append(outputs, *logFile)
	}
	zl, err := logger.New(config.IsProduction(), cfg.LogLevel, outputs...)
	if err != nil {
		stdlog.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	undo := zap.RedirectStdLog(zl)
	defer undo()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gens, source, err := generators(cfg, zl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	policy, err := pipeline.ParsePolicy(cfg.SubmitPolicy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var recognizer voice.Recognizer
	if *withVoice {
		if err := os.MkdirAll(*sttDir, 0o755); err != nil {
			zl.Warn("voice input disabled", zap.Error(err))
		} else if r, err := newRecognizer(cfg, *sttDir, zl); err != nil {
			zl.Warn("voice input disabled", zap.Error(err))
		} else {
			recognizer = r
		}
	}

	notifiers := notify.Multi{notify.NewWriterNotifier(os.Stdout), notify.NewLogNotifier(zl)}
	if cfg.DesktopNotifications {
		notifiers = append(notifiers, notify.NewDesktopNotifier("Recipe Assistant"))
	}

	transcripts := make(chan string, 1)
	a := assistant.New(assistant.Config{
		Generators: gens,
		Recognizer: recognizer,
		Notifier:   notifiers,
		Logger:     zl,
		OnTranscript: func(text string) {
			select {
			case transcripts <- text:
			default:
			}
		},
		Pipeline: []pipeline.Option{
			pipeline.WithPolicy(policy),
			pipeline.WithStageTimeout(cfg.StageTimeout),
		},
	})

	zl.Info("assistant started",
		zap.String("services", source),
		zap.Bool("voice", recognizer != nil),
		zap.String("policy", cfg.SubmitPolicy),
	)

	app := newCLIApp(a, os.Stdin, os.Stdout, transcripts, zl)
	app.run(ctx)
}

// generators picks the remote API when BACKEND_URL is set and the in-process stand-ins otherwise
func generators(cfg *config.Config, zl *zap.Logger) (service.Generators, string, error) {
	if cfg.BackendURL == "" {
		opts := append(service.LatencyOptions(cfg.SimulatedLatency), service.WithLogger(zl))
		return service.NewStandIn(opts...), "stand-in", nil
	}
	c, err := client.New(cfg.BackendURL, client.WithLogger(zl))
	if err != nil {
		return service.Generators{}, "", err
	}
	return c.Generators(), cfg.BackendURL, nil
}
