package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/absmach/gridfl"
	"github.com/absmach/gridfl/participant"
	"github.com/absmach/gridfl/participant/api"
	"github.com/absmach/gridfl/participant/middleware"
	"github.com/absmach/gridfl/pkg/dataset"
	"github.com/absmach/gridfl/pkg/fl"
	"github.com/absmach/gridfl/pkg/model"
	"github.com/absmach/gridfl/pkg/mqtt"
	"github.com/absmach/gridfl/pkg/prometheus"
	"github.com/absmach/gridfl/pkg/server"
	httpserver "github.com/absmach/gridfl/pkg/server/http"
	"github.com/absmach/gridfl/pkg/tracing"
	"github.com/absmach/gridfl/pkg/watcher"
	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"
)

const (
	svcName       = "participant"
	defHTTPPort   = "7071"
	envPrefixHTTP = "PARTICIPANT_HTTP_"
	envPrefix     = "PARTICIPANT_"
)

type envConfig struct {
	LogLevel        string  `env:"PARTICIPANT_LOG_LEVEL"        envDefault:"info"`
	InstanceID      string  `env:"PARTICIPANT_INSTANCE_ID"`
	ID              uint64  `env:"PARTICIPANT_ID"               envDefault:"0"`
	TaskConfig      string  `env:"PARTICIPANT_TASK_CONFIG"      envDefault:"./task.json"`
	ValidatorDir    string  `env:"PARTICIPANT_VALIDATOR_DIR"    envDefault:"./data/validator"`
	ParticipantsDir string  `env:"PARTICIPANT_PARTICIPANTS_DIR" envDefault:"./data/participants"`
	OutputDir       string  `env:"PARTICIPANT_OUTPUT_DIR"`
	TrainSet        string  `env:"PARTICIPANT_TRAIN_SET"        envDefault:"./data/train.csv"`
	StatsFile       string  `env:"PARTICIPANT_STATS_FILE"`
	OTELURL         url.URL `env:"PARTICIPANT_OTEL_URL"`
	TraceRatio      float64 `env:"PARTICIPANT_TRACE_RATIO"      envDefault:"0"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	cfg := envConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load configuration : %s", err.Error())
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(cfg.ParticipantsDir, fmt.Sprintf("participant_%d", cfg.ID))
	}
	if cfg.StatsFile == "" {
		cfg.StatsFile = fmt.Sprintf("./data/participant_%d_stats.json", cfg.ID)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Fatalf("failed to parse log level: %s", err.Error())
	}
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	exitCode := 0
	defer func() {
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}()

	var tp trace.TracerProvider
	switch {
	case cfg.OTELURL == (url.URL{}):
		tp = noop.NewTracerProvider()
	default:
		sdktp, err := tracing.NewProvider(ctx, svcName, cfg.OTELURL, cfg.InstanceID, cfg.TraceRatio)
		if err != nil {
			logger.Error("failed to initialize opentelemetry", slog.String("error", err.Error()))
			exitCode = 1

			return
		}
		defer func() {
			if err := sdktp.Shutdown(context.Background()); err != nil {
				logger.Error("error shutting down tracer provider", slog.Any("error", err))
			}
		}()
		tp = sdktp
	}
	tracer := tp.Tracer(svcName)

	task, err := gridfl.LoadTaskConfig(cfg.TaskConfig)
	if err != nil {
		logger.Error("failed to load task configuration", slog.String("path", cfg.TaskConfig), slog.Any("error", err))
		exitCode = 1

		return
	}

	store := fl.NewFileStore()
	artifact, err := model.LoadBaseline(task.BaselineModelArtifact, task.BaselineModelWeights, task.BatchSize, store)
	if err != nil {
		logger.Error("failed to load baseline artifact", slog.Any("error", err))
		exitCode = 1

		return
	}

	train, err := dataset.Load(cfg.TrainSet, task.FeaturesNames.Features, task.FeaturesNames.Labels)
	if err != nil {
		logger.Error("failed to load training set", slog.Any("error", err))
		exitCode = 1

		return
	}

	trainer, err := participant.NewTrainer(participant.Config{
		ID:        fl.ParticipantID(cfg.ID),
		Rounds:    task.FLRounds,
		Epochs:    task.Epochs,
		OutputDir: cfg.OutputDir,
	}, artifact, store, train, logger)
	if err != nil {
		logger.Error("failed to create local trainer", slog.Any("error", err))
		exitCode = 1

		return
	}

	svc := participant.NewService(trainer, cfg.StatsFile, logger)
	svc = middleware.Logging(logger, svc)
	svc = middleware.Tracing(tracer, svc)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	svc = middleware.Metrics(counter, latency, prometheus.MakeRoundMetrics(svcName), svc)

	mqttCfg := mqtt.Config{}
	if err := env.ParseWithOptions(&mqttCfg, env.Options{Prefix: envPrefix}); err != nil {
		logger.Error("failed to load MQTT configuration", slog.Any("error", err))
		exitCode = 1

		return
	}
	if mqttCfg.Address != "" {
		id := strconv.FormatUint(cfg.ID, 10)
		pubsub, err := mqtt.NewPubSub(mqttCfg, svcName+"-"+id+"-"+cfg.InstanceID, mqtt.Topic(task.TaskName, "participants", id, "status"), logger)
		if err != nil {
			logger.Error("failed to connect to MQTT broker", slog.Any("error", err))
			exitCode = 1

			return
		}
		defer pubsub.Disconnect(context.Background())
		svc = middleware.Events(pubsub, mqtt.Topic(task.TaskName, "participants", id, "rounds"), logger, svc)
	}

	w, err := watcher.New(cfg.ValidatorDir, logger)
	if err != nil {
		logger.Error("failed to watch validator directory", slog.String("path", cfg.ValidatorDir), slog.Any("error", err))
		exitCode = 1

		return
	}
	defer w.Close()

	httpServerConfig := server.Config{Port: defHTTPPort}
	if err := env.ParseWithOptions(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err.Error()))
		exitCode = 1

		return
	}

	hs := httpserver.NewServer(ctx, cancel, svcName, httpServerConfig, api.MakeHandler(svc, logger, cfg.InstanceID), logger)

	logger.Info("Participant started",
		slog.String("task", task.TaskName),
		slog.Int("rounds", task.FLRounds),
		slog.Int("epochs", task.Epochs),
		slog.String("output_dir", cfg.OutputDir))

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return w.Run(ctx)
	})

	g.Go(func() error {
		done := func(finished bool) {
			if finished {
				logger.Info("Local training finished", slog.String("statistics", cfg.StatsFile))
				cancel()
			}
		}

		finished, err := svc.Bootstrap(ctx)
		if err != nil {
			return err
		}
		done(finished)

		return watcher.Drain(ctx, w.Events(), func(ctx context.Context, path string) error {
			finished, err := svc.HandleRoundArtifact(ctx, path)
			if err != nil {
				return err
			}
			done(finished)

			return nil
		})
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service exited with error: %s", svcName, err))
		exitCode = 1
	}
}
