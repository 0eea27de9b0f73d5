package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"

	"github.com/absmach/gridfl"
	"github.com/absmach/gridfl/pkg/dataset"
	"github.com/absmach/gridfl/pkg/fl"
	"github.com/absmach/gridfl/pkg/model"
	"github.com/absmach/gridfl/pkg/mqtt"
	"github.com/absmach/gridfl/pkg/prometheus"
	"github.com/absmach/gridfl/pkg/server"
	httpserver "github.com/absmach/gridfl/pkg/server/http"
	"github.com/absmach/gridfl/pkg/storage"
	"github.com/absmach/gridfl/pkg/tracing"
	"github.com/absmach/gridfl/pkg/watcher"
	"github.com/absmach/gridfl/validator"
	"github.com/absmach/gridfl/validator/api"
	"github.com/absmach/gridfl/validator/middleware"
	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"
)

const (
	svcName       = "validator"
	defHTTPPort   = "7070"
	envPrefixHTTP = "VALIDATOR_HTTP_"
	envPrefix     = "VALIDATOR_"
)

type envConfig struct {
	LogLevel        string   `env:"VALIDATOR_LOG_LEVEL"        envDefault:"info"`
	InstanceID      string   `env:"VALIDATOR_INSTANCE_ID"`
	TaskConfig      string   `env:"VALIDATOR_TASK_CONFIG"      envDefault:"./task.json"`
	ParticipantsDir string   `env:"VALIDATOR_PARTICIPANTS_DIR" envDefault:"./data/participants"`
	OutputDir       string   `env:"VALIDATOR_OUTPUT_DIR"       envDefault:"./data/validator"`
	ValidationSet   string   `env:"VALIDATOR_VALIDATION_SET"   envDefault:"./data/validation.csv"`
	TestSet         string   `env:"VALIDATOR_TEST_SET"         envDefault:"./data/test.csv"`
	StatsFile       string   `env:"VALIDATOR_STATS_FILE"       envDefault:"./data/validator_stats.json"`
	ParticipantIDs  []uint64 `env:"VALIDATOR_PARTICIPANT_IDS"  envSeparator:","`
	OTELURL         url.URL  `env:"VALIDATOR_OTEL_URL"`
	TraceRatio      float64  `env:"VALIDATOR_TRACE_RATIO"      envDefault:"0"`
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
	participants := task.ParticipantIDs
	if len(cfg.ParticipantIDs) > 0 {
		participants = make([]fl.ParticipantID, len(cfg.ParticipantIDs))
		for i, id := range cfg.ParticipantIDs {
			participants[i] = fl.ParticipantID(id)
		}
	}

	store := fl.NewFileStore()
	artifact, err := model.LoadBaseline(task.BaselineModelArtifact, task.BaselineModelWeights, task.BatchSize, store)
	if err != nil {
		logger.Error("failed to load baseline artifact", slog.Any("error", err))
		exitCode = 1

		return
	}

	validation, err := dataset.Load(cfg.ValidationSet, task.FeaturesNames.Features, task.FeaturesNames.Labels)
	if err != nil {
		logger.Error("failed to load validation set", slog.Any("error", err))
		exitCode = 1

		return
	}
	test, err := dataset.Load(cfg.TestSet, task.FeaturesNames.Features, task.FeaturesNames.Labels)
	if err != nil {
		logger.Error("failed to load test set", slog.Any("error", err))
		exitCode = 1

		return
	}

	extractor, err := fl.NewContributionExtractor(task.Method(), artifact, validation)
	if err != nil {
		logger.Error("failed to create contribution extractor", slog.Any("error", err))
		exitCode = 1

		return
	}

	coordinator, err := validator.NewCoordinator(validator.Config{
		ParticipantIDs: participants,
		Rounds:         task.FLRounds,
		OutputDir:      cfg.OutputDir,
	}, artifact, extractor, fl.NewWeightedAggregator(), store, validation, test, logger)
	if err != nil {
		logger.Error("failed to create round coordinator", slog.Any("error", err))
		exitCode = 1

		return
	}

	storageCfg := storage.Config{}
	if err := env.ParseWithOptions(&storageCfg, env.Options{Prefix: envPrefix}); err != nil {
		logger.Error("failed to load storage configuration", slog.Any("error", err))
		exitCode = 1

		return
	}
	repos, err := storage.NewRepositories(storageCfg)
	if err != nil {
		logger.Error("failed to initialize storage", slog.Any("error", err))
		exitCode = 1

		return
	}
	if repos.Closer != nil {
		defer repos.Closer.Close()
	}

	svc := validator.NewService(coordinator, repos.Rounds, cfg.StatsFile, logger)
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
		pubsub, err := mqtt.NewPubSub(mqttCfg, svcName+"-"+cfg.InstanceID, mqtt.Topic(task.TaskName, svcName, "status"), logger)
		if err != nil {
			logger.Error("failed to connect to MQTT broker", slog.Any("error", err))
			exitCode = 1

			return
		}
		defer pubsub.Disconnect(context.Background())
		svc = middleware.Events(pubsub, mqtt.Topic(task.TaskName, svcName, "rounds"), logger, svc)
	}

	w, err := watcher.New(cfg.ParticipantsDir, logger)
	if err != nil {
		logger.Error("failed to watch participants directory", slog.String("path", cfg.ParticipantsDir), slog.Any("error", err))
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

	logger.Info("Validator started",
		slog.String("task", task.TaskName),
		slog.Int("rounds", task.FLRounds),
		slog.Any("participants", participants),
		slog.String("aggregation_method", string(task.Method())))

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return w.Run(ctx)
	})

	g.Go(func() error {
		return watcher.Drain(ctx, w.Events(), func(ctx context.Context, path string) error {
			if _, err := svc.HandleSubmission(ctx, path); err != nil {
				if errors.Is(err, fl.ErrUnreadableArtifact) || errors.Is(err, fl.ErrUnsupportedExtension) {
					logger.Error("failed to read submission", slog.String("path", path), slog.Any("error", err))

					return nil
				}

				return err
			}

			st, err := svc.Status(ctx)
			if err != nil {
				return err
			}
			if st.Finished {
				logger.Info("Federated learning task finished", slog.String("weights", st.LastOutput))
				cancel()
			}

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
