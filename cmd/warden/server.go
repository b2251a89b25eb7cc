package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/wardenlabs/warden/automod"
	"github.com/wardenlabs/warden/automod/activity"
	"github.com/wardenlabs/warden/automod/configstore"
	"github.com/wardenlabs/warden/automod/consumer"
	"github.com/wardenlabs/warden/automod/countstore"
	"github.com/wardenlabs/warden/automod/rules"
	"github.com/wardenlabs/warden/automod/warnstore"
	"github.com/wardenlabs/warden/platform"
)

type Server struct {
	logger  *slog.Logger
	engine  *automod.Engine
	session *discordgo.Session
}

type Config struct {
	DiscordToken    string
	RedisURL        string
	DatabaseURL     string
	ConfigFileJSON  string
	SlackWebhookURL string
	PunishRateLimit int
	Logger          *slog.Logger
}

func NewServer(ctx context.Context, config Config) (*Server, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	if config.DiscordToken == "" {
		return nil, fmt.Errorf("discord token is required")
	}

	session, err := discordgo.New("Bot " + config.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("initializing discord session: %w", err)
	}

	var warnings warnstore.WarnStore
	var counters countstore.CountStore
	if config.RedisURL != "" {
		wst, err := warnstore.NewRedisWarnStore(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("initializing redis warnstore: %w", err)
		}
		warnings = wst

		cnt, err := countstore.NewRedisCountStore(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("initializing redis countstore: %w", err)
		}
		counters = cnt
	} else {
		logger.Info("redis not configured, warnings and quotas are in-process only")
		warnings = warnstore.NewMemWarnStore()
		counters = countstore.NewMemCountStore()
	}

	configs, err := buildConfigStore(ctx, config, logger)
	if err != nil {
		return nil, err
	}

	var notifier automod.Notifier
	if config.SlackWebhookURL != "" {
		logger.Info("configuring slack escalation alerts")
		notifier = automod.NewSlackNotifier(config.SlackWebhookURL)
	}

	engine := automod.Engine{
		Logger:            logger,
		Client:            platform.NewDiscordClient(session),
		Rules:             rules.DefaultRules(),
		Configs:           configs,
		Activity:          activity.NewStore(logger),
		Warnings:          warnings,
		Counters:          counters,
		Notifier:          notifier,
		PunishmentLimiter: rate.NewLimiter(rate.Limit(config.PunishRateLimit), 1),
	}

	s := &Server{
		logger:  logger,
		engine:  &engine,
		session: session,
	}

	return s, nil
}

func buildConfigStore(ctx context.Context, config Config, logger *slog.Logger) (configstore.Store, error) {
	if config.DatabaseURL != "" {
		pg, err := configstore.NewPostgresStore(ctx, config.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("initializing postgres configstore: %w", err)
		}
		return configstore.NewCachedStore(pg, 10_000, 5*time.Minute), nil
	}

	mem := configstore.NewMemStore()
	if config.ConfigFileJSON != "" {
		if err := mem.LoadFromFileJSON(config.ConfigFileJSON); err != nil {
			return nil, fmt.Errorf("initializing in-process configstore: %w", err)
		}
		logger.Info("loaded community configs from JSON", "path", config.ConfigFileJSON)
	} else {
		logger.Info("no config backend, all communities run with defaults")
	}
	return mem, nil
}

func (s *Server) Run(ctx context.Context) error {
	go s.engine.Activity.RunReaper(ctx)

	dc := consumer.DiscordConsumer{
		Logger:  s.logger,
		Session: s.session,
		Engine:  s.engine,
	}
	return dc.Run(ctx)
}

func (s *Server) RunMetrics(listen string) error {
	http.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(listen, nil)
}

// NewOfflineServer builds an engine on in-memory backends with no platform
// connection, for evaluating messages from the command line.
func NewOfflineServer(config Config) (*Server, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	configs, err := buildConfigStore(context.Background(), Config{ConfigFileJSON: config.ConfigFileJSON}, logger)
	if err != nil {
		return nil, err
	}

	engine := automod.Engine{
		Logger:   logger,
		Client:   platform.NewMockClient(),
		Rules:    rules.DefaultRules(),
		Configs:  configs,
		Activity: activity.NewStore(logger),
		Warnings: warnstore.NewMemWarnStore(),
		Counters: countstore.NewMemCountStore(),
	}

	return &Server{logger: logger, engine: &engine}, nil
}

func (s *Server) Check(ctx context.Context, communityID, authorID, content string, now time.Time) (*automod.EvaluationResult, error) {
	msg := platform.Message{
		ID:          "check",
		CommunityID: communityID,
		ChannelID:   "check",
		AuthorID:    authorID,
		Content:     content,
		Timestamp:   now,
	}
	return s.engine.ProcessMessage(ctx, msg)
}
