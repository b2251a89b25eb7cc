package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	cli "github.com/urfave/cli/v2"

	"github.com/wardenlabs/warden/automod/configstore"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "warden",
		Usage:   "chat auto-moderation daemon",
		Version: versioninfo.Short(),
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "discord-token",
			Usage:   "bot token for the discord gateway and REST API",
			EnvVars: []string{"DISCORD_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "redis connection for warnings, counters and quotas (eg: redis://localhost:6379/0)",
			EnvVars: []string{"REDIS_URL"},
		},
		&cli.StringFlag{
			Name:    "database-url",
			Usage:   "postgres connection for community configuration (eg: postgres://user:pw@localhost:5432/warden)",
			EnvVars: []string{"DATABASE_URL"},
		},
		&cli.StringFlag{
			Name:    "config-json",
			Usage:   "file path of JSON community configs to load in-process (instead of postgres)",
			EnvVars: []string{"WARDEN_CONFIG_JSON"},
		},
		&cli.StringFlag{
			Name:    "slack-webhook-url",
			Usage:   "incoming webhook for escalation alerts",
			EnvVars: []string{"SLACK_WEBHOOK_URL"},
		},
	}

	app.Commands = []*cli.Command{
		runCmd,
		checkCmd,
	}

	return app.Run(args)
}

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "run the moderation service",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics APIs",
			Value:   ":3989",
			EnvVars: []string{"WARDEN_METRICS_LISTEN"},
		},
		&cli.IntFlag{
			Name:    "punish-rate-limit",
			Usage:   "max punishment API calls per second to the platform",
			Value:   5,
			EnvVars: []string{"WARDEN_PUNISH_RATE_LIMIT"},
		},
	},
	Action: func(cctx *cli.Context) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		slog.SetDefault(logger)

		srv, err := NewServer(ctx, Config{
			DiscordToken:    cctx.String("discord-token"),
			RedisURL:        cctx.String("redis-url"),
			DatabaseURL:     cctx.String("database-url"),
			ConfigFileJSON:  cctx.String("config-json"),
			SlackWebhookURL: cctx.String("slack-webhook-url"),
			PunishRateLimit: cctx.Int("punish-rate-limit"),
			Logger:          logger,
		})
		if err != nil {
			return err
		}

		go func() {
			if err := srv.RunMetrics(cctx.String("metrics-listen")); err != nil {
				slog.Error("failed to start metrics endpoint", "error", err)
				panic(fmt.Errorf("failed to start metrics endpoint: %w", err))
			}
		}()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("failed to run moderation service: %w", err)
		}
		return nil
	},
}

// evaluates a single message against a community's configuration without
// touching the platform, for testing filter and escalation settings
var checkCmd = &cli.Command{
	Name:      "check",
	Usage:     "evaluate one message offline and print the result",
	ArgsUsage: "<community-id> <author-id> <content>",
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 3 {
			return fmt.Errorf("expected three args: community-id, author-id, content")
		}
		ctx := context.Background()

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))

		srv, err := NewOfflineServer(Config{
			ConfigFileJSON: cctx.String("config-json"),
			Logger:         logger,
		})
		if err != nil {
			return err
		}

		res, err := srv.Check(ctx, cctx.Args().Get(0), cctx.Args().Get(1), cctx.Args().Get(2), time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("matched-filter: %s\n", orStr(res.MatchedFilter, "(none)"))
		fmt.Printf("warning-issued: %v\n", res.WarningIssued)
		fmt.Printf("warning-count: %d\n", res.WarningCount)
		fmt.Printf("escalation-fired: %v\n", res.EscalationFired)
		if res.Punishment != configstore.PunishmentKind("") {
			fmt.Printf("punishment: %s\n", res.Punishment)
		}
		return nil
	},
}

func orStr(s, alt string) string {
	if s == "" {
		return alt
	}
	return s
}
