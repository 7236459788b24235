// Package cli wires the subcommands of the eventscout binary.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/techgrid/eventscout/internal/config"
	"github.com/techgrid/eventscout/internal/eventbrite"
	"github.com/techgrid/eventscout/internal/fetch"
	"github.com/techgrid/eventscout/internal/genai"
	"github.com/techgrid/eventscout/internal/ingest"
	"github.com/techgrid/eventscout/internal/meetup"
	"github.com/techgrid/eventscout/internal/notify"
	"github.com/techgrid/eventscout/internal/store"
	"github.com/techgrid/eventscout/internal/task"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagDBPath  string
	flagDryRun  bool
	flagVerbose bool
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eventscout",
		Short: "Ingest community tech events and announce them",
		Long: `eventscout scrapes Meetup pages and the Eventbrite API for the
registered community groups, stores upcoming events, and announces
new events on the configured channels.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "SQLite database path (default from DATABASE_PATH)")
	cmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "Print outbound posts instead of sending them")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	cmd.AddCommand(newIngestCmd())
	cmd.AddCommand(newDetailsCmd())
	cmd.AddCommand(newNotifyCmd())
	cmd.AddCommand(newWorkerCmd())
	cmd.AddCommand(newEventsCmd())
	cmd.AddCommand(newSmokeCmd())

	return cmd
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}

// app holds the pieces every subcommand needs.
type app struct {
	cfg    *config.Config
	db     *store.DB
	logger zerolog.Logger
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagDBPath != "" {
		cfg.DatabasePath = flagDBPath
	}

	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return &app{cfg: cfg, db: db, logger: logger}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error().Err(err).Msg("closing database")
	}
}

// newOrchestrator builds the ingestion stack. The returned cleanup
// shuts down the headless browser.
func (a *app) newOrchestrator() (*ingest.Orchestrator, func()) {
	renderer := fetch.NewRenderer(a.logger)
	scraper := meetup.New(renderer, fetch.NewClient(), a.logger)
	eb := eventbrite.NewClient(a.cfg.EventbriteToken, a.logger)
	return ingest.New(a.db, scraper, eb, a.logger), renderer.Close
}

// newDispatcher builds the notification stack. With --dry-run every
// real channel is replaced by a printer.
func (a *app) newDispatcher(queue task.Queue) *notify.Dispatcher {
	d := notify.NewDispatcher(queue, a.db, a.logger)
	if flagDryRun {
		d.AddChannel(newDryRunChannel(os.Stdout))
		return d
	}

	var gen notify.TextGenerator
	if a.cfg.GeminiAPIKey != "" {
		gen = genai.NewClient(a.cfg.GeminiAPIKey)
	}
	composer := notify.NewComposer(gen, a.logger)

	discord := notify.NewDiscord(a.cfg.DiscordWebhookURL, composer, a.logger)
	for group, webhook := range a.cfg.DiscordGroupWebhooks {
		discord.AddGroupWebhook(group, webhook)
	}
	d.AddChannel(discord)
	d.AddChannel(notify.NewLinkedIn(a.cfg.LinkedInAccessToken, a.cfg.LinkedInOrgURN, a.logger))
	d.AddChannel(notify.NewPartner(a.cfg.PartnerName, a.cfg.PartnerAPIURL, a.cfg.PartnerToken, a.logger))
	d.AddChannel(notify.NewTwitter(
		a.cfg.TwitterAPIKey, a.cfg.TwitterAPISecret,
		a.cfg.TwitterAccessToken, a.cfg.TwitterAccessSecret, a.logger))
	return d
}

// report prints each job outcome recorded by a synchronous queue.
func report(queue *task.SyncQueue) error {
	failures := 0
	for i := range queue.Names {
		if queue.Errors[i] != nil {
			failures++
			fmt.Fprintf(os.Stderr, "%s: %v\n", queue.Names[i], queue.Errors[i])
			continue
		}
		fmt.Printf("%s: %s\n", queue.Names[i], queue.Statuses[i])
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d jobs failed", failures, len(queue.Names))
	}
	return nil
}
