package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/extramurs/matchday/internal/config"
	"github.com/extramurs/matchday/internal/logger"
	"github.com/extramurs/matchday/internal/match"
	"github.com/extramurs/matchday/internal/metrics"
	"github.com/extramurs/matchday/internal/notifier"
	"github.com/extramurs/matchday/internal/photo"
	"github.com/extramurs/matchday/internal/pipeline"
	"github.com/extramurs/matchday/internal/scraper"
	"github.com/extramurs/matchday/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitChanges = 2
)

// options are the flags shared by every command
type options struct {
	configPath string
	dataDir    string
	format     string
	sortOrder  string
	now        string
	verbose    bool
	exitCode   bool

	out io.Writer

	// set by a command to request ExitChanges
	changes bool
}

// newRootCmd creates the root command
func newRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matchday",
		Short: "Scrape FFCV fixtures, standings and roster for one team",
		Long: `matchday scrapes the federation pages of one team and publishes a JSON
snapshot, an iCalendar feed and processed roster photos for the team site.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logger.LevelInfo
			if opts.verbose {
				level = logger.LevelDebug
			}
			logger.SetDefault(logger.New(level, os.Stderr))

			format := OutputFormat(strings.ToLower(opts.format))
			if format != FormatText && format != FormatJSON {
				return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", opts.format)
			}
			if _, err := ParseSortOrder(opts.sortOrder); err != nil {
				return err
			}
			if _, err := opts.clock(); err != nil {
				return err
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.DefaultPath, "Path to the YAML configuration")
	flags.StringVar(&opts.dataDir, "data-dir", "", "Output directory (overrides config and MATCHDAY_DATA_DIR)")
	flags.StringVar(&opts.format, "format", "text", "Output format: text or json")
	flags.StringVar(&opts.sortOrder, "sort", string(SortByDate), "Fixture order in text output: date, round or opponent")
	flags.StringVar(&opts.now, "now", "", "Reference time in RFC3339 (default: current time)")
	flags.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	flags.BoolVar(&opts.exitCode, "exit-code", false, "Exit with status 2 when results or schedule changed")

	cmd.AddCommand(newSyncCmd(opts), newParseCmd(opts), newNotifyCmd(opts))
	return cmd
}

// clock returns the reference time of the run.
func (o *options) clock() (time.Time, error) {
	if o.now == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, o.now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now: %w", err)
	}
	return t, nil
}

// loadConfig reads the configuration and applies --data-dir.
func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	return cfg, nil
}

func newSyncCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Scrape the federation pages and write the site data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			outcome, err := runSync(cmd.Context(), opts, cfg)
			if err != nil {
				return err
			}
			opts.changes = outcome.diff.HasChanges()
			return opts.write(outcome.summary())
		},
	}
}

func newNotifyCmd(opts *options) *cobra.Command {
	var post, includeNext bool
	var channel string

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Sync, then announce new results and schedule changes",
		Long: `notify runs a sync and announces what changed since the previous snapshot.
Posts are printed unless --post is given, in which case they are published to
the --channel: twitter (TWITTER_* environment variables) or telegram
(TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			formatter := notifier.Formatter{Hashtags: hashtags(cfg)}
			var n notifier.Notifier = notifier.NewDryRunNotifier(opts.out, formatter)
			if post {
				if n, err = newChannel(channel, formatter); err != nil {
					return err
				}
			}

			outcome, err := runSync(cmd.Context(), opts, cfg)
			if err != nil {
				return err
			}

			var next *match.Fixture
			if includeNext && outcome.result.View.IsUrgent {
				next = outcome.result.View.NextFixture
			}
			announcements := notifier.Build(outcome.diff, next)
			opts.changes = outcome.diff.HasChanges()

			if len(announcements) == 0 {
				logger.Info("Nothing to announce", nil)
				return nil
			}
			if err := n.Notify(cmd.Context(), announcements); err != nil {
				logger.Error("Announcing failed", logger.Fields{"count": len(announcements)}, err)
				return nil
			}
			metrics.AddCounter("notify.posted", len(announcements))
			return nil
		},
	}

	cmd.Flags().BoolVar(&post, "post", false, "Publish instead of printing")
	cmd.Flags().StringVar(&channel, "channel", "twitter", "Where --post publishes: twitter or telegram")
	cmd.Flags().BoolVar(&includeNext, "next", false, "Also announce the next fixture when it is less than 24h away")
	return cmd
}

// newChannel creates the notifier that publishes to channel.
func newChannel(channel string, formatter notifier.Formatter) (notifier.Notifier, error) {
	switch strings.ToLower(channel) {
	case "twitter":
		tw, err := notifier.NewTwitterNotifier(formatter)
		if err != nil {
			return nil, fmt.Errorf("initializing twitter: %w", err)
		}
		return tw, nil
	case "telegram":
		tg, err := notifier.NewTelegramNotifier(formatter)
		if err != nil {
			return nil, fmt.Errorf("initializing telegram: %w", err)
		}
		return tg, nil
	default:
		return nil, fmt.Errorf("invalid channel: %s (must be 'twitter' or 'telegram')", channel)
	}
}

// hashtags derives the post hashtags from the team short name.
func hashtags(cfg *config.Config) string {
	tag := strings.Join(strings.Fields(cfg.Team.ShortName), "")
	if tag == "" {
		return "#FFCV"
	}
	return "#" + tag + " #FFCV"
}

// syncOutcome carries what a sync produced
type syncOutcome struct {
	cfg      *config.Config
	store    *storage.Storage
	result   *pipeline.Result
	diff     *match.DiffResult
	checked  time.Time
	sortedBy SortOrder
}

// runSync fetches, writes every output and diffs against the previous snapshot.
// Storage setup and calendar-page failures are returned; everything else is logged.
func runSync(ctx context.Context, opts *options, cfg *config.Config) (*syncOutcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	now, err := opts.clock()
	if err != nil {
		return nil, err
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	previous, err := store.LoadSnapshot()
	if err != nil {
		logger.Warn("Ignoring unreadable previous snapshot", logger.Fields{"error": err.Error()})
		previous = storage.NewSnapshot()
	}

	logger.Info("Starting sync", logger.Fields{"team": cfg.Team.Name, "data_dir": store.Dir()})

	result, err := pipeline.Run(ctx, pipeline.Deps{
		Config:    cfg,
		Fetcher:   scraper.NewHTTPFetcher(scraper.FetcherConfigFrom(cfg.Scraping)),
		Photos:    store.Photos(),
		Processor: photo.FromConfig(cfg.Images),
		Now:       now,
	})
	if err != nil {
		return nil, err
	}

	if err := store.SaveSnapshot(result.Snapshot); err != nil {
		logger.Error("Could not save snapshot", nil, err)
	}
	if err := store.SaveCalendar(result.Calendar); err != nil {
		logger.Error("Could not save calendar", nil, err)
	}

	diff := match.Diff(previous.AllFixtures, result.Fixtures)

	if err := metrics.Default().WriteTextfile(store.Path(storage.MetricsFile)); err != nil {
		logger.Warn("Could not write metrics", logger.Fields{"error": err.Error()})
	}

	order, _ := ParseSortOrder(opts.sortOrder)
	return &syncOutcome{cfg: cfg, store: store, result: result, diff: diff, checked: now, sortedBy: order}, nil
}

func (o *syncOutcome) summary() *Summary {
	s := NewSummary(o.cfg, o.result, o.checked)
	s.NewResults = o.diff.NewResults
	s.Rescheduled = o.diff.Rescheduled
	s.Added = len(o.diff.Added)
	s.Files = []string{
		o.store.Path(storage.SnapshotFile),
		o.store.Path(storage.CalendarFile),
	}
	SortFixtures(s.Fixtures, o.sortedBy)
	return s
}

func newParseCmd(opts *options) *cobra.Command {
	var calendarFile, standingsFile, rosterFile string
	var matchFiles []string

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Run the extractors over saved HTML pages",
		Long: `parse reads pages saved from the federation site and prints what would be
published, without network access or writing any file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if calendarFile == "" && standingsFile == "" && rosterFile == "" {
				return fmt.Errorf("at least one of --calendar, --standings or --roster is required")
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			now, err := opts.clock()
			if err != nil {
				return err
			}

			var pages pipeline.Pages
			for _, f := range []struct {
				path string
				dst  *string
			}{
				{calendarFile, &pages.Calendar},
				{standingsFile, &pages.Standings},
				{rosterFile, &pages.Roster},
			} {
				if f.path == "" {
					continue
				}
				if *f.dst, err = readPage(f.path); err != nil {
					return err
				}
			}
			for _, path := range matchFiles {
				page, err := readPage(path)
				if err != nil {
					return err
				}
				pages.Matches = append(pages.Matches, page)
			}

			result := pipeline.Parse(cfg, pages, now)
			s := NewSummary(cfg, result, now)
			order, _ := ParseSortOrder(opts.sortOrder)
			SortFixtures(s.Fixtures, order)
			return opts.write(s)
		},
	}

	cmd.Flags().StringVar(&calendarFile, "calendar", "", "Saved fixtures page")
	cmd.Flags().StringVar(&standingsFile, "standings", "", "Saved standings page")
	cmd.Flags().StringVar(&rosterFile, "roster", "", "Saved roster page")
	cmd.Flags().StringSliceVar(&matchFiles, "match", nil, "Saved match sheets, oldest first (repeatable)")
	return cmd
}

func readPage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func (o *options) write(s *Summary) error {
	if o.verbose {
		s.Metrics = metrics.GetSnapshot()
	}
	if err := WriteOutput(o.out, s, OutputFormat(strings.ToLower(o.format)), o.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// run executes the command tree and maps the outcome to an exit code.
func run(opts *options, args []string) int {
	root := newRootCmd(opts)
	root.SetArgs(args)
	root.SetOut(opts.out)

	err := root.ExecuteContext(context.Background())
	defer logger.Default().Sync()

	if err != nil {
		logger.Error("Run failed", nil, err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	if opts.exitCode && opts.changes {
		return ExitChanges
	}
	return ExitSuccess
}

// Execute runs the CLI and exits with its status
func Execute() {
	os.Exit(run(&options{out: os.Stdout}, os.Args[1:]))
}
