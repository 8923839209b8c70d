package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/vinwiki/config"
	"github.com/s0up4200/vinwiki/filter"
	"github.com/s0up4200/vinwiki/vinwiki"
)

var (
	cfgFile string
	debug   bool
	cfg     *config.Config
	logger  zerolog.Logger
	client  *vinwiki.Client
	filters *filter.Manager

	version   = "dev"
	buildTime = "unknown"

	// Command flags
	filterExpr string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "vinwiki",
	Short: "A command line client for the VINwiki vehicle history service",
	Long: `vinwiki looks up vehicles, feeds and people on VINwiki.

Credentials are read from the config file or from the VINWIKI_USERNAME and
VINWIKI_PASSWORD environment variables. Feed output can be narrowed with
filter expressions, either ad hoc or saved under filters: in the config.`,
	PersistentPreRunE: initializeApp,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if filters != nil {
			_ = filters.Close(context.Background())
		}
	},
	SilenceUsage: true,
}

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// skip config loading and login
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vinwiki %s (built %s)\n", version, buildTime)
	},
}

// SetVersion records the build information stamped in by the linker
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
}

// initializeApp loads configuration, builds the logger and logs in when
// credentials are configured
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if debug {
		cfg.Logging.Level = "debug"
	}
	logger = setupLogger(cfg.Logging)

	client, err = vinwiki.NewClient(
		vinwiki.WithBaseURL(cfg.VINwiki.BaseURL),
		vinwiki.WithTimeout(cfg.VINwiki.Timeout),
		vinwiki.WithUserAgent(cfg.VINwiki.UserAgent),
		vinwiki.WithLogger(logger.With().Str("component", "vinwiki").Logger()),
	)
	if err != nil {
		return fmt.Errorf("failed to create VINwiki client: %w", err)
	}

	filters = filter.NewManager()
	if err := filters.RegisterFilters(cfg.Filters); err != nil {
		return fmt.Errorf("invalid saved filter: %w", err)
	}

	if !cfg.VINwiki.HasCredentials() {
		logger.Debug().Msg("No credentials configured, continuing without a session")
		return nil
	}

	session, err := client.Authenticate(cmd.Context(), cfg.VINwiki.Username, cfg.VINwiki.Password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	logger.Debug().Str("person", session.PersonUUID()).Msg("Logged in")

	return nil
}

// commandError adds a hint to failures caused by missing credentials
func commandError(err error) error {
	if errors.Is(err, vinwiki.ErrSessionRequired) {
		return fmt.Errorf("%w: set vinwiki.username and vinwiki.password or VINWIKI_USERNAME and VINWIKI_PASSWORD", err)
	}
	return err
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// applyFilter narrows posts with a saved filter name or an ad hoc expression
func applyFilter(ctx context.Context, posts []vinwiki.FeedPost) ([]vinwiki.FeedPost, error) {
	if filterExpr == "" {
		return posts, nil
	}

	logger.Debug().Str("filter", filterExpr).Int("posts", len(posts)).Msg("Filtering posts")

	matched, err := filters.Apply(ctx, filterExpr, posts)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return matched, nil
}
