package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cliapi "trip-dashboard/internal/cli"
	"trip-dashboard/internal/config"
	"trip-dashboard/internal/dashboard"
)

// Version information
const Version = "1.0.0"

var (
	configFile string
	serverURL  string
	format     string
	quiet      bool
	noColor    bool
	timeout    string
	logFile    string
	verbose    bool
	startDate  string
	endDate    string
)

// flagBindings maps CLI config keys onto the persistent flags that override them
var flagBindings = map[string]string{
	"server_url":      "server",
	"format":          "format",
	"quiet":           "quiet",
	"no_color":        "no-color",
	"request_timeout": "timeout",
	"log_file":        "log-file",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trip-dashboard",
	Short: "Dashboard client for the NYC taxi trips API",
	Long: `Trip Dashboard reads summary metrics and trips from the trips API and
shows them as KPIs and a trips table. Use "show" for a one-shot refresh,
"watch" for the interactive dashboard, "report" to export a PDF and
"snapshot" to capture the web dashboard.

CONFIGURATION:
    Flags override environment variables, which override cli.yaml.

        TRIP_DASH_CLI_SERVER_URL   - API server address (default: http://127.0.0.1:5000)
        TRIP_DASH_CLI_FORMAT       - Output format: table, json (default: table)
        TRIP_DASH_CLI_QUIET        - Minimal output (default: false)
        TRIP_DASH_CLI_NO_COLOR     - Disable color output, NO_COLOR is honored too
        TRIP_DASH_CLI_TIMEOUT      - Request timeout, "45s" or "45" (default: 30s)
        TRIP_DASH_CLI_LOG_FILE     - Write diagnostics to this file`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// reported holds a failure the running command has already shown to the
// user. Commands store it through alreadyReported and return nil so fang
// does not print it a second time.
var reported error

// alreadyReported records err as the command's outcome without printing it
func alreadyReported(err error) error {
	reported = err
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := run(context.Background()); err != nil {
		os.Exit(1)
	}
}

// run executes the command tree through fang and returns the command's
// failure, whether fang printed it or the command reported it itself
func run(ctx context.Context) error {
	reported = nil
	if err := fang.Execute(ctx, rootCmd); err != nil {
		return err
	}
	return reported
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default is cli.yaml in ., ./config or $HOME/.trip-dashboard)")
	flags.StringVarP(&serverURL, "server", "s", cliapi.DefaultConfig().ServerURL, "API server address")
	flags.StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (minimal output)")
	flags.BoolVar(&noColor, "no-color", false, "Disable color output")
	flags.StringVar(&timeout, "timeout", "", "Request timeout (e.g. 45s)")
	flags.StringVar(&logFile, "log-file", "", "Write diagnostics to this file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Write diagnostics to stderr")
	flags.StringVar(&startDate, "start", "", "Only trips picked up at or after this time")
	flags.StringVar(&endDate, "end", "", "Only trips picked up at or before this time")
}

// loadConfig merges flags, environment and config file into a CLI config
func loadConfig() (*cliapi.Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	flags := rootCmd.PersistentFlags()
	for key, name := range flagBindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}

	return config.LoadCLIConfigWithViper(v)
}

// dateRange returns the --start and --end values as entered
func dateRange() dashboard.DateRange {
	return dashboard.DateRange{Start: startDate, End: endDate}
}

// newLogger returns the diagnostics logger and a function closing its output.
// Without a log file, diagnostics go to fallback in verbose mode and are
// discarded otherwise.
func newLogger(cfg *cliapi.Config, fallback io.Writer) (*slog.Logger, func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}

	if cfg.LogFile == "" {
		if verbose && fallback != nil {
			return slog.New(slog.NewTextHandler(fallback, opts)), func() {}, nil
		}
		return slog.New(slog.DiscardHandler), func() {}, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), func() { f.Close() }, nil
}

// session holds what every dashboard command needs
type session struct {
	cfg       *cliapi.Config
	formatter *cliapi.OutputFormatter
	logger    *slog.Logger
	client    *cliapi.Client
	closeLog  func()
}

// newSession sets up configuration, formatter, logger and API client
func newSession(logFallback io.Writer) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := newLogger(cfg, logFallback)
	if err != nil {
		return nil, err
	}

	logger.Debug("Configuration loaded",
		"server_url", cfg.ServerURL,
		"format", cfg.Format,
		"timeout", cfg.RequestTimeout)

	return &session{
		cfg:       cfg,
		formatter: cliapi.NewOutputFormatter(cfg.Format, cfg.Quiet, cfg.NoColor),
		logger:    logger,
		client:    cliapi.NewClientWithTimeout(cfg.ServerURL, cfg.RequestTimeout),
		closeLog:  closeLog,
	}, nil
}

// Close releases the log file, if any
func (s *session) Close() {
	s.closeLog()
}
