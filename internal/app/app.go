package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"codeberg.org/sigterm-de/boopkit/assets"
	"codeberg.org/sigterm-de/boopkit/internal/logging"
	"codeberg.org/sigterm-de/boopkit/internal/scripts"
	"github.com/spf13/cobra"
)

// errScriptFailed marks a run whose script posted an error or threw. The
// details have already been written to stderr.
var errScriptFailed = errors.New("script reported a failure")

// BuildInfo is injected by main via -ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Run initialises file logging, executes the command line and returns the
// exit code that main() should pass to os.Exit.
func Run(info BuildInfo) int {
	if _, err := logging.InitLogger(appName); err != nil {
		fmt.Fprintf(os.Stderr, "%s: warning: cannot initialise logger: %v\n", appName, err)
		logging.SetOutput(nil)
	}
	logging.Logf(logging.INFO, "", "%s %s starting", appName, info.Version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCommand(info)
	root.SetArgs(os.Args[1:])
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errScriptFailed) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		}
		return 1
	}
	return 0
}

// cli carries the state shared by every subcommand.
type cli struct {
	info       BuildInfo
	configFile string
	verbose    bool
	cfg        UserConfiguration
}

// NewRootCommand builds the boopkit command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	c := &cli{info: info}

	root := &cobra.Command{
		Use:   appName,
		Short: "Run Boop-compatible text transformation scripts",
		Long: `boopkit executes Boop scripts (JavaScript with a /**! header and a
main(state) function) against text read from stdin or a file.

Built-in scripts are always available. User scripts and requirable modules
live in the scripts directory (default $XDG_CONFIG_HOME/boopkit/scripts).`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/boopkit/config.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "also write log records to stderr")

	root.AddCommand(
		c.newRunCommand(),
		c.newListCommand(),
		c.newVersionCommand(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	// ── Configuration ─────────────────────────────────────────────────────────
	cfg, err := LoadConfiguration(c.configFile)
	if err != nil {
		return err
	}
	c.cfg = cfg

	// ── Logging ───────────────────────────────────────────────────────────────
	lvl, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	logging.SetLevel(lvl)
	if c.verbose {
		logging.Tee(cmd.ErrOrStderr())
	}
	return nil
}

// loadLibrary loads built-in and user scripts and logs what was skipped.
func (c *cli) loadLibrary() (*scripts.ScriptLibrary, error) {
	loader := scripts.NewLoader(assets.Scripts(), c.cfg.MaxScriptBytes)
	result, err := loader.Load(c.cfg.ScriptsDir)
	if err != nil {
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	for _, skipped := range result.SkippedFiles {
		logging.Log(logging.WARN, skipped, "script was skipped during load")
	}
	logging.Logf(logging.INFO, "", "loaded %d built-in scripts, %d user scripts (%d skipped)",
		result.BuiltInCount, result.UserCount, len(result.SkippedFiles))
	return scripts.NewLibrary(result), nil
}

func (c *cli) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (commit %s, built %s)\n",
				appName, c.info.Version, c.info.Commit, c.info.Date)
			if p := logging.Path(); p != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "log file: %s\n", p)
			}
		},
	}
}

// readInput returns the contents of path, or of in when path is "" or "-".
func readInput(in io.Reader, path string) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(b), nil
}
