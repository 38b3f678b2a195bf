// Package main provides the devcon CLI: an interactive developer console with
// HTTP, storage and log tooling commands.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"devconsole/internal/config"
	"devconsole/internal/logger"
	"devconsole/internal/shell"
	"devconsole/internal/tui"
	"devconsole/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. The root runs the interactive shell.
func newRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "devcon",
		Short: "DevConsole - an embeddable developer console",
		Long: `DevConsole keeps a bounded in-memory log, variables and a command registry,
and drives them from an interactive shell, a full-screen TUI or a script.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, configFile)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default: devcon.* in the working directory)")
	flags.String("log-level", "", "Set log level (debug|info|warn|error) [default: warn]")
	flags.String("log-file", "", "Write diagnostics to file instead of stderr")
	flags.Bool("test-mode", false, "Run with deterministic ids and timestamps")
	flags.Int("max-logs", 1000, "Log store capacity")
	flags.Int("history-size", 50, "Number of input lines kept in history")
	flags.Bool("eval", false, "Enable '>' expression evaluation")
	flags.String("output", "auto", "Entry rendering (auto|styled|plain|json)")
	flags.String("export-dir", ".", "Directory for /export and /storage.export files")
	flags.String("export-format", "json", "Default /export format (json|yaml)")
	flags.String("storage-file", ".devcon-storage.env", "Backing file of the local storage area")
	flags.Duration("http-timeout", 0, "Timeout of /http.* requests [default: 30s]")

	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, configFile)
		},
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the full-screen console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, configFile)
		},
	}

	runCmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Submit every line of a script and print the log",
		Long: `Submit every non-blank line of a script that does not start with '#'.
HTTP requests started by a line finish before the next line runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, configFile, args[0])
		},
	}

	var verbose bool
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info, err := version.GetInfo()
			if err != nil {
				return err
			}
			if verbose {
				cmd.Println(info.Detailed())
			} else {
				cmd.Println(info.String())
			}
			return nil
		},
	}
	versionCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed build information")

	rootCmd.AddCommand(shellCmd, tuiCmd, runCmd, versionCmd)
	return rootCmd
}

// setup loads configuration, configures diagnostics and builds the app.
func setup(cmd *cobra.Command, configFile string) (*app, error) {
	cfg, err := config.Load(config.Options{
		ConfigFile: configFile,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return nil, err
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile, cfg.TestMode); err != nil {
		return nil, fmt.Errorf("failed to configure logger: %w", err)
	}
	logger.Info("Starting devcon", "version", version.Version, "config", cfg.File)
	return newApp(cfg)
}

func runShell(cmd *cobra.Command, configFile string) error {
	a, err := setup(cmd, configFile)
	if err != nil {
		return err
	}
	defer a.Close()

	sh := shell.New(a.console, a.printerOptions()...)
	sh.WaitFor(a.http)
	return sh.Run(cmd.Context())
}

func runTUI(cmd *cobra.Command, configFile string) error {
	a, err := setup(cmd, configFile)
	if err != nil {
		return err
	}
	defer a.Close()

	// Diagnostics on stderr would tear the full-screen view.
	if a.cfg.LogFile == "" {
		logger.SetOutput(io.Discard)
	}
	return tui.Run(cmd.Context(), a.console, a.printerOptions()...)
}

func runScript(cmd *cobra.Command, configFile, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	a, err := setup(cmd, configFile)
	if err != nil {
		return err
	}
	defer a.Close()

	sh := shell.New(a.console, a.printerOptions()...)
	sh.WaitFor(a.http)
	n, err := sh.RunScript(cmd.Context(), f, cmd.OutOrStdout())
	logger.Info("Script finished", "script", path, "lines", n)
	return err
}
