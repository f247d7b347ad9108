package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/imgajeed76/gridview/internal/config"
	"github.com/imgajeed76/gridview/internal/logutil"
	"github.com/imgajeed76/gridview/internal/ui/styles"
	"github.com/imgajeed76/gridview/internal/util"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

// appState is what every command needs once the global flags are parsed.
type appState struct {
	global *config.GlobalConfig
	logger *zap.Logger
	sync   func()
}

var app = appState{
	global: config.DefaultGlobalConfig(),
	logger: zap.NewNop(),
	sync:   func() {},
}

var rootCmd = &cobra.Command{
	Use:   "gridview",
	Short: "Browse tabular data in a searchable, sortable, paginated grid",
	Long: `gridview loads records from a data file or a PostgreSQL query and shows
them in an interactive grid: search, sort by column, page through, select
rows and export what you see.

Supported files: .json, .csv, .tsv, .yaml, .yml, .toml, .parquet

A grid definition file (--grid) chooses columns, formats, paging and
which features are on. Without one every column is shown.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	Version:           Version,
	PersistentPreRunE: setup,
}

func Execute() error {
	defer func() { app.sync() }()

	if err := rootCmd.Execute(); err != nil {
		var cliErr *util.CLIError
		if errors.As(err, &cliErr) {
			fmt.Fprintln(os.Stderr, cliErr.Format())
		} else {
			fmt.Fprintln(os.Stderr, styles.ErrorMsg(err.Error()))
		}
		app.logger.Error("command failed", zap.Error(err))
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().String("log-file", "", "Write JSON logs to this file (rotated)")
	rootCmd.PersistentFlags().String("config", "", "Global config file (default: "+config.GlobalConfigPath()+")")

	rootCmd.SetVersionTemplate(fmt.Sprintf("gridview version %s\n  commit: %s\n  built:  %s\n", Version, CommitSHA, BuildDate))

	rootCmd.AddCommand(
		newViewCmd(),
		newShowCmd(),
		newExportCmd(),
		newSQLCmd(),
		newFormCmd(),
		newConvertCmd(),
		newConfigCmd(),
		newVersionCmd(),
		newCompletionCmd(),
	)
}

// setup loads the global config and builds the logger before any command
// runs.
func setup(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.GlobalConfigPath()
	}
	global, err := config.LoadGlobalFrom(util.ExpandHome(path))
	if err != nil {
		return util.ConfigError(path, err)
	}
	app.global = global

	noColor, _ := cmd.Flags().GetBool("no-color")
	if noColor || global.ColorDisabled() {
		styles.SetNoColor(true)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logFile, _ := cmd.Flags().GetString("log-file")
	logger, sync, err := logutil.Setup(logConfig(global, logFile, verbose))
	if err != nil {
		return util.ConfigError(path, err)
	}
	app.logger = logger
	app.sync = sync

	logger.Debug("gridview starting",
		zap.String("command", cmd.CommandPath()),
		zap.String("version", Version),
		zap.String("config", path),
	)
	return nil
}

// logConfig returns nil (no logging) unless a log file is configured or
// --verbose is given. Verbose output without a file goes to stderr.
func logConfig(global *config.GlobalConfig, logFile string, verbose bool) *logutil.LogConfig {
	if logFile == "" {
		logFile = global.Log.File
	}
	if logFile == "" && !verbose {
		return nil
	}

	cfg := &logutil.LogConfig{
		Level:  global.Log.Level,
		Format: "console",
	}
	if verbose {
		cfg.Level = "debug"
	}
	if logFile != "" {
		cfg.Format = "json"
		cfg.Filename = util.ExpandHome(logFile)
		cfg.MaxSize = 10
		cfg.MaxDays = 14
		cfg.MaxBackups = 3
	}
	return cfg
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for gridview.

To load completions:

Bash:
  $ source <(gridview completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ gridview completion bash > /etc/bash_completion.d/gridview
  # macOS:
  $ gridview completion bash > $(brew --prefix)/etc/bash_completion.d/gridview

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ gridview completion zsh > "${fpath[1]}/_gridview"

Fish:
  $ gridview completion fish | source

  # To load completions for each session, execute once:
  $ gridview completion fish > ~/.config/fish/completions/gridview.fish

PowerShell:
  PS> gridview completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(out)
			case "zsh":
				return rootCmd.GenZshCompletion(out)
			case "fish":
				return rootCmd.GenFishCompletion(out, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "gridview version %s\n", Version)
			fmt.Fprintf(out, "  commit: %s\n", CommitSHA)
			fmt.Fprintf(out, "  built:  %s\n", BuildDate)
		},
	}
}
