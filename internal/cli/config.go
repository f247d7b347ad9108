package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/imgajeed76/gridview/internal/config"
	"github.com/imgajeed76/gridview/internal/ui/styles"
	"github.com/imgajeed76/gridview/internal/util"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config [key] [value]",
		Short: "Get and set global options",
		Long: `Get and set global gridview options.

Settings live in the user config directory (see --path). Every option can
also be set through its GRIDVIEW_* environment variable, which wins over
the file.

Examples:
  gridview config                           # Describe every option
  gridview config display.page_size         # Get value
  gridview config display.page_size 25      # Set value
  gridview config --list                    # List current values`,
		Args: cobra.MaximumNArgs(2),
		RunE: runConfig,
	}

	cmd.Flags().BoolP("list", "l", false, "List all configuration")
	cmd.Flags().Bool("path", false, "Print the config file path")

	return cmd
}

func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg := app.global

	if showPath, _ := cmd.Flags().GetBool("path"); showPath {
		fmt.Fprintln(out, configPath(cmd))
		return nil
	}

	if listAll, _ := cmd.Flags().GetBool("list"); listAll {
		for _, key := range config.ListKeys() {
			value, _ := cfg.GetValue(key)
			fmt.Fprintf(out, "%s=%s\n", key, value)
		}
		return nil
	}

	if len(args) == 0 {
		fmt.Fprint(out, config.GenerateHelpText())
		return nil
	}

	key := strings.ToLower(args[0])

	if len(args) == 1 {
		value, ok := cfg.GetValue(key)
		if !ok {
			return unknownKeyError(key)
		}
		fmt.Fprintln(out, value)
		return nil
	}

	if err := cfg.SetValue(key, args[1]); err != nil {
		if strings.HasPrefix(err.Error(), "unknown config key") {
			return unknownKeyError(key)
		}
		return util.NewError(fmt.Sprintf("Cannot set %s", key)).Wrap(err)
	}

	path := configPath(cmd)
	if err := cfg.SaveTo(path); err != nil {
		return util.ConfigError(path, err)
	}
	value, _ := cfg.GetValue(key)
	fmt.Fprintln(out, styles.SuccessMsg(fmt.Sprintf("%s = %s", key, value)))
	return nil
}

// configPath honors the persistent --config flag.
func configPath(cmd *cobra.Command) string {
	if cmd.Flags().Lookup("config") != nil {
		if p, _ := cmd.Flags().GetString("config"); p != "" {
			return util.ExpandHome(p)
		}
	}
	return config.GlobalConfigPath()
}

func unknownKeyError(key string) error {
	return util.NewError(fmt.Sprintf("Unknown config key: %s", key)).
		WithSuggestion("gridview config --list   # Show all keys")
}
