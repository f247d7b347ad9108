package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/imgajeed76/gridview/internal/config"
	"github.com/imgajeed76/gridview/internal/field"
	"github.com/imgajeed76/gridview/internal/ui/form"
	"github.com/imgajeed76/gridview/internal/ui/styles"
	"github.com/imgajeed76/gridview/internal/ui/table"
	"github.com/imgajeed76/gridview/internal/util"
)

func newFormCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "form <definition.toml>",
		Short: "Fill in the validated fields of a definition file",
		Long: `Show the [[fields]] of a definition file as a form. Each field is checked
against its rules when you leave it; the form submits only when every
field passes.

With --value (or without a terminal) no form is shown: the values are
checked as if submitted and every problem is reported.

Examples:
  gridview form signup.toml
  gridview form signup.toml --value email=jane@example.com --value age=31
  gridview form signup.toml --value email=jane@example.com --json`,
		Args: cobra.ExactArgs(1),
		RunE: runForm,
	}

	cmd.Flags().StringArray("value", nil, "Set a field: name=value (repeatable, skips the form)")
	cmd.Flags().Bool("json", false, "Print the submitted values as JSON")

	return cmd
}

func runForm(cmd *cobra.Command, args []string) error {
	gf, err := config.Load(util.ExpandHome(args[0]))
	if err != nil {
		return err
	}
	fields, err := gf.FormFields()
	if err != nil {
		return util.ConfigError(args[0], err)
	}
	if len(fields) == 0 {
		return util.NewError("No fields to fill in").
			WithContext(args[0]).
			WithSuggestion("Add [[fields]] tables with at least a name")
	}

	raw, _ := cmd.Flags().GetStringArray("value")
	asJSON, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	if len(raw) > 0 || !table.IsTerminal() {
		values, err := parseValues(raw)
		if err != nil {
			return err
		}
		submitted, err := submitValues(fields, values)
		if err != nil {
			return err
		}
		return printValues(out, fields, submitted, asJSON)
	}

	title := gf.Title
	if title == "" {
		title = args[0]
	}
	result, err := form.Run(title, fields)
	if err != nil {
		return err
	}
	if !result.Submitted {
		app.logger.Debug("form cancelled", zap.String("file", args[0]))
		cmd.PrintErrln(styles.MutedMsg("Cancelled"))
		return nil
	}
	return printValues(out, fields, result.Values, asJSON)
}

// parseValues splits name=value pairs. The value may itself contain "=".
func parseValues(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, util.NewError(fmt.Sprintf("Invalid --value '%s'", p)).
				WithSuggestion("--value name=value")
		}
		values[name] = value
	}
	return values, nil
}

// submitValues types each value into its field and submits the form. Fields
// without a value keep their default.
func submitValues(fields []*field.Field, values map[string]string) (map[string]string, error) {
	byName := make(map[string]*field.Field, len(fields))
	for _, f := range fields {
		byName[f.Name()] = f
	}
	for name, v := range values {
		f, ok := byName[name]
		if !ok {
			return nil, util.NewError(fmt.Sprintf("Unknown field '%s'", name)).
				WithSuggestion("Fields: " + strings.Join(fieldNames(fields), ", "))
		}
		if f.Disabled() || f.ReadOnly() {
			return nil, util.NewError(fmt.Sprintf("Field '%s' cannot be changed", name))
		}
		f.Focus()
		f.Change(v)
	}

	submitted, problems := form.Submit(fields)
	if len(problems) > 0 {
		app.logger.Debug("form rejected", zap.Strings("problems", problems))
		return nil, util.FormInvalidError(problems)
	}
	return submitted, nil
}

func fieldNames(fields []*field.Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name()
	}
	return names
}

// printValues writes name=value lines in field order, or one JSON object.
// Password values are masked in the line format.
func printValues(w io.Writer, fields []*field.Field, values map[string]string, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(values)
	}
	for _, f := range fields {
		v := values[f.Name()]
		if f.Type() == field.Password {
			v = strings.Repeat("*", len([]rune(v)))
		}
		fmt.Fprintf(w, "%s=%s\n", f.Name(), v)
	}
	return nil
}
