package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/nestify-dev/nestify/internal/ui"
	"github.com/nestify-dev/nestify/pkg/version"
)

const (
	flagVerbose = "verbose"
	flagConfig  = "config"
)

const banner = `╔════════════════════════════════╗
║          🔨 nestify 🔨          ║
║     NestJS Project Generator   ║
╚════════════════════════════════╝`

// NewRootCommand builds the command tree around deps.
func NewRootCommand(deps *Dependencies) *cobra.Command {
	root := &cobra.Command{
		Use:   "nestify",
		Short: "Scaffold production-ready NestJS applications",
		Long: `nestify generates a NestJS project with optional database wiring,
authentication, Docker, Swagger, GraphQL and a GitHub Actions workflow,
then installs its dependencies.`,
		Version:       version.GetVersion(),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetVersionTemplate(version.GetFullVersion() + "\n")
	root.SetOut(deps.Out)
	root.SetErr(deps.Err)

	root.PersistentFlags().BoolP(flagVerbose, "v", false, "print debug logs to stderr")
	root.PersistentFlags().String(flagConfig, "", "settings file (default $XDG_CONFIG_HOME/nestify/config.yaml)")

	root.AddCommand(newNewCmd(deps), newGenerateCmd(), newVersionCmd())
	return root
}

// @MX:ANCHOR: [AUTO] Execute is the main entry point for the nestify CLI
// @MX:REASON: [AUTO] Called from cmd/nestify/main.go; maps every failure to a printed error and exit code 1.
// Execute runs the CLI with args and prints any error with its hints.
func Execute(ctx context.Context, args []string) error {
	deps := NewDependencies()
	root := NewRootCommand(deps)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		printError(deps.Err, ui.NewTheme(ui.ThemeConfig{NoColor: deps.Headless.IsHeadless()}), err)
		return err
	}
	return nil
}

// printError writes err followed by every hint attached to it.
func printError(w io.Writer, theme *ui.Theme, err error) {
	_, _ = fmt.Fprintf(w, "%s %v\n", theme.Error.Render("✖ Error:"), err)
	for _, hint := range errors.GetAllHints(err) {
		_, _ = fmt.Fprintln(w, theme.Muted.Render(hint))
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the nestify version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersion())
		},
	}
}

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "generate <schematic> <name>",
		Aliases: []string{"g"},
		Short:   "Generate a new component (module, controller, service)",
		Args:    cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(),
				"Generating %s %q is not available yet. Use the Nest CLI inside the project: npx nest g %s %s\n",
				args[0], args[1], args[0], args[1])
		},
	}
}
