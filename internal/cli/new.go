package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nestify-dev/nestify/internal/cli/wizard"
	"github.com/nestify-dev/nestify/internal/config"
	"github.com/nestify-dev/nestify/internal/generator"
	"github.com/nestify-dev/nestify/internal/materializer"
	"github.com/nestify-dev/nestify/internal/orchestrator"
	"github.com/nestify-dev/nestify/internal/ui"
	"github.com/nestify-dev/nestify/pkg/models"
)

// ErrTargetExists is returned when the project directory is already present.
var ErrTargetExists = errors.New("target directory already exists")

const (
	flagSkipInstall = "skip-install"
	flagYes         = "yes"
	flagNoFormat    = "no-format"
	flagNoGit       = "no-git"
)

// newOptions are the raw flag values of nestify new.
type newOptions struct {
	packageManager string
	skipInstall    bool
	yes            bool
	description    string
	author         string
	docker         bool
	database       string
	orm            string
	auth           bool
	authStrategies []string
	swagger        bool
	graphql        bool
	githubActions  bool
	noFormat       bool
	noGit          bool
}

func newNewCmd(deps *Dependencies) *cobra.Command {
	opts := &newOptions{}
	cmd := &cobra.Command{
		Use:   "new <project-name>",
		Short: "Create a new NestJS project",
		Long: `Create a new NestJS project in ./<project-name>.

Questions not answered by flags are asked interactively unless --yes is
given, in which case the defaults apply.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(cmd.Context(), cmd, deps, opts, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.packageManager, wizard.QuestionPackageManager, "p", "", "package manager to use: npm, yarn or pnpm")
	f.BoolVar(&opts.skipInstall, flagSkipInstall, false, "skip dependency installation and the steps that need it")
	f.BoolVarP(&opts.yes, flagYes, "y", false, "accept defaults for every question not answered by a flag")
	f.StringVar(&opts.description, wizard.QuestionDescription, "", "package description")
	f.StringVar(&opts.author, wizard.QuestionAuthor, "", "package author")
	f.BoolVar(&opts.docker, wizard.QuestionDocker, false, "add a Dockerfile and docker-compose.yml (requires a database)")
	f.StringVar(&opts.database, wizard.QuestionDatabase, "", "database: none, mysql, postgres or mongodb")
	f.StringVar(&opts.orm, wizard.QuestionORM, "", "ORM: typeorm or prisma (mongodb defaults to mongoose)")
	f.BoolVar(&opts.auth, wizard.QuestionAuth, false, "scaffold JWT authentication (requires a database)")
	f.StringSliceVar(&opts.authStrategies, wizard.QuestionAuthStrategy, nil, "authentication strategies (jwt)")
	f.BoolVar(&opts.swagger, wizard.QuestionSwagger, false, "serve Swagger documentation at /api/docs")
	f.BoolVar(&opts.graphql, wizard.QuestionGraphQL, false, "add a GraphQL module")
	f.BoolVar(&opts.githubActions, wizard.QuestionGitHubActions, false, "add a GitHub Actions test workflow")
	f.BoolVar(&opts.noFormat, flagNoFormat, false, "do not run the formatter after install")
	f.BoolVar(&opts.noGit, flagNoGit, false, "do not initialize a Git repository")
	return cmd
}

// @MX:ANCHOR: [AUTO] End-to-end flow of nestify new.
// @MX:REASON: [AUTO] Every generator, the materializer and the orchestrator are driven from here in a fixed order.
func runNew(ctx context.Context, cmd *cobra.Command, deps *Dependencies, opts *newOptions, arg string) error {
	settings, err := loadSettings(cmd, opts)
	if err != nil {
		return err
	}
	if settings.Verbose {
		deps.EnableVerbose()
	}
	logger := deps.Logger

	cwd, err := deps.Getwd()
	if err != nil {
		return errors.Wrap(err, "get working directory")
	}
	path := models.NormalizeName(arg)
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}
	path = filepath.Clean(path)
	if _, err := os.Stat(path); err == nil {
		return errors.WithHint(errors.Wrapf(ErrTargetExists, "%s", arg), "choose another project name or remove the directory")
	}

	headless := deps.Headless.IsHeadless()
	theme := ui.NewTheme(ui.ThemeConfig{NoColor: headless})
	reporter := ui.NewReporter(theme, deps.Headless, deps.Out)
	if !headless {
		_, _ = fmt.Fprintln(deps.Out, theme.Title.Render(banner))
	}

	answers, err := collectAnswers(cmd.Flags(), deps, opts, settings, headless)
	if err != nil {
		return err
	}
	cfg := models.ProjectConfig{
		Name:        filepath.Base(path),
		Path:        path,
		SkipInstall: opts.skipInstall,
		Answers:     answers,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Debug("project configuration", "name", cfg.Name, "path", cfg.Path, "orm", cfg.EffectiveORM(), "skip_install", cfg.SkipInstall)

	reporter.Info(fmt.Sprintf("\n📁 Creating project: %s\n", cfg.Name))
	if err := os.MkdirAll(path, 0o755); err != nil {
		return errors.Wrap(err, "create project directory")
	}
	set, err := generator.Run(cfg, generator.Pipeline()...)
	if err != nil {
		return err
	}
	written, err := materializer.Apply(path, set)
	if err != nil {
		return err
	}
	logger.Debug("project structure written", "files", len(written))
	reporter.Success("Project structure created!")

	orch := orchestrator.New(cfg, deps.Executor, orchestrator.Options{
		Format:         settings.Format,
		Git:            settings.Git,
		InstallRetries: settings.InstallRetries,
		Timeouts: orchestrator.Timeouts{
			Install: settings.Timeouts.Install,
			Prisma:  settings.Timeouts.Prisma,
			Format:  settings.Timeouts.Format,
		},
	}, logger)

	var manual []string
	if cfg.SkipInstall {
		manual, err = skippedInstall(reporter, orch, cfg)
		if err != nil {
			return err
		}
	}

	report, err := orchestrator.Sequence{Steps: orch.Steps(), Observer: reporter, Logger: logger}.Run(ctx)
	if err != nil {
		return errors.WithHintf(err, "the generated files are left in %s", path)
	}

	cmds, err := generator.ResolveCommands(cfg.Answers.PackageManager)
	if err != nil {
		return err
	}
	return ui.RenderSummary(deps.Out, ui.Summary{
		Config:        cfg,
		Commands:      cmds,
		Dir:           arg,
		ManualInstall: manual,
		Warnings:      report.Warnings(),
	}, deps.Headless)
}

// loadSettings merges the settings file, environment and flags.
func loadSettings(cmd *cobra.Command, opts *newOptions) (config.Settings, error) {
	file, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return config.Settings{}, err
	}
	loader := config.NewLoader(file)
	if err := loader.BindFlag(config.KeyPackageManager, cmd.Flags().Lookup(wizard.QuestionPackageManager)); err != nil {
		return config.Settings{}, err
	}
	if err := loader.BindFlag(config.KeyVerbose, cmd.Flags().Lookup(flagVerbose)); err != nil {
		return config.Settings{}, err
	}
	if cmd.Flags().Changed(flagNoFormat) {
		loader.Override(config.KeyFormat, !opts.noFormat)
	}
	if cmd.Flags().Changed(flagNoGit) {
		loader.Override(config.KeyGit, !opts.noGit)
	}
	return loader.Load()
}

// collectAnswers starts from the defaults, applies explicitly set flags and
// asks the remaining questions unless --yes was given.
func collectAnswers(flags *pflag.FlagSet, deps *Dependencies, opts *newOptions, settings config.Settings, headless bool) (models.ProjectAnswers, error) {
	a := wizard.DefaultAnswers(settings.PackageManager)
	answered := map[string]bool{}
	changed := func(name string) bool {
		if flags.Changed(name) {
			answered[name] = true
			return true
		}
		return false
	}

	if changed(wizard.QuestionPackageManager) {
		a.PackageManager = settings.PackageManager
	}
	if changed(wizard.QuestionDescription) {
		a.Description = opts.description
	}
	if changed(wizard.QuestionAuthor) {
		a.Author = opts.author
	}
	if changed(wizard.QuestionDocker) {
		a.UseDocker = opts.docker
	}
	if changed(wizard.QuestionDatabase) {
		a.Database = models.Database(lo.Ternary(opts.database == "none", "", opts.database))
	}
	if changed(wizard.QuestionORM) {
		a.ORM = models.ORM(opts.orm)
	}
	if changed(wizard.QuestionAuth) {
		a.UseAuth = opts.auth
	}
	if changed(wizard.QuestionAuthStrategy) {
		a.UseAuth = true
		a.AuthStrategies = lo.Uniq(opts.authStrategies)
		answered[wizard.QuestionAuth] = true
	}
	if a.UseAuth && len(a.AuthStrategies) == 0 {
		a.AuthStrategies = []string{models.AuthStrategyJWT}
		answered[wizard.QuestionAuthStrategy] = true
	}
	if changed(wizard.QuestionSwagger) {
		a.UseSwagger = opts.swagger
	}
	if changed(wizard.QuestionGraphQL) {
		a.UseGraphQL = opts.graphql
	}
	if changed(wizard.QuestionGitHubActions) {
		a.UseGitHubActions = opts.githubActions
	}

	if opts.yes {
		return a, nil
	}
	questions := wizard.Without(wizard.DefaultQuestions(a), answered)
	if len(questions) == 0 {
		return a, nil
	}
	a, err := deps.Ask(questions, a, wizard.Options{Accessible: headless})
	if errors.Is(err, wizard.ErrCancelled) {
		return a, errors.WithHint(err, "pass --yes to accept the defaults without prompting")
	}
	return a, err
}

// skippedInstall prints what --skip-install leaves undone and returns the
// install commands to run by hand.
func skippedInstall(reporter *ui.Reporter, orch *orchestrator.Orchestrator, cfg models.ProjectConfig) ([]string, error) {
	reporter.Warn("Dependencies not installed (--skip-install flag used)")
	reporter.Warn("Code formatting skipped (requires dependencies)")
	if cfg.UsesPrisma() {
		reporter.Warn("Prisma setup skipped (requires dependencies)")
	}
	if cfg.AuthEnabled() {
		reporter.Warn("Authentication module skipped (requires dependencies)")
	}
	cmds, err := orch.RecoveryCommands()
	if err != nil {
		return nil, err
	}
	// The summary prints its own cd step.
	return cmds[1:], nil
}
