package orchestrator

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/nestify-dev/nestify/internal/generator"
	"github.com/nestify-dev/nestify/internal/materializer"
	"github.com/nestify-dev/nestify/internal/resilience"
	"github.com/nestify-dev/nestify/internal/toolrunner"
	"github.com/nestify-dev/nestify/internal/variant"
	"github.com/nestify-dev/nestify/pkg/models"
)

// Sentinel errors reported by the steps.
var (
	ErrInstallFailed    = errors.New("orchestrator: dependency install failed")
	ErrSchemaMissing    = errors.New("orchestrator: prisma/schema.prisma was not created")
	ErrUnsupportedNode  = errors.New("orchestrator: unsupported Node.js version")
	ErrManagerNotOnPath = errors.New("orchestrator: package manager not found on PATH")
	ErrPrismaBootstrap  = errors.New("orchestrator: prisma bootstrap failed")
	ErrFormatFailed     = errors.New("orchestrator: formatting failed")
	ErrRepositoryInit   = errors.New("orchestrator: repository initialization failed")

	// ErrTransientInstall marks install failures caused by the network.
	ErrTransientInstall = errors.New("orchestrator: transient network failure during install")
)

// MinNodeVersion is the oldest Node.js release the generated project supports.
const MinNodeVersion = ">= 18"

// schemaPath is where prisma init writes the schema, relative to the root.
const schemaPath = "prisma/schema.prisma"

// Timeouts bounds each external command.
type Timeouts struct {
	Install time.Duration
	Prisma  time.Duration
	Format  time.Duration
}

// DefaultTimeouts returns the install, Prisma and format limits.
func DefaultTimeouts() Timeouts {
	return Timeouts{Install: 5 * time.Minute, Prisma: 2 * time.Minute, Format: 2 * time.Minute}
}

// DefaultRetryDelay is the wait before the first install retry.
const DefaultRetryDelay = 2 * time.Second

// Options toggles the optional trailing steps.
type Options struct {
	Format   bool
	Git      bool
	Timeouts Timeouts

	// InstallRetries is how often an install batch is repeated after a
	// transient network failure.
	InstallRetries int
	// RetryDelay is the first backoff delay; zero means DefaultRetryDelay.
	RetryDelay time.Duration
}

// Orchestrator builds the post-generation steps for one project.
type Orchestrator struct {
	cfg    models.ProjectConfig
	exec   toolrunner.Executor
	opts   Options
	logger *slog.Logger

	// wired tracks the post-install modules written so far. The entry files
	// never import a module that is not on disk.
	wired generator.Wiring
}

// New returns an Orchestrator for cfg. Zero timeouts fall back to defaults.
func New(cfg models.ProjectConfig, exec toolrunner.Executor, opts Options, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	def := DefaultTimeouts()
	if opts.Timeouts.Install <= 0 {
		opts.Timeouts.Install = def.Install
	}
	if opts.Timeouts.Prisma <= 0 {
		opts.Timeouts.Prisma = def.Prisma
	}
	if opts.Timeouts.Format <= 0 {
		opts.Timeouts.Format = def.Format
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	return &Orchestrator{cfg: cfg, exec: exec, opts: opts, logger: logger}
}

// @MX:ANCHOR: [AUTO] Ordering of post-generation side effects.
// @MX:REASON: Auth files import installed packages; formatting needs the formatter installed; git stages the final tree.
// Steps returns the ordered steps for the configuration. With SkipInstall
// only repository initialization remains.
func (o *Orchestrator) Steps() []Step {
	var steps []Step
	if o.cfg.PostInstall() {
		steps = append(steps,
			Step{Name: "preflight", Title: "Checking toolchain", Policy: BestEffort, Run: o.Preflight},
			Step{Name: "install", Title: "Installing dependencies", Policy: Fatal, Run: o.Install},
		)
		if o.cfg.UsesPrisma() {
			steps = append(steps, Step{Name: "prisma", Title: "Setting up Prisma", Policy: Fatal, Run: o.BootstrapPrisma})
		}
		if o.cfg.AuthEnabled() {
			steps = append(steps, Step{Name: "auth", Title: "Generating authentication module", Policy: Fatal, Run: o.ScaffoldAuth})
		}
		if o.opts.Format {
			steps = append(steps, Step{Name: "format", Title: "Formatting code", Policy: BestEffort, Run: o.Format})
		}
	}
	if o.opts.Git {
		steps = append(steps, Step{Name: "git", Title: "Initializing Git repository", Policy: BestEffort, Run: o.InitRepository})
	}
	return steps
}

// InstallCommands returns the runtime and dev install lines.
func (o *Orchestrator) InstallCommands() (runtime, dev string, err error) {
	pm := o.cfg.Answers.PackageManager
	deps, err := variant.Dependencies(o.cfg)
	if err != nil {
		return "", "", err
	}
	if runtime, err = variant.InstallCommand(pm, deps, false); err != nil {
		return "", "", err
	}
	if dev, err = variant.InstallCommand(pm, variant.DevDependencies(o.cfg), true); err != nil {
		return "", "", err
	}
	return runtime, dev, nil
}

// RecoveryCommands lists the literal commands that finish an install by hand.
func (o *Orchestrator) RecoveryCommands() ([]string, error) {
	runtime, dev, err := o.InstallCommands()
	if err != nil {
		return nil, err
	}
	return []string{"cd " + shellescape.Quote(o.cfg.Path), runtime, dev}, nil
}

// Preflight checks the package manager is on PATH and that Node.js satisfies
// MinNodeVersion. Failures are warnings: the install step reports the real
// problem if there is one.
func (o *Orchestrator) Preflight(ctx context.Context) error {
	pm := string(o.cfg.Answers.PackageManager)
	if _, err := o.exec.LookPath(pm); err != nil {
		return errors.WithHintf(errors.Mark(err, ErrManagerNotOnPath), "install %s or pick another package manager with --package-manager", pm)
	}

	res, err := o.exec.Run(ctx, o.cfg.Path, "node --version", 30*time.Second)
	if err != nil {
		return errors.Wrap(err, "detect Node.js version")
	}
	raw := strings.TrimSpace(res.Stdout)
	v, err := semver.NewVersion(raw)
	if err != nil {
		return errors.Wrapf(err, "parse Node.js version %q", raw)
	}
	c, err := semver.NewConstraint(MinNodeVersion)
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return errors.WithHintf(errors.Wrapf(ErrUnsupportedNode, "found %s", v), "the generated project needs Node.js %s", MinNodeVersion)
	}
	return nil
}

// Install runs the runtime batch and then the dev batch. Stderr carrying the
// package manager's fatal markers fails the step even on exit code zero.
// A batch that failed on the network is repeated up to InstallRetries times.
func (o *Orchestrator) Install(ctx context.Context) error {
	runtime, dev, err := o.InstallCommands()
	if err != nil {
		return err
	}

	policy := resilience.RetryPolicy{
		MaxRetries:      o.opts.InstallRetries,
		BaseDelay:       o.opts.RetryDelay,
		MaxDelay:        8 * o.opts.RetryDelay,
		UseJitter:       true,
		RetryableErrors: []error{ErrTransientInstall},
		OnRetry: func(attempt int, err error, delay time.Duration) {
			o.logger.Warn("retrying install", "attempt", attempt, "delay", delay, "error", err)
		},
	}
	for _, line := range []string{runtime, dev} {
		if err := resilience.Retry(ctx, policy, func() error { return o.installBatch(ctx, line) }); err != nil {
			return o.withRecoveryHints(err)
		}
	}
	return nil
}

func (o *Orchestrator) installBatch(ctx context.Context, line string) error {
	pm := o.cfg.Answers.PackageManager
	res, runErr := o.exec.Run(ctx, o.cfg.Path, line, o.opts.Timeouts.Install)

	var err error
	switch {
	case runErr != nil:
		err = errors.Mark(errors.Wrapf(runErr, "%s", firstWords(line)), ErrInstallFailed)
	case variant.HasHardError(pm, res.Stderr):
		err = errors.Wrapf(ErrInstallFailed, "%s reported errors: %s", firstWords(line), lastLine(res.Stderr))
	default:
		o.logger.Debug("install batch finished", "command", firstWords(line), "duration", res.Duration)
		return nil
	}
	if res != nil && variant.IsTransientFailure(res.Stderr) {
		err = errors.Mark(err, ErrTransientInstall)
	}
	return err
}

func (o *Orchestrator) withRecoveryHints(err error) error {
	cmds, cmdErr := o.RecoveryCommands()
	if cmdErr != nil {
		return err
	}
	err = errors.WithHint(err, "Install the dependencies manually:")
	for _, c := range cmds {
		err = errors.WithHint(err, "  "+c)
	}
	return err
}

// BootstrapPrisma initializes Prisma, patches the schema, generates the client
// and writes the Prisma client module.
func (o *Orchestrator) BootstrapPrisma(ctx context.Context) error {
	a := o.cfg.Answers
	provider, err := variant.PrismaProvider(a.Database)
	if err != nil {
		return err
	}
	initLine, err := variant.ExecCommand(a.PackageManager, "prisma", "init", "--datasource-provider", provider)
	if err != nil {
		return err
	}
	if _, err := o.exec.Run(ctx, o.cfg.Path, initLine, o.opts.Timeouts.Prisma); err != nil {
		return errors.Mark(errors.Wrap(err, "prisma init"), ErrPrismaBootstrap)
	}

	raw, err := os.ReadFile(filepath.Join(o.cfg.Path, filepath.FromSlash(schemaPath)))
	if errors.Is(err, os.ErrNotExist) {
		return errors.WithHint(ErrSchemaMissing, "run prisma init in the project directory and re-run the migration commands from README.md")
	}
	if err != nil {
		return errors.Wrap(err, "read prisma schema")
	}
	patched, err := variant.PatchPrismaSchema(string(raw), a.Database, o.cfg.AuthEnabled())
	if err != nil {
		return err
	}
	if _, err := materializer.Apply(o.cfg.Path, generator.FileSet{Files: map[string]string{schemaPath: patched}}); err != nil {
		return err
	}

	generateLine, err := variant.ExecCommand(a.PackageManager, "prisma", "generate")
	if err != nil {
		return err
	}
	if _, err := o.exec.Run(ctx, o.cfg.Path, generateLine, o.opts.Timeouts.Prisma); err != nil {
		return errors.Mark(errors.Wrap(err, "prisma generate"), ErrPrismaBootstrap)
	}

	if err := o.materialize(generator.Generator{Name: "prisma-client", Run: generator.PrismaClient}); err != nil {
		return err
	}
	o.wired.Prisma = true
	return o.rewire()
}

// ScaffoldAuth writes the authentication module and registers it in the
// application root.
func (o *Orchestrator) ScaffoldAuth(context.Context) error {
	if err := o.materialize(generator.Generator{Name: "auth", Run: generator.Auth}); err != nil {
		return err
	}
	o.wired.Auth = true
	return o.rewire()
}

// rewire rewrites the entry files for the modules written so far.
func (o *Orchestrator) rewire() error {
	w := o.wired
	return o.materialize(generator.Generator{Name: "app-root", Run: func(cfg models.ProjectConfig) (generator.FileSet, error) {
		return generator.AppRoot(cfg, w)
	}})
}

func (o *Orchestrator) materialize(g generator.Generator) error {
	set, err := generator.Run(o.cfg, g)
	if err != nil {
		return err
	}
	written, err := materializer.Apply(o.cfg.Path, set)
	if err != nil {
		return err
	}
	o.logger.Debug("files written", "generator", g.Name, "count", len(written))
	return nil
}

// Format runs the project's format script.
func (o *Orchestrator) Format(ctx context.Context) error {
	line, err := variant.RunCommand(o.cfg.Answers.PackageManager, "format")
	if err != nil {
		return err
	}
	if _, err := o.exec.Run(ctx, o.cfg.Path, line, o.opts.Timeouts.Format); err != nil {
		return errors.WithHintf(errors.Mark(err, ErrFormatFailed), "run %s later to format the sources", line)
	}
	return nil
}

// InitRepository creates a Git repository and stages every file not excluded
// by .gitignore. No commit is made.
func (o *Orchestrator) InitRepository(context.Context) error {
	repo, err := git.PlainInit(o.cfg.Path, false)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "git init"), ErrRepositoryInit)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return errors.Mark(errors.Wrap(err, "open worktree"), ErrRepositoryInit)
	}
	patterns, err := gitignore.ReadPatterns(wt.Filesystem, nil)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "read .gitignore"), ErrRepositoryInit)
	}
	wt.Excludes = append(wt.Excludes, patterns...)
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return errors.Mark(errors.Wrap(err, "stage files"), ErrRepositoryInit)
	}
	return nil
}

// firstWords shortens a long install line for messages.
func firstWords(line string) string {
	fields := strings.Fields(line)
	if len(fields) <= 3 {
		return line
	}
	return strings.Join(fields[:3], " ") + " ..."
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
