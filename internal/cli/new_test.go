package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"

	"github.com/nestify-dev/nestify/internal/cli/wizard"
	"github.com/nestify-dev/nestify/internal/orchestrator"
	"github.com/nestify-dev/nestify/internal/toolrunner"
	"github.com/nestify-dev/nestify/internal/ui"
	"github.com/nestify-dev/nestify/pkg/models"
)

// recordingExecutor records the lines it saw. It succeeds every command
// except those starting with fail.
type recordingExecutor struct {
	mu    sync.Mutex
	lines []string
	fail  string
}

func (e *recordingExecutor) Run(_ context.Context, dir, line string, _ time.Duration) (*toolrunner.CommandResult, error) {
	e.mu.Lock()
	e.lines = append(e.lines, line)
	e.mu.Unlock()

	res := &toolrunner.CommandResult{Line: line}
	switch {
	case e.fail != "" && strings.HasPrefix(line, e.fail):
		res.ExitCode = 1
		res.Stderr = "npm ERR! code E404\n"
		return res, errors.Mark(errors.Newf("%s: exit status 1", line), toolrunner.ErrCommandFailed)
	case line == "node --version":
		res.Stdout = "v20.11.1\n"
	case strings.Contains(line, "prisma init"):
		schema := "generator client {\n  provider = \"prisma-client-js\"\n}\n\ndatasource db {\n  provider = \"postgresql\"\n  url      = env(\"DATABASE_URL\")\n}\n"
		if err := os.MkdirAll(filepath.Join(dir, "prisma"), 0o755); err != nil {
			return res, err
		}
		if err := os.WriteFile(filepath.Join(dir, "prisma", "schema.prisma"), []byte(schema), 0o644); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (e *recordingExecutor) LookPath(name string) (string, error) {
	return "/usr/bin/" + name, nil
}

type harness struct {
	dir  string
	exec *recordingExecutor
	out  bytes.Buffer
	err  bytes.Buffer
	deps *Dependencies
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{dir: t.TempDir(), exec: &recordingExecutor{}}
	hm := ui.NewHeadlessManager()
	hm.ForceHeadless(true)
	h.deps = &Dependencies{
		Executor: h.exec,
		Headless: hm,
		Ask: func([]wizard.Question, models.ProjectAnswers, wizard.Options) (models.ProjectAnswers, error) {
			t.Error("questionnaire should not run")
			return models.ProjectAnswers{}, nil
		},
		Getwd:  func() (string, error) { return h.dir, nil },
		Out:    &h.out,
		Err:    &h.err,
		Logger: NewDependencies().Logger,
	}
	return h
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	root := NewRootCommand(h.deps)
	root.SetArgs(append(args, "--config", filepath.Join(h.dir, "no-settings.yaml")))
	return root.ExecuteContext(context.Background())
}

func (h *harness) exists(t *testing.T, rel string) bool {
	t.Helper()
	_, err := os.Stat(filepath.Join(h.dir, filepath.FromSlash(rel)))
	return err == nil
}

func TestNewSkipInstall(t *testing.T) {
	h := newHarness(t)
	if err := h.run(t, "new", "shop-api", "--yes", "--skip-install", "--no-git"); err != nil {
		t.Fatalf("new error: %v\nstderr: %s", err, h.err.String())
	}

	for _, rel := range []string{"shop-api/package.json", "shop-api/src/main.ts", "shop-api/.env", "shop-api/.github/workflows/tests.yml"} {
		if !h.exists(t, rel) {
			t.Errorf("%s not written", rel)
		}
	}
	if h.exists(t, "shop-api/.git") {
		t.Error("--no-git still initialized a repository")
	}
	if len(h.exec.lines) != 0 {
		t.Errorf("skip-install ran commands: %v", h.exec.lines)
	}

	out := h.out.String()
	for _, want := range []string{
		"Dependencies not installed (--skip-install flag used)",
		"1. cd shop-api",
		"2. npm install @nestjs/common",
		"npm run start:dev",
		ui.SwaggerURL,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNewFullRun(t *testing.T) {
	h := newHarness(t)
	err := h.run(t, "new", "orders",
		"--yes", "-p", "pnpm", "--database", "postgres", "--orm", "prisma", "--auth", "--docker")
	if err != nil {
		t.Fatalf("new error: %v\nstderr: %s", err, h.err.String())
	}

	var got []string
	for _, l := range h.exec.lines {
		got = append(got, strings.Join(strings.Fields(l)[:2], " "))
	}
	want := []string{"node --version", "pnpm add", "pnpm add", "pnpm prisma", "pnpm prisma", "pnpm run"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("command sequence mismatch (-want +got):\n%s", diff)
	}

	for _, rel := range []string{
		"orders/docker-compose.yml",
		"orders/src/prisma/prisma.service.ts",
		"orders/src/modules/auth/auth.module.ts",
		"orders/.git",
	} {
		if !h.exists(t, rel) {
			t.Errorf("%s not written", rel)
		}
	}
	schema, err := os.ReadFile(filepath.Join(h.dir, "orders", "prisma", "schema.prisma"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(schema), "model User") {
		t.Error("schema not patched with the auth model")
	}
	module, err := os.ReadFile(filepath.Join(h.dir, "orders", "src", "app.module.ts"))
	if err != nil {
		t.Fatal(err)
	}
	for _, ref := range []string{"PrismaModule", "AuthModule", "UserModule"} {
		if !strings.Contains(string(module), ref) {
			t.Errorf("app.module.ts missing %s after a full run", ref)
		}
	}
	if !strings.Contains(h.out.String(), "docker-compose up") {
		t.Errorf("summary missing docker step:\n%s", h.out.String())
	}
}

func TestNewInstallFailureKeepsImportsResolvable(t *testing.T) {
	h := newHarness(t)
	h.exec.fail = "npm install"
	err := h.run(t, "new", "billing", "--yes", "--no-git", "--database", "postgres", "--orm", "prisma", "--auth")
	if !errors.Is(err, orchestrator.ErrInstallFailed) {
		t.Fatalf("error = %v, want ErrInstallFailed", err)
	}
	if hints := strings.Join(errors.GetAllHints(err), "\n"); !strings.Contains(hints, "npm install") {
		t.Errorf("hints missing the install commands:\n%s", hints)
	}

	src := filepath.Join(h.dir, "billing", "src")
	for _, file := range []string{"app.module.ts", "main.ts"} {
		raw, err := os.ReadFile(filepath.Join(src, file))
		if err != nil {
			t.Fatal(err)
		}
		for _, ref := range relativeImports(string(raw)) {
			if _, err := os.Stat(filepath.Join(src, filepath.FromSlash(ref)+".ts")); err != nil {
				t.Errorf("%s imports %s, which was never written", file, ref)
			}
		}
	}
}

// relativeImports returns the './...' module paths imported by a TypeScript
// source.
func relativeImports(src string) []string {
	var refs []string
	for _, line := range strings.Split(src, "\n") {
		_, rest, ok := strings.Cut(line, "from './")
		if !ok {
			continue
		}
		ref, _, _ := strings.Cut(rest, "'")
		refs = append(refs, ref)
	}
	return refs
}

func TestNewTargetExists(t *testing.T) {
	h := newHarness(t)
	if err := os.Mkdir(filepath.Join(h.dir, "taken"), 0o755); err != nil {
		t.Fatal(err)
	}
	err := h.run(t, "new", "taken", "--yes")
	if !errors.Is(err, ErrTargetExists) {
		t.Fatalf("error = %v, want ErrTargetExists", err)
	}
	if len(errors.GetAllHints(err)) == 0 {
		t.Error("missing hint")
	}
}

func TestNewInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"auth_without_database", []string{"--auth"}, models.ErrAuthRequiresDatabase},
		{"unknown_database", []string{"--database", "sqlite"}, models.ErrInvalidDatabase},
		{"bad_name", []string{}, models.ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			name := "valid-name"
			if tt.name == "bad_name" {
				name = "Bad Name"
			}
			err := h.run(t, append([]string{"new", name, "--yes", "--skip-install"}, tt.args...)...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if h.exists(t, name) {
				t.Error("project directory created for an invalid configuration")
			}
		})
	}
}

func TestNewAsksUnansweredQuestions(t *testing.T) {
	h := newHarness(t)
	var asked []string
	h.deps.Ask = func(qs []wizard.Question, a models.ProjectAnswers, opts wizard.Options) (models.ProjectAnswers, error) {
		for _, q := range qs {
			asked = append(asked, q.ID)
		}
		if !opts.Accessible {
			t.Error("headless run should use accessible forms")
		}
		a.Author = "Jane"
		return a, nil
	}
	if err := h.run(t, "new", "asked", "--skip-install", "--no-git", "--database", "mysql", "-p", "yarn"); err != nil {
		t.Fatalf("new error: %v", err)
	}
	if slices.Contains(asked, wizard.QuestionDatabase) || slices.Contains(asked, wizard.QuestionPackageManager) {
		t.Errorf("flag-answered questions asked again: %v", asked)
	}
	if !slices.Contains(asked, wizard.QuestionAuthor) {
		t.Errorf("author not asked: %v", asked)
	}
	raw, err := os.ReadFile(filepath.Join(h.dir, "asked", "package.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"author": "Jane"`) {
		t.Errorf("answer not applied:\n%s", raw)
	}
}

func TestNewWizardCancelled(t *testing.T) {
	h := newHarness(t)
	h.deps.Ask = func([]wizard.Question, models.ProjectAnswers, wizard.Options) (models.ProjectAnswers, error) {
		return models.ProjectAnswers{}, wizard.ErrCancelled
	}
	err := h.run(t, "new", "cancelled")
	if !errors.Is(err, wizard.ErrCancelled) {
		t.Fatalf("error = %v, want ErrCancelled", err)
	}
	if h.exists(t, "cancelled") {
		t.Error("directory created after cancel")
	}
}

func TestGenerateAndVersion(t *testing.T) {
	h := newHarness(t)
	if err := h.run(t, "g", "module", "users"); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if !strings.Contains(h.out.String(), "npx nest g module users") {
		t.Errorf("generate output = %q", h.out.String())
	}

	h.out.Reset()
	if err := h.run(t, "version"); err != nil {
		t.Fatalf("version error: %v", err)
	}
	if !strings.HasPrefix(h.out.String(), "nestify ") {
		t.Errorf("version output = %q", h.out.String())
	}
}

func TestPrintErrorIncludesHints(t *testing.T) {
	var buf bytes.Buffer
	err := errors.WithHint(errors.New("install failed"), "run npm install by hand")
	printError(&buf, ui.NewTheme(ui.ThemeConfig{NoColor: true}), err)
	want := "✖ Error: install failed\nrun npm install by hand\n"
	if got := buf.String(); got != want {
		t.Errorf("printError = %q, want %q", got, want)
	}
}
