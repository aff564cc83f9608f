// Package cli provides the Cobra command tree and the composition root that
// wires nestify's components together.
package cli

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nestify-dev/nestify/internal/cli/wizard"
	"github.com/nestify-dev/nestify/internal/toolrunner"
	"github.com/nestify-dev/nestify/internal/ui"
	"github.com/nestify-dev/nestify/pkg/models"
)

// AskFunc runs the questionnaire. Tests replace it to script answers.
type AskFunc func(questions []wizard.Question, answers models.ProjectAnswers, opts wizard.Options) (models.ProjectAnswers, error)

// Dependencies holds everything the commands touch outside the process.
// This is the Composition Root: the only place where concrete types are
// instantiated.
type Dependencies struct {
	Executor toolrunner.Executor
	Headless *ui.HeadlessManager
	Ask      AskFunc
	Getwd    func() (string, error)
	Out      io.Writer
	Err      io.Writer
	Logger   *slog.Logger
}

// @MX:ANCHOR: [AUTO] NewDependencies is the Composition Root for the production binary.
// @MX:REASON: [AUTO] Tests build Dependencies by hand; everything else goes through here.
// NewDependencies wires the real executor, terminal and questionnaire.
func NewDependencies() *Dependencies {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Dependencies{
		Executor: toolrunner.New(logger),
		Headless: ui.NewHeadlessManager(),
		Ask:      wizard.Run,
		Getwd:    os.Getwd,
		Out:      os.Stdout,
		Err:      os.Stderr,
		Logger:   logger,
	}
}

// EnableVerbose routes debug logs to the error stream through a
// charmbracelet/log handler.
func (d *Dependencies) EnableVerbose() {
	handler := log.NewWithOptions(d.Err, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "nestify",
	})
	d.Logger = slog.New(handler)
	if _, ok := d.Executor.(*toolrunner.Runner); ok {
		d.Executor = toolrunner.New(d.Logger)
	}
}
