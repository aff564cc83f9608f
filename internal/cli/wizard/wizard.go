package wizard

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"

	"github.com/nestify-dev/nestify/internal/ui"
	"github.com/nestify-dev/nestify/pkg/models"
)

// Options adjusts how forms are run.
type Options struct {
	// Accessible runs every prompt in huh's line-based mode, used when the
	// terminal cannot host the full-screen forms.
	Accessible bool
	Input      io.Reader
	Output     io.Writer
}

// Run asks each question in turn, starting from answers, and returns the
// completed answers. Each question runs as its own huh.Form so conditions
// see the answers given so far and the huh v0.8.x YOffset scroll bug of
// multi-group viewports never triggers.
func Run(questions []Question, answers models.ProjectAnswers, opts Options) (models.ProjectAnswers, error) {
	if len(questions) == 0 {
		return answers, ErrNoQuestions
	}

	theme := newNestifyTheme()
	for i := range questions {
		q := &questions[i]
		if q.Condition != nil && !q.Condition(&answers) {
			continue
		}

		field, value := buildField(q)
		form := huh.NewForm(huh.NewGroup(field)).
			WithTheme(theme).
			WithAccessible(opts.Accessible)
		if opts.Input != nil {
			form = form.WithInput(opts.Input)
		}
		if opts.Output != nil {
			form = form.WithOutput(opts.Output)
		}

		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return answers, ErrCancelled
			}
			return answers, errors.Wrap(err, "wizard error")
		}
		if err := saveAnswer(q.ID, value(), &answers); err != nil {
			return answers, err
		}
	}
	return answers, nil
}

// buildField creates the huh field for q and a getter for its final value
// in string form.
func buildField(q *Question) (huh.Field, func() string) {
	switch q.Type {
	case QuestionTypeConfirm:
		v := q.Default == "true"
		c := huh.NewConfirm().
			Title(q.Title).
			Description(q.Description).
			Affirmative("Yes").
			Negative("No").
			Value(&v)
		return c, func() string { return strconv.FormatBool(v) }

	case QuestionTypeInput:
		v := q.Default
		inp := huh.NewInput().
			Title(q.Title).
			Description(q.Description).
			Value(&v)
		if q.Default != "" {
			inp = inp.Placeholder(q.Default)
		}
		return inp, func() string { return strings.TrimSpace(v) }

	default:
		v := q.Default
		opts := orderedOptions(q)
		hopts := make([]huh.Option[string], len(opts))
		for i, opt := range opts {
			key := opt.Label
			if opt.Desc != "" {
				key = opt.Label + " - " + opt.Desc
			}
			hopts[i] = huh.NewOption(key, opt.Value)
		}
		sel := huh.NewSelect[string]().
			Title(q.Title).
			Description(q.Description).
			Options(hopts...).
			Value(&v)
		return sel, func() string { return v }
	}
}

// saveAnswer stores a string-form answer on a.
func saveAnswer(id, value string, a *models.ProjectAnswers) error {
	switch id {
	case QuestionPackageManager:
		a.PackageManager = models.PackageManager(value)
	case QuestionDescription:
		a.Description = value
	case QuestionAuthor:
		a.Author = value
	case QuestionDocker:
		a.UseDocker = value == "true"
	case QuestionDatabase:
		a.Database = models.Database(fromEnumValue(value))
		if a.Database == models.DatabaseNone {
			a.ORM, a.UseAuth, a.AuthStrategies = models.ORMNone, false, nil
		}
	case QuestionORM:
		a.ORM = models.ORM(fromEnumValue(value))
	case QuestionAuth:
		a.UseAuth = value == "true"
		if !a.UseAuth {
			a.AuthStrategies = nil
		}
	case QuestionAuthStrategy:
		a.AuthStrategies = []string{value}
	case QuestionSwagger:
		a.UseSwagger = value == "true"
	case QuestionGraphQL:
		a.UseGraphQL = value == "true"
	case QuestionGitHubActions:
		a.UseGitHubActions = value == "true"
	default:
		return errors.Wrapf(ErrUnknownQuestion, "%q", id)
	}
	return nil
}

func fromEnumValue(v string) string {
	if v == noneValue {
		return ""
	}
	return v
}

// newNestifyTheme creates a huh.Theme in the nestify palette.
func newNestifyTheme() *huh.Theme {
	t := huh.ThemeBase()

	primary := lipgloss.AdaptiveColor{Light: "#B71C3C", Dark: ui.ColorPrimary}
	secondary := lipgloss.AdaptiveColor{Light: "#C2185B", Dark: ui.ColorSecondary}
	green := lipgloss.AdaptiveColor{Light: "#059669", Dark: ui.ColorSuccess}
	red := lipgloss.AdaptiveColor{Light: "#DC2626", Dark: ui.ColorError}
	text := lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F3F4F6"}
	muted := lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: ui.ColorMuted}
	border := lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"}

	t.Focused.Base = t.Focused.Base.BorderForeground(border)
	t.Focused.Card = t.Focused.Base
	t.Focused.Title = t.Focused.Title.Foreground(primary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(muted)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(red)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(red)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(primary).SetString("▸ ")
	t.Focused.Option = t.Focused.Option.Foreground(text)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(green)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(primary)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(muted)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(secondary)
	t.Focused.FocusedButton = t.Focused.FocusedButton.
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}).
		Background(primary)
	t.Focused.BlurredButton = t.Focused.BlurredButton.
		Foreground(text).
		Background(lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#374151"})
	t.Focused.Next = t.Focused.FocusedButton

	t.Blurred = t.Focused
	t.Blurred.Base = t.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	t.Blurred.Card = t.Blurred.Base

	t.Group.Title = t.Focused.Title
	t.Group.Description = t.Focused.Description
	return t
}
