package ui

import (
	"fmt"
	"io"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/charmbracelet/glamour"

	"github.com/nestify-dev/nestify/internal/generator"
	"github.com/nestify-dev/nestify/internal/orchestrator"
	"github.com/nestify-dev/nestify/pkg/models"
)

// SwaggerURL is where the generated application serves its API docs.
const SwaggerURL = "http://localhost:3000/api/docs"

// Summary describes the closing message of a successful run.
type Summary struct {
	Config   models.ProjectConfig
	Commands generator.Commands
	// Dir is the directory to cd into, as the user typed it. Empty skips the step.
	Dir string
	// ManualInstall lists install lines still to be run by hand.
	ManualInstall []string
	Warnings      []orchestrator.Outcome
}

// Markdown renders the summary as a markdown document.
func (s Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("# ✅ Project created successfully!\n\n")
	b.WriteString("## Next steps\n\n")

	n := 0
	step := func(format string, args ...any) {
		n++
		fmt.Fprintf(&b, "%d. "+format+"\n", append([]any{n}, args...)...)
	}
	if s.Dir != "" {
		step("`cd %s`", shellescape.Quote(s.Dir))
	}
	for _, line := range s.ManualInstall {
		step("`%s`", line)
	}
	if s.Config.Answers.UseDocker && s.Config.Answers.Database != models.DatabaseNone {
		step("`docker-compose up` or `%s`", s.Commands.StartDev)
	} else {
		step("`%s`", s.Commands.StartDev)
	}

	a := s.Config.Answers
	if a.UseSwagger {
		fmt.Fprintf(&b, "\n📚 Swagger documentation will be available at %s\n", SwaggerURL)
	}
	if a.UseGitHubActions {
		b.WriteString("\n🚀 GitHub Actions workflow added: `.github/workflows/tests.yml`\n")
	}

	if len(s.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range s.Warnings {
			fmt.Fprintf(&b, "- %s: %v\n", w.Name, w.Err)
		}
	}

	b.WriteString("\n🎉 Happy coding!\n")
	return b.String()
}

// RenderSummary writes s to w, styled with glamour on a terminal and as
// plain text otherwise.
func RenderSummary(w io.Writer, s Summary, hm *HeadlessManager) error {
	md := s.Markdown()
	if hm.IsHeadless() {
		_, err := io.WriteString(w, plainMarkdown(md))
		return err
	}
	_, err := io.WriteString(w, renderMarkdown(md))
	return err
}

func renderMarkdown(md string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(0),
		glamour.WithEmoji(),
	)
	if err != nil {
		return plainMarkdown(md)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return plainMarkdown(md)
	}
	return out
}

var markdownMarkup = strings.NewReplacer("`", "", "## ", "", "# ", "")

func plainMarkdown(md string) string {
	return markdownMarkup.Replace(md)
}
