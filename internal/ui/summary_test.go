package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/nestify-dev/nestify/internal/generator"
	"github.com/nestify-dev/nestify/internal/orchestrator"
	"github.com/nestify-dev/nestify/pkg/models"
)

func summaryFor(t *testing.T, a models.ProjectAnswers) Summary {
	t.Helper()
	cmds, err := generator.ResolveCommands(a.PackageManager)
	if err != nil {
		t.Fatalf("ResolveCommands error: %v", err)
	}
	return Summary{
		Config:   models.ProjectConfig{Name: "my-api", Path: "/tmp/my-api", Answers: a},
		Commands: cmds,
		Dir:      "my-api",
	}
}

func TestSummaryMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		answers models.ProjectAnswers
		want    []string
		notWant []string
	}{
		{
			name:    "minimal",
			answers: models.ProjectAnswers{PackageManager: models.PackageManagerNPM},
			want:    []string{"1. `cd my-api`", "2. `npm run start:dev`"},
			notWant: []string{"docker-compose", "Swagger", "GitHub Actions"},
		},
		{
			name: "docker_swagger_ci",
			answers: models.ProjectAnswers{
				PackageManager:   models.PackageManagerPNPM,
				UseDocker:        true,
				Database:         models.DatabasePostgres,
				UseSwagger:       true,
				UseGitHubActions: true,
			},
			want: []string{
				"2. `docker-compose up` or `pnpm run start:dev`",
				SwaggerURL,
				".github/workflows/tests.yml",
			},
		},
		{
			name:    "docker_without_database",
			answers: models.ProjectAnswers{PackageManager: models.PackageManagerYarn, UseDocker: true},
			want:    []string{"2. `yarn start:dev`"},
			notWant: []string{"docker-compose"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := summaryFor(t, tt.answers).Markdown()
			for _, w := range tt.want {
				if !strings.Contains(md, w) {
					t.Errorf("markdown missing %q:\n%s", w, md)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(md, w) {
					t.Errorf("markdown unexpectedly contains %q:\n%s", w, md)
				}
			}
		})
	}
}

func TestSummaryManualInstallAndWarnings(t *testing.T) {
	s := summaryFor(t, models.ProjectAnswers{PackageManager: models.PackageManagerNPM})
	s.Dir = "dir with space"
	s.ManualInstall = []string{"npm install @nestjs/core", "npm install --save-dev jest"}
	s.Warnings = []orchestrator.Outcome{{Name: "git", Err: errors.New("no permission")}}

	md := s.Markdown()
	for _, want := range []string{
		"1. `cd 'dir with space'`",
		"2. `npm install @nestjs/core`",
		"3. `npm install --save-dev jest`",
		"4. `npm run start:dev`",
		"## Warnings",
		"- git: no permission",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestRenderSummaryHeadlessIsPlain(t *testing.T) {
	var buf bytes.Buffer
	s := summaryFor(t, models.ProjectAnswers{PackageManager: models.PackageManagerNPM})
	if err := RenderSummary(&buf, s, headless(true)); err != nil {
		t.Fatalf("RenderSummary error: %v", err)
	}
	out := buf.String()
	if strings.ContainsAny(out, "`#") {
		t.Errorf("plain output still has markdown markup:\n%s", out)
	}
	if !strings.Contains(out, "2. npm run start:dev") {
		t.Errorf("plain output missing start command:\n%s", out)
	}
}
