package wizard

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"

	"github.com/nestify-dev/nestify/pkg/models"
)

func ids(qs []Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestDefaultQuestionsOrder(t *testing.T) {
	got := ids(DefaultQuestions(DefaultAnswers("")))
	want := []string{
		QuestionPackageManager, QuestionDescription, QuestionAuthor, QuestionDocker,
		QuestionDatabase, QuestionORM, QuestionAuth, QuestionAuthStrategy,
		QuestionSwagger, QuestionGraphQL, QuestionGitHubActions,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("question order mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultAnswers(t *testing.T) {
	got := DefaultAnswers("")
	want := models.ProjectAnswers{
		PackageManager:   models.PackageManagerNPM,
		Description:      DefaultDescription,
		UseSwagger:       true,
		UseGitHubActions: true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DefaultAnswers mismatch (-want +got):\n%s", diff)
	}
	if pm := DefaultAnswers(models.PackageManagerPNPM).PackageManager; pm != models.PackageManagerPNPM {
		t.Errorf("PackageManager = %q, want pnpm", pm)
	}
}

func TestConditions(t *testing.T) {
	byID := map[string]Question{}
	for _, q := range DefaultQuestions(DefaultAnswers("")) {
		byID[q.ID] = q
	}

	tests := []struct {
		name    string
		answers models.ProjectAnswers
		asked   map[string]bool
	}{
		{
			name:    "no_database",
			answers: models.ProjectAnswers{},
			asked:   map[string]bool{QuestionORM: false, QuestionAuth: false, QuestionAuthStrategy: false},
		},
		{
			name:    "database_without_auth",
			answers: models.ProjectAnswers{Database: models.DatabaseMySQL},
			asked:   map[string]bool{QuestionORM: true, QuestionAuth: true, QuestionAuthStrategy: false},
		},
		{
			name:    "database_with_auth",
			answers: models.ProjectAnswers{Database: models.DatabaseMongoDB, UseAuth: true},
			asked:   map[string]bool{QuestionORM: true, QuestionAuth: true, QuestionAuthStrategy: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for id, want := range tt.asked {
				if got := byID[id].Condition(&tt.answers); got != want {
					t.Errorf("%s asked = %v, want %v", id, got, want)
				}
			}
		})
	}
}

func TestSaveAnswer(t *testing.T) {
	var a models.ProjectAnswers
	steps := []struct{ id, value string }{
		{QuestionPackageManager, "yarn"},
		{QuestionDescription, "Orders API"},
		{QuestionAuthor, "Jane"},
		{QuestionDocker, "true"},
		{QuestionDatabase, "postgres"},
		{QuestionORM, "prisma"},
		{QuestionAuth, "true"},
		{QuestionAuthStrategy, models.AuthStrategyJWT},
		{QuestionSwagger, "false"},
		{QuestionGraphQL, "true"},
		{QuestionGitHubActions, "true"},
	}
	for _, s := range steps {
		if err := saveAnswer(s.id, s.value, &a); err != nil {
			t.Fatalf("saveAnswer(%s) error: %v", s.id, err)
		}
	}
	want := models.ProjectAnswers{
		PackageManager:   models.PackageManagerYarn,
		Description:      "Orders API",
		Author:           "Jane",
		UseDocker:        true,
		Database:         models.DatabasePostgres,
		ORM:              models.ORMPrisma,
		UseAuth:          true,
		AuthStrategies:   []string{models.AuthStrategyJWT},
		UseGraphQL:       true,
		UseGitHubActions: true,
	}
	if diff := cmp.Diff(want, a); diff != "" {
		t.Errorf("answers mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveAnswerNoneDatabaseClearsDependents(t *testing.T) {
	a := models.ProjectAnswers{
		Database:       models.DatabaseMySQL,
		ORM:            models.ORMPrisma,
		UseAuth:        true,
		AuthStrategies: []string{models.AuthStrategyJWT},
	}
	if err := saveAnswer(QuestionDatabase, noneValue, &a); err != nil {
		t.Fatal(err)
	}
	if a.Database != models.DatabaseNone || a.ORM != models.ORMNone || a.UseAuth || a.AuthStrategies != nil {
		t.Errorf("dependent answers not cleared: %+v", a)
	}
}

func TestSaveAnswerUnknown(t *testing.T) {
	var a models.ProjectAnswers
	if err := saveAnswer("locale", "en", &a); !errors.Is(err, ErrUnknownQuestion) {
		t.Errorf("error = %v, want ErrUnknownQuestion", err)
	}
}

func TestOrderedOptionsPutsDefaultFirst(t *testing.T) {
	q := DefaultQuestions(models.ProjectAnswers{PackageManager: models.PackageManagerPNPM})[0]
	got := orderedOptions(&q)
	if got[0].Value != "pnpm" || len(got) != 3 {
		t.Errorf("orderedOptions = %+v, want pnpm first of 3", got)
	}
}

func TestWithout(t *testing.T) {
	qs := Without(DefaultQuestions(DefaultAnswers("")), map[string]bool{
		QuestionPackageManager: true,
		QuestionDatabase:       true,
	})
	for _, q := range qs {
		if q.ID == QuestionPackageManager || q.ID == QuestionDatabase {
			t.Errorf("question %s not removed", q.ID)
		}
	}
	if len(qs) != 9 {
		t.Errorf("got %d questions, want 9", len(qs))
	}
}

func TestRunNoQuestions(t *testing.T) {
	if _, err := Run(nil, models.ProjectAnswers{}, Options{}); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("Run(nil) error = %v, want ErrNoQuestions", err)
	}
}
