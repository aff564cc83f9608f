package wizard

import (
	"strconv"

	"github.com/nestify-dev/nestify/pkg/models"
)

// DefaultDescription is the package description used when none is given.
const DefaultDescription = "A NestJS application"

// noneValue is the select value standing for an empty enum.
const noneValue = "none"

// DefaultAnswers returns the answers --yes accepts without asking.
func DefaultAnswers(pm models.PackageManager) models.ProjectAnswers {
	if pm == "" {
		pm = models.PackageManagerNPM
	}
	return models.ProjectAnswers{
		PackageManager:   pm,
		Description:      DefaultDescription,
		UseSwagger:       true,
		UseGitHubActions: true,
	}
}

func hasDatabase(a *models.ProjectAnswers) bool {
	return a.Database != models.DatabaseNone
}

// DefaultQuestions returns the questionnaire in asking order, with defaults
// taken from d. Follow-up questions carry a Condition on earlier answers.
func DefaultQuestions(d models.ProjectAnswers) []Question {
	pmOptions := make([]Option, 0, len(models.ValidPackageManagers()))
	for _, pm := range models.ValidPackageManagers() {
		pmOptions = append(pmOptions, Option{Label: string(pm), Value: string(pm)})
	}

	return []Question{
		{
			ID:      QuestionPackageManager,
			Type:    QuestionTypeSelect,
			Title:   "Which package manager would you like to use?",
			Options: pmOptions,
			Default: string(d.PackageManager),
		},
		{
			ID:      QuestionDescription,
			Type:    QuestionTypeInput,
			Title:   "Project description",
			Default: d.Description,
		},
		{
			ID:          QuestionAuthor,
			Type:        QuestionTypeInput,
			Title:       "Author",
			Description: "Press Enter to skip.",
			Default:     d.Author,
		},
		{
			ID:          QuestionDocker,
			Type:        QuestionTypeConfirm,
			Title:       "Add Docker support?",
			Description: "Generates a Dockerfile and docker-compose.yml when a database is selected.",
			Default:     strconv.FormatBool(d.UseDocker),
		},
		{
			ID:    QuestionDatabase,
			Type:  QuestionTypeSelect,
			Title: "Which database would you like to use?",
			Options: []Option{
				{Label: "None", Value: noneValue},
				{Label: "MySQL", Value: string(models.DatabaseMySQL)},
				{Label: "PostgreSQL", Value: string(models.DatabasePostgres)},
				{Label: "MongoDB", Value: string(models.DatabaseMongoDB)},
			},
			Default: enumValue(string(d.Database)),
		},
		{
			ID:    QuestionORM,
			Type:  QuestionTypeSelect,
			Title: "Which ORM would you like to use?",
			Options: []Option{
				{Label: "Default", Value: noneValue, Desc: "TypeORM, or Mongoose for MongoDB"},
				{Label: "TypeORM", Value: string(models.ORMTypeORM)},
				{Label: "Prisma", Value: string(models.ORMPrisma)},
			},
			Default:   enumValue(string(d.ORM)),
			Condition: hasDatabase,
		},
		{
			ID:          QuestionAuth,
			Type:        QuestionTypeConfirm,
			Title:       "Add authentication?",
			Description: "Scaffolds a user module backed by the selected database.",
			Default:     strconv.FormatBool(d.UseAuth),
			Condition:   hasDatabase,
		},
		{
			ID:    QuestionAuthStrategy,
			Type:  QuestionTypeSelect,
			Title: "Which authentication strategy?",
			Options: []Option{
				{Label: "JWT", Value: models.AuthStrategyJWT, Desc: "Passport local login issuing JSON Web Tokens"},
			},
			Default: models.AuthStrategyJWT,
			Condition: func(a *models.ProjectAnswers) bool {
				return hasDatabase(a) && a.UseAuth
			},
		},
		{
			ID:      QuestionSwagger,
			Type:    QuestionTypeConfirm,
			Title:   "Add Swagger documentation?",
			Default: strconv.FormatBool(d.UseSwagger),
		},
		{
			ID:      QuestionGraphQL,
			Type:    QuestionTypeConfirm,
			Title:   "Add GraphQL support?",
			Default: strconv.FormatBool(d.UseGraphQL),
		},
		{
			ID:      QuestionGitHubActions,
			Type:    QuestionTypeConfirm,
			Title:   "Add GitHub Actions for CI/CD?",
			Default: strconv.FormatBool(d.UseGitHubActions),
		},
	}
}

// Without drops the questions whose IDs are in answered, e.g. because a flag
// already supplied the answer.
func Without(questions []Question, answered map[string]bool) []Question {
	out := make([]Question, 0, len(questions))
	for _, q := range questions {
		if !answered[q.ID] {
			out = append(out, q)
		}
	}
	return out
}

func enumValue(v string) string {
	if v == "" {
		return noneValue
	}
	return v
}

// orderedOptions moves the default option to the front. huh v0.8 sets the
// select viewport offset to the selected index, which hides options above a
// default that is not first.
func orderedOptions(q *Question) []Option {
	opts := make([]Option, 0, len(q.Options))
	for _, o := range q.Options {
		if o.Value == q.Default {
			opts = append(opts, o)
		}
	}
	for _, o := range q.Options {
		if o.Value != q.Default {
			opts = append(opts, o)
		}
	}
	return opts
}
