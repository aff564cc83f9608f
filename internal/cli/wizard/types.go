// Package wizard runs the interactive questionnaire that collects the
// project answers for nestify new.
package wizard

import (
	"github.com/cockroachdb/errors"

	"github.com/nestify-dev/nestify/pkg/models"
)

// QuestionType represents the type of wizard question.
type QuestionType int

const (
	// QuestionTypeSelect is a single-choice selection question.
	QuestionTypeSelect QuestionType = iota
	// QuestionTypeInput is a text input question.
	QuestionTypeInput
	// QuestionTypeConfirm is a yes/no question.
	QuestionTypeConfirm
)

// Question defines a single wizard question.
type Question struct {
	ID          string                            // One of the Question* identifiers
	Type        QuestionType                      // Select, Input or Confirm
	Title       string                            // Question title
	Description string                            // Additional description
	Options     []Option                          // Options for select questions
	Default     string                            // Default value; "true"/"false" for confirms
	Condition   func(*models.ProjectAnswers) bool // Condition for asking this question
}

// Option represents a selectable option.
type Option struct {
	Label string // Display label
	Value string // Actual value stored
	Desc  string // Optional description
}

// Question identifiers. They double as the names of the flags that answer
// the same question on the command line.
const (
	QuestionPackageManager = "package-manager"
	QuestionDescription    = "description"
	QuestionAuthor         = "author"
	QuestionDocker         = "docker"
	QuestionDatabase       = "database"
	QuestionORM            = "orm"
	QuestionAuth           = "auth"
	QuestionAuthStrategy   = "auth-strategy"
	QuestionSwagger        = "swagger"
	QuestionGraphQL        = "graphql"
	QuestionGitHubActions  = "github-actions"
)

// Error definitions for the wizard package.
var (
	// ErrCancelled is returned when the user cancels the wizard.
	ErrCancelled = errors.New("wizard cancelled by user")
	// ErrNoQuestions is returned when no questions are provided.
	ErrNoQuestions = errors.New("no questions provided")
	// ErrUnknownQuestion is returned for an answer to an unknown question ID.
	ErrUnknownQuestion = errors.New("unknown question")
)
