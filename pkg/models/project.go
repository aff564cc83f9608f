// @MX:NOTE: [AUTO] Immutable project-generation request. Built once from flags and questionnaire answers.
package models

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/unicode/norm"
)

// maxNameLength mirrors the npm package-name limit.
const maxNameLength = 214

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// Sentinel errors for configuration validation.
var (
	ErrInvalidName             = errors.New("models: invalid project name")
	ErrInvalidPath             = errors.New("models: target path must be absolute")
	ErrInvalidPackageManager   = errors.New("models: invalid package manager")
	ErrInvalidDatabase         = errors.New("models: invalid database")
	ErrInvalidORM              = errors.New("models: invalid orm")
	ErrAuthStrategyRequired    = errors.New("models: authentication requires a strategy")
	ErrUnsupportedAuthStrategy = errors.New("models: unsupported authentication strategy")
	ErrAuthRequiresDatabase    = errors.New("models: authentication requires a database")
)

// ProjectAnswers holds the preferences collected by the questionnaire.
type ProjectAnswers struct {
	PackageManager   PackageManager `yaml:"package_manager" json:"packageManager"`
	Description      string         `yaml:"description" json:"description"`
	Author           string         `yaml:"author" json:"author"`
	UseDocker        bool           `yaml:"use_docker" json:"useDocker"`
	Database         Database       `yaml:"database,omitempty" json:"database,omitempty"`
	ORM              ORM            `yaml:"orm,omitempty" json:"orm,omitempty"`
	UseAuth          bool           `yaml:"use_auth" json:"useAuth"`
	AuthStrategies   []string       `yaml:"auth_strategies,omitempty" json:"authStrategies,omitempty"`
	UseSwagger       bool           `yaml:"use_swagger" json:"useSwagger"`
	UseGraphQL       bool           `yaml:"use_graphql" json:"useGraphQL"`
	UseGitHubActions bool           `yaml:"use_github_actions" json:"useGitHubActions"`
}

// ProjectConfig describes one project-generation request.
type ProjectConfig struct {
	Name        string         `yaml:"name" json:"name"`
	Path        string         `yaml:"path" json:"path"`
	SkipInstall bool           `yaml:"skip_install" json:"skipInstall"`
	Answers     ProjectAnswers `yaml:"answers" json:"answers"`
}

// NormalizeName trims and NFC-normalizes a raw project name so that names typed
// on systems with decomposed filenames compare equal to their composed form.
func NormalizeName(raw string) string {
	return norm.NFC.String(strings.TrimSpace(raw))
}

// EffectiveORM resolves the mapping library actually wired for the selected
// database. Prisma wins whenever it was chosen; otherwise MongoDB implies
// Mongoose and relational databases default to TypeORM.
func (c ProjectConfig) EffectiveORM() ORM {
	db := c.Answers.Database
	switch {
	case db == DatabaseNone:
		return ORMNone
	case c.Answers.ORM == ORMPrisma:
		return ORMPrisma
	case db == DatabaseMongoDB:
		return ORMMongoose
	default:
		return ORMTypeORM
	}
}

// UsesPrisma reports whether the Prisma bootstrap applies to this project.
func (c ProjectConfig) UsesPrisma() bool {
	return c.EffectiveORM() == ORMPrisma
}

// AuthEnabled reports whether JWT authentication was requested.
func (c ProjectConfig) AuthEnabled() bool {
	return c.Answers.UseAuth && slices.Contains(c.Answers.AuthStrategies, AuthStrategyJWT)
}

// PostInstall reports whether dependency installation runs in this invocation.
func (c ProjectConfig) PostInstall() bool {
	return !c.SkipInstall
}

// Validate checks every field and returns all problems at once.
func (c ProjectConfig) Validate() error {
	var errs ValidationErrors

	if c.Name == "" || len(c.Name) > maxNameLength || !namePattern.MatchString(c.Name) {
		errs.add("name", "must be lowercase letters, digits, '.', '_' or '-' and start with a letter or digit", c.Name, ErrInvalidName)
	}
	if c.Path != "" && !filepath.IsAbs(c.Path) {
		errs.add("path", "must be absolute", c.Path, ErrInvalidPath)
	}

	a := c.Answers
	if !a.PackageManager.IsValid() {
		errs.add("package_manager", "must be one of: npm, yarn, pnpm", a.PackageManager, ErrInvalidPackageManager)
	}
	if !a.Database.IsValid() {
		errs.add("database", "must be one of: mysql, postgres, mongodb", a.Database, ErrInvalidDatabase)
	}
	if !a.ORM.IsValid() {
		errs.add("orm", "must be one of: typeorm, prisma", a.ORM, ErrInvalidORM)
	}

	if a.UseAuth {
		if len(a.AuthStrategies) == 0 {
			errs.add("auth_strategies", "at least one strategy is required when auth is enabled", nil, ErrAuthStrategyRequired)
		}
		for _, s := range a.AuthStrategies {
			if !slices.Contains(SupportedAuthStrategies(), s) {
				errs.add("auth_strategies", "only jwt is supported", s, ErrUnsupportedAuthStrategy)
			}
		}
		if a.Database == DatabaseNone {
			errs.add("database", "authentication needs a database for the user store", nil, ErrAuthRequiresDatabase)
		}
	}

	if len(errs.Errors) > 0 {
		return &errs
	}
	return nil
}

// ValidationError represents a single validation error with field context.
type ValidationError struct {
	Field   string
	Message string
	Value   any
	Wrapped error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation error: field %q: %s (got: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("validation error: field %q: %s", e.Field, e.Message)
}

// Unwrap returns the underlying sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Wrapped
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []ValidationError
}

func (e *ValidationErrors) add(field, msg string, value any, sentinel error) {
	e.Errors = append(e.Errors, ValidationError{Field: field, Message: msg, Value: value, Wrapped: sentinel})
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "validation: no errors"
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("validation failed with %d error(s): %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Is supports errors.Is by checking contained validation errors against the target.
func (e *ValidationErrors) Is(target error) bool {
	for _, ve := range e.Errors {
		if ve.Wrapped != nil && errors.Is(ve.Wrapped, target) {
			return true
		}
	}
	return false
}
