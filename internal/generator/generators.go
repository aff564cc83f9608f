package generator

import (
	"github.com/cockroachdb/errors"

	"github.com/nestify-dev/nestify/internal/template"
	"github.com/nestify-dev/nestify/internal/variant"
	"github.com/nestify-dev/nestify/pkg/models"
)

// Generator produces the files of one concern of a project.
type Generator struct {
	Name string
	Run  func(models.ProjectConfig) (FileSet, error)
}

// layoutDirs are the empty source directories created with a .gitkeep so
// they survive version control.
var layoutDirs = []string{
	"src/common/decorators",
	"src/common/enums",
	"src/common/filters",
	"src/common/guards",
	"src/common/interceptors",
	"src/common/middleware",
	"src/common/pipes",
	"src/modules",
	"src/shared/services",
	"src/shared/utils",
}

// renderInto renders each template into the destination path of set.
func renderInto(set FileSet, data templateData, pairs ...string) error {
	r := template.Default()
	for i := 0; i+1 < len(pairs); i += 2 {
		dst, name := pairs[i], pairs[i+1]
		body, err := r.Render(name, data)
		if err != nil {
			return err
		}
		if err := set.Add(dst, body); err != nil {
			return err
		}
	}
	return nil
}

func addJSON(set FileSet, path string, render func() (string, error)) error {
	body, err := render()
	if err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}
	return set.Add(path, body)
}

// Base emits the package manifest, TypeScript and Nest CLI configuration and
// the empty source layout.
func Base(cfg models.ProjectConfig) (FileSet, error) {
	set := NewFileSet()
	manifest, err := packageManifest(cfg)
	if err != nil {
		return FileSet{}, errors.Wrap(err, "encode package.json")
	}
	if err := set.Add("package.json", manifest); err != nil {
		return FileSet{}, err
	}
	for path, render := range map[string]func() (string, error){
		"tsconfig.json":       tsconfig,
		"tsconfig.build.json": tsconfigBuild,
		"nest-cli.json":       nestCLI,
	} {
		if err := addJSON(set, path, render); err != nil {
			return FileSet{}, err
		}
	}
	for _, dir := range layoutDirs {
		if err := set.Add(dir+"/.gitkeep", ""); err != nil {
			return FileSet{}, err
		}
	}
	return set, nil
}

// Source emits the application bootstrap, root module and the example
// controller and service with their specs.
func Source(cfg models.ProjectConfig) (FileSet, error) {
	data, err := newTemplateData(cfg)
	if err != nil {
		return FileSet{}, err
	}
	set := NewFileSet()
	err = renderInto(set, data,
		"src/main.ts", "src/main.ts.tmpl",
		"src/app.module.ts", "src/app.module.ts.tmpl",
		"src/app.controller.ts", "src/app.controller.ts.tmpl",
		"src/app.controller.spec.ts", "src/app.controller.spec.ts.tmpl",
		"src/app.service.ts", "src/app.service.ts.tmpl",
		"src/app.service.spec.ts", "src/app.service.spec.ts.tmpl",
	)
	if err != nil {
		return FileSet{}, err
	}
	return set, nil
}

// Database emits the connection module. Prisma projects only reserve the
// src/prisma directory; the client module is written after bootstrap.
func Database(cfg models.ProjectConfig) (FileSet, error) {
	set := NewFileSet()
	switch cfg.EffectiveORM() {
	case models.ORMNone:
		return set, nil
	case models.ORMPrisma:
		set.Dirs = []string{"src/prisma"}
		return set, nil
	}

	data, err := newTemplateData(cfg)
	if err != nil {
		return FileSet{}, err
	}
	name := "src/database.typeorm.ts.tmpl"
	if cfg.EffectiveORM() == models.ORMMongoose {
		name = "src/database.mongoose.ts.tmpl"
	}
	if err := renderInto(set, data, "src/database/database.module.ts", name); err != nil {
		return FileSet{}, err
	}
	return set, nil
}

// Test emits the end-to-end test and its Jest configuration.
func Test(cfg models.ProjectConfig) (FileSet, error) {
	data, err := newTemplateData(cfg)
	if err != nil {
		return FileSet{}, err
	}
	set := NewFileSet()
	if err := renderInto(set, data, "test/app.e2e-spec.ts", "test/app.e2e-spec.ts.tmpl"); err != nil {
		return FileSet{}, err
	}
	if err := addJSON(set, "test/jest-e2e.json", jestE2E); err != nil {
		return FileSet{}, err
	}
	return set, nil
}

// Environment emits the four dotenv files. Each example file is identical to
// the file it documents.
func Environment(cfg models.ProjectConfig) (FileSet, error) {
	a := cfg.Answers
	env := variant.DefaultEnv(cfg.Name)
	if a.Database != models.DatabaseNone {
		var err error
		env, err = variant.DatabaseEnv(cfg.Name, a.Database, a.UseDocker, cfg.EffectiveORM())
		if err != nil {
			return FileSet{}, err
		}
	}
	return FileSet{Files: map[string]string{
		".env":                 env.Main,
		".env.example":         env.Main,
		".env.testing":         env.Test,
		".env.testing.example": env.Test,
	}}, nil
}

// Config emits the ignore, formatter and linter configuration.
func Config(cfg models.ProjectConfig) (FileSet, error) {
	data, err := newTemplateData(cfg)
	if err != nil {
		return FileSet{}, err
	}
	set := NewFileSet()
	err = renderInto(set, data,
		".gitignore", "root/gitignore.tmpl",
		"eslint.config.mjs", "root/eslint.config.mjs.tmpl",
	)
	if err != nil {
		return FileSet{}, err
	}
	if err := addJSON(set, ".prettierrc", prettierRC); err != nil {
		return FileSet{}, err
	}
	return set, nil
}

// Docker emits the Dockerfile, .dockerignore and compose document when
// Docker was requested for a project with a database.
func Docker(cfg models.ProjectConfig) (FileSet, error) {
	a := cfg.Answers
	if !a.UseDocker || a.Database == models.DatabaseNone {
		return NewFileSet(), nil
	}
	files, err := variant.DockerAssets(a.Database, a.PackageManager, cfg.EffectiveORM())
	if err != nil {
		return FileSet{}, err
	}
	return FileSet{Files: map[string]string{
		"Dockerfile":         files.Dockerfile,
		".dockerignore":      files.DockerIgnore,
		"docker-compose.yml": files.Compose,
	}}, nil
}

// GraphQL emits the code-first GraphQL module with a sample resolver.
func GraphQL(cfg models.ProjectConfig) (FileSet, error) {
	set := NewFileSet()
	if !cfg.Answers.UseGraphQL {
		return set, nil
	}
	data, err := newTemplateData(cfg)
	if err != nil {
		return FileSet{}, err
	}
	err = renderInto(set, data,
		"src/graphql/graphql.module.ts", "src/graphql.module.ts.tmpl",
		"src/graphql/resolvers/app.resolver.ts", "src/app.resolver.ts.tmpl",
		"src/graphql/schemas/base.schema.ts", "src/base.schema.ts.tmpl",
	)
	if err != nil {
		return FileSet{}, err
	}
	return set, nil
}

// GitHubActions emits the CI workflow.
func GitHubActions(cfg models.ProjectConfig) (FileSet, error) {
	set := NewFileSet()
	if !cfg.Answers.UseGitHubActions {
		return set, nil
	}
	wf, err := variant.Workflow(cfg.Answers.PackageManager)
	if err != nil {
		return FileSet{}, err
	}
	if err := set.Add(".github/workflows/tests.yml", wf); err != nil {
		return FileSet{}, err
	}
	return set, nil
}

// Readme emits README.md.
func Readme(cfg models.ProjectConfig) (FileSet, error) {
	data, err := newTemplateData(cfg)
	if err != nil {
		return FileSet{}, err
	}
	set := NewFileSet()
	if err := renderInto(set, data, "README.md", "root/README.md.tmpl"); err != nil {
		return FileSet{}, err
	}
	return set, nil
}
