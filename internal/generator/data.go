package generator

import (
	"github.com/cockroachdb/errors"

	"github.com/nestify-dev/nestify/internal/variant"
	"github.com/nestify-dev/nestify/pkg/models"
)

// Commands holds every command string a generated document embeds.
type Commands struct {
	Install        string
	Start          string
	StartDev       string
	StartProd      string
	Test           string
	TestE2E        string
	TestCov        string
	PrismaMigrate  string
	PrismaReset    string
	PrismaStudio   string
	PrismaGenerate string
}

// templateData is the value every embedded template executes against.
type templateData struct {
	Name        string
	Description string
	Author      string

	Swagger bool
	GraphQL bool
	Docker  bool
	CI      bool

	// Auth and PrismaWired are set only once the post-install modules they
	// import have been written.
	Auth           bool
	Prisma         bool
	PrismaWired    bool
	DatabaseModule bool

	DatabaseName string
	TypeORMType  string
	ORM          string
	AuthModel    string
	NodeMatrix   []string

	Cmd Commands
}

// ResolveCommands derives the command strings for pm from the variant
// resolvers.
func ResolveCommands(pm models.PackageManager) (Commands, error) {
	var (
		c    Commands
		errs []error
	)
	set := func(dst *string, cmd string, err error) {
		*dst = cmd
		if err != nil {
			errs = append(errs, err)
		}
	}
	run := func(dst *string, script string) {
		cmd, err := variant.RunCommand(pm, script)
		set(dst, cmd, err)
	}
	exec := func(dst *string, args ...string) {
		cmd, err := variant.ExecCommand(pm, args...)
		set(dst, cmd, err)
	}

	install, err := variant.InstallCommand(pm, nil, false)
	set(&c.Install, install, err)
	run(&c.Start, "start")
	run(&c.StartDev, "start:dev")
	run(&c.StartProd, "start:prod")
	run(&c.Test, "test")
	run(&c.TestE2E, "test:e2e")
	run(&c.TestCov, "test:cov")
	exec(&c.PrismaMigrate, "prisma", "migrate", "dev")
	exec(&c.PrismaReset, "prisma", "migrate", "reset")
	exec(&c.PrismaStudio, "prisma", "studio")
	exec(&c.PrismaGenerate, "prisma", "generate")

	if len(errs) > 0 {
		return Commands{}, errs[0]
	}
	return c, nil
}

func newTemplateData(cfg models.ProjectConfig) (templateData, error) {
	a := cfg.Answers
	cmd, err := ResolveCommands(a.PackageManager)
	if err != nil {
		return templateData{}, err
	}

	d := templateData{
		Name:           cfg.Name,
		Description:    a.Description,
		Author:         a.Author,
		Swagger:        a.UseSwagger,
		GraphQL:        a.UseGraphQL,
		Docker:         a.UseDocker && a.Database != models.DatabaseNone,
		CI:             a.UseGitHubActions,
		Prisma:         cfg.UsesPrisma(),
		DatabaseModule: a.Database != models.DatabaseNone && !cfg.UsesPrisma(),
		ORM:            string(cfg.EffectiveORM()),
		NodeMatrix:     variant.NodeMatrix,
		Cmd:            cmd,
	}
	if a.Database == models.DatabaseNone {
		return d, nil
	}

	if d.DatabaseName, err = variant.DisplayName(a.Database); err != nil {
		return templateData{}, err
	}
	if a.Database.IsRelational() {
		if d.TypeORMType, err = variant.TypeORMType(a.Database); err != nil {
			return templateData{}, err
		}
	}
	if d.Prisma {
		if d.AuthModel, err = variant.PrismaModels(a.Database, true); err != nil {
			return templateData{}, errors.Wrap(err, "resolve auth model")
		}
	}
	return d, nil
}
