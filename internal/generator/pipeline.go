package generator

import (
	"github.com/cockroachdb/errors"

	"github.com/nestify-dev/nestify/pkg/models"
)

// Pipeline returns the pre-install generators in the order they run.
//
// @MX:ANCHOR: [AUTO] Fixed generation order consumed by the new command.
// @MX:REASON: Later steps (install, prisma bootstrap, auth) assume these files exist.
func Pipeline() []Generator {
	return []Generator{
		{Name: "base", Run: Base},
		{Name: "source", Run: Source},
		{Name: "database", Run: Database},
		{Name: "test", Run: Test},
		{Name: "environment", Run: Environment},
		{Name: "config", Run: Config},
		{Name: "docker", Run: Docker},
		{Name: "graphql", Run: GraphQL},
		{Name: "github-actions", Run: GitHubActions},
		{Name: "readme", Run: Readme},
	}
}

// Run executes gens in order and merges their output. The first generator
// error or path collision aborts the run.
func Run(cfg models.ProjectConfig, gens ...Generator) (FileSet, error) {
	out := NewFileSet()
	for _, g := range gens {
		set, err := g.Run(cfg)
		if err != nil {
			return FileSet{}, errors.Wrapf(err, "generator %s", g.Name)
		}
		if out, err = out.Merge(set); err != nil {
			return FileSet{}, errors.Wrapf(err, "generator %s", g.Name)
		}
	}
	return out, nil
}
