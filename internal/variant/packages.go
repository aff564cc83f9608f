package variant

import (
	"slices"

	"github.com/samber/lo"

	"github.com/nestify-dev/nestify/pkg/models"
)

var (
	corePackages = []string{
		"@nestjs/common",
		"@nestjs/config",
		"@nestjs/core",
		"@nestjs/platform-express",
		"reflect-metadata",
		"rxjs",
	}

	coreDevPackages = []string{
		"@eslint/js",
		"@nestjs/cli",
		"@nestjs/schematics",
		"@nestjs/testing",
		"@types/express",
		"@types/jest",
		"@types/node",
		"@types/supertest",
		"@typescript-eslint/eslint-plugin",
		"@typescript-eslint/parser",
		"eslint",
		"eslint-config-prettier",
		"eslint-plugin-prettier",
		"jest",
		"prettier",
		"source-map-support",
		"supertest",
		"ts-jest",
		"ts-loader",
		"ts-node",
		"tsconfig-paths",
		"typescript",
		"typescript-eslint",
	}

	graphqlPackages = []string{"@nestjs/graphql", "@nestjs/apollo", "@apollo/server", "graphql"}

	authPackages = []string{
		"@nestjs/jwt",
		"@nestjs/passport",
		"bcrypt",
		"class-transformer",
		"class-validator",
		"passport",
		"passport-jwt",
		"passport-local",
	}

	authDevPackages = []string{"@types/bcrypt", "@types/passport-jwt", "@types/passport-local"}
)

// Dependencies returns the runtime packages for cfg, deduplicated and sorted.
func Dependencies(cfg models.ProjectConfig) ([]string, error) {
	pkgs := slices.Clone(corePackages)
	a := cfg.Answers

	if a.UseSwagger {
		pkgs = append(pkgs, "@nestjs/swagger")
	}
	if a.Database != models.DatabaseNone {
		spec, err := lookupDatabase(a.Database)
		if err != nil {
			return nil, err
		}
		if cfg.UsesPrisma() {
			pkgs = append(pkgs, "@prisma/client")
		} else {
			pkgs = append(pkgs, spec.runtimePkgs...)
		}
	}
	if a.UseGraphQL {
		pkgs = append(pkgs, graphqlPackages...)
	}
	if cfg.AuthEnabled() {
		pkgs = append(pkgs, authPackages...)
	}
	return sortedUnique(pkgs), nil
}

// DevDependencies returns the development packages for cfg, deduplicated and
// sorted.
func DevDependencies(cfg models.ProjectConfig) []string {
	pkgs := slices.Clone(coreDevPackages)
	if cfg.UsesPrisma() {
		pkgs = append(pkgs, "prisma")
	}
	if cfg.AuthEnabled() {
		pkgs = append(pkgs, authDevPackages...)
	}
	return sortedUnique(pkgs)
}

func sortedUnique(pkgs []string) []string {
	out := lo.Uniq(pkgs)
	slices.Sort(out)
	return out
}
