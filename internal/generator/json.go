package generator

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/nestify-dev/nestify/pkg/models"
)

// jsonAPI emits stable documents: map keys sorted and no HTML escaping, so
// "<rootDir>" and "&&" survive untouched in package.json.
var jsonAPI = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// marshalJSON renders v with two-space indentation and a trailing newline.
func marshalJSON(v any) (string, error) {
	b, err := jsonAPI.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}

type jestConfig struct {
	ModuleFileExtensions []string          `json:"moduleFileExtensions"`
	RootDir              string            `json:"rootDir"`
	TestRegex            string            `json:"testRegex"`
	Transform            map[string]string `json:"transform"`
	CollectCoverageFrom  []string          `json:"collectCoverageFrom,omitempty"`
	CoverageDirectory    string            `json:"coverageDirectory,omitempty"`
	TestEnvironment      string            `json:"testEnvironment"`
}

// packageJSON fixes the top-level key order; nested maps are sorted.
type packageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Description     string            `json:"description"`
	Author          string            `json:"author"`
	Private         bool              `json:"private"`
	License         string            `json:"license"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Jest            jestConfig        `json:"jest"`
}

func packageManifest(cfg models.ProjectConfig) (string, error) {
	scripts := map[string]string{
		"build":      "nest build",
		"format":     `prettier --write "src/**/*.ts" "test/**/*.ts"`,
		"lint":       `eslint "{src,apps,libs,test}/**/*.ts" --fix`,
		"start":      "nest start",
		"start:dev":  "nest start --watch",
		"start:prod": "node dist/main",
		"test":       "jest",
		"test:cov":   "jest --coverage",
		"test:e2e":   "jest --config ./test/jest-e2e.json",
	}
	if cfg.UsesPrisma() {
		scripts["prisma:generate"] = "prisma generate"
		scripts["prisma:migrate"] = "prisma migrate dev"
		scripts["prisma:studio"] = "prisma studio"
	}

	// Dependencies are added by the install step so the versions come from
	// the registry at generation time.
	return marshalJSON(packageJSON{
		Name:            cfg.Name,
		Version:         "0.0.1",
		Description:     cfg.Answers.Description,
		Author:          cfg.Answers.Author,
		Private:         true,
		License:         "UNLICENSED",
		Scripts:         scripts,
		Dependencies:    map[string]string{},
		DevDependencies: map[string]string{},
		Jest: jestConfig{
			ModuleFileExtensions: []string{"js", "json", "ts"},
			RootDir:              "src",
			TestRegex:            `.*\.spec\.ts$`,
			Transform:            map[string]string{`^.+\.(t|j)s$`: "ts-jest"},
			CollectCoverageFrom:  []string{"**/*.(t|j)s"},
			CoverageDirectory:    "../coverage",
			TestEnvironment:      "node",
		},
	})
}

func tsconfig() (string, error) {
	return marshalJSON(map[string]any{
		"compilerOptions": map[string]any{
			"module":                           "commonjs",
			"declaration":                      true,
			"removeComments":                   true,
			"emitDecoratorMetadata":            true,
			"experimentalDecorators":           true,
			"allowSyntheticDefaultImports":     true,
			"esModuleInterop":                  true,
			"target":                           "ES2021",
			"sourceMap":                        true,
			"outDir":                           "./dist",
			"baseUrl":                          "./",
			"incremental":                      true,
			"skipLibCheck":                     true,
			"strictNullChecks":                 false,
			"noImplicitAny":                    false,
			"strictBindCallApply":              false,
			"forceConsistentCasingInFileNames": false,
			"noFallthroughCasesInSwitch":       false,
		},
	})
}

func tsconfigBuild() (string, error) {
	return marshalJSON(map[string]any{
		"extends": "./tsconfig.json",
		"exclude": []string{"node_modules", "test", "dist", "**/*spec.ts"},
	})
}

func nestCLI() (string, error) {
	return marshalJSON(map[string]any{
		"$schema":         "https://json.schemastore.org/nest-cli",
		"collection":      "@nestjs/schematics",
		"sourceRoot":      "src",
		"compilerOptions": map[string]any{"deleteOutDir": true},
	})
}

func prettierRC() (string, error) {
	return marshalJSON(map[string]any{
		"singleQuote":    true,
		"trailingComma":  "all",
		"printWidth":     100,
		"tabWidth":       2,
		"semi":           true,
		"bracketSpacing": true,
		"arrowParens":    "always",
		"endOfLine":      "auto",
	})
}

func jestE2E() (string, error) {
	return marshalJSON(jestConfig{
		ModuleFileExtensions: []string{"js", "json", "ts"},
		RootDir:              ".",
		TestRegex:            `.e2e-spec.ts$`,
		Transform:            map[string]string{`^.+\.(t|j)s$`: "ts-jest"},
		TestEnvironment:      "node",
	})
}
