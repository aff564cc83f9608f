package variant

import (
	"github.com/nestify-dev/nestify/pkg/models"
)

// NodeMatrix lists the runtime versions the generated CI workflow tests on.
var NodeMatrix = []string{"20.x", "22.x"}

const distCheck = `if [ ! -d "dist" ]; then
  echo "Build failed: dist directory not found"
  exit 1
fi
`

type workflowStep struct {
	Name string     `yaml:"name,omitempty"`
	Uses string     `yaml:"uses,omitempty"`
	With orderedMap `yaml:"with,omitempty"`
	Run  string     `yaml:"run,omitempty"`
}

type workflowJob struct {
	RunsOn   string         `yaml:"runs-on"`
	Needs    string         `yaml:"needs,omitempty"`
	Strategy orderedMap     `yaml:"strategy,omitempty"`
	Steps    []workflowStep `yaml:"steps"`
}

// Workflow resolves the GitHub Actions test workflow for pm. The install step
// is the bare install command; lint, test and build use the run prefix.
func Workflow(pm models.PackageManager) (string, error) {
	mgr, err := lookupManager(pm)
	if err != nil {
		return "", err
	}
	install, _ := InstallCommand(pm, nil, false)
	run := func(script string) string {
		s, _ := RunCommand(pm, script)
		return s
	}

	setup := func(version string) []workflowStep {
		var steps []workflowStep
		steps = append(steps, workflowStep{Uses: "actions/checkout@v4"})
		if pm == models.PackageManagerPNPM {
			steps = append(steps, workflowStep{
				Name: "Install pnpm",
				Uses: "pnpm/action-setup@v4",
				With: orderedMap{{"version", 9}},
			})
		}
		steps = append(steps,
			workflowStep{
				Name: "Use Node.js " + version,
				Uses: "actions/setup-node@v4",
				With: orderedMap{
					{"node-version", version},
					{"cache", mgr.cacheKey},
				},
			},
			workflowStep{Name: "Install dependencies", Run: install},
		)
		return steps
	}

	testSteps := append(setup("${{ matrix.node-version }}"),
		workflowStep{Name: "Run linter", Run: run("lint")},
		workflowStep{Name: "Run unit tests", Run: run("test:cov")},
		workflowStep{Name: "Run e2e tests", Run: run("test:e2e")},
		workflowStep{
			Name: "Upload coverage to Codecov",
			Uses: "codecov/codecov-action@v4",
			With: orderedMap{
				{"files", "./coverage/coverage-final.json"},
				{"flags", "unittests"},
				{"name", "codecov-umbrella"},
				{"fail_ci_if_error", false},
			},
		},
	)

	buildVersion := NodeMatrix[len(NodeMatrix)-1]
	buildSteps := append(setup(buildVersion),
		workflowStep{Name: "Build application", Run: run("build")},
		workflowStep{Name: "Check build output", Run: distCheck},
	)

	branches := orderedMap{{"branches", []string{"main", "develop"}}}
	doc := orderedMap{
		{"name", "Tests"},
		{"on", orderedMap{
			{"push", branches},
			{"pull_request", branches},
		}},
		{"jobs", orderedMap{
			{"test", workflowJob{
				RunsOn: "ubuntu-latest",
				Strategy: orderedMap{
					{"matrix", orderedMap{{"node-version", NodeMatrix}}},
				},
				Steps: testSteps,
			}},
			{"build", workflowJob{
				RunsOn: "ubuntu-latest",
				Needs:  "test",
				Steps:  buildSteps,
			}},
		}},
	}
	return encodeYAML(doc)
}
