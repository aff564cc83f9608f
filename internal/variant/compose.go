package variant

import (
	"fmt"
	"strings"

	"github.com/nestify-dev/nestify/pkg/models"
)

const appNetwork = "app-net"

// DockerFiles holds the three container artifacts.
type DockerFiles struct {
	Dockerfile   string
	DockerIgnore string
	Compose      string
}

type composeService struct {
	Image       string         `yaml:"image,omitempty"`
	Build       string         `yaml:"build,omitempty"`
	Restart     string         `yaml:"restart,omitempty"`
	Ports       []string       `yaml:"ports,omitempty"`
	Platform    string         `yaml:"platform,omitempty"`
	Environment orderedMap     `yaml:"environment,omitempty"`
	Volumes     []string       `yaml:"volumes,omitempty"`
	Command     string         `yaml:"command,omitempty"`
	DependsOn   orderedMap     `yaml:"depends_on,omitempty"`
	Networks    []string       `yaml:"networks,omitempty"`
	Healthcheck *composeHealth `yaml:"healthcheck,omitempty"`
}

type composeHealth struct {
	Test        any    `yaml:"test"`
	Interval    string `yaml:"interval,omitempty"`
	Timeout     string `yaml:"timeout,omitempty"`
	Retries     int    `yaml:"retries,omitempty"`
	StartPeriod string `yaml:"start_period,omitempty"`
}

type healthyCondition struct {
	Condition string `yaml:"condition"`
}

type namedDriver struct {
	Driver string `yaml:"driver"`
}

var dockerIgnoreEntries = []string{
	"node_modules",
	"npm-debug.log",
	"dist",
	".git",
	".gitignore",
	"README.md",
	".env",
	".env.testing",
	".env.production",
	"coverage",
	".nyc_output",
	".github",
	".vscode",
	".idea",
	"*.log",
}

// AppCommand returns the shell line the compose app service starts with:
// clean, bare install, prisma generate when orm is Prisma, then the dev server.
func AppCommand(pm models.PackageManager, orm models.ORM) (string, error) {
	install, err := InstallCommand(pm, nil, false)
	if err != nil {
		return "", err
	}
	start, err := StartCommand(pm)
	if err != nil {
		return "", err
	}

	steps := []string{"rm -rf node_modules dist", install}
	if orm == models.ORMPrisma {
		gen, err := ExecCommand(pm, "prisma", "generate")
		if err != nil {
			return "", err
		}
		steps = append(steps, gen)
	}
	steps = append(steps, start)
	return strings.Join(steps, " && "), nil
}

// DockerAssets resolves the Dockerfile, ignore list and compose document for
// db. orm is the effective mapping library.
func DockerAssets(db models.Database, pm models.PackageManager, orm models.ORM) (DockerFiles, error) {
	spec, err := lookupDatabase(db)
	if err != nil {
		return DockerFiles{}, err
	}
	cmd, err := AppCommand(pm, orm)
	if err != nil {
		return DockerFiles{}, err
	}
	mgr, err := lookupManager(pm)
	if err != nil {
		return DockerFiles{}, err
	}
	start, _ := StartCommand(pm)

	compose, err := encodeYAML(composeDocument(spec, cmd))
	if err != nil {
		return DockerFiles{}, err
	}

	return DockerFiles{
		Dockerfile:   dockerfile(spec, mgr, start),
		DockerIgnore: strings.Join(dockerIgnoreEntries, "\n") + "\n",
		Compose:      compose,
	}, nil
}

func dockerfile(spec databaseSpec, mgr managerSpec, start string) string {
	cmd := `"` + strings.Join(strings.Fields(start), `", "`) + `"`
	globals := strings.TrimSpace("@nestjs/cli " + mgr.globalPkg)
	return fmt.Sprintf(`FROM ubuntu:24.04
ARG NODE_VERSION=24
WORKDIR /home/app
RUN apt-get update
RUN apt install -y curl git \
    && curl -sLS https://deb.nodesource.com/setup_$NODE_VERSION.x | bash - \
    && apt-get install -y nodejs \
    && apt-get install -y %s \
    && apt-get -y autoremove \
    && apt-get -y clean
RUN npm i -g %s
CMD [%s]
`, spec.clientPackage, globals, cmd)
}

func composeDocument(spec databaseSpec, appCmd string) orderedMap {
	mainVol := "app-" + spec.volumePrefix
	testVol := mainVol + "-testing"

	redisHealth := &composeHealth{
		Test:    []string{"CMD", "redis-cli", "ping"},
		Retries: 3,
		Timeout: "5s",
	}

	services := orderedMap{
		{"app", composeService{
			Build:    ".",
			Restart:  "always",
			Ports:    []string{"${APP_PORT}:3000"},
			Platform: "linux/amd64",
			Volumes:  []string{".:/home/app"},
			Command:  fmt.Sprintf("bash -c %q", appCmd),
			DependsOn: orderedMap{
				{"db", healthyCondition{Condition: "service_healthy"}},
				{"redis", healthyCondition{Condition: "service_healthy"}},
			},
			Networks: []string{appNetwork},
		}},
		{"db", dbService(spec, "${DB_NAME}", mainVol, true)},
		{"db-test", dbService(spec, "${DB_NAME}_test", testVol, false)},
		{"redis", composeService{
			Image:       "redis:alpine",
			Ports:       []string{"${FORWARD_REDIS_PORT:-6379}:6379"},
			Volumes:     []string{"app-redis:/data"},
			Networks:    []string{appNetwork},
			Healthcheck: redisHealth,
		}},
		{"redis-test", composeService{
			Image:       "redis:alpine",
			Volumes:     []string{"app-redis-testing:/data"},
			Networks:    []string{appNetwork},
			Healthcheck: redisHealth,
		}},
	}

	local := namedDriver{Driver: "local"}
	return orderedMap{
		{"services", services},
		{"networks", orderedMap{{appNetwork, namedDriver{Driver: "bridge"}}}},
		{"volumes", orderedMap{
			{mainVol, local},
			{testVol, local},
			{"app-redis", local},
			{"app-redis-testing", local},
		}},
	}
}

func dbService(spec databaseSpec, dbVar, volume string, exposed bool) composeService {
	env := orderedMap{
		{spec.envUser, "${DB_USERNAME}"},
		{spec.envPassword, "${DB_PASSWORD}"},
		{spec.envDatabase, dbVar},
	}
	for _, kv := range spec.extraEnv {
		env = append(env, mapItem{kv[0], kv[1]})
	}

	hc := spec.health(dbVar)
	svc := composeService{
		Image:       spec.image,
		Environment: env,
		Volumes:     []string{volume + ":" + spec.dataDir},
		Networks:    []string{appNetwork},
		Healthcheck: &composeHealth{
			Test:        hc.test,
			Interval:    hc.interval,
			Timeout:     hc.timeout,
			Retries:     hc.retries,
			StartPeriod: hc.start,
		},
	}
	if exposed {
		svc.Ports = []string{fmt.Sprintf("${FORWARD_DB_PORT:-%d}:%d", spec.port, spec.port)}
	}
	return svc
}
