// Package variant resolves configuration choices into emitted text.
//
// Every resolver here is a pure function over one or two enum values and the
// project name. The per-database and per-package-manager facts live in the
// two lookup tables below; resolvers consult them instead of switching on
// the enums themselves.
package variant

import (
	"github.com/cockroachdb/errors"

	"github.com/nestify-dev/nestify/pkg/models"
)

// ErrUnknownVariant is returned when a resolver receives an enum value that
// has no entry in its decision table.
var ErrUnknownVariant = errors.New("variant: unknown variant")

// healthCheck is the engine-specific compose health probe.
type healthCheck struct {
	// test is either []string (exec form) or string (shell form).
	test     any
	retries  int
	interval string
	timeout  string
	start    string
}

type databaseSpec struct {
	display        string
	typeormType    string
	port           int
	altPort        int
	prismaProvider string
	scheme         string
	urlQuery       string
	image          string
	clientPackage  string
	dataDir        string
	volumePrefix   string
	envUser        string
	envPassword    string
	envDatabase    string
	extraEnv       [][2]string
	health         func(dbVar string) healthCheck
	runtimePkgs    []string
}

var databases = map[models.Database]databaseSpec{
	models.DatabaseMySQL: {
		display:        "MySQL",
		typeormType:    "mysql",
		port:           3306,
		altPort:        3307,
		prismaProvider: "mysql",
		scheme:         "mysql",
		image:          "mysql/mysql-server:8.0",
		clientPackage:  "mysql-client",
		dataDir:        "/var/lib/mysql",
		volumePrefix:   "mysql",
		envUser:        "MYSQL_USER",
		envPassword:    "MYSQL_PASSWORD",
		envDatabase:    "MYSQL_DATABASE",
		extraEnv: [][2]string{
			{"MYSQL_ROOT_PASSWORD", "${DB_PASSWORD}"},
			{"MYSQL_ROOT_HOST", "%"},
			{"MYSQL_ALLOW_EMPTY_PASSWORD", "1"},
		},
		health: func(string) healthCheck {
			return healthCheck{
				test:     []string{"CMD", "mysqladmin", "ping", "-p${DB_PASSWORD}"},
				retries:  10,
				interval: "5s",
				timeout:  "5s",
				start:    "5s",
			}
		},
		runtimePkgs: []string{"@nestjs/typeorm", "typeorm", "mysql2"},
	},
	models.DatabasePostgres: {
		display:        "PostgreSQL",
		typeormType:    "postgres",
		port:           5432,
		altPort:        5433,
		prismaProvider: "postgresql",
		scheme:         "postgresql",
		urlQuery:       "?schema=public",
		image:          "postgres:16-alpine",
		clientPackage:  "postgresql-client",
		dataDir:        "/var/lib/postgresql/data",
		volumePrefix:   "postgres",
		envUser:        "POSTGRES_USER",
		envPassword:    "POSTGRES_PASSWORD",
		envDatabase:    "POSTGRES_DB",
		health: func(string) healthCheck {
			return healthCheck{
				test:     []string{"CMD-SHELL", "pg_isready -U ${DB_USERNAME}"},
				retries:  10,
				interval: "5s",
				timeout:  "5s",
				start:    "5s",
			}
		},
		runtimePkgs: []string{"@nestjs/typeorm", "typeorm", "pg"},
	},
	models.DatabaseMongoDB: {
		display:        "MongoDB",
		typeormType:    "mongodb",
		port:           27017,
		altPort:        27018,
		prismaProvider: "mongodb",
		scheme:         "mongodb",
		urlQuery:       "?authSource=admin",
		image:          "mongo:7",
		clientPackage:  "mongodb-clients",
		dataDir:        "/data/db",
		volumePrefix:   "mongo",
		envUser:        "MONGO_INITDB_ROOT_USERNAME",
		envPassword:    "MONGO_INITDB_ROOT_PASSWORD",
		envDatabase:    "MONGO_INITDB_DATABASE",
		health: func(dbVar string) healthCheck {
			return healthCheck{
				test:     `echo 'db.runCommand("ping").ok' | mongosh localhost:27017/` + dbVar + ` --quiet`,
				retries:  10,
				interval: "5s",
				timeout:  "5s",
				start:    "5s",
			}
		},
		runtimePkgs: []string{"@nestjs/mongoose", "mongoose"},
	},
}

type managerSpec struct {
	install      string
	add          string
	devFlag      string
	run          string
	exec         string
	cacheKey     string
	globalPkg    string
	errorMarkers []string
}

var managers = map[models.PackageManager]managerSpec{
	models.PackageManagerNPM: {
		install:      "npm install",
		add:          "npm install",
		devFlag:      "--save-dev",
		run:          "npm run",
		exec:         "npx",
		cacheKey:     "npm",
		errorMarkers: []string{"npm ERR!", "npm error"},
	},
	models.PackageManagerYarn: {
		install:      "yarn",
		add:          "yarn add",
		devFlag:      "-D",
		run:          "yarn",
		exec:         "yarn",
		cacheKey:     "yarn",
		globalPkg:    "yarn",
		errorMarkers: []string{"error "},
	},
	models.PackageManagerPNPM: {
		install:      "pnpm install",
		add:          "pnpm add",
		devFlag:      "-D",
		run:          "pnpm run",
		exec:         "pnpm",
		cacheKey:     "pnpm",
		globalPkg:    "pnpm",
		errorMarkers: []string{"ERR_PNPM"},
	},
}

func lookupDatabase(db models.Database) (databaseSpec, error) {
	spec, ok := databases[db]
	if !ok {
		return databaseSpec{}, errors.Wrapf(ErrUnknownVariant, "database %q", db)
	}
	return spec, nil
}

func lookupManager(pm models.PackageManager) (managerSpec, error) {
	spec, ok := managers[pm]
	if !ok {
		return managerSpec{}, errors.Wrapf(ErrUnknownVariant, "package manager %q", pm)
	}
	return spec, nil
}

// DisplayName returns the human-readable engine name, e.g. "PostgreSQL".
func DisplayName(db models.Database) (string, error) {
	spec, err := lookupDatabase(db)
	if err != nil {
		return "", err
	}
	return spec.display, nil
}

// TypeORMType returns the value of the TypeORM "type" connection option.
func TypeORMType(db models.Database) (string, error) {
	spec, err := lookupDatabase(db)
	if err != nil {
		return "", err
	}
	return spec.typeormType, nil
}

// PrismaProvider returns the datasource connector name passed to prisma init.
func PrismaProvider(db models.Database) (string, error) {
	spec, err := lookupDatabase(db)
	if err != nil {
		return "", err
	}
	return spec.prismaProvider, nil
}

// DefaultPort returns the well-known port of the database engine.
func DefaultPort(db models.Database) (int, error) {
	spec, err := lookupDatabase(db)
	if err != nil {
		return 0, err
	}
	return spec.port, nil
}
