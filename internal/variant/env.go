package variant

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nestify-dev/nestify/pkg/models"
)

// Development placeholders. These are written verbatim into generated env
// files and must be replaced by the user before deployment.
const (
	dbUser         = "app_user"
	dbPassword     = "app_password_123"
	jwtSecret      = "your-secret-key-here-change-in-production"
	jwtSecretTest  = "test-secret-key"
	redisPort      = 6379
	redisLocalPort = 6380
	appPort        = 3000
)

// EnvFiles holds the bodies of the main and testing env files.
type EnvFiles struct {
	Main string
	Test string
}

// envDoc accumulates "# heading" separated KEY=value blocks.
type envDoc struct {
	b strings.Builder
}

func (d *envDoc) section(title string, kv ...string) {
	if d.b.Len() > 0 {
		d.b.WriteString("\n")
	}
	d.b.WriteString("# " + title + "\n")
	for i := 0; i+1 < len(kv); i += 2 {
		d.b.WriteString(kv[i] + "=" + kv[i+1] + "\n")
	}
}

func (d *envDoc) String() string { return d.b.String() }

type envHosts struct {
	db, dbTest, redis, redisTest string
}

func hostsFor(useDocker bool) envHosts {
	if useDocker {
		return envHosts{db: "db", dbTest: "db-test", redis: "redis", redisTest: "redis-test"}
	}
	return envHosts{db: "localhost", dbTest: "localhost", redis: "localhost", redisTest: "localhost"}
}

// ConnectionURL assembles the DATABASE_URL value for db.
func ConnectionURL(db models.Database, host string, port int, dbName string) (string, error) {
	spec, err := lookupDatabase(db)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s://%s:%s@%s:%d/%s%s", spec.scheme, dbUser, dbPassword, host, port, dbName, spec.urlQuery), nil
}

// DatabaseEnv resolves the env bodies for a project backed by db. orm is the
// effective mapping library; a DATABASE_URL is emitted for Prisma and for
// MongoDB, whose document mapper reads the URL.
//
// DB_PORT is always the well-known port. Outside Docker, Redis and the test
// DATABASE_URL use the alternate ports; under Docker the alternates are only
// published as FORWARD_* values for host access.
func DatabaseEnv(name string, db models.Database, useDocker bool, orm models.ORM) (EnvFiles, error) {
	spec, err := lookupDatabase(db)
	if err != nil {
		return EnvFiles{}, err
	}

	hosts := hostsFor(useDocker)
	wantURL := orm == models.ORMPrisma || db == models.DatabaseMongoDB
	port := strconv.Itoa(spec.port)
	testName := name + "_test"

	redis := redisLocalPort
	testURLPort := spec.altPort
	if useDocker {
		redis = redisPort
		testURLPort = spec.port
	}

	var main envDoc
	main.section("Application",
		"APP_NAME", name,
		"APP_PORT", strconv.Itoa(appPort),
		"NODE_ENV", "development",
	)
	dbKV := []string{
		"DB_TYPE", spec.typeormType,
		"DB_HOST", hosts.db,
		"DB_PORT", port,
		"DB_NAME", name,
		"DB_USERNAME", dbUser,
		"DB_PASSWORD", dbPassword,
	}
	if wantURL {
		u, _ := ConnectionURL(db, hosts.db, spec.port, name)
		dbKV = append(dbKV, "DATABASE_URL", u)
	}
	main.section("Database - "+spec.display, dbKV...)
	if useDocker {
		main.section("Database Forwarding Ports (for local access)",
			"FORWARD_DB_PORT", strconv.Itoa(spec.altPort),
		)
	}
	redisKV := []string{"REDIS_HOST", hosts.redis, "REDIS_PORT", strconv.Itoa(redis)}
	if useDocker {
		redisKV = append(redisKV, "FORWARD_REDIS_PORT", strconv.Itoa(redisLocalPort))
	}
	main.section("Redis", redisKV...)
	main.section("JWT", "JWT_SECRET", jwtSecret, "JWT_EXPIRES_IN", "7d")
	main.section("API", "API_PREFIX", "api", "API_VERSION", "1")

	var test envDoc
	test.section("Testing Environment",
		"APP_NAME", name,
		"NODE_ENV", "testing",
	)
	testKV := []string{
		"DB_TYPE", spec.typeormType,
		"DB_HOST", hosts.dbTest,
		"DB_PORT", port,
		"DB_NAME", testName,
		"DB_USERNAME", dbUser,
		"DB_PASSWORD", dbPassword,
	}
	if wantURL {
		u, _ := ConnectionURL(db, hosts.dbTest, testURLPort, testName)
		testKV = append(testKV, "DATABASE_URL", u)
	}
	test.section("Test Database - "+spec.display, testKV...)
	test.section("Test Redis", "REDIS_HOST", hosts.redisTest, "REDIS_PORT", strconv.Itoa(redis))
	test.section("JWT for testing", "JWT_SECRET", jwtSecretTest, "JWT_EXPIRES_IN", "1d")
	test.section("API", "API_PREFIX", "api", "API_VERSION", "1")

	return EnvFiles{Main: main.String(), Test: test.String()}, nil
}

// DefaultEnv is the fallback for projects without a database. It still
// carries a DATABASE_URL pointing at a local document store so template code
// that reads the variable needs no separate branch.
func DefaultEnv(name string) EnvFiles {
	var main envDoc
	main.section("Environment variables", "NODE_ENV", "development", "PORT", strconv.Itoa(appPort))
	main.section("Database", "DATABASE_URL", "mongodb://localhost:27017/"+name)
	main.section("JWT", "JWT_SECRET", "your-secret-key-here", "JWT_EXPIRES_IN", "7d")
	main.section("API", "API_PREFIX", "api", "API_VERSION", "1")

	var test envDoc
	test.section("Testing Environment variables", "NODE_ENV", "testing", "PORT", strconv.Itoa(appPort+1))
	test.section("Test Database", "DATABASE_URL", "mongodb://localhost:27017/"+name+"-test")
	test.section("JWT for testing", "JWT_SECRET", jwtSecretTest, "JWT_EXPIRES_IN", "1d")
	test.section("API", "API_PREFIX", "api", "API_VERSION", "1")

	return EnvFiles{Main: main.String(), Test: test.String()}
}
