package variant

import (
	"strings"

	"github.com/samber/lo"

	"github.com/nestify-dev/nestify/pkg/models"
)

// InstallCommand returns the literal install invocation for pm.
// With no packages it is the bare install ("npm install", "yarn",
// "pnpm install"); otherwise the add form, with the dev flag when isDev.
//
// @MX:ANCHOR: [AUTO] Single source of truth for install command syntax.
// @MX:REASON: CI workflow, compose command, README and recovery hints all embed this string.
func InstallCommand(pm models.PackageManager, packages []string, isDev bool) (string, error) {
	spec, err := lookupManager(pm)
	if err != nil {
		return "", err
	}
	if len(packages) == 0 {
		return spec.install, nil
	}

	parts := []string{spec.add}
	if isDev {
		parts = append(parts, spec.devFlag)
	}
	parts = append(parts, packages...)
	return strings.Join(parts, " "), nil
}

// RunCommand returns the invocation of a package.json script.
func RunCommand(pm models.PackageManager, script string) (string, error) {
	spec, err := lookupManager(pm)
	if err != nil {
		return "", err
	}
	return spec.run + " " + script, nil
}

// ExecCommand returns the invocation of a locally installed binary,
// e.g. "npx prisma generate".
func ExecCommand(pm models.PackageManager, args ...string) (string, error) {
	spec, err := lookupManager(pm)
	if err != nil {
		return "", err
	}
	return strings.Join(append([]string{spec.exec}, args...), " "), nil
}

// StartCommand returns the development server invocation.
func StartCommand(pm models.PackageManager) (string, error) {
	return RunCommand(pm, "start:dev")
}

// CacheKey returns the actions/setup-node cache identifier for pm.
func CacheKey(pm models.PackageManager) (string, error) {
	spec, err := lookupManager(pm)
	if err != nil {
		return "", err
	}
	return spec.cacheKey, nil
}

// HasHardError reports whether any stderr line starts with one of pm's fatal
// markers. A match fails an install even when the process exited zero.
func HasHardError(pm models.PackageManager, stderr string) bool {
	spec, err := lookupManager(pm)
	if err != nil {
		return false
	}
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		for _, marker := range spec.errorMarkers {
			if strings.HasPrefix(line, marker) {
				return true
			}
		}
	}
	return false
}

// transientMarkers are network error codes Node.js package managers print
// when the registry connection fails rather than the install itself.
var transientMarkers = []string{
	"ECONNRESET",
	"ETIMEDOUT",
	"EAI_AGAIN",
	"ECONNREFUSED",
	"ENOTFOUND",
	"socket hang up",
}

// IsTransientFailure reports whether stderr shows a network failure worth
// retrying.
func IsTransientFailure(stderr string) bool {
	return lo.SomeBy(transientMarkers, func(m string) bool {
		return strings.Contains(stderr, m)
	})
}
