package config

import (
	"time"

	"github.com/nestify-dev/nestify/pkg/models"
)

// Default value constants.
const (
	DefaultPackageManager = models.PackageManagerNPM
	DefaultInstallTimeout = 5 * time.Minute
	DefaultPrismaTimeout  = 2 * time.Minute
	DefaultFormatTimeout  = 2 * time.Minute
	DefaultInstallRetries = 2
)

// Settings keys, shared by the YAML file, environment variables and flags.
const (
	KeyPackageManager = "package_manager"
	KeyInstallTimeout = "timeouts.install"
	KeyPrismaTimeout  = "timeouts.prisma"
	KeyFormatTimeout  = "timeouts.format"
	KeyFormat         = "format"
	KeyGit            = "git"
	KeyVerbose        = "verbose"
	KeyInstallRetries = "install_retries"
)

// Settings are the user-level preferences applied to every invocation.
type Settings struct {
	PackageManager models.PackageManager `mapstructure:"package_manager"`
	Format         bool                  `mapstructure:"format"`
	Git            bool                  `mapstructure:"git"`
	Verbose        bool                  `mapstructure:"verbose"`
	InstallRetries int                   `mapstructure:"install_retries"`
	Timeouts       Timeouts              `mapstructure:"timeouts"`
}

// Timeouts bounds the external commands run after generation.
type Timeouts struct {
	Install time.Duration `mapstructure:"install"`
	Prisma  time.Duration `mapstructure:"prisma"`
	Format  time.Duration `mapstructure:"format"`
}

// NewDefaultSettings returns Settings with all fields set to compiled defaults.
func NewDefaultSettings() Settings {
	return Settings{
		PackageManager: DefaultPackageManager,
		Format:         true,
		Git:            true,
		InstallRetries: DefaultInstallRetries,
		Timeouts: Timeouts{
			Install: DefaultInstallTimeout,
			Prisma:  DefaultPrismaTimeout,
			Format:  DefaultFormatTimeout,
		},
	}
}

func defaultValues() map[string]any {
	d := NewDefaultSettings()
	return map[string]any{
		KeyPackageManager: string(d.PackageManager),
		KeyInstallTimeout: d.Timeouts.Install,
		KeyPrismaTimeout:  d.Timeouts.Prisma,
		KeyFormatTimeout:  d.Timeouts.Format,
		KeyFormat:         d.Format,
		KeyGit:            d.Git,
		KeyVerbose:        d.Verbose,
		KeyInstallRetries: d.InstallRetries,
	}
}
