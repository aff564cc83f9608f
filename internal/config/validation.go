package config

import (
	"time"

	"github.com/nestify-dev/nestify/pkg/models"
)

// Validate checks the merged settings for correctness. Every problem is
// reported in one *models.ValidationErrors matching ErrInvalidConfig.
func Validate(s Settings) error {
	var errs []models.ValidationError

	if !s.PackageManager.IsValid() {
		errs = append(errs, models.ValidationError{
			Field:   KeyPackageManager,
			Message: "must be one of: npm, yarn, pnpm",
			Value:   s.PackageManager,
			Wrapped: ErrInvalidConfig,
		})
	}

	timeouts := []struct {
		key string
		d   time.Duration
	}{
		{KeyInstallTimeout, s.Timeouts.Install},
		{KeyPrismaTimeout, s.Timeouts.Prisma},
		{KeyFormatTimeout, s.Timeouts.Format},
	}
	for _, t := range timeouts {
		if t.d <= 0 {
			errs = append(errs, models.ValidationError{
				Field:   t.key,
				Message: "must be a positive duration such as 90s or 5m",
				Value:   t.d,
				Wrapped: ErrInvalidConfig,
			})
		}
	}

	if s.InstallRetries < 0 {
		errs = append(errs, models.ValidationError{
			Field:   KeyInstallRetries,
			Message: "must not be negative",
			Value:   s.InstallRetries,
			Wrapped: ErrInvalidConfig,
		})
	}

	if len(errs) > 0 {
		return &models.ValidationErrors{Errors: errs}
	}
	return nil
}
