package models

import (
	"errors"
	"strings"
	"testing"
)

func validConfig() ProjectConfig {
	return ProjectConfig{
		Name: "shop-api",
		Path: "/tmp/shop-api",
		Answers: ProjectAnswers{
			PackageManager: PackageManagerNPM,
			Database:       DatabaseMySQL,
			ORM:            ORMTypeORM,
		},
	}
}

func TestPackageManagerIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pm    PackageManager
		valid bool
	}{
		{PackageManagerNPM, true},
		{PackageManagerYarn, true},
		{PackageManagerPNPM, true},
		{"", false},
		{"bun", false},
		{"NPM", false},
	}
	for _, tt := range tests {
		if got := tt.pm.IsValid(); got != tt.valid {
			t.Errorf("PackageManager(%q).IsValid() = %v, want %v", tt.pm, got, tt.valid)
		}
	}
}

func TestDatabaseIsValidAndRelational(t *testing.T) {
	t.Parallel()

	tests := []struct {
		db         Database
		valid      bool
		relational bool
	}{
		{DatabaseNone, true, false},
		{DatabaseMySQL, true, true},
		{DatabasePostgres, true, true},
		{DatabaseMongoDB, true, false},
		{"sqlite", false, false},
	}
	for _, tt := range tests {
		if got := tt.db.IsValid(); got != tt.valid {
			t.Errorf("Database(%q).IsValid() = %v, want %v", tt.db, got, tt.valid)
		}
		if got := tt.db.IsRelational(); got != tt.relational {
			t.Errorf("Database(%q).IsRelational() = %v, want %v", tt.db, got, tt.relational)
		}
	}
}

func TestORMIsValid(t *testing.T) {
	t.Parallel()

	if !ORMNone.IsValid() || !ORMTypeORM.IsValid() || !ORMPrisma.IsValid() {
		t.Error("user-selectable ORMs must be valid")
	}
	if ORMMongoose.IsValid() {
		t.Error("mongoose is derived and must not be accepted as input")
	}
}

func TestEffectiveORM(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		db   Database
		orm  ORM
		want ORM
	}{
		{"no database ignores orm", DatabaseNone, ORMPrisma, ORMNone},
		{"mysql default", DatabaseMySQL, ORMNone, ORMTypeORM},
		{"mysql typeorm", DatabaseMySQL, ORMTypeORM, ORMTypeORM},
		{"postgres prisma", DatabasePostgres, ORMPrisma, ORMPrisma},
		{"mongodb default", DatabaseMongoDB, ORMNone, ORMMongoose},
		{"mongodb typeorm maps to mongoose", DatabaseMongoDB, ORMTypeORM, ORMMongoose},
		{"mongodb prisma", DatabaseMongoDB, ORMPrisma, ORMPrisma},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Answers.Database = tt.db
			cfg.Answers.ORM = tt.orm
			if got := cfg.EffectiveORM(); got != tt.want {
				t.Errorf("EffectiveORM() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAuthEnabled(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Answers.UseAuth = true
	if cfg.AuthEnabled() {
		t.Error("AuthEnabled() = true without a strategy, want false")
	}

	cfg.Answers.AuthStrategies = []string{AuthStrategyJWT}
	if !cfg.AuthEnabled() {
		t.Fatal("jwt auth should be enabled")
	}

	cfg.SkipInstall = true
	if !cfg.AuthEnabled() || cfg.PostInstall() {
		t.Error("SkipInstall should only turn off PostInstall")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*ProjectConfig)
		wantErr error
	}{
		{"valid", func(*ProjectConfig) {}, nil},
		{"empty name", func(c *ProjectConfig) { c.Name = "" }, ErrInvalidName},
		{"uppercase name", func(c *ProjectConfig) { c.Name = "ShopAPI" }, ErrInvalidName},
		{"name with slash", func(c *ProjectConfig) { c.Name = "a/b" }, ErrInvalidName},
		{"name too long", func(c *ProjectConfig) { c.Name = strings.Repeat("a", 215) }, ErrInvalidName},
		{"relative path", func(c *ProjectConfig) { c.Path = "shop-api" }, ErrInvalidPath},
		{"bad package manager", func(c *ProjectConfig) { c.Answers.PackageManager = "bun" }, ErrInvalidPackageManager},
		{"bad database", func(c *ProjectConfig) { c.Answers.Database = "oracle" }, ErrInvalidDatabase},
		{"bad orm", func(c *ProjectConfig) { c.Answers.ORM = "sequelize" }, ErrInvalidORM},
		{"auth without strategy", func(c *ProjectConfig) { c.Answers.UseAuth = true }, ErrAuthStrategyRequired},
		{"auth with oauth", func(c *ProjectConfig) {
			c.Answers.UseAuth = true
			c.Answers.AuthStrategies = []string{"oauth"}
		}, ErrUnsupportedAuthStrategy},
		{"auth without database", func(c *ProjectConfig) {
			c.Answers.UseAuth = true
			c.Answers.AuthStrategies = []string{AuthStrategyJWT}
			c.Answers.Database = DatabaseNone
		}, ErrAuthRequiresDatabase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want errors.Is %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	t.Parallel()

	cfg := ProjectConfig{Name: "Bad Name", Answers: ProjectAnswers{PackageManager: "bun", Database: "oracle"}}
	err := cfg.Validate()

	var verrs *ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Validate() error type = %T, want *ValidationErrors", err)
	}
	if len(verrs.Errors) != 3 {
		t.Errorf("got %d errors, want 3: %v", len(verrs.Errors), err)
	}
	if !strings.Contains(err.Error(), `field "package_manager"`) {
		t.Errorf("error message missing field name: %s", err)
	}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	got := NormalizeName("  cafe\u0301  ")
	if got != "caf\u00e9" {
		t.Errorf("NormalizeName() = %q, want %q", got, "caf\u00e9")
	}
}
