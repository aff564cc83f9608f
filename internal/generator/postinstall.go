package generator

import (
	"github.com/nestify-dev/nestify/pkg/models"
)

// Auth emits the JWT authentication scaffolding. It runs only after a
// successful dependency install because every file imports packages the
// install step adds. Exactly one user adapter is emitted, chosen by ORM.
//
// @MX:NOTE: [AUTO] Paths must not overlap the pipeline output; Run rejects collisions.
func Auth(cfg models.ProjectConfig) (FileSet, error) {
	set := NewFileSet()
	if !cfg.AuthEnabled() {
		return set, nil
	}

	data, err := newTemplateData(cfg)
	if err != nil {
		return FileSet{}, err
	}
	// The auth sources are written only when the flow reaches this point.
	data.Auth = true

	pairs := []string{
		"src/modules/auth/auth.module.ts", "auth/auth.module.ts.tmpl",
		"src/modules/auth/controllers/auth.controller.ts", "auth/auth.controller.ts.tmpl",
		"src/modules/auth/services/auth.service.ts", "auth/auth.service.ts.tmpl",
		"src/modules/auth/services/auth.service.spec.ts", "auth/auth.service.spec.ts.tmpl",
		"src/modules/auth/dto/register.dto.ts", "auth/register.dto.ts.tmpl",
		"src/modules/auth/dto/login.dto.ts", "auth/login.dto.ts.tmpl",
		"src/modules/auth/strategies/jwt.strategy.ts", "auth/jwt.strategy.ts.tmpl",
		"src/modules/auth/strategies/local.strategy.ts", "auth/local.strategy.ts.tmpl",
		"src/common/guards/jwt-auth.guard.ts", "auth/jwt-auth.guard.ts.tmpl",
		"src/common/guards/local-auth.guard.ts", "auth/local-auth.guard.ts.tmpl",
		"src/modules/user/user.module.ts", "auth/user.module.ts.tmpl",
		"src/modules/user/services/user.service.ts", "auth/user.service.ts.tmpl",
		"src/modules/user/controllers/user.controller.ts", "auth/user.controller.ts.tmpl",
	}
	switch cfg.EffectiveORM() {
	case models.ORMTypeORM:
		pairs = append(pairs, "src/database/entities/user.entity.ts", "auth/user.entity.ts.tmpl")
	case models.ORMMongoose:
		pairs = append(pairs, "src/modules/user/schemas/user.schema.ts", "auth/user.schema.ts.tmpl")
	case models.ORMPrisma:
		pairs = append(pairs,
			"src/modules/user/repositories/user.repository.ts", "auth/user.repository.ts.tmpl",
			"prisma/AUTH_MODEL.md", "auth/AUTH_MODEL.md.tmpl",
		)
	}

	if err := renderInto(set, data, pairs...); err != nil {
		return FileSet{}, err
	}
	return set, nil
}

// PrismaClient emits the injectable Prisma client module. It runs after
// prisma generate has produced the client it imports.
func PrismaClient(cfg models.ProjectConfig) (FileSet, error) {
	set := NewFileSet()
	if !cfg.UsesPrisma() {
		return set, nil
	}
	data, err := newTemplateData(cfg)
	if err != nil {
		return FileSet{}, err
	}
	err = renderInto(set, data,
		"src/prisma/prisma.service.ts", "src/prisma.service.ts.tmpl",
		"src/prisma/prisma.module.ts", "src/prisma.module.ts.tmpl",
	)
	if err != nil {
		return FileSet{}, err
	}
	return set, nil
}

// Wiring records which post-install modules have been written to disk.
type Wiring struct {
	Prisma bool
	Auth   bool
}

// AppRoot re-renders the entry files that import post-install modules so
// they reference exactly the modules w marks as written. Source renders the
// same files with an empty Wiring.
func AppRoot(cfg models.ProjectConfig, w Wiring) (FileSet, error) {
	data, err := newTemplateData(cfg)
	if err != nil {
		return FileSet{}, err
	}
	data.PrismaWired = w.Prisma && cfg.UsesPrisma()
	data.Auth = w.Auth && cfg.AuthEnabled()

	set := NewFileSet()
	err = renderInto(set, data,
		"src/main.ts", "src/main.ts.tmpl",
		"src/app.module.ts", "src/app.module.ts.tmpl",
	)
	if err != nil {
		return FileSet{}, err
	}
	return set, nil
}
