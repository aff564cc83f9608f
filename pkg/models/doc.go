// Package models provides the project-generation request model shared by
// every nestify package.
//
// A [ProjectConfig] is built once per invocation from command-line flags and
// questionnaire answers, validated with [ProjectConfig.Validate], and then
// passed by value to generators and orchestration steps. Nothing mutates it
// after validation.
//
// # Choice axes
//
// The generator branches on four enums:
//   - [PackageManager]: npm, yarn, pnpm
//   - [Database]: none, mysql, postgres, mongodb
//   - [ORM]: typeorm, prisma (the document mapper is implied by mongodb)
//   - authentication strategies: currently only "jwt"
//
// Use [ProjectConfig.EffectiveORM] instead of reading Answers.ORM directly:
//
//	switch cfg.EffectiveORM() {
//	case models.ORMPrisma:
//	    // schema-first client
//	case models.ORMMongoose:
//	    // document models
//	}
package models
