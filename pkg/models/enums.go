// @MX:NOTE: [AUTO] Choice axes for project generation. Every resolver table is keyed by these values.
package models

// PackageManager identifies the Node.js package manager used by a generated project.
type PackageManager string

const (
	PackageManagerNPM  PackageManager = "npm"
	PackageManagerYarn PackageManager = "yarn"
	PackageManagerPNPM PackageManager = "pnpm"
)

// ValidPackageManagers returns all supported package managers in display order.
func ValidPackageManagers() []PackageManager {
	return []PackageManager{PackageManagerNPM, PackageManagerYarn, PackageManagerPNPM}
}

// IsValid checks if the package manager is a supported value.
func (p PackageManager) IsValid() bool {
	switch p {
	case PackageManagerNPM, PackageManagerYarn, PackageManagerPNPM:
		return true
	}
	return false
}

// Database identifies the persistence engine wired into a generated project.
// The zero value means no persistence layer.
type Database string

const (
	DatabaseNone     Database = ""
	DatabaseMySQL    Database = "mysql"
	DatabasePostgres Database = "postgres"
	DatabaseMongoDB  Database = "mongodb"
)

// ValidDatabases returns all selectable databases (excluding none).
func ValidDatabases() []Database {
	return []Database{DatabaseMySQL, DatabasePostgres, DatabaseMongoDB}
}

// IsValid checks if the database is none or a supported engine.
func (d Database) IsValid() bool {
	switch d {
	case DatabaseNone, DatabaseMySQL, DatabasePostgres, DatabaseMongoDB:
		return true
	}
	return false
}

// IsRelational reports whether the database is a SQL engine.
func (d Database) IsRelational() bool {
	return d == DatabaseMySQL || d == DatabasePostgres
}

// ORM identifies the mapping library. ORMMongoose is never selected directly;
// it is what mongodb resolves to unless Prisma was requested.
type ORM string

const (
	ORMNone     ORM = ""
	ORMTypeORM  ORM = "typeorm"
	ORMPrisma   ORM = "prisma"
	ORMMongoose ORM = "mongoose"
)

// ValidORMs returns the ORMs a user may choose.
func ValidORMs() []ORM {
	return []ORM{ORMTypeORM, ORMPrisma}
}

// IsValid checks if the ORM is empty or user-selectable.
func (o ORM) IsValid() bool {
	switch o {
	case ORMNone, ORMTypeORM, ORMPrisma:
		return true
	}
	return false
}

// AuthStrategyJWT is the only supported authentication strategy.
const AuthStrategyJWT = "jwt"

// SupportedAuthStrategies returns the authentication strategies nestify can scaffold.
func SupportedAuthStrategies() []string {
	return []string{AuthStrategyJWT}
}
