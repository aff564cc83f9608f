package variant

import (
	"regexp"
	"strings"

	"github.com/nestify-dev/nestify/pkg/models"
)

// PrismaGeneratorBlock is the client generator written into schema.prisma.
const PrismaGeneratorBlock = `generator client {
  provider = "prisma-client-js"
}`

var generatorBlockPattern = regexp.MustCompile(`generator\s+client\s+\{[^}]*\}`)

const documentAuthModel = `// Authentication User model
model User {
  id        String   @id @default(auto()) @map("_id") @db.ObjectId
  email     String   @unique
  password  String
  createdAt DateTime @default(now())
  updatedAt DateTime @updatedAt
}
`

const relationalAuthModel = `// Authentication User model
model User {
  id        String   @id @default(uuid())
  email     String   @unique
  password  String
  createdAt DateTime @default(now())
  updatedAt DateTime @updatedAt

  @@index([email])
}
`

const documentExampleModels = `// Example models - modify according to your needs
model User {
  id        String   @id @default(auto()) @map("_id") @db.ObjectId
  email     String   @unique
  name      String?
  posts     Post[]
  createdAt DateTime @default(now())
  updatedAt DateTime @updatedAt
}

model Post {
  id        String   @id @default(auto()) @map("_id") @db.ObjectId
  title     String
  content   String?
  published Boolean  @default(false)
  author    User     @relation(fields: [authorId], references: [id])
  authorId  String   @db.ObjectId
  createdAt DateTime @default(now())
  updatedAt DateTime @updatedAt
}
`

const relationalExampleModels = `// Example models - modify according to your needs
model User {
  id        Int      @id @default(autoincrement())
  email     String   @unique
  name      String?
  posts     Post[]
  createdAt DateTime @default(now())
  updatedAt DateTime @updatedAt

  @@index([email])
}

model Post {
  id        Int      @id @default(autoincrement())
  title     String
  content   String?  @db.Text
  published Boolean  @default(false)
  author    User     @relation(fields: [authorId], references: [id], onDelete: Cascade)
  authorId  Int
  createdAt DateTime @default(now())
  updatedAt DateTime @updatedAt

  @@index([authorId])
  @@index([published])
}
`

// PrismaModels returns the model blocks appended after prisma init. With
// auth only the User model the auth scaffolding expects is emitted.
func PrismaModels(db models.Database, auth bool) (string, error) {
	if _, err := lookupDatabase(db); err != nil {
		return "", err
	}
	document := db == models.DatabaseMongoDB
	switch {
	case auth && document:
		return documentAuthModel, nil
	case auth:
		return relationalAuthModel, nil
	case document:
		return documentExampleModels, nil
	default:
		return relationalExampleModels, nil
	}
}

// PatchPrismaSchema replaces the generator block written by prisma init and
// appends models. A schema without a generator block gets one prepended.
func PatchPrismaSchema(schema string, db models.Database, auth bool) (string, error) {
	modelBlock, err := PrismaModels(db, auth)
	if err != nil {
		return "", err
	}

	if loc := generatorBlockPattern.FindStringIndex(schema); loc != nil {
		schema = schema[:loc[0]] + PrismaGeneratorBlock + schema[loc[1]:]
	} else {
		schema = PrismaGeneratorBlock + "\n\n" + schema
	}
	if !strings.HasSuffix(schema, "\n") {
		schema += "\n"
	}
	return schema + "\n" + modelBlock, nil
}
