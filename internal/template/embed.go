// Package template renders the NestJS source bodies a generated project is
// made of. The bodies are opaque text kept under templates/; only their
// conditional wiring is expressed with template actions.
package template

import "embed"

//go:embed all:templates
var embedded embed.FS
