package template

import "github.com/cockroachdb/errors"

var (
	// ErrTemplateNotFound indicates the requested template does not exist.
	ErrTemplateNotFound = errors.New("template: not found")

	// ErrMissingTemplateKey indicates execution referenced data the caller
	// did not provide.
	ErrMissingTemplateKey = errors.New("template: missing key")
)
