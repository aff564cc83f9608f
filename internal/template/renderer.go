package template

import (
	"bytes"
	"io/fs"
	"slices"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"
)

// templateFuncMap extends the sprig text functions with helpers for
// emitting TypeScript and Markdown.
var templateFuncMap = func() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	// tsString quotes s as a single-quoted TypeScript string literal.
	funcs["tsString"] = func(s string) string {
		r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`)
		return "'" + r.Replace(s) + "'"
	}
	return funcs
}()

// Renderer renders Go text/template files with strict mode enabled.
type Renderer interface {
	// Render parses the named template from the backing FS and executes
	// it with the given data. Returns ErrTemplateNotFound when the name is
	// unknown and ErrMissingTemplateKey if a key is missing.
	Render(templateName string, data any) (string, error)

	// Names returns the sorted names of all available templates.
	Names() []string
}

// renderer is the concrete implementation of Renderer.
type renderer struct {
	fsys fs.FS
}

// NewRenderer creates a Renderer backed by the given filesystem.
// In production the fs.FS is the embedded template set; in tests use
// testing/fstest.MapFS.
func NewRenderer(fsys fs.FS) Renderer {
	return &renderer{fsys: fsys}
}

// Default returns a Renderer over the embedded NestJS templates.
func Default() Renderer {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return NewRenderer(sub)
}

// Render parses and executes a template with strict mode (missingkey=error).
func (r *renderer) Render(templateName string, data any) (string, error) {
	content, err := fs.ReadFile(r.fsys, templateName)
	if err != nil {
		return "", errors.Wrapf(ErrTemplateNotFound, "%s", templateName)
	}

	tmpl, err := template.New(templateName).
		Funcs(templateFuncMap).
		Option("missingkey=error").
		Parse(string(content))
	if err != nil {
		return "", errors.Wrapf(err, "template parse %q", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(errors.Mark(err, ErrMissingTemplateKey), "render %q", templateName)
	}
	return buf.String(), nil
}

// Names walks the backing filesystem and lists every file.
func (r *renderer) Names() []string {
	var names []string
	_ = fs.WalkDir(r.fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			names = append(names, path)
		}
		return nil
	})
	slices.Sort(names)
	return names
}
