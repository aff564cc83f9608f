package template

import (
	"slices"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/cockroachdb/errors"
)

func TestRendererRender(t *testing.T) {
	t.Run("successful_render", func(t *testing.T) {
		fs := fstest.MapFS{
			"main.ts.tmpl": &fstest.MapFile{
				Data: []byte("const app = '{{.Name}}';{{if .Swagger}}\nsetupSwagger(app);{{end}}\n"),
			},
		}
		r := NewRenderer(fs)

		got, err := r.Render("main.ts.tmpl", map[string]any{"Name": "orders", "Swagger": true})
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		want := "const app = 'orders';\nsetupSwagger(app);\n"
		if got != want {
			t.Errorf("Render = %q, want %q", got, want)
		}
	})

	t.Run("missing_key_strict_mode", func(t *testing.T) {
		fs := fstest.MapFS{
			"test.tmpl": &fstest.MapFile{Data: []byte("{{.Name}} uses {{.ORM}}")},
		}
		_, err := NewRenderer(fs).Render("test.tmpl", map[string]string{"Name": "orders"})
		if !errors.Is(err, ErrMissingTemplateKey) {
			t.Errorf("error = %v, want ErrMissingTemplateKey", err)
		}
	})

	t.Run("nonexistent_template", func(t *testing.T) {
		_, err := NewRenderer(fstest.MapFS{}).Render("nonexistent.tmpl", nil)
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("error = %v, want ErrTemplateNotFound", err)
		}
	})

	t.Run("parse_error", func(t *testing.T) {
		fs := fstest.MapFS{"bad.tmpl": &fstest.MapFile{Data: []byte("{{if .X}")}}
		_, err := NewRenderer(fs).Render("bad.tmpl", nil)
		if err == nil || errors.Is(err, ErrMissingTemplateKey) {
			t.Errorf("error = %v, want a parse error", err)
		}
	})

	t.Run("sprig_functions", func(t *testing.T) {
		fs := fstest.MapFS{"f.tmpl": &fstest.MapFile{Data: []byte(`{{.Name | upper}} {{join ", " .List}}`)}}
		got, err := NewRenderer(fs).Render("f.tmpl", map[string]any{"Name": "api", "List": []string{"20.x", "22.x"}})
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		if got != "API 20.x, 22.x" {
			t.Errorf("Render = %q", got)
		}
	})

	t.Run("default_with_tsString", func(t *testing.T) {
		fs := fstest.MapFS{"f.tmpl": &fstest.MapFile{Data: []byte(`{{ tsString (default "The API description" .Description) }}`)}}
		for desc, want := range map[string]string{"": `'The API description'`, "Shop": `'Shop'`} {
			got, err := NewRenderer(fs).Render("f.tmpl", map[string]any{"Description": desc})
			if err != nil {
				t.Fatalf("Render error: %v", err)
			}
			if got != want {
				t.Errorf("Render(%q) = %q, want %q", desc, got, want)
			}
		}
	})
}

func TestTSString(t *testing.T) {
	tsString := templateFuncMap["tsString"].(func(string) string)
	tests := []struct {
		in, want string
	}{
		{"A NestJS application", `'A NestJS application'`},
		{"it's", `'it\'s'`},
		{`C:\path`, `'C:\\path'`},
		{"two\nlines", `'two\nlines'`},
	}
	for _, tt := range tests {
		if got := tsString(tt.in); got != tt.want {
			t.Errorf("tsString(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestDefaultNames(t *testing.T) {
	names := Default().Names()
	if !slices.IsSorted(names) {
		t.Error("Names() not sorted")
	}
	for _, want := range []string{
		"src/main.ts.tmpl",
		"src/app.module.ts.tmpl",
		"root/README.md.tmpl",
		"auth/auth.module.ts.tmpl",
		"test/app.e2e-spec.ts.tmpl",
	} {
		if !slices.Contains(names, want) {
			t.Errorf("embedded templates missing %s", want)
		}
	}
	for _, n := range names {
		if !strings.HasSuffix(n, ".tmpl") {
			t.Errorf("unexpected non-template file %s", n)
		}
	}
}
