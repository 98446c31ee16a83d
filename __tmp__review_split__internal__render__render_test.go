package render

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create template dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write template %s: %v", name, err)
	}
}

func staticSecrets(values map[string]string) SecretFunc {
	return func(key, secretType string, byteLength int) (string, error) {
		value, ok := values[key]
		if !ok {
			return "", errors.New("unexpected secret key: " + key)
		}
		return value, nil
	}
}

func TestRenderAll(t *testing.T) {
	templatesDir := t.TempDir()
	outDir := t.TempDir()

	writeTemplate(t, templatesDir, "app.yml.j2", "host: {{ config.db.host }}\nport: {{ config.db.port }}\n")
	writeTemplate(t, templatesDir, filepath.Join("nested", "service.conf.j2"), "token={{ secret(\"api_token\", \"hex\", 4) }}\n")
	writeTemplate(t, templatesDir, "notes.txt", "not a template\n")

	config := map[string]any{"db": map[string]any{"host": "postgres", "port": 5432}}
	renderer := New(templatesDir, zaptest.NewLogger(t))

	written, err := renderer.RenderAll(outDir, config, staticSecrets(map[string]string{"api_token": "deadbeef"}))
	if err != nil {
		t.Fatalf("RenderAll returned error: %v", err)
	}

	want := []string{
		filepath.Join(outDir, "app.yml"),
		filepath.Join(outDir, "nested", "service.conf"),
	}
	if len(written) != len(want) {
		t.Fatalf("expected %d artifacts, got %v", len(want), written)
	}
	for i, dest := range want {
		if written[i] != dest {
			t.Fatalf("expected artifact %s at position %d, got %s", dest, i, written[i])
		}
	}

	app, err := os.ReadFile(want[0])
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if got := string(app); got != "host: postgres\nport: 5432\n" {
		t.Fatalf("unexpected rendered content: %q", got)
	}

	service, err := os.ReadFile(want[1])
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if got := string(service); got != "token=deadbeef\n" {
		t.Fatalf("unexpected rendered content: %q", got)
	}

	if _, err := os.Stat(filepath.Join(outDir, "notes.txt")); !os.IsNotExist(err) {
		t.Fatalf("non-template file must not be copied")
	}
}

func TestRenderAllSecretFuncSeesCallSite(t *testing.T) {
	templatesDir := t.TempDir()
	writeTemplate(t, templatesDir, "conf.j2", "{{ secret(\"db_app_pass\", \"urlsafe\", 18) }}")

	var gotKey, gotType string
	var gotBytes int
	resolve := func(key, secretType string, byteLength int) (string, error) {
		gotKey, gotType, gotBytes = key, secretType, byteLength
		return "value", nil
	}

	renderer := New(templatesDir, zaptest.NewLogger(t))
	if _, err := renderer.RenderAll(t.TempDir(), map[string]any{}, resolve); err != nil {
		t.Fatalf("RenderAll returned error: %v", err)
	}

	if gotKey != "db_app_pass" || gotType != "urlsafe" || gotBytes != 18 {
		t.Fatalf("unexpected call-site descriptor: %s %s %d", gotKey, gotType, gotBytes)
	}
}

func TestRenderAllPropagatesResolverError(t *testing.T) {
	templatesDir := t.TempDir()
	writeTemplate(t, templatesDir, "conf.j2", "{{ secret(\"k\", \"base32\", 8) }}")

	wantErr := errors.New("unknown secret type")
	resolve := func(key, secretType string, byteLength int) (string, error) {
		return "", wantErr
	}

	renderer := New(templatesDir, zaptest.NewLogger(t))
	if _, err := renderer.RenderAll(t.TempDir(), map[string]any{}, resolve); !errors.Is(err, wantErr) {
		t.Fatalf("expected resolver error to propagate, got %v", err)
	}
}

func TestRenderAllMissingTemplatesDir(t *testing.T) {
	renderer := New(filepath.Join(t.TempDir(), "absent"), zaptest.NewLogger(t))

	if _, err := renderer.RenderAll(t.TempDir(), map[string]any{}, staticSecrets(nil)); err == nil {
		t.Fatalf("expected error for missing templates dir")
	}
}

func TestRenderAllBadTemplateSyntax(t *testing.T) {
	templatesDir := t.TempDir()
	writeTemplate(t, templatesDir, "broken.j2", "{{ unclosed\n")

	renderer := New(templatesDir, zaptest.NewLogger(t))
	_, err := renderer.RenderAll(t.TempDir(), map[string]any{}, staticSecrets(nil))
	if err == nil || !strings.Contains(err.Error(), "broken.j2") {
		t.Fatalf("expected render error naming the template, got %v", err)
	}
}


