package endpoints

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write endpoints file: %v", err)
	}
	return path
}

func TestLoadRegistryYAML(t *testing.T) {
	path := writeFile(t, "endpoints.yaml", `
endpoints:
  - id: bills
    name: Bills
    path: /bills?leg_period=2021-2026
  - id: congresistas
    path: /congresistas
    enabled: false
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 2 {
		t.Fatalf("expected 2 endpoints, got %d", len(reg.All()))
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "bills" {
		t.Fatalf("unexpected enabled endpoints %#v", enabled)
	}
	e, ok := reg.ByID("congresistas")
	if !ok || e.Name != "congresistas" {
		t.Fatalf("expected name to default to id, got %#v", e)
	}
	if b, _ := reg.ByID("bills"); b.Path != "/bills?leg_period=2021-2026" {
		t.Fatalf("path altered: %q", b.Path)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, "endpoints.json", `{"endpoints":[{"id":"events","path":"/events?bill_id=2021_10307"}]}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if _, ok := reg.ByID("events"); !ok {
		t.Fatalf("expected events endpoint")
	}
}

func TestLoadRegistryRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"duplicate": `
endpoints:
  - id: a
    path: /a
  - id: a
    path: /b
`,
		"missing path": `
endpoints:
  - id: a
`,
		"bad id": `
endpoints:
  - id: "a:b"
    path: /a
`,
		"empty": `endpoints: []`,
		"unknown key": `
endpoints:
  - id: a
    url: /a
`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadRegistry(writeFile(t, "endpoints.yaml", content)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadRegistryEmptyPath(t *testing.T) {
	if _, err := LoadRegistry("  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
