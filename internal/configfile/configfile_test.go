package configfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Items []struct {
		ID    string `json:"id" yaml:"id"`
		Token string `json:"token" yaml:"token"`
	} `json:"items" yaml:"items"`
}

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadYAMLExpandsEnv(t *testing.T) {
	t.Setenv("ESTECON_TEST_TOKEN", "s3cret")
	path := write(t, "cfg.yml", "items:\n  - id: a\n    token: ${ESTECON_TEST_TOKEN}\n")

	var got sample
	if err := Load(path, &got); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Token != "s3cret" {
		t.Fatalf("unexpected decode %#v", got)
	}
}

func TestLoadKeepsEscapedDollar(t *testing.T) {
	path := write(t, "cfg.yaml", "items:\n  - id: price$$\n")
	var got sample
	if err := Load(path, &got); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Items[0].ID != "price$" {
		t.Fatalf("ID = %q, want price$", got.Items[0].ID)
	}
}

func TestLoadJSON(t *testing.T) {
	path := write(t, "cfg.json", `{"items":[{"id":"b"}]}`)
	var got sample
	if err := Load(path, &got); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Items[0].ID != "b" {
		t.Fatalf("unexpected decode %#v", got)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	for name, content := range map[string]string{
		"cfg.yaml": "items:\n  - id: a\n    tokn: x\n",
		"cfg.json": `{"items":[{"id":"a","tokn":"x"}]}`,
	} {
		var got sample
		if err := Load(write(t, name, content), &got); err == nil {
			t.Fatalf("%s: expected unknown key error", name)
		}
	}
}

func TestLoadEmptyYAMLIsNotAnError(t *testing.T) {
	var got sample
	if err := Load(write(t, "empty.yaml", ""), &got); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Items) != 0 {
		t.Fatalf("expected no items, got %#v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	var got sample
	err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &got)
	if err == nil || !strings.Contains(err.Error(), "nope.yaml") {
		t.Fatalf("expected read error naming the file, got %v", err)
	}
	if err := Load("  ", &got); err == nil {
		t.Fatalf("expected empty path error")
	}
}
