package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadAndRender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main_prompt.txt")
	content := "You are a customer support assistant.\n\nCustomer question: {{.Question}}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}

	tmpl, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	rendered, err := tmpl.Render("Where is my order?")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !strings.Contains(rendered, "Customer question: Where is my order?") {
		t.Errorf("rendered prompt missing question: %q", rendered)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing template file")
	}
}

func TestLoad_InvalidTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main_prompt.txt")
	if err := os.WriteFile(path, []byte("{{.Invalid"), 0644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid template syntax")
	}
}
