package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadInlineValue(t *testing.T) {
	got, err := Load(Source{Name: "user id", Value: "  user_2abc  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "user_2abc" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
}

func TestLoadFromFileTakesPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user-id")
	if err := os.WriteFile(path, []byte("user_2file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Load(Source{Name: "user id", Value: "inline", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "user_2file" {
		t.Fatalf("expected file value, got %q", got)
	}
}

func TestLoadMissingEverything(t *testing.T) {
	if _, err := Load(Source{Name: "user id"}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user-id")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(Source{Name: "user id", File: path}); err == nil {
		t.Fatal("expected an error for an empty file")
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if _, err := Load(Source{Name: "user id", File: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
