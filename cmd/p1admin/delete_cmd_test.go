package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveDeletes(t *testing.T) {
	index := map[string]string{"alice": "id-1"}

	items, unknown := resolveDeletes([]map[string]any{
		{"username": "Alice"},
		{"id": "id-9", "username": "carol"},
		{"username": "ghost"},
	}, index)

	if len(items) != 2 {
		t.Fatalf("resolved %d items, want 2", len(items))
	}
	if items[0]["id"] != "id-1" {
		t.Fatalf("username lookup is case-insensitive; got id %v", items[0]["id"])
	}
	if items[1]["id"] != "id-9" {
		t.Fatalf("explicit id should pass through; got %v", items[1]["id"])
	}
	if len(unknown) != 1 || unknown[0] != "ghost" {
		t.Fatalf("unknown = %v, want [ghost]", unknown)
	}
}

func TestDeleteTargets_FileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.csv")
	if err := os.WriteFile(path, []byte("username,id\nalice,\n,id-2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	targets, err := deleteTargets(deleteOptions{file: path, usernames: []string{" bob ", ""}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(targets) != 3 {
		t.Fatalf("got %d targets, want 3: %v", len(targets), targets)
	}
	if targets[0]["username"] != "alice" {
		t.Fatalf("first target = %v", targets[0])
	}
	if targets[1]["id"] != "id-2" {
		t.Fatalf("second target = %v", targets[1])
	}
	if targets[2]["username"] != "bob" {
		t.Fatalf("flag username should be trimmed; got %v", targets[2])
	}
}

func TestDeleteTargets_LDIFUsesUID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.ldif")
	ldif := "dn: uid=alice\nuid: alice\nmail: alice@example.com\n"
	if err := os.WriteFile(path, []byte(ldif), 0o644); err != nil {
		t.Fatal(err)
	}

	targets, err := deleteTargets(deleteOptions{file: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(targets) != 1 || targets[0]["username"] != "alice" {
		t.Fatalf("targets = %v", targets)
	}
}
