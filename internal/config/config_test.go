package config

import (
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spacebook.yaml")
	cfg := Default()
	cfg.Account.Email = "ada@x.com"
	cfg.Storage.DBPath = "/tmp/test.db"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Account.Email != "ada@x.com" {
		t.Fatalf("email not preserved: %q", got.Account.Email)
	}
	if got.Storage.DBPath != "/tmp/test.db" {
		t.Fatalf("db path not preserved: %q", got.Storage.DBPath)
	}
	if got.Server.BaseURL != Default().Server.BaseURL {
		t.Fatalf("base url not preserved: %q", got.Server.BaseURL)
	}
	if got.Publisher.MaxAttempts != Default().Publisher.MaxAttempts {
		t.Fatalf("publisher settings not preserved: %+v", got.Publisher)
	}
}

func TestSaveEmptyPath(t *testing.T) {
	if err := Save("", Default()); err == nil {
		t.Fatal("expected error for empty path")
	}
}
