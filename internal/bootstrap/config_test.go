package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSetup_Defaults(t *testing.T) {
	cfg, err := Setup(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Setup() error: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q; want 8080", cfg.ServerPort)
	}
	if cfg.StoreDriver != StoreMongo {
		t.Errorf("StoreDriver = %q; want %q", cfg.StoreDriver, StoreMongo)
	}
	if cfg.SelectionTTL != 10*time.Minute {
		t.Errorf("SelectionTTL = %v; want 10m", cfg.SelectionTTL)
	}
}

func TestSetup_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "SERVER_PORT=9090\nSTORE_DRIVER=memory\nLOCAL_CORS=true\nSELECTION_TTL=30s\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	t.Setenv("MONGO_DB", "checkers_test")

	cfg, err := Setup(path)
	if err != nil {
		t.Fatalf("Setup() error: %v", err)
	}
	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q; want 9090", cfg.ServerPort)
	}
	if cfg.StoreDriver != StoreMemory {
		t.Errorf("StoreDriver = %q; want memory", cfg.StoreDriver)
	}
	if !cfg.IsLocalCors {
		t.Error("IsLocalCors = false; want true")
	}
	if cfg.SelectionTTL != 30*time.Second {
		t.Errorf("SelectionTTL = %v; want 30s", cfg.SelectionTTL)
	}
	if cfg.MongoDatabase != "checkers_test" {
		t.Errorf("MongoDatabase = %q; want checkers_test", cfg.MongoDatabase)
	}
}
