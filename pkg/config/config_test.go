package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mongo.Database != "sports_corpus" || cfg.Mongo.Collection != "documents" {
		t.Errorf("unexpected mongo defaults: %+v", cfg.Mongo)
	}
	if !cfg.Index.Compress {
		t.Error("compression should default to on")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  port: 9191
mongo:
  uri: mongodb://db:27017
  database: corpus
index:
  dumpPath: /data/web.idx
  compress: false
redis:
  enabled: true
  cacheTTL: 30s
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("port = %d, want 9191", cfg.Server.Port)
	}
	if cfg.Mongo.URI != "mongodb://db:27017" || cfg.Mongo.Database != "corpus" {
		t.Errorf("mongo = %+v", cfg.Mongo)
	}
	if cfg.Index.DumpPath != "/data/web.idx" || cfg.Index.Compress {
		t.Errorf("index = %+v", cfg.Index)
	}
	if !cfg.Redis.Enabled || cfg.Redis.CacheTTL != 30*time.Second {
		t.Errorf("redis = %+v", cfg.Redis)
	}
	// Untouched sections keep their defaults.
	if cfg.Search.DefaultLimit != 10 {
		t.Errorf("search defaults lost: %+v", cfg.Search)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load succeeded on a missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WS_MONGO_URI", "mongodb://override:27017")
	t.Setenv("WS_REDIS_ADDR", "cache:6379")
	t.Setenv("WS_INDEX_COMPRESS", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mongo.URI != "mongodb://override:27017" {
		t.Errorf("mongo uri = %q", cfg.Mongo.URI)
	}
	if !cfg.Redis.Enabled || cfg.Redis.Addr != "cache:6379" {
		t.Errorf("redis = %+v", cfg.Redis)
	}
	if cfg.Index.Compress {
		t.Error("WS_INDEX_COMPRESS=false not applied")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg, _ := Load("")
	cfg.Server.Port = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative port accepted")
	}

	cfg, _ = Load("")
	cfg.Search.MaxResults = 1
	if err := cfg.Validate(); err == nil {
		t.Error("maxResults below defaultLimit accepted")
	}
}
