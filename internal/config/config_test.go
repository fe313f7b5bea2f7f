package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every override so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "LOG_FORMAT", "CLIENT_ORIGIN", "DB_PATH", "CORPUS_FILE",
		"DAILY_SALT", "JWT_SECRET", "JWT_EXPIRES_DAYS", "COOKIE_NAME", "SESSION_TTL",
		"NODE_ENV", "VECTOR_SOURCE", "VECTOR_PATH", "VECTOR_DIM", "VECTOR_CACHE",
		"OPENAI_BASE_URL", "OPENAI_API_KEY_ENV", "OPENAI_MODEL",
		"RANKING_CACHE_SIZE", "BUILD_WORKERS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "5175" || cfg.Vectors.Source != "hash" || cfg.Engine.CacheSize != 256 {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.JWTTTL() != 14*24*time.Hour {
		t.Fatalf("JWTTTL = %s", cfg.JWTTTL())
	}
}

func TestFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
port: "8080"
session_ttl: 2h
vectors:
  source: text
  path: /data/cc.en.300.vec
engine:
  cache_size: 32
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "9090")
	t.Setenv("BUILD_WORKERS", "3")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("env should override file: port = %s", cfg.Port)
	}
	if cfg.SessionTTL != 2*time.Hour || cfg.Vectors.Path != "/data/cc.en.300.vec" || cfg.Engine.CacheSize != 32 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Engine.BuildWorkers != 3 {
		t.Fatalf("BuildWorkers = %d", cfg.Engine.BuildWorkers)
	}
	if cfg.Vectors.OpenAI.Model != "text-embedding-3-small" {
		t.Fatalf("nested defaults lost: %+v", cfg.Vectors.OpenAI)
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	t.Setenv("VECTOR_SOURCE", "bundle")
	if _, err := Load(""); err == nil {
		t.Fatalf("bundle without path should fail")
	}
	t.Setenv("VECTOR_SOURCE", "word2vec")
	if _, err := Load(""); err == nil {
		t.Fatalf("unknown source should fail")
	}
	t.Setenv("VECTOR_SOURCE", "hash")
	t.Setenv("RANKING_CACHE_SIZE", "lots")
	if _, err := Load(""); err == nil {
		t.Fatalf("bad integer should fail")
	}
}
