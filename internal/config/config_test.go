package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

const sqliteConfig = `
server:
  port: "9090"
  mode: test
  timezone: Asia/Manila
database:
  driver: sqlite
  path: surveylyze.db
jwt:
  secret: test-secret
`

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sqliteConfig))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != "9090" || cfg.Database.Driver != "sqlite" || cfg.Database.Path != "surveylyze.db" {
		t.Fatalf("server/database = %+v / %+v", cfg.Server, cfg.Database)
	}
	if cfg.RateLimit.MaxRequests != 6000 || cfg.RateLimit.Window() != time.Minute {
		t.Fatalf("rate limit = %+v", cfg.RateLimit)
	}
	if cfg.Analytics.KeywordLimit != 15 || cfg.Analytics.CacheTTL() != 10*time.Minute {
		t.Fatalf("analytics = %+v", cfg.Analytics)
	}
	if loc := cfg.Server.Location(); loc.String() != "Asia/Manila" {
		t.Fatalf("location = %s", loc)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("SERVER_TIMEZONE", "UTC")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig(writeConfig(t, sqliteConfig))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Timezone != "UTC" || cfg.JWT.Secret != "from-env" {
		t.Fatalf("env not applied: %+v %+v", cfg.Server, cfg.JWT)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := map[string]string{
		"mysql without host": `
server: {port: "8080", mode: debug}
database: {driver: mysql, dbname: surveys}
jwt: {secret: s}
`,
		"unknown driver": `
server: {port: "8080", mode: debug}
database: {driver: oracle, host: h, dbname: d}
jwt: {secret: s}
`,
		"short secret in release": `
server: {port: "8080", mode: release}
database: {driver: sqlite, path: x.db}
jwt: {secret: short}
`,
		"tracing without collector": `
server: {port: "8080", mode: debug}
database: {driver: sqlite, path: x.db}
jwt: {secret: s}
tracing: {enabled: true}
`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, body)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	if loc := (ServerConfig{Timezone: "Mars/Olympus"}).Location(); loc != time.UTC {
		t.Fatalf("location = %s", loc)
	}
	if loc := (ServerConfig{}).Location(); loc != time.UTC {
		t.Fatalf("location = %s", loc)
	}
}
