package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[engine]
max_entities = 128
tick_rate = "50ms"
start_running = false
spawn = ["lamp", "crate"]

[database]
enabled = true

[snapshot]
scene = "lab"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.MaxEntities != 128 || cfg.Engine.TickRate != 50*time.Millisecond {
		t.Fatalf("engine = %+v", cfg.Engine)
	}
	if cfg.Engine.StartRunning || len(cfg.Engine.Spawn) != 2 {
		t.Fatalf("engine = %+v", cfg.Engine)
	}
	if !cfg.Database.Enabled || cfg.Database.MaxOpenConns != 8 {
		t.Fatalf("database = %+v", cfg.Database)
	}
	if cfg.Snapshot.Scene != "lab" || cfg.Snapshot.AutosaveTicks != 3600 {
		t.Fatalf("snapshot = %+v", cfg.Snapshot)
	}
	if cfg.Logging.Format != "console" || cfg.Engine.StartTime == 0 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"capacity": "[engine]\nmax_entities = 0\n",
		"tick":     "[engine]\ntick_rate = \"-1s\"\n",
		"format":   "[logging]\nformat = \"xml\"\n",
		"syntax":   "[engine\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Fatalf("err = %v", err)
	}
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv(EnvPath, "/tmp/other.toml")
	if Path() != "/tmp/other.toml" {
		t.Fatalf("Path = %q", Path())
	}
	t.Setenv(EnvPath, "")
	if Path() != DefaultPath {
		t.Fatalf("Path = %q", Path())
	}
}

func TestUptimeFromStartTime(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	start := time.Unix(cfg.Engine.StartTime, 0)
	if got := cfg.Engine.Uptime(start.Add(90 * time.Second)); got != 90*time.Second {
		t.Fatalf("uptime = %s", got)
	}
}
