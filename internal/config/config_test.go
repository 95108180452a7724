package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigWithInfo_MissingFileUsesDefaults(t *testing.T) {
	cfg, info, err := LoadConfigWithInfo(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if info.FileFound || info.PortSpecified {
		t.Fatalf("unexpected info: %+v", info)
	}
	if cfg.Server.Port != DefaultConfig().Server.Port {
		t.Fatalf("port=%d", cfg.Server.Port)
	}
	if got := len(cfg.EffectiveMappings()); got != 13 {
		t.Fatalf("mappings=%d, want 13", got)
	}
	if cfg.Theme.SourceSheet != "完整配色表" {
		t.Fatalf("source sheet=%q", cfg.Theme.SourceSheet)
	}
}

func TestLoadConfigWithInfo_FileOverrides(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 18080

[theme]
clamp_rgb = true

[[theme.mappings]]
channel = "P1"
purpose = "地板颜色"
color_code = "P1"

[[theme.mappings]]
channel = "X1"
color_code = "X-1"

[log]
level = "debug"
format = "json"
`)
	cfg, info, err := LoadConfigWithInfo(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !info.FileFound || !info.PortSpecified {
		t.Fatalf("unexpected info: %+v", info)
	}
	if cfg.Server.Port != 18080 || !cfg.Theme.ClampRGB {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	m := cfg.EffectiveMappings()
	if len(m) != 2 || m[1].Channel != "X1" || m[1].ColorCode != "X-1" {
		t.Fatalf("mappings=%+v", m)
	}
	// 未在文件中出现的字段保留默认值
	if cfg.Server.MaxUploadMB != 20 || !cfg.Data.History {
		t.Fatalf("defaults lost: %+v", cfg)
	}

	logger := NewLogger(cfg.Log)
	if logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level=%v", logger.GetLevel())
	}
	if _, ok := logger.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("formatter=%T", logger.Formatter)
	}
}

func TestLoadConfigWithInfo_RejectsDuplicateChannels(t *testing.T) {
	path := writeConfig(t, `
[[theme.mappings]]
channel = "P1"
color_code = "P1"

[[theme.mappings]]
channel = "P1"
color_code = "P2"
`)
	if _, _, err := LoadConfigWithInfo(path); err == nil {
		t.Fatalf("expected duplicate channel error")
	}
}

func TestLoadConfigWithInfo_EnvOverrides(t *testing.T) {
	t.Setenv("COLORTOOL_PORT", "19000")
	t.Setenv("COLORTOOL_LOG_LEVEL", "warn")

	cfg, info, err := LoadConfigWithInfo(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 19000 || !info.PortSpecified {
		t.Fatalf("port=%d info=%+v", cfg.Server.Port, info)
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("level=%q", cfg.Log.Level)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Server.Port = 23456
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !isPortSpecifiedInToml(data) {
		t.Fatalf("saved config must carry server.port")
	}
}

func TestEnsureDataDir(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Data.DataDir = filepath.Join(t.TempDir(), "data")
	dir, err := EnsureDataDir(cfg)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		t.Fatalf("data dir not created: %v", err)
	}
	if got := GetDataPath(cfg, "colortool.db"); got != filepath.Join(dir, "colortool.db") {
		t.Fatalf("data path=%q", got)
	}
}
