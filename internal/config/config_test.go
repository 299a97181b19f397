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
		t.Fatalf("加载默认配置不应报错: %v", err)
	}

	if cfg.App.Name != "findata-api" {
		t.Fatalf("默认 app.name 不正确: %s", cfg.App.Name)
	}
	if cfg.HTTP.Port != 8000 {
		t.Fatalf("默认端口应为 8000, 实际 %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.RequestTimeout != 60*time.Second {
		t.Fatalf("默认 request_timeout 不正确: %s", cfg.HTTP.RequestTimeout)
	}
	if cfg.Export.MaxDataPoints != 100000 {
		t.Fatalf("默认 max_data_points 不正确: %d", cfg.Export.MaxDataPoints)
	}
	if cfg.ClickHouseEnabled() {
		t.Fatalf("未配置 DSN 时 ClickHouse 应为禁用")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FINDATA_HTTP_PORT", "9090")
	t.Setenv("FINDATA_DATABASE_DSN", "postgres://localhost/findata")
	t.Setenv("FINDATA_CLICKHOUSE_DSN", "clickhouse://localhost:9000/findata")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("加载配置不应报错: %v", err)
	}

	if cfg.HTTP.Port != 9090 {
		t.Fatalf("环境变量覆盖端口失败: %d", cfg.HTTP.Port)
	}
	if cfg.Database.DSN != "postgres://localhost/findata" {
		t.Fatalf("database.dsn 不正确: %s", cfg.Database.DSN)
	}
	if !cfg.ClickHouseEnabled() {
		t.Fatalf("配置 DSN 后 ClickHouse 应为启用")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("http:\n  port: 8100\nlogging:\n  level: debug\n  format: console\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("加载配置文件不应报错: %v", err)
	}

	if cfg.HTTP.Port != 8100 {
		t.Fatalf("文件中的端口未生效: %d", cfg.HTTP.Port)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Fatalf("日志配置不正确: %#v", cfg.Logging)
	}
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("加载默认配置不应报错: %v", err)
	}

	cfg.HTTP.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("非法端口应校验失败")
	}

	cfg.HTTP.Port = 8000
	cfg.Export.MaxDataPoints = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("非法 max_data_points 应校验失败")
	}
}

func TestResolveMaxPoints(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("加载默认配置不应报错: %v", err)
	}

	if got := cfg.ResolveMaxPoints(0); got != 100000 {
		t.Fatalf("未指定覆盖值时应返回配置默认: %d", got)
	}
	if got := cfg.ResolveMaxPoints(500); got != 500 {
		t.Fatalf("覆盖值应优先: %d", got)
	}
}
