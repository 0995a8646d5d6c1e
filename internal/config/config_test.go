package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	os.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/mes")
	os.Setenv("JWT_SECRET", "test-secret")
	defer func() {
		os.Unsetenv("MYSQL_DSN")
		os.Unsetenv("JWT_SECRET")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.MySQL.DSN == "" {
		t.Error("MySQL DSN should not be empty")
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("Expected HTTPAddr :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.ReviewReminder.IntervalHour != 168 {
		t.Errorf("Expected weekly reminder default, got %d hours", cfg.ReviewReminder.IntervalHour)
	}
	if cfg.Mail.Port != 25 {
		t.Errorf("Expected default mail port 25, got %d", cfg.Mail.Port)
	}
}

func TestLoad_MissingMySQLDSN(t *testing.T) {
	os.Unsetenv("MYSQL_DSN")
	os.Setenv("JWT_SECRET", "test-secret")
	defer os.Unsetenv("JWT_SECRET")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when MYSQL_DSN is missing")
	}
}

func TestLoad_MailLists(t *testing.T) {
	os.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/mes")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("MAIL_RELAYS", "relay1.factory.local, relay2.factory.local")
	os.Setenv("MAIL_DESIGN_TEAM", "design@factory.local")
	defer func() {
		os.Unsetenv("MYSQL_DSN")
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("MAIL_RELAYS")
		os.Unsetenv("MAIL_DESIGN_TEAM")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.Mail.Relays) != 2 {
		t.Fatalf("Expected 2 relays, got %d", len(cfg.Mail.Relays))
	}
	if cfg.Mail.Relays[1] != "relay2.factory.local" {
		t.Errorf("Relay list not trimmed: %q", cfg.Mail.Relays[1])
	}
	if len(cfg.Mail.DesignTeam) != 1 {
		t.Errorf("Expected 1 design recipient, got %d", len(cfg.Mail.DesignTeam))
	}
}

func TestLoadFromINI_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	iniPath := filepath.Join(dir, "mes.ini")
	content := "[mysql]\ndsn = ini:dsn@tcp(db:3306)/mes\n[jwt]\nsecret = ini-secret\n[app]\nhttp_addr = :9000\n"
	if err := os.WriteFile(iniPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write ini: %v", err)
	}

	os.Setenv("HTTP_ADDR", ":7070")
	defer os.Unsetenv("HTTP_ADDR")

	cfg, err := LoadFromINI(iniPath)
	if err != nil {
		t.Fatalf("LoadFromINI() failed: %v", err)
	}

	if cfg.MySQL.DSN != "ini:dsn@tcp(db:3306)/mes" {
		t.Errorf("Expected DSN from INI, got %s", cfg.MySQL.DSN)
	}
	if cfg.HTTPAddr != ":7070" {
		t.Errorf("ENV should override INI, got %s", cfg.HTTPAddr)
	}
}
