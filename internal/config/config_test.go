package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")
	os.Setenv("SECRET_KEY", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.SMTPPort != "587" {
		t.Errorf("SMTPPort = %q, want %q", cfg.SMTPPort, "587")
	}
	if !cfg.EmailEnabled {
		t.Error("EmailEnabled should default to true")
	}
	if cfg.AuditKafkaTopic != "portal-xml-audit" {
		t.Errorf("AuditKafkaTopic = %q, want default", cfg.AuditKafkaTopic)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("SECRET_KEY", "test-secret")
	os.Setenv("BCRYPT_COST", "14")
	os.Setenv("SMTP_HOST", "mail.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if cfg.BcryptCost != 14 {
		t.Errorf("BcryptCost = %d, want 14", cfg.BcryptCost)
	}
	if cfg.SMTPHost != "mail.example.com" {
		t.Errorf("SMTPHost = %q, want %q", cfg.SMTPHost, "mail.example.com")
	}
}

func TestLoad_MissingSecretKey(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")

	if _, err := Load(); err == nil {
		t.Fatal("Load should fail without SECRET_KEY")
	}
}

func TestLoad_EmailDisabledInProduction(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")
	os.Setenv("SECRET_KEY", "test-secret")
	os.Setenv("EMAIL_ENABLED", "false")
	os.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("Load should reject EMAIL_ENABLED=false in production")
	}
}

func TestLoad_InvalidBcryptCost(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")
	os.Setenv("SECRET_KEY", "test-secret")
	os.Setenv("BCRYPT_COST", "99")

	if _, err := Load(); err == nil {
		t.Fatal("Load should reject BCRYPT_COST out of range")
	}
}

func TestAuditKafkaBrokersList(t *testing.T) {
	cfg := &Config{AuditKafkaBrokers: "localhost:9092, broker2:9092 ,"}
	got := cfg.AuditKafkaBrokersList()
	if len(got) != 2 {
		t.Fatalf("brokers = %v, want 2 entries", got)
	}
	if got[0] != "localhost:9092" || got[1] != "broker2:9092" {
		t.Errorf("brokers = %v", got)
	}

	var nilCfg *Config
	if nilCfg.AuditKafkaBrokersList() != nil {
		t.Error("nil config should return nil brokers")
	}
}
