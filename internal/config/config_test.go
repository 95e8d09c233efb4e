package config

import (
	"testing"
	"time"

	"github.com/accountserv/accountserv/pkg/domain"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear any env vars that might interfere
	envVars := []string{
		"SERVER_ADDR", "SERVER_PORT", "DB_HOST", "DB_PORT",
		"MAX_ACCOUNTS_PER_ADDRESS", "DEFAULT_ACCOUNT_FLAGS",
		"REQUIRE_VERIFICATION", "CREDENTIAL_HASHING",
		"VERIFICATION_WINDOW", "DELIVERY_TIMEOUT",
		"SMTP_HOST", "SMTP_FROM", "RATE_LIMIT_ENABLED",
	}
	for _, v := range envVars {
		t.Setenv(v, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Check defaults
	if cfg.ServerAddr != "0.0.0.0" {
		t.Errorf("ServerAddr = %q, want %q", cfg.ServerAddr, "0.0.0.0")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.HasPostgres() {
		t.Error("HasPostgres() = true without DB_HOST")
	}
	if cfg.MaxPerAddress != 5 {
		t.Errorf("MaxPerAddress = %d, want 5", cfg.MaxPerAddress)
	}
	if cfg.RequireVerification {
		t.Error("RequireVerification should default to false")
	}
	if !cfg.CredentialHashing {
		t.Error("CredentialHashing should default to true")
	}
	if cfg.VerificationWindow != 24*time.Hour {
		t.Errorf("VerificationWindow = %v, want %v", cfg.VerificationWindow, 24*time.Hour)
	}
	if cfg.DeliveryTimeout != 10*time.Second {
		t.Errorf("DeliveryTimeout = %v, want %v", cfg.DeliveryTimeout, 10*time.Second)
	}
	if cfg.DefaultFlags != 0 {
		t.Errorf("DefaultFlags = %v, want none", cfg.DefaultFlags)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_HOST", "db.example.com")
	t.Setenv("MAX_ACCOUNTS_PER_ADDRESS", "2")
	t.Setenv("DEFAULT_ACCOUNT_FLAGS", "hidecontact")
	t.Setenv("VERIFICATION_WINDOW", "48h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ServerPort != 9090 {
		t.Errorf("ServerPort = %d, want 9090", cfg.ServerPort)
	}
	if !cfg.HasPostgres() {
		t.Error("HasPostgres() = false with DB_HOST set")
	}
	if cfg.MaxPerAddress != 2 {
		t.Errorf("MaxPerAddress = %d, want 2", cfg.MaxPerAddress)
	}
	if !cfg.DefaultFlags.Has(domain.FlagHideContact) {
		t.Error("DEFAULT_ACCOUNT_FLAGS=hidecontact should set FlagHideContact")
	}
	if cfg.VerificationWindow != 48*time.Hour {
		t.Errorf("VerificationWindow = %v, want 48h", cfg.VerificationWindow)
	}
}

func TestLoad_InvalidDefaultFlags(t *testing.T) {
	t.Setenv("DEFAULT_ACCOUNT_FLAGS", "bogusflag")

	if _, err := Load(); err == nil {
		t.Error("Load should fail on unknown default flags")
	}
}

func TestLoad_VerificationRequiresSMTP(t *testing.T) {
	t.Setenv("REQUIRE_VERIFICATION", "true")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_FROM", "")

	if _, err := Load(); err == nil {
		t.Error("Load should fail when verification is required without SMTP")
	}

	t.Setenv("SMTP_HOST", "mail.example.com")
	t.Setenv("SMTP_FROM", "noreply@example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed with SMTP configured: %v", err)
	}
	if !cfg.HasSMTP() {
		t.Error("HasSMTP() = false with host and from set")
	}
}
