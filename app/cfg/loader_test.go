package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		DBPath:       "./test.db",
		Port:         "8080",
		BaseUrl:      "https://blog.example.com",
		SiteName:     "Example Blog",
		APIAccessKey: "test-key",
		SMTPHost:     "smtp.example.com",
		SMTPPort:     587,
		SMTPFrom:     "reminders@example.com",
		SMTPDryRun:   true,
		Timezone:     "UTC",
		Debug:        true,
		Version:      "test-version",
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.BaseUrl != "https://blog.example.com" {
		t.Errorf("Expected base URL 'https://blog.example.com', got '%s'", cfg.BaseUrl)
	}
	if cfg.SiteName != "Example Blog" {
		t.Errorf("Expected site name 'Example Blog', got '%s'", cfg.SiteName)
	}
	if cfg.SMTPPort != 587 {
		t.Errorf("Expected SMTP port 587, got %d", cfg.SMTPPort)
	}
	if !cfg.SMTPDryRun {
		t.Error("Expected SMTP dry run to be enabled")
	}
}

func TestApplyTimezone(t *testing.T) {
	if err := applyTimezone("UTC"); err != nil {
		t.Errorf("Expected UTC to be a valid timezone, got error: %v", err)
	}

	if err := applyTimezone("Not/AZone"); err == nil {
		t.Error("Expected an error for an invalid timezone")
	}
}
