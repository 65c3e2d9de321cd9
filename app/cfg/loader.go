package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./draftnag.db" description:"Path to the SQLite database file"`

	// Application configuration
	Port          string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl       string `long:"base-url" env:"BASE_URL" description:"Public base URL used to build draft edit links (e.g., https://blog.example.com)"`
	SiteName      string `long:"site-name" env:"SITE_NAME" default:"Draft Nag" description:"Site name used in reminder subject lines"`
	APIAccessKey  string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	TemplatesFile string `long:"templates-file" env:"TEMPLATES_FILE" description:"Optional YAML file overriding the reminder message templates"`

	// Mail transport configuration
	SMTPHost     string `long:"smtp-host" env:"SMTP_HOST" description:"SMTP server host"`
	SMTPPort     int    `long:"smtp-port" env:"SMTP_PORT" default:"587" description:"SMTP server port"`
	SMTPUsername string `long:"smtp-username" env:"SMTP_USERNAME" description:"SMTP username"`
	SMTPPassword string `long:"smtp-password" env:"SMTP_PASSWORD" description:"SMTP password"`
	SMTPFrom     string `long:"smtp-from" env:"SMTP_FROM" default:"reminders@localhost" description:"Sender address for reminder emails"`
	SMTPDryRun   bool   `long:"smtp-dry-run" env:"SMTP_DRY_RUN" description:"Log reminder emails instead of sending them"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:        raw.DBPath,
		Port:          raw.Port,
		BaseUrl:       raw.BaseUrl,
		SiteName:      raw.SiteName,
		APIAccessKey:  raw.APIAccessKey,
		TemplatesFile: raw.TemplatesFile,
		SMTPHost:      raw.SMTPHost,
		SMTPPort:      raw.SMTPPort,
		SMTPUsername:  raw.SMTPUsername,
		SMTPPassword:  raw.SMTPPassword,
		SMTPFrom:      raw.SMTPFrom,
		SMTPDryRun:    raw.SMTPDryRun,
		Timezone:      raw.Timezone,
		Debug:         raw.Debug,
		Version:       GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
