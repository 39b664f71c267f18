package models

import (
	"fmt"
	"strings"
)

const (
	DefaultAppID    = "com.borgmon.studyalarm"
	DefaultTickSpec = "@every 1s"
	DefaultLogLevel = "info"
)

// Config holds application configuration
type Config struct {
	AppID          string `yaml:"app_id" json:"app_id"`                   // fyne application ID, scopes the preferences file
	TickSpec       string `yaml:"tick_spec" json:"tick_spec"`             // cron spec driving the alarm clock
	LogLevel       string `yaml:"log_level" json:"log_level"`             // debug, info, warn or error
	Development    bool   `yaml:"development" json:"development"`         // human-friendly log output
	SoundFile      string `yaml:"sound_file" json:"sound_file"`           // optional WAV file, built-in chime when empty
	AutoStart      bool   `yaml:"auto_start" json:"auto_start"`           // launch on login
	RejectOverlaps bool   `yaml:"reject_overlaps" json:"reject_overlaps"` // refuse custom schedules sharing a weekday
	Notifications  *bool  `yaml:"notifications" json:"notifications"`     // nil or true: request permission at start
}

// DefaultConfig returns an in-memory default configuration
func DefaultConfig() *Config {
	enabled := true
	return &Config{
		AppID:         DefaultAppID,
		TickSpec:      DefaultTickSpec,
		LogLevel:      DefaultLogLevel,
		Notifications: &enabled,
	}
}

// Normalize fills in missing values so partially written files still work
func (c *Config) Normalize() {
	if strings.TrimSpace(c.AppID) == "" {
		c.AppID = DefaultAppID
	}
	if strings.TrimSpace(c.TickSpec) == "" {
		c.TickSpec = DefaultTickSpec
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
		c.LogLevel = strings.ToLower(c.LogLevel)
	default:
		c.LogLevel = DefaultLogLevel
	}
	if c.Notifications == nil {
		enabled := true
		c.Notifications = &enabled
	}
}

// NotificationsEnabled returns false only when notifications were explicitly turned off
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications == nil || *c.Notifications
}

// String renders the effective configuration for logging
func (c *Config) String() string {
	return fmt.Sprintf("app_id=%s tick_spec=%q log_level=%s sound_file=%q auto_start=%t reject_overlaps=%t notifications=%t",
		c.AppID, c.TickSpec, c.LogLevel, c.SoundFile, c.AutoStart, c.RejectOverlaps, c.NotificationsEnabled())
}
