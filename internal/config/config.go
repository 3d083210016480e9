package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	App       AppConfig
	SMTP      SMTPConfig
	Shift     ShiftConfig
	Leave     LeaveConfig
	Retention RetentionConfig
	Cache     CacheConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	Timezone string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// NotifyTo receives operational notices; employee mailboxes live in
	// the external identity system.
	NotifyTo string
}

// ShiftConfig holds default shift parameters applied when a shift row
// does not override them.
type ShiftConfig struct {
	DefaultGraceMinutes     int
	DefaultBreakMinutes     int
	RamadanNoBreakDeduction bool
	WeekendDay              time.Weekday
}

type LeaveConfig struct {
	// AccrualRatePer30 is the number of annual-leave days accrued per 30
	// working days. Stored as a string so callers can parse it into a
	// decimal without float drift.
	AccrualRatePer30 string
}

type RetentionConfig struct {
	// ArchiveAfterDays is the age past which closed leaves, inactive logs
	// and punches are archived by year-end processing.
	ArchiveAfterDays int
}

type CacheConfig struct {
	EmployeeShiftTTL    time.Duration
	DepartmentShiftTTL  time.Duration
	RamadanPeriodTTL    time.Duration
	EmployeeScheduleTTL time.Duration
	ShiftStatisticsTTL  time.Duration
	AttendanceMetricTTL time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on environment", "error", err)
	}

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "sahl_attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("TIMEZONE", "Asia/Riyadh"),
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", "localhost"),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "no-reply@sahl-hr.local"),
		NotifyTo: getEnv("SMTP_NOTIFY_TO", "hr@sahl-hr.local"),
	}

	grace, err := strconv.Atoi(getEnv("DEFAULT_GRACE_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_GRACE_MINUTES: %w", err)
	}
	breakMins, err := strconv.Atoi(getEnv("DEFAULT_BREAK_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_BREAK_MINUTES: %w", err)
	}
	config.Shift = ShiftConfig{
		DefaultGraceMinutes:     grace,
		DefaultBreakMinutes:     breakMins,
		RamadanNoBreakDeduction: getEnv("RAMADAN_NO_BREAK_DEDUCTION", "true") == "true",
		WeekendDay:              parseWeekday(getEnv("WEEKEND_DAY", "Friday")),
	}

	config.Leave = LeaveConfig{
		AccrualRatePer30: getEnv("ACCRUAL_RATE_PER_30", "2.5"),
	}

	retention, err := strconv.Atoi(getEnv("RETENTION_DAYS", "730"))
	if err != nil {
		return nil, fmt.Errorf("invalid RETENTION_DAYS: %w", err)
	}
	config.Retention = RetentionConfig{ArchiveAfterDays: retention}

	config.Cache = CacheConfig{
		EmployeeShiftTTL:    getEnvDuration("CACHE_EMPLOYEE_SHIFT_TTL", time.Hour),
		DepartmentShiftTTL:  getEnvDuration("CACHE_DEPARTMENT_SHIFT_TTL", time.Hour),
		RamadanPeriodTTL:    getEnvDuration("CACHE_RAMADAN_PERIOD_TTL", 24*time.Hour),
		EmployeeScheduleTTL: getEnvDuration("CACHE_EMPLOYEE_SCHEDULE_TTL", 15*time.Minute),
		ShiftStatisticsTTL:  getEnvDuration("CACHE_SHIFT_STATISTICS_TTL", time.Hour),
		AttendanceMetricTTL: getEnvDuration("CACHE_ATTENDANCE_METRICS_TTL", 6*time.Hour),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.App.Timezone, err)
	}
	if c.Shift.DefaultGraceMinutes < 0 || c.Shift.DefaultGraceMinutes > 60 {
		return fmt.Errorf("DEFAULT_GRACE_MINUTES must be within 0-60")
	}
	if c.Shift.DefaultBreakMinutes < 0 || c.Shift.DefaultBreakMinutes > 180 {
		return fmt.Errorf("DEFAULT_BREAK_MINUTES must be within 0-180")
	}
	return nil
}

// Location returns the configured business timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("Invalid duration in environment, using fallback", "key", key, "value", value)
		return fallback
	}
	return d
}

func parseWeekday(s string) time.Weekday {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunday":
		return time.Sunday
	case "monday":
		return time.Monday
	case "tuesday":
		return time.Tuesday
	case "wednesday":
		return time.Wednesday
	case "thursday":
		return time.Thursday
	case "saturday":
		return time.Saturday
	default:
		return time.Friday
	}
}
