package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Data backends understood by the loader.
const (
	BackendMemory = "memory"
	BackendXLSX   = "xlsx"
	BackendSheets = "sheets"
)

type Config struct {
	// HTTP server
	Port     string
	LogLevel string

	// Backend selection
	DataBackend string

	// XLSX source (one of URL or file)
	SourceURL  string
	SourceFile string

	// Workbook layout
	DetailSheet     string
	AnnualSheet     string
	AnnualHeaderRow int

	// Optional column schema override
	SchemaFile string

	// Google Sheets source
	GoogleSpreadsheetID   string
	GoogleCredentialsFile string
	GoogleCredentialsJSON string

	// Loader
	FetchTimeout      time.Duration
	RefreshInterval   time.Duration
	SnapshotCacheSize int
	SnapshotCacheTTL  time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port:     getEnv("PORT", "8081"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DataBackend: getEnv("DATA_BACKEND", BackendMemory),

		SourceURL:  getEnv("SOURCE_URL", ""),
		SourceFile: getEnv("SOURCE_FILE", ""),

		DetailSheet:     getEnv("DETAIL_SHEET", "masa_salarial"),
		AnnualSheet:     getEnv("ANNUAL_SHEET", "Evolución Anual"),
		AnnualHeaderRow: getEnvInt("ANNUAL_HEADER_ROW", 3),

		SchemaFile: getEnv("SCHEMA_FILE", ""),

		GoogleSpreadsheetID:   getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),

		FetchTimeout:      getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
		RefreshInterval:   getEnvDuration("REFRESH_INTERVAL", 0),
		SnapshotCacheSize: getEnvInt("SNAPSHOT_CACHE_SIZE", 4),
		SnapshotCacheTTL:  getEnvDuration("SNAPSHOT_CACHE_TTL", 24*time.Hour),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	isValidLevel := false
	for _, level := range validLevels {
		if strings.ToLower(c.LogLevel) == level {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}

	validBackends := []string{BackendMemory, BackendXLSX, BackendSheets}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DetailSheet == "" {
		errors = append(errors, "detail sheet name cannot be empty")
	}
	if c.AnnualHeaderRow < 0 || c.AnnualHeaderRow > 50 {
		errors = append(errors, fmt.Sprintf("invalid annual header row %d: must be between 0 and 50", c.AnnualHeaderRow))
	}

	// Validate the XLSX source if that backend is selected
	if c.DataBackend == BackendXLSX {
		hasURL := c.SourceURL != ""
		hasFile := c.SourceFile != ""
		switch {
		case !hasURL && !hasFile:
			errors = append(errors, "either SOURCE_URL or SOURCE_FILE must be provided for xlsx backend")
		case hasURL && hasFile:
			errors = append(errors, "SOURCE_URL and SOURCE_FILE are mutually exclusive: set only one")
		case hasURL:
			if parsedURL, err := url.Parse(c.SourceURL); err != nil {
				errors = append(errors, fmt.Sprintf("invalid source URL '%s': %v", c.SourceURL, err))
			} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
				errors = append(errors, fmt.Sprintf("invalid source URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
			}
		case hasFile:
			if _, err := os.Stat(c.SourceFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("source file does not exist: %s", c.SourceFile))
			}
		}
	}

	// Validate Google Sheets configuration if that backend is selected
	if c.DataBackend == BackendSheets {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}

		hasCredFile := c.GoogleCredentialsFile != ""
		hasCredJSON := c.GoogleCredentialsJSON != ""
		if !hasCredFile && !hasCredJSON {
			errors = append(errors, "either GOOGLE_CREDENTIALS_FILE or GOOGLE_CREDENTIALS_JSON must be provided for sheets backend")
		}
		if hasCredFile {
			if _, err := os.Stat(c.GoogleCredentialsFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google credentials file does not exist: %s", c.GoogleCredentialsFile))
			}
		}
	}

	if c.SchemaFile != "" {
		if _, err := os.Stat(c.SchemaFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("schema file does not exist: %s", c.SchemaFile))
		}
	}

	if c.FetchTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid fetch timeout %v: must be at least 1 second", c.FetchTimeout))
	} else if c.FetchTimeout > 10*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid fetch timeout %v: must be at most 10 minutes", c.FetchTimeout))
	}

	// Zero disables the refresh loop
	if c.RefreshInterval != 0 {
		if c.RefreshInterval < time.Minute {
			errors = append(errors, fmt.Sprintf("invalid refresh interval %v: must be at least 1 minute", c.RefreshInterval))
		} else if c.RefreshInterval > 24*time.Hour {
			errors = append(errors, fmt.Sprintf("invalid refresh interval %v: must be at most 24 hours", c.RefreshInterval))
		}
	}

	if c.SnapshotCacheSize < 1 || c.SnapshotCacheSize > 64 {
		errors = append(errors, fmt.Sprintf("invalid snapshot cache size %d: must be between 1 and 64", c.SnapshotCacheSize))
	}
	if c.SnapshotCacheTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid snapshot cache TTL %v: must be at least 1 minute", c.SnapshotCacheTTL))
	} else if c.SnapshotCacheTTL > 7*24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid snapshot cache TTL %v: must be at most 7 days", c.SnapshotCacheTTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
