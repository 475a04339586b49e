package config

import (
	"cmp"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	durationType = reflect.TypeOf(time.Duration(0))
	listType     = reflect.TypeOf([]string(nil))
)

// Load reads configuration from environment variables, falling back to each
// field's default tag, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := fill(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// fill sets every env-tagged field of v, descending into section structs.
func fill(v reflect.Value) error {
	t := v.Type()
	for i := range t.NumField() {
		sf, f := t.Field(i), v.Field(i)
		if sf.Type.Kind() == reflect.Struct {
			if err := fill(f); err != nil {
				return err
			}
			continue
		}

		name, ok := sf.Tag.Lookup("env")
		if !ok {
			continue
		}
		raw := cmp.Or(os.Getenv(name), sf.Tag.Get("default"))
		if raw == "" {
			continue
		}
		if err := parseInto(f, raw); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", name, raw, err)
		}
	}
	return nil
}

// parseInto stores raw in f. Lists are comma-separated.
func parseInto(f reflect.Value, raw string) error {
	switch t := f.Type(); {
	case t == durationType:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		f.SetInt(int64(d))
	case t == listType:
		var items []string
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		f.Set(reflect.ValueOf(items))
	case t.Kind() == reflect.String:
		f.SetString(raw)
	case t.Kind() == reflect.Int || t.Kind() == reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		f.SetInt(n)
	case t.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		f.SetBool(b)
	default:
		return fmt.Errorf("unsupported field type %s", t)
	}
	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	// Import validation
	if c.Import.MaxFileSize <= 0 {
		errs = append(errs, "IMPORT_MAX_FILE_SIZE must be positive")
	}
	if c.Import.MaxConcurrent <= 0 {
		errs = append(errs, "IMPORT_MAX_CONCURRENT must be positive")
	}
	if c.Import.MaxWaitTime <= 0 {
		errs = append(errs, "IMPORT_MAX_WAIT_TIME must be positive")
	}
	if c.Import.Timeout <= 0 {
		errs = append(errs, "IMPORT_TIMEOUT must be positive")
	}

	// Data validation
	if strings.TrimSpace(c.Data.Dir) == "" {
		errs = append(errs, "DATA_DIR must not be empty")
	}

	// Export validation
	if !strings.HasSuffix(strings.ToLower(c.Export.NewFileName), ".csv") {
		errs = append(errs, fmt.Sprintf("EXPORT_NEW_FILENAME (%q) must end in .csv", c.Export.NewFileName))
	}
	if !strings.HasSuffix(strings.ToLower(c.Export.UpdatedFileName), ".csv") {
		errs = append(errs, fmt.Sprintf("EXPORT_UPDATED_FILENAME (%q) must end in .csv", c.Export.UpdatedFileName))
	}
	if c.Export.NewFileName == c.Export.UpdatedFileName {
		errs = append(errs, "EXPORT_NEW_FILENAME and EXPORT_UPDATED_FILENAME must differ")
	}

	// Rate limit validation
	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a compact representation of the config for logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Import: {MaxFileSize: %d, MaxConcurrent: %d}, ",
		c.Import.MaxFileSize, c.Import.MaxConcurrent))
	b.WriteString(fmt.Sprintf("Data: {Dir: %q, Watch: %v, SeedFiles: %d, History: %v}, ",
		c.Data.Dir, c.Data.Watch, len(c.Data.SeedFiles), c.Data.HistoryFile != ""))
	b.WriteString(fmt.Sprintf("Rate: {Enabled: %v, RequestsPerMinute: %d}, ",
		c.Rate.Enabled, c.Rate.RequestsPerMinute))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
