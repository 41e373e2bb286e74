package config

import (
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTool(); err != nil {
		return err
	}
	if err := c.validateBindings(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTool() error {
	if c.Tool.ResolveTimeoutSeconds < 0 {
		return fmt.Errorf("tool.resolve_timeout_seconds must be positive")
	}
	if c.Tool.InterruptGraceSeconds < 0 {
		return fmt.Errorf("tool.interrupt_grace_seconds must be positive")
	}
	return nil
}

func (c *Config) validateBindings() error {
	key := c.Bindings.AggregateKey
	if strings.ContainsAny(key, "= \t") {
		return fmt.Errorf("bindings.aggregate_key %q must not contain '=' or whitespace", key)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
