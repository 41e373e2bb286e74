package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeSources()
	c.normalizeTool()
	c.normalizeBindings()
	c.normalizeExecution()
	return c.normalizeLogging()
}

func (c *Config) normalizeSources() {
	c.Sources.Variables = strings.TrimSpace(c.Sources.Variables)
	if c.Sources.Variables == "" {
		c.Sources.Variables = defaultVariablesSource
	}
	c.Sources.Operations = strings.TrimSpace(c.Sources.Operations)
	if c.Sources.Operations == "" {
		c.Sources.Operations = defaultOperationsSource
	}
}

func (c *Config) normalizeTool() {
	c.Tool.Path = strings.TrimSpace(c.Tool.Path)
	if value, ok := os.LookupEnv("GRUN_MAKE"); ok && strings.TrimSpace(value) != "" {
		c.Tool.Path = strings.TrimSpace(value)
	}
	if c.Tool.Path == "" {
		c.Tool.Path = defaultToolPath
	}
	c.Tool.Shell = strings.TrimSpace(c.Tool.Shell)
	if c.Tool.Shell == "" {
		c.Tool.Shell = defaultShell
	}
	if c.Tool.ResolveTimeoutSeconds == 0 {
		c.Tool.ResolveTimeoutSeconds = defaultResolveTimeoutSeconds
	}
	if c.Tool.InterruptGraceSeconds == 0 {
		c.Tool.InterruptGraceSeconds = defaultInterruptGraceSeconds
	}
}

func (c *Config) normalizeBindings() {
	c.Bindings.AggregateKey = strings.TrimSpace(c.Bindings.AggregateKey)
	if c.Bindings.AggregateKey == "" {
		c.Bindings.AggregateKey = defaultAggregateKey
	}
}

func (c *Config) normalizeExecution() {
	c.Execution.LockFile = strings.TrimSpace(c.Execution.LockFile)
	if c.Execution.LockFile == "" {
		c.Execution.LockFile = defaultLockFile
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if value, ok := os.LookupEnv("GRUN_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
	if c.Logging.File != "" {
		expanded, err := expandPath(c.inRoot(c.Logging.File))
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = expanded
	}
	return nil
}
