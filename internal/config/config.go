package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrRootUnset reports that GRUN_DIR is missing or empty.
var ErrRootUnset = errors.New("working root unset")

// RootError explains why the working root could not be used, including the
// remediation shown to the user.
type RootError struct {
	Path string
	Hint string
	Err  error
}

func (e *RootError) Error() string {
	if errors.Is(e.Err, ErrRootUnset) {
		return fmt.Sprintf("The environment variable %s is not set.\n"+
			"Please set it to the root directory of the grun project.\n"+
			"For example, add this to your .zshrc or .bashrc:\n"+
			"export %s=%s", RootEnv, RootEnv, e.Hint)
	}
	return fmt.Sprintf("The directory specified by %s does not exist: %s", RootEnv, e.Path)
}

func (e *RootError) Unwrap() error { return e.Err }

// Sources names the declaration files inside the working root.
type Sources struct {
	Variables  string `toml:"variables"`
	Operations string `toml:"operations"`
}

// Tool configures the orchestration tool and how it is launched.
type Tool struct {
	Path                  string `toml:"path"`
	Shell                 string `toml:"shell"`
	ResolveTimeoutSeconds int    `toml:"resolve_timeout_seconds"`
	InterruptGraceSeconds int    `toml:"interrupt_grace_seconds"`
}

// Bindings configures how overrides are forwarded.
type Bindings struct {
	AggregateKey string `toml:"aggregate_key"`
}

// Execution configures the final invocation.
type Execution struct {
	Exclusive bool   `toml:"exclusive"`
	LockFile  string `toml:"lock_file"`
}

// Logging contains configuration for diagnostic log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all settings for one grun run.
type Config struct {
	// Root is the absolute working root; it is never read from the file.
	Root      string    `toml:"-"`
	Sources   Sources   `toml:"sources"`
	Tool      Tool      `toml:"tool"`
	Bindings  Bindings  `toml:"bindings"`
	Execution Execution `toml:"execution"`
	Logging   Logging   `toml:"logging"`
}

// RootFromEnv resolves the working root from GRUN_DIR. The returned error is
// a *RootError carrying remediation text.
func RootFromEnv() (string, error) {
	value, ok := os.LookupEnv(RootEnv)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		hint, err := os.Getwd()
		if err != nil {
			hint = "/path/to/grun"
		}
		return "", &RootError{Hint: hint, Err: ErrRootUnset}
	}
	return value, nil
}

// Load validates root, reads root/grun.toml when present, and returns the
// normalized configuration.
func Load(root string) (*Config, error) {
	resolvedRoot, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	cfg.Root = resolvedRoot

	path := filepath.Join(resolvedRoot, FileName)
	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("open config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func resolveRoot(root string) (string, error) {
	expanded, err := expandPath(strings.TrimSpace(root))
	if err != nil {
		return "", err
	}
	if expanded == "" {
		return "", &RootError{Err: ErrRootUnset}
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &RootError{Path: root, Err: err}
		}
		return "", fmt.Errorf("stat %s: %w", expanded, err)
	}
	if !info.IsDir() {
		return "", &RootError{Path: root, Err: fs.ErrNotExist}
	}
	return expanded, nil
}

// VariablesPath returns the absolute path of the variable source.
func (c *Config) VariablesPath() string {
	return c.inRoot(c.Sources.Variables)
}

// OperationsPath returns the absolute path of the operation source.
func (c *Config) OperationsPath() string {
	return c.inRoot(c.Sources.Operations)
}

// LockPath returns the absolute path of the exclusive execution lock.
func (c *Config) LockPath() string {
	return c.inRoot(c.Execution.LockFile)
}

// ResolveTimeout bounds each default-resolution call.
func (c *Config) ResolveTimeout() time.Duration {
	return time.Duration(c.Tool.ResolveTimeoutSeconds) * time.Second
}

// InterruptGrace is how long an interrupted child may take to exit before it
// is killed.
func (c *Config) InterruptGrace() time.Duration {
	return time.Duration(c.Tool.InterruptGraceSeconds) * time.Second
}

func (c *Config) inRoot(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Root, name)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
