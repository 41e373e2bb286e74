package config

const (
	// RootEnv names the environment variable holding the working root.
	RootEnv = "GRUN_DIR"
	// FileName is the optional settings file looked up inside the root.
	FileName = "grun.toml"

	defaultVariablesSource       = "config.mk"
	defaultOperationsSource      = "rules.mk"
	defaultToolPath              = "make"
	defaultShell                 = "/bin/sh"
	defaultResolveTimeoutSeconds = 10
	defaultInterruptGraceSeconds = 10
	defaultAggregateKey          = "USER_PARAMETERS"
	defaultLockFile              = ".grun.lock"
	defaultLogFormat             = "console"
	defaultLogLevel              = "warn"
)

// Default returns a Config populated with repository defaults. Root is left
// empty; Load fills it in.
func Default() Config {
	return Config{
		Sources: Sources{
			Variables:  defaultVariablesSource,
			Operations: defaultOperationsSource,
		},
		Tool: Tool{
			Path:                  defaultToolPath,
			Shell:                 defaultShell,
			ResolveTimeoutSeconds: defaultResolveTimeoutSeconds,
			InterruptGraceSeconds: defaultInterruptGraceSeconds,
		},
		Bindings: Bindings{
			AggregateKey: defaultAggregateKey,
		},
		Execution: Execution{
			LockFile: defaultLockFile,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
