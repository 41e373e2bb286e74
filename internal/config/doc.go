// Package config resolves the grun working root and its optional settings.
//
// The working root comes from GRUN_DIR and is resolved exactly once; every
// other path (declaration sources, lock file, log file) is derived from it.
// An optional grun.toml inside the root adjusts source names, the
// orchestration tool, binding conventions, and logging. Environment fallbacks
// such as GRUN_MAKE and GRUN_LOG_LEVEL apply when the file leaves a value
// unset.
//
// Always obtain settings through this package so callers receive absolute
// paths and validated values.
package config
