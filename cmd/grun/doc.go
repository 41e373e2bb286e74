// Package main hosts the grun CLI entrypoint and its synthesized command tree.
//
// grun reads variable declarations (config.mk) and rules (rules.mk) from the
// working root named by GRUN_DIR, builds one Cobra subcommand per rule with
// an override flag per variable, and runs the chosen rule through make with
// the overrides forwarded as KEY=VALUE bindings. Flags the tree does not know
// are collected as free-form parameters instead of being rejected.
//
// Keep this package lean: parsing lives in internal/catalog, binding rules in
// internal/bindings, and process handling in internal/dispatch and
// internal/orchestrator. This package only wires them to the terminal.
package main
