package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"grun/internal/catalog"
)

func parseVariables(t *testing.T, src string) *catalog.Variables {
	t.Helper()
	vars, err := catalog.ParseVariables(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseVariables: %v", err)
	}
	return vars
}

func parseOperations(t *testing.T, src string) *catalog.Operations {
	t.Helper()
	ops, err := catalog.ParseOperations(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseOperations: %v", err)
	}
	return ops
}

func TestParseVariablesAttachesCapitalizedComment(t *testing.T) {
	vars := parseVariables(t, "A=1\n# desc\nB=2\n")

	want := []catalog.Variable{
		{Name: "A", Default: "1", Description: ""},
		{Name: "B", Default: "2", Description: "Desc"},
	}
	if diff := cmp.Diff(want, vars.All()); diff != "" {
		t.Fatalf("variables mismatch (-want +got):\n%s", diff)
	}
}

func TestParseVariablesHandlesConditionalAssignmentAndSpacing(t *testing.T) {
	vars := parseVariables(t, "# Machine TYPE to use\nMACHINE_TYPE ?=   a3-highgpu-1g  \n  DISK_SIZE=100\n")

	got, ok := vars.Lookup("MACHINE_TYPE")
	if !ok {
		t.Fatal("expected MACHINE_TYPE")
	}
	if got.Default != "a3-highgpu-1g" {
		t.Fatalf("unexpected default %q", got.Default)
	}
	if got.Description != "Machine type to use" {
		t.Fatalf("unexpected description %q", got.Description)
	}
	if _, ok := vars.Lookup("DISK_SIZE"); !ok {
		t.Fatal("expected indented assignment to be parsed")
	}
}

func TestParseVariablesDropsSuppressedEntries(t *testing.T) {
	vars := parseVariables(t, "## internal\nSECRET=1\n# visible\nPUBLIC=2\n")

	if _, ok := vars.Lookup("SECRET"); ok {
		t.Fatal("suppressed variable must not be present")
	}
	if vars.Len() != 1 {
		t.Fatalf("expected 1 variable, got %d", vars.Len())
	}
}

func TestParseVariablesSuppressionOnlyAppliesToNextEntry(t *testing.T) {
	vars := parseVariables(t, "## hidden\nHIDDEN=1\nSHOWN=2\n")

	if _, ok := vars.Lookup("SHOWN"); !ok {
		t.Fatal("suppression leaked past the next assignment")
	}
}

func TestParseVariablesBlankLineResetsComment(t *testing.T) {
	vars := parseVariables(t, "# orphaned\n\nA=1\n## hidden?\n\nB=2\n")

	a, _ := vars.Lookup("A")
	if a.Description != "" {
		t.Fatalf("expected blank line to detach comment, got %q", a.Description)
	}
	if _, ok := vars.Lookup("B"); !ok {
		t.Fatal("blank line should clear the suppress flag")
	}
}

func TestParseVariablesCommentOverwritesPrevious(t *testing.T) {
	vars := parseVariables(t, "# first\n# second\nA=1\n")

	a, _ := vars.Lookup("A")
	if a.Description != "Second" {
		t.Fatalf("expected last comment to win, got %q", a.Description)
	}
}

func TestParseVariablesIgnoresUnrelatedLinesWithoutReset(t *testing.T) {
	vars := parseVariables(t, "# kept\nexport PATH\nA=1\nlower=2\n")

	a, _ := vars.Lookup("A")
	if a.Description != "Kept" {
		t.Fatalf("unrelated line should not reset pending comment, got %q", a.Description)
	}
	if _, ok := vars.Lookup("lower"); ok {
		t.Fatal("lower-case names are not variables")
	}
}

func TestParseVariablesRedefinitionKeepsPosition(t *testing.T) {
	vars := parseVariables(t, "A=1\nB=2\n# again\nA=3\n")

	want := []catalog.Variable{
		{Name: "A", Default: "3", Description: "Again"},
		{Name: "B", Default: "2"},
	}
	if diff := cmp.Diff(want, vars.All()); diff != "" {
		t.Fatalf("variables mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOperationsFallbackDescription(t *testing.T) {
	ops := parseOperations(t, "# launch a batch job\nrun: build\n\tgcloud batch jobs submit\n\nbuild:\n")

	want := []catalog.Operation{
		{Name: "run", Description: "Launch a batch job"},
		{Name: "build", Description: "Execute the build target"},
	}
	if diff := cmp.Diff(want, ops.All()); diff != "" {
		t.Fatalf("operations mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOperationsContinuationKeepsComment(t *testing.T) {
	ops := parseOperations(t, "# describes clean\n\t@echo continuation\nclean:\n")

	op, ok := ops.Lookup("clean")
	if !ok {
		t.Fatal("expected clean")
	}
	if op.Description != "Describes clean" {
		t.Fatalf("tab-indented line should keep comment, got %q", op.Description)
	}
}

func TestParseOperationsUnrelatedLineResetsComment(t *testing.T) {
	ops := parseOperations(t, "## hidden\n.PHONY: clean\nclean:\n# stale\ninclude config.mk\nlocal:\n")

	clean, ok := ops.Lookup("clean")
	if !ok {
		t.Fatal("reset line should clear suppression before clean")
	}
	if clean.Description != "Execute the clean target" {
		t.Fatalf("unexpected description %q", clean.Description)
	}
	local, _ := ops.Lookup("local")
	if local.Description != "Execute the local target" {
		t.Fatalf("expected stale comment to be cleared, got %q", local.Description)
	}
}

func TestParseOperationsDropsSuppressedTargets(t *testing.T) {
	ops := parseOperations(t, "## helper\nprint-vars:\n## helper\nsetup:\n# real\nrun:\n")

	if _, ok := ops.Lookup("setup"); ok {
		t.Fatal("suppressed target must not be present")
	}
	if ops.Len() != 1 {
		t.Fatalf("expected only run, got %+v", ops.All())
	}
}

func TestParseOperationsTreatsColonAssignmentsAsTargets(t *testing.T) {
	ops := parseOperations(t, "# build it\nBUILD := out\nbuild:\n")

	want := []catalog.Operation{
		{Name: "BUILD", Description: "Build it"},
		{Name: "build", Description: "Execute the build target"},
	}
	if diff := cmp.Diff(want, ops.All()); diff != "" {
		t.Fatalf("operations mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadVariablesMissingSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.mk")

	_, err := catalog.LoadVariables(path)
	if !errors.Is(err, catalog.ErrSourceMissing) {
		t.Fatalf("expected ErrSourceMissing, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to name %s, got %q", path, err)
	}
}

func TestLoadOperationsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.mk")
	if err := os.WriteFile(path, []byte("# run it\nrun:\n"), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	ops, err := catalog.LoadOperations(path)
	if err != nil {
		t.Fatalf("LoadOperations: %v", err)
	}
	if op, _ := ops.Lookup("run"); op.Description != "Run it" {
		t.Fatalf("unexpected description %q", op.Description)
	}
}
