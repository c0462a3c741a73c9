// Package main provides tests for the LeapLineage CLI.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/leaplineage/internal/cli"
)

const testManifest = `
datasets:
  - id: raw_orders
    location: s3://bucket/orders.csv
  - id: clean_orders_ds

models:
  - id: model_v1

transformations:
  - id: clean_orders
    inputs: [raw_orders]
    outputs: [clean_orders_ds]
  - id: train
    inputs: [clean_orders_ds]
    outputs: [model_v1]
`

func writeManifest(t *testing.T) (manifest, statePath string) {
	t.Helper()
	dir := t.TempDir()
	manifest = filepath.Join(dir, "lineage.yaml")
	if err := os.WriteFile(manifest, []byte(testManifest), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return manifest, filepath.Join(dir, "state.db")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	output, err := execute(t, "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(output, "leaplineage") {
		t.Errorf("version output should contain 'leaplineage', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	output, err := execute(t, "--help")
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	expectedCommands := []string{"ingest", "lineage", "impact", "origin", "path", "export", "snapshots", "serve"}
	for _, expected := range expectedCommands {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestImpactCommand(t *testing.T) {
	manifest, statePath := writeManifest(t)

	output, err := execute(t,
		"impact", "raw_orders",
		"--manifest", manifest,
		"--state-path", statePath,
	)
	if err != nil {
		t.Errorf("impact command error = %v", err)
	}
	if !strings.Contains(output, "HIGH") {
		t.Errorf("impact output should contain 'HIGH', got: %s", output)
	}
}

func TestLineageCommand(t *testing.T) {
	manifest, statePath := writeManifest(t)

	output, err := execute(t,
		"lineage", "model_v1",
		"--manifest", manifest,
		"--state-path", statePath,
	)
	if err != nil {
		t.Errorf("lineage command error = %v", err)
	}
	if !strings.Contains(output, "raw_orders") {
		t.Errorf("lineage output should contain 'raw_orders', got: %s", output)
	}
}

func TestIngestCommand(t *testing.T) {
	manifest, statePath := writeManifest(t)

	output, err := execute(t,
		"ingest", manifest,
		"--state-path", statePath,
	)
	if err != nil {
		t.Errorf("ingest command error = %v", err)
	}
	if !strings.Contains(output, "5 nodes") {
		t.Errorf("ingest output should report node count, got: %s", output)
	}

	// The snapshot now serves queries without the manifest.
	output, err = execute(t,
		"origin", "model_v1",
		"--state-path", statePath,
	)
	if err != nil {
		t.Errorf("origin command error = %v", err)
	}
	if !strings.Contains(output, "raw_orders") {
		t.Errorf("origin output should contain 'raw_orders', got: %s", output)
	}
}

func TestCompletionCommand(t *testing.T) {
	shells := []string{"bash", "zsh", "fish", "powershell"}

	for _, shell := range shells {
		t.Run(shell, func(t *testing.T) {
			if _, err := execute(t, "completion", shell); err != nil {
				t.Errorf("completion %s command error = %v", shell, err)
			}
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, err := execute(t, "unknown-command"); err == nil {
		t.Error("unknown command should return an error")
	}
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
