//go:build basic || database

// Package integration contains integration tests for skillspot.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Database backends: go test -tags database ./integration
package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

// fixtureDir is the small CSV dataset shared with the source package tests.
const fixtureDir = "internal/source/testdata/dataset"

var (
	// sharedSkillspotPath holds the path to a shared skillspot binary built once for all tests.
	sharedSkillspotPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getSkillspotBinary returns the path to the skillspot binary, building it once if needed.
func getSkillspotBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "skillspot-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		skillspotPath := filepath.Join(tempDir, "skillspot")
		buildCmd := exec.Command("go", "build", "-o", skillspotPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build skillspot: %v", err))
		}

		sharedSkillspotPath = skillspotPath
	})

	return sharedSkillspotPath
}

// runSkillspot runs the binary from the project root with extra environment
// variables and returns its standard output.
func runSkillspot(t *testing.T, env map[string]string, args ...string) ([]byte, error) {
	t.Helper()
	cmd := exec.Command(getSkillspotBinary(), args...)
	cmd.Dir = "../" // Run from project root
	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	output, err := cmd.Output()
	if err != nil {
		var stderr []byte
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = exitErr.Stderr
		}
		t.Logf("Command failed: %s\nOutput: %s\nStderr: %s", cmd.String(), string(output), string(stderr))
		return output, err
	}
	return output, nil
}
