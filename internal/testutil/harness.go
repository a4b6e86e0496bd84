package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/opgrid/internal/app"
	"github.com/specialistvlad/opgrid/internal/registry"
	"github.com/stretchr/testify/require"
)

// HarnessResult holds the outcomes of a manifest loading run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
	Dir       string
}

// WriteFiles writes files, keyed by their relative path, into a fresh
// temporary directory and returns the directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// RunManifestTest writes the given manifests to a temporary directory,
// builds an app around the given modules and loads the manifests. A panic
// during startup is reported through Err.
func RunManifestTest(t *testing.T, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()

	dir := WriteFiles(t, files)
	cfg, err := app.NewConfig(app.Config{
		ManifestPaths: []string{dir},
		LogLevel:      "debug",
		LogFormat:     "text",
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	var testApp *app.App
	var panicErr any
	func() {
		defer func() { panicErr = recover() }()
		testApp = app.NewApp(context.Background(), logBuffer, cfg, modules...)
	}()
	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
			Dir:       dir,
		}
	}

	runErr := testApp.LoadManifests()
	if os.Getenv("OPGRID_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
		Dir:       dir,
	}
}
