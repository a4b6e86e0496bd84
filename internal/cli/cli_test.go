package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/opgrid/internal/catalog"
	"github.com/specialistvlad/opgrid/internal/cli"
	"github.com/specialistvlad/opgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &testutil.SafeBuffer{}
	err := cli.Run(context.Background(), args, out, errOut)
	return out.String(), errOut.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr), "expected an ExitError, got %v", err)
	return exitErr.Code
}

const extraManifest = `
primitive "test detector" {
  class = "TestDetector"
  kind  = "detector"
  parameter "value_name" { type = float }
}
`

func TestList(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, "list")
	require.NoError(t, err)
	for _, name := range []string{"select album", "save album", "split album", "transform album"} {
		assert.Contains(t, out, name)
	}
	assert.NotContains(t, out, "majority classifier")

	out, _, err = run(t, "list", "-p", "-o", "json")
	require.NoError(t, err)
	var docs []catalog.Document
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "majority classifier", docs[0].Name)

	_, _, err = run(t, "list", "-o", "xml")
	assert.Equal(t, 2, exitCode(t, err))
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, "describe", "split album", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: split album")
	assert.Contains(t, out, "className: SplitAlbum")

	_, _, err = run(t, "describe", "no such operator")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, err.Error(), "operator 'no such operator' not found")

	_, _, err = run(t, "describe")
	assert.Equal(t, 2, exitCode(t, err))
}

const narrowSplitManifest = `
operator "narrow split" {
  class = "SplitAlbum"

  parameter "size" {
    type    = float
    default = 0.3
    min     = 0.1
    max     = 0.3
  }
  input "album" {}
  output "train" {}
  output "test" {}
}
`

func TestCheck(t *testing.T) {
	t.Parallel()

	t.Run("accepted values", func(t *testing.T) {
		t.Parallel()
		out, _, err := run(t, "check", "transform album", "mode=rotate", "angle=45")
		require.NoError(t, err)
		assert.Equal(t, "OK transform album\n", out)
	})

	t.Run("rejected values", func(t *testing.T) {
		t.Parallel()
		out, _, err := run(t, "check", "split album", "size=1.5", "angle=45")
		require.Error(t, err)
		assert.Equal(t, 1, exitCode(t, err))
		assert.Equal(t, "2 parameter value(s) rejected", err.Error())
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "FAIL parameter 'angle' violates rule 'unknown': no such parameter is declared", lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "FAIL parameter 'size' violates rule 'max'"), lines[1])
	})

	t.Run("primitive from a manifest", func(t *testing.T) {
		t.Parallel()
		dir := testutil.WriteFiles(t, map[string]string{"detector.hcl": extraManifest})
		out, _, err := run(t, "check", "-p", "test detector", "value_name=3", "--manifests", dir)
		require.Error(t, err, "TestDetector is not a compiled-in class")
		assert.Empty(t, out)
		assert.Contains(t, err.Error(), "unknown class 'TestDetector'")
	})

	t.Run("decimal bounds are inclusive", func(t *testing.T) {
		t.Parallel()
		dir := testutil.WriteFiles(t, map[string]string{"narrow.hcl": narrowSplitManifest})

		out, _, err := run(t, "check", "narrow split", "size=0.1", "--manifests", dir)
		require.NoError(t, err)
		assert.Equal(t, "OK narrow split\n", out)

		out, _, err = run(t, "check", "narrow split", "size=0.3", "--manifests", dir)
		require.NoError(t, err)
		assert.Equal(t, "OK narrow split\n", out)

		out, _, err = run(t, "check", "narrow split", "size=0.31", "--manifests", dir)
		assert.Equal(t, 1, exitCode(t, err))
		assert.True(t, strings.HasPrefix(out, "FAIL parameter 'size' violates rule 'max'"), out)
	})

	t.Run("bad assignment", func(t *testing.T) {
		t.Parallel()
		_, _, err := run(t, "check", "split album", "size")
		assert.Equal(t, 2, exitCode(t, err))
	})

	t.Run("unknown operator", func(t *testing.T) {
		t.Parallel()
		_, _, err := run(t, "check", "no such operator")
		assert.Equal(t, 1, exitCode(t, err))
	})
}

func TestVerify_Manifests(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteFiles(t, map[string]string{
		"classifier.hcl": `
primitive "smoothed majority" {
  class       = "Classifier"
  kind        = "non-neural classifier"
  description = "The majority classifier, declared from a manifest."
  parameter "smoothing" {
    type    = float
    default = 1
    min     = 0
  }
}
`,
	})

	out, _, err := run(t, "verify", "--manifests", dir)
	require.NoError(t, err)
	assert.Equal(t, "4 operators and 2 primitives declared\n", out)
}

func TestConfigFile(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteFiles(t, map[string]string{
		"manifests/bad.hcl": `operator "x" {}`,
	})
	cfgPath := filepath.Join(dir, "opgrid.yaml")
	cfg := "manifests:\n  - " + filepath.Join(dir, "manifests") + "\nlog-level: debug\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	_, logs, err := run(t, "verify", "--config", cfgPath)
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, err.Error(), "Missing 'class' attribute")
	assert.Contains(t, logs, "level=DEBUG", "log level is read from the config file")

	_, _, err = run(t, "verify", "--config", filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, 2, exitCode(t, err))
}

func TestEnvironment(t *testing.T) {
	t.Setenv("OPGRID_LOG_LEVEL", "loud")

	_, _, err := run(t, "verify")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(t, err))
	assert.Contains(t, err.Error(), "invalid log-level 'loud'")
}

func TestUnknownCommand(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, "frobnicate")
	assert.Equal(t, 2, exitCode(t, err))
}

const pipelinesHCL = `
pipeline "holidays" {
  step "load" {
    operator = "select album"
    params   = { album = "albums/holidays" }
  }
  step "split" {
    operator = "split album"
    params   = { size = 0.5 }
    inputs   = { album = "load.album" }
  }
}

pipeline "orphan" {
  step "store" {
    operator = "save album"
    params   = { name = "orphans" }
  }
}
`

func TestPipeline(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := testutil.WriteFiles(t, map[string]string{"pipelines.hcl": pipelinesHCL})

	// --- Act ---
	out, _, err := run(t, "pipeline", filepath.Join(dir, "pipelines.hcl"))

	// --- Assert ---
	assert.Equal(t, 1, exitCode(t, err))
	assert.ErrorContains(t, err, "1 of 2 pipeline(s) failed")
	assert.Equal(t,
		"OK holidays: load -> split\n"+
			"FAIL orphan: step 'store': required input is not connected: 'album'\n",
		out)

	_, _, err = run(t, "pipeline", filepath.Join(dir, "missing.hcl"))
	assert.Equal(t, 1, exitCode(t, err))

	_, _, err = run(t, "pipeline")
	assert.Equal(t, 2, exitCode(t, err))
}
