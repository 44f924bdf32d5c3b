package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testPage = `<html><head><title>ICS</title></head><body>
<p>Computer science research at UCI</p>
<a href="/people">People</a>
<a href="http://example.com/">Elsewhere</a>
<a href="/paper.pdf">Paper</a>
</body></html>`

// testEnv is an isolated working area: an empty configuration file and a
// page database directory.
type testEnv struct {
	dir        string
	configPath string
	dbDir      string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	dir := t.TempDir()
	env := testEnv{
		dir:        dir,
		configPath: filepath.Join(dir, ".scopecrawl"),
		dbDir:      filepath.Join(dir, "db"),
	}
	if err := os.WriteFile(env.configPath, nil, 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return env
}

// writeFile writes content to name inside the environment and returns its path.
func (e testEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// run executes the root command with the environment's global flags.
func (e testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", e.configPath, "--db-dir", e.dbDir}, args...))

	err := cmd.Execute()
	return out.String(), err
}
