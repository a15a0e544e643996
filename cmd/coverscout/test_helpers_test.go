package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	musicDir   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	musicDir := filepath.Join(base, "music")
	if err := os.MkdirAll(musicDir, 0o755); err != nil {
		t.Fatalf("create music dir: %v", err)
	}

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
log_dir = %q
cache_dir = %q

[acoustid]
api_key = "test-key"

[lookup_cache]
enabled = false
`,
		filepath.Join(base, "logs"),
		filepath.Join(base, "cache"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		baseDir:    base,
		configPath: configPath,
		musicDir:   musicDir,
	}
}

func runCLI(t *testing.T, args []string, configPath string, stdin io.Reader) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output missing %q:\n%s", want, output)
	}
}

// installStubBinaries prepends a directory of shell stubs for the external
// tools to PATH so commands resolve them instead of real installs.
func installStubBinaries(t *testing.T, scripts map[string]string) {
	t.Helper()
	dir := t.TempDir()
	for name, script := range scripts {
		writeStub(t, dir, name, script)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func writeStub(t *testing.T, dir, name, script string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
}

const fpcalcStubScript = `#!/bin/sh
printf '{"fingerprint":"STUBPRINT","duration":184.52}'
`

const ffprobeNoArtStubScript = `#!/bin/sh
printf '{"streams":[{"index":0,"codec_type":"audio","disposition":{"attached_pic":0}}],"format":{"format_name":"mp3"}}'
`
