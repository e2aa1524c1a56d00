package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"  yes  \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got := confirm(strings.NewReader(tt.input), &out, "/srv/data")
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "/srv/data and everything below it will be deleted")
		})
	}
}

// testEnv is a temp dir the CLI is allowed to manage, with a config file
// pointing at it.
type testEnv struct {
	root   string
	config string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	config := filepath.Join(t.TempDir(), "fsobj.yaml")
	content := "allowed_paths: [" + root + "]\nfiles_must_exist: false\n"
	require.NoError(t, os.WriteFile(config, []byte(content), 0o644))
	return testEnv{root: root, config: config}
}

func (e testEnv) path(parts ...string) string {
	return filepath.Join(append([]string{e.root}, parts...)...)
}

// run executes the root command and returns what it printed.
func (e testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	options.configPath, options.url, options.verbose = "", "", 0
	lsLong, existsDir, rmRecursive, rmYes, mvDir = false, false, false, false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", e.config}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI_MkdirAndList(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "mkdir", env.path("a", "b"))
	require.NoError(t, err)
	assert.DirExists(t, env.path("a", "b"))
	require.NoError(t, os.WriteFile(env.path("a", "x.txt"), []byte("x"), 0o644))

	out, err := env.run(t, "", "ls", env.path("a"))
	require.NoError(t, err)
	assert.Equal(t, "b\nx.txt\n", out)

	out, err = env.run(t, "", "ls", "-l", env.path("a"))
	require.NoError(t, err)
	assert.Equal(t, "d "+env.path("a", "b")+"\nf "+env.path("a", "x.txt")+"\n", out)
}

func TestCLI_Exists(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(env.path("x.txt"), []byte("x"), 0o644))

	out, err := env.run(t, "", "exists", env.path("x.txt"))
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, err = env.run(t, "", "exists", env.path("y.txt"))
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)

	out, err = env.run(t, "", "exists", "--dir", env.root)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestCLI_OutsideAllowList(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "mkdir", filepath.Join(filepath.Dir(env.root), "elsewhere"))
	assert.Error(t, err)
}

func TestCLI_Rename(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(env.path("f.txt"), []byte("f"), 0o644))

	_, err := env.run(t, "", "mv", env.path("f.txt"), "g.txt")
	require.NoError(t, err)
	assert.NoFileExists(t, env.path("f.txt"))
	assert.FileExists(t, env.path("g.txt"))

	_, err = env.run(t, "", "mv", env.path("f.txt"), "h.txt")
	assert.Error(t, err)
}

func TestCLI_RecursiveDelete(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(env.path("a", "b"), 0o755))
	require.NoError(t, os.WriteFile(env.path("a", "b", "x.txt"), []byte("x"), 0o644))

	out, err := env.run(t, "n\n", "rm", "-r", env.path("a"))
	require.NoError(t, err)
	assert.Contains(t, out, "Do you want to continue?")
	assert.DirExists(t, env.path("a"))

	_, err = env.run(t, "y\n", "rm", "-r", env.path("a"))
	require.NoError(t, err)
	assert.NoDirExists(t, env.path("a"))
}

func TestCLI_DeleteFile(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(env.path("x.txt"), []byte("x"), 0o644))

	_, err := env.run(t, "", "rm", env.path("x.txt"))
	require.NoError(t, err)
	assert.NoFileExists(t, env.path("x.txt"))

	_, err = env.run(t, "", "rm", env.path("x.txt"))
	assert.Error(t, err)
}

func TestCLI_MissingConfigFile(t *testing.T) {
	env := newTestEnv(t)
	env.config = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := env.run(t, "", "ls", "/var/data")
	assert.Error(t, err)
}

func TestCLI_UnknownScheme(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "--url", "http://example.com", "ls", "/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no session available")
}
