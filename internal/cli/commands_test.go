package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/retrygen/internal/files/filesystem"
	"github.com/vvka-141/retrygen/pkg/retrygen"
)

const validSource = `package sample

import "errors"

//retry:onfailure retries=2
func load() error {
	return errors.New("boom")
}
`

const rejectedSource = `package sample

//retry:onfailure retries=0
func broken() error {
	return nil
}

//retry:onfailure
func fine() error {
	return nil
}
`

const plainSource = `package sample

func untouched() error {
	return nil
}
`

// executeCommand runs the root command with fresh flag state and no
// configuration from the environment.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeCommandWithConfigEnv(t, "", args...)
}

func executeCommandWithConfigEnv(t *testing.T, configEnv string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(retrygen.ConfigEnvVar, configEnv)
	t.Setenv("NO_COLOR", "1")

	resetFlags := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(resetFlags)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(resetFlags)
	}
	resetExpandFlags()
	resetCheckFlags()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readSource(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestExpandCmd_PrintsToStdout(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "load.go", validSource)

	stdout, _, err := executeCommand(t, "expand", path)

	require.NoError(t, err)
	assert.Contains(t, stdout, "retryBlock := func() error {")
	assert.Contains(t, stdout, "for retryAttempts < 2 {")
	assert.NotContains(t, stdout, "//retry:onfailure")
	assert.Equal(t, validSource, readSource(t, path), "source is untouched without -w")
}

func TestExpandCmd_WriteInPlace(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "pkg/load.go", validSource)
	plain := writeSource(t, dir, "pkg/plain.go", plainSource)

	stdout, stderr, err := executeCommand(t, "expand", "-w", dir+"/...")

	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "expanded 1 function(s) in 1 of 2 file(s)")
	assert.Contains(t, readSource(t, path), "retryBlock := func() error {")
	assert.Equal(t, plainSource, readSource(t, plain))

	// The directive is gone, so a second run changes nothing.
	stdout, _, err = executeCommand(t, "expand", "-l", dir)
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestExpandCmd_List(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "load.go", validSource)
	writeSource(t, dir, "plain.go", plainSource)

	stdout, _, err := executeCommand(t, "expand", "-l", dir)

	require.NoError(t, err)
	assert.Equal(t, path+"\n", stdout)
	assert.Equal(t, validSource, readSource(t, path))
}

func TestExpandCmd_DiagnosticsBlockWriting(t *testing.T) {
	dir := t.TempDir()
	bad := writeSource(t, dir, "bad.go", rejectedSource)
	good := writeSource(t, dir, "good.go", validSource)

	_, stderr, err := executeCommand(t, "expand", "-w", dir)

	require.Error(t, err)
	assert.ErrorIs(t, err, retrygen.ErrDiagnostics)
	assert.Equal(t, retrygen.ExitDiagnostics, retrygen.ExitCodeForError(err))
	assert.Contains(t, stderr, "bad.go:3:1: Retries count must be positive")
	assert.Contains(t, stderr, "1 retry directive(s) rejected")

	assert.Equal(t, rejectedSource, readSource(t, bad), "files with diagnostics are not written")
	assert.Contains(t, readSource(t, good), "retryBlock := func() error {")
}

func TestExpandCmd_ParseError(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "broken.go", "package broken\n\nfunc {\n")

	_, _, err := executeCommand(t, "expand", dir)

	require.Error(t, err)
	assert.Equal(t, retrygen.ExitParseError, retrygen.ExitCodeForError(err))
}

func TestExpandCmd_WriteAndOutputAreExclusive(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "load.go", validSource)

	_, _, err := executeCommand(t, "expand", "-w", "-o", t.TempDir(), dir)

	require.Error(t, err)
	assert.Equal(t, retrygen.ExitUsageError, retrygen.ExitCodeForError(err))
}

func TestExpandCmd_NegativeJobs(t *testing.T) {
	_, _, err := executeCommand(t, "expand", "-j", "-1", t.TempDir())

	require.Error(t, err)
	assert.Equal(t, retrygen.ExitUsageError, retrygen.ExitCodeForError(err))
}

func TestExpandCmd_OutputTree(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem("/src")
	mfs.AddFile("pkg/load.go", validSource)
	mfs.AddFile("pkg/plain.go", plainSource)

	original := newFileSystem
	newFileSystem = func() filesystem.FileSystemProvider { return mfs }
	defer func() { newFileSystem = original }()

	_, _, err := executeCommand(t, "expand", "-o", "/out", "/src/...")
	require.NoError(t, err)

	expanded, err := mfs.ReadFile("/out/pkg/load.go")
	require.NoError(t, err)
	assert.Contains(t, string(expanded), "retryBlock := func() error {")

	copied, err := mfs.ReadFile("/out/pkg/plain.go")
	require.NoError(t, err)
	assert.Equal(t, plainSource, string(copied))

	source, err := mfs.ReadFile("/src/pkg/load.go")
	require.NoError(t, err)
	assert.Equal(t, validSource, string(source))
}

func TestExpandCmd_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "load.go", validSource)
	configPath := writeSource(t, dir, "conf/retrygen.yaml", "naming: hashed\nname_prefix: gen\n")

	stdout, _, err := executeCommand(t, "expand", "--config", configPath, path)

	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`genBlock_[0-9a-f]{8} := func\(\) error`), stdout)
}

func TestExpandCmd_ConfigFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "load.go", "package sample\n\n//retry:onfailure\nfunc load() error {\n\treturn nil\n}\n")
	configPath := writeSource(t, dir, "retrygen.yaml", "default_retries: 6\n")

	stdout, _, err := executeCommandWithConfigEnv(t, configPath, "expand", path)

	require.NoError(t, err)
	assert.Contains(t, stdout, "for retryAttempts < 6 {")
}

func TestExpandCmd_ExcludeFromConfig(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "load.go", validSource)
	writeSource(t, dir, "load_gen.go", validSource)
	configPath := writeSource(t, dir, "retrygen.yaml", "exclude:\n  - \"*_gen.go\"\n")

	stdout, _, err := executeCommand(t, "expand", "-l", "--config", configPath, dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "load.go")+"\n", stdout)
}

func TestExpandCmd_MissingExplicitConfig(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "load.go", validSource)

	_, _, err := executeCommand(t, "expand", "--config", filepath.Join(dir, "nope.yaml"), dir)

	require.Error(t, err)
	assert.Equal(t, retrygen.ExitConfigError, retrygen.ExitCodeForError(err))
}

func TestExpandCmd_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := writeSource(t, dir, "retrygen.yaml", "default_retries: 0\n")

	_, _, err := executeCommand(t, "expand", "--config", configPath, dir)

	require.Error(t, err)
	assert.ErrorIs(t, err, retrygen.ErrInvalidConfig)
}

func TestExpandCmd_VerboseLogsSourceMap(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "load.go", validSource)

	_, stderr, err := executeCommand(t, "expand", "-v", path)

	require.NoError(t, err)
	assert.Contains(t, stderr, "[VERBOSE]")
	assert.Contains(t, stderr, "load (retries=2) from "+path+":6")
}

func TestExpandCmd_ImplicitConfigInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "load.go", "package sample\n\n//retry:onfailure\nfunc load() error {\n\treturn nil\n}\n")
	writeSource(t, dir, retrygen.ConfigFileName, "default_retries: 7\n")
	chdirForTest(t, dir)

	stdout, _, err := executeCommand(t, "expand", path)

	require.NoError(t, err)
	assert.Contains(t, stdout, "for retryAttempts < 7 {")
}

func TestExpandCmd_InvalidNamePrefix(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "load.go", validSource)
	configPath := writeSource(t, dir, "retrygen.yaml", "name_prefix: retry-\n")

	_, _, err := executeCommand(t, "expand", "--config", configPath, dir)

	require.ErrorIs(t, err, retrygen.ErrInvalidConfig)
	assert.Equal(t, retrygen.ExitConfigError, retrygen.ExitCodeForError(err))
}

func TestLocateCmd(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "load.go", validSource)

	t.Run("inside expansion", func(t *testing.T) {
		// The directive line is removed, so func load starts on line 5.
		stdout, _, err := executeCommand(t, "locate", path, "5")

		require.NoError(t, err)
		assert.Equal(t, path+":5: load (retries=2) from "+path+":6\n", stdout)
	})

	t.Run("outside expansion", func(t *testing.T) {
		stdout, _, err := executeCommand(t, "locate", path, "3")

		require.NoError(t, err)
		assert.Equal(t, path+":3: not inside an expanded function\n", stdout)
	})

	t.Run("bad line", func(t *testing.T) {
		_, _, err := executeCommand(t, "locate", path, "zero")

		require.Error(t, err)
		assert.Equal(t, retrygen.ExitUsageError, retrygen.ExitCodeForError(err))
	})

	t.Run("rejected directive", func(t *testing.T) {
		bad := writeSource(t, dir, "bad.go", rejectedSource)

		_, stderr, err := executeCommand(t, "locate", bad, "1")

		require.ErrorIs(t, err, retrygen.ErrDiagnostics)
		assert.Contains(t, stderr, "Retries count must be positive")
	})
}

func TestCheckCmd(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		dir := t.TempDir()
		writeSource(t, dir, "load.go", validSource)

		_, stderr, err := executeCommand(t, "check", dir)

		require.NoError(t, err)
		assert.Contains(t, stderr, "1 file(s) checked, no problems found")
	})

	t.Run("rejected", func(t *testing.T) {
		dir := t.TempDir()
		path := writeSource(t, dir, "bad.go", rejectedSource)

		_, stderr, err := executeCommand(t, "check", dir)

		require.ErrorIs(t, err, retrygen.ErrDiagnostics)
		assert.Contains(t, stderr, "bad.go:3:1: Retries count must be positive")
		assert.Equal(t, rejectedSource, readSource(t, path))
	})
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := executeCommand(t, "version")

	require.NoError(t, err)
	assert.Regexp(t, `^retrygen \S+ \(`, stdout)
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	_, _, err := executeCommand(t, "expand", "--bogus")

	require.Error(t, err)
	assert.Equal(t, retrygen.ExitUsageError, retrygen.ExitCodeForError(err))
}

// chdirForTest changes the working directory for the duration of the test,
// standing in for testing.T.Chdir on toolchains older than Go 1.24.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(prev))
	})
}
