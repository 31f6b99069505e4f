package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/Azhovan/envmanager"
)

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes the CLI with environ standing in for the process environment.
func run(t *testing.T, environ map[string]string, args ...string) result {
	t.Helper()

	cmd := newRootCmd(environ, func(bool) (*zap.Logger, error) {
		return zaptest.NewLogger(t), nil
	})

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func setupEnvFile(t *testing.T, content string) (string, map[string]string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return path, map[string]string{"ENVMANAGER_FILE": path}
}

func readEnvFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		want    Config
		wantErr bool
	}{
		{
			name:    "defaults",
			environ: map[string]string{},
			want:    Config{File: ".env", Cipher: "AES-256-CBC"},
		},
		{
			name: "overrides",
			environ: map[string]string{
				"ENVMANAGER_FILE":   "/app/.env",
				"ENVMANAGER_CIPHER": "AES-128-CBC",
				"ENVMANAGER_DEBUG":  "true",
			},
			want: Config{File: "/app/.env", Cipher: "AES-128-CBC", Debug: true},
		},
		{
			name:    "invalid debug flag",
			environ: map[string]string{"ENVMANAGER_DEBUG": "maybe"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadConfig(tt.environ)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestBuildLogger(t *testing.T) {
	for _, debug := range []bool{true, false} {
		logger, err := buildLogger(debug)
		require.NoError(t, err)
		assert.Equal(t, debug, logger.Core().Enabled(zap.DebugLevel))
	}
}

func TestGet(t *testing.T) {
	_, environ := setupEnvFile(t, "APP_NAME=Example\nAPP_LOCALE=ru\n")

	res := run(t, environ, "get", "APP_NAME")
	require.NoError(t, res.err)
	assert.Equal(t, "Example\n", res.stdout)

	res = run(t, environ, "get", "MISSING", "--default", "d")
	require.NoError(t, res.err)
	assert.Equal(t, "d\n", res.stdout)

	res = run(t, environ, "get", "MISSING")
	assert.Error(t, res.err)
}

func TestFileFlagOverridesEnvironment(t *testing.T) {
	path, _ := setupEnvFile(t, "APP_NAME=FromFlag\n")
	_, environ := setupEnvFile(t, "APP_NAME=FromEnvironment\n")

	res := run(t, environ, "--file", path, "get", "APP_NAME")
	require.NoError(t, res.err)
	assert.Equal(t, "FromFlag\n", res.stdout)
}

func TestHas(t *testing.T) {
	_, environ := setupEnvFile(t, "APP_NAME=Example\n")

	res := run(t, environ, "has", "APP_NAME")
	require.NoError(t, res.err)
	assert.Equal(t, "true\n", res.stdout)

	res = run(t, environ, "has", "MISSING")
	require.NoError(t, res.err)
	assert.Equal(t, "false\n", res.stdout)
}

func TestSet(t *testing.T) {
	path, environ := setupEnvFile(t, "APP_NAME=Example\n")

	res := run(t, environ, "set", "APP_URL=https://example.com", "lower_case=dropped", "APP_LOCALE=ru")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "lower_case: invalid_key_format")

	assert.Equal(t, "APP_LOCALE=ru\nAPP_NAME=Example\nAPP_URL=\"https://example.com\"\n", readEnvFile(t, path))
}

func TestSet_InvalidAssignment(t *testing.T) {
	path, environ := setupEnvFile(t, "")

	res := run(t, environ, "set", "NOEQUALS")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "expected NAME=VALUE")

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSet_NothingToSave(t *testing.T) {
	_, environ := setupEnvFile(t, "")

	res := run(t, environ, "set", "lower_case=v")
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, envmanager.ErrNothingToSave))
}

func TestKeyGenerate(t *testing.T) {
	path, environ := setupEnvFile(t, "APP_NAME=Example\n")
	environ["ENVMANAGER_CIPHER"] = "AES-128-CBC"

	res := run(t, environ, "key:generate")
	require.NoError(t, res.err)
	assert.Equal(t, "Application key set successfully.\n", res.stdout)

	content := readEnvFile(t, path)
	require.Contains(t, content, "APP_KEY=\"base64:")
	assert.Contains(t, content, "APP_NAME=Example\n")

	// 16 bytes encode to 24 base64 characters.
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		if strings.HasPrefix(line, "APP_KEY=") {
			key := strings.Trim(strings.TrimPrefix(line, "APP_KEY="), `"`)
			assert.Len(t, strings.TrimPrefix(key, "base64:"), 24)
		}
	}
}

func TestKeyGenerate_Show(t *testing.T) {
	path, environ := setupEnvFile(t, "")

	res := run(t, environ, "key:generate", "--show")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "base64:"))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "--show must not write the file")
}

func TestNewFrom(t *testing.T) {
	path, environ := setupEnvFile(t, "OLD_VALUE=gone\n")
	template := filepath.Join(t.TempDir(), ".env.example")
	require.NoError(t, os.WriteFile(template, []byte("APP_NAME=Example\nAPP_KEY=\n"), 0644))

	res := run(t, environ, "new-from", template, "--with-app-key")
	require.NoError(t, res.err)
	assert.Equal(t, "Created "+path+" from "+template+"\n", res.stdout)

	content := readEnvFile(t, path)
	assert.NotContains(t, content, "OLD_VALUE")
	assert.Contains(t, content, "APP_NAME=Example\n")
	assert.Contains(t, content, "APP_KEY=\"base64:")

	// The template is left untouched.
	assert.Equal(t, "APP_NAME=Example\nAPP_KEY=\n", readEnvFile(t, template))
}

func TestNewFrom_MissingTemplate(t *testing.T) {
	_, environ := setupEnvFile(t, "APP_NAME=Example\n")

	res := run(t, environ, "new-from", filepath.Join(t.TempDir(), "absent"))
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, os.ErrNotExist))
}

func TestValidate(t *testing.T) {
	_, environ := setupEnvFile(t, "APP_NAME=Example\n")

	res := run(t, environ, "validate")
	require.NoError(t, res.err)
	assert.Equal(t, "OK\n", res.stdout)

	_, environ = setupEnvFile(t, "APP_NAME=Example\nlower_case=v\n")
	res = run(t, environ, "validate")
	require.Error(t, res.err)

	var ve *envmanager.ValidationError
	require.True(t, errors.As(res.err, &ve))
	assert.Equal(t, "lower_case", ve.FieldErrors[0].Name)
}

func TestDump(t *testing.T) {
	path, environ := setupEnvFile(t, "APP_NAME=Example\nDB_PASSWORD=secret\n")

	res := run(t, environ, "dump", "--sources")
	require.NoError(t, res.err)
	assert.Equal(t,
		"APP_NAME: \"Example\" (source: file:"+path+")\n"+
			"DB_PASSWORD: ***redacted*** (source: file:"+path+")\n",
		res.stdout)

	res = run(t, environ, "dump", "--json")
	require.NoError(t, res.err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &decoded))
	assert.Equal(t, map[string]string{"APP_NAME": "Example", "DB_PASSWORD": "***redacted***"}, decoded)
}

func TestImport_File(t *testing.T) {
	path, environ := setupEnvFile(t, "APP_NAME=Example\n")
	yamlFile := filepath.Join(t.TempDir(), "defaults.yaml")
	require.NoError(t, os.WriteFile(yamlFile, []byte("locale: ru\nurl: https://example.com\n"), 0644))

	res := run(t, environ, "import", yamlFile, "--prefix", "APP")
	require.NoError(t, res.err)
	assert.Equal(t, "Imported from file:defaults.yaml (2 new)\n", res.stdout)

	assert.Equal(t, "APP_LOCALE=ru\nAPP_NAME=Example\nAPP_URL=\"https://example.com\"\n", readEnvFile(t, path))
}

func TestImport_Env(t *testing.T) {
	path, environ := setupEnvFile(t, "")
	t.Setenv("ENVMANAGER_CLI_TEST_APP_NAME", "FromEnv")

	res := run(t, environ, "import", "--env", "ENVMANAGER_CLI_TEST_")
	require.NoError(t, res.err)
	assert.Equal(t, "Imported from env:ENVMANAGER_CLI_TEST_ (1 new)\n", res.stdout)
	assert.Equal(t, "APP_NAME=FromEnv\n", readEnvFile(t, path))
}

func TestImport_NeedsOneSource(t *testing.T) {
	_, environ := setupEnvFile(t, "")

	res := run(t, environ, "import")
	assert.Error(t, res.err)

	res = run(t, environ, "import", "file.yaml", "--env", "APP_")
	assert.Error(t, res.err)
}

func TestImport_MissingFile(t *testing.T) {
	_, environ := setupEnvFile(t, "")

	res := run(t, environ, "import", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "required file not found")
}

func TestSnapshot(t *testing.T) {
	_, environ := setupEnvFile(t, "APP_NAME=Example\nAPP_URL=https://example.com\nDB_PASSWORD=secret\n")
	target := filepath.Join(t.TempDir(), "snapshot.json")

	res := run(t, environ, "snapshot", target, "--exclude", "APP_URL")
	require.NoError(t, res.err)
	assert.Equal(t, target+"\n", res.stdout)

	data, err := os.ReadFile(target)
	require.NoError(t, err)

	var snap envmanager.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, map[string]string{"APP_NAME": "Example", "DB_PASSWORD": "***redacted***"}, snap.Variables)
}

func TestUnreadableFile(t *testing.T) {
	_, environ := setupEnvFile(t, "no delimiter on this line\n")

	res := run(t, environ, "get", "APP_NAME")
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, envmanager.ErrUnableToRead))
}
