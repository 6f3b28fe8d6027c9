package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"roster/internal/config"
	"roster/internal/model"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Database:   config.DatabaseConfig{Driver: config.DriverMemory},
		StorageKey: "students",
		Server:     config.ServerConfig{Addr: "127.0.0.1:0"},
		Logging:    config.LoggingConfig{Level: "error", Format: "text"},
		Import:     config.ImportConfig{MaxBytes: 1 << 20},
	}
}

// testRoster runs commands against one shared in-memory roster.
type testRoster struct {
	app *App
}

func newTestRoster(t *testing.T) *testRoster {
	t.Helper()
	app, err := OpenApp(memoryConfig())
	require.NoError(t, err)
	return &testRoster{app: app}
}

func (tr *testRoster) run(args ...string) (string, error) {
	opts := &RootOptions{
		LoadConfig: func() (*config.Config, error) { return memoryConfig(), nil },
		Open:       func(*config.Config) (*App, error) { return tr.app, nil },
	}
	cmd := NewRootCommandWith(opts)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (tr *testRoster) records(t *testing.T) []model.StudentRecord {
	t.Helper()
	records, err := tr.app.Controller.Records(context.Background())
	require.NoError(t, err)
	return records
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "roster", cmd.Use)

	for _, name := range []string{"serve", "list", "add", "edit", "delete", "import", "export"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
}

func TestInvalidFormat(t *testing.T) {
	tr := newTestRoster(t)
	_, err := tr.run("--format", "xml", "list")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestAddListEditDelete(t *testing.T) {
	tr := newTestRoster(t)

	out, err := tr.run("add", "--name", "Ann Lee", "--id", "101", "--email", "a@b.com", "--contact", "1234567890")
	require.NoError(t, err)
	assert.Equal(t, "added student 101\n", out)

	_, err = tr.run("add", "--name", "Bob Stone", "--id", "101", "--email", "bob@school.org", "--contact", "9876543210")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "already exists")

	out, err = tr.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Ann Lee")

	_, err = tr.run("edit", "101", "--name", "Ann K. Lee")
	require.NoError(t, err)
	assert.Equal(t, []model.StudentRecord{{StudentName: "Ann K. Lee", StudentID: "101", Email: "a@b.com", ContactNumber: "1234567890"}}, tr.records(t))

	_, err = tr.run("edit", "999", "--name", "Nobody")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	out, err = tr.run("delete", "101")
	require.NoError(t, err)
	assert.Equal(t, "deleted student 101\n", out)
	_, err = tr.run("delete", "101")
	require.NoError(t, err)
	assert.Empty(t, tr.records(t))
}

func TestListJSONAndYAML(t *testing.T) {
	tr := newTestRoster(t)
	_, err := tr.run("add", "--name", "Ann Lee", "--id", "101", "--email", "a@b.com", "--contact", "1234567890")
	require.NoError(t, err)

	out, err := tr.run("--format", "json", "list")
	require.NoError(t, err)
	var listed struct {
		Data  []model.StudentRecord `json:"data"`
		Total int64                 `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	assert.Equal(t, int64(1), listed.Total)
	assert.Equal(t, "101", listed.Data[0].StudentID)

	out, err = tr.run("--format", "yaml", "add", "--name", "Bob Stone", "--id", "202", "--email", "bob@school.org", "--contact", "9876543210")
	require.NoError(t, err)
	var rec model.StudentRecord
	require.NoError(t, yaml.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "Bob Stone", rec.StudentName)
}

func TestImportExport(t *testing.T) {
	tr := newTestRoster(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(in, []byte("studentName,studentId,email,contactNumber\nAnn Lee,101,a@b.com,1234567890\nBad,x,a@b.com,1234567890\n"), 0o600))

	out, err := tr.run("import", in)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1 of 2 rows")
	assert.Contains(t, out, "line 3: Student ID must be a number only.")

	out, err = tr.run("export")
	require.NoError(t, err)
	assert.Equal(t, "studentName,studentId,email,contactNumber\nAnn Lee,101,a@b.com,1234567890\n", out)

	yamlPath := filepath.Join(dir, "out.yaml")
	_, err = tr.run("export", "--as", "yaml", "-o", yamlPath)
	require.NoError(t, err)
	raw, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var records []model.StudentRecord
	require.NoError(t, yaml.Unmarshal(raw, &records))
	assert.Equal(t, tr.records(t), records)

	_, err = tr.run("export", "--as", "xml")
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = tr.run("import", filepath.Join(dir, "missing.csv"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestOpenAppSQLite(t *testing.T) {
	cfg := memoryConfig()
	cfg.Database = config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "roster.db")}

	app, err := OpenApp(cfg)
	require.NoError(t, err)
	records, err := app.Controller.Records(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, app.Close())
}

func TestRunServerShutsDown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- runServer(ctx, server) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
	err := WrapExitError(ExitCommandError, "boom", assert.AnError)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.True(t, strings.HasPrefix(err.Error(), "boom: "))
}
