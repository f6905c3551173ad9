package commands_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"taskflow/internal/commands"
	"taskflow/internal/config"
	"taskflow/internal/exitcode"
	"taskflow/internal/testutil"
)

// runCommand runs a command and returns stdout, stderr and exit code.
func runCommand(t *testing.T, cmd commands.Command, cfg *config.Config, args []string) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	code = cmd.Run(context.Background(), cfg, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// testConfig returns a config with an in-memory database private to the test.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		LogLevel:    "ERROR",
		FrontendURL: "http://localhost:5173",
		Database: config.DatabaseConfig{
			Path: "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared",
		},
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}
	stdout, stderr, code := runCommand(t, cmd, nil, nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "taskflow 0.1.0\n" {
		t.Errorf("expected 'taskflow 0.1.0\\n', got %q", stdout)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
}

func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}
	stdout, stderr, code := runCommand(t, cmd, nil, nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "help", stdout)
}

func TestHelpText_ListsEveryCommand(t *testing.T) {
	for _, cmd := range commands.DefaultRegistry.All() {
		if !strings.Contains(commands.HelpText, "taskflow "+cmd.Name()) {
			t.Errorf("help text does not mention %q", cmd.Name())
		}
	}
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	reg := commands.NewRegistry()
	if err := reg.Register(&commands.HelpCmd{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := reg.Register(&commands.HelpCmd{}); err == nil {
		t.Error("expected duplicate registration to fail")
	}

	all := reg.All()
	if len(all) != 1 || all[0].Name() != "help" {
		t.Errorf("expected only help, got %d commands", len(all))
	}
	if _, ok := reg.Find("-h"); !ok {
		t.Error("expected alias -h to resolve")
	}
}

func TestMigrateCommand(t *testing.T) {
	cfg := testConfig(t)
	stdout, stderr, code := runCommand(t, &commands.MigrateCmd{}, cfg, nil)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if !strings.HasPrefix(stdout, "Database schema is up to date:") {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestMigrateCommand_ExtraArgument(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.MigrateCmd{}, testConfig(t), []string{"now"})

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unexpected argument: now\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestServeCommand_MissingOAuth(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ServeCmd{}, testConfig(t), nil)

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if !strings.Contains(stderr, "google oauth credentials missing") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestServeCommand_ListenFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.OAuth = config.OAuthConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:5000/auth/google/callback",
	}
	cfg.HTTP.ShutdownTimeout = time.Second

	cmd := &commands.ServeCmd{}
	cmd.SetAddr("not-an-address")
	_, stderr, code := runCommand(t, cmd, cfg, nil)

	if code != exitcode.RuntimeError {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.RuntimeError, code, stderr)
	}
}
