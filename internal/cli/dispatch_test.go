package cli_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"taskflow/internal/cli"
	"taskflow/internal/commands"
	"taskflow/internal/config"
	"taskflow/internal/exitcode"
)

// memoryConfig returns a loader yielding a config backed by an in-memory database.
func memoryConfig(seen *string) cli.ConfigLoader {
	return func(path string) (*config.Config, error) {
		if seen != nil {
			*seen = path
		}
		return &config.Config{
			LogLevel: "ERROR",
			Database: config.DatabaseConfig{Path: "file:dispatch_test?mode=memory&cache=shared"},
		}, nil
	}
}

func TestDispatcher_NoArgs(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, memoryConfig(nil))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), nil, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasPrefix(stderr.String(), "Usage:") {
		t.Errorf("expected usage on stderr, got %q", stderr.String())
	}
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, memoryConfig(nil))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"unknowncmd"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, memoryConfig(nil))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"--debug"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --debug\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	for _, name := range []string{"help", "--help", "-h"} {
		t.Run(name, func(t *testing.T) {
			dispatcher := cli.NewDispatcher(commands.DefaultRegistry, memoryConfig(nil))

			var stdout, stderr bytes.Buffer
			code := dispatcher.Run(context.Background(), []string{name}, &stdout, &stderr)

			if code != exitcode.Success {
				t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
			}
			if stderr.String() != "" {
				t.Errorf("expected no stderr, got %q", stderr.String())
			}
			if !bytes.Contains(stdout.Bytes(), []byte("Usage:")) {
				t.Error("expected help output to contain 'Usage:'")
			}
		})
	}
}

func TestDispatcher_VersionSkipsConfig(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, func(string) (*config.Config, error) {
		return nil, errors.New("config must not be read")
	})

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"version"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout.String() != "taskflow 0.1.0\n" {
		t.Errorf("expected 'taskflow 0.1.0\\n', got %q", stdout.String())
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, memoryConfig(nil))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"migrate", "--verbose"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -verbose\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, memoryConfig(nil))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"migrate", "--config"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -config\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_ConfigError(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, func(string) (*config.Config, error) {
		return nil, errors.New("cannot read config")
	})

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"migrate"}, &stdout, &stderr)

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if stderr.String() != "error: cannot read config\n" {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestDispatcher_ConfigPath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"default", []string{"migrate"}, config.DefaultPath},
		{"flag", []string{"migrate", "--config", "prod.yaml"}, "prod.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			dispatcher := cli.NewDispatcher(commands.DefaultRegistry, memoryConfig(&seen))

			var stdout, stderr bytes.Buffer
			code := dispatcher.Run(context.Background(), tt.args, &stdout, &stderr)

			if code != exitcode.Success {
				t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr.String())
			}
			if seen != tt.want {
				t.Errorf("expected config path %q, got %q", tt.want, seen)
			}
		})
	}
}
