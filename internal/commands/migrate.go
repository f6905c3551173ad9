package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskflow/internal/backend/gormstore"
	"taskflow/internal/config"
	"taskflow/internal/exitcode"
)

func init() {
	Register(&MigrateCmd{})
}

// MigrateCmd implements the migrate command.
type MigrateCmd struct{}

func (c *MigrateCmd) Name() string      { return "migrate" }
func (c *MigrateCmd) Aliases() []string { return nil }
func (c *MigrateCmd) Synopsis() string  { return "Create or update the database schema" }
func (c *MigrateCmd) Usage() string     { return "taskflow migrate [--config <file>]" }
func (c *MigrateCmd) NeedsConfig() bool { return true }

func (c *MigrateCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *MigrateCmd) Run(ctx context.Context, cfg *config.Config, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	log := newLogger(cfg.LogLevel, cfg.Debug, errOut)

	store, err := gormstore.Open(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.RuntimeError
	}
	defer store.Close()

	log.Debug("migrating database", "path", cfg.Database.Path)
	if err := store.Migrate(); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.RuntimeError
	}

	fmt.Fprintf(out, "Database schema is up to date: %s\n", cfg.Database.Path)
	return exitcode.Success
}
