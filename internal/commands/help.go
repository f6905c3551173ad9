package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskflow/internal/config"
	"taskflow/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return []string{"--help", "-h"} }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskflow help" }
func (c *HelpCmd) NeedsConfig() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, HelpText)
	return exitcode.Success
}

// HelpText is the usage message.
const HelpText = `Usage:
  taskflow serve [common flags] [--addr <host:port>]  Run the HTTP API until interrupted
  taskflow migrate [common flags]                     Create or update the database schema
  taskflow version                                    Print version
  taskflow help                                       Print this message

Common flags:
  --config <file>  Configuration file (default config.yaml; environment only if missing)
  --debug          Log at debug level

Exit codes:
  0 success, 1 usage error, 2 configuration error, 3 runtime error
`
