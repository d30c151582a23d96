// Package cli implements stockctl, the command line client of the stock ledger server.
package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	ledgerclient "github.com/mamadbah2/warehouse/pkg/clients/ledger"
)

// DefaultServer is used when neither -server nor STOCKCTL_SERVER is set.
const DefaultServer = "http://localhost:8080"

// App carries the state shared by every subcommand.
type App struct {
	Server string
	Out    io.Writer
	Err    io.Writer
	Logger *zap.Logger

	client ledgerclient.Client
}

// Register adds the stockctl subcommands to c.
func Register(c *subcommands.Commander, a *App) {
	if a.Out == nil {
		a.Out = os.Stdout
	}
	if a.Err == nil {
		a.Err = os.Stderr
	}
	if a.Logger == nil {
		a.Logger = zap.NewNop()
	}

	c.Register(&summaryCmd{app: a}, "ledger")
	c.Register(&saveCmd{app: a}, "ledger")
	c.Register(&checkCmd{app: a}, "ledger")

	c.Register(&addProductCmd{app: a}, "structure")
	c.Register(&addSheetCmd{app: a}, "structure")
	c.Register(&addPageCmd{app: a}, "structure")
	c.Register(&showPageCmd{app: a}, "structure")

	c.Register(&addRecordCmd{app: a}, "records")
	c.Register(&updateRecordCmd{app: a}, "records")
	c.Register(&deleteRecordCmd{app: a}, "records")
}

// ServerFromEnv returns STOCKCTL_SERVER or DefaultServer.
func ServerFromEnv() string {
	if v := os.Getenv("STOCKCTL_SERVER"); v != "" {
		return v
	}
	return DefaultServer
}

func (a *App) api() ledgerclient.Client {
	if a.client == nil {
		a.client = ledgerclient.NewClient(a.Server)
	}
	return a.client
}

func (a *App) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
}

func (a *App) fail(what string, err error) subcommands.ExitStatus {
	a.Logger.Debug(what, zap.String("server", a.Server), zap.Error(err))
	fmt.Fprintf(a.Err, "Error %s: %v\n", what, err)
	return subcommands.ExitFailure
}
