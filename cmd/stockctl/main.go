package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/cli"
	"github.com/mamadbah2/warehouse/pkg/logger"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	app := &cli.App{}
	flag.StringVar(&app.Server, "server", cli.ServerFromEnv(), "Base URL of the stock ledger server.")
	verbose := flag.Bool("v", false, "Log requests and failures to stderr.")

	cli.Register(commander, app)
	flag.Parse()

	app.Logger = logger.Must(logger.NewConsole(*verbose))
	zap.ReplaceGlobals(app.Logger)

	status := commander.Execute(context.Background())
	_ = app.Logger.Sync()
	os.Exit(int(status))
}
