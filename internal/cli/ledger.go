package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/mamadbah2/warehouse/internal/domain/ledger"
	"github.com/mamadbah2/warehouse/internal/repository/filestore"
)

type summaryCmd struct {
	app *App
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "list products, sheets and page balances" }
func (*summaryCmd) Usage() string {
	return `stockctl summary

  Lists every page of the ledger with its record count, closing stock and stock value.
`
}

func (*summaryCmd) SetFlags(*flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	products, err := c.app.api().Summary(ctx)
	if err != nil {
		return c.app.fail("fetching summary", err)
	}
	if len(products) == 0 {
		fmt.Fprintln(c.app.Out, "ledger is empty")
		return subcommands.ExitSuccess
	}

	w := c.app.table()
	fmt.Fprintln(w, "PRODUCT\tUNIT\tSHEET\tPERIOD\tPAGE\tPRICE\tRECORDS\tCLOSING\tVALUE")
	for _, p := range products {
		if len(p.Sheets) == 0 {
			fmt.Fprintf(w, "%d %s\t%s\t-\t\t\t\t\t\t\n", p.Index, p.Name, p.Unit)
		}
		for _, s := range p.Sheets {
			if len(s.Pages) == 0 {
				fmt.Fprintf(w, "%d %s\t%s\t%d\t%04d-%02d\t-\t\t\t\t\n", p.Index, p.Name, p.Unit, s.Index, s.Year, s.Month)
			}
			for _, g := range s.Pages {
				fmt.Fprintf(w, "%d %s\t%s\t%d\t%04d-%02d\t%d\t%s\t%d\t%s\t%s\n",
					p.Index, p.Name, p.Unit, s.Index, s.Year, s.Month,
					g.Index, g.Price, g.Records, g.ClosingStock, g.StockValue)
			}
		}
	}
	if err := w.Flush(); err != nil {
		return c.app.fail("writing summary", err)
	}
	return subcommands.ExitSuccess
}

type saveCmd struct {
	app *App
}

func (*saveCmd) Name() string     { return "save" }
func (*saveCmd) Synopsis() string { return "write the server ledger to its store" }
func (*saveCmd) Usage() string {
	return `stockctl save

  Asks the server to persist the ledger now instead of waiting for the autosave.
`
}

func (*saveCmd) SetFlags(*flag.FlagSet) {}

func (c *saveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.app.api().Save(ctx); err != nil {
		return c.app.fail("saving ledger", err)
	}
	fmt.Fprintln(c.app.Out, "ledger saved")
	return subcommands.ExitSuccess
}

type checkCmd struct {
	app  *App
	file string
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "verify a ledger file offline" }
func (*checkCmd) Usage() string {
	return `stockctl check [-file <ledger.json>]

  Loads a ledger file without contacting the server and verifies that every
  page balances: each opening stock equals the previous closing stock and each
  closing stock equals opening + input - output.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "ledger.json", "Ledger file to verify.")
}

func (c *checkCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	doc, err := filestore.New(c.file, c.app.Logger).Load(ctx)
	if err != nil {
		return c.app.fail(fmt.Sprintf("loading %q", c.file), err)
	}
	l, err := ledger.FromDocument(doc)
	if err != nil {
		return c.app.fail(fmt.Sprintf("checking %q", c.file), err)
	}

	var sheets, pages, records int
	for _, p := range l.Products() {
		for _, s := range p.Sheets() {
			sheets++
			for _, g := range s.Pages() {
				pages++
				records += g.Len()
			}
		}
	}
	fmt.Fprintf(c.app.Out, "%s: ok, %d products, %d sheets, %d pages, %d records\n", c.file, l.Len(), sheets, pages, records)
	return subcommands.ExitSuccess
}
