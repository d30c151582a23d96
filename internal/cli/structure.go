package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/google/subcommands"

	"github.com/mamadbah2/warehouse/internal/domain/ledger"
	"github.com/mamadbah2/warehouse/internal/domain/models"
)

type addProductCmd struct {
	app *App
	req models.CreateProductRequest
}

func (*addProductCmd) Name() string     { return "add-product" }
func (*addProductCmd) Synopsis() string { return "create a product" }
func (*addProductCmd) Usage() string {
	return `stockctl add-product -name <name> -unit <unit>
`
}

func (c *addProductCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.req.Name, "name", "", "Product name.")
	f.StringVar(&c.req.Unit, "unit", "", "Unit of measure (kg, pcs, ...).")
}

func (c *addProductCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.req.Name == "" || c.req.Unit == "" {
		fmt.Fprintln(c.app.Err, "Error: -name and -unit are required")
		return subcommands.ExitUsageError
	}
	index, err := c.app.api().CreateProduct(ctx, c.req)
	if err != nil {
		return c.app.fail("creating product", err)
	}
	fmt.Fprintf(c.app.Out, "product %d created\n", index)
	return subcommands.ExitSuccess
}

type addSheetCmd struct {
	app     *App
	product int
	req     models.CreateSheetRequest
}

func (*addSheetCmd) Name() string     { return "add-sheet" }
func (*addSheetCmd) Synopsis() string { return "open a monthly sheet for a product" }
func (*addSheetCmd) Usage() string {
	return `stockctl add-sheet -product <index> -year <yyyy> -month <1-12>
`
}

func (c *addSheetCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.product, "product", 0, "Product index.")
	f.IntVar(&c.req.Year, "year", 0, "Sheet year.")
	f.IntVar(&c.req.Month, "month", 0, "Sheet month, 1 to 12.")
}

func (c *addSheetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.req.Month < 1 || c.req.Month > 12 {
		fmt.Fprintf(c.app.Err, "Error: invalid month %d\n", c.req.Month)
		return subcommands.ExitUsageError
	}
	index, err := c.app.api().CreateSheet(ctx, c.product, c.req)
	if err != nil {
		return c.app.fail("creating sheet", err)
	}
	fmt.Fprintf(c.app.Out, "sheet %d created for product %d\n", index, c.product)
	return subcommands.ExitSuccess
}

type addPageCmd struct {
	app     *App
	product int
	sheet   int
	req     models.CreatePageRequest
}

func (*addPageCmd) Name() string     { return "add-page" }
func (*addPageCmd) Synopsis() string { return "open a price lot page in a sheet" }
func (*addPageCmd) Usage() string {
	return `stockctl add-page -product <index> -sheet <index> [-price <p>] [-initial <q>]
`
}

func (c *addPageCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.product, "product", 0, "Product index.")
	f.IntVar(&c.sheet, "sheet", 0, "Sheet index within the product.")
	f.Var(quantityValue{&c.req.Price}, "price", "Unit price of the lot.")
	f.Var(quantityValue{&c.req.InitialStock}, "initial", "Stock carried into the page.")
}

func (c *addPageCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path, err := c.app.api().CreatePage(ctx, c.product, c.sheet, c.req)
	if err != nil {
		return c.app.fail("creating page", err)
	}
	fmt.Fprintf(c.app.Out, "page created at %s\n", formatPath(path))
	return subcommands.ExitSuccess
}

type showPageCmd struct {
	app *App
	at  pathFlags
}

func (*showPageCmd) Name() string     { return "show-page" }
func (*showPageCmd) Synopsis() string { return "print the records of a page with running stock" }
func (*showPageCmd) Usage() string {
	return `stockctl show-page -product <index> -sheet <index> -page <index>
`
}

func (c *showPageCmd) SetFlags(f *flag.FlagSet) { c.at.register(f) }

func (c *showPageCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	view, err := c.app.api().Page(ctx, c.at.path)
	if err != nil {
		return c.app.fail("fetching page", err)
	}
	fmt.Fprintf(c.app.Out, "%s: price %s, initial stock %s, closing stock %s\n",
		formatPath(view.Path), view.Price, view.InitialStock, view.ClosingStock)

	w := c.app.table()
	fmt.Fprintln(w, "#\tDAY\tDOC\tTYPE\tINPUT\tOUTPUT\tOPENING\tCLOSING\tCOMMENT")
	for i, r := range view.Records {
		writeRecord(w, i, r)
	}
	if err := w.Flush(); err != nil {
		return c.app.fail("writing page", err)
	}
	return subcommands.ExitSuccess
}

func writeRecord(w io.Writer, index int, r ledger.Record) {
	fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		index, r.Day, r.DocID, r.DocType, r.Input, r.Output, r.OpeningStock, r.ClosingStock, r.Comment)
}
