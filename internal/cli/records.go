package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type addRecordCmd struct {
	app      *App
	at       pathFlags
	entry    entryFlags
	position int
}

func (*addRecordCmd) Name() string     { return "add-record" }
func (*addRecordCmd) Synopsis() string { return "append or insert a stock movement" }
func (*addRecordCmd) Usage() string {
	return `stockctl add-record -product <i> -sheet <i> -page <i> -day <d> [-doc <id>] [-type <t>] [-in <q>] [-out <q>] [-comment <c>] [-position <i>]

  Appends a movement to the page, or inserts it before the record at -position.
  Opening and closing stocks of the following records are recalculated.
`
}

func (c *addRecordCmd) SetFlags(f *flag.FlagSet) {
	c.at.register(f)
	c.entry.register(f)
	f.IntVar(&c.position, "position", -1, "Insert before this record index instead of appending.")
}

func (c *addRecordCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	req := c.entry.req
	if c.position >= 0 {
		pos := c.position
		req.Position = &pos
	}
	resp, err := c.app.api().AppendRecord(ctx, c.at.path, req)
	if err != nil {
		return c.app.fail("adding record", err)
	}
	fmt.Fprintf(c.app.Out, "record %d: opening %s, closing %s\n", resp.Index, resp.Record.OpeningStock, resp.Record.ClosingStock)
	return subcommands.ExitSuccess
}

type updateRecordCmd struct {
	app    *App
	at     pathFlags
	entry  entryFlags
	record int
}

func (*updateRecordCmd) Name() string     { return "update-record" }
func (*updateRecordCmd) Synopsis() string { return "change the fields of a stock movement" }
func (*updateRecordCmd) Usage() string {
	return `stockctl update-record -product <i> -sheet <i> -page <i> -record <i> [-day <d>] [-doc <id>] [-type <t>] [-in <q>] [-out <q>] [-comment <c>]

  Only the fields given on the command line change; the others keep their value.
`
}

func (c *updateRecordCmd) SetFlags(f *flag.FlagSet) {
	c.at.register(f)
	c.entry.register(f)
	f.IntVar(&c.record, "record", 0, "Record index within the page.")
}

func (c *updateRecordCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	api := c.app.api()
	view, err := api.Page(ctx, c.at.path)
	if err != nil {
		return c.app.fail("fetching page", err)
	}
	if c.record < 0 || c.record >= len(view.Records) {
		fmt.Fprintf(c.app.Err, "Error: record index %d out of range [0,%d)\n", c.record, len(view.Records))
		return subcommands.ExitFailure
	}

	req := c.entry.overlay(f, requestFromRecord(view.Records[c.record]))
	resp, err := api.UpdateRecord(ctx, c.at.path, c.record, req)
	if err != nil {
		return c.app.fail("updating record", err)
	}
	fmt.Fprintf(c.app.Out, "record %d: opening %s, closing %s\n", resp.Index, resp.Record.OpeningStock, resp.Record.ClosingStock)
	return subcommands.ExitSuccess
}

type deleteRecordCmd struct {
	app    *App
	at     pathFlags
	record int
}

func (*deleteRecordCmd) Name() string     { return "delete-record" }
func (*deleteRecordCmd) Synopsis() string { return "remove a stock movement" }
func (*deleteRecordCmd) Usage() string {
	return `stockctl delete-record -product <i> -sheet <i> -page <i> -record <i>
`
}

func (c *deleteRecordCmd) SetFlags(f *flag.FlagSet) {
	c.at.register(f)
	f.IntVar(&c.record, "record", 0, "Record index within the page.")
}

func (c *deleteRecordCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.app.api().DeleteRecord(ctx, c.at.path, c.record); err != nil {
		return c.app.fail("deleting record", err)
	}
	fmt.Fprintf(c.app.Out, "record %d deleted from %s\n", c.record, formatPath(c.at.path))
	return subcommands.ExitSuccess
}
