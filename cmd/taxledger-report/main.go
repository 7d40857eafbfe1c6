// Command taxledger-report generates financial reports from a ledger
// database and writes them as JSON or CSV, optionally exporting them into a
// Google spreadsheet tab.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"taxledger/internal/export"
	"taxledger/internal/report"
	"taxledger/internal/storage"
)

type Globals struct {
	DB           string `help:"Path to the SQLite ledger database" default:"./data/taxledger.db" type:"path"`
	Jurisdiction string `help:"Tax jurisdiction" enum:"CA,US" default:"CA"`
	Currency     string `help:"Currency symbol" default:"$"`
}

type reportArgs struct {
	Start  string `help:"Range start (YYYY-MM-DD)" required:""`
	End    string `help:"Range end (YYYY-MM-DD)" required:""`
	Format string `help:"Output format" enum:"json,csv" default:"json"`
	Out    string `help:"Output file (default stdout)" type:"path"`
	Sheet  string `help:"Google Sheets tab to export into (requires GOOGLE_SPREADSHEET_ID)"`
}

type IncomeStatementCmd struct{ reportArgs }

func (cmd *IncomeStatementCmd) Run(globals *Globals) error {
	return generate(globals, cmd.reportArgs, func(ctx context.Context, e *report.Engine) (report.Report, error) {
		return e.GenerateIncomeStatement(ctx, cmd.Start, cmd.End)
	})
}

type ExpenseReportCmd struct{ reportArgs }

func (cmd *ExpenseReportCmd) Run(globals *Globals) error {
	return generate(globals, cmd.reportArgs, func(ctx context.Context, e *report.Engine) (report.Report, error) {
		return e.GenerateExpenseReport(ctx, cmd.Start, cmd.End)
	})
}

type TaxSummaryCmd struct{ reportArgs }

func (cmd *TaxSummaryCmd) Run(globals *Globals) error {
	return generate(globals, cmd.reportArgs, func(ctx context.Context, e *report.Engine) (report.Report, error) {
		return e.GenerateTaxSummary(ctx, cmd.Start, cmd.End)
	})
}

var cli struct {
	Globals

	IncomeStatement IncomeStatementCmd `cmd:"" help:"Revenue against expenses with pretax, tax-position and cash net views."`
	ExpenseReport   ExpenseReportCmd   `cmd:"" help:"Expense breakdown by category with jurisdiction tax codes."`
	TaxSummary      TaxSummaryCmd      `cmd:"" help:"Tax collected against tax paid, itemized."`
}

func main() {
	_ = godotenv.Load()

	ctx := kong.Parse(&cli,
		kong.Name("taxledger-report"),
		kong.Description("Generate financial reports from a taxledger database."),
		kong.UsageOnError(),
		kong.Bind(&cli.Globals),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

func generate(globals *Globals, args reportArgs, gen func(context.Context, *report.Engine) (report.Report, error)) error {
	repo, err := storage.NewSQLiteRepository(globals.DB)
	if err != nil {
		return fmt.Errorf("open ledger database: %w", err)
	}
	defer repo.Close()

	engine := report.NewEngine(repo, report.Config{
		Jurisdiction: report.Jurisdiction(globals.Jurisdiction),
		Currency:     globals.Currency,
	})

	ctx := context.Background()
	rep, err := gen(ctx, engine)
	if err != nil {
		return err
	}

	if args.Sheet != "" {
		exporter, err := export.NewSheetsExporterFromEnv(ctx)
		if err != nil {
			return fmt.Errorf("sheets exporter: %w", err)
		}
		if err := exporter.Export(ctx, args.Sheet, rep); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "exported report to sheet %q\n", args.Sheet)
		return nil
	}

	var out io.Writer = os.Stdout
	if args.Out != "" {
		f, err := os.Create(args.Out)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch args.Format {
	case "csv":
		return export.WriteCSV(out, rep)
	default:
		return export.WriteJSON(out, rep)
	}
}
