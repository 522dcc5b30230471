// Package preview implements the preview command: it builds the export rows
// and lists every issue without writing a workbook.
package preview

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mydata/epsilon-export/cmd/root"
	"mydata/epsilon-export/internal/exporter"
	"mydata/epsilon-export/internal/logging"
	"mydata/epsilon-export/internal/models"
	"mydata/epsilon-export/internal/report"
	"mydata/epsilon-export/internal/textutils"
)

var (
	// IssuesCSV is the --issues-csv flag.
	IssuesCSV string

	// Format is the --format flag: text, json or yaml.
	Format string
)

// Cmd represents the preview command
var Cmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the rows and issues an export would produce",
	Long: `Build the preview for --vat without writing the workbook. Every row is listed
with its customer id, amounts and header account, followed by the issues that
would block the export. Exits with status 1 when issues are found.`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringVar(&IssuesCSV, "issues-csv", "", "Also write the issue list to this CSV file")
	Cmd.Flags().StringVarP(&Format, "format", "f", "text", "Output format: text, json or yaml")
}

func run(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.VAT == "" {
		return fmt.Errorf("--vat is required")
	}
	if Format != "text" {
		if err := report.IsValidFormat(Format); err != nil {
			return err
		}
	}
	p, err := root.NewPipeline()
	if err != nil {
		return err
	}

	out, err := p.Preview(root.PipelineOptions())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if Format == "text" {
		if err := PrintRows(w, out.Preview.Rows); err != nil {
			return err
		}
		fmt.Fprintf(w, "\n%d rows, %d issues (%s)\n", len(out.Preview.Rows), len(out.Preview.Issues), out.InvoicesPath)
		for _, issue := range out.Preview.Issues {
			fmt.Fprintf(w, "[%s] %s\n", issue.Code, issue.Message)
		}
	} else {
		summary := report.Summarize(out.RunID, out.VAT, out.InvoicesPath, out.Preview)
		data, err := report.NewGenerator(root.GetLogger()).Generate(summary, Format)
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}

	if IssuesCSV != "" && len(out.Preview.Issues) > 0 {
		writer := exporter.NewWriter(root.GetLogger())
		if err := writer.WriteIssues(out.Preview.Issues, IssuesCSV); err != nil {
			return err
		}
		root.GetLogger().Info("Issue report written", logging.F(logging.FieldFile, IssuesCSV))
	}

	if !out.Preview.OK() {
		return root.ErrBlocked
	}
	return nil
}

// PrintRows renders rows as an aligned table.
func PrintRows(w io.Writer, rows []models.PreviewRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INVOICE\tDATE\tAFM\tCUSTID\tNET\tVAT\tGROSS\tLCODE\tDETAIL\tCHARACT")
	for _, r := range rows {
		custID := "-"
		if r.CustID != nil {
			custID = fmt.Sprintf("%d", *r.CustID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			exporter.InvoiceRef(r.Series, r.AA), r.Date, r.AFM, custID,
			textutils.FormatAmount(r.Net), textutils.FormatAmount(r.VAT), textutils.FormatAmount(r.Gross),
			r.LCode, r.DetailAccounts, r.Characts)
	}
	return tw.Flush()
}
