package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"mydata/epsilon-export/internal/logging"
)

func runExport(cmd *cobra.Command, args []string) error {
	if SharedFlags.VAT == "" {
		return fmt.Errorf("--vat is required")
	}
	p, err := NewPipeline()
	if err != nil {
		return err
	}

	opts := PipelineOptions()
	opts.OutputPath = Output

	out, err := p.Export(opts)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if !out.Result.OK {
		for _, msg := range out.Result.Issues.Messages() {
			fmt.Fprintln(w, msg)
		}
		if out.IssuesPath != "" {
			GetLogger().Info("Issue report written", logging.F(logging.FieldFile, out.IssuesPath))
		}
		return ErrBlocked
	}

	fmt.Fprintln(w, out.Result.Path)
	return nil
}
