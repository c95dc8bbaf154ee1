package main

import (
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ghostytools/wintweak/pkg/errors"
	"github.com/ghostytools/wintweak/pkg/report"
)

var reportOut string

func init() {
	reportCmd.Flags().StringVar(&reportOut, "out", "", "Write the report to a file instead of stdout")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate an XML maintenance report",
	Long: `Report probes every tweak, summarizes the backup ledger, and renders
the result as XML for archiving or support requests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		r := report.Report{
			GeneratedAt: time.Now(),
			Statuses:    a.engine.ProbeAll(cmd.Context()),
			Backups:     a.backups.List(),
		}

		if reportOut == "" {
			return report.WriteXML(cmd.OutOrStdout(), r)
		}

		f, err := os.Create(reportOut)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "cannot create report file %s", reportOut)
		}
		defer f.Close()

		if err := report.WriteXML(f, r); err != nil {
			return err
		}
		pterm.Success.Printfln("report written to %s", reportOut)
		return nil
	},
}
