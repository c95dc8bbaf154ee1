package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ghostytools/wintweak/pkg/backup"
)

var backupDescription string

func init() {
	backupCreateCmd.Flags().StringVar(&backupDescription, "description", "manual backup",
		"Description recorded in the ledger")

	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupDeleteCmd)
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage registry backups",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create [key...]",
	Short: "Back up registry keys, or the whole user hive when none are given",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			rec, err := a.backups.CreateFull(cmd.Context(), backupDescription)
			if err != nil {
				return err
			}
			pterm.Success.Printfln("created full backup %s", rec.ID)
			return nil
		}

		recs, err := a.backups.Create(cmd.Context(), backupDescription, args)
		if err != nil {
			return err
		}
		for _, rec := range recs {
			if rec.Skipped {
				pterm.Info.Printfln("skipped %s (key absent)", rec.SourceKeys[0])
				continue
			}
			pterm.Success.Printfln("created backup %s for %s", rec.ID, rec.SourceKeys[0])
		}
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded backups, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		recs := a.backups.List()
		if len(recs) == 0 {
			pterm.Info.Println("no backups recorded")
			return nil
		}

		data := pterm.TableData{{"ID", "Created", "Description", "Keys", "Skipped"}}
		for _, rec := range recs {
			data = append(data, []string{
				rec.ID,
				rec.CreatedAt.Format("2006-01-02 15:04:05"),
				rec.Description,
				keysSummary(rec),
				boolMark(rec.Skipped),
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func keysSummary(rec backup.Record) string {
	if len(rec.SourceKeys) == 1 {
		return rec.SourceKeys[0]
	}
	return pterm.Sprintf("%d keys", len(rec.SourceKeys))
}

func boolMark(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

var backupDeleteCmd = &cobra.Command{
	Use:   "delete <backup-id>",
	Short: "Delete a backup and its artifact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		if err := a.backups.Delete(args[0]); err != nil {
			return err
		}
		pterm.Success.Printfln("deleted backup %s", args[0])
		return nil
	},
}
