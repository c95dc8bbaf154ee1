package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ghostytools/wintweak/pkg/engine"
)

func init() {
	rootCmd.AddCommand(tweaksCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(restoreCmd)
}

var tweaksCmd = &cobra.Command{
	Use:   "tweaks",
	Short: "List the available tweaks",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		data := pterm.TableData{{"ID", "Name", "Category", "Risk", "Restart"}}
		for _, tw := range a.engine.Catalog().All() {
			restart := ""
			if tw.RequiresRestart {
				restart = "yes"
			}
			data = append(data, []string{tw.ID, tw.Name, tw.Category.Display(), string(tw.Risk), restart})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe the live state of every tweak",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		data := pterm.TableData{{"ID", "Name", "State"}}
		for _, st := range a.engine.ProbeAll(cmd.Context()) {
			data = append(data, []string{st.Tweak.ID, st.Tweak.Name, renderState(st.State)})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func renderState(s engine.State) string {
	switch s {
	case engine.StateApplied:
		return pterm.Success.MessageStyle.Sprint("applied")
	case engine.StateNotApplied:
		return "not applied"
	default:
		return pterm.Warning.MessageStyle.Sprint("unknown")
	}
}

var applyCmd = &cobra.Command{
	Use:   "apply <tweak-id>...",
	Short: "Apply one or more tweaks, backing up every touched key first",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		restart := false
		for _, id := range args {
			res, err := a.engine.Apply(cmd.Context(), id)
			if err != nil {
				return err
			}
			pterm.Success.Printfln("applied %s (backups: %v)", res.Tweak.ID, res.BackupIDs)
			restart = restart || res.RequiresRestart
		}
		if restart {
			pterm.Info.Println("a restart is required for some changes to take effect")
		}
		return nil
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo [tweak-id]",
	Short: "Restore the newest backup covering a tweak's keys",
	Long: `Undo restores the newest backup whose keys overlap the given tweak.
Without an argument the newest backup overall is restored.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		rec, err := a.engine.UndoLast(cmd.Context(), id)
		if err != nil {
			return err
		}
		if rec.Skipped {
			pterm.Info.Printfln("backup %s was skipped (key absent at backup time); nothing to restore", rec.ID)
			return nil
		}
		pterm.Success.Printfln("restored backup %s (%s)", rec.ID, rec.Description)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <backup-id>",
	Short: "Restore a backup by its id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		if err := a.engine.Restore(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("restored backup %s\n", args[0])
		return nil
	},
}
