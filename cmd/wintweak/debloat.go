package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ghostytools/wintweak/pkg/debloat"
)

var debloatRestorePoint bool

func init() {
	debloatRemoveCmd.Flags().BoolVar(&debloatRestorePoint, "restore-point", true,
		"Create a system restore point before removing anything")

	debloatCmd.AddCommand(debloatListCmd)
	debloatCmd.AddCommand(debloatScanCmd)
	debloatCmd.AddCommand(debloatRemoveCmd)
	rootCmd.AddCommand(debloatCmd)
}

var debloatCmd = &cobra.Command{
	Use:   "debloat",
	Short: "Detect and remove preinstalled Windows components",
}

var debloatListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the removable items in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		remover, err := a.remover()
		if err != nil {
			return err
		}

		data := pterm.TableData{{"ID", "Name", "Category", "Safety", "Restart"}}
		for _, item := range remover.Catalog().All() {
			data = append(data, []string{
				item.ID, item.Name, string(item.Category), renderSafety(item.Safety),
				boolMark(item.RequiresRestart),
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func renderSafety(s debloat.Safety) string {
	switch s {
	case debloat.SafetySafe:
		return pterm.Success.MessageStyle.Sprint("safe")
	case debloat.SafetyRisky:
		return pterm.Error.MessageStyle.Sprint("risky")
	default:
		return pterm.Warning.MessageStyle.Sprint("moderate")
	}
}

var debloatScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Probe which catalog items are installed",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		remover, err := a.remover()
		if err != nil {
			return err
		}

		data := pterm.TableData{{"ID", "Name", "Installed"}}
		for _, res := range remover.Scan(cmd.Context()) {
			installed := ""
			switch {
			case res.Err != nil:
				installed = pterm.Warning.MessageStyle.Sprint("unknown")
			case res.Installed:
				installed = "yes"
			}
			data = append(data, []string{res.Item.ID, res.Item.Name, installed})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

var debloatRemoveCmd = &cobra.Command{
	Use:   "remove <item-id>...",
	Short: "Remove catalog items",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		remover, err := a.remover()
		if err != nil {
			return err
		}

		if debloatRestorePoint {
			if err := a.restorePoints().Create(cmd.Context(), "Before Debloat"); err != nil {
				pterm.Warning.Printfln("could not create restore point: %v", err)
			}
		}

		restart := false
		for _, id := range args {
			res, err := remover.Remove(cmd.Context(), id)
			if err != nil {
				return err
			}
			pterm.Success.Printfln("removed %s (%d commands)", res.Item.ID, len(res.Commands))
			restart = restart || res.RequiresRestart
		}
		if restart {
			pterm.Info.Println("a restart is required to finish some removals")
		}
		return nil
	},
}
