package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var restorePointDescription string

func init() {
	restorepointCreateCmd.Flags().StringVar(&restorePointDescription, "description",
		"wintweak checkpoint", "Restore point description")

	restorepointCmd.AddCommand(restorepointCreateCmd)
	restorepointCmd.AddCommand(restorepointListCmd)
	rootCmd.AddCommand(restorepointCmd)
}

var restorepointCmd = &cobra.Command{
	Use:   "restorepoint",
	Short: "Manage Windows system restore points",
}

var restorepointCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a system restore point",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		if err := a.restorePoints().Create(cmd.Context(), restorePointDescription); err != nil {
			return err
		}
		pterm.Success.Println("restore point created")
		return nil
	},
}

var restorepointListCmd = &cobra.Command{
	Use:   "list",
	Short: "List system restore points, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		points, err := a.restorePoints().List(cmd.Context())
		if err != nil {
			return err
		}
		if len(points) == 0 {
			pterm.Info.Println("no restore points found")
			return nil
		}

		data := pterm.TableData{{"Seq", "Description", "Created"}}
		for _, pt := range points {
			data = append(data, []string{
				pterm.Sprintf("%d", pt.SequenceNumber), pt.Description, pt.CreationTime,
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}
