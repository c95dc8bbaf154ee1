package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n",
			pterm.Error.Prefix.Text, pterm.Error.MessageStyle.Sprint(err.Error()))
		os.Exit(1)
	}
}
