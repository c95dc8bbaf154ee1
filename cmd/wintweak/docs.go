package main

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/ghostytools/wintweak/pkg/errors"
)

//go:embed topics/*.md
var topicsFS embed.FS

func init() {
	rootCmd.AddCommand(docsCmd)
}

var docsCmd = &cobra.Command{
	Use:   "docs [topic]",
	Short: "Show documentation topics",
	Long:  `Without an argument, docs lists the available topics.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			names, err := topicNames()
			if err != nil {
				return err
			}
			fmt.Println("Available topics:")
			for _, name := range names {
				fmt.Printf("  %s\n", name)
			}
			fmt.Println("\nUse \"wintweak docs <topic>\" to read one.")
			return nil
		}

		content, err := topicsFS.ReadFile("topics/" + args[0] + ".md")
		if err != nil {
			names, _ := topicNames()
			return errors.Newf(errors.ErrNotFound, "no topic %q (available: %s)",
				args[0], strings.Join(names, ", "))
		}

		rendered, err := renderMarkdown(string(content))
		if err != nil {
			// Fall back to the raw markdown.
			fmt.Print(string(content))
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func topicNames() ([]string, error) {
	entries, err := topicsFS.ReadDir("topics")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "embedded topics missing")
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}
	sort.Strings(names)
	return names, nil
}

func renderMarkdown(content string) (string, error) {
	style := "notty"
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		if termenv.HasDarkBackground() {
			style = "dark"
		} else {
			style = "light"
		}
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(content)
}
