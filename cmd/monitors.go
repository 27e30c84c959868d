package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-qrgrab/internal/monitor"
)

var monitorsJsonOutput bool

var monitorsCmd = &cobra.Command{
	Use:   "monitors",
	Short: "List available monitors",
	Long: `List all available monitors with their resolution and position in the
virtual desktop, in the order used to resolve a selection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		enum, err := monitor.Detect(cfg.Backend)
		if err != nil {
			return err
		}

		monitors, err := enum.ListMonitors(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list monitors: %w", err)
		}

		out := cmd.OutOrStdout()

		if monitorsJsonOutput {
			data, err := json.MarshalIndent(monitors, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		cursor, err := monitor.GetMouseMonitor(cmd.Context(), monitors)
		if err != nil {
			cursor = ""
		}

		bold := lipgloss.NewStyle().Bold(true)
		cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("#00BCD4"))

		for i, m := range monitors {
			cursorMark := ""
			if m.Name == cursor {
				cursorMark = cyan.Render(" (cursor)")
			}
			fmt.Fprintf(out, "%d. %s: %dx%d at (%d,%d)%s\n",
				i+1, bold.Render(m.Name), m.Width, m.Height, m.X, m.Y, cursorMark)
		}

		return nil
	},
}

func init() {
	monitorsCmd.Flags().BoolVar(&monitorsJsonOutput, "json", false, "Output monitors as JSON")
}
