package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-qrgrab/internal/deps"
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Check for required dependencies",
	Long:  `Check if all required external programs are installed and available.`,
	Run: func(cmd *cobra.Command, args []string) {
		required, optional := deps.CheckAll()

		// Colors
		green := lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
		red := lipgloss.NewStyle().Foreground(lipgloss.Color("#E95420"))
		gray := lipgloss.NewStyle().Foreground(lipgloss.Color("#9A9EA0"))
		cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("#00BCD4"))
		bold := lipgloss.NewStyle().Bold(true)

		fmt.Println()

		// Show detected display server
		fmt.Printf("%s %s\n\n", bold.Render("Display Server:"), cyan.Render(deps.GetDisplayServerName()))

		if deps.IsTerminalOnly() {
			fmt.Println(red.Render("No graphical session detected; screen capture will not work."))
			fmt.Println()
		}

		// Show which capture method will be used
		switch deps.DetectDisplayServer() {
		case deps.DisplayServerWayland:
			fmt.Printf("%s grim + hyprctl (Wayland)\n", gray.Render("Screen capture:"))
			fmt.Printf("%s X11 pointer via XWayland\n", gray.Render("Selection:"))
			fmt.Printf("  %s\n\n", gray.Render("'select' only sees button presses over X11 windows; drag over an XWayland window or use the full screen scan"))
		case deps.DisplayServerX11:
			fmt.Printf("%s native X11\n\n", gray.Render("Screen capture:"))
		default:
			fmt.Printf("%s Unknown display server\n\n", gray.Render("Screen capture:"))
		}

		fmt.Println(bold.Render("Required Dependencies:"))
		fmt.Println()

		if len(required) == 0 {
			fmt.Printf("  %s\n\n", gray.Render("none"))
		}

		for _, r := range required {
			var status string
			if r.Available {
				status = green.Render("✓")
			} else {
				status = red.Render("✗")
			}
			fmt.Printf("  %s %s\n", status, bold.Render(r.Dependency.Name))
			fmt.Printf("    %s\n", gray.Render(r.Dependency.Description))
			if r.Available {
				fmt.Printf("    Path: %s\n", r.Path)
			}
			fmt.Println()
		}

		fmt.Println(bold.Render("Optional Dependencies:"))
		fmt.Println()

		for _, r := range optional {
			var status string
			if r.Available {
				status = green.Render("✓")
			} else {
				status = gray.Render("○")
			}
			fmt.Printf("  %s %s\n", status, bold.Render(r.Dependency.Name))
			fmt.Printf("    %s\n", gray.Render(r.Dependency.Description))
			if r.Available {
				fmt.Printf("    Path: %s\n", r.Path)
			}
			fmt.Println()
		}

		if deps.HasAllRequired() {
			fmt.Println(green.Render("All required dependencies are installed!"))
		} else {
			fmt.Println(red.Render("Some required dependencies are missing."))
			fmt.Print(deps.FormatMissing(deps.MissingRequired()))
		}
		fmt.Println()
	},
}
