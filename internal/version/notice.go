package version

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// UpdateCommand is how users upgrade the CLI
const UpdateCommand = "npm update -g @cord-sdk/cli"

var (
	boxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	boldStyle = lipgloss.NewStyle().Bold(true)
)

// RenderNotice renders the boxed upgrade advisory
func RenderNotice(current, latest string) string {
	text := fmt.Sprintf("👋 %s\nTo update from %s to %s run:\n%s",
		boldStyle.Render("There is a newer version available!"),
		boldStyle.Render(current),
		boldStyle.Render(latest),
		UpdateCommand,
	)
	return boxStyle.Render(text)
}
