package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cecil-the-coder/todo-provider-kit/pkg/types"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Faint(true).Strikethrough(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

func renderOK(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render("✔ "+msg))
}

// renderList prints items inside a bordered panel with a done/total footer.
func renderList(w io.Writer, items []types.Item, search string) {
	if len(items) == 0 {
		if search != "" {
			fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("No items match %q.", search)))
		} else {
			fmt.Fprintln(w, mutedStyle.Render("No items yet. Add one with: todo-api add <title>"))
		}
		return
	}

	lines := make([]string, 0, len(items)+2)
	done := 0
	for _, it := range items {
		lines = append(lines, itemLine(it))
		if it.IsComplete {
			done++
		}
	}
	lines = append(lines, "", mutedStyle.Render(fmt.Sprintf("%d/%d done", done, len(items))))

	fmt.Fprintln(w, panelStyle.Render(strings.Join(lines, "\n")))
}

func itemLine(it types.Item) string {
	box, title := boxUnchecked, titleStyle.Render(it.Title)
	if it.IsComplete {
		box, title = boxChecked, doneStyle.Render(it.Title)
	}
	return fmt.Sprintf("%s %s %s %s",
		mutedStyle.Render(fmt.Sprintf("#%-3d", it.ID)),
		box,
		title,
		mutedStyle.Render(it.CreatedAt.Local().Format("2006-01-02")),
	)
}
