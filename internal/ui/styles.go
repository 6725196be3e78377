package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor   = lipgloss.Color("#B4A7D6")
	successColor   = lipgloss.Color("#A8E6CF")
	errorColor     = lipgloss.Color("#FFB3BA")
	warningColor   = lipgloss.Color("#FFE5B4")
	mutedColor     = lipgloss.Color("#C5C6C8")
	highlightColor = lipgloss.Color("#B3D9FF")

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	WarningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	MutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	HighlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlightColor)

	PromptStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	ListItemStyle = lipgloss.NewStyle().
			Foreground(highlightColor).
			PaddingLeft(2)
)

// Results go to Out so they can be piped; everything meant for the person at
// the terminal goes to Err.
var (
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

func PrintTitle(text string) {
	banner := lipgloss.NewStyle().
		Bold(true).
		Foreground(primaryColor).
		Border(lipgloss.DoubleBorder()).
		BorderForeground(primaryColor).
		Padding(0, 2).
		Render(text)
	fmt.Fprintln(Err, banner)
}

func PrintSuccess(icon, message string) {
	fmt.Fprintln(Err, SuccessStyle.Render(fmt.Sprintf("%s %s", icon, message)))
}

func PrintError(icon, message string) {
	fmt.Fprintln(Err, ErrorStyle.Render(fmt.Sprintf("%s %s", icon, message)))
}

func PrintWarning(icon, message string) {
	fmt.Fprintln(Err, WarningStyle.Render(fmt.Sprintf("%s %s", icon, message)))
}

func PrintInfo(icon, message string) {
	fmt.Fprintln(Err, HighlightStyle.Render(fmt.Sprintf("%s %s", icon, message)))
}

func PrintMuted(message string) {
	fmt.Fprintln(Err, MutedStyle.Render(message))
}

func PrintPrompt(message string) {
	fmt.Fprint(Err, PromptStyle.Render(message))
}

func PrintListItem(icon, name string) {
	fmt.Fprintln(Err, ListItemStyle.Render(fmt.Sprintf("%s %s", icon, name)))
}

// PrintValues writes raw values to Out, one per line, unstyled.
func PrintValues(values ...string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintln(Out, strings.Join(values, "\n"))
}
