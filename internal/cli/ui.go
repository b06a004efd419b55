package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorAccent  = lipgloss.Color("36")  // teal
	colorOK      = lipgloss.Color("35")  // green
	colorWarn    = lipgloss.Color("220") // amber
	colorFail    = lipgloss.Color("167") // soft red
	colorCommand = lipgloss.Color("75")  // light blue
	colorValue   = lipgloss.Color("255") // bright white
	colorLabel   = lipgloss.Color("245") // gray
	colorMuted   = lipgloss.Color("240") // dim gray
)

// Styles shared with the command implementations.
var (
	// StyleHighlight emphasizes a value inside a status line.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)

	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorMuted)
)

var (
	styleValue       = lipgloss.NewStyle().Foreground(colorValue)
	styleLabel       = lipgloss.NewStyle().Foreground(colorLabel)
	styleKey         = lipgloss.NewStyle().Foreground(colorLabel).Width(14)
	styleCommandText = lipgloss.NewStyle().Foreground(colorCommand)
	styleWarnText    = lipgloss.NewStyle().Foreground(colorWarn)
	styleCachedTag   = lipgloss.NewStyle().Foreground(colorOK)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
)

// =============================================================================
// Status Lines
// =============================================================================

// status prints an icon-prefixed line in the icon's color.
func status(icon string, color lipgloss.Color, msg string) {
	mark := lipgloss.NewStyle().Foreground(color).Render(icon)
	fmt.Println(mark + " " + msg)
}

func printSuccess(format string, args ...any) {
	status("✓", colorOK, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	status("✗", colorFail, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	status("!", colorWarn, styleWarnText.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	status("›", colorLabel, fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written artifact path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + styleValue.Render(path))
}

// printKeyValue prints a labeled value with aligned keys.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + styleValue.Render(value))
}

// =============================================================================
// Summary Lines
// =============================================================================

// printStats prints the diagram summary: component and connection counts plus
// whether the build came from cache.
func printStats(componentCount, connectionCount int, cached bool) {
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d components", componentCount)),
		StyleDim.Render(fmt.Sprintf("%d connections", connectionCount)),
	}
	if cached {
		parts = append(parts, styleCachedTag.Render("cached"))
	} else {
		parts = append(parts, styleLabel.Render("fresh"))
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommandText.Render(cmd))
}
