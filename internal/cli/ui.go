package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/stacklayout/pkg/graph"
)

// out receives all user-facing output. Logs go to stderr through the
// logger instead.
var out io.Writer = os.Stdout

var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorTeal)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorAmber)
)

var (
	styleOK      = lipgloss.NewStyle().Foreground(colorGreen)
	styleFail    = lipgloss.NewStyle().Foreground(colorRed)
	styleInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleLayer   = lipgloss.NewStyle().Foreground(colorTeal).Width(5)
)

const (
	iconSuccess   = "✓"
	iconError     = "✗"
	iconWarning   = "!"
	iconInfo      = "›"
	iconArrow     = "→"
	iconSubdivide = "┊"
)

func line(icon lipgloss.Style, glyph, format string, args ...any) {
	fmt.Fprintln(out, icon.Render(glyph)+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { line(styleOK, iconSuccess, format, args...) }
func printError(format string, args ...any)   { line(styleFail, iconError, format, args...) }
func printInfo(format string, args ...any)    { line(styleInfo, iconInfo, format, args...) }

func printWarning(format string, args ...any) {
	fmt.Fprintln(out, StyleWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(out, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Fprintln(out, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(out, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printOrderSummary prints "  5 nodes · 2 layers · 0 crossings · cached".
func printOrderSummary(l graph.Layout, cached bool) {
	parts := []string{
		plural(len(l.Nodes), "node"),
		plural(len(l.Layers), "layer"),
		plural(l.Crossings, "crossing"),
	}
	if cached {
		parts = append(parts, styleOK.Render("cached"))
	} else {
		parts = append(parts, "fresh")
	}
	for i, p := range parts[:3] {
		parts[i] = StyleDim.Render(p)
	}
	fmt.Fprintln(out, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printLayers prints the resolved order of every layer, one layer per
// line. Subdivider nodes of long edges are shown as a dimmed marker.
func printLayers(l graph.Layout) {
	sub := make(map[string]bool)
	for _, n := range l.Nodes {
		if n.IsSubdivider() {
			sub[n.ID] = true
		}
	}
	for i, layer := range l.Layers {
		names := make([]string, len(layer))
		for j, id := range layer {
			if sub[id] {
				names[j] = StyleDim.Render(iconSubdivide)
				continue
			}
			names[j] = StyleValue.Render(id)
		}
		fmt.Fprintln(out, "  "+styleLayer.Render(fmt.Sprintf("L%d", i))+strings.Join(names, " "))
	}
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(out, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() { fmt.Fprintln(out) }

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
