// Package ui layout constants for consistent spacing and dimensions
package ui

// Layout constants for pane and table sizing
const (
	// Split pane dimensions
	SplitPaneLeftRatio = 0.45
	SplitPaneDivider   = 1

	// Panel borders and spacing
	PanelBorderWidth = 2
	PanelPaddingH    = 1

	// Control areas
	HeaderHeight    = 1
	FooterHeight    = 1
	StatusBarHeight = 1
	FilterBarHeight = 2

	// Responsive breakpoints
	MinimumTerminalWidth  = 80
	MinimumTerminalHeight = 24
	CompactModeWidth      = 100
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	IsCompact      bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size
func NewLayoutConfig(width, height int) LayoutConfig {
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		IsCompact:      width < CompactModeWidth,
	}
}

// ContentHeight returns the height left for the panes after chrome
func (l LayoutConfig) ContentHeight() int {
	return l.TerminalHeight - HeaderHeight - FooterHeight - StatusBarHeight
}

// SplitPaneWidths calculates left and right pane widths for the split view
func SplitPaneWidths(totalWidth int) (leftWidth, rightWidth int) {
	leftWidth = int(float64(totalWidth) * SplitPaneLeftRatio)
	rightWidth = totalWidth - leftWidth - SplitPaneDivider
	return
}

// PanelContentWidth returns the content width inside a bordered panel
func PanelContentWidth(panelWidth int) int {
	return panelWidth - PanelBorderWidth - (PanelPaddingH * 2)
}

// PanelContentHeight returns the content height inside a bordered panel
func PanelContentHeight(panelHeight int) int {
	return panelHeight - PanelBorderWidth
}
