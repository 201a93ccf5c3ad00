package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme contains the visual styles of the girder screens.
type Theme struct {
	// HUD styles
	HUDTitle     lipgloss.Style
	HUDValue     lipgloss.Style
	HUDLabel     lipgloss.Style
	HUDSeparator lipgloss.Style
	HUDStatus    lipgloss.Style
	HUDControls  lipgloss.Style

	// Win banner
	BannerBox   lipgloss.Style
	BannerTitle lipgloss.Style
	BannerText  lipgloss.Style

	// Level picker styles
	MenuTitle       lipgloss.Style
	MenuPack        lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuItemSolved  lipgloss.Style
	MenuDescription lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		HUDTitle:     lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		HUDValue:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		HUDLabel:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		HUDSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		HUDStatus:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		HUDControls:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		BannerBox: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("46")).
			Padding(0, 2),
		BannerTitle: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		BannerText:  lipgloss.NewStyle().Foreground(lipgloss.Color("255")),

		MenuTitle:       lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		MenuPack:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Underline(true),
		MenuItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		MenuItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		MenuItemSolved:  lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		MenuDescription: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// MonochromeTheme returns a grayscale theme for terminals without color.
func MonochromeTheme() Theme {
	theme := DefaultTheme()
	theme.HUDTitle = lipgloss.NewStyle().Bold(true)
	theme.HUDStatus = lipgloss.NewStyle().Italic(true)
	theme.BannerBox = theme.BannerBox.BorderForeground(lipgloss.Color("255"))
	theme.BannerTitle = lipgloss.NewStyle().Bold(true)
	theme.MenuItemActive = lipgloss.NewStyle().Bold(true).Reverse(true)
	theme.MenuItemSolved = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	return theme
}

// ThemeByName returns a named theme, falling back to the default.
func ThemeByName(name string) Theme {
	if name == "mono" || name == "monochrome" {
		return MonochromeTheme()
	}
	return DefaultTheme()
}
