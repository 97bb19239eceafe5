package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The viewer must remain readable on both light and dark terminal backgrounds.
// Faint styling is only applied on dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted     = ac("240", "243")
	colorAccent    = ac("27", "62")
	colorAccentFg  = ac("255", "235")
	colorSurfaceFg = ac("235", "252")
	colorControlBg = ac("252", "235")
	colorActiveBg  = ac("#e9e9e9", "#262626")
	colorMarker    = ac("160", "203")
	colorWarn      = ac("130", "214")
	colorBorder    = ac("250", "243")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleTitle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
}

func styleButton() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorAccentFg).Background(colorAccent).Bold(true)
}

func styleActiveRow() lipgloss.Style {
	return lipgloss.NewStyle().Background(colorActiveBg).Foreground(colorSurfaceFg).Bold(true)
}

func styleModal() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1, 2)
}

// applyColorProfilePreference honors NO_COLOR and otherwise trusts
// COLORTERM over termenv's probe, which under-reports on some terminals.
func applyColorProfilePreference() termenv.Profile {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return termenv.Ascii
	}
	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}
	lipgloss.SetColorProfile(profile)
	return profile
}

// applyThemePreference configures background detection.
//
// Priority:
// 1) FOTOROUTE_THEME=light|dark|auto
// 2) COLORFGBG heuristic ("fg;bg")
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("FOTOROUTE_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
