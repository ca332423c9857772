package color

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Semantic palette shared by every CLI renderer.
var (
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#3B82F6"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
)

// Styles
var (
	TitleStyle   = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	InfoStyle    = lipgloss.NewStyle().Foreground(ColorInfo)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	KeyStyle     = lipgloss.NewStyle().Foreground(ColorInfo).Bold(true)
)

// Initialize sets the background mode used to pick adaptive colors.
func Initialize(isDarkMode bool) {
	lipgloss.SetHasDarkBackground(isDarkMode)
}

// InitializeFromEnv applies ABILITYCTL_THEME ("dark" or "light") when set.
func InitializeFromEnv() {
	switch strings.ToLower(os.Getenv("ABILITYCTL_THEME")) {
	case "dark":
		Initialize(true)
	case "light":
		Initialize(false)
	}
}

// Status renders a status word with the color of its meaning.
func Status(s string) string {
	switch strings.ToLower(s) {
	case "active", "success", "succeeded", "ok", "valid", "completed":
		return SuccessStyle.Render(s)
	case "inactive", "waiting", "pending", "submitted", "queuing", "generating":
		return WarningStyle.Render(s)
	case "deprecated", "failed", "fail", "timeout", "error", "invalid":
		return ErrorStyle.Render(s)
	case "":
		return MutedStyle.Render("-")
	default:
		return s
	}
}
