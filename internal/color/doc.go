// Package color holds the lipgloss palette and styles used by abilityctl's
// terminal output.
//
// Colors are adaptive: each has a light and a dark variant and lipgloss
// picks one from the detected background. Initialize forces the mode, and
// InitializeFromEnv reads ABILITYCTL_THEME. NO_COLOR is honored by lipgloss
// itself.
package color
