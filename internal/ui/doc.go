// Package ui provides theme and color support for the application's user interface.
// It defines color schemes, ANSI escape code helpers, and lipgloss panels used
// by the CLI for consistent styling.
package ui
