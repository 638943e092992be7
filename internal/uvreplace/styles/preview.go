package styles

import (
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/exp/charmtone"
)

// Preview holds the lipgloss styles of the dry-run output.
type Preview struct {
	Path    lipgloss.Style
	LineNo  lipgloss.Style
	Rule    lipgloss.Style
	Removed lipgloss.Style
	Added   lipgloss.Style
}

// NewPreview returns colored styles, or no-op styles when plain is set.
func NewPreview(plain bool) Preview {
	if plain {
		s := lipgloss.NewStyle()
		return Preview{Path: s, LineNo: s, Rule: s, Removed: s, Added: s}
	}
	return Preview{
		Path:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(charmtone.Malibu.Hex())),
		LineNo:  lipgloss.NewStyle().Foreground(lipgloss.Color(charmtone.Squid.Hex())),
		Rule:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color(charmtone.Charple.Hex())),
		Removed: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(charmtone.Coral.Hex())),
		Added:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(charmtone.Guac.Hex())),
	}
}
