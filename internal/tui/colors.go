package tui

import (
	"github.com/aschmelyun/robomovie/internal/timeline"
	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	BulletStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingRight(1)
	TextStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	DimTextStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	SpinnerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	TimestampStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingLeft(2)
	ItemStyle         = lipgloss.NewStyle().PaddingLeft(2)
	SelectedItemStyle = lipgloss.NewStyle().PaddingLeft(0).Foreground(lipgloss.Color("3"))
	ErrorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	SuccessStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	PlayheadStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	BadgeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("3"))
	ScreenStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("235"))
	LetterboxStyle = lipgloss.NewStyle().Background(lipgloss.Color("0"))
	SelectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	LockedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Background(lipgloss.Color("236"))
)

// clipStyles colour clip bodies by the kind of their track.
var clipStyles = map[timeline.Kind]lipgloss.Style{
	timeline.KindVideo: lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("25")),  // Blue
	timeline.KindAudio: lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("28")),  // Green
	timeline.KindText:  lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")), // Orange
}

var kindGlyphs = map[timeline.Kind]string{
	timeline.KindVideo: "▣",
	timeline.KindAudio: "♪",
	timeline.KindText:  "T",
}
