package app

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle              = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	helpStyle                = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle              = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activityStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Bold(true)
	selectedStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("236"))
	dividerStyle             = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	urlStyle                 = lipgloss.NewStyle().Foreground(lipgloss.Color("117")).Underline(true)
	dialogHeaderStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("251")).Background(lipgloss.Color("235")).Bold(true)
	dialogBodyStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("235"))
	confirmDialogBorderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("208"))
	alertDialogBorderStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("203"))
	genotypeFrameStyle       = lipgloss.NewStyle().
					Border(lipgloss.RoundedBorder()).
					BorderForeground(lipgloss.Color("69")).
					Padding(0, 1)

	cellStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	cellCursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("239")).Bold(true)
	cellMarkedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true)
	cellMarkedCursor  = lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Background(lipgloss.Color("239")).Bold(true)
	toastInfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("29")).Bold(true)
	toastWarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("136")).Bold(true)
	toastErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("160")).Bold(true)
)
