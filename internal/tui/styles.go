package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

const (
	loadingArticlesText = "Loading..."
	loadingArticleText  = "Loading...."
	errorPageTitle      = "Oops! Something went wrong."
	successBannerText   = "Thanks for your comment!"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	topicStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).MarginTop(1)
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CCCCCC"))
	focusedLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4CAF50")).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#4CAF50")).
			Padding(0, 1)
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#FF6B6B")).
			Padding(0, 1)
	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#5B8DEF")).
			Padding(0, 2)
	disabledButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#777777")).
				Background(lipgloss.Color("#333333")).
				Padding(0, 2)
)

// renderLoading is the placeholder shown while a read is outstanding.
func renderLoading(sp spinner.Model, text string) string {
	return sp.View() + " " + text
}

// renderErrorPage replaces a whole screen after a failed read. Failure causes
// are deliberately not told apart here.
func renderErrorPage(hint string) string {
	lines := []string{
		errorStyle.Render(errorPageTitle),
		mutedStyle.Render("We couldn't load this page."),
	}
	if hint = strings.TrimSpace(hint); hint != "" {
		lines = append(lines, hintStyle.Render(hint))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSuccessBanner() string {
	return successStyle.Render(lipgloss.NewStyle().Bold(true).Render("Success! ") + successBannerText)
}

func renderErrorBanner(text string) string {
	return errorStyle.Render(lipgloss.NewStyle().Bold(true).Render("Error ") + text)
}
