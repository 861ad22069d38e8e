package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/go-drift/marquee/cmd/marquee/internal/config"
	"github.com/go-drift/marquee/pkg/animation"
	"github.com/go-drift/marquee/pkg/timeline"
)

func init() {
	RegisterCommand(&Command{
		Name:  "inspect",
		Short: "Print the resolved timeline",
		Long: `Resolve the show and print its timeline: every step in list order
with its kind, start offset, and which step decides loop completion.

Flags:
  --config FILE   Choreography file (default: ./marquee.yaml, else built-in)
  --assets DIR    Directory holding sprite sheets`,
		Usage: "marquee inspect [--config FILE] [--assets DIR]",
		Run:   runInspect,
	})
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	terminalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

var inspectColumns = []struct {
	title string
	width int
}{
	{"#", 4},
	{"KIND", 9},
	{"STEP", 28},
	{"AT", 9},
	{"", 9},
}

func runInspect(args []string) error {
	_, opts, err := parseShowArgs(args)
	if err != nil {
		return err
	}
	show, c, err := loadShow(opts, animation.DefaultClock())
	if err != nil {
		return err
	}
	coordinator, err := show.Coordinator()
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, renderInspect(c, show, coordinator.State()))
	return nil
}

func renderInspect(c *config.Choreography, show *config.Show, steps []timeline.StepState) string {
	var b strings.Builder
	title := show.Name
	if title == "" {
		title = "(untitled)"
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s  %dx%d @ %d fps", c.Source, show.Width, show.Height, show.FPS)))
	b.WriteString("\n")

	var loop time.Duration
	titles := make([]string, len(inspectColumns))
	for i, col := range inspectColumns {
		titles[i] = col.title
	}
	rows := []string{renderRow(headerStyle, titles...)}
	for _, s := range steps {
		style := lipgloss.NewStyle()
		marker := ""
		if s.Terminal {
			style = terminalStyle
			marker = "terminal"
		}
		rows = append(rows, renderRow(style, fmt.Sprint(s.Index), s.Kind, s.Name, formatOffset(s.StartAt), marker))
		if s.StartAt > loop {
			loop = s.StartAt
		}
	}
	b.WriteString(boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("%d elements, %d groups, %d steps, last start %s\n",
		len(show.Elements), len(show.Groups), len(steps), formatOffset(loop)))
	if len(show.Placeholders) > 0 {
		b.WriteString(mutedStyle.Render("placeholders: " + strings.Join(show.Placeholders, ", ")))
		b.WriteString("\n")
	}
	return b.String()
}

func renderRow(style lipgloss.Style, cells ...string) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = style.Copy().Width(inspectColumns[i].width).Render(cell)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func formatOffset(d time.Duration) string {
	return fmt.Sprintf("%.3fs", d.Seconds())
}
