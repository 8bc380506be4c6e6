// Package ui is the interactive bubbletea front end for full scans. It is
// presentation glue only: the engine publishes progress, this model drains
// it on the bubbletea loop and renders whatever report comes back.
package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"devsweep/internal/detect"
	devprogress "devsweep/internal/progress"
	"devsweep/pkg/utils"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Faint(true)
	toolStyle  = lipgloss.NewStyle().Bold(true)
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

type progressMsg devprogress.Update

type doneMsg struct {
	report *detect.Report
}

// ScanModel drives one full detector scan and shows the resulting report.
type ScanModel struct {
	coordinator *detect.Coordinator
	reporter    *devprogress.Reporter
	updates     <-chan devprogress.Update

	bar      progress.Model
	spin     spinner.Model
	fraction float64
	label    string

	report *detect.Report
	done   bool
}

func NewScanModel(coordinator *detect.Coordinator) ScanModel {
	rep := devprogress.NewReporter()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return ScanModel{
		coordinator: coordinator,
		reporter:    rep,
		updates:     rep.Subscribe(),
		bar:         progress.New(progress.WithDefaultGradient()),
		spin:        sp,
		label:       "starting scan",
	}
}

func (m ScanModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.startScan(), m.waitForUpdate())
}

func (m ScanModel) startScan() tea.Cmd {
	return func() tea.Msg {
		report := m.coordinator.ScanAll(context.Background(),
			m.reporter.Sink(devprogress.PhaseDetecting, ""))
		return doneMsg{report: report}
	}
}

func (m ScanModel) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		u, ok := <-m.updates
		if !ok {
			return nil
		}
		return progressMsg(u)
	}
}

func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - 8
		if m.bar.Width > 60 {
			m.bar.Width = 60
		}
	case progressMsg:
		m.fraction = msg.Fraction
		m.label = msg.Label
		return m, tea.Batch(m.bar.SetPercent(msg.Fraction), m.waitForUpdate())
	case doneMsg:
		m.report = msg.report
		m.done = true
		return m, m.bar.SetPercent(1.0)
	case progress.FrameMsg:
		barModel, cmd := m.bar.Update(msg)
		m.bar = barModel.(progress.Model)
		return m, cmd
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m ScanModel) View() string {
	s := titleStyle.Render("devsweep") + "\n\n"
	if !m.done {
		s += m.spin.View() + " " + m.bar.View() + "\n"
		s += labelStyle.Render(m.label) + "\n"
		return s
	}

	s += "Total: " + utils.FormatBytes(m.report.TotalBytes) +
		"   reclaimable: " + utils.FormatBytes(m.report.SafeBytes) + "\n\n"
	for _, summary := range m.report.Summaries {
		s += toolStyle.Render(summary.Tool) + "  " +
			utils.FormatBytes(summary.TotalBytes) + "\n"
	}
	s += "\n" + helpStyle.Render("q to quit") + "\n"
	return s
}
