package controller

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "hotsplit.dev/pkg/hotsplit/internal/model"
)

var (
	watchTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	watchOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	watchFailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	watchDimStyle   = lipgloss.NewStyle().Faint(true)
)

// RebuildFunc recompiles the watched script. It reports the resulting split,
// whether the source changed since the previous call, and any compile error.
type RebuildFunc func(ctx context.Context) (m.Split, bool, error)

// WatchTUI runs an interactive watch loop using Bubble Tea.
type WatchTUI struct {
	output   io.Writer
	script   m.Path
	interval time.Duration
	rebuild  RebuildFunc
}

// NewWatchTUI creates a new WatchTUI polling the script at the given interval.
func NewWatchTUI(output io.Writer, script m.Path, interval time.Duration, rebuild RebuildFunc) *WatchTUI {
	return &WatchTUI{
		output:   output,
		script:   script,
		interval: interval,
		rebuild:  rebuild,
	}
}

// Run blocks until the user quits or ctx is cancelled.
func (t *WatchTUI) Run(ctx context.Context) error {
	model := newWatchModel(t.script, t.interval, t.rebuild)

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

type watchStatus int

const (
	watchIdle watchStatus = iota
	watchOK
	watchFailed
)

type pollTickMsg struct{}

type rebuildDoneMsg struct {
	split   m.Split
	changed bool
	err     error
}

// watchModel is the Bubble Tea model behind the watch command.
type watchModel struct {
	script   m.Path
	interval time.Duration
	rebuild  RebuildFunc

	spin      spinner.Model
	status    watchStatus
	errText   string
	builds    int
	bindings  int
	lastBuild time.Time
	quitting  bool
}

func newWatchModel(script m.Path, interval time.Duration, rebuild RebuildFunc) watchModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = watchTitleStyle

	return watchModel{
		script:   script,
		interval: interval,
		rebuild:  rebuild,
		spin:     spin,
		status:   watchIdle,
	}
}

func (wm watchModel) Init() tea.Cmd {
	return tea.Batch(wm.spin.Tick, wm.runRebuild())
}

func (wm watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			wm.quitting = true
			return wm, tea.Quit
		}

		return wm, nil

	case pollTickMsg:
		return wm, wm.runRebuild()

	case rebuildDoneMsg:
		return wm.applyRebuild(msg), wm.schedulePoll()

	case spinner.TickMsg:
		var cmd tea.Cmd
		wm.spin, cmd = wm.spin.Update(msg)

		return wm, cmd
	}

	return wm, nil
}

func (wm watchModel) applyRebuild(msg rebuildDoneMsg) watchModel {
	if !msg.changed {
		return wm
	}

	wm.builds++
	wm.lastBuild = time.Now()

	if msg.err != nil {
		wm.status = watchFailed
		wm.errText = msg.err.Error()

		return wm
	}

	wm.status = watchOK
	wm.errText = ""
	wm.bindings = len(msg.split.Bindings)

	return wm
}

func (wm watchModel) runRebuild() tea.Cmd {
	return func() tea.Msg {
		split, changed, err := wm.rebuild(context.Background())

		return rebuildDoneMsg{split: split, changed: changed, err: err}
	}
}

func (wm watchModel) schedulePoll() tea.Cmd {
	return tea.Tick(wm.interval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

func (wm watchModel) View() string {
	if wm.quitting {
		return ""
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s %s %s\n\n",
		wm.spin.View(),
		watchTitleStyle.Render("watching"),
		wm.script)

	switch wm.status {
	case watchIdle:
		b.WriteString(watchDimStyle.Render("  waiting for first build"))
		b.WriteString("\n")

	case watchOK:
		fmt.Fprintf(&b, "  %s %d binding(s) captured\n",
			watchOKStyle.Render("OK"), wm.bindings)

	case watchFailed:
		fmt.Fprintf(&b, "  %s %s\n",
			watchFailStyle.Render("FAIL"), wm.errText)
	}

	if wm.builds > 0 {
		fmt.Fprintf(&b, "\n%s\n", watchDimStyle.Render(fmt.Sprintf(
			"  builds: %d | last: %s", wm.builds, wm.lastBuild.Format("15:04:05"))))
	}

	b.WriteString(watchDimStyle.Render("\n  q: quit"))
	b.WriteString("\n")

	return b.String()
}
