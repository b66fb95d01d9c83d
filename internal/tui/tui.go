package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/patchpick/patchpick/internal/logging"
	"github.com/patchpick/patchpick/internal/session"
)

// statusPaneHeight is the full height of the bottom pane: three content
// rows plus the border.
const statusPaneHeight = 5

type tickMsg time.Time

// Options carries everything the picker needs beyond the session itself.
type Options struct {
	Session      *session.Session
	InputPath    string
	Summary      string // one-line patch stats shown in the status pane
	Theme        string
	TickInterval time.Duration
	NoColor      bool
	Logger       logging.Logger
}

type model struct {
	sess   *session.Session
	keys   keyMap
	logger logging.Logger

	inputPath string
	summary   string
	theme     string
	tickEvery time.Duration

	// Layout
	preview    viewport.Model
	width      int
	height     int
	listWidth  int
	listHeight int
	listOffset int
	ready      bool

	// Status pane state
	status    string
	statusErr bool
	now       time.Time

	// Help overlay
	showHelp bool
	helpView string

	// Styling
	borderStyle lipgloss.Style
	cursorStyle lipgloss.Style
	markStyle   lipgloss.Style
	labelStyle  lipgloss.Style
	headStyle   lipgloss.Style
	addStyle    lipgloss.Style
	delStyle    lipgloss.Style
	escStyle    lipgloss.Style
	hintStyle   lipgloss.Style
	okStyle     lipgloss.Style
	errStyle    lipgloss.Style
}

func newModel(opts Options) *model {
	logger := opts.Logger
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}
	tickEvery := opts.TickInterval
	if tickEvery <= 0 {
		tickEvery = 250 * time.Millisecond
	}
	m := model{
		sess:      opts.Session,
		keys:      defaultKeyMap(),
		logger:    logger,
		inputPath: opts.InputPath,
		summary:   opts.Summary,
		theme:     opts.Theme,
		tickEvery: tickEvery,
		preview:   viewport.Model{},
		now:       time.Now(),

		borderStyle: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")),
		cursorStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Background(lipgloss.Color("63")),
		markStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		labelStyle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		headStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
		addStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		delStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		escStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		hintStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		okStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		errStyle:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
	}
	m.refreshPreview()
	return &m
}

func tick(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// recalcLayout splits the screen into the hunk list (45%), the preview
// (remaining width) and the status pane, then re-renders what depends on
// the new sizes.
func (m *model) recalcLayout() {
	if !m.ready {
		return
	}
	paneHeight := m.height - statusPaneHeight
	if paneHeight < 4 {
		paneHeight = 4
	}
	listWidth := m.width * 45 / 100
	if listWidth < 16 {
		listWidth = 16
	}
	previewWidth := m.width - listWidth
	if previewWidth < 12 {
		previewWidth = 12
	}
	m.listWidth = listWidth
	m.listHeight = paneHeight - 2
	m.preview.Width = previewWidth - 2
	m.preview.Height = paneHeight - 2
	m.refreshPreview()
	m.scrollListTo(m.sess.Cursor())
	if m.showHelp {
		m.helpView = renderHelp(m.theme, m.width-4)
	}
}

// scrollListTo shifts the visible window of the hunk list so the given
// position stays on screen.
func (m *model) scrollListTo(pos int) {
	if m.listHeight <= 0 {
		return
	}
	if pos < m.listOffset {
		m.listOffset = pos
	}
	if pos >= m.listOffset+m.listHeight {
		m.listOffset = pos - m.listHeight + 1
	}
	if m.listOffset < 0 {
		m.listOffset = 0
	}
}

// refreshPreview fills the preview pane with the hunk under the cursor.
func (m *model) refreshPreview() {
	if m.sess == nil || m.sess.Len() == 0 {
		m.preview.SetContent("no hunks")
		return
	}
	hunk := m.sess.HunkAt(m.sess.Cursor())
	truncate := lipgloss.NewStyle().MaxWidth(m.preview.Width)
	var b strings.Builder
	b.WriteString(truncate.Render(m.headStyle.Render(hunk.Header)))
	for _, line := range hunk.Body {
		b.WriteByte('\n')
		b.WriteString(truncate.Render(m.colorizeBodyLine(line)))
	}
	m.preview.SetContent(b.String())
}

func (m *model) colorizeBodyLine(line string) string {
	if line == "" {
		return line
	}
	switch line[0] {
	case '+':
		return m.addStyle.Render(line)
	case '-':
		return m.delStyle.Render(line)
	case '\\':
		return m.escStyle.Render(line)
	}
	return line
}

func (m model) Init() tea.Cmd {
	return tick(m.tickEvery)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.recalcLayout()
		return m, nil
	case tickMsg:
		m.now = time.Time(msg)
		return m, tick(m.tickEvery)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = false
		}
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Toggle):
		m.toggleCurrent()
	case key.Matches(msg, m.keys.PageUp):
		m.preview.ViewUp()
	case key.Matches(msg, m.keys.PageDown):
		m.preview.ViewDown()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.helpView = renderHelp(m.theme, m.width-4)
	}
	return m, nil
}

func (m *model) moveCursor(delta int) {
	m.sess.Move(delta)
	m.refreshPreview()
	m.preview.GotoTop()
	m.scrollListTo(m.sess.Cursor())
}

// toggleCurrent flips the hunk under the cursor and reports the rewrite
// outcome in the status pane. The mark itself sticks even when the write
// fails, matching the session contract.
func (m *model) toggleCurrent() {
	if m.sess.Len() == 0 {
		return
	}
	if err := m.sess.ToggleCurrent(); err != nil {
		m.status = "ERROR: " + err.Error()
		m.statusErr = true
		m.logger.Error("output rewrite failed", err, logging.Field("path", m.sess.OutputPath()))
		return
	}
	m.status = fmt.Sprintf("Saved %d selected hunk(s) → %s", m.sess.SelectedCount(), m.sess.OutputPath())
	m.statusErr = false
}

func (m model) View() string {
	if !m.ready {
		return "Initializing…"
	}
	if m.showHelp {
		return m.helpView
	}
	list := m.borderStyle.Width(m.listWidth - 2).Height(m.listHeight).Render(m.renderList())
	preview := m.borderStyle.Width(m.preview.Width).Height(m.preview.Height).Render(m.preview.View())
	panes := lipgloss.JoinHorizontal(lipgloss.Top, list, preview)
	status := m.borderStyle.Width(m.width - 2).Render(m.renderStatus())
	return lipgloss.JoinVertical(lipgloss.Left, panes, status)
}

// renderList renders the visible slice of the hunk list. The cursor row is
// restyled as one block; other rows style the mark and label separately.
func (m *model) renderList() string {
	count := m.sess.Len()
	if count == 0 {
		return "no hunks"
	}
	end := m.listOffset + m.listHeight
	if end > count {
		end = count
	}
	rowWidth := m.listWidth - 2
	truncate := lipgloss.NewStyle().MaxWidth(rowWidth)
	rows := make([]string, 0, end-m.listOffset)
	for pos := m.listOffset; pos < end; pos++ {
		hunk := m.sess.HunkAt(pos)
		mark := "[ ] "
		if hunk.Marked {
			mark = "[x] "
		}
		label := m.sess.LabelAt(pos)
		var row string
		if pos == m.sess.Cursor() {
			row = m.cursorStyle.Render(mark + label + "  " + hunk.Preview)
		} else {
			row = m.markStyle.Render(mark) + m.labelStyle.Render(label) + "  " + hunk.Preview
		}
		rows = append(rows, truncate.Render(row))
	}
	return strings.Join(rows, "\n")
}

// renderStatus renders the three status rows: paths and patch stats, the
// last save outcome, and key hints with a clock.
func (m *model) renderStatus() string {
	width := m.width - 2
	truncate := lipgloss.NewStyle().MaxWidth(width)

	paths := fmt.Sprintf("%s → %s", m.inputPath, m.sess.OutputPath())
	if m.summary != "" {
		paths += "  •  " + m.summary
	}

	var outcome string
	switch {
	case m.status == "":
		outcome = m.hintStyle.Render(fmt.Sprintf("%d/%d hunks selected", m.sess.SelectedCount(), m.sess.Len()))
	case m.statusErr:
		outcome = m.errStyle.Render(m.status)
	default:
		outcome = m.okStyle.Render(m.status)
	}

	hints := "↑/↓ move • space toggle • pgup/pgdn scroll • ? help • q quit"
	clock := m.now.Format("15:04:05")
	gap := width - lipgloss.Width(hints) - lipgloss.Width(clock)
	if gap < 1 {
		gap = 1
	}
	bottom := m.hintStyle.Render(hints) + strings.Repeat(" ", gap) + m.hintStyle.Render(clock)

	return truncate.Render(paths) + "\n" + truncate.Render(outcome) + "\n" + truncate.Render(bottom)
}

// Run drives the interactive hunk picker until the user quits. Returns a
// POSIX-style exit code.
func Run(ctx context.Context, opts Options) int {
	if opts.Session == nil {
		fmt.Fprintln(os.Stderr, "tui: no session")
		return 1
	}

	// Fix the color profile up front so lipgloss/termenv never probe the
	// terminal with OSC queries before the alt screen is up.
	if opts.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	} else {
		lipgloss.SetColorProfile(termenv.TrueColor)
		lipgloss.SetHasDarkBackground(true)
	}

	m := newModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			m.sess.Checkpoint()
			return 0
		}
		fmt.Fprintln(os.Stderr, "tui error:", err)
		return 1
	}
	m.sess.Checkpoint()
	return 0
}
