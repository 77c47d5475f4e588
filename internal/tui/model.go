// Package tui provides the Bubble Tea number-finding interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/numfind/internal/game"
	"github.com/verte-zerg/numfind/internal/layout"
	"github.com/verte-zerg/numfind/internal/model"
	"github.com/verte-zerg/numfind/internal/schedule"
)

// Screen coordinates used for mouse hit tests. They follow the line order in View.
const (
	buttonRow = 5
	gridTop   = 8
	gridLeft  = 1

	defaultGridWidth  = 60
	defaultGridHeight = 20
	minGridWidth      = 20
	minGridHeight     = 6
)

const (
	titleText   = "LET'S PLAY"
	clearedText = "ALL CLEARED"
	failedText  = "GAME OVER"
)

type noticeKind int

const (
	noticeNone noticeKind = iota
	noticeSuccess
	noticeFailure
)

type tickMsg struct {
	ticket game.Ticket
}

type removeMsg struct {
	ticket game.Ticket
	value  int
}

var (
	titleStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	successStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	failureStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	labelStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	buttonStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#101010")).Background(lipgloss.Color("#C0C0C0"))
	pendingTokenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	clickedTokenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#FF0000")).Bold(true)
	mutedTokenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	gridStyle         = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).BorderForeground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea game UI.
type Model struct {
	gen   *layout.Generator
	sched *schedule.Scheduler
	life  *game.Lifecycle
	log   zerolog.Logger

	keys  keyMap
	help  help.Model
	input textinput.Model

	session    game.Session
	notice     string
	noticeKind noticeKind
	startedAt  time.Time

	width  int
	height int
}

// NewModel constructs a game model. The caller must Close it when done.
func NewModel(cfg model.Config, gen *layout.Generator, sched *schedule.Scheduler, logger zerolog.Logger) *Model {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = "Enter your number"
	input.CharLimit = len(strconv.Itoa(layout.Capacity))
	input.Width = len(input.Placeholder)
	if cfg.Points > 0 {
		input.SetValue(strconv.Itoa(cfg.Points))
	}
	input.Focus()

	return &Model{
		gen:   gen,
		sched: sched,
		life:  game.NewLifecycle(context.Background()),
		log:   logger,
		keys:  defaultKeyMap(),
		help:  help.New(),
		input: input,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Close releases the timers of the live session.
func (m *Model) Close() {
	m.life.Close()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Start):
			return m, m.start()
		}
		if msg.Type == tea.KeyRunes && !allDigits(msg.Runes) {
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	case tickMsg:
		return m, m.handleTick(msg)
	case removeMsg:
		m.handleRemove(msg)
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	width, height := m.gridSize()
	grid := paintGrid(m.session, width, height)
	lines := []string{
		m.renderHeader(len(grid.hidden)),
		"",
		labelStyle.Render(fmt.Sprintf("%-8s", "Points")) + m.input.View(),
		labelStyle.Render(fmt.Sprintf("%-8s", "Time")) + valueStyle.Render(game.FormatElapsed(m.session.Elapsed())+"s"),
		labelStyle.Render(fmt.Sprintf("%-8s", "Left")) + valueStyle.Render(strconv.Itoa(m.session.Remaining())),
		m.renderButton() + "  " + m.help.View(m.keys),
		"",
		gridStyle.Render(grid.render()),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) start() tea.Cmd {
	n, err := game.ParseCount(m.input.Value())
	if err != nil {
		m.setNotice(game.InvalidInputMessage, noticeFailure)
		m.log.Debug().Str("input", m.input.Value()).Msg("rejected point count")
		return nil
	}
	tokens, err := m.gen.Generate(n)
	if err != nil {
		m.setNotice(layoutErrorText(err), noticeFailure)
		m.log.Warn().Err(err).Int("points", n).Msg("layout generation failed")
		return nil
	}

	ticket := m.life.Begin()
	m.session = game.Start(n, tokens)
	m.setNotice("", noticeNone)
	m.startedAt = m.sched.Now()
	m.log.Info().
		Str("session", ticket.ID.String()).
		Uint64("gen", ticket.Gen).
		Int("points", n).
		Msg("session started")
	return m.scheduleTick(ticket)
}

// scheduleTick aims the next tick at startedAt + (elapsed+1)*TickPeriod.
func (m *Model) scheduleTick(ticket game.Ticket) tea.Cmd {
	deadline := m.startedAt.Add(time.Duration(m.session.Elapsed()+1) * game.TickPeriod)
	return m.sched.At(m.life.Context(), deadline, tickMsg{ticket: ticket})
}

func (m *Model) handleTick(msg tickMsg) tea.Cmd {
	if !m.life.Current(msg.ticket) || m.session.Status() != game.StatusActive {
		return nil
	}
	m.session = m.session.Tick()
	return m.scheduleTick(msg.ticket)
}

func (m *Model) handleRemove(msg removeMsg) {
	if !m.life.Current(msg.ticket) {
		m.log.Debug().
			Str("session", msg.ticket.ID.String()).
			Int("value", msg.value).
			Msg("dropped stale removal")
		return
	}
	m.session = m.session.Remove(msg.value)
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	if msg.Y == buttonRow && msg.X >= 0 && msg.X < lipgloss.Width(m.renderButton()) {
		return m.start()
	}
	value := m.tokenAt(msg.X, msg.Y)
	if value == 0 {
		return nil
	}
	return m.click(value)
}

func (m *Model) click(value int) tea.Cmd {
	ticket := m.life.Ticket()
	next, outcome := m.session.Click(value)
	if outcome == game.OutcomeIgnored {
		return nil
	}
	m.session = next

	level := zerolog.DebugLevel
	switch outcome {
	case game.OutcomeCleared:
		m.setNotice(clearedText, noticeSuccess)
		level = zerolog.InfoLevel
	case game.OutcomeFailed:
		m.setNotice(failedText, noticeFailure)
		level = zerolog.InfoLevel
	}
	m.log.WithLevel(level).
		Str("session", ticket.ID.String()).
		Int("value", value).
		Str("status", next.Status().String()).
		Str("elapsed", game.FormatElapsed(next.Elapsed())).
		Dur("wall", m.sched.Now().Sub(m.startedAt)).
		Msg("token clicked")

	if !outcome.Found() {
		return nil
	}
	return m.sched.After(m.life.Context(), game.RemovalDelay, removeMsg{ticket: ticket, value: value})
}

func (m *Model) tokenAt(x, y int) int {
	width, height := m.gridSize()
	return paintGrid(m.session, width, height).ownerAt(x-gridLeft, y-gridTop)
}

func (m *Model) gridSize() (int, int) {
	if m.width == 0 || m.height == 0 {
		return defaultGridWidth, defaultGridHeight
	}
	width := max(m.width-2*gridLeft, minGridWidth)
	height := max(m.height-gridTop-1, minGridHeight)
	return width, height
}

func (m *Model) setNotice(text string, kind noticeKind) {
	m.notice = text
	m.noticeKind = kind
}

func (m *Model) renderHeader(hidden int) string {
	text, style := titleText, titleStyle
	switch {
	case m.noticeKind == noticeSuccess:
		text, style = m.notice, successStyle
	case m.noticeKind == noticeFailure:
		text, style = m.notice, failureStyle
	case hidden > 0:
		text, style = fmt.Sprintf("Enlarge the terminal: %d points do not fit.", hidden), failureStyle
	}
	if m.width > 0 {
		text = runewidth.Truncate(text, m.width, "…")
	}
	return style.Render(text)
}

func (m *Model) renderButton() string {
	label := "[ Play ]"
	if m.session.Status() != game.StatusIdle {
		label = "[ Restart ]"
	}
	return buttonStyle.Render(label)
}

func layoutErrorText(err error) string {
	switch {
	case errors.Is(err, layout.ErrTooMany):
		return fmt.Sprintf("The grid holds at most %d points.", layout.Capacity)
	case errors.Is(err, layout.ErrSaturated):
		return "Could not place every point, press enter to try again."
	default:
		return game.InvalidInputMessage
	}
}

func allDigits(runes []rune) bool {
	for _, r := range runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
