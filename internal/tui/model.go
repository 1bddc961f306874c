// Package tui is the interactive terminal front end: prompt input, settings,
// image display and session history.
package tui

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/blacktop/imagecraft/internal/codec"
	"github.com/blacktop/imagecraft/internal/gallery"
	"github.com/blacktop/imagecraft/internal/generate"
	"github.com/blacktop/imagecraft/internal/store"
)

type focus int

const (
	focusInput focus = iota
	focusSettings
	focusHistory
	focusDisplay
	focusCount
)

type Config struct {
	Generator    store.Generator
	Settings     gallery.Settings
	Prompt       string // prefilled into the input
	OutputFolder string
	Protocol     string
	Logger       *log.Logger
	Clipboard    Clipboard
	Sharer       Sharer
	HTTPClient   *http.Client // fetches external image URLs
	Now          func() time.Time
	NewID        func() string
}

type Model struct {
	cfg    Config
	logger *log.Logger

	state    store.State
	focus    focus
	input    inputPanel
	settings settingsPanel
	history  historyPanel
	button   int

	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	width    int
	height   int

	images      map[string][]byte
	thumbs      map[string]string
	fetching    map[string]bool  // external URLs with a fetch in flight
	fetchErr    map[string]error // failed fetches, retried only on select
	rendered    string
	renderedKey string
	renderErr   error
	flash       *store.Notice
}

func New(cfg Config) Model {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Clipboard == nil {
		cfg.Clipboard = systemClipboard{}
	}
	if cfg.Sharer == nil {
		cfg.Sharer = browserSharer{}
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = store.NewID
	}
	if cfg.Settings.Validate() != nil {
		cfg.Settings = gallery.DefaultSettings()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return Model{
		cfg:      cfg,
		logger:   cfg.Logger,
		state:    store.NewState(cfg.Settings),
		input:    newInputPanel(cfg.Prompt),
		spinner:  s,
		viewport: viewport.New(0, 0),
		help:     help.New(),
		images:   make(map[string][]byte),
		thumbs:   make(map[string]string),
		fetching: make(map[string]bool),
		fetchErr: make(map[string]error),
	}
}

// State returns a copy of the store state.
func (m Model) State() store.State { return m.state.Clone() }

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

func (m Model) notice() *store.Notice {
	if m.flash != nil {
		return m.flash
	}
	return m.state.Notice
}

func (m Model) canSubmit() bool {
	return !m.state.Generating && m.input.prompt() != ""
}

// dispatch runs a through the reducer and starts the job it emits.
func (m Model) dispatch(a store.Action) (Model, tea.Cmd) {
	var job *store.Job
	m.state, job = store.Reduce(m.state, a)
	cmds := []tea.Cmd{m.syncDisplay()}
	if job != nil {
		m.logger.Debug("Generating image", "prompt", job.Prompt, "settings", job.Settings)
		cmds = append(cmds, m.generate(*job), m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) generate(job store.Job) tea.Cmd {
	gen, now, newID, logger := m.cfg.Generator, m.cfg.Now, m.cfg.NewID, m.logger
	return func() tea.Msg {
		settings := job.Settings
		url, err := gen.Generate(context.Background(), generate.Request{Prompt: job.Prompt, Settings: &settings})
		if err != nil {
			logger.Error("Image generation failed", "err", err, "prompt", job.Prompt)
			return store.Failed{Token: job.Token, Err: err}
		}
		return store.Succeeded{Token: job.Token, URL: url, ID: newID(), At: now()}
	}
}

// syncDisplay loads and renders whatever the display and history need.
func (m *Model) syncDisplay() tea.Cmd {
	for _, img := range m.state.History {
		if _, ok := m.images[img.ID]; !ok && codec.IsDataURL(img.URL) {
			if data, _, err := codec.Decode(img.URL); err == nil {
				m.images[img.ID] = data
			}
		}
		if _, ok := m.thumbs[img.ID]; !ok {
			if data, ok := m.images[img.ID]; ok {
				m.thumbs[img.ID] = renderThumbnail(data, m.cfg.Protocol)
			}
		}
	}

	cur := m.state.Current
	if cur == nil {
		m.rendered, m.renderedKey, m.renderErr = "", "", nil
		return nil
	}
	data, ok := m.images[cur.ID]
	if !ok {
		if codec.IsDataURL(cur.URL) {
			_, _, err := codec.Decode(cur.URL)
			m.rendered, m.renderErr = "", err
			return nil
		}
		m.rendered, m.renderErr = "", m.fetchErr[cur.ID]
		if m.fetching[cur.ID] || m.renderErr != nil {
			return nil
		}
		m.fetching[cur.ID] = true
		return fetchImage(m.cfg.HTTPClient, *cur)
	}

	renderKey := fmt.Sprintf("%s@%dx%d", cur.ID, m.viewport.Width, m.viewport.Height)
	if renderKey == m.renderedKey {
		return nil
	}
	m.renderedKey = renderKey
	m.rendered, m.renderErr = renderImage(data, m.cfg.Protocol, m.viewport.Width, m.viewport.Height)
	if m.renderErr != nil {
		m.logger.Warn("Unable to render image", "id", cur.ID, "err", m.renderErr)
	}
	m.viewport.SetContent(m.rendered)
	return nil
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = ((f % focusCount) + focusCount) % focusCount
	if m.focus == focusInput {
		return m.input.textarea.Focus()
	}
	m.input.textarea.Blur()
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(m.width-m.leftWidth()-6, 1)
		m.viewport.Height = max(m.bodyHeight()-10, 1)
		m.help.Width = m.width
		return m, m.syncDisplay()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case store.Succeeded:
		m.history.cursor = 0
		return m.dispatch(msg)

	case store.Failed:
		m.flash = nil
		return m.dispatch(msg)

	case fetchedMsg:
		delete(m.fetching, msg.id)
		if _, ok := m.state.Find(msg.id); !ok {
			return m, nil
		}
		if msg.err != nil {
			m.logger.Error("Unable to fetch image", "id", msg.id, "err", msg.err)
			m.fetchErr[msg.id] = msg.err
		} else {
			m.images[msg.id] = msg.data
			delete(m.thumbs, msg.id)
			m.renderedKey = ""
		}
		return m, m.syncDisplay()

	case savedMsg:
		if msg.err != nil {
			m.logger.Error("Download failed", "err", msg.err)
			m.flash = &store.Notice{Kind: store.NoticeError, Message: "Download failed: " + msg.err.Error(), Err: msg.err}
		} else {
			m.logger.Info("Image saved", "path", msg.path)
			m.flash = &store.Notice{Kind: store.NoticeInfo, Message: savedMessage(msg)}
		}
		return m, nil

	case sharedMsg:
		kind := store.NoticeInfo
		if msg.failed {
			kind = store.NoticeError
		}
		m.flash = &store.Notice{Kind: kind, Message: msg.message}
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		if !m.state.Generating {
			return m, nil
		}
		return m, cmd
	}

	m.input, cmd = m.input.update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || (m.focus != focusInput && key.Matches(msg, keys.Quit)) {
		return m, tea.Quit
	}
	switch {
	case key.Matches(msg, keys.Dismiss) && m.notice() != nil:
		m.flash = nil
		return m.dispatch(store.Dismiss{})
	case key.Matches(msg, keys.Next):
		return m, m.setFocus(m.focus + 1)
	case key.Matches(msg, keys.Prev):
		return m, m.setFocus(m.focus - 1)
	}

	switch m.focus {
	case focusInput:
		return m.updateInput(msg)
	case focusSettings:
		return m.updateSettings(msg)
	case focusHistory:
		return m.updateHistory(msg)
	case focusDisplay:
		return m.updateDisplay(msg)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Submit):
		if !m.canSubmit() {
			return m, nil
		}
		return m.dispatch(store.Submit{Prompt: m.input.prompt()})
	case key.Matches(msg, keys.Clear):
		m.input.set("")
		return m, nil
	case key.Matches(msg, keys.Copy):
		if m.input.value() == "" {
			return m, nil
		}
		return m, copyPrompt(m.cfg.Clipboard, m.input.value())
	}
	if s, ok := suggestion(msg); ok {
		m.input.set(s)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.update(msg)
	return m, cmd
}

func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Toggle):
		m.settings.expanded = !m.settings.expanded
	case !m.settings.expanded:
	case key.Matches(msg, keys.Up):
		m.settings.move(-1)
	case key.Matches(msg, keys.Down):
		m.settings.move(1)
	case key.Matches(msg, keys.Left):
		return m.dispatch(store.UpdateSettings{Patch: m.settings.patch(m.state.Settings, -1)})
	case key.Matches(msg, keys.Right):
		return m.dispatch(store.UpdateSettings{Patch: m.settings.patch(m.state.Settings, 1)})
	}
	return m, nil
}

func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.state.History)
	switch {
	case key.Matches(msg, keys.Up):
		m.history.move(-1, n)
	case key.Matches(msg, keys.Down):
		m.history.move(1, n)
	case key.Matches(msg, keys.Select):
		if img, ok := m.history.selected(m.state.History); ok {
			delete(m.fetchErr, img.ID)
			return m.dispatch(store.Select{ID: img.ID})
		}
	case key.Matches(msg, keys.Delete):
		if img, ok := m.history.selected(m.state.History); ok {
			delete(m.images, img.ID)
			delete(m.thumbs, img.ID)
			delete(m.fetchErr, img.ID)
			var cmd tea.Cmd
			m, cmd = m.dispatch(store.Delete{ID: img.ID})
			m.history.clamp(len(m.state.History))
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) updateDisplay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := -1
	switch {
	case key.Matches(msg, keys.Download):
		action = buttonDownload
	case key.Matches(msg, keys.Share):
		action = buttonShare
	case key.Matches(msg, keys.Regenerate):
		action = buttonRegenerate
	case key.Matches(msg, keys.Left):
		m.button = (m.button + buttonCount - 1) % buttonCount
	case key.Matches(msg, keys.Right):
		m.button = (m.button + 1) % buttonCount
	case key.Matches(msg, keys.Select):
		action = m.button
	}

	cur := m.state.Current
	switch action {
	case buttonDownload:
		if cur == nil {
			return m, nil
		}
		m.logger.Debug("Downloading image", "id", cur.ID)
		return m, downloadImage(m.cfg.HTTPClient, m.cfg.OutputFolder, *cur, m.images[cur.ID])
	case buttonShare:
		if cur == nil {
			return m, nil
		}
		return m, shareImage(m.cfg.Sharer, m.cfg.Clipboard, *cur)
	case buttonRegenerate:
		if cur != nil {
			m.logger.Debug("Regenerating image", "prompt", cur.Prompt)
		}
		return m.dispatch(store.Regenerate{})
	}
	return m, nil
}

func (m Model) leftWidth() int { return int(float64(m.width) * 0.4) }

// bodyHeight excludes the header and the notice and help lines.
func (m Model) bodyHeight() int { return max(m.height-3, 1) }

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	leftWidth := m.leftWidth()
	rightWidth := m.width - leftWidth
	bodyHeight := m.bodyHeight()

	input := m.input.view(leftWidth, m.focus == focusInput, m.canSubmit(), m.state.Generating)
	settings := m.settings.view(leftWidth, m.focus == focusSettings, m.state.Settings)
	historyHeight := max(bodyHeight-lipgloss.Height(input)-lipgloss.Height(settings), historyRowHeight+2)
	history := m.history.view(leftWidth, historyHeight, m.focus == focusHistory, m.state.History, m.state.Current, m.thumbs)

	left := lipgloss.JoinVertical(lipgloss.Left, input, settings, history)
	right := m.displayView(rightWidth, bodyHeight)
	body := lipgloss.NewStyle().MaxHeight(bodyHeight).Render(lipgloss.JoinHorizontal(lipgloss.Top, left, right))

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		body,
		m.noticeView(),
		m.help.ShortHelpView(m.helpFor()),
	)
}

func (m Model) headerView() string {
	title := titleStyle.Render("ImageCraft AI")
	tag := dimStyle.Render("✦ Powered by AI")
	gap := max(m.width-lipgloss.Width(title)-lipgloss.Width(tag), 1)
	return title + lipgloss.NewStyle().Width(gap).Render("") + tag
}

func (m Model) noticeView() string {
	n := m.notice()
	if n == nil {
		return ""
	}
	badge := infoNoticeStyle.String()
	if n.Kind == store.NoticeError {
		badge = errorNoticeStyle.String()
	}
	return badge + " " + n.Message + dimStyle.Render("  (esc to dismiss)")
}
