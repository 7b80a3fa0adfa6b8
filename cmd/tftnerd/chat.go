// Package main provides the tftNERD CLI entry point.
// This file implements the interactive chat interface using bubbletea.
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"tftnerd/internal/assistant"
	"tftnerd/internal/logging"
)

// chatStyles collects the lipgloss styles for the chat view.
type chatStyles struct {
	title     lipgloss.Style
	userLabel lipgloss.Style
	botLabel  lipgloss.Style
	errText   lipgloss.Style
	help      lipgloss.Style
}

func defaultChatStyles() chatStyles {
	return chatStyles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		userLabel: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		botLabel:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		errText:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		help:      lipgloss.NewStyle().Faint(true),
	}
}

type chatMessage struct {
	role    string // "user" or "assistant"
	content string
	time    time.Time
}

type (
	responseMsg string
	errorMsg    error
)

// chatModel is the model for the interactive chat interface.
type chatModel struct {
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	styles    chatStyles
	renderer  *glamour.TermRenderer

	history   []chatMessage
	isLoading bool
	err       error
	width     int
	height    int
	ready     bool

	assistant *assistant.Assistant
}

func initChat(a *assistant.Assistant) chatModel {
	styles := defaultChatStyles()

	ti := textinput.New()
	ti.Placeholder = "Ask about your board, economy, or what to sell... (Enter to send, Ctrl+C to exit)"
	ti.Focus()
	ti.Prompt = "│ "
	ti.CharLimit = 2048
	ti.Width = 80

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(80, 20)

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)

	return chatModel{
		textinput: ti,
		viewport:  vp,
		spinner:   sp,
		styles:    styles,
		renderer:  renderer,
		assistant: a,
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

// askAssistant runs the query off the update loop.
func (m chatModel) askAssistant(query string) tea.Cmd {
	a := m.assistant
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		answer, err := a.ProcessQuery(ctx, query)
		if err != nil {
			return errorMsg(err)
		}
		return responseMsg(answer)
	}
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var tiCmd, vpCmd, spCmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			query := strings.TrimSpace(m.textinput.Value())
			if query == "" || m.isLoading {
				return m, nil
			}
			m.history = append(m.history, chatMessage{role: "user", content: query, time: time.Now()})
			m.textinput.Reset()
			m.isLoading = true
			m.err = nil
			m.refreshViewport()
			return m, tea.Batch(m.askAssistant(query), m.spinner.Tick)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textinput.Width = msg.Width - 4
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 5
		m.renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(min(msg.Width-4, 100)),
		)
		m.ready = true
		m.refreshViewport()

	case responseMsg:
		m.isLoading = false
		m.history = append(m.history, chatMessage{role: "assistant", content: string(msg), time: time.Now()})
		m.refreshViewport()

	case errorMsg:
		m.isLoading = false
		m.err = msg
		m.refreshViewport()

	case spinner.TickMsg:
		if m.isLoading {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}
	}

	m.textinput, tiCmd = m.textinput.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

// refreshViewport rerenders the history into the scrollback.
func (m *chatModel) refreshViewport() {
	var b strings.Builder
	for _, msg := range m.history {
		switch msg.role {
		case "user":
			b.WriteString(m.styles.userLabel.Render("You"))
			b.WriteString("\n")
			b.WriteString(msg.content)
		default:
			b.WriteString(m.styles.botLabel.Render("tftNERD"))
			b.WriteString("\n")
			b.WriteString(m.renderMarkdown(msg.content))
		}
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(m.styles.errText.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m *chatModel) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n") + "\n"
}

func (m chatModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render("tftNERD"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.isLoading {
		b.WriteString(m.spinner.View() + " thinking...\n")
	} else {
		b.WriteString(m.textinput.View() + "\n")
	}
	b.WriteString(m.styles.help.Render("Enter to send · Ctrl+C to exit"))
	return b.String()
}

// runChat starts the interactive chat interface.
func runChat() error {
	store, err := openStore()
	if err != nil {
		return err
	}
	a := assistant.New(store, newLLMClient(), newSpeaker(false))

	// Hot-reload data while chatting so a scrape in another terminal is
	// picked up without restarting.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Data.WatchReload {
		go func() {
			if err := store.Watch(ctx, a.RefreshMatcher); err != nil && ctx.Err() == nil {
				logging.Get(logging.CategoryData).Warn("data watcher stopped: %v", err)
			}
		}()
	}

	p := tea.NewProgram(initChat(a), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat interface error: %w", err)
	}
	return nil
}
