package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	praatscript "github.com/robbyt/go-praatscript"
	"github.com/robbyt/go-praatscript/engines/praat/commands"
	"github.com/robbyt/go-praatscript/options"
	"github.com/robbyt/go-praatscript/platform/session"
)

var (
	accentColor    = lipgloss.Color("#2563EB")
	successColor   = lipgloss.Color("#059669")
	errorColor     = lipgloss.Color("#DC2626")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#D97706")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

const (
	prompt             = "praat> "
	continuationPrompt = "   ... "
)

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	textInput  textinput.Model
	sess       *session.Session
	logHandler slog.Handler

	// pending holds the lines of a block that is not closed yet.
	pending []string
	depth   int

	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	showVars    bool
	quitting    bool
	initialized bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
	Tab   key.Binding
	CtrlV key.Binding
	CtrlK key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous line"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next line"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "run"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "complete command"),
	),
	CtrlV: key.NewBinding(
		key.WithKeys("ctrl+v"),
		key.WithHelp("ctrl+v", "toggle vars"),
	),
	CtrlK: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "toggle help"),
	),
}

func newREPLModel(logHandler slog.Handler) replModel {
	ti := textinput.New()
	ti.Placeholder = "type a statement..."
	ti.Focus()
	ti.CharLimit = 1000
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = prompt

	if logHandler == nil {
		logHandler = slog.NewTextHandler(io.Discard, nil)
	}

	return replModel{
		textInput:  ti,
		sess:       session.New(session.WithInfoWriter(io.Discard)),
		logHandler: logHandler,
		history:    make([]historyEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = make([]historyEntry, 0)
			return m, nil

		case key.Matches(msg, keys.CtrlV):
			m.showVars = !m.showVars
			return m, nil

		case key.Matches(msg, keys.CtrlK):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Tab):
			m = m.handleAutocomplete()
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}
			m.textInput.SetValue("")
			m.historyIdx = -1

			if strings.HasPrefix(input, ":") && len(m.pending) == 0 {
				return m.handleCommand(input)
			}

			m.cmdHistory = append(m.cmdHistory, input)
			m = m.feed(input)
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// feed adds one line. Lines that open a block are held until the block is
// closed, then the whole block runs as one script.
func (m replModel) feed(line string) replModel {
	m.depth += blockDelta(line)
	m.pending = append(m.pending, line)
	if m.depth > 0 {
		m.textInput.Prompt = continuationPrompt
		return m
	}

	source := strings.Join(m.pending, "\n")
	m.pending = nil
	m.depth = 0
	m.textInput.Prompt = prompt

	output, isErr := m.evaluate(source)
	m.history = append(m.history, historyEntry{input: source, output: output, isErr: isErr})
	return m
}

// blockDelta is +1 for a line opening a block and -1 for one closing it.
func blockDelta(line string) int {
	word, _, _ := strings.Cut(strings.TrimSpace(line), " ")
	switch word {
	case "for", "while", "if", "repeat":
		return 1
	case "endfor", "endwhile", "endif", "until":
		return -1
	}
	return 0
}

func (m replModel) evaluate(source string) (string, bool) {
	resp, err := praatscript.Run(context.Background(), source+"\n", nil,
		options.WithLogHandler(m.logHandler),
		options.WithSession(m.sess),
		options.WithCaptureOutput(true),
	)
	if err != nil {
		return err.Error(), true
	}
	out, _ := resp.Output()
	out = strings.TrimSuffix(out, "\n")
	if out == "" {
		if sel := resp.Objects(); len(sel) > 0 {
			return "selected: " + handleList(sel), false
		}
		return "ok", false
	}
	return out, false
}

func handleList(handles []session.Handle) string {
	parts := make([]string, len(handles))
	for i, h := range handles {
		parts[i] = h.String()
	}
	return strings.Join(parts, ", ")
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = make([]historyEntry, 0)
	case ":vars", ":v":
		m.showVars = !m.showVars
	case ":objects", ":o":
		output := "no objects"
		if objs := m.sess.Workspace().Objects(); len(objs) > 0 {
			output = handleList(objs)
		}
		m.history = append(m.history, historyEntry{input: input, output: output})
	case ":reset", ":r":
		m.sess.Reset()
		m.history = append(m.history, historyEntry{input: input, output: "Session reset"})
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("Unknown command: %s", cmd),
			isErr:  true,
		})
	}
	return m, nil
}

// handleAutocomplete completes command names and variables from the text
// typed so far.
func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	if input == "" {
		return m
	}

	var completions []string
	for _, name := range commands.Default().Names() {
		if strings.HasPrefix(name, input) {
			completions = append(completions, name)
		}
	}
	words := strings.Fields(input)
	last := words[len(words)-1]
	for _, name := range m.userVariables() {
		if strings.HasPrefix(name, last) {
			completions = append(completions, strings.TrimSuffix(input, last)+name)
		}
	}

	switch {
	case len(completions) == 1:
		m.textInput.SetValue(completions[0])
		m.textInput.CursorEnd()
	case len(completions) > 1:
		m.history = append(m.history, historyEntry{
			output: "Completions: " + strings.Join(completions, ", "),
		})
	}
	return m
}

// userVariables lists the session's variables other than the ambient ones.
func (m replModel) userVariables() []string {
	ambient := session.AmbientNames()
	var names []string
	for _, name := range m.sess.Scope().Names() {
		if !slices.Contains(ambient, name) {
			names = append(names, name)
		}
	}
	return names
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render("Praat script REPL") + " " + mutedStyle.Render(session.PraatVersion) + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", max(0, min(m.width-2, 60)))) + "\n\n")

	reservedLines := 8
	if m.showHelp {
		reservedLines += 12
	}
	if m.showVars {
		reservedLines += len(m.userVariables()) + 3
	}
	availableHeight := max(m.height-reservedLines, 1)

	historyStart := 0
	if len(m.history) > availableHeight {
		historyStart = len(m.history) - availableHeight
	}

	for _, entry := range m.history[historyStart:] {
		if entry.input != "" {
			for _, line := range strings.Split(entry.input, "\n") {
				b.WriteString(mutedStyle.Render("  › ") + line + "\n")
			}
		}
		if entry.isErr {
			b.WriteString("  " + errorStyle.Render("✗ "+entry.output) + "\n")
		} else {
			b.WriteString("  " + resultStyle.Render("→ "+entry.output) + "\n")
		}
		b.WriteString("\n")
	}

	if m.showVars {
		b.WriteString(m.renderVarsPanel())
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(renderHelpPanel())
		b.WriteString("\n")
	}

	for _, line := range m.pending {
		b.WriteString(mutedStyle.Render("  … ") + line + "\n")
	}
	b.WriteString(m.textInput.View() + "\n\n")

	footer := helpKeyStyle.Render("ctrl+k") + helpDescStyle.Render(" help  ") +
		helpKeyStyle.Render("ctrl+v") + helpDescStyle.Render(" vars  ") +
		helpKeyStyle.Render("ctrl+l") + helpDescStyle.Render(" clear  ") +
		helpKeyStyle.Render("ctrl+c") + helpDescStyle.Render(" quit")
	b.WriteString(footer)

	return b.String()
}

func (m replModel) renderVarsPanel() string {
	names := m.userVariables()
	if len(names) == 0 {
		return borderStyle.Render(mutedStyle.Render("No variables defined"))
	}

	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Variables")}
	varNameStyle := lipgloss.NewStyle().Foreground(highlightColor)
	for _, name := range names {
		v, _ := m.sess.Scope().Lookup(name)
		lines = append(lines, fmt.Sprintf("  %s = %s", varNameStyle.Render(name), strings.ReplaceAll(v.Text(), "\n", " ")))
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}

func renderHelpPanel() string {
	help := []struct {
		key  string
		desc string
	}{
		{"↑/↓", "Navigate line history"},
		{"Tab", "Complete command or variable"},
		{"Enter", "Run the line (blocks run when closed)"},
		{":help", "Toggle this help"},
		{":vars", "Toggle variables panel"},
		{":objects", "List the objects in the session"},
		{":clear", "Clear history"},
		{":reset", "Remove all objects and variables"},
		{":quit", "Exit REPL"},
	}

	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help")}
	for _, h := range help {
		lines = append(lines, fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-9s", h.key)),
			helpDescStyle.Render(h.desc)))
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}

func runREPL(logOutput io.Writer) error {
	handler := slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: slog.LevelError})
	p := tea.NewProgram(newREPLModel(handler), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
