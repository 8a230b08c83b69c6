// Package repl implements the Read-Eval-Print Loop for alma.
//
// The REPL provides an interactive interface for entering alma word
// sequences and function definitions one line at a time, evaluating them
// against a single persistent interpreter instance, and rendering the
// live operand stack after every line. It uses the Charm libraries
// (Bubbletea, Bubbles, and Lipgloss) to build a modern terminal
// interface, the same stack the teacher repository's REPL is built on —
// adapted here from rendering one expression's value to rendering the
// whole concatenative stack, command history, and compile/runtime
// diagnostics.
package repl

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cassowary2/alma/diag"
	"github.com/cassowary2/alma/interp"
	"github.com/cassowary2/alma/lexer"
	"github.com/cassowary2/alma/token"
)

// tokenize lexes input into a slice of tokens (including EOF), used by
// isBalanced, looksLikeDefinition, and highlight — none of which need a
// full parse, only the token stream.
func tokenize(input string) []token.Token {
	l := lexer.New(input)
	var toks []token.Token
	for {
		tk := l.NextToken()
		toks = append(toks, tk)
		if tk.Type == token.EOF {
			return toks
		}
	}
}

const (
	// Prompt is the default prompt for the REPL.
	Prompt = "alma> "

	// ContPrompt is the continuation prompt used when an input line has
	// unbalanced brackets.
	ContPrompt = "   .. "
)

// Options configures a REPL session.
type Options struct {
	NoColor bool // Disable syntax highlighting and colored output.
	Debug   bool // Show refcount-ledger balance after each evaluation.
}

// Start initializes and runs the REPL against a fresh interpreter
// instance.
func Start(username string, options Options) {
	p := tea.NewProgram(initialModel(username, options))
	if _, err := p.Run(); err != nil {
		fmt.Println("Error running program:", err)
	}
}

// Styling
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	stackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	parseErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")).
			Bold(true)

	runtimeErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF8700")).
				Bold(true)

	historyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))

	keywordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF79C6")).
			Bold(true)

	identifierStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2"))

	literalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FA8C"))

	delimiterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BD93F9"))

	stringStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B"))
)

// errKind classifies an errored history entry for styling purposes.
type errKind int

const (
	noErr errKind = iota
	parseErr
	runtimeErr
)

type evalResultMsg struct {
	stackLine string
	err       string
	kind      errKind
	live      int64
	elapsed   time.Duration
}

type historyEntry struct {
	input     string
	stackLine string
	err       string
	kind      errKind
	live      int64
	elapsed   time.Duration
}

type model struct {
	textInput textinput.Model
	spinner   spinner.Model
	history   []historyEntry

	ip       *interp.Interp
	username string
	options  Options

	evaluating      bool
	currentInput    string
	multilineBuffer string
	isMultiline     bool
}

func (m model) applyStyle(style lipgloss.Style, text string) string {
	if m.options.NoColor {
		return text
	}
	return style.Render(text)
}

func initialModel(username string, options Options) model {
	ti := textinput.New()
	ti.Placeholder = "4 5 +"
	ti.Focus()
	ti.Width = 80
	ti.Prompt = promptStyle.Render(Prompt)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6"))

	return model{
		textInput: ti,
		spinner:   s,
		ip:        interp.New(),
		username:  username,
		options:   options,
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// isBalanced reports whether input's brackets, parens, and let/in/end
// keywords are closed — the REPL's cue to keep buffering lines instead
// of evaluating a partial quotation or let form.
func isBalanced(input string) bool {
	depth := 0
	letDepth := 0
	toks := tokenize(input)
	for _, tk := range toks {
		switch tk.Type {
		case token.LBRACKET, token.LPAREN:
			depth++
		case token.RBRACKET, token.RPAREN:
			depth--
		case token.LET:
			letDepth++
		case token.END:
			letDepth--
		}
	}
	return depth <= 0 && letDepth <= 0
}

// evalCmd evaluates input against the shared interpreter asynchronously,
// the way the teacher's evalCmd drives its own evaluator off the UI
// thread so the spinner keeps animating on longer runs.
func evalCmd(ip *interp.Interp, input string, debug bool) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()

		// A bare top-level definition (`name = [ ... ]`) is loaded into
		// the interpreter's scope rather than evaluated as a sequence;
		// anything else is treated as a word sequence run against the
		// live stack.
		var msg evalResultMsg
		if looksLikeDefinition(input) {
			diags := ip.LoadInteractive("<repl>", input)
			switch {
			case diag.HasErrors(diags):
				msg = evalResultMsg{err: formatDiagnostics(diags), kind: parseErr}
			case len(diags) > 0:
				msg = evalResultMsg{stackLine: renderStack(ip) + "\n" + formatDiagnostics(diags)}
			default:
				msg = evalResultMsg{stackLine: renderStack(ip)}
			}
		} else {
			diags, err := ip.EvalLine(input)
			switch {
			case len(diags) > 0:
				msg = evalResultMsg{err: formatDiagnostics(diags), kind: parseErr}
			case err != nil:
				msg = evalResultMsg{err: err.Error(), kind: runtimeErr}
			default:
				msg = evalResultMsg{stackLine: renderStack(ip)}
			}
		}

		msg.elapsed = time.Since(start)
		if debug {
			msg.live = ip.Live()
		}
		return msg
	}
}

// looksLikeDefinition reports whether input is a top-level `name = [
// ... ]` definition or an `import` statement, rather than a bare word
// sequence — the REPL's dispatch point between LoadInteractive and
// EvalLine.
func looksLikeDefinition(input string) bool {
	toks := tokenize(input)
	if len(toks) >= 1 && toks[0].Type == token.IMPORT {
		return true
	}
	return len(toks) >= 2 && toks[0].Type == token.IDENT && toks[1].Type == token.ASSIGN
}

func renderStack(ip *interp.Interp) string {
	s := ip.Stack()
	n := s.Size()
	if n == 0 {
		return "(empty stack)"
	}
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		v, ok := s.Peek(n - 1 - i)
		if !ok {
			continue
		}
		parts[i] = v.Inspect()
	}
	return strings.Join(parts, " ")
}

func formatDiagnostics(diags []diag.Diagnostic) string {
	lines := make([]string, len(diags))
	for i, d := range diags {
		if d.Line > 0 {
			lines[i] = fmt.Sprintf("%s: line %d: %s", d.Severity, d.Line, d.Message)
		} else {
			lines[i] = fmt.Sprintf("%s: %s", d.Severity, d.Message)
		}
	}
	return strings.Join(lines, "\n")
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.evaluating {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case evalResultMsg:
		m.evaluating = false
		m.history = append(m.history, historyEntry{
			input:     m.currentInput,
			stackLine: msg.stackLine,
			err:       msg.err,
			kind:      msg.kind,
			live:      msg.live,
			elapsed:   msg.elapsed,
		})
		m.currentInput = ""
		return m, nil

	case tea.KeyMsg:
		if m.evaluating && msg.Type != tea.KeyCtrlC {
			return m, m.spinner.Tick
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			m.ip.Close()
			return m, tea.Quit
		case tea.KeyEnter:
			input := m.textInput.Value()
			if input == "" {
				if m.isMultiline {
					if m.multilineBuffer == "" {
						m.isMultiline = false
						return m, nil
					}
					return m.startEval(m.multilineBuffer)
				}
				return m, nil
			}

			if m.isMultiline {
				m.multilineBuffer += "\n" + input
				m.textInput.SetValue("")
				if isBalanced(m.multilineBuffer) {
					return m.startEval(m.multilineBuffer)
				}
				return m, nil
			}

			if !isBalanced(input) {
				m.isMultiline = true
				m.multilineBuffer = input
				m.textInput.SetValue("")
				return m, nil
			}

			return m.startEval(input)
		}
	}

	if !m.evaluating {
		m.textInput, cmd = m.textInput.Update(msg)
	}
	if m.evaluating {
		return m, m.spinner.Tick
	}
	return m, cmd
}

// startEval transitions into the evaluating state and kicks off evalCmd
// for buffer, clearing whatever multiline state led here.
func (m model) startEval(buffer string) (tea.Model, tea.Cmd) {
	m.evaluating = true
	m.currentInput = buffer
	m.textInput.SetValue("")
	m.isMultiline = false
	m.multilineBuffer = ""
	return m, evalCmd(m.ip, buffer, m.options.Debug)
}

// View implements tea.Model.
func (m model) View() string {
	var s strings.Builder

	s.WriteString(m.applyStyle(titleStyle, " alma REPL "))
	s.WriteString("\n")
	if m.username != "" {
		s.WriteString(fmt.Sprintf("\nHello %s! Enter word sequences or `name = [ ... ]` definitions.\n", m.username))
	}
	s.WriteString("\n")

	for _, entry := range m.history {
		for i, line := range strings.Split(entry.input, "\n") {
			if i == 0 {
				s.WriteString(m.applyStyle(promptStyle, Prompt))
			} else {
				s.WriteString(m.applyStyle(promptStyle, ContPrompt))
			}
			s.WriteString(m.highlight(line))
			s.WriteString("\n")
		}

		switch entry.kind {
		case parseErr:
			s.WriteString(m.applyStyle(parseErrorStyle, entry.err))
		case runtimeErr:
			s.WriteString(m.applyStyle(runtimeErrorStyle, entry.err))
		default:
			s.WriteString(m.applyStyle(stackStyle, entry.stackLine))
		}

		if m.options.Debug {
			s.WriteString(m.applyStyle(historyStyle, fmt.Sprintf("  (live: %d)", entry.live)))
		}
		if entry.elapsed > 10*time.Millisecond {
			s.WriteString(m.applyStyle(historyStyle, fmt.Sprintf(" (%.2fs)", entry.elapsed.Seconds())))
		}
		s.WriteString("\n\n")
	}

	if m.evaluating {
		s.WriteString(m.applyStyle(promptStyle, Prompt))
		s.WriteString(m.highlight(m.currentInput))
		s.WriteString("\n")
		s.WriteString(m.spinner.View())
		s.WriteString(" evaluating...\n\n")
	}

	if m.isMultiline && !m.evaluating {
		s.WriteString(m.applyStyle(historyStyle, "Current multiline input:\n"))
		s.WriteString(m.highlight(m.multilineBuffer))
		s.WriteString("\n")
	}

	if !m.evaluating {
		if m.isMultiline {
			m.textInput.Prompt = m.applyStyle(promptStyle, ContPrompt)
		} else {
			m.textInput.Prompt = m.applyStyle(promptStyle, Prompt)
		}
		s.WriteString(m.textInput.View())
		s.WriteString("\n")
	}

	help := "\nPress Esc or Ctrl+C/D to exit | unbalanced brackets continue onto the next line"
	s.WriteString(m.applyStyle(historyStyle, help))

	return s.String()
}

// highlight renders line with alma's token classes colorized, mirroring
// the teacher's highlightCode but driven by package token/lexer instead
// of a hand-maintained keyword/operator table.
func (m model) highlight(line string) string {
	if m.options.NoColor || line == "" {
		return line
	}
	var out strings.Builder
	for _, tk := range tokenize(line) {
		switch tk.Type {
		case token.LET, token.IN, token.END, token.IMPORT, token.AS:
			out.WriteString(keywordStyle.Render(tk.Literal))
		case token.LBRACKET, token.RBRACKET, token.LPAREN, token.RPAREN, token.COMMA, token.ARROW, token.ASSIGN:
			out.WriteString(delimiterStyle.Render(tk.Literal))
		case token.INT, token.FLOAT:
			out.WriteString(literalStyle.Render(tk.Literal))
		case token.STRING, token.CHAR, token.SYMBOL:
			out.WriteString(stringStyle.Render(tk.Literal))
		case token.IDENT:
			out.WriteString(identifierStyle.Render(tk.Literal))
		default:
			out.WriteString(tk.Literal)
		}
		out.WriteString(" ")
	}
	return strings.TrimRight(out.String(), " ")
}
