package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	searchHighlight = lipgloss.NewStyle().
			Background(lipgloss.Color("228")). // yellow
			Foreground(lipgloss.Color("0"))    // black

	currentMatchHighlight = lipgloss.NewStyle().
				Background(lipgloss.Color("196")). // red
				Foreground(lipgloss.Color("15"))   // white

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			PaddingLeft(2)
)

// searchState tracks matches by line. Lines holding a match are redrawn from
// their plain text so highlights do not fight the renderer's own styling.
type searchState struct {
	active  bool
	input   textinput.Model
	re      *regexp.Regexp
	matches []int
	current int
}

// pagerModel represents the state for the pager UI
type pagerModel struct {
	viewport viewport.Model
	lines    []string
	plain    []string
	ready    bool
	search   searchState
}

// NewPager creates a new pager model with the given content
func NewPager(content string) *pagerModel {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	lines := strings.Split(content, "\n")
	plain := make([]string, len(lines))
	for i, l := range lines {
		plain[i] = ansi.Strip(l)
	}
	return &pagerModel{
		lines:  lines,
		plain:  plain,
		search: searchState{input: ti},
	}
}

// Init initializes the pager model
func (m *pagerModel) Init() tea.Cmd {
	return nil
}

// Update handles user input and updates the model state
func (m *pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.search.active {
			return m.updateSearchInput(msg)
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.clearSearch()
		case "f", "pagedown", " ":
			m.viewport.PageDown()
			return m, nil
		case "b", "pageup":
			m.viewport.PageUp()
			return m, nil
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		case "/":
			m.search.active = true
			m.search.input.Focus()
			return m, textinput.Blink
		case "n":
			m.step(1)
			return m, nil
		case "N":
			m.step(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-2)
			m.viewport.Style = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				PaddingLeft(2).
				PaddingRight(2)
			m.refresh()
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 2
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *pagerModel) updateSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.search.active = false
		m.search.input.Reset()
		m.clearSearch()
	case tea.KeyEnter:
		m.search.active = false
		m.runSearch(m.search.input.Value())
	default:
		var cmd tea.Cmd
		m.search.input, cmd = m.search.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the current state of the model
func (m *pagerModel) View() string {
	if !m.ready {
		return "\nInitializing..."
	}

	var help string
	if m.search.active {
		help = m.search.input.View()
	} else {
		search := "/ search • n next • N previous • q quit"
		if n := len(m.search.matches); n > 0 {
			search = fmt.Sprintf("/ search (%d/%d) • n next • N previous • esc clear • q quit", m.search.current+1, n)
		}
		help = helpStyle.Render("↑/k ↓/j scroll • space/f b page • g/G top/bottom • " + search)
	}
	return m.viewport.View() + "\n" + help
}

func (m *pagerModel) runSearch(query string) {
	m.search.re = searchPattern(query)
	m.search.matches = findMatches(m.plain, m.search.re)
	m.search.current = 0

	// start from the first match on screen or below it
	for i, line := range m.search.matches {
		if line >= m.viewport.YOffset {
			m.search.current = i
			break
		}
	}
	m.refresh()
	m.scrollToCurrent()
}

func (m *pagerModel) step(delta int) {
	n := len(m.search.matches)
	if n == 0 {
		return
	}
	m.search.current = ((m.search.current+delta)%n + n) % n
	m.refresh()
	m.scrollToCurrent()
}

func (m *pagerModel) clearSearch() {
	m.search.re = nil
	m.search.matches = nil
	m.search.current = 0
	m.refresh()
}

func (m *pagerModel) refresh() {
	if len(m.search.matches) == 0 {
		m.viewport.SetContent(strings.Join(m.lines, "\n"))
		return
	}

	out := make([]string, len(m.lines))
	copy(out, m.lines)
	for i, line := range m.search.matches {
		style := searchHighlight
		if i == m.search.current {
			style = currentMatchHighlight
		}
		out[line] = highlight(m.plain[line], m.search.re, style)
	}
	m.viewport.SetContent(strings.Join(out, "\n"))
}

func (m *pagerModel) scrollToCurrent() {
	if len(m.search.matches) == 0 {
		return
	}
	line := m.search.matches[m.search.current]
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case line >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

// searchPattern compiles query as a literal. Lowercase queries ignore case.
func searchPattern(query string) *regexp.Regexp {
	if query == "" {
		return nil
	}
	expr := regexp.QuoteMeta(query)
	if query == strings.ToLower(query) {
		expr = "(?i)" + expr
	}
	return regexp.MustCompile(expr)
}

// findMatches returns the indexes of the lines re matches
func findMatches(lines []string, re *regexp.Regexp) []int {
	if re == nil {
		return nil
	}
	var matches []int
	for i, l := range lines {
		if re.MatchString(l) {
			matches = append(matches, i)
		}
	}
	return matches
}

func highlight(line string, re *regexp.Regexp, style lipgloss.Style) string {
	return re.ReplaceAllStringFunc(line, func(s string) string {
		return style.Render(s)
	})
}

// RunPager starts the pager program with the given content
func RunPager(content string) error {
	p := tea.NewProgram(
		NewPager(content),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
