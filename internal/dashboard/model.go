package dashboard

import (
	"encoding/hex"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/toshiba-abbus/acprocessor/internal/acmodel"
)

const maxLogLines = 200

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// model is the bubbletea program's state: a scrolling raw-frame/state-change
// log on the left, a live status snapshot on the right.
type model struct {
	width, height int

	lines  []string
	status acmodel.Model
	have   bool
}

func newModel() model {
	return model{}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
		return m, nil

	case frameMsg:
		m.appendLine(fmt.Sprintf("%-3s %s", strings.ToUpper(msg.direction), hex.EncodeToString(msg.data)))
		return m, nil

	case stateMsg:
		m.appendLine(fmt.Sprintf("--- state: %s ---", msg.name))
		return m, nil

	case statusMsg:
		m.status = msg.model
		m.have = true
		return m, nil
	}
	return m, nil
}

func (m *model) appendLine(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > maxLogLines {
		m.lines = m.lines[len(m.lines)-maxLogLines:]
	}
}

func (m model) View() string {
	rawHeight := 16
	if m.height > 0 {
		rawHeight = m.height - 4
	}

	start := 0
	if len(m.lines) > rawHeight {
		start = len(m.lines) - rawHeight
	}
	raw := titleStyle.Render("packets") + "\n" + strings.Join(m.lines[start:], "\n")

	state := titleStyle.Render("status") + "\n" + m.statusText()

	left := borderStyle.Width(50).Height(rawHeight + 1).Render(raw)
	right := borderStyle.Width(36).Height(rawHeight + 1).Render(state)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m model) statusText() string {
	if !m.have {
		return "waiting for first broadcast..."
	}
	md := m.status
	_, modeLabel, _ := acmodel.BitsToText(acmodel.ModeTable, md.Mode)
	_, fanLabel, _ := acmodel.BitsToText(acmodel.FanTable, md.FanLv)
	_, saveLabel, _ := acmodel.BitsToText(acmodel.SaveTable, md.Save)

	lines := []string{
		fmt.Sprintf("power:    %v", md.Power),
		fmt.Sprintf("mode:     %s", modeLabel),
		fmt.Sprintf("fan:      %s", fanLabel),
		fmt.Sprintf("setpoint: %d", md.Temp1),
		fmt.Sprintf("temp:     %d", md.Temp2),
		fmt.Sprintf("save:     %s", saveLabel),
		fmt.Sprintf("humid:    %v", md.Humid),
		fmt.Sprintf("clean:    %v", md.Clean),
		fmt.Sprintf("filter:   %v", md.Filter),
		fmt.Sprintf("vent:     %v", md.Vent),
		fmt.Sprintf("pwr lv:   %d/%d", md.PwrLv1, md.PwrLv2),
		fmt.Sprintf("filter hrs: %d", md.FilterTime),
	}
	return strings.Join(lines, "\n")
}
