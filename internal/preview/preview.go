// Package preview renders the weather particle animation in the terminal so
// the effect for each category can be inspected without a browser.
package preview

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/eru038/Weather-BGM-Player/internal/animation"
	"github.com/eru038/Weather-BGM-Player/internal/weather"
)

// categoryKeys maps number keys to weather categories.
var categoryKeys = map[string]weather.Category{
	"1": weather.Rain,
	"2": weather.Snow,
	"3": weather.Clear,
	"4": weather.Clouds,
	"5": weather.Default,
}

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("24")).
			Padding(0, 1)
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Padding(0, 1)
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(animation.DefaultFrameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the terminal preview application state.
type Model struct {
	surface  *cellSurface
	ctrl     *animation.Controller
	category weather.Category
	width    int
	height   int
}

// NewModel creates a preview starting on the given category.
func NewModel(category weather.Category) *Model {
	surface := newCellSurface(0, 0)
	return &Model{
		surface:  surface,
		ctrl:     animation.New(surface),
		category: category,
	}
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if key == "q" || key == "ctrl+c" {
			m.ctrl.Stop()
			return m, tea.Quit
		}
		if cat, ok := categoryKeys[key]; ok && cat != m.category {
			m.category = cat
			m.ctrl.SetCategory(cat)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Reserve two rows for the status and help lines.
		canvasHeight := msg.Height - 2
		m.surface.Resize(msg.Width, canvasHeight)

		// Respawn so the particle batch fits the new bounds.
		m.ctrl.Stop()
		m.ctrl.SetCategory(m.category)
		return m, nil

	case tickMsg:
		return m, tick()
	}

	return m, nil
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "starting..."
	}

	status := statusStyle.Render(fmt.Sprintf("weather: %s", m.category))
	help := helpStyle.Render("1 rain · 2 snow · 3 clear · 4 clouds · 5 default · q quit")

	return m.surface.Snapshot() + "\n" + status + help
}

// Run starts the preview and blocks until the user quits.
func Run(category weather.Category) error {
	p := tea.NewProgram(NewModel(category), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running preview: %w", err)
	}
	return nil
}
