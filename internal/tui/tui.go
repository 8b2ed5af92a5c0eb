package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"quiz-arena/internal/app"
	"quiz-arena/internal/domain"
)

type sessionState int

const (
	stateMenu sessionState = iota
	statePlaying
	stateHistory
)

const (
	tickInterval = 100 * time.Millisecond
	volumeStep   = 0.1
)

type menuEntry struct {
	label string
	mode  domain.Mode
}

var menu = []menuEntry{
	{label: "Classic", mode: domain.ModeClassic},
	{label: "Time Attack", mode: domain.ModeTimeAttack},
	{label: "Boss Rush", mode: domain.ModeBossRush},
	{label: "History"},
	{label: "Quit"},
}

type model struct {
	ctx        context.Context
	state      sessionState
	game       *app.Game
	screen     *Screen
	bar        progress.Model
	cursor     int
	difficulty int
	last       time.Time
	err        error
	width      int
	height     int
}

type tickMsg time.Time

func NewModel(ctx context.Context, game *app.Game) model {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40
	screen := NewScreen()
	screen.Volume = game.Settings().Volume()
	return model{
		ctx:    ctx,
		state:  stateMenu,
		game:   game,
		screen: screen,
		bar:    bar,
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.game.Abandon()
			return m, tea.Quit
		}
		switch msg.String() {
		case "+", "=":
			m.apply(m.game.Settings().SetVolume(m.game.Settings().Volume() + volumeStep))
			return m, nil
		case "-":
			m.apply(m.game.Settings().SetVolume(m.game.Settings().Volume() - volumeStep))
			return m, nil
		}
		switch m.state {
		case stateMenu:
			return m.updateMenu(msg)
		case statePlaying:
			return m.updatePlaying(msg)
		case stateHistory:
			if msg.Type == tea.KeyEsc || msg.String() == "q" || msg.Type == tea.KeyEnter {
				m.screen.Apply([]domain.Command{domain.LoadScreen(domain.ScreenTitle)})
				m.state = stateMenu
			}
		}

	case tickMsg:
		now := time.Time(msg)
		if !m.last.IsZero() && m.state == statePlaying {
			m.apply(m.game.Advance(now.Sub(m.last))...)
		}
		m.last = now
		return m, tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(60, max(10, msg.Width-20))
	}

	return m, nil
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(menu)-1 {
			m.cursor++
		}
	case "left", "h":
		if m.difficulty > 0 {
			m.difficulty--
		}
	case "right", "l":
		if m.difficulty < len(domain.Difficulties)-1 {
			m.difficulty++
		}
	case "q", "esc":
		return m, tea.Quit
	case "enter", " ":
		entry := menu[m.cursor]
		switch {
		case entry.mode != "":
			m.do(m.game.Play(m.ctx, entry.mode, domain.Difficulties[m.difficulty]))
		case entry.label == "History":
			m.state = stateHistory
		default:
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) updatePlaying(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case len(key) == 1 && key[0] >= '1' && key[0] < '1'+domain.OptionCount:
		m.apply(m.game.Submit(int(key[0] - '1'))...)
	case key == "r" && m.screen.Visible[domain.NodeRestartButton]:
		m.do(m.game.Restart(m.ctx))
	case key == "p" && m.screen.Visible[domain.NodeProceedButton]:
		m.do(m.game.Proceed(m.ctx))
	case key == "m" && m.screen.Visible[domain.NodeMenuButton], key == "esc":
		m.apply(m.game.Abandon()...)
	}
	return m, nil
}

func (m *model) do(cmds []domain.Command, err error) {
	m.err = err
	if err != nil {
		return
	}
	m.apply(cmds...)
}

// apply renders commands into the screen and follows screen changes.
func (m *model) apply(cmds ...domain.Command) {
	m.screen.Apply(cmds)
	switch {
	case m.screen.Name == domain.ScreenResults:
		m.state = stateHistory
	case m.screen.InGame():
		m.state = statePlaying
		m.err = nil
	case m.state == statePlaying:
		m.state = stateMenu
	}
}

func (m model) View() string {
	var s string
	switch m.state {
	case stateMenu:
		s = m.renderMenu()
	case statePlaying:
		s = m.renderGame()
	case stateHistory:
		s = m.renderHistory()
	}
	if m.err != nil {
		s += "\n\n" + errorStyle.Render("Error: "+m.err.Error())
	}
	return "\n" + s + "\n"
}

func (m model) renderMenu() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("QUIZ ARENA") + "\n\n")
	for i, e := range menu {
		label := e.label
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> "+label) + "\n")
			continue
		}
		b.WriteString(optionStyle.Render(label) + "\n")
	}
	b.WriteString("\nDifficulty: ")
	for i, d := range domain.Difficulties {
		if i == m.difficulty {
			b.WriteString(selectedStyle.Render(string(d)) + " ")
			continue
		}
		b.WriteString(string(d) + " ")
	}
	b.WriteString("\n\n" + helpStyle.Render(fmt.Sprintf("↑/↓ choose, ←/→ difficulty, enter play, +/- volume (%.0f%%), q quit", m.screen.Volume*100)))
	return b.String()
}

func (m model) renderGame() string {
	snap := m.game.Snapshot()
	var main string
	if m.screen.Visible[domain.NodeGameOverPanel] {
		main = m.renderGameOver()
	} else {
		main = m.renderQuestion(snap)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, main, m.renderStatus(snap))
}

func (m model) renderQuestion(snap app.Snapshot) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.screen.Texts[domain.FieldQuestionNumber]) + "\n\n")
	b.WriteString(questionStyle.Render(m.screen.Texts[domain.FieldQuestion]) + "\n")
	for i := 0; i < domain.OptionCount; i++ {
		ctrl := domain.AnswerControl(i)
		line := fmt.Sprintf("%d. %s", i+1, m.screen.Texts[ctrl])
		switch {
		case m.screen.Colors[ctrl] == domain.ColorCorrect:
			b.WriteString(correctStyle.Render(line))
		case m.screen.Colors[ctrl] == domain.ColorWrong:
			b.WriteString(wrongStyle.Render(line))
		case !m.screen.Enabled[ctrl]:
			b.WriteString(disabledStyle.Render(line))
		default:
			b.WriteString(optionStyle.Render(line))
		}
		b.WriteString("\n")
	}
	if snap.Total > 0 {
		b.WriteString("\n" + m.bar.ViewAs(float64(snap.Answered)/float64(snap.Total)) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("1-4 answer, esc back to menu"))
	return b.String()
}

func (m model) renderGameOver() string {
	var b strings.Builder
	switch {
	case m.screen.Visible[domain.NodeSuccessText]:
		b.WriteString(successStyle.Render("Well done!") + "\n\n")
	case m.screen.Visible[domain.NodeFailText]:
		b.WriteString(failStyle.Render("Better luck next time.") + "\n\n")
	}
	b.WriteString(m.screen.Texts[domain.FieldFinalScore] + "\n")
	b.WriteString(m.screen.Texts[domain.FieldTotalScore] + "\n\n")

	var keys []string
	if m.screen.Visible[domain.NodeRestartButton] {
		keys = append(keys, "r restart")
	}
	if m.screen.Visible[domain.NodeProceedButton] {
		keys = append(keys, "p proceed")
	}
	if m.screen.Visible[domain.NodeMenuButton] {
		keys = append(keys, "m menu")
	}
	b.WriteString(helpStyle.Render(strings.Join(keys, ", ")))
	return b.String()
}

func (m model) renderStatus(snap app.Snapshot) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(strings.ToUpper(string(snap.Mode))) + "\n")
	if snap.Stage > 0 {
		b.WriteString(domain.StageLabel(snap.Stage) + "\n")
	} else if snap.Difficulty != "" {
		b.WriteString(string(snap.Difficulty) + "\n")
	}
	b.WriteString("\n" + m.screen.Texts[domain.FieldScore] + "\n")
	if t := m.screen.Texts[domain.FieldTimer]; t != "" && snap.Mode == domain.ModeTimeAttack {
		b.WriteString(t + "\n")
	}
	if snap.Mode == domain.ModeBossRush {
		b.WriteString("You: " + m.screen.Texts[domain.FieldPlayerHealth] + "\n")
		b.WriteString("Boss: " + m.screen.Texts[domain.FieldEnemyHealth] + "\n")
	}
	if fx := m.screen.LastEffect(); fx != "" {
		b.WriteString("\n♪ " + fx + "\n")
	}
	return statusStyle.Render(b.String())
}

func (m model) renderHistory() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("HISTORY") + "\n\n")
	all := m.game.History().All()
	for _, key := range app.HistoryKeys {
		results := all[key]
		b.WriteString(questionStyle.UnsetMarginBottom().Render(key) + "\n")
		if len(results) == 0 {
			b.WriteString(disabledStyle.Render("no games yet") + "\n\n")
			continue
		}
		for _, r := range results {
			b.WriteString(optionStyle.Render(fmt.Sprintf("%s  %-8s score %-5d %d/%d",
				r.Timestamp, r.Difficulty, r.Score, r.CorrectAnswers, r.TotalQuestions)) + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("esc back"))
	return b.String()
}

// Run starts the terminal UI and blocks until the player quits.
func Run(ctx context.Context, game *app.Game) error {
	p := tea.NewProgram(NewModel(ctx, game), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
