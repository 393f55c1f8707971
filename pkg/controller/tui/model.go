package tui

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/secmon-lab/resilio/pkg/domain/model"
	"github.com/secmon-lab/resilio/pkg/usecase"
)

const daysPerWeek = 7

// eventMsg carries a page event produced by a finished command
type eventMsg struct {
	event usecase.Event
}

// backMsg is sent once the page navigated back
type backMsg struct{}

// navigator ends the program when the page navigates back
type navigator struct {
	back atomic.Bool
}

// Back implements interfaces.Navigator
func (n *navigator) Back(ctx context.Context) error {
	n.back.Store(true)
	return nil
}

// Model is the bubbletea model of the statistics page. All page events are
// handled inside Update, so the page is only touched by the program loop.
type Model struct {
	ctx      context.Context
	page     *usecase.Page
	nav      *navigator
	location *time.Location

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	bar     progress.Model

	cursor int
	width  int
}

// NewModel creates the model of the workflow of agg. now fixes the
// selectable year window.
func NewModel(ctx context.Context, agg *usecase.Aggregator, now time.Time, loc *time.Location) Model {
	if loc == nil {
		loc = time.UTC
	}
	nav := &navigator{}
	return Model{
		ctx:      ctx,
		page:     usecase.NewPage(agg, nav, now),
		nav:      nav,
		location: loc,
		keys:     defaultKeyMap(),
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		bar:      progress.New(progress.WithSolidFill(string(bucketColors[len(bucketColors)-1])), progress.WithWidth(40)),
	}
}

// PageView returns the current page snapshot
func (m Model) PageView() model.PageView {
	return m.page.View()
}

// Cursor returns the index of the highlighted heatmap day
func (m Model) Cursor() int {
	return m.cursor
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.commands(m.page.Start(m.ctx)), m.spinner.Tick)
}

// commands turns page commands into bubbletea commands
func (m Model) commands(cmds []usecase.Command) tea.Cmd {
	var batch []tea.Cmd
	for _, cmd := range cmds {
		if cmd == nil {
			continue
		}
		batch = append(batch, func() tea.Msg {
			ev := cmd(m.ctx)
			if m.nav.back.Load() {
				return backMsg{}
			}
			if ev == nil {
				return nil
			}
			return eventMsg{event: ev}
		})
	}
	return tea.Batch(batch...)
}

func (m Model) handle(ev usecase.Event) (Model, tea.Cmd) {
	cmd := m.commands(m.page.Handle(m.ctx, ev))
	m.clampCursor()
	return m, cmd
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case eventMsg:
		return m.handle(msg.event)

	case backMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	// The never-run notice blocks every other interaction
	if m.page.NoRunsModalOpen() {
		if key.Matches(msg, m.keys.Deselect, m.keys.Select) {
			return m.handle(usecase.NoRunsAcknowledged{})
		}
		return m, nil
	}

	view := m.page.View()
	switch {
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1, len(view.Bins))
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1, len(view.Bins))
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-daysPerWeek, len(view.Bins))
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(daysPerWeek, len(view.Bins))

	case key.Matches(msg, m.keys.Select):
		if view.ViewMode != model.HeatmapView || m.cursor >= len(view.Bins) {
			return m, nil
		}
		bin := view.Bins[m.cursor]
		return m.handle(usecase.BinClicked{Bin: &bin})

	case key.Matches(msg, m.keys.Deselect):
		return m.handle(usecase.BinClicked{})

	case key.Matches(msg, m.keys.Table):
		if view.DetailTableOpen {
			return m.handle(usecase.TableClosed{})
		}
		return m.handle(usecase.TableOpened{})

	case key.Matches(msg, m.keys.PrevYear):
		return m.changeYear(view, 1)
	case key.Matches(msg, m.keys.NextYear):
		return m.changeYear(view, -1)
	}

	return m, nil
}

// changeYear moves step positions through the newest-first year options
func (m Model) changeYear(view model.PageView, step int) (tea.Model, tea.Cmd) {
	for i, year := range view.YearOptions {
		if year != view.Year {
			continue
		}
		next := i + step
		if next < 0 || next >= len(view.YearOptions) {
			return m, nil
		}
		m.cursor = 0
		return m.handle(usecase.YearChanged{Year: view.YearOptions[next]})
	}
	return m, nil
}

func (m *Model) moveCursor(delta, size int) {
	if size == 0 {
		return
	}
	next := m.cursor + delta
	if next < 0 || next >= size {
		return
	}
	m.cursor = next
}

func (m *Model) clampCursor() {
	size := len(m.page.View().Bins)
	if m.cursor >= size {
		m.cursor = max(size-1, 0)
	}
}

// View implements tea.Model
func (m Model) View() string {
	view := m.page.View()

	var sections []string
	sections = append(sections, m.renderHeader(view))

	if view.NoRunsModalOpen {
		sections = append(sections, modalStyle.Render(
			"This workflow has not run yet\n\n"+
				labelStyle.Render("Statistics are available once the workflow has been executed.")+"\n\n"+
				"press enter to go back"))
		return strings.Join(sections, "\n\n")
	}

	if view.ViewMode == model.TableView {
		sections = append(sections, m.renderRunTable(view))
	} else {
		sections = append(sections, m.renderHeatmap(view))
		if panel := m.renderDetail(view); panel != "" {
			sections = append(sections, panel)
		}
	}

	sections = append(sections, footerStyle.Render(m.help.View(m.keys)))
	return strings.Join(sections, "\n\n")
}

func (m Model) renderHeader(view model.PageView) string {
	name := view.WorkflowID.String()
	if view.WorkflowLoaded {
		name = view.WorkflowName
	}

	schedule := "-"
	if view.WorkflowLoaded {
		schedule = "Non cron"
		if view.CronSyntax != "" {
			schedule = view.CronSyntax
		}
	}

	runs := "-"
	if view.RunHistoryLoaded {
		runs = fmt.Sprintf("%d", view.TotalRuns)
	}

	info := lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render("Workflow ID ")+view.WorkflowID.String(),
		"   ",
		labelStyle.Render("Schedule ")+schedule,
		"   ",
		labelStyle.Render("Total runs ")+runs,
	)
	return titleStyle.Render(name) + "\n" + info
}

func (m Model) renderHeatmap(view model.PageView) string {
	header := fmt.Sprintf("Heatmap %d", view.Year)

	if view.HeatmapLoading {
		return panelStyle.Render(header + "\n\n" + m.spinner.View() + " Loading heatmap...")
	}

	rows := make([]strings.Builder, daysPerWeek)
	for i, bin := range view.Bins {
		glyph := cellGlyph
		style := cellStyle(bin.Bucket())
		if i == m.cursor {
			glyph = cursorGlyph
			style = style.Bold(true).Underline(true)
		}
		rows[i%daysPerWeek].WriteString(style.Render(glyph))
	}

	lines := []string{header, ""}
	for i := range rows {
		lines = append(lines, rows[i].String())
	}

	var legend strings.Builder
	legend.WriteString(labelStyle.Render("less "))
	for i := range model.ValueThresholds {
		legend.WriteString(cellStyle(i).Render(cellGlyph))
	}
	legend.WriteString(labelStyle.Render(" more"))
	lines = append(lines, "", legend.String())

	if m.cursor < len(view.Bins) {
		score, runs := view.Bins[m.cursor].Tooltip(m.location)
		lines = append(lines, labelStyle.Render(score+" · "+runs))
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderDetail(view model.PageView) string {
	switch view.Panel {
	case model.PanelStackedBar:
		date := model.FormatDateStamp(view.SelectedDate, m.location)
		lines := []string{
			date,
			fmt.Sprintf("%s%% Average Resiliency", formatScore(view.SelectedScore)),
			m.bar.ViewAs(view.SelectedScore / 100),
		}
		if view.DetailTableOpen {
			t := table.New(
				table.WithColumns([]table.Column{
					{Title: "Date", Width: 16},
					{Title: "Workflow", Width: 24},
					{Title: "Average resiliency", Width: 20},
				}),
				table.WithRows([]table.Row{
					{date, view.WorkflowID.String(), formatScore(view.SelectedScore) + "%"},
				}),
				table.WithHeight(2),
			)
			lines = append(lines, "", t.View())
		}
		return panelStyle.Render(strings.Join(lines, "\n"))

	case model.PanelNoData:
		return panelStyle.Render(labelStyle.Render(model.NoDataNotice))

	default:
		return ""
	}
}

func (m Model) renderRunTable(view model.PageView) string {
	var rows []table.Row
	if view.LatestRunID != "" {
		rows = append(rows, table.Row{view.LatestRunID.String(), view.WorkflowName, "Non cron"})
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Run ID", Width: 38},
			{Title: "Workflow", Width: 24},
			{Title: "Schedule", Width: 10},
		}),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)
	return panelStyle.Render("Workflow runs\n\n" + t.View())
}

func formatScore(v float64) string {
	return fmt.Sprintf("%g", v)
}
