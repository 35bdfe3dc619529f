// Package statsui provides the Bubble Tea analytics interface.
package statsui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/classboard/internal/model"
	"github.com/verte-zerg/classboard/internal/stats"
	"github.com/verte-zerg/classboard/internal/store"
)

const (
	tabOverview = iota
	tabWeekdays
	tabCourses
	tabStudents
)

const (
	plotHeight     = 10
	studentListLen = 5
	// Students need this many attempts before they count as struggling.
	minStrugglingAttempts = 3
)

const (
	inputClass = iota
	inputCourse
	inputSince
	inputLast
	inputWindow
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)


// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig
	log   *zap.Logger

	report stats.Report
	errMsg string

	classLabel  string
	courseLabel string

	tabs         []string
	activeTab    int
	viewports    []viewport.Model
	courseTable  table.Model
	courseLayout tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
	colCount int
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig, log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Model{
		store: st,
		cfg:   cfg,
		log:   log.Named("statsui"),
		tabs:  []string{"Overview", "Weekdays", "Courses", "Students"},
	}
	m.initInputs()
	m.initCourseTable()
	m.initViewports()
	m.resolveLabels()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.activeTab == tabCourses {
			m.courseTable.Focus()
		} else {
			m.courseTable.Blur()
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			m.updateLayout()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			m.updateLayout()
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			if m.activeTab == tabCourses {
				m.courseTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabCourses {
				m.courseTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabCourses {
				var cmd tea.Cmd
				m.courseTable, cmd = m.courseTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Class (name): "),
		newFilterInput("Course (title): "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last days: "),
		newFilterInput("Curve window: "),
	}
	m.setInputsFromConfig()
}

func (m *Model) initCourseTable() {
	cols, rows := buildCourseTableData(nil)
	m.courseTable = table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(1),
	)
	m.courseTable.SetStyles(courseTableStyles())
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	if len(m.filterInputs) == 0 {
		return
	}
	m.filterInputs[inputClass].SetValue(m.classLabel)
	m.filterInputs[inputCourse].SetValue(m.courseLabel)
	if m.cfg.Since != nil {
		m.filterInputs[inputSince].SetValue(m.cfg.Since.Format("2006-01-02"))
	} else {
		m.filterInputs[inputSince].SetValue("")
	}
	if m.cfg.Last > 0 {
		m.filterInputs[inputLast].SetValue(strconv.Itoa(m.cfg.Last))
	} else {
		m.filterInputs[inputLast].SetValue("")
	}
	m.filterInputs[inputWindow].SetValue(strconv.Itoa(m.cfg.CurveWindow))
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setCourseTableSize(m.width, vpHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabCourses {
		m.courseTable.Focus()
	} else {
		m.courseTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	class := m.classLabel
	if class == "" {
		class = "all"
	}
	course := m.courseLabel
	if course == "" {
		course = "all"
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Filters: class=%s  course=%s  since=%s  last=%s  window=%d", class, course, since, last, m.cfg.CurveWindow)
	summary = truncateLine(summary, m.width)
	return headerStyle.Render(summary)
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Filters: /  Quit: q")
}

func (m *Model) renderFilterHelp() string {
	return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel  quit: ctrl+c")
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.renderFilterHelp()
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Filters (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabCourses {
		if len(m.report.Courses) == 0 {
			return fitLines("No course activity found.", m.width, height)
		}
		view := tableMutedStyle.Render(m.courseTable.View())
		return fitLines(view, m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.log.Error("build report failed", zap.Error(err))
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	m.log.Debug("report built", zap.Int("days", len(report.Days)), zap.Int("courses", len(report.Courses)))
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	applyCourseTable(m, m.report.Courses, width, bodyHeight, true)
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width))
	m.viewports[tabWeekdays].SetContent(renderWeekdays(m.report, width))
	m.viewports[tabStudents].SetContent(renderStudents(m.report))
}

func renderOverview(r stats.Report, width int) string {
	if len(r.Days) == 0 {
		return "No activity found."
	}
	summary := renderSummaryCards(r, width)
	curves := renderCurves(r, width)
	return strings.TrimRight(summary+"\n\n"+curves, "\n")
}

func renderSummaryCards(r stats.Report, width int) string {
	if len(r.Days) == 0 {
		return "No activity found."
	}
	t := stats.Summarize(r)
	avg := "-"
	if score, ok := stats.AverageScore(t.Completions, t.ScoreSum); ok {
		avg = fmt.Sprintf("%.1f", score)
	}
	rates := make([]float64, len(r.Days))
	for i, d := range r.Days {
		rates[i] = stats.CompletionRate(d.Attempts, d.Completions)
	}
	cards := []string{
		metricCard("Active days", fmt.Sprintf("%d", t.Days)),
		metricCard("Students", fmt.Sprintf("%d", t.ActiveStudents)),
		metricCard("Attempts", fmt.Sprintf("%d", t.Attempts)),
		metricCard("Completion", fmt.Sprintf("%.1f%%", stats.CompletionRate(t.Attempts, t.Completions)*100)),
		metricCard("Avg score", avg),
		metricCard("Trend", stats.Sparkline(lastN(rates, 20))),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderCurves(r stats.Report, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, r, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderWeekdays(r stats.Report, width int) string {
	if r.Weekday.Empty() {
		return "No activity found."
	}
	var buf bytes.Buffer
	if err := stats.RenderWeekdays(&buf, r, width, true); err != nil {
		return fmt.Sprintf("Failed to render weekdays: %v", err)
	}
	if err := stats.RenderCourses(&buf, r, width, true); err != nil {
		return fmt.Sprintf("Failed to render courses: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderStudents(r stats.Report) string {
	if len(r.Progress) == 0 {
		return "No student activity found."
	}
	var buf bytes.Buffer
	if err := stats.RenderStudentTable(&buf, "Top Students", stats.TopStudents(r.Progress, studentListLen), r.Names); err != nil {
		return fmt.Sprintf("Failed to render students: %v", err)
	}
	weak := stats.StrugglingStudents(r.Progress, minStrugglingAttempts, studentListLen)
	if len(weak) == 0 {
		buf.WriteString("No struggling students.\n")
	} else if err := stats.RenderStudentTable(&buf, "Needs Attention", weak, r.Names); err != nil {
		return fmt.Sprintf("Failed to render students: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func applyCourseTable(m *Model, courses []model.CourseActivity, width, height int, force bool) {
	cols, rows := buildCourseTableData(courses)
	viewportHeight := maxInt(1, height-1)
	if !force &&
		m.courseLayout.width == width &&
		m.courseLayout.height == viewportHeight &&
		m.courseLayout.rowCount == len(rows) &&
		m.courseLayout.colCount == len(cols) {
		return
	}
	m.courseTable.SetColumns(cols)
	m.courseTable.SetRows(rows)
	m.courseLayout.rowCount = len(rows)
	m.courseLayout.colCount = len(cols)
	m.setCourseTableSize(width, height)
}

func (m *Model) setCourseTableSize(width, height int) {
	viewportHeight := maxInt(1, height-1)
	if m.courseLayout.width == width && m.courseLayout.height == viewportHeight {
		return
	}
	m.courseLayout.width = width
	m.courseLayout.height = viewportHeight
	m.courseTable.SetWidth(width)
	m.courseTable.SetHeight(viewportHeight)
	viewportHeight = m.adjustCourseTableHeight(height)
	if m.courseLayout.height != viewportHeight {
		m.courseLayout.height = viewportHeight
		m.courseTable.SetHeight(viewportHeight)
	}
}

func courseTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) adjustCourseTableHeight(bodyHeight int) int {
	target := maxInt(1, bodyHeight)
	height := m.courseTable.Height()
	viewHeight := lipgloss.Height(m.courseTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	m.courseTable.SetHeight(height)
	viewHeight = lipgloss.Height(m.courseTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	return height
}

func buildCourseTableData(courses []model.CourseActivity) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "Course", Width: 24},
		{Title: "Attempts", Width: 9},
		{Title: "Completions", Width: 12},
		{Title: "Rate", Width: 8},
		{Title: "Avg Score", Width: 9},
	}
	rows := make([]table.Row, 0, len(courses))
	for _, c := range courses {
		avg := "-"
		if score, ok := stats.AverageScore(c.Completions, c.ScoreSum); ok {
			avg = fmt.Sprintf("%.1f", score)
		}
		rows = append(rows, table.Row{
			c.Title,
			fmt.Sprintf("%d", c.Attempts),
			fmt.Sprintf("%d", c.Completions),
			fmt.Sprintf("%.2f%%", stats.CompletionRate(c.Attempts, c.Completions)*100),
			avg,
		})
	}
	return columns, rows
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	ctx := context.Background()
	className := strings.TrimSpace(m.filterInputs[inputClass].Value())
	classID, err := m.lookupClass(ctx, className)
	if err != nil {
		return err
	}
	courseTitle := strings.TrimSpace(m.filterInputs[inputCourse].Value())
	courseID, err := m.lookupCourse(ctx, courseTitle)
	if err != nil {
		return err
	}

	sinceInput := strings.TrimSpace(m.filterInputs[inputSince].Value())
	var since *time.Time
	if sinceInput != "" {
		parsed, err := time.ParseInLocation("2006-01-02", sinceInput, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		since = &parsed
	}

	lastInput := strings.TrimSpace(m.filterInputs[inputLast].Value())
	last := 0
	if lastInput != "" {
		parsed, err := strconv.Atoi(lastInput)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		last = parsed
	}

	windowInput := strings.TrimSpace(m.filterInputs[inputWindow].Value())
	window := 0
	if windowInput != "" {
		parsed, err := strconv.Atoi(windowInput)
		if err != nil {
			return fmt.Errorf("invalid curve window (use integer)")
		}
		if parsed < 1 {
			return fmt.Errorf("invalid curve window (use integer >= 1)")
		}
		window = parsed
	}

	m.cfg = model.StatsConfig{
		ClassID:     classID,
		CourseID:    courseID,
		Since:       since,
		Last:        last,
		CurveWindow: window,
	}
	m.classLabel = className
	m.courseLabel = courseTitle
	return nil
}

func (m *Model) lookupClass(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	c, err := m.store.FindClass(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("unknown class %q", name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to load classes: %w", err)
	}
	return c.ID, nil
}

func (m *Model) lookupCourse(ctx context.Context, title string) (string, error) {
	if title == "" {
		return "", nil
	}
	c, err := m.store.FindCourse(ctx, title)
	if errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("unknown course %q", title)
	}
	if err != nil {
		return "", fmt.Errorf("failed to load courses: %w", err)
	}
	return c.ID, nil
}

// resolveLabels fills the filter labels for ids given on the command line.
func (m *Model) resolveLabels() {
	ctx := context.Background()
	if m.cfg.ClassID != "" {
		if c, err := m.store.GetClass(ctx, m.cfg.ClassID); err == nil {
			m.classLabel = c.Name
		} else {
			m.classLabel = m.cfg.ClassID
		}
	}
	if m.cfg.CourseID != "" {
		if c, err := m.store.FindCourse(ctx, m.cfg.CourseID); err == nil {
			m.courseLabel = c.Title
		} else {
			m.courseLabel = m.cfg.CourseID
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func lastN(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	if n%5 == 0 {
		return n + 5
	}
	return ((n / 5) + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
