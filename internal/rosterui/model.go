// Package rosterui provides the Bubble Tea roster interface: a sortable,
// searchable, paginated table with row selection.
package rosterui

import (
	"context"
	"fmt"
	"strings"
	"time"

	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/verte-zerg/classboard/internal/dataset"
	"github.com/verte-zerg/classboard/internal/debounce"
	"github.com/verte-zerg/classboard/internal/model"
	"github.com/verte-zerg/classboard/internal/selection"
	"github.com/verte-zerg/classboard/internal/store"
	"github.com/verte-zerg/classboard/internal/table"
)

const searchSeqID = 1

var pageSizes = []int{5, 10, 20, 50, 100}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// Model implements the Bubble Tea roster UI for one entity.
type Model[T any] struct {
	entity Entity[T]
	ctrl   *table.Controller[T, string]
	log    *zap.Logger

	tbl       btable.Model
	search    textinput.Model
	searching bool
	seq       *debounce.Sequence
	window    time.Duration

	confirmDelete bool
	status        string
	errMsg        string

	width  int
	height int
}

// New constructs the roster screen for cfg.Entity.
func New(st *store.Store, cfg model.RosterConfig, log *zap.Logger) (tea.Model, error) {
	switch cfg.Entity {
	case "", EntityStudents:
		return asTeaModel(NewModel(Students(st), cfg, log))
	case EntityClasses:
		return asTeaModel(NewModel(Classes(st), cfg, log))
	case EntityCourses:
		return asTeaModel(NewModel(Courses(st), cfg, log))
	default:
		return nil, fmt.Errorf("unknown entity %q (expected one of %s)", cfg.Entity, strings.Join(EntityNames, ", "))
	}
}

func asTeaModel[T any](m *Model[T], err error) (tea.Model, error) {
	if err != nil {
		return nil, err
	}
	return m, nil
}

// NewModel constructs a roster model over entity and loads its records.
func NewModel[T any](entity Entity[T], cfg model.RosterConfig, log *zap.Logger) (*Model[T], error) {
	if log == nil {
		log = zap.NewNop()
	}
	tag, err := ParseLocale(cfg.Locale)
	if err != nil {
		return nil, err
	}
	sortState, err := ResolveSort(entity.Columns, cfg.Sort, cfg.Desc)
	if err != nil {
		return nil, err
	}
	window := debounce.DefaultWindow
	if cfg.DebounceMs > 0 {
		window = time.Duration(cfg.DebounceMs) * time.Millisecond
	}

	ctrl := table.New(entity.Columns, entity.Key, cfg.PageSize).WithOptions(dataset.Options{Locale: tag})
	ctrl.SetSort(sortState)
	ctrl.SetQuery(cfg.Query)

	m := &Model[T]{
		entity: entity,
		ctrl:   ctrl,
		log:    log.Named("roster").With(zap.String("entity", entity.Name)),
		seq:    debounce.NewSequence(searchSeqID),
		window: window,
	}
	m.search = textinput.New()
	m.search.Prompt = "Search: "
	m.search.Placeholder = "type to filter"
	m.search.SetValue(cfg.Query)
	m.tbl = btable.New(
		btable.WithColumns(m.headerColumns()),
		btable.WithFocused(true),
		btable.WithHeight(ctrl.PageSize()+1),
	)
	m.tbl.SetStyles(tableStyles())
	m.reload()
	return m, nil
}

// Init implements tea.Model.
func (m *Model[T]) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case debounce.TickMsg:
		if m.seq.Current(msg) {
			m.applyQuery(m.search.Value())
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.confirmDelete {
			return m.updateConfirm(msg)
		}
		return m.updateTable(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model[T]) View() string {
	lines := []string{m.renderHeader(), m.tbl.View(), m.renderFooter(), m.renderHelp()}
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
	} else if m.status != "" {
		lines = append(lines, statusStyle.Render(m.status))
	}
	return strings.Join(lines, "\n")
}

func (m *Model[T]) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch key := msg.String(); key {
	case "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "right", "l", "n", "pgdown":
		m.ctrl.NextPage()
	case "left", "h", "p", "pgup":
		m.ctrl.PrevPage()
	case "home", "g":
		m.ctrl.SetPage(1)
	case "end", "G":
		m.ctrl.SetPage(m.ctrl.Window().PageCount)
	case " ", "x":
		if rec, ok := m.currentRecord(); ok {
			m.ctrl.Toggle(m.ctrl.Key(rec))
		}
	case "a":
		m.ctrl.ToggleVisible()
	case "A":
		m.ctrl.SelectAllFiltered()
	case "esc":
		m.ctrl.ClearSelection()
	case "]":
		m.ctrl.SetPageSize(nextPageSize(m.ctrl.PageSize()))
		m.updateLayout()
	case "[":
		m.ctrl.SetPageSize(prevPageSize(m.ctrl.PageSize()))
		m.updateLayout()
	case "D":
		if m.ctrl.Selection().Len() == 0 {
			m.status = "Nothing selected."
			return m, nil
		}
		if m.entity.Delete == nil {
			m.status = "Delete is not available."
			return m, nil
		}
		m.confirmDelete = true
		return m, nil
	case "r":
		m.reload()
		return m, nil
	default:
		if idx, ok := columnIndex(key); ok && idx < len(m.entity.Columns) {
			m.ctrl.SortBy(m.entity.Columns[idx].Key)
			break
		}
		var cmd tea.Cmd
		m.tbl, cmd = m.tbl.Update(msg)
		m.syncHeader()
		return m, cmd
	}
	m.syncRows()
	return m, nil
}

func (m *Model[T]) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.seq.Cancel()
		m.applyQuery(m.search.Value())
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.seq.Cancel()
		m.search.SetValue(m.ctrl.Query())
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	prev := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != prev {
		return m, tea.Batch(cmd, m.seq.Schedule(m.window))
	}
	return m, cmd
}

func (m *Model[T]) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.confirmDelete = false
	if msg.String() != "y" {
		m.status = "Delete cancelled."
		return m, nil
	}
	m.deleteSelected()
	return m, nil
}

func (m *Model[T]) applyQuery(q string) {
	if q == m.ctrl.Query() {
		return
	}
	m.ctrl.SetQuery(q)
	m.log.Debug("query applied", zap.String("query", q), zap.Int("matches", len(m.ctrl.Filtered())))
	m.syncRows()
}

func (m *Model[T]) reload() {
	if m.entity.Load == nil {
		m.syncRows()
		return
	}
	records, err := m.entity.Load(context.Background())
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load %s: %v", m.entity.Name, err)
		m.log.Error("load failed", zap.Error(err))
		return
	}
	m.errMsg = ""
	m.ctrl.SetRecords(records)
	m.log.Debug("records loaded", zap.Int("count", len(records)))
	m.syncRows()
}

func (m *Model[T]) deleteSelected() {
	selected := m.ctrl.SelectedRecords()
	ids := make([]string, len(selected))
	for i, rec := range selected {
		ids[i] = m.ctrl.Key(rec)
	}
	n, err := m.entity.Delete(context.Background(), ids)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to delete %s: %v", m.entity.Name, err)
		m.log.Error("delete failed", zap.Error(err), zap.Int("count", len(ids)))
		return
	}
	m.log.Info("deleted selection", zap.Int64("count", n))
	m.reload()
	if m.errMsg == "" {
		m.status = fmt.Sprintf("Deleted %d %s.", n, m.entity.Name)
	}
}

func (m *Model[T]) currentRecord() (T, bool) {
	rows := m.ctrl.Rows()
	idx := m.tbl.Cursor()
	if idx < 0 || idx >= len(rows) {
		var zero T
		return zero, false
	}
	return rows[idx], true
}

func (m *Model[T]) syncRows() {
	m.syncHeader()
	records := m.ctrl.Rows()
	rows := make([]btable.Row, len(records))
	for i, rec := range records {
		row := make(btable.Row, 0, len(m.entity.Columns)+1)
		row = append(row, checkMark(m.ctrl.IsSelected(rec)))
		for _, col := range m.entity.Columns {
			row = append(row, dataset.Text(col, rec))
		}
		rows[i] = row
	}
	m.tbl.SetRows(rows)
	if m.tbl.Cursor() >= len(rows) {
		m.tbl.SetCursor(max(0, len(rows)-1))
	}
}

func (m *Model[T]) syncHeader() {
	m.tbl.SetColumns(m.headerColumns())
}

func (m *Model[T]) headerColumns() []btable.Column {
	cols := make([]btable.Column, 0, len(m.entity.Columns)+1)
	cols = append(cols, btable.Column{Title: headerMark(m.ctrl.HeaderState()), Width: 3})
	sortState := m.ctrl.Sort()
	for i, col := range m.entity.Columns {
		title := fmt.Sprintf("%d %s", i+1, col.Title)
		if !col.Sortable {
			title = col.Title
		}
		if col.Key == sortState.ColumnKey {
			title += sortArrow(sortState.Direction)
		}
		width := runewidth.StringWidth(title)
		if i < len(m.entity.Widths) && m.entity.Widths[i] > width {
			width = m.entity.Widths[i]
		}
		cols = append(cols, btable.Column{Title: title, Width: width})
	}
	return cols
}

func (m *Model[T]) updateLayout() {
	height := m.ctrl.PageSize() + 1
	if m.height > 0 {
		// Header, footer, help and status lines.
		height = min(height, max(2, m.height-4))
	}
	m.tbl.SetHeight(height)
	if m.width > 0 {
		m.tbl.SetWidth(m.width)
		m.search.Width = max(10, m.width-lipgloss.Width(m.search.Prompt)-2)
	}
}

func (m *Model[T]) renderHeader() string {
	title := titleStyle.Render(strings.ToUpper(m.entity.Name[:1]) + m.entity.Name[1:])
	if m.searching {
		return title + "  " + m.search.View()
	}
	if q := m.ctrl.Query(); q != "" {
		return title + "  " + headerStyle.Render(fmt.Sprintf("Search: %q", q))
	}
	return title
}

func (m *Model[T]) renderFooter() string {
	w := m.ctrl.Window()
	segments := []string{
		m.ctrl.RangeText(),
		fmt.Sprintf("Page %d/%d", w.Page, max(w.PageCount, 1)),
		fmt.Sprintf("Selected %d", m.ctrl.Selection().Len()),
	}
	if s := m.ctrl.Sort(); !s.Natural() {
		segments = append(segments, fmt.Sprintf("Sort %s %s", s.ColumnKey, s.Direction))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model[T]) renderHelp() string {
	if m.confirmDelete {
		return promptStyle.Render(fmt.Sprintf("Delete %d %s? y/n", m.ctrl.Selection().Len(), m.entity.Name))
	}
	if m.searching {
		return headerStyle.Render("enter: apply  esc: close search")
	}
	return headerStyle.Render("Sort: 1-9  Page: left/right  Size: [ ]  Select: space/a/A  Clear: esc  Delete: D  Search: /  Quit: q")
}

func tableStyles() btable.Styles {
	styles := btable.DefaultStyles()
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

func checkMark(selected bool) string {
	if selected {
		return "[x]"
	}
	return "[ ]"
}

func headerMark(state selection.State) string {
	switch state {
	case selection.All:
		return "[x]"
	case selection.Some:
		return "[-]"
	default:
		return "[ ]"
	}
}

func sortArrow(d dataset.Direction) string {
	if d == dataset.Desc {
		return " ▼"
	}
	return " ▲"
}

func columnIndex(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '1'), true
}

func nextPageSize(n int) int {
	for _, size := range pageSizes {
		if size > n {
			return size
		}
	}
	return pageSizes[len(pageSizes)-1]
}

func prevPageSize(n int) int {
	for i := len(pageSizes) - 1; i >= 0; i-- {
		if pageSizes[i] < n {
			return pageSizes[i]
		}
	}
	return pageSizes[0]
}
