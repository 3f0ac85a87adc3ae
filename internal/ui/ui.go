package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdash/internal/config"
	"taskdash/internal/task"
	"taskdash/internal/tracker"
	"taskdash/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeSearch
)

type Model struct {
	ctx        context.Context
	tracker    *tracker.Tracker
	cfg        config.Config
	filter     view.Filter
	buckets    view.Buckets
	rows       []task.Task
	cursor     int
	mode       mode
	input      textinput.Model
	search     textinput.Model
	status     string
	confirmDel bool
	pendingDel *task.Task
	form       *formState
}

func New(ctx context.Context, tr *tracker.Tracker, cfg config.Config) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	si := textinput.New()
	si.Placeholder = "Search tasks..."
	si.Prompt = "/ "
	si.CharLimit = 128
	si.Width = 40

	m := Model{
		ctx:     ctx,
		tracker: tr,
		cfg:     cfg,
		filter:  cfg.Filter(),
		input:   ti,
		search:  si,
		mode:    modeList,
		status:  fmt.Sprintf("Press '%s' to add, '%s' to search.", cfg.Keys.Add, cfg.Keys.Search),
	}
	m.refresh()
	return m
}

func Run(ctx context.Context, tr *tracker.Tracker, cfg config.Config) error {
	program := tea.NewProgram(New(ctx, tr, cfg), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		w := max(msg.Width-10, 1)
		m.input.Width = w
		m.search.Width = w
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.mode {
	case modeForm:
		return m.updateFormMode(key, msg)
	case modeSearch:
		return m.updateSearchMode(key, msg)
	}
	return m.updateListMode(key)
}

// refresh recomputes the buckets from the tracker and clamps the cursor.
func (m *Model) refresh() {
	m.buckets = m.tracker.View(m.filter)
	m.rows = m.buckets.All()
	m.cursor = clampCursor(m.cursor, len(m.rows))
}

// focus moves the cursor onto the row with id, if it is still visible.
func (m *Model) focus(id string) {
	for i, t := range m.rows {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
	m.cursor = clampCursor(m.cursor, len(m.rows))
}

func (m Model) selected() (task.Task, bool) {
	if len(m.rows) == 0 {
		return task.Task{}, false
	}
	return m.rows[clampCursor(m.cursor, len(m.rows))], true
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if len(m.rows) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.rows))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.rows))
		}
	case m.cfg.Keys.Add:
		return m.startForm(nil)
	case m.cfg.Keys.Edit:
		t, ok := m.selected()
		if !ok {
			m.status = "No tasks to edit"
			return m, nil
		}
		return m.startForm(&t)
	case m.cfg.Keys.Toggle:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.tracker.ToggleComplete(m.ctx, t.ID)
		m.refresh()
		m.focus(t.ID)
		if t.Completed {
			m.status = fmt.Sprintf("Marked \"%s\" as pending", t.Title)
		} else {
			m.status = fmt.Sprintf("Marked \"%s\" as completed", t.Title)
		}
	case m.cfg.Keys.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Title)
	case m.cfg.Keys.Detail:
		t, ok := m.selected()
		if !ok {
			m.status = "No tasks"
			return m, nil
		}
		m.status = fmt.Sprintf("Task %s • %s • %s • %s • due %s",
			t.ID, t.Title, t.Priority, humanDone(t.Completed), t.DueDate)
	case m.cfg.Keys.Search:
		m.mode = modeSearch
		m.search.SetValue(m.filter.Search)
		m.search.CursorEnd()
		m.status = "Search: type to filter, enter to keep, esc to clear"
		cmd := m.search.Focus()
		return m, cmd
	case m.cfg.Keys.FilterPriority:
		m.filter.Priority = view.NextPriority(m.filter.Priority)
		m.refresh()
		m.status = "Priority filter: " + priorityLabel(m.filter.Priority)
	case m.cfg.Keys.FilterStatus:
		m.filter.Status = view.NextStatus(m.filter.Status)
		m.refresh()
		m.status = "Status filter: " + m.filter.Status.Label()
	case m.cfg.Keys.ClearFilters:
		m.filter = view.Filter{}
		m.search.SetValue("")
		m.refresh()
		m.status = "Filters cleared"
	case m.cfg.Keys.PriorityUp:
		return m.quickEdit(func(t task.Task) (task.Task, error) {
			t.Priority = t.Priority.Raise(1)
			return t, nil
		})
	case m.cfg.Keys.PriorityDown:
		return m.quickEdit(func(t task.Task) (task.Task, error) {
			t.Priority = t.Priority.Raise(-1)
			return t, nil
		})
	case m.cfg.Keys.DueForward:
		return m.quickEdit(func(t task.Task) (task.Task, error) { return t.ShiftDue(1) })
	case m.cfg.Keys.DueBack:
		return m.quickEdit(func(t task.Task) (task.Task, error) { return t.ShiftDue(-1) })
	}
	return m, nil
}

// quickEdit applies change to the selected task and saves the whole record,
// Completed included, through the tracker.
func (m Model) quickEdit(change func(task.Task) (task.Task, error)) (tea.Model, tea.Cmd) {
	t, ok := m.selected()
	if !ok {
		return m, nil
	}
	updated, err := change(t)
	if err == nil {
		err = m.tracker.Update(m.ctx, updated)
	}
	if err != nil {
		m.status = "Cannot save: " + err.Error()
		return m, nil
	}
	m.refresh()
	m.focus(t.ID)
	m.status = fmt.Sprintf("\"%s\" • %s • due %s", updated.Title, updated.Priority, updated.DueDate)
	return m, nil
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.search.SetValue("")
		m.filter.Search = ""
		m.search.Blur()
		m.mode = modeList
		m.refresh()
		m.status = "Search cleared"
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.search.Blur()
		m.mode = modeList
		m.status = fmt.Sprintf("%d matching tasks", m.buckets.Len())
		return m, nil
	default:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.filter.Search = m.search.Value()
		m.refresh()
		return m, cmd
	}
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		m.tracker.Delete(m.ctx, m.pendingDel.ID)
		m.refresh()
		m.status = "Deleted task"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	default:
		return m, nil
	}
}

func priorityLabel(p task.Priority) string {
	if p == "" {
		return "All"
	}
	return string(p)
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func humanDone(done bool) string {
	if done {
		return "completed"
	}
	return "pending"
}
