package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"taskdash/internal/task"
)

// formState backs the add/edit form. editingID is empty when adding.
type formState struct {
	editingID   string
	title       string
	description string
	due         string
	priority    string
	index       int
}

func formFields() []string {
	return []string{"title", "description", "due date (YYYY-MM-DD)", "priority (High/Medium/Low)"}
}

func (fs formState) currentLabel() string {
	return formFields()[fs.index]
}

func (fs formState) currentValue() string {
	switch fs.index {
	case 0:
		return fs.title
	case 1:
		return fs.description
	case 2:
		return fs.due
	case 3:
		return fs.priority
	default:
		return ""
	}
}

func (fs *formState) setCurrentValue(v string) {
	switch fs.index {
	case 0:
		fs.title = v
	case 1:
		fs.description = v
	case 2:
		fs.due = v
	case 3:
		fs.priority = v
	}
}

func (fs formState) draft() task.Draft {
	return task.Draft{
		Title:       fs.title,
		Description: fs.description,
		DueDate:     fs.due,
		Priority:    formPriority(fs.priority),
	}
}

// formPriority accepts any casing or a leading letter; anything else is
// passed through and rejected by validation.
func formPriority(v string) task.Priority {
	v = strings.TrimSpace(v)
	for _, p := range task.Priorities() {
		if strings.EqualFold(v, string(p)) {
			return p
		}
		if len(v) == 1 && strings.EqualFold(v, string(p)[:1]) {
			return p
		}
	}
	return task.Priority(v)
}

func (m Model) startForm(editing *task.Task) (tea.Model, tea.Cmd) {
	fs := &formState{}
	if editing != nil {
		fs = &formState{
			editingID:   editing.ID,
			title:       editing.Title,
			description: editing.Description,
			due:         editing.DueDate,
			priority:    string(editing.Priority),
		}
	}
	m.form = fs
	m.mode = modeForm
	m.input.SetValue(fs.currentValue())
	m.input.Placeholder = fs.currentLabel()
	m.status = m.formPrompt()
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.mode = modeList
		return m, nil
	}
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.form = nil
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.NextField, "down":
		m.moveField(1)
		return m, nil
	case m.cfg.Keys.PrevField, "up":
		m.moveField(-1)
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.form.setCurrentValue(m.input.Value())
		if m.form.index >= len(formFields())-1 {
			return m.saveForm()
		}
		m.form.index++
		m.input.SetValue(m.form.currentValue())
		m.input.Placeholder = m.form.currentLabel()
		m.status = m.formPrompt()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) moveField(delta int) {
	m.form.setCurrentValue(m.input.Value())
	m.form.index = wrapIndex(m.form.index+delta, len(formFields()))
	m.input.SetValue(m.form.currentValue())
	m.input.Placeholder = m.form.currentLabel()
	m.status = m.formPrompt()
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	var (
		saved task.Task
		err   error
	)
	if m.form.editingID == "" {
		saved, err = m.tracker.Create(m.ctx, m.form.draft())
	} else {
		saved, err = m.tracker.Edit(m.ctx, m.form.editingID, m.form.draft())
	}
	if err != nil {
		m.status = "Cannot save: " + err.Error()
		return m, nil
	}

	if m.form.editingID == "" {
		m.status = "Added task"
	} else {
		m.status = "Updated task"
	}
	m.form = nil
	m.mode = modeList
	m.input.SetValue("")
	m.input.Blur()
	m.refresh()
	m.focus(saved.ID)
	return m, nil
}

func (m Model) formPrompt() string {
	if m.form == nil {
		return ""
	}
	verb := "Add task"
	if m.form.editingID != "" {
		verb = "Edit task"
	}
	return fmt.Sprintf("%s: %s (field %d of %d). Enter to advance, Esc to cancel, tab to move.",
		verb, m.form.currentLabel(), m.form.index+1, len(formFields()))
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
