package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"taskdash/internal/config"
	"taskdash/internal/task"
	"taskdash/internal/view"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	sectionStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	overdueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	completedStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	mutedStyle     = lipgloss.NewStyle().Faint(true)
)

type section struct {
	name  string
	tasks []task.Task
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Task Dashboard"))
	b.WriteString("\n")
	b.WriteString(m.renderFilterLine())
	b.WriteString("\n\n")

	now := m.tracker.Clock().Now()
	offset := 0
	for _, s := range []section{
		{"Upcoming", m.buckets.Upcoming},
		{"Overdue", m.buckets.Overdue},
		{"Completed", m.buckets.Completed},
	} {
		b.WriteString(sectionStyle.Render(fmt.Sprintf("%s Tasks (%d)", s.name, len(s.tasks))))
		b.WriteString("\n")
		if len(s.tasks) == 0 {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("  No %s tasks", strings.ToLower(s.name))))
			b.WriteString("\n")
		}
		for i, t := range s.tasks {
			b.WriteString(m.renderRow(t, offset+i, now))
			b.WriteString("\n")
		}
		offset += len(s.tasks)
		b.WriteString("\n")
	}

	b.WriteString("---\n")
	switch m.mode {
	case modeForm:
		b.WriteString(m.renderForm())
		b.WriteString("\n")
		b.WriteString("Field: " + m.form.currentLabel())
		b.WriteString("\n")
		b.WriteString(m.input.View())
	case modeSearch:
		b.WriteString(m.search.View())
	default:
		b.WriteString(m.renderDetailPanel(now))
	}

	b.WriteString("\n\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(renderHelp(m.cfg.Keys))

	return b.String()
}

func (m Model) renderFilterLine() string {
	search := m.filter.Search
	if strings.TrimSpace(search) == "" {
		search = "(none)"
	}
	line := fmt.Sprintf("Search: %s • Priority: %s • Status: %s",
		search, priorityLabel(m.filter.Priority), m.filter.Status.Label())
	if !m.filter.Active() {
		return mutedStyle.Render(line)
	}
	return line
}

func (m Model) renderRow(t task.Task, idx int, now time.Time) string {
	cursor := " "
	if m.cursor == idx && m.mode == modeList {
		cursor = ">"
	}
	checkbox := "[ ]"
	if t.Completed {
		checkbox = "[x]"
	}
	body := fmt.Sprintf("%s (%s) • %s", t.Title, t.Priority, dueLabel(t, now))
	switch {
	case t.Completed:
		body = completedStyle.Render(body)
	case view.IsOverdue(t, now):
		body = overdueStyle.Render(body)
	}
	return fmt.Sprintf("%s %s %s", cursor, checkbox, body)
}

func (m Model) renderForm() string {
	if m.form == nil {
		return ""
	}
	heading := "Add Task"
	if m.form.editingID != "" {
		heading = "Edit Task"
	}
	values := []string{
		m.form.title,
		m.form.description,
		m.form.due,
		m.form.priority,
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n")
	for i, name := range formFields() {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
		}
		val := values[i]
		if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-26s : %s\n", prefix, name, val))
	}
	return b.String()
}

func (m Model) renderDetailPanel(now time.Time) string {
	t, ok := m.selected()
	if !ok {
		return "No task selected"
	}
	var b strings.Builder
	b.WriteString("Details\n")
	b.WriteString(fmt.Sprintf("Title       : %s\n", t.Title))
	b.WriteString(fmt.Sprintf("Description : %s\n", t.Description))
	b.WriteString(fmt.Sprintf("Due         : %s\n", dueLabel(t, now)))
	b.WriteString(fmt.Sprintf("Priority    : %s\n", t.Priority))
	b.WriteString(fmt.Sprintf("Status      : %s\n", humanDone(t.Completed)))
	return b.String()
}

// dueLabel renders the due date with a relative hint measured in whole days.
func dueLabel(t task.Task, now time.Time) string {
	today := view.Today(now)
	due, err := t.Due(today.Location())
	if err != nil {
		return t.DueDate
	}
	if due.Equal(today) {
		return t.DueDate + " (today)"
	}
	return fmt.Sprintf("%s (%s)", t.DueDate, humanize.RelTime(due, today, "ago", "from now"))
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s edit • %s toggle • %s delete • %s detail • %s/%s priority • %s/%s due • %s search • %s priority filter • %s status filter • %s clear • %s quit",
		k.Up, k.Down, k.Add, k.Edit, keyName(k.Toggle), k.Delete, k.Detail, k.PriorityUp, k.PriorityDown, k.DueBack, k.DueForward,
		k.Search, k.FilterPriority, k.FilterStatus, k.ClearFilters, k.Quit)
}

func keyName(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
