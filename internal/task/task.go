package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DateLayout is the on-disk and input format of due dates.
const DateLayout = "2006-01-02"

type Priority string

const (
	High   Priority = "High"
	Medium Priority = "Medium"
	Low    Priority = "Low"
)

var (
	ErrInvalid     = errors.New("invalid task")
	ErrNotFound    = errors.New("task not found")
	ErrDuplicateID = errors.New("duplicate task id")
)

// Priorities returns the priorities in display order.
func Priorities() []Priority {
	return []Priority{High, Medium, Low}
}

// ParsePriority matches s exactly; "high" is not High.
func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// Rank orders priorities High first. Unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case High:
		return 0
	case Medium:
		return 1
	case Low:
		return 2
	default:
		return 3
	}
}

// Raise moves p toward High by steps (negative steps lower it), stopping
// at either end. Unknown priorities are returned unchanged.
func (p Priority) Raise(steps int) Priority {
	all := Priorities()
	i := p.Rank()
	if i >= len(all) {
		return p
	}
	i = min(max(i-steps, 0), len(all)-1)
	return all[i]
}

type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"dueDate"`
	Priority    Priority `json:"priority"`
	Completed   bool     `json:"completed"`
}

// Draft holds the user-supplied fields of a task before it has an id.
type Draft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"dueDate"`
	Priority    Priority `json:"priority"`
}

// Normalize trims surrounding whitespace from every field.
func (d Draft) Normalize() Draft {
	return Draft{
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		DueDate:     strings.TrimSpace(d.DueDate),
		Priority:    Priority(strings.TrimSpace(string(d.Priority))),
	}
}

// Validate checks the trimmed draft. The returned error wraps ErrInvalid and
// a validation.Errors keyed by JSON field name.
func (d Draft) Validate() error {
	n := d.Normalize()
	err := validation.ValidateStruct(&n,
		validation.Field(&n.Title, validation.Required),
		validation.Field(&n.Description, validation.Required),
		validation.Field(&n.DueDate, validation.Required, validation.Date(DateLayout)),
		validation.Field(&n.Priority, validation.Required, validation.In(High, Medium, Low)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Draft returns the editable fields of t.
func (t Task) Draft() Draft {
	return Draft{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
	}
}

// Validate reports whether t may live in a collection.
func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: id: cannot be blank", ErrInvalid)
	}
	return t.Draft().Validate()
}

// Due parses the due date as midnight in loc.
func (t Task) Due(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(t.DueDate), loc)
}

// ShiftDue returns t with its due date moved by days.
func (t Task) ShiftDue(days int) (Task, error) {
	due, err := t.Due(time.UTC)
	if err != nil {
		return t, fmt.Errorf("%w: dueDate: %w", ErrInvalid, err)
	}
	t.DueDate = due.AddDate(0, 0, days).Format(DateLayout)
	return t, nil
}

func withDraft(id string, d Draft, completed bool) Task {
	n := d.Normalize()
	return Task{
		ID:          id,
		Title:       n.Title,
		Description: n.Description,
		DueDate:     n.DueDate,
		Priority:    n.Priority,
		Completed:   completed,
	}
}
