// Package view derives the Upcoming, Overdue and Completed buckets shown on
// the dashboard. Nothing here mutates the collection.
package view

import (
	"strings"
	"time"

	"taskdash/internal/task"
)

type Status string

const (
	StatusAny       Status = ""
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Filter is the transient search and attribute state. Zero values mean
// "no constraint".
type Filter struct {
	Search   string
	Priority task.Priority
	Status   Status
}

func (f Filter) Active() bool {
	return strings.TrimSpace(f.Search) != "" || f.Priority != "" || f.Status != StatusAny
}

func (f Filter) Match(t task.Task) bool {
	return f.matchText(t) && f.matchPriority(t) && f.matchStatus(t)
}

func (f Filter) matchText(t task.Task) bool {
	if strings.TrimSpace(f.Search) == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle)
}

func (f Filter) matchPriority(t task.Task) bool {
	return f.Priority == "" || f.Priority == t.Priority
}

func (f Filter) matchStatus(t task.Task) bool {
	switch f.Status {
	case StatusPending:
		return !t.Completed
	case StatusCompleted:
		return t.Completed
	default:
		return true
	}
}

type Buckets struct {
	Upcoming  []task.Task
	Overdue   []task.Task
	Completed []task.Task
}

func (b Buckets) Len() int {
	return len(b.Upcoming) + len(b.Overdue) + len(b.Completed)
}

// All returns the buckets concatenated in display order.
func (b Buckets) All() []task.Task {
	out := make([]task.Task, 0, b.Len())
	out = append(out, b.Upcoming...)
	out = append(out, b.Overdue...)
	return append(out, b.Completed...)
}

// Today truncates now to midnight in now's location.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// IsOverdue reports whether t is pending and due before the day of now.
// Unparseable due dates are never overdue.
func IsOverdue(t task.Task, now time.Time) bool {
	if t.Completed {
		return false
	}
	today := Today(now)
	due, err := t.Due(today.Location())
	if err != nil {
		return false
	}
	return due.Before(today)
}

// Build filters c and splits the result into buckets, keeping collection order.
func Build(c task.Collection, f Filter, now time.Time) Buckets {
	b := Buckets{
		Upcoming:  []task.Task{},
		Overdue:   []task.Task{},
		Completed: []task.Task{},
	}
	for _, t := range c {
		if !f.Match(t) {
			continue
		}
		switch {
		case t.Completed:
			b.Completed = append(b.Completed, t)
		case IsOverdue(t, now):
			b.Overdue = append(b.Overdue, t)
		default:
			b.Upcoming = append(b.Upcoming, t)
		}
	}
	return b
}

// NextPriority cycles All, High, Medium, Low.
func NextPriority(p task.Priority) task.Priority {
	switch p {
	case "":
		return task.High
	case task.High:
		return task.Medium
	case task.Medium:
		return task.Low
	default:
		return ""
	}
}

// NextStatus cycles All, Pending, Completed.
func NextStatus(s Status) Status {
	switch s {
	case StatusAny:
		return StatusPending
	case StatusPending:
		return StatusCompleted
	default:
		return StatusAny
	}
}

func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// ParseStatus accepts the config form of a status.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusAny, StatusPending, StatusCompleted:
		return Status(s), true
	}
	return StatusAny, false
}
