package task

import (
	"fmt"
	"slices"
	"strings"
)

// Collection is the ordered task list. Its methods never modify the
// receiver; each returns a fresh slice.
type Collection []Task

func (c Collection) Clone() Collection {
	if c == nil {
		return Collection{}
	}
	return slices.Clone(c)
}

func (c Collection) index(id string) int {
	return slices.IndexFunc(c, func(t Task) bool { return t.ID == id })
}

func (c Collection) Find(id string) (Task, bool) {
	i := c.index(id)
	if i < 0 {
		return Task{}, false
	}
	return c[i], true
}

func (c Collection) Has(id string) bool {
	return c.index(id) >= 0
}

// Create appends a new, not yet completed task built from d.
func (c Collection) Create(id string, d Draft) (Collection, Task, error) {
	if strings.TrimSpace(id) == "" {
		return c, Task{}, fmt.Errorf("%w: id: cannot be blank", ErrInvalid)
	}
	if err := d.Validate(); err != nil {
		return c, Task{}, err
	}
	if c.Has(id) {
		return c, Task{}, fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	t := withDraft(id, d, false)
	out := make(Collection, 0, len(c)+1)
	out = append(out, c...)
	out = append(out, t)
	return out, t, nil
}

// Update replaces the task with the same id, keeping its position. Every
// field comes from t, Completed included; nothing is merged.
func (c Collection) Update(t Task) (Collection, error) {
	if err := t.Validate(); err != nil {
		return c, err
	}
	i := c.index(t.ID)
	if i < 0 {
		return c, fmt.Errorf("%w: %s", ErrNotFound, t.ID)
	}
	out := c.Clone()
	out[i] = withDraft(t.ID, t.Draft(), t.Completed)
	return out, nil
}

// Delete removes the task with id. An unknown id returns an equal copy.
func (c Collection) Delete(id string) Collection {
	out := make(Collection, 0, len(c))
	for _, t := range c {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// ToggleComplete flips Completed on the task with id. An unknown id returns
// an equal copy.
func (c Collection) ToggleComplete(id string) Collection {
	out := c.Clone()
	if i := out.index(id); i >= 0 {
		out[i].Completed = !out[i].Completed
	}
	return out
}

// Validate checks every record and id uniqueness.
func (c Collection) Validate() error {
	seen := make(map[string]struct{}, len(c))
	for i, t := range c {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("task %d: %w", i, err)
		}
		if _, ok := seen[t.ID]; ok {
			return fmt.Errorf("task %d: %w: %s", i, ErrDuplicateID, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

// Sanitize keeps the valid records, dropping any that fail validation or
// repeat an earlier id. It returns how many were dropped.
func (c Collection) Sanitize() (Collection, int) {
	out := make(Collection, 0, len(c))
	seen := make(map[string]struct{}, len(c))
	for _, t := range c {
		if t.Validate() != nil {
			continue
		}
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out, len(c) - len(out)
}
