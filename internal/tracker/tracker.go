// Package tracker owns the canonical task collection for a session. Every
// mutation goes through it, and each change is written back to the repo
// before the call returns.
package tracker

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"taskdash/internal/clock"
	"taskdash/internal/task"
	"taskdash/internal/view"
)

// Repository is the persistence collaborator.
type Repository interface {
	Load(ctx context.Context) (task.Collection, int, error)
	Save(ctx context.Context, c task.Collection) error
}

type Tracker struct {
	repo  Repository
	clock clock.Clock
	ids   task.IDSource
	log   *zap.Logger

	tasks task.Collection
}

type Option func(*Tracker)

func WithClock(c clock.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

func WithIDs(ids task.IDSource) Option {
	return func(t *Tracker) { t.ids = ids }
}

func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

func New(repo Repository, opts ...Option) *Tracker {
	t := &Tracker{
		repo:  repo,
		clock: clock.Real{},
		log:   zap.NewNop(),
		tasks: task.Collection{},
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.ids == nil {
		t.ids = task.NewTimeIDs(t.clock)
	}
	return t
}

// Load replaces the in-memory collection with the stored one. Unreadable
// or malformed data leaves the tracker empty; it is logged, never returned.
func (t *Tracker) Load(ctx context.Context) {
	c, dropped, err := t.repo.Load(ctx)
	if err != nil {
		t.log.Warn("starting with empty task list", zap.Error(err))
		t.tasks = task.Collection{}
		return
	}
	if dropped > 0 {
		t.log.Warn("dropped invalid stored tasks", zap.Int("dropped", dropped))
	}
	t.tasks = c
	t.log.Info("loaded tasks", zap.Int("count", len(c)))
}

// Tasks returns a copy of the collection.
func (t *Tracker) Tasks() task.Collection {
	return t.tasks.Clone()
}

func (t *Tracker) Get(id string) (task.Task, bool) {
	return t.tasks.Find(id)
}

func (t *Tracker) Clock() clock.Clock {
	return t.clock
}

// View computes the dashboard buckets for f as of the clock's current day.
func (t *Tracker) View(f view.Filter) view.Buckets {
	return view.Build(t.tasks, f, t.clock.Now())
}

const maxIDAttempts = 8

func (t *Tracker) Create(ctx context.Context, d task.Draft) (task.Task, error) {
	if err := d.Validate(); err != nil {
		return task.Task{}, err
	}
	var (
		next    task.Collection
		created task.Task
		err     error
	)
	for i := 0; i < maxIDAttempts; i++ {
		next, created, err = t.tasks.Create(t.ids.NewID(), d)
		if !errors.Is(err, task.ErrDuplicateID) {
			break
		}
	}
	if err != nil {
		return task.Task{}, err
	}
	t.commit(ctx, next, "create", created.ID)
	return created, nil
}

// Update replaces a task wholesale. Completed is taken from tk as given.
func (t *Tracker) Update(ctx context.Context, tk task.Task) error {
	next, err := t.tasks.Update(tk)
	if err != nil {
		return err
	}
	t.commit(ctx, next, "update", tk.ID)
	return nil
}

// Edit applies form fields to an existing task, carrying its current
// Completed value forward.
func (t *Tracker) Edit(ctx context.Context, id string, d task.Draft) (task.Task, error) {
	cur, ok := t.tasks.Find(id)
	if !ok {
		return task.Task{}, fmt.Errorf("%w: %s", task.ErrNotFound, id)
	}
	n := d.Normalize()
	updated := task.Task{
		ID:          id,
		Title:       n.Title,
		Description: n.Description,
		DueDate:     n.DueDate,
		Priority:    n.Priority,
		Completed:   cur.Completed,
	}
	if err := t.Update(ctx, updated); err != nil {
		return task.Task{}, err
	}
	return updated, nil
}

func (t *Tracker) Delete(ctx context.Context, id string) {
	if !t.tasks.Has(id) {
		return
	}
	t.commit(ctx, t.tasks.Delete(id), "delete", id)
}

func (t *Tracker) ToggleComplete(ctx context.Context, id string) {
	if !t.tasks.Has(id) {
		return
	}
	t.commit(ctx, t.tasks.ToggleComplete(id), "toggle", id)
}

// commit installs next and persists it. Save failures are logged; the
// in-memory collection stays authoritative for the session.
func (t *Tracker) commit(ctx context.Context, next task.Collection, op, id string) {
	t.tasks = next
	if err := t.repo.Save(ctx, next); err != nil {
		t.log.Error("save tasks", zap.String("op", op), zap.String("id", id), zap.Error(err))
		return
	}
	t.log.Debug("saved tasks", zap.String("op", op), zap.String("id", id), zap.Int("count", len(next)))
}
