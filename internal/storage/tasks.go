package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"taskdash/internal/task"
)

// TasksKey is where the collection lives in the KV.
const TasksKey = "tasks"

var ErrMalformed = errors.New("malformed task data")

// TaskRepo stores the whole collection as one JSON array under a fixed key.
type TaskRepo struct {
	kv  KV
	key string
}

func NewTaskRepo(kv KV) *TaskRepo {
	return &TaskRepo{kv: kv, key: TasksKey}
}

// Load returns the stored collection. A missing key yields an empty
// collection. Records that are incomplete or repeat an id are dropped and
// counted in the second return value.
func (r *TaskRepo) Load(ctx context.Context) (task.Collection, int, error) {
	data, ok, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return task.Collection{}, 0, fmt.Errorf("kv get %q: %w", r.key, err)
	}
	if !ok {
		return task.Collection{}, 0, nil
	}
	var loaded task.Collection
	if err := json.Unmarshal(data, &loaded); err != nil {
		return task.Collection{}, 0, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	out, dropped := loaded.Sanitize()
	return out, dropped, nil
}

func (r *TaskRepo) Save(ctx context.Context, c task.Collection) error {
	if c == nil {
		c = task.Collection{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := r.kv.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("kv put %q: %w", r.key, err)
	}
	return nil
}
