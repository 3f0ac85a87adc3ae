package task

import (
	"strconv"
	"sync"

	"github.com/google/uuid"

	"taskdash/internal/clock"
)

// IDSource hands out ids for new tasks.
type IDSource interface {
	NewID() string
}

// TimeIDs derives ids from the clock in Unix milliseconds. Ids are strictly
// increasing, so two tasks created within the same millisecond (or under a
// frozen test clock) still differ.
type TimeIDs struct {
	clock clock.Clock

	mu   sync.Mutex
	last int64
}

func NewTimeIDs(c clock.Clock) *TimeIDs {
	return &TimeIDs{clock: c}
}

func (g *TimeIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	v := g.clock.Now().UnixMilli()
	if v <= g.last {
		v = g.last + 1
	}
	g.last = v
	return strconv.FormatInt(v, 10)
}

type UUIDs struct{}

func (UUIDs) NewID() string {
	return uuid.NewString()
}
