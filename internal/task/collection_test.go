package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) Collection {
	t.Helper()
	var c Collection
	var err error
	for _, id := range []string{"1", "2", "3"} {
		d := draft()
		d.Title = "task " + id
		c, _, err = c.Create(id, d)
		require.NoError(t, err)
	}
	return c
}

func TestCreate_AppendsPendingTask(t *testing.T) {
	var c Collection
	d := draft()
	d.Title = "  Buy milk "

	out, tk, err := c.Create("42", d)
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Empty(t, c)
	assert.Equal(t, "42", tk.ID)
	assert.Equal(t, "Buy milk", tk.Title)
	assert.False(t, tk.Completed)
	assert.Equal(t, tk, out[0])
}

func TestCreate_RejectsInvalidDraft(t *testing.T) {
	var c Collection
	out, _, err := c.Create("1", Draft{Title: "", Description: "x", DueDate: "2025-01-01", Priority: High})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Len(t, out, 0)
}

func TestCreate_RejectsDuplicateAndBlankID(t *testing.T) {
	c := seeded(t)

	out, _, err := c.Create("2", draft())
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, c, out)

	_, _, err = c.Create(" ", draft())
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestCreate_PreservesInsertionOrder(t *testing.T) {
	c := seeded(t)
	ids := []string{}
	for _, tk := range c {
		ids = append(ids, tk.ID)
	}
	assert.Equal(t, []string{"1", "2", "3"}, ids)
}

func TestUpdate_ReplacesInPlace(t *testing.T) {
	var c Collection
	c, orig, err := c.Create("42", draft())
	require.NoError(t, err)

	changed := orig
	changed.Title = "New"
	out, err := c.Update(changed)
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, "New", out[0].Title)
	assert.Equal(t, "Buy milk", c[0].Title)
}

func TestUpdate_KeepsPosition(t *testing.T) {
	c := seeded(t)
	mid := c[1]
	mid.Title = "middle"
	out, err := c.Update(mid)
	require.NoError(t, err)
	assert.Equal(t, []string{"task 1", "middle", "task 3"}, []string{out[0].Title, out[1].Title, out[2].Title})
}

func TestUpdate_TakesCompletedVerbatim(t *testing.T) {
	c := seeded(t).ToggleComplete("1")
	require.True(t, c[0].Completed)

	// A caller that forgets to carry Completed forward resets it.
	tk := Task{ID: "1", Title: "a", Description: "b", DueDate: "2025-01-01", Priority: High}
	out, err := c.Update(tk)
	require.NoError(t, err)
	assert.False(t, out[0].Completed)
}

func TestUpdate_Errors(t *testing.T) {
	c := seeded(t)

	missing := c[0]
	missing.ID = "nope"
	out, err := c.Update(missing)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, c, out)

	invalid := c[0]
	invalid.Description = " "
	out, err = c.Update(invalid)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, c, out)
}

func TestDelete(t *testing.T) {
	c := seeded(t)

	out := c.Delete("2")
	assert.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "3", out[1].ID)
	assert.Len(t, c, 3)
}

func TestDelete_MissingIsNoop(t *testing.T) {
	c := seeded(t)
	assert.Equal(t, c, c.Delete("missing"))
}

func TestToggleComplete_Involution(t *testing.T) {
	c := seeded(t)

	once := c.ToggleComplete("2")
	assert.True(t, once[1].Completed)
	assert.False(t, once[0].Completed)
	assert.False(t, once[2].Completed)
	assert.False(t, c[1].Completed)

	twice := once.ToggleComplete("2")
	assert.Equal(t, c, twice)
}

func TestToggleComplete_MissingIsNoop(t *testing.T) {
	c := seeded(t)
	assert.Equal(t, c, c.ToggleComplete("missing"))
}

func TestCollectionValidate(t *testing.T) {
	c := seeded(t)
	assert.NoError(t, c.Validate())

	dup := append(c.Clone(), c[0])
	assert.ErrorIs(t, dup.Validate(), ErrDuplicateID)

	bad := append(c.Clone(), Task{ID: "9"})
	assert.ErrorIs(t, bad.Validate(), ErrInvalid)
}

func TestSanitize(t *testing.T) {
	c := seeded(t)
	mixed := append(c.Clone(), c[0], Task{ID: "9", Title: "x"})

	out, dropped := mixed.Sanitize()
	assert.Equal(t, 2, dropped)
	assert.Equal(t, c, out)
}
