package schedule

import (
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/borgmon/study-alarm/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSaver struct {
	saved []models.State
	err   error
}

func (s *recordingSaver) Save(state models.State) error {
	s.saved = append(s.saved, state)
	return s.err
}

func newTestEditor(state models.State) (*Editor, *Registry, *recordingSaver) {
	r := NewRegistry(state)
	saver := &recordingSaver{}
	e := NewEditor(r, saver, nil)
	n := 0
	e.NewID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return e, r, saver
}

func TestCreateIsNotCommitted(t *testing.T) {
	e, r, saver := newTestEditor(models.DefaultState())

	s := e.Create()
	assert.Equal(t, "id-1", s.ID)
	assert.Equal(t, DefaultScheduleName, s.Name)
	assert.Empty(t, s.Days)
	assert.Empty(t, s.Items)
	assert.Empty(t, r.Schedules())
	assert.Empty(t, saver.saved)
}

func TestSaveRejectsBlankNameAndLeavesRegistryUnchanged(t *testing.T) {
	e, r, saver := newTestEditor(models.DefaultState())

	s := e.Create()
	require.NoError(t, e.ToggleDay(s, 1))
	e.Rename(s, "")

	err := e.Save(s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Empty(t, r.Schedules())
	assert.Empty(t, saver.saved)
}

func TestSaveRejectsEmptyDays(t *testing.T) {
	e, r, _ := newTestEditor(models.DefaultState())

	err := e.Save(e.Create())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "days")
	assert.Empty(t, r.Schedules())
}

func TestSaveAppendsThenReplacesInPlace(t *testing.T) {
	e, r, saver := newTestEditor(models.DefaultState())

	first := e.Create()
	require.NoError(t, e.ToggleDay(first, 0))
	require.NoError(t, e.Save(first))

	second := e.Create()
	require.NoError(t, e.ToggleDay(second, 6))
	e.Rename(second, "Saturday")
	require.NoError(t, e.Save(second))

	staged, err := e.Edit(first.ID)
	require.NoError(t, err)
	e.Rename(staged, "Sunday")
	require.NoError(t, e.Save(staged))

	schedules := r.Schedules()
	require.Len(t, schedules, 2)
	assert.Equal(t, "Sunday", schedules[0].Name)
	assert.Equal(t, "Saturday", schedules[1].Name)
	assert.Len(t, saver.saved, 3)
	assert.Len(t, saver.saved[2].CustomSchedules, 2)
}

func TestStagedEditsAreInvisibleUntilSave(t *testing.T) {
	e, r, _ := newTestEditor(models.DefaultState())

	s := e.Create()
	require.NoError(t, e.ToggleDay(s, 3))
	require.NoError(t, e.Save(s))

	staged, err := e.Edit(s.ID)
	require.NoError(t, err)
	_, err = e.AddItem(staged, ItemCandidate{Time: "07:00", Activity: "Early", Duration: "1h"})
	require.NoError(t, err)

	assert.Empty(t, r.ResolveForDay(3).Items)

	// Mutating the caller's copy after Save must not leak either.
	require.NoError(t, e.Save(staged))
	staged.Items[0].Activity = "changed"
	assert.Equal(t, "Early", r.ResolveForDay(3).Items[0].Activity)
}

func TestEditUnknown(t *testing.T) {
	e, _, _ := newTestEditor(models.DefaultState())
	_, err := e.Edit("missing")
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestDelete(t *testing.T) {
	e, r, saver := newTestEditor(models.DefaultState())

	s := e.Create()
	require.NoError(t, e.ToggleDay(s, 2))
	require.NoError(t, e.Save(s))

	require.NoError(t, e.Delete("missing"))
	assert.Len(t, saver.saved, 1, "deleting an unknown id writes nothing")

	require.NoError(t, e.Delete(s.ID))
	assert.Empty(t, r.Schedules())
	assert.Len(t, saver.saved, 2)
	assert.False(t, r.ResolveForDay(2).IsCustom)
}

func TestToggleDay(t *testing.T) {
	e, _, _ := newTestEditor(models.DefaultState())
	s := e.Create()

	for _, d := range []int{5, 1, 3} {
		require.NoError(t, e.ToggleDay(s, d))
	}
	assert.Equal(t, []int{1, 3, 5}, s.Days)

	require.NoError(t, e.ToggleDay(s, 3))
	assert.Equal(t, []int{1, 5}, s.Days)

	assert.ErrorIs(t, e.ToggleDay(s, 7), ErrInvalidDay)
	assert.ErrorIs(t, e.ToggleDay(s, -1), ErrInvalidDay)
}

func TestAddItemKeepsItemsSortedAndStable(t *testing.T) {
	e, _, _ := newTestEditor(models.DefaultState())
	s := e.Create()

	times := []string{"14:00", "08:00", "10:30", "08:00", "23:59", "00:00"}
	for i, at := range times {
		_, err := e.AddItem(s, ItemCandidate{Time: at, Activity: fmt.Sprintf("a%d", i), Duration: "1h"})
		require.NoError(t, err)
		assert.True(t, sort.SliceIsSorted(s.Items, func(a, b int) bool { return s.Items[a].Time < s.Items[b].Time }))
	}

	// The two 08:00 entries keep insertion order.
	assert.Equal(t, "a1", s.Items[1].Activity)
	assert.Equal(t, "a3", s.Items[2].Activity)
}

func TestAddItemRejectsInvalid(t *testing.T) {
	e, _, _ := newTestEditor(models.DefaultState())
	s := e.Create()

	_, err := e.AddItem(s, ItemCandidate{Time: "25:00", Activity: "x", Duration: "1h"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, s.Items)
}

func TestRemoveItem(t *testing.T) {
	e, _, _ := newTestEditor(models.DefaultState())
	s := e.Create()

	a, err := e.AddItem(s, ItemCandidate{Time: "08:00", Activity: "a", Duration: "1h"})
	require.NoError(t, err)
	b, err := e.AddItem(s, ItemCandidate{Time: "09:00", Activity: "b", Duration: "1h"})
	require.NoError(t, err)

	e.RemoveItem(s, "missing")
	assert.Len(t, s.Items, 2)

	e.RemoveItem(s, a.ID)
	require.Len(t, s.Items, 1)
	assert.Equal(t, b.ID, s.Items[0].ID)
}

func TestRejectOverlaps(t *testing.T) {
	e, r, _ := newTestEditor(models.DefaultState())
	e.SetRejectOverlaps(true)

	a := e.Create()
	require.NoError(t, e.ToggleDay(a, 1))
	require.NoError(t, e.Save(a))

	b := e.Create()
	require.NoError(t, e.ToggleDay(b, 1))
	require.NoError(t, e.ToggleDay(b, 2))
	err := e.Save(b)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Len(t, r.Schedules(), 1)

	// Re-saving the same schedule is not an overlap with itself.
	require.NoError(t, e.Save(a))
}

func TestPersistErrorIsReturnedAfterCommit(t *testing.T) {
	e, r, saver := newTestEditor(models.DefaultState())
	saver.err = errors.New("disk full")

	require.Error(t, e.SetActive(true))
	assert.True(t, r.Active())

	saver.err = nil
	require.NoError(t, e.SetSoundEnabled(false))
	last := saver.saved[len(saver.saved)-1]
	assert.True(t, last.Active)
	assert.False(t, last.SoundEnabled)
}

func TestSaveNormalizesDirectlyAssignedItems(t *testing.T) {
	e, r, saver := newTestEditor(models.DefaultState())

	s := e.Create()
	require.NoError(t, e.ToggleDay(s, 2))
	s.Items = []models.ScheduleItem{
		{ID: "a", Time: "09:00", Activity: "Estudo", Category: models.CategoryStudy, Duration: "2h"},
		{ID: "b", Time: " 10:15", Activity: " Pausa ", Duration: "15min "},
		{ID: "c", Time: "07:30", Activity: "Café", Category: "Break", Duration: "30min"},
	}
	require.NoError(t, e.Save(s))

	items := r.ResolveForDay(2).Items
	require.Len(t, items, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{items[0].ID, items[1].ID, items[2].ID})
	assert.Equal(t, models.ScheduleItem{ID: "b", Time: "10:15", Activity: "Pausa", Category: models.CategoryStudy, Duration: "15min"}, items[2])
	assert.Equal(t, models.CategoryBreak, items[0].Category)

	persisted := saver.saved[len(saver.saved)-1].CustomSchedules[0].Items
	assert.Equal(t, items, persisted)
}

func TestSaveRejectsMissingOrDuplicateItemIDs(t *testing.T) {
	e, r, _ := newTestEditor(models.DefaultState())

	s := e.Create()
	require.NoError(t, e.ToggleDay(s, 4))
	s.Items = []models.ScheduleItem{
		{ID: "a", Time: "09:00", Activity: "x", Duration: "1h"},
		{ID: "a", Time: "10:00", Activity: "y", Duration: "1h"},
	}
	err := e.Save(s)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "item a: duplicate id")

	s.Items = []models.ScheduleItem{{Time: "09:00", Activity: "x", Duration: "1h"}}
	err = e.Save(s)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "id is required")

	assert.Empty(t, r.Schedules())
}
