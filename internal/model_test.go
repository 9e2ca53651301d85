package internal

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_KeepsUnsetFields(t *testing.T) {
	e := TimesheetEntry{ID: 9, WeekNumber: 1, Date: "2024-01-08", Project: "Alpha", TypeOfWork: "Design", Description: "Kickoff", Hours: 4}
	hours := 6.5
	got := e.Apply(EntryPatch{Hours: &hours})

	assert.Equal(t, 6.5, got.Hours)
	assert.Equal(t, int64(9), got.ID)
	assert.Equal(t, "Kickoff", got.Description)
	assert.Equal(t, "Alpha", got.Project)
	assert.Equal(t, 4.0, e.Hours, "receiver must not change")
}

func TestEntryPatch_EmptyAndNormalize(t *testing.T) {
	assert.True(t, EntryPatch{}.Empty())

	d := "  review  "
	p := EntryPatch{Description: &d}
	assert.False(t, p.Empty())
	p.Normalize()
	assert.Equal(t, "review", *p.Description)
}

func TestISOWeek(t *testing.T) {
	w, err := ISOWeek("2024-01-08")
	require.NoError(t, err)
	assert.Equal(t, 2, w)

	_, err = ISOWeek("08/01/2024")
	assert.Error(t, err)
}

func TestValidationError(t *testing.T) {
	ve := NewValidationError()
	assert.False(t, ve.HasErrors())
	ve.Add("hours", "Hours cannot exceed 24")
	ve.Add("hours", "ignored")
	ve.Add("date", "Date is required")

	assert.True(t, errors.Is(ve, errors.NotValid))
	assert.Equal(t, "validation failed: date: Date is required; hours: Hours cannot exceed 24", ve.Error())
}
